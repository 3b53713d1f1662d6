package job

import (
	"context"

	"github.com/poiesic/ragforge/core"
	"github.com/poiesic/ragforge/index"
)

// mockStore is a test double for index.Store with injectable behaviour.
type mockStore struct {
	EnsureCollectionFunc func(ctx context.Context, dimension int) error
	UpsertFunc           func(ctx context.Context, points []core.Point) error
	CollectionInfoFunc   func(ctx context.Context) (core.CollectionInfo, error)
	CreateAliasFunc      func(ctx context.Context, alias string) error
	SwitchAliasFunc      func(ctx context.Context, alias string) error
	ApplyIndexParamsFunc func(ctx context.Context, params core.IndexParams) error

	ensureCalls int
	upsertCalls int
	switchCalls int
	upserted    []core.Point
}

var _ index.Store = (*mockStore)(nil)

func (m *mockStore) EnsureCollection(ctx context.Context, dimension int) error {
	m.ensureCalls++
	if m.EnsureCollectionFunc != nil {
		return m.EnsureCollectionFunc(ctx, dimension)
	}
	return nil
}

func (m *mockStore) Upsert(ctx context.Context, points []core.Point) error {
	m.upsertCalls++
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, points)
	}
	m.upserted = append(m.upserted, points...)
	return nil
}

func (m *mockStore) CollectionInfo(ctx context.Context) (core.CollectionInfo, error) {
	if m.CollectionInfoFunc != nil {
		return m.CollectionInfoFunc(ctx)
	}
	return core.CollectionInfo{}, nil
}

func (m *mockStore) CreateAlias(ctx context.Context, alias string) error {
	if m.CreateAliasFunc != nil {
		return m.CreateAliasFunc(ctx, alias)
	}
	return nil
}

func (m *mockStore) SwitchAlias(ctx context.Context, alias string) error {
	m.switchCalls++
	if m.SwitchAliasFunc != nil {
		return m.SwitchAliasFunc(ctx, alias)
	}
	return nil
}

func (m *mockStore) ListAliases(ctx context.Context) ([]core.Alias, error) {
	return nil, nil
}

func (m *mockStore) ApplyIndexParams(ctx context.Context, params core.IndexParams) error {
	if m.ApplyIndexParamsFunc != nil {
		return m.ApplyIndexParamsFunc(ctx, params)
	}
	return nil
}

func (m *mockStore) HealthCheck(ctx context.Context) bool {
	return true
}
