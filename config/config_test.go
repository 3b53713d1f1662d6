package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.Chunking.ChunkSize)
	assert.Equal(t, 100, cfg.Chunking.Overlap)
	assert.Equal(t, 16, cfg.Embedding.BatchSize)
	assert.Equal(t, 3, cfg.Embedding.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Embedding.BaseDelay)
	assert.Equal(t, "qdrant", cfg.Index.Type)
	assert.Equal(t, 5*time.Second, cfg.Job.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.Job.MaxWait)
}

func TestLoadFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  uri: file:///data/docs
chunking:
  chunk_size: 256
  overlap: 32
embedding:
  model: embeddinggemma
  dimension: 768
index:
  type: badger
  collection: docs_v3
  alias: docs
  params:
    m: 16
  badger:
    path: /var/lib/ragforge
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file:///data/docs", cfg.Source.URI)
	assert.Equal(t, 256, cfg.Chunking.ChunkSize)
	assert.Equal(t, 32, cfg.Chunking.Overlap)
	assert.Equal(t, "embeddinggemma", cfg.Embedding.Model)
	assert.Equal(t, 768, cfg.Embedding.Dimension)
	assert.Equal(t, "badger", cfg.Index.Type)
	assert.Equal(t, "docs_v3", cfg.Index.Collection)
	assert.Equal(t, map[string]int{"m": 16}, cfg.Index.Params)
	require.NotNil(t, cfg.Index.Badger)
	assert.Equal(t, "/var/lib/ragforge", cfg.Index.Badger.Path)

	assert.Equal(t, 16, cfg.Embedding.BatchSize, "unset fields keep defaults")
	assert.Equal(t, 5*time.Second, cfg.Job.PollInterval)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QDRANT_URL", "http://qdrant.internal:6333")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("EMBEDDING_DIMENSION", "384")
	t.Setenv("INDEX_ALIAS", "docs")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://qdrant.internal:6333", cfg.Index.Qdrant.URL)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, 384, cfg.Embedding.Dimension)
	assert.Equal(t, "docs", cfg.Index.Alias)
}

func TestEnvOverridesBeatFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
embedding:
  model: from-file
`), 0o644))
	t.Setenv("EMBEDDING_MODEL", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Embedding.Model)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml:::"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
