package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/poiesic/ragforge/core"
)

// ObjectConfig holds connection details for an S3-compatible endpoint.
type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// ObjectFetcher lists an object-storage prefix and downloads every
// allow-listed object under it. Single unreadable objects are logged and
// skipped.
type ObjectFetcher struct {
	client *minio.Client
	logger *slog.Logger
}

// NewObjectFetcher creates an object-storage fetcher for the endpoint.
func NewObjectFetcher(cfg ObjectConfig) (*ObjectFetcher, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnreachable, cfg.Endpoint, err)
	}

	return &ObjectFetcher{
		client: client,
		logger: slog.Default().With("component", "object-source"),
	}, nil
}

// Fetch lists s3://bucket/prefix and downloads each supported object.
func (f *ObjectFetcher) Fetch(ctx context.Context, uri string) ([]core.Document, error) {
	bucket, prefix, err := parseObjectURI(uri)
	if err != nil {
		return nil, err
	}

	f.logger.Info("listing object storage", "bucket", bucket, "prefix", prefix)

	var docs []core.Document
	for obj := range f.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("%w: s3://%s/%s: %v", ErrSourceUnreachable, bucket, prefix, obj.Err)
		}
		if !supportedExtensions[strings.ToLower(filepath.Ext(obj.Key))] {
			continue
		}

		text, err := f.download(ctx, bucket, obj.Key)
		if err != nil {
			f.logger.Warn("failed to fetch object, skipping", "key", obj.Key, "err", err)
			continue
		}

		docs = append(docs, core.Document{
			ID:   obj.Key,
			Text: text,
			Metadata: map[string]string{
				"source":    fmt.Sprintf("s3://%s/%s", bucket, obj.Key),
				"bucket":    bucket,
				"key":       obj.Key,
				"size":      strconv.FormatInt(obj.Size, 10),
				"extension": filepath.Ext(obj.Key),
			},
		})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: s3://%s/%s", ErrNoDocuments, bucket, prefix)
	}

	f.logger.Info("loaded documents from object storage", "bucket", bucket, "documents", len(docs))
	return docs, nil
}

func (f *ObjectFetcher) download(ctx context.Context, bucket, key string) (string, error) {
	obj, err := f.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseObjectURI splits s3://bucket/prefix into its parts.
func parseObjectURI(uri string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: not an s3 uri: %s", ErrUnsupportedSourceKind, uri)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%w: missing bucket: %s", ErrSourceNotFound, uri)
	}
	return bucket, prefix, nil
}
