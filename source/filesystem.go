package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/ragforge/core"
)

// supportedExtensions is the allow-list of file types considered documents.
var supportedExtensions = map[string]bool{
	".txt": true, ".md": true, ".markdown": true,
	".html": true, ".htm": true,
	".json": true, ".yaml": true, ".yml": true,
	".rst": true, ".csv": true, ".xml": true,
}

// FilesystemFetcher reads documents from a local path or mounted volume.
// Directories are scanned recursively; files outside the extension
// allow-list are ignored. Files are read through a bounded worker pool,
// and single unreadable files are logged and skipped.
type FilesystemFetcher struct {
	readers int
	logger  *slog.Logger
}

// FilesystemOption configures a FilesystemFetcher.
type FilesystemOption func(*FilesystemFetcher)

// WithReaders sets the number of concurrent file readers.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithReaders(n int) FilesystemOption {
	return func(f *FilesystemFetcher) {
		if n > 0 {
			f.readers = n
		}
	}
}

// NewFilesystemFetcher creates a filesystem fetcher.
func NewFilesystemFetcher(opts ...FilesystemOption) *FilesystemFetcher {
	readers := runtime.NumCPU() / 2
	if readers < 1 {
		readers = 1
	}

	f := &FilesystemFetcher{
		readers: readers,
		logger:  slog.Default().With("component", "filesystem-source"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch loads documents from a path. Accepted URI forms are bare paths,
// file://path and pvc://volume-name/path (the volume name is dropped; the
// remainder is the mount-relative path).
func (f *FilesystemFetcher) Fetch(ctx context.Context, uri string) ([]core.Document, error) {
	root := resolvePath(uri)

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, root)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnreachable, root, err)
	}

	var paths []string
	if info.IsDir() {
		paths, err = f.scan(root)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnreachable, root, err)
		}
	} else {
		paths = []string{root}
	}

	docs, err := f.readAll(ctx, root, info.IsDir(), paths)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDocuments, root)
	}

	f.logger.Info("loaded documents from path", "path", root, "documents", len(docs))
	return docs, nil
}

// scan walks root collecting allow-listed files in deterministic
// (lexical walk) order.
func (f *FilesystemFetcher) scan(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			f.logger.Warn("skipping unreadable entry", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// readAll reads the files through the worker pool, preserving path order.
func (f *FilesystemFetcher) readAll(ctx context.Context, root string, isDir bool, paths []string) ([]core.Document, error) {
	pool, err := ants.NewPool(f.readers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]*core.Document, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			doc, err := f.readFile(root, isDir, path)
			if err != nil {
				f.logger.Warn("failed to read file, skipping", "path", path, "err", err)
				return
			}
			results[i] = doc
		})
		if submitErr != nil {
			wg.Done()
			f.logger.Warn("failed to schedule file read, skipping", "path", path, "err", submitErr)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]core.Document, 0, len(results))
	for _, doc := range results {
		if doc != nil {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

// readFile reads a single file into a Document. The document ID is the
// path relative to the fetch root so IDs stay unique within one fetch.
func (f *FilesystemFetcher) readFile(root string, isDir bool, path string) (*core.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	id := filepath.Base(path)
	if isDir {
		if rel, err := filepath.Rel(root, path); err == nil {
			id = filepath.ToSlash(rel)
		}
	}

	return &core.Document{
		ID:   id,
		Text: string(content),
		Metadata: map[string]string{
			"source":    path,
			"filename":  filepath.Base(path),
			"extension": filepath.Ext(path),
		},
	}, nil
}

// resolvePath strips the URI scheme from filesystem-style URIs.
func resolvePath(uri string) string {
	if rest, ok := strings.CutPrefix(uri, "file://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(uri, "pvc://"); ok {
		// pvc://volume-name/path addresses a mounted volume by the path
		// after the volume name.
		if _, path, found := strings.Cut(rest, "/"); found {
			return "/" + path
		}
		return "/"
	}
	return uri
}
