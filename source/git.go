package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/poiesic/ragforge/core"
)

// GitFetcher shallow-clones a repository into a temporary directory and
// runs the filesystem fetcher over the working tree. The clone is removed
// when the fetch returns.
type GitFetcher struct {
	files  *FilesystemFetcher
	logger *slog.Logger
}

// NewGitFetcher creates a git fetcher.
func NewGitFetcher() *GitFetcher {
	return &GitFetcher{
		files:  NewFilesystemFetcher(),
		logger: slog.Default().With("component", "git-source"),
	}
}

// Fetch clones uri with --depth 1 and loads the repository's documents.
// The URI may carry a git:// scheme prefix in front of the real clone URL
// (git://https://host/repo.git).
func (f *GitFetcher) Fetch(ctx context.Context, uri string) ([]core.Document, error) {
	cloneURL := strings.TrimPrefix(uri, "git://")

	dir, err := os.MkdirTemp("", "ragforge-git-")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}
	defer os.RemoveAll(dir)

	f.logger.Info("cloning repository", "repo", cloneURL)

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", cloneURL, dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: git clone %s: %v: %s", ErrSourceUnreachable, cloneURL, err, strings.TrimSpace(string(out)))
	}

	docs, err := f.files.Fetch(ctx, dir)
	if err != nil {
		return nil, err
	}

	for i := range docs {
		docs[i].Metadata["git_repo"] = cloneURL
	}
	return docs, nil
}
