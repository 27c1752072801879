package port

import (
	"context"

	"github.com/rl1809/packdemo/internal/core/domain"
)

type GitRepository interface {
	// CurrentBranch returns the checked out branch name
	CurrentBranch(ctx context.Context) (string, error)

	// Head returns the commit hash of HEAD
	Head(ctx context.Context) (string, error)

	// MergedTags lists tags reachable from HEAD
	MergedTags(ctx context.Context) ([]string, error)

	// TagHead resolves a tag to the commit it points at
	TagHead(ctx context.Context, tag string) (string, error)

	// CommitsSince lists commits after ref up to HEAD, newest first; empty ref means all history
	CommitsSince(ctx context.Context, ref string) ([]domain.Commit, error)

	// Add stages the given paths, ignoring ones git refuses
	Add(ctx context.Context, paths []string) error

	// HasStagedChanges reports whether the index differs from HEAD
	HasStagedChanges(ctx context.Context) (bool, error)

	// Commit records the index with message
	Commit(ctx context.Context, message string) error

	// Tag creates a lightweight tag at ref
	Tag(ctx context.Context, name, ref string) error

	// Push pushes a branch or tag ref to the remote
	Push(ctx context.Context, ref string) error

	// RemoteURL returns the origin URL, empty when unset
	RemoteURL(ctx context.Context) (string, error)
}
