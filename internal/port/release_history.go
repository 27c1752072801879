package port

import (
	"context"

	"github.com/rl1809/packdemo/internal/core/domain"
)

type ReleaseHistory interface {
	// CreateRelease persists a new pending release
	CreateRelease(ctx context.Context, release domain.Release) error

	// GetRelease retrieves a release by ID, nil when missing
	GetRelease(ctx context.Context, id string) (*domain.Release, error)

	// LatestRelease returns the newest published release on a branch, nil when none
	LatestRelease(ctx context.Context, branch string) (*domain.Release, error)

	// UpdateRelease updates status and notes with revision check for optimistic locking
	UpdateRelease(ctx context.Context, release domain.Release) error
}
