package port

import (
	"context"

	"github.com/rl1809/packdemo/internal/core/domain"
)

// Plugin is a release step. A plugin joins a lifecycle phase by implementing
// the matching hook interface below; phases call hooks in configured order.
type Plugin interface {
	Name() string
}

type ConditionVerifier interface {
	VerifyConditions(ctx context.Context, rc *domain.ReleaseContext) error
}

type CommitAnalyzer interface {
	AnalyzeCommits(ctx context.Context, rc *domain.ReleaseContext) (domain.ReleaseType, error)
}

type NotesGenerator interface {
	GenerateNotes(ctx context.Context, rc *domain.ReleaseContext) (string, error)
}

type Preparer interface {
	Prepare(ctx context.Context, rc *domain.ReleaseContext) error
}

type Publisher interface {
	Publish(ctx context.Context, rc *domain.ReleaseContext) error
}
