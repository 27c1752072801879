package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/port"
)

var (
	ErrDuplicateRelease = errors.New("duplicate release")
	ErrNoTagFormat      = errors.New("tag format must contain ${version}")
)

const (
	PhaseVerifyConditions = "verifyConditions"
	PhaseAnalyzeCommits   = "analyzeCommits"
	PhaseGenerateNotes    = "generateNotes"
	PhasePrepare          = "prepare"
	PhasePublish          = "publish"
)

type RunStatus string

const (
	RunStatusSkipped   RunStatus = "skipped"
	RunStatusNoRelease RunStatus = "no_release"
	RunStatusDryRun    RunStatus = "dry_run"
	RunStatusPublished RunStatus = "published"
	RunStatusFailed    RunStatus = "failed"
)

// ReleasePolicy holds the branch and tag settings of the pipeline.
type ReleasePolicy struct {
	Branches      []string
	TagFormat     string
	RepositoryURL string
}

type RunOptions struct {
	Branch string
	DryRun bool
	CWD    string
}

type RunResult struct {
	Status  RunStatus
	Context *domain.ReleaseContext
	Release *domain.Release
}

type ReleaseOption func(*ReleaseService)

type ReleaseService struct {
	policy  ReleasePolicy
	git     port.GitRepository
	ledger  port.ReleaseLedger
	history port.ReleaseHistory
	plugins []port.Plugin
	metrics port.MetricsRecorder
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

func NewReleaseService(policy ReleasePolicy, git port.GitRepository, ledger port.ReleaseLedger, history port.ReleaseHistory, plugins []port.Plugin, opts ...ReleaseOption) (*ReleaseService, error) {
	if policy.TagFormat == "" {
		policy.TagFormat = "v${version}"
	}
	if strings.Count(policy.TagFormat, "${version}") != 1 {
		return nil, ErrNoTagFormat
	}
	if len(policy.Branches) == 0 {
		return nil, fmt.Errorf("release policy: at least one branch is required")
	}

	s := &ReleaseService{
		policy:  policy,
		git:     git,
		ledger:  ledger,
		history: history,
		plugins: plugins,
		metrics: noopMetrics{},
		logger:  slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// WithClock overrides the release timestamp source (tests).
func WithClock(clock func() time.Time) ReleaseOption {
	return func(s *ReleaseService) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithLogger(logger *slog.Logger) ReleaseOption {
	return func(s *ReleaseService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(metrics port.MetricsRecorder) ReleaseOption {
	return func(s *ReleaseService) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithIDGenerator overrides run ID generation (tests).
func WithIDGenerator(gen func() string) ReleaseOption {
	return func(s *ReleaseService) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// Run executes one release of the current branch.
func (s *ReleaseService) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	runID := s.newID()
	logger := s.logger.With("run_id", runID)

	branch := opts.Branch
	if branch == "" {
		current, err := s.git.CurrentBranch(ctx)
		if err != nil {
			return s.finish(RunStatusFailed, nil, nil), fmt.Errorf("detect branch: %w", err)
		}
		branch = current
	}

	cwd := opts.CWD
	if cwd == "" {
		cwd = "."
	}

	rc := &domain.ReleaseContext{
		RunID:         runID,
		Branch:        branch,
		RepositoryURL: s.policy.RepositoryURL,
		CWD:           cwd,
		DryRun:        opts.DryRun,
		Now:           s.now(),
	}

	if !slices.Contains(s.policy.Branches, branch) {
		logger.Info("branch is not configured for release", "branch", branch, "branches", s.policy.Branches)
		return s.finish(RunStatusSkipped, rc, nil), nil
	}

	if rc.RepositoryURL == "" {
		url, err := s.git.RemoteURL(ctx)
		if err != nil {
			logger.Warn("failed to read remote url", "error", err)
		}
		rc.RepositoryURL = url
	}

	for _, p := range s.plugins {
		v, ok := p.(port.ConditionVerifier)
		if !ok {
			continue
		}
		if err := s.step(ctx, logger, p, PhaseVerifyConditions, func() error {
			return v.VerifyConditions(ctx, rc)
		}); err != nil {
			return s.finish(RunStatusFailed, rc, nil), err
		}
	}

	last, err := s.findLastRelease(ctx)
	if err != nil {
		return s.finish(RunStatusFailed, rc, nil), err
	}
	rc.LastRelease = last
	if last.IsZero() {
		logger.Info("no previous release found")
	} else {
		logger.Info("found last release", "version", last.Version, "tag", last.GitTag)
	}

	commits, err := s.git.CommitsSince(ctx, last.GitTag)
	if err != nil {
		return s.finish(RunStatusFailed, rc, nil), fmt.Errorf("list commits: %w", err)
	}
	rc.Commits = commits
	logger.Info("found commits since last release", "count", len(commits))

	releaseType := domain.ReleaseTypeNone
	for _, p := range s.plugins {
		a, ok := p.(port.CommitAnalyzer)
		if !ok {
			continue
		}
		if err := s.step(ctx, logger, p, PhaseAnalyzeCommits, func() error {
			t, err := a.AnalyzeCommits(ctx, rc)
			releaseType = releaseType.Max(t)
			return err
		}); err != nil {
			return s.finish(RunStatusFailed, rc, nil), err
		}
	}
	if releaseType == domain.ReleaseTypeNone {
		logger.Info("no relevant changes, no release")
		return s.finish(RunStatusNoRelease, rc, nil), nil
	}

	version, err := domain.NextVersion(last.Version, releaseType)
	if err != nil {
		return s.finish(RunStatusFailed, rc, nil), err
	}
	head, err := s.git.Head(ctx)
	if err != nil {
		return s.finish(RunStatusFailed, rc, nil), fmt.Errorf("resolve head: %w", err)
	}
	rc.NextRelease = domain.NextRelease{
		Type:    releaseType,
		Version: version,
		GitTag:  domain.FormatTag(s.policy.TagFormat, version),
		GitHead: head,
	}
	logger.Info("next release computed", "type", releaseType, "version", version)

	notes, err := s.generateNotes(ctx, logger, rc)
	if err != nil {
		return s.finish(RunStatusFailed, rc, nil), err
	}
	rc.NextRelease.Notes = notes

	if rc.DryRun {
		logger.Info("dry run, skipping prepare and publish", "version", version)
		return s.finish(RunStatusDryRun, rc, nil), nil
	}

	claimKey := fmt.Sprintf("release:%s:%s", branch, version)
	ok, err := s.ledger.ClaimRelease(ctx, claimKey)
	if err != nil {
		return s.finish(RunStatusFailed, rc, nil), fmt.Errorf("claim release failed: %w", err)
	}
	if !ok {
		return s.finish(RunStatusFailed, rc, nil), fmt.Errorf("%w: %s on %s", ErrDuplicateRelease, version, branch)
	}

	release := domain.Release{
		ID:        runID,
		Branch:    branch,
		Version:   version,
		GitTag:    rc.NextRelease.GitTag,
		GitHead:   head,
		Type:      releaseType,
		Notes:     notes,
		Status:    domain.ReleaseStatusPending,
		CreatedAt: rc.Now,
		UpdatedAt: rc.Now,
	}
	if err := s.history.CreateRelease(ctx, release); err != nil {
		s.rollbackClaim(ctx, logger, claimKey)
		return s.finish(RunStatusFailed, rc, nil), fmt.Errorf("record release: %w", err)
	}

	if err := s.prepareAndPublish(ctx, logger, rc); err != nil {
		s.rollbackClaim(ctx, logger, claimKey)
		release.Status = domain.ReleaseStatusFailed
		release.UpdatedAt = s.now()
		if updateErr := s.history.UpdateRelease(context.WithoutCancel(ctx), release); updateErr != nil {
			logger.Error("failed to mark release failed", "version", version, "error", updateErr)
		} else {
			release.Revision++
		}
		return s.finish(RunStatusFailed, rc, &release), err
	}

	release.Status = domain.ReleaseStatusPublished
	release.GitHead = rc.NextRelease.GitHead
	release.UpdatedAt = s.now()
	if err := s.history.UpdateRelease(ctx, release); err != nil {
		// The tag is already pushed; the release stands even if history lags.
		logger.Error("failed to mark release published", "version", version, "error", err)
	} else {
		release.Revision++
	}

	logger.Info("published release", "version", version, "tag", rc.NextRelease.GitTag)
	return s.finish(RunStatusPublished, rc, &release), nil
}

// LatestRecorded returns the newest published release recorded for branch.
func (s *ReleaseService) LatestRecorded(ctx context.Context, branch string) (*domain.Release, error) {
	release, err := s.history.LatestRelease(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("latest release: %w", err)
	}
	return release, nil
}

// Recorded returns a release run by ID, nil when unknown.
func (s *ReleaseService) Recorded(ctx context.Context, id string) (*domain.Release, error) {
	release, err := s.history.GetRelease(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get release: %w", err)
	}
	return release, nil
}

func (s *ReleaseService) findLastRelease(ctx context.Context) (domain.LastRelease, error) {
	tags, err := s.git.MergedTags(ctx)
	if err != nil {
		return domain.LastRelease{}, fmt.Errorf("list tags: %w", err)
	}

	var last domain.LastRelease
	for _, tag := range tags {
		version, ok := domain.ParseTag(s.policy.TagFormat, tag)
		// release branches only build on full releases
		if !ok || domain.IsPrerelease(version) {
			continue
		}
		if last.IsZero() || domain.CompareVersions(version, last.Version) > 0 {
			last = domain.LastRelease{Version: version, GitTag: tag}
		}
	}
	if last.IsZero() {
		return last, nil
	}

	head, err := s.git.TagHead(ctx, last.GitTag)
	if err != nil {
		return domain.LastRelease{}, fmt.Errorf("resolve tag %s: %w", last.GitTag, err)
	}
	last.GitHead = head
	return last, nil
}

func (s *ReleaseService) generateNotes(ctx context.Context, logger *slog.Logger, rc *domain.ReleaseContext) (string, error) {
	var parts []string
	for _, p := range s.plugins {
		g, ok := p.(port.NotesGenerator)
		if !ok {
			continue
		}
		if err := s.step(ctx, logger, p, PhaseGenerateNotes, func() error {
			notes, err := g.GenerateNotes(ctx, rc)
			if strings.TrimSpace(notes) != "" {
				parts = append(parts, strings.TrimSpace(notes))
			}
			return err
		}); err != nil {
			return "", err
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func (s *ReleaseService) prepareAndPublish(ctx context.Context, logger *slog.Logger, rc *domain.ReleaseContext) error {
	for _, p := range s.plugins {
		pr, ok := p.(port.Preparer)
		if !ok {
			continue
		}
		if err := s.step(ctx, logger, p, PhasePrepare, func() error {
			return pr.Prepare(ctx, rc)
		}); err != nil {
			return err
		}
	}

	// Prepare steps may commit, so the tag goes on the new HEAD.
	head, err := s.git.Head(ctx)
	if err != nil {
		return fmt.Errorf("resolve head: %w", err)
	}
	rc.NextRelease.GitHead = head

	if err := s.git.Tag(ctx, rc.NextRelease.GitTag, head); err != nil {
		return fmt.Errorf("create tag %s: %w", rc.NextRelease.GitTag, err)
	}
	if err := s.git.Push(ctx, rc.NextRelease.GitTag); err != nil {
		return fmt.Errorf("push tag %s: %w", rc.NextRelease.GitTag, err)
	}
	logger.Info("created tag", "tag", rc.NextRelease.GitTag, "head", head)

	for _, p := range s.plugins {
		pub, ok := p.(port.Publisher)
		if !ok {
			continue
		}
		if err := s.step(ctx, logger, p, PhasePublish, func() error {
			return pub.Publish(ctx, rc)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReleaseService) step(ctx context.Context, logger *slog.Logger, p port.Plugin, phase string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	s.metrics.StepFinished(p.Name(), phase, err, time.Since(start))
	if err != nil {
		logger.Error("step failed", "plugin", p.Name(), "phase", phase, "error", err)
		return fmt.Errorf("plugin %s %s: %w", p.Name(), phase, err)
	}
	logger.Debug("step completed", "plugin", p.Name(), "phase", phase)
	return nil
}

func (s *ReleaseService) rollbackClaim(ctx context.Context, logger *slog.Logger, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.ledger.ReleaseClaim(ctx, key); err != nil {
		logger.Error("CRITICAL rollback failed for release claim", "key", key, "error", err)
		return
	}
	logger.Info("rolled back release claim", "key", key)
}

func (s *ReleaseService) finish(status RunStatus, rc *domain.ReleaseContext, release *domain.Release) *RunResult {
	s.metrics.ReleaseFinished(string(status))
	return &RunResult{Status: status, Context: rc, Release: release}
}
