package plugin

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rl1809/packdemo/internal/core/domain"
)

// Mock CommandRunner
type mockRunner struct {
	calls  []string
	dirs   []string
	failOn string
}

func (m *mockRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return m.record(dir, name+" "+strings.Join(args, " "))
}

func (m *mockRunner) Shell(ctx context.Context, dir string, script string) (string, error) {
	return m.record(dir, script)
}

func (m *mockRunner) record(dir, cmd string) (string, error) {
	m.calls = append(m.calls, cmd)
	m.dirs = append(m.dirs, dir)
	if m.failOn != "" && strings.Contains(cmd, m.failOn) {
		return "", io.ErrUnexpectedEOF
	}
	return "", nil
}

// Mock GitRepository
type mockGit struct {
	added   []string
	staged  bool
	message string
	pushed  []string
}

func (m *mockGit) CurrentBranch(ctx context.Context) (string, error)       { return "main", nil }
func (m *mockGit) Head(ctx context.Context) (string, error)                { return "abc", nil }
func (m *mockGit) MergedTags(ctx context.Context) ([]string, error)        { return nil, nil }
func (m *mockGit) TagHead(ctx context.Context, tag string) (string, error) { return "", nil }
func (m *mockGit) Tag(ctx context.Context, name, ref string) error         { return nil }
func (m *mockGit) RemoteURL(ctx context.Context) (string, error)           { return "", nil }
func (m *mockGit) HasStagedChanges(ctx context.Context) (bool, error)      { return m.staged, nil }
func (m *mockGit) CommitsSince(ctx context.Context, ref string) ([]domain.Commit, error) {
	return nil, nil
}

func (m *mockGit) Add(ctx context.Context, paths []string) error {
	m.added = append(m.added, paths...)
	m.staged = m.staged || len(paths) > 0
	return nil
}

func (m *mockGit) Commit(ctx context.Context, message string) error {
	m.message = message
	return nil
}

func (m *mockGit) Push(ctx context.Context, ref string) error {
	m.pushed = append(m.pushed, ref)
	return nil
}

func testDeps(runner *mockRunner, git *mockGit, env map[string]string) Deps {
	return Deps{
		Git:    git,
		Runner: runner,
		Getenv: func(k string) string { return env[k] },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}.withDefaults()
}

func testContext(cwd string) *domain.ReleaseContext {
	return &domain.ReleaseContext{
		RunID:         "run-1",
		Branch:        "main",
		RepositoryURL: "git@github.com:shanmukh/packdemo.git",
		CWD:           cwd,
		LastRelease:   domain.LastRelease{Version: "1.0.0", GitTag: "v1.0.0"},
		NextRelease: domain.NextRelease{
			Type:    domain.ReleaseTypeMinor,
			Version: "1.1.0",
			GitTag:  "v1.1.0",
			Notes:   "# 1.1.0 (2026-10-16)\n\n### Features\n\n* add vehicles",
		},
		Now: time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
	}
}
