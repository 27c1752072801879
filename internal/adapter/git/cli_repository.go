package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/port"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	remote    = "origin"
)

// CLIRepository drives the git binary in dir.
type CLIRepository struct {
	runner port.CommandRunner
	dir    string
}

func NewCLIRepository(runner port.CommandRunner, dir string) *CLIRepository {
	return &CLIRepository{runner: runner, dir: dir}
}

func (r *CLIRepository) git(ctx context.Context, args ...string) (string, error) {
	out, err := r.runner.Run(ctx, r.dir, "git", args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (r *CLIRepository) CurrentBranch(ctx context.Context) (string, error) {
	branch, err := r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if branch == "HEAD" {
		return "", fmt.Errorf("detached HEAD, pass a branch explicitly")
	}
	return branch, nil
}

func (r *CLIRepository) Head(ctx context.Context) (string, error) {
	return r.git(ctx, "rev-parse", "HEAD")
}

func (r *CLIRepository) MergedTags(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "tag", "--merged", "HEAD")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (r *CLIRepository) TagHead(ctx context.Context, tag string) (string, error) {
	return r.git(ctx, "rev-list", "-1", tag)
}

func (r *CLIRepository) CommitsSince(ctx context.Context, ref string) ([]domain.Commit, error) {
	args := []string{"log", "--format=%H" + fieldSep + "%B" + recordSep}
	if ref != "" {
		args = append(args, ref+"..HEAD")
	}
	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}

	var commits []domain.Commit
	for _, record := range strings.Split(out, recordSep) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		hash, message, ok := strings.Cut(record, fieldSep)
		if !ok {
			return nil, fmt.Errorf("git log: malformed record %q", record)
		}
		commits = append(commits, domain.Commit{
			Hash:    strings.TrimSpace(hash),
			Message: strings.TrimSpace(message),
		})
	}
	return commits, nil
}

func (r *CLIRepository) Add(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--force", "--ignore-errors", "--"}, paths...)
	_, err := r.git(ctx, args...)
	return err
}

func (r *CLIRepository) HasStagedChanges(ctx context.Context) (bool, error) {
	out, err := r.git(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

func (r *CLIRepository) Commit(ctx context.Context, message string) error {
	_, err := r.git(ctx, "commit", "-m", message)
	return err
}

func (r *CLIRepository) Tag(ctx context.Context, name, ref string) error {
	_, err := r.git(ctx, "tag", name, ref)
	return err
}

func (r *CLIRepository) Push(ctx context.Context, ref string) error {
	_, err := r.git(ctx, "push", remote, ref)
	return err
}

func (r *CLIRepository) RemoteURL(ctx context.Context) (string, error) {
	return r.git(ctx, "config", "--default", "", "--get", "remote."+remote+".url")
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
