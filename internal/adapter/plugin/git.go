package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/core/template"
	"github.com/rl1809/packdemo/internal/port"
)

const defaultGitMessage = "chore(release): ${nextRelease.version} [skip ci]\n\n${nextRelease.notes}"

var defaultGitAssets = []string{"CHANGELOG.md", "package.json", "package-lock.json", "npm-shrinkwrap.json"}

// Git commits release assets back to the release branch.
type Git struct {
	assets  []string
	message string
	git     port.GitRepository
	logger  *slog.Logger
}

func NewGit(opts Options, deps Deps) (port.Plugin, error) {
	assets, err := opts.StringSlice("assets", defaultGitAssets)
	if err != nil {
		return nil, err
	}
	message, err := opts.String("message", defaultGitMessage)
	if err != nil {
		return nil, err
	}
	for _, pattern := range assets {
		if !doublestar.ValidatePattern(strings.TrimPrefix(pattern, "!")) {
			return nil, fmt.Errorf("invalid asset pattern %q", pattern)
		}
	}
	return &Git{assets: assets, message: message, git: deps.Git, logger: deps.Logger}, nil
}

func (g *Git) Name() string { return GitName }

func (g *Git) VerifyConditions(ctx context.Context, rc *domain.ReleaseContext) error {
	if strings.TrimSpace(g.message) == "" {
		return fmt.Errorf("message must be a non-empty template")
	}
	return nil
}

func (g *Git) Prepare(ctx context.Context, rc *domain.ReleaseContext) error {
	files, err := expandAssets(rc.CWD, g.assets)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		g.logger.Info("no release assets matched", "patterns", g.assets)
		return nil
	}
	if err := g.git.Add(ctx, files); err != nil {
		return fmt.Errorf("stage assets: %w", err)
	}
	staged, err := g.git.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if !staged {
		g.logger.Info("release assets unchanged, nothing to commit")
		return nil
	}

	message, err := template.RenderString(g.message, rc.TemplateVars())
	if err != nil {
		return err
	}
	if err := g.git.Commit(ctx, message); err != nil {
		return fmt.Errorf("commit assets: %w", err)
	}
	if err := g.git.Push(ctx, "HEAD:refs/heads/"+rc.Branch); err != nil {
		return fmt.Errorf("push %s: %w", rc.Branch, err)
	}
	g.logger.Info("prepared git release", "version", rc.NextRelease.Version, "files", len(files))
	return nil
}

// expandAssets resolves glob patterns relative to dir. Patterns starting
// with "!" remove earlier matches.
func expandAssets(dir string, patterns []string) ([]string, error) {
	fsys := os.DirFS(dir)
	selected := map[string]bool{}
	for _, pattern := range patterns {
		negate := strings.HasPrefix(pattern, "!")
		pattern = strings.TrimPrefix(strings.TrimPrefix(pattern, "!"), "./")
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		for _, m := range matches {
			if negate {
				delete(selected, m)
			} else {
				selected[m] = true
			}
		}
	}
	files := make([]string, 0, len(selected))
	for f := range selected {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}
