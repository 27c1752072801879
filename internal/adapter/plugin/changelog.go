package plugin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/port"
)

// Changelog prepends the release notes to a changelog file.
type Changelog struct {
	file   string
	title  string
	logger *slog.Logger
}

func NewChangelog(opts Options, deps Deps) (port.Plugin, error) {
	file, err := opts.String("changelogFile", "CHANGELOG.md")
	if err != nil {
		return nil, err
	}
	title, err := opts.String("changelogTitle", "")
	if err != nil {
		return nil, err
	}
	return &Changelog{file: file, title: title, logger: deps.Logger}, nil
}

func (c *Changelog) Name() string { return ChangelogName }

func (c *Changelog) VerifyConditions(ctx context.Context, rc *domain.ReleaseContext) error {
	if strings.TrimSpace(c.file) == "" {
		return fmt.Errorf("changelogFile must be a non-empty path")
	}
	return nil
}

func (c *Changelog) Prepare(ctx context.Context, rc *domain.ReleaseContext) error {
	path := c.file
	if !filepath.IsAbs(path) {
		path = filepath.Join(rc.CWD, path)
	}

	current := ""
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		current = strings.TrimSpace(string(data))
	case errors.Is(err, fs.ErrNotExist):
		c.logger.Info("creating changelog", "path", path)
	default:
		return fmt.Errorf("read changelog: %w", err)
	}

	out := renderChangelog(c.title, rc.NextRelease.Notes, current)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure changelog dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write changelog: %w", err)
	}
	c.logger.Info("updated changelog", "path", path, "version", rc.NextRelease.Version)
	return nil
}

func renderChangelog(title, notes, current string) string {
	if title != "" && strings.HasPrefix(current, title) {
		current = strings.TrimSpace(current[len(title):])
	}
	content := strings.TrimSpace(notes) + "\n"
	if current != "" {
		content += "\n" + current + "\n"
	}
	if title != "" {
		return title + "\n\n" + content
	}
	return content
}
