package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/port"
)

// NPM bumps package.json, packs a tarball and publishes to the registry.
type NPM struct {
	publish    bool
	pkgRoot    string
	tarballDir string
	runner     port.CommandRunner
	getenv     func(string) string
	logger     *slog.Logger
}

func NewNPM(opts Options, deps Deps) (port.Plugin, error) {
	n := &NPM{runner: deps.Runner, getenv: deps.Getenv, logger: deps.Logger}
	var err error
	if n.publish, err = opts.Bool("npmPublish", true); err != nil {
		return nil, err
	}
	if n.pkgRoot, err = opts.String("pkgRoot", "."); err != nil {
		return nil, err
	}
	if n.tarballDir, err = opts.OptionalString("tarballDir"); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *NPM) Name() string { return NPMName }

func (n *NPM) pkgDir(rc *domain.ReleaseContext) string {
	return filepath.Join(rc.CWD, n.pkgRoot)
}

func (n *NPM) VerifyConditions(ctx context.Context, rc *domain.ReleaseContext) error {
	manifest := filepath.Join(n.pkgDir(rc), "package.json")
	if _, err := os.Stat(manifest); err != nil {
		return fmt.Errorf("missing package.json: %w", err)
	}
	if n.publish && n.getenv("NPM_TOKEN") == "" {
		return fmt.Errorf("no npm token specified, set NPM_TOKEN")
	}
	return nil
}

func (n *NPM) Prepare(ctx context.Context, rc *domain.ReleaseContext) error {
	version := rc.NextRelease.Version
	if _, err := n.runner.Run(ctx, n.pkgDir(rc), "npm", "version", version, "--no-git-tag-version", "--allow-same-version"); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	n.logger.Info("wrote version to package.json", "version", version, "dir", n.pkgDir(rc))

	if n.tarballDir == "" {
		return nil
	}
	dest := filepath.Join(rc.CWD, n.tarballDir)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("ensure tarball dir: %w", err)
	}
	if _, err := n.runner.Run(ctx, rc.CWD, "npm", "pack", n.pkgDir(rc), "--pack-destination", dest); err != nil {
		return fmt.Errorf("pack: %w", err)
	}
	n.logger.Info("created package tarball", "dir", dest)
	return nil
}

func (n *NPM) Publish(ctx context.Context, rc *domain.ReleaseContext) error {
	if !n.publish {
		n.logger.Info("skip publishing to npm registry as npmPublish is false")
		return nil
	}
	distTag := rc.NextRelease.Channel
	if distTag == "" {
		distTag = "latest"
	}
	if _, err := n.runner.Run(ctx, rc.CWD, "npm", "publish", n.pkgDir(rc), "--tag", distTag); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	n.logger.Info("published to npm registry", "version", rc.NextRelease.Version, "tag", distTag)
	return nil
}
