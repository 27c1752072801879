package plugin

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/core/template"
	"github.com/rl1809/packdemo/internal/port"
)

// Exec runs shell commands at the verifyConditions, prepare and publish
// phases. Unset commands are skipped.
type Exec struct {
	verifyCmd  string
	prepareCmd string
	publishCmd string
	cwd        string
	runner     port.CommandRunner
	logger     *slog.Logger
}

func NewExec(opts Options, deps Deps) (port.Plugin, error) {
	e := &Exec{runner: deps.Runner, logger: deps.Logger}
	var err error
	if e.verifyCmd, err = opts.String("verifyConditionsCmd", ""); err != nil {
		return nil, err
	}
	if e.prepareCmd, err = opts.String("prepareCmd", ""); err != nil {
		return nil, err
	}
	if e.publishCmd, err = opts.String("publishCmd", ""); err != nil {
		return nil, err
	}
	if e.cwd, err = opts.String("execCwd", ""); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Exec) Name() string { return ExecName }

func (e *Exec) VerifyConditions(ctx context.Context, rc *domain.ReleaseContext) error {
	return e.run(ctx, rc, "verifyConditionsCmd", e.verifyCmd)
}

func (e *Exec) Prepare(ctx context.Context, rc *domain.ReleaseContext) error {
	return e.run(ctx, rc, "prepareCmd", e.prepareCmd)
}

func (e *Exec) Publish(ctx context.Context, rc *domain.ReleaseContext) error {
	return e.run(ctx, rc, "publishCmd", e.publishCmd)
}

func (e *Exec) run(ctx context.Context, rc *domain.ReleaseContext, key, cmd string) error {
	if cmd == "" {
		return nil
	}
	script, err := template.RenderString(cmd, rc.TemplateVars())
	if err != nil {
		return err
	}
	dir := rc.CWD
	if e.cwd != "" {
		dir = filepath.Join(rc.CWD, e.cwd)
	}
	out, err := e.runner.Shell(ctx, dir, script)
	if err != nil {
		return err
	}
	e.logger.Info("command finished", "option", key, "cmd", script, "output", out)
	return nil
}
