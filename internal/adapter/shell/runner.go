package shell

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands with os/exec.
type Runner struct {
	logger *slog.Logger
	env    []string
}

func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger, env: os.Environ()}
}

func (r *Runner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return r.run(cmd, dir, name+" "+strings.Join(args, " "))
}

func (r *Runner) Shell(ctx context.Context, dir string, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", script)
	return r.run(cmd, dir, script)
}

func (r *Runner) run(cmd *exec.Cmd, dir, display string) (string, error) {
	cmd.Dir = dir
	cmd.Env = r.env
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	r.logger.Debug("running command", "cmd", display, "dir", dir)
	err := cmd.Run()
	output := strings.TrimRight(out.String(), "\n")
	if err != nil {
		if output != "" {
			return output, fmt.Errorf("%s: %w: %s", display, err, output)
		}
		return output, fmt.Errorf("%s: %w", display, err)
	}
	return output, nil
}
