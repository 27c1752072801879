package port

import "context"

type CommandRunner interface {
	// Run executes name with args in dir and returns combined output
	Run(ctx context.Context, dir string, name string, args ...string) (string, error)

	// Shell executes script through the system shell in dir
	Shell(ctx context.Context, dir string, script string) (string, error)
}
