package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rl1809/packdemo/internal/adapter/git"
	"github.com/rl1809/packdemo/internal/adapter/metrics"
	"github.com/rl1809/packdemo/internal/adapter/plugin"
	"github.com/rl1809/packdemo/internal/adapter/shell"
	"github.com/rl1809/packdemo/internal/config"
	"github.com/rl1809/packdemo/internal/core/service"
)

type releaseFlags struct {
	dryRun    bool
	branch    string
	releaserc string
	cwd       string
}

func releaseCmd(global *globalFlags) *cobra.Command {
	flags := &releaseFlags{}

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Run the semantic release pipeline",
		Long: `Analyze commits since the last release tag, compute the next version,
generate release notes and run the configured plugins
(changelog, exec, npm, git, github).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd.Context(), global, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Stop after generating notes")
	cmd.Flags().StringVar(&flags.branch, "branch", "", "Release this branch instead of the checked out one")
	cmd.PersistentFlags().StringVar(&flags.releaserc, "releaserc", "", "Release config path (default from config)")
	cmd.PersistentFlags().StringVar(&flags.cwd, "cwd", ".", "Repository directory")

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default release config unless one exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			path := releaseConfigPath(cfg, flags)
			created, err := config.EnsureReleaseConfig(path)
			if err != nil {
				return fmt.Errorf("write release config: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective release config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			path := releaseConfigPath(cfg, flags)
			rc, found, err := config.LoadReleaseConfig(path)
			if err != nil {
				return err
			}
			if !found {
				logger.Info("release config not found, using defaults", "path", path)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(rc); err != nil {
				return err
			}
			return enc.Close()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "last [branch]",
		Short: "Show the newest recorded release of a branch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			branch := "main"
			if len(args) == 1 {
				branch = args[0]
			}
			st, err := openStores(cmd.Context(), cfg.Store, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			release, err := st.history.LatestRelease(cmd.Context(), branch)
			if err != nil {
				return err
			}
			if release == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no release recorded for %s\n", branch)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s) %s %s\n",
				release.Branch, release.Version, release.GitTag, release.Status,
				release.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"))
			return nil
		},
	})

	return cmd
}

func releaseConfigPath(cfg *config.Config, flags *releaseFlags) string {
	if flags.releaserc != "" {
		return flags.releaserc
	}
	if filepath.IsAbs(cfg.Release.Config) || flags.cwd == "" {
		return cfg.Release.Config
	}
	return filepath.Join(flags.cwd, cfg.Release.Config)
}

func runRelease(ctx context.Context, global *globalFlags, flags *releaseFlags, stdout, stderr io.Writer) error {
	cfg, logger, err := loadConfig(global, stderr)
	if err != nil {
		return err
	}

	cwd, err := filepath.Abs(flags.cwd)
	if err != nil {
		return fmt.Errorf("resolve cwd: %w", err)
	}
	if info, err := os.Stat(cwd); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", cwd)
	}

	path := releaseConfigPath(cfg, flags)
	rc, found, err := config.LoadReleaseConfig(path)
	if err != nil {
		return err
	}
	if !found {
		logger.Info("release config not found, using defaults", "path", path)
	}

	runner := shell.NewRunner(logger)
	repo := git.NewCLIRepository(runner, cwd)
	plugins, err := plugin.DefaultRegistry().Build(rc.Plugins, plugin.Deps{
		Git:    repo,
		Runner: runner,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("build plugins: %w", err)
	}

	st, err := openStores(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := service.NewReleaseService(
		service.ReleasePolicy{
			Branches:      rc.Branches,
			TagFormat:     rc.TagFormat,
			RepositoryURL: rc.RepositoryURL,
		},
		repo, st.ledger, st.history, plugins,
		service.WithLogger(logger),
		service.WithMetrics(metrics.NewRecorder()),
	)
	if err != nil {
		return err
	}

	result, err := svc.Run(ctx, service.RunOptions{
		Branch: flags.branch,
		DryRun: flags.dryRun,
		CWD:    cwd,
	})
	if err != nil {
		return err
	}

	switch result.Status {
	case service.RunStatusPublished:
		fmt.Fprintf(stdout, "published %s (%s)\n", result.Release.Version, result.Release.GitTag)
	case service.RunStatusDryRun:
		next := result.Context.NextRelease
		fmt.Fprintf(stdout, "dry run: next release %s (%s)\n\n%s\n", next.Version, next.GitTag, next.Notes)
	default:
		fmt.Fprintln(stdout, string(result.Status))
	}
	return nil
}
