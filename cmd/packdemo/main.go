// Package main provides the packdemo binary: the record showcase, the
// release pipeline and the record server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rl1809/packdemo/internal/adapter/console"
	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/core/service"
)

const (
	Version = "0.1.0"
	appName = "packdemo"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Record showcase and release automation",
		Long: `packdemo creates a User and a Vehicle record and prints them.

Subcommands expose the record display for arbitrary input, run the
semantic release pipeline and serve the records over HTTP and gRPC.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowcase(cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(showCmd())
	cmd.AddCommand(releaseCmd(flags))
	cmd.AddCommand(serveCmd(flags))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// runShowcase prints the fixed user and vehicle, in that order.
func runShowcase(out io.Writer) error {
	display := service.NewDisplayService(console.NewPrinter(out), nil)

	user := domain.NewUser("Shanmukh", 21)
	if err := display.ShowUser(user); err != nil {
		return err
	}

	vehicle := domain.NewVehicle("Car", 2024)
	return display.ShowVehicle(vehicle)
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Create and display a single record",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "user <name> <age>",
		Short: "Display a user record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			age, err := parseAge(args[1])
			if err != nil {
				return err
			}
			display := service.NewDisplayService(console.NewPrinter(cmd.OutOrStdout()), nil)
			return display.ShowUser(domain.NewUser(args[0], age))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "vehicle <name> <age>",
		Short: "Display a vehicle record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			age, err := parseAge(args[1])
			if err != nil {
				return err
			}
			display := service.NewDisplayService(console.NewPrinter(cmd.OutOrStdout()), nil)
			return display.ShowVehicle(domain.NewVehicle(args[0], age))
		},
	})

	return cmd
}

func parseAge(raw string) (int, error) {
	age, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("age must be an integer, got %q", raw)
	}
	return age, nil
}

func newLogger(logLevel string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
