package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/rl1809/packdemo/internal/adapter/console"
	"github.com/rl1809/packdemo/internal/adapter/handler"
	"github.com/rl1809/packdemo/internal/adapter/metrics"
	"github.com/rl1809/packdemo/internal/config"
	"github.com/rl1809/packdemo/internal/core/service"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve record display over HTTP and gRPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg.Server, logger, cmd.OutOrStdout(), nil)
		},
	}
}

// serve runs until ctx is cancelled. ready, when set, receives the bound
// HTTP and gRPC addresses once both listeners are open.
func serve(ctx context.Context, cfg config.ServerConfig, logger *slog.Logger, out io.Writer, ready func(httpAddr, grpcAddr string)) error {
	recorder := metrics.NewRecorder()
	display := service.NewDisplayService(console.NewPrinter(out), recorder)

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	handler.RegisterShowcaseServer(grpcServer, handler.NewGRPCHandler(display))

	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(display)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", httpHandler.HealthCheck)
	mux.HandleFunc("/api/users", httpHandler.ShowUser)
	mux.HandleFunc("/api/vehicles", httpHandler.ShowVehicle)
	mux.Handle("/metrics", recorder.Handler())

	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		grpcLis.Close()
		return fmt.Errorf("listen http: %w", err)
	}
	httpServer := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "addr", grpcLis.Addr().String())
		if err := grpcServer.Serve(grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		logger.Info("HTTP server listening", "addr", httpLis.Addr().String())
		if err := httpServer.Serve(httpLis); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if ready != nil {
		ready(httpLis.Addr().String(), grpcLis.Addr().String())
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	logger.Info("shutting down...")

	// Stop HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped")

	// Stop gRPC server
	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	return serveErr
}
