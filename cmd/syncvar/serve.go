package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/syncvar/internal/cli"
	httpAdapter "github.com/aretw0/syncvar/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve [script...]",
	Short: "Start the HTTP inspection server",
	Long: `Runs the given scripts, then exposes the bound variables, their change
journals and the change metrics over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		rt, err := cli.NewRuntime(cmd.Context(), runtimeOptions())
		if err != nil {
			return err
		}
		defer rt.Close()

		for _, path := range args {
			report, err := runScript(cmd, rt, path)
			if err != nil {
				return err
			}
			rt.Logger.Info("script applied",
				"variable", report.Variable,
				"changes", len(report.Records),
				"rejected", len(report.Rejected))
		}

		handler := httpAdapter.NewHandler(rt.Binder,
			httpAdapter.WithJournal(rt.Journal),
			httpAdapter.WithMetrics(promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{})),
			httpAdapter.WithLogger(rt.Logger),
		)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			rt.Logger.Info("starting inspection server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			rt.Logger.Info("shutting down", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				rt.Logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("failed to close server: %w", err)
				}
			}
			rt.Logger.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
