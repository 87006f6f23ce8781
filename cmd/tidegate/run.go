package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coastalkit/tidegate/internal/adapter/exttool"
	httpadapter "github.com/coastalkit/tidegate/internal/adapter/http"
	"github.com/coastalkit/tidegate/internal/config"
	"github.com/coastalkit/tidegate/internal/domain"
	"github.com/coastalkit/tidegate/internal/engine"
	"github.com/coastalkit/tidegate/internal/observability"
)

func newFloodCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "flood",
		Short: "Analyze custom flood elevations",
		Long: `Runs one scenario per --elevation: flood extent, impact assessment,
scenario tagging, and a final merge of all results.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			elevations, err := domain.ParseElevations(f.elevations)
			if err != nil {
				return err
			}
			if len(elevations) == 0 {
				return errors.New("at least one --elevation is required")
			}
			return runEngine(cmd.Context(), f, f.analysisConfig(elevations))
		},
	}
	f.register(cmd)
	f.registerElevations(cmd)
	return cmd
}

func newStandardCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "standard",
		Short: "Evaluate all standard scenarios",
		Long: `Runs the full standard matrix: each storm surge (MHHW, 10yr, 50yr,
100yr) crossed with sea level rise from 0 to 6 feet, 28 scenarios in total.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEngine(cmd.Context(), f, f.analysisConfig(nil))
		},
	}
	f.register(cmd)
	return cmd
}

// runEngine wires the backend, observability, and optional metrics server
// around one engine run.
func runEngine(parent context.Context, f *flags, cfg *config.Config) error {
	obs := config.LoadObservability()
	logger := observability.NewLogger(obs.LogLevel, obs.LogFormat)
	metrics := observability.NewMetrics()

	backendImpl := exttool.New(f.cmds, logger)
	backend := engine.Backend{
		Hydrology:  backendImpl,
		Impact:     backendImpl,
		Attributes: backendImpl,
		Store:      backendImpl,
		Workspace:  exttool.NewDirScope(logger),
	}

	eng := engine.New(backend, logger, metrics, nil)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if obs.MetricsAddr != "" {
		srv := httpadapter.NewServer(obs.MetricsAddr, eng, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	if err := eng.Run(ctx, cfg); err != nil {
		logger.Error("analysis failed", "error", err)
		return err
	}
	return nil
}
