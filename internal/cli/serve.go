package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sahod-planner/backend/internal/config"
	v1 "github.com/sahod-planner/backend/internal/controllers/v1"
	"github.com/sahod-planner/backend/internal/ledger"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/router"
	"github.com/sahod-planner/backend/internal/sahod"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if err := connect(cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
}

// connect opens the database in the data directory.
func connect(cfg *config.Config) error {
	err := os.MkdirAll(cfg.DataDir, os.ModePerm)
	if err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}

	return models.Connect(filepath.Join(cfg.DataDir, "gorm.db"))
}

// serve runs the API until ctx is done, then shuts the server down.
func serve(ctx context.Context, cfg *config.Config) error {
	r, teardown, err := router.Config(cfg.APIURL)
	defer teardown()
	if err != nil {
		return err
	}

	l := ledger.New(models.DB)
	router.AttachRoutes(v1.Controller{
		Engine: sahod.New(models.DB, l, cfg.Engine),
		Ledger: l,
	}, r.Group("/"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	failed := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Msg("backend startup complete")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
