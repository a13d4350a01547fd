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

	httpHandler "marketplace-settlement/internal/adapter/http/handler"
	"marketplace-settlement/internal/adapter/http/middleware"
	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/service"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func serveCmd(g *globals) *cobra.Command {
	var specPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the weekly rate refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := g.cfg, g.log

			log.Info().
				Str("mode", cfg.Server.Mode).
				Int("port", cfg.Server.Port).
				Str("version", Version).
				Msg("Starting marketplace settlement")

			weekday, err := cfg.Scheduler.ParseWeekday()
			if err != nil {
				return fmt.Errorf("scheduler config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			spec, err := os.ReadFile(specPath)
			if err != nil {
				log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
			}

			tasks := service.NewTaskTracker[*domain.SplitResult](cfg.Split.TaskRetention)
			router := httpHandler.SetupRouter(httpHandler.RouterDeps{
				Events:          a.events,
				Splitter:        a.splitter,
				SplitTasks:      tasks,
				Ledger:          a.ledger,
				Activator:       a.activator,
				Refresher:       a.refresher,
				SigSvc:          a.sigSvc,
				WebhookSecret:   cfg.Webhook.Secret,
				SignatureHeader: cfg.Webhook.SignatureHeader,
				RateLimitStore:  a.rateLimits,
				WebhookLimit:    middleware.RateLimitRule{Limit: cfg.Webhook.RateLimit, Window: cfg.Webhook.RateWindow},
				HealthCheckers:  a.health,
				OpenAPISpec:     spec,
				Mode:            cfg.Server.Mode,
				Logger:          log,
			})

			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			grp, gctx := errgroup.WithContext(ctx)
			grp.Go(func() error {
				log.Info().Str("addr", addr).Msg("HTTP server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			})

			if cfg.Scheduler.Enabled {
				scheduler := service.NewWeeklyScheduler(weekday, cfg.Scheduler.Hour, func(ctx context.Context) error {
					_, err := a.refresher.Refresh(ctx, time.Time{}, time.Time{})
					return err
				}, log)
				grp.Go(func() error {
					scheduler.Run(gctx)
					return nil
				})
			}

			grp.Go(func() error {
				<-gctx.Done()
				log.Info().Msg("Shutting down server...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Server forced to shutdown")
				}
				if err := tasks.Wait(shutdownCtx); err != nil {
					log.Warn().Err(err).Msg("split runs still in flight at shutdown")
				}
				return nil
			})

			err = grp.Wait()
			log.Info().Msg("Server exited")
			return err
		},
	}

	cmd.Flags().StringVar(&specPath, "openapi", "docs/api/openapi.yaml", "OpenAPI document served at /swagger")
	return cmd
}
