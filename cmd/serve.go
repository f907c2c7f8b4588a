package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/yolka/internal/adapters/scheduler/timer"
	"github.com/bnema/yolka/internal/adapters/secrets/chain"
	"github.com/bnema/yolka/internal/adapters/telegram"
	"github.com/bnema/yolka/internal/application"
	"github.com/bnema/yolka/internal/compose"
	"github.com/bnema/yolka/internal/domain"
	"github.com/bnema/yolka/internal/metrics"
	"github.com/bnema/yolka/internal/ports"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	token, err := a.telegramToken(ctx)
	if err != nil {
		return fmt.Errorf("resolve telegram token: %w", err)
	}

	client, err := telegram.NewClient(telegram.ClientConfig{
		APIURL:            a.cfg.Telegram.APIURL,
		Token:             token,
		PollTimeout:       a.cfg.Telegram.PollTimeout,
		RequestsPerSecond: a.cfg.Telegram.RequestsPerSecond,
	})
	if err != nil {
		return fmt.Errorf("wire telegram client: %w", err)
	}

	store, closeStore, err := a.openSessionStore(ctx)
	if err != nil {
		return fmt.Errorf("wire session store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.logger.Warn("close session store", "error", err)
		}
	}()

	scheduler := timer.New(ctx)
	defer scheduler.Close()

	messenger := telegram.NewMessenger(client, a.assets)
	engine := compose.NewEngine(a.assets, domain.TreeLayout, a.logger)
	pool := application.NewRenderPool(engine, a.cfg.Render.Workers, a.logger)
	selection := application.NewSelectionService(store, a.catalog, ports.SystemClock{}, a.logger)
	reminders := application.NewReminderService(selection, scheduler, messenger, a.logger)
	orchestrator := application.NewOrchestrator(selection, reminders, pool, messenger, a.logger)

	pool.Start(ctx, orchestrator.DeliverRender)
	defer pool.Stop()

	if a.cfg.Metrics.Listen != "" {
		shutdown := a.serveMetrics(a.cfg.Metrics.Listen)
		defer shutdown()
	}

	a.logger.Info("bot started",
		"candidates", a.catalog.Len(),
		"session_store", a.cfg.Session.Store,
		"render_workers", a.cfg.Render.Workers,
	)

	poller := telegram.NewPoller(client, telegram.NewDecoder(a.cfg.Telegram.Greetings), orchestrator, a.logger)
	if err := poller.Run(ctx); err != nil {
		return fmt.Errorf("poll updates: %w", err)
	}

	a.logger.Info("bot stopped")
	return nil
}

// telegramToken prefers an inline telegram.token and otherwise resolves
// telegram.token_ref through pass or the secrets directory.
func (a *app) telegramToken(ctx context.Context) (string, error) {
	if a.cfg.Telegram.Token != "" || a.cfg.Telegram.TokenRef == "" {
		return a.cfg.Telegram.Token, nil
	}

	resolver, err := chain.NewPassFirstWithFileFallback(a.cfg.Secrets.Dir)
	if err != nil {
		return "", err
	}
	return resolver.Resolve(ctx, a.cfg.Telegram.TokenRef)
}

func (a *app) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server", "addr", addr, "error", err)
		}
	}()
	a.logger.Info("metrics listening", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
