package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	fsassets "github.com/bnema/toplap/internal/adapters/assets/fs"
	"github.com/bnema/toplap/internal/adapters/events/bus"
	"github.com/bnema/toplap/internal/adapters/httpapi"
	pdfreport "github.com/bnema/toplap/internal/adapters/report/pdf"
	"github.com/bnema/toplap/internal/adapters/store/memory"
	"github.com/bnema/toplap/internal/adapters/telegram"
	"github.com/bnema/toplap/internal/application"
	"github.com/bnema/toplap/internal/ports"
	"github.com/bnema/toplap/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.cfg.RequireToken(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, app)
		},
	}
}

func runServe(ctx context.Context, app *app) error {
	cfg := app.cfg
	logger := app.logger

	catalog, err := app.loadCatalog()
	if err != nil {
		return err
	}
	logger.Info("catalog loaded",
		zap.String("path", cfg.CatalogPath),
		zap.Int("entries", len(catalog.Entries())),
		zap.Int("skipped", catalog.Skipped()),
	)

	var assets ports.AssetLocator
	if cfg.AssetsDir != "" {
		locator, err := fsassets.NewLocator(cfg.AssetsDir)
		if err != nil {
			return fmt.Errorf("wire assets: %w", err)
		}
		assets = locator
	}

	users, closeUsers, err := app.knownUsers(ctx)
	if err != nil {
		return err
	}
	defer closeUsers()

	events := bus.New(logger)
	defer func() { _ = events.Close() }()

	stats := bus.NewStatsRecorder(cfg.StatsPath, users, app.clock, logger)
	statsCtx, stopStats := context.WithCancel(ctx)
	waitStats, err := stats.Start(statsCtx, events)
	if err != nil {
		stopStats()
		return fmt.Errorf("start stats recorder: %w", err)
	}
	defer func() {
		stopStats()
		waitStats()
	}()

	messages := app.messages()
	poller := telegram.NewPoller(logger, telegram.PollerOptions{
		MaxConcurrency: cfg.Telegram.MaxConcurrency,
	})
	client, err := telegram.NewBot(telegram.ClientOptions{
		BaseURL:     cfg.Telegram.BaseURL,
		Token:       cfg.Telegram.Token,
		HTTPClient:  app.httpClient,
		PollTimeout: cfg.Telegram.PollTimeout,
		Logger:      logger,
	}, poller.HandleUpdate)
	if err != nil {
		return err
	}
	messenger := telegram.NewMessenger(client)

	callTimeout := cfg.Telegram.CallTimeout
	planner := application.NewPlanner(assets, messages, logger, callTimeout)
	executor := application.NewExecutor(messenger, pdfreport.NewRenderer(app.clock), logger, callTimeout)
	lifecycle := application.NewLifecycle(memory.NewLedger(0), messenger, logger, callTimeout)
	conversation := application.NewConversation(application.ConversationDeps{
		Sessions:    memory.NewSessionStore(cfg.SessionTTL),
		Users:       users,
		Catalog:     catalog,
		Planner:     planner,
		Events:      events,
		Stats:       stats,
		Clock:       app.clock,
		Messages:    messages,
		Operator:    cfg.OperatorID,
		Logger:      logger,
		CallTimeout: callTimeout,
	})
	dispatcher := application.NewDispatcher(conversation, executor, lifecycle, messenger, messages, logger, callTimeout)

	if err := dispatcher.RegisterCommands(ctx); err != nil {
		logger.Warn("register bot commands", zap.Error(err))
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpErr := make(chan error, 1)
	if cfg.HTTPAddr != "" {
		server := httpapi.NewServer(httpapi.NewHandler(catalog, stats, version.Version, logger), logger)
		go func() {
			err := httpapi.Serve(runCtx, server, cfg.HTTPAddr)
			if err != nil {
				logger.Error("ops http server stopped", zap.Error(err))
				cancel()
			}
			httpErr <- err
		}()
		logger.Info("ops http server listening", zap.String("addr", cfg.HTTPAddr))
	} else {
		httpErr <- nil
	}

	logger.Info("bot started", zap.String("version", version.Version), zap.String("locale", string(cfg.Locale)))
	pollErr := poller.Run(runCtx, client, dispatcher)
	cancel()

	return errors.Join(pollErr, <-httpErr)
}
