package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	csvcatalog "github.com/bnema/toplap/internal/adapters/catalog/csv"
	redisusers "github.com/bnema/toplap/internal/adapters/users/redis"
	chainusers "github.com/bnema/toplap/internal/adapters/users/chain"
	tomlusers "github.com/bnema/toplap/internal/adapters/users/toml"
	"github.com/bnema/toplap/internal/application"
	"github.com/bnema/toplap/internal/config"
	"github.com/bnema/toplap/internal/logging"
	"github.com/bnema/toplap/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	cfg         config.Config
	logger      *zap.Logger
	closeLogger func() error
	clock       ports.Clock
	httpClient  *http.Client
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closeLogger := logging.New(cfg.LogFile, cfg.LogProduction, os.Stderr)

	return &app{
		cfg:         cfg,
		logger:      logger,
		closeLogger: closeLogger,
		clock:       ports.SystemClock{},
		httpClient: &http.Client{
			// Long polls hold the connection for PollTimeout.
			Timeout: cfg.Telegram.PollTimeout + cfg.Telegram.CallTimeout,
		},
	}, nil
}

func (a *app) messages() application.Messages {
	return application.MessagesFor(a.cfg.Locale, application.Links{
		Donation: a.cfg.DonationLink,
		Contact:  a.cfg.ContactLink,
	})
}

func (a *app) loadCatalog() (*csvcatalog.Catalog, error) {
	catalog, err := csvcatalog.Load(a.cfg.CatalogPath, a.logger)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog, nil
}

func (a *app) fileUsers() (*tomlusers.Store, error) {
	store, err := tomlusers.NewStore(a.cfg.UsersPath, a.clock)
	if err != nil {
		return nil, fmt.Errorf("wire known users file: %w", err)
	}
	return store, nil
}

// knownUsers returns the file store, or a Redis-first chain when a Redis URL
// is configured. The chain is backfilled from the file before it is returned.
// The returned close func releases the Redis connection.
func (a *app) knownUsers(ctx context.Context) (ports.KnownUsers, func(), error) {
	file, err := a.fileUsers()
	if err != nil {
		return nil, nil, err
	}
	if a.cfg.UsersRedisURL == "" {
		return file, func() {}, nil
	}

	client, err := redisusers.Open(ctx, a.cfg.UsersRedisURL)
	if err != nil {
		a.logger.Warn("redis unavailable, using known users file only", zap.Error(err))
		return file, func() {}, nil
	}

	chain, err := chainusers.NewStore(redisusers.NewStore(client, redisusers.DefaultKey), file, a.logger)
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("wire known users chain: %w", err)
	}

	backfilled, err := chain.Backfill(ctx)
	if err != nil {
		a.logger.Warn("backfill known users into redis", zap.Error(err))
	} else if backfilled > 0 {
		a.logger.Info("backfilled known users into redis", zap.Int("added", backfilled))
	}

	return chain, func() { _ = client.Close() }, nil
}
