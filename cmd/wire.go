package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	fsassets "github.com/bnema/yolka/internal/adapters/assets/fs"
	catalogtoml "github.com/bnema/yolka/internal/adapters/catalog/toml"
	"github.com/bnema/yolka/internal/adapters/store/memory"
	redisstore "github.com/bnema/yolka/internal/adapters/store/redis"
	sqlitestore "github.com/bnema/yolka/internal/adapters/store/sqlite"
	"github.com/bnema/yolka/internal/config"
	"github.com/bnema/yolka/internal/domain"
	applog "github.com/bnema/yolka/internal/log"
	"github.com/bnema/yolka/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	cfg     config.Config
	logger  *slog.Logger
	catalog domain.Catalog
	assets  *fsassets.Store
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New(), envOrDefault("YOLKA_CONFIG", ""))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := applog.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	catalog, err := catalogtoml.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		catalog: catalog,
		assets:  fsassets.NewStore(cfg.Assets.Dir),
	}, nil
}

// openSessionStore returns the configured store and a function releasing
// whatever connection it holds.
func (a *app) openSessionStore(ctx context.Context) (ports.SessionStore, func() error, error) {
	noop := func() error { return nil }

	switch a.cfg.Session.Store {
	case config.StoreRedis:
		client, err := redisstore.Dial(ctx, a.cfg.Session.RedisAddr)
		if err != nil {
			return nil, noop, err
		}
		return redisstore.NewStore(client, a.cfg.Session.RedisPrefix, a.cfg.Session.RedisTTL), client.Close, nil
	case config.StoreSQLite:
		store, err := sqlitestore.Open(ctx, a.cfg.Session.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return memory.NewStore(), noop, nil
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
