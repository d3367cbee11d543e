package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"vitibrasil/internal/config"
	"vitibrasil/internal/db"
	"vitibrasil/internal/repository"
)

// openStore cria o backend de snapshots configurado em SNAPSHOT_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (repository.SnapshotStore, func(), error) {
	noop := func() {}

	switch cfg.SnapshotDriver {
	case "", "file":
		return repository.NewFileStore(cfg.SnapshotDir), noop, nil

	case "redis":
		client, err := db.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return &repository.RedisStore{Client: client}, func() { client.Close() }, nil

	case "postgres":
		pool, err := db.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		store := &repository.PostgresStore{DB: pool}
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return store, pool.Close, nil

	case "sqlite":
		conn, err := db.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		store := &repository.SQLiteStore{DB: conn}
		if err := store.Migrate(ctx); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return store, func() { conn.Close() }, nil

	default:
		zap.L().Error("driver de snapshot desconhecido", zap.String("driver", cfg.SnapshotDriver))
		return nil, noop, eris.Errorf("driver de snapshot desconhecido: %s", cfg.SnapshotDriver)
	}
}
