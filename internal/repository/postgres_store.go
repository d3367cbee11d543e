package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"

	"vitibrasil/internal/model"
)

// Pool é o subconjunto do pgxpool.Pool usado pelo store.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	DB Pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS vitibrasil_snapshots (
	key        TEXT PRIMARY KEY,
	section    TEXT NOT NULL,
	subsection TEXT NOT NULL DEFAULT '',
	year       INTEGER NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres store: migrate")
}

func (s *PostgresStore) Exists(ctx context.Context, key Key) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM vitibrasil_snapshots WHERE key = $1)`,
		key.Name(),
	).Scan(&exists)
	if err != nil {
		return false, eris.Wrapf(err, "postgres store: exists %s", key.Name())
	}
	return exists, nil
}

func (s *PostgresStore) Read(ctx context.Context, key Key) (*model.Table, error) {
	var payload string
	err := s.DB.QueryRow(ctx,
		`SELECT payload FROM vitibrasil_snapshots WHERE key = $1`,
		key.Name(),
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres store: read %s", key.Name())
	}
	return decodeSnapshot([]byte(payload))
}

func (s *PostgresStore) WriteIfAbsent(ctx context.Context, key Key, tbl *model.Table) (bool, error) {
	b, err := encodeSnapshot(key, tbl, time.Now())
	if err != nil {
		return false, err
	}
	tag, err := s.DB.Exec(ctx, `
		INSERT INTO vitibrasil_snapshots (key, section, subsection, year, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO NOTHING
	`, key.Name(), key.Section, key.Subsection, key.Year, string(b))
	if err != nil {
		return false, eris.Wrapf(err, "postgres store: insert %s", key.Name())
	}
	return tag.RowsAffected() == 1, nil
}
