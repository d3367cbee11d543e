package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"vitibrasil/internal/model"
)

type SQLiteStore struct {
	DB *sql.DB
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS vitibrasil_snapshots (
	key        TEXT PRIMARY KEY,
	section    TEXT NOT NULL,
	subsection TEXT NOT NULL DEFAULT '',
	year       INTEGER NOT NULL,
	payload    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
)`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite store: migrate")
}

func (s *SQLiteStore) Exists(ctx context.Context, key Key) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM vitibrasil_snapshots WHERE key = ?)`,
		key.Name(),
	).Scan(&exists)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite store: exists %s", key.Name())
	}
	return exists, nil
}

func (s *SQLiteStore) Read(ctx context.Context, key Key) (*model.Table, error) {
	var payload string
	err := s.DB.QueryRowContext(ctx,
		`SELECT payload FROM vitibrasil_snapshots WHERE key = ?`,
		key.Name(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite store: read %s", key.Name())
	}
	return decodeSnapshot([]byte(payload))
}

func (s *SQLiteStore) WriteIfAbsent(ctx context.Context, key Key, tbl *model.Table) (bool, error) {
	b, err := encodeSnapshot(key, tbl, time.Now())
	if err != nil {
		return false, err
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT OR IGNORE INTO vitibrasil_snapshots (key, section, subsection, year, payload) VALUES (?, ?, ?, ?, ?)`,
		key.Name(), key.Section, key.Subsection, key.Year, string(b),
	)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite store: insert %s", key.Name())
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite store: rows affected")
	}
	return n == 1, nil
}
