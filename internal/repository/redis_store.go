package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"vitibrasil/internal/model"
)

const redisKeyPrefix = "vitibrasil:snapshot:"

// RedisStore guarda snapshots como strings sem expiração.
type RedisStore struct {
	Client redis.Cmdable
}

func (s *RedisStore) key(key Key) string {
	return redisKeyPrefix + key.Name()
}

func (s *RedisStore) Exists(ctx context.Context, key Key) (bool, error) {
	n, err := s.Client.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, eris.Wrapf(err, "redis store: exists %s", key.Name())
	}
	return n > 0, nil
}

func (s *RedisStore) Read(ctx context.Context, key Key) (*model.Table, error) {
	val, err := s.Client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "redis store: get %s", key.Name())
	}
	return decodeSnapshot(val)
}

func (s *RedisStore) WriteIfAbsent(ctx context.Context, key Key, tbl *model.Table) (bool, error) {
	b, err := encodeSnapshot(key, tbl, time.Now())
	if err != nil {
		return false, err
	}
	ok, err := s.Client.SetNX(ctx, s.key(key), b, 0).Result()
	if err != nil {
		return false, eris.Wrapf(err, "redis store: setnx %s", key.Name())
	}
	return ok, nil
}
