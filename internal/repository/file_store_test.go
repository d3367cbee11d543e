package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	s := NewFileStore(dir)

	exists, err := s.Exists(ctx, testKey)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Read(ctx, testKey)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	wrote, err := s.WriteIfAbsent(ctx, testKey, sampleTable())
	require.NoError(t, err)
	assert.True(t, wrote)

	_, err = os.Stat(filepath.Join(dir, "vitibrasil_Processamento_2023_Viníferas.json"))
	require.NoError(t, err)

	got, err := s.Read(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), got)
}

func TestFileStoreWriteOnce(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())

	_, err := s.WriteIfAbsent(ctx, testKey, sampleTable())
	require.NoError(t, err)
	before, err := os.ReadFile(s.path(testKey))
	require.NoError(t, err)

	wrote, err := s.WriteIfAbsent(ctx, testKey, otherTable())
	require.NoError(t, err)
	assert.False(t, wrote)

	after, err := os.ReadFile(s.path(testKey))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFileStoreConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tbl := sampleTable()
			if i%2 == 1 {
				tbl = otherTable()
			}
			wrote, err := s.WriteIfAbsent(ctx, testKey, tbl)
			assert.NoError(t, err)
			if wrote {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	got, err := s.Read(ctx, testKey)
	require.NoError(t, err)
	assert.Contains(t, []any{sampleTable(), otherTable()}, got)

	// nenhum temporário sobra no diretório
	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreReadCorruptedSnapshot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore(dir)

	path := filepath.Join(dir, testKey.Name()+".json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"rows":-1,"columns":[]}`), 0o644))

	var err error
	assert.NotPanics(t, func() {
		_, err = s.Read(ctx, testKey)
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSnapshotNotFound)
}
