package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"vitibrasil/internal/model"
)

// FileStore grava um arquivo por snapshot em Dir. O diretório é criado na
// primeira gravação.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(key Key) string {
	return filepath.Join(s.Dir, key.Name()+".json")
}

func (s *FileStore) Exists(_ context.Context, key Key) (bool, error) {
	_, err := os.Stat(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "file store: stat %s", key.Name())
	}
	return true, nil
}

func (s *FileStore) Read(_ context.Context, key Key) (*model.Table, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "file store: read %s", key.Name())
	}
	return decodeSnapshot(b)
}

// WriteIfAbsent grava num arquivo temporário e cria o definitivo com
// os.Link, que falha se o nome já existir. Com escritores concorrentes só
// um vence e nenhum arquivo fica pela metade.
func (s *FileStore) WriteIfAbsent(_ context.Context, key Key, tbl *model.Table) (bool, error) {
	b, err := encodeSnapshot(key, tbl, time.Now())
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return false, eris.Wrapf(err, "file store: mkdir %s", s.Dir)
	}

	tmp := filepath.Join(s.Dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return false, eris.Wrapf(err, "file store: write %s", tmp)
	}
	defer os.Remove(tmp)

	if err := os.Link(tmp, s.path(key)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, eris.Wrapf(err, "file store: link %s", key.Name())
	}
	return true, nil
}
