package vitibrasil

import (
	"context"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"vitibrasil/internal/crawler"
	"vitibrasil/internal/model"
	"vitibrasil/internal/observability"
	"vitibrasil/internal/repository"
	"vitibrasil/internal/table"
)

// Locator busca a página de uma aba/ano no site.
type Locator interface {
	Fetch(ctx context.Context, sel crawler.Selection, year int) (*crawler.Page, error)
}

type Source string

const (
	SourceLive     Source = "live"
	SourceSnapshot Source = "snapshot"
)

type Result struct {
	Table  *model.Table
	Source Source
}

// SnapshotMissingError indica que a raspagem falhou e não havia snapshot
// para a chave.
type SnapshotMissingError struct {
	Key   repository.Key
	Cause error
}

func (e *SnapshotMissingError) Error() string {
	return fmt.Sprintf("falha ao raspar os dados e snapshot local não encontrado (%s): %v", e.Key.Name(), e.Cause)
}

func (e *SnapshotMissingError) Unwrap() error {
	return e.Cause
}

// Service prioriza a raspagem e recorre ao snapshot quando ela falha.
type Service struct {
	Locator Locator
	Store   repository.SnapshotStore
}

func NewService(loc Locator, store repository.SnapshotStore) *Service {
	return &Service{Locator: loc, Store: store}
}

// Get devolve a tabela atual para a aba/ano. Uma raspagem bem-sucedida é
// gravada como snapshot apenas se ainda não houver um para a chave.
func (s *Service) Get(ctx context.Context, sel crawler.Selection, year int) (*Result, error) {
	key := repository.Key{Section: sel.Section, Subsection: sel.Subsection, Year: year}
	log := zap.L().With(
		zap.String("aba", sel.Section),
		zap.String("sub_aba", sel.Subsection),
		zap.Int("ano", year),
	)

	tbl, err := s.scrape(ctx, sel, year)
	if err == nil {
		s.persist(ctx, log, key, tbl)
		log.Info("raspagem concluída", zap.Int("linhas", tbl.Len()))
		return &Result{Table: tbl, Source: SourceLive}, nil
	}
	log.Warn("raspagem falhou, tentando snapshot local", zap.Error(err))

	cached, readErr := s.Store.Read(ctx, key)
	switch {
	case readErr == nil:
		observability.SnapshotFallbackTotal.WithLabelValues(sel.Section, "hit").Inc()
		log.Info("snapshot local carregado", zap.String("snapshot", key.Name()))
		return &Result{Table: cached, Source: SourceSnapshot}, nil
	case errors.Is(readErr, repository.ErrSnapshotNotFound):
		observability.SnapshotFallbackTotal.WithLabelValues(sel.Section, "miss").Inc()
		return nil, &SnapshotMissingError{Key: key, Cause: err}
	default:
		observability.SnapshotFallbackTotal.WithLabelValues(sel.Section, "error").Inc()
		return nil, eris.Wrapf(readErr, "vitibrasil: ler snapshot %s após falha na raspagem (%v)", key.Name(), err)
	}
}

func (s *Service) scrape(ctx context.Context, sel crawler.Selection, year int) (*model.Table, error) {
	page, err := s.Locator.Fetch(ctx, sel, year)
	if err != nil {
		return nil, err
	}
	if page == nil || page.Table == nil {
		return nil, eris.New("vitibrasil: página sem tabela")
	}
	return table.Extract(table.FromSelection(page.Table))
}

// persist nunca transforma uma raspagem bem-sucedida em erro; falhas ficam
// só no log e nas métricas.
func (s *Service) persist(ctx context.Context, log *zap.Logger, key repository.Key, tbl *model.Table) {
	exists, err := s.Store.Exists(ctx, key)
	if err != nil {
		observability.SnapshotWritesTotal.WithLabelValues("error").Inc()
		log.Error("erro ao verificar snapshot", zap.Error(err))
		return
	}
	if exists {
		observability.SnapshotWritesTotal.WithLabelValues("exists").Inc()
		return
	}

	wrote, err := s.Store.WriteIfAbsent(ctx, key, tbl)
	switch {
	case err != nil:
		observability.SnapshotWritesTotal.WithLabelValues("error").Inc()
		log.Error("erro ao gravar snapshot", zap.Error(err))
	case wrote:
		observability.SnapshotWritesTotal.WithLabelValues("written").Inc()
		log.Info("snapshot gravado", zap.String("snapshot", key.Name()))
	default:
		observability.SnapshotWritesTotal.WithLabelValues("exists").Inc()
	}
}
