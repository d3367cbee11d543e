package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"vitibrasil/internal/model"
)

// ErrSnapshotNotFound indica que não há snapshot gravado para a chave.
var ErrSnapshotNotFound = eris.New("snapshot não encontrado")

// Key identifica um snapshot: aba, subaba (vazia quando não se aplica) e ano.
type Key struct {
	Section    string
	Subsection string
	Year       int
}

// Name é o nome determinístico do snapshot, usado como nome de arquivo e
// como chave nos outros backends.
func (k Key) Name() string {
	name := fmt.Sprintf("vitibrasil_%s_%d", k.Section, k.Year)
	if k.Subsection != "" {
		name += "_" + k.Subsection
	}
	return name
}

// SnapshotStore guarda a última tabela obtida com sucesso por chave. Um
// snapshot existente nunca é sobrescrito.
type SnapshotStore interface {
	Exists(ctx context.Context, key Key) (bool, error)
	Read(ctx context.Context, key Key) (*model.Table, error)
	// WriteIfAbsent grava o snapshot se ainda não existir e informa se gravou.
	WriteIfAbsent(ctx context.Context, key Key, tbl *model.Table) (bool, error)
}

const snapshotVersion = 1

// snapshotDoc é o formato colunar persistido: uma lista de colunas, cada
// uma com nome, tipo e valores na ordem das linhas.
type snapshotDoc struct {
	Version   int              `json:"version"`
	Key       string           `json:"key"`
	CreatedAt time.Time        `json:"created_at"`
	Rows      int              `json:"rows"`
	Columns   []snapshotColumn `json:"columns"`
}

type snapshotColumn struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Values []model.Value `json:"values"`
}

func encodeSnapshot(key Key, tbl *model.Table, now time.Time) ([]byte, error) {
	doc := snapshotDoc{
		Version:   snapshotVersion,
		Key:       key.Name(),
		CreatedAt: now.UTC(),
		Rows:      tbl.Len(),
		Columns:   make([]snapshotColumn, 0, len(tbl.Columns)),
	}
	for i, name := range tbl.Columns {
		col := snapshotColumn{Name: name, Values: make([]model.Value, 0, len(tbl.Rows))}
		for _, row := range tbl.Rows {
			col.Values = append(col.Values, row[i])
		}
		col.Type = columnType(col.Values)
		doc.Columns = append(doc.Columns, col)
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, eris.Wrapf(err, "snapshot: encode %s", key.Name())
	}
	return b, nil
}

func decodeSnapshot(b []byte) (*model.Table, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, eris.Wrap(err, "snapshot: decode")
	}
	if doc.Version != snapshotVersion {
		return nil, eris.Errorf("snapshot: versão %d não suportada", doc.Version)
	}

	if doc.Rows < 0 {
		return nil, eris.Errorf("snapshot: número de linhas inválido (%d)", doc.Rows)
	}
	// confere antes de alocar: rows vem do arquivo
	for _, col := range doc.Columns {
		if len(col.Values) != doc.Rows {
			return nil, eris.Errorf("snapshot: coluna %q com %d valores para %d linhas", col.Name, len(col.Values), doc.Rows)
		}
	}
	if len(doc.Columns) == 0 && doc.Rows > 0 {
		return nil, eris.Errorf("snapshot: %d linhas sem colunas", doc.Rows)
	}

	tbl := &model.Table{
		Columns: make([]string, 0, len(doc.Columns)),
		Rows:    make([][]model.Value, doc.Rows),
	}
	for i := range tbl.Rows {
		tbl.Rows[i] = make([]model.Value, len(doc.Columns))
	}
	for c, col := range doc.Columns {
		tbl.Columns = append(tbl.Columns, col.Name)
		for r, v := range col.Values {
			tbl.Rows[r][c] = v
		}
	}
	return tbl, nil
}

func columnType(values []model.Value) string {
	var text, num bool
	for _, v := range values {
		switch v.Kind() {
		case model.KindText:
			text = true
		default:
			num = true
		}
	}
	switch {
	case text && num:
		return "mixed"
	case num:
		return "number"
	default:
		return "string"
	}
}
