package model

import (
	"bytes"
	"encoding/json"
)

// Table é a sequência ordenada de registros extraída de uma página do
// VitiBrasil. Cada linha tem exatamente len(Columns) valores.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// Record é uma linha da tabela associada aos nomes das colunas.
type Record struct {
	columns []string
	values  []Value
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) Record(i int) Record {
	return Record{columns: t.Columns, values: t.Rows[i]}
}

func (t *Table) Records() []Record {
	out := make([]Record, 0, t.Len())
	for i := range t.Rows {
		out = append(out, t.Record(i))
	}
	return out
}

// Column devolve os valores de uma coluna pelo nome.
func (t *Table) Column(name string) ([]Value, bool) {
	for i, c := range t.Columns {
		if c != name {
			continue
		}
		col := make([]Value, 0, len(t.Rows))
		for _, row := range t.Rows {
			col = append(col, row[i])
		}
		return col, true
	}
	return nil, false
}

func (r Record) Get(column string) (Value, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return Value{}, false
}

func (r Record) Values() []Value {
	return r.values
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := r.values[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON serializa a tabela como uma lista de objetos, mantendo a
// ordem das colunas em cada objeto.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := t.Record(i).MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
