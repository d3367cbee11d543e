package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type Kind uint8

const (
	KindMissing Kind = iota
	KindText
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "missing"
	}
}

// Value é uma célula da tabela já tratada: texto, número ou ausente.
type Value struct {
	kind Kind
	text string
	num  float64
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

func Missing() Value {
	return Value{}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsText() bool {
	return v.kind == KindText
}

// Text devolve o conteúdo textual; vazio para números e ausentes.
func (v Value) Text() string {
	return v.text
}

func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Blank indica uma célula de texto vazia, usada pelo filtro de linhas.
func (v Value) Blank() bool {
	return v.kind == KindText && v.text == ""
}

func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = Missing()
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return err
		}
		*v = Number(f)
		return nil
	}
}
