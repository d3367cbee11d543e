package table

import (
	"math"
	"strconv"
	"strings"

	"vitibrasil/internal/model"
)

// NormalizeNumber converte um número no formato do site ("1.234", "-")
// em valor numérico. Nunca falha: o que não for número vira ausente.
func NormalizeNumber(s string) model.Value {
	s = strings.TrimSpace(strings.ReplaceAll(s, ".", ""))

	// "-" significa sem dados
	if s != "" && strings.Trim(s, "-") == "" {
		return model.Number(0)
	}

	if !plainNumber(s) {
		return model.Missing()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return model.Missing()
	}
	return model.Number(f)
}

// plainNumber recusa grafias aceitas pelo ParseFloat que não aparecem em
// tabelas ("NaN", "Inf", hexadecimal). Traço misturado com dígitos ("-5",
// "12-3") não é número no site.
func plainNumber(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == 'e' || r == 'E':
		case r == '+' && i == 0:
		default:
			return false
		}
	}
	return true
}
