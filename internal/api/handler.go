package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"vitibrasil/internal/crawler"
	"vitibrasil/internal/vitibrasil"
)

// Retriever é o serviço que devolve os dados de uma aba/ano.
type Retriever interface {
	Get(ctx context.Context, sel crawler.Selection, year int) (*vitibrasil.Result, error)
}

type errorResponse struct {
	Detail  string   `json:"detail"`
	Options []string `json:"options,omitempty"`
}

// Handler atende GET /vitibrasil/?aba=&ano=&sub_aba=.
func Handler(svc Retriever) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		aba := q.Get("aba")
		if strings.TrimSpace(aba) == "" {
			writeError(w, http.StatusBadRequest, errorResponse{
				Detail:  "o parâmetro `aba` é obrigatório",
				Options: crawler.Sections(),
			})
			return
		}

		year, err := strconv.Atoi(strings.TrimSpace(q.Get("ano")))
		if err != nil {
			writeError(w, http.StatusBadRequest, errorResponse{Detail: "o parâmetro `ano` deve ser um número inteiro"})
			return
		}

		sel, err := crawler.Resolve(aba, q.Get("sub_aba"))
		if err != nil {
			resp := errorResponse{Detail: err.Error()}
			var invalid *crawler.InvalidSelectionError
			if errors.As(err, &invalid) {
				resp.Options = invalid.Options
			}
			writeError(w, http.StatusBadRequest, resp)
			return
		}

		res, err := svc.Get(r.Context(), sel, year)
		if err != nil {
			zap.L().Error("erro ao obter dados",
				zap.String("aba", sel.Section),
				zap.String("sub_aba", sel.Subsection),
				zap.Int("ano", year),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, errorResponse{Detail: "Erro: " + err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Data-Source", string(res.Source))
		if err := json.NewEncoder(w).Encode(res.Table); err != nil {
			zap.L().Error("erro ao escrever resposta", zap.Error(err))
		}
	}
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
