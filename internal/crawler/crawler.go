package crawler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"vitibrasil/internal/observability"
)

const DefaultBaseURL = "http://vitibrasil.cnpuv.embrapa.br/index.php"

// Page é uma página do VitiBrasil com a tabela de dados localizada.
type Page struct {
	URL     string
	Headers http.Header
	Table   *goquery.Selection
}

// Client busca as páginas do site. Cada chamada faz uma única requisição,
// sem novas tentativas.
type Client struct {
	HTTP       *http.Client
	BaseURL    string
	UserAgents UserAgentSource
}

func NewClient(baseURL string, timeout time.Duration, ua UserAgentSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if ua == nil {
		ua = DefaultUserAgents
	}
	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
		UserAgents: ua,
	}
}

// Fetch busca a página da aba/ano e localiza a tabela de dados.
//
// Erros possíveis: *TransportError (sem conexão), *UpstreamError (status
// diferente de 200), *MissingTableError (página sem tabela) ou um erro
// genérico para qualquer outra falha.
func (c *Client) Fetch(ctx context.Context, sel Selection, year int) (*Page, error) {
	start := time.Now()
	page, err := c.fetch(ctx, sel, year)
	observability.FetchDuration.WithLabelValues(sel.Section).Observe(time.Since(start).Seconds())
	observability.FetchTotal.WithLabelValues(sel.Section, fetchOutcome(err)).Inc()
	return page, err
}

func (c *Client) fetch(ctx context.Context, sel Selection, year int) (*Page, error) {
	url := sel.URL(c.BaseURL, year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "crawler: new request %s", url)
	}
	req.Header.Set("User-Agent", c.UserAgents.UserAgent())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if isConnectionError(err) {
			return nil, &TransportError{URL: url, Err: err}
		}
		return nil, eris.Wrapf(err, "crawler: get %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		zap.L().Warn("servidor indisponível",
			zap.String("aba", sel.Section),
			zap.Int("ano", year),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &UpstreamError{
			Section:    sel.Section,
			Subsection: sel.Subsection,
			Year:       year,
			StatusCode: resp.StatusCode,
		}
	}

	doc, err := parsePage(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "crawler: parse %s", url)
	}

	tbl, ok := locateTable(doc)
	if !ok {
		zap.L().Warn("página sem tabela de dados", zap.String("url", url))
		return nil, &MissingTableError{URL: url, Headers: req.Header.Clone(), Document: doc}
	}

	zap.L().Debug("tabela de dados extraída", zap.String("url", url))
	return &Page{URL: url, Headers: req.Header.Clone(), Table: tbl}, nil
}

func fetchOutcome(err error) string {
	switch err.(type) {
	case nil:
		return "ok"
	case *TransportError:
		return "transport"
	case *UpstreamError:
		return "upstream_status"
	case *MissingTableError:
		return "missing_table"
	default:
		return "error"
	}
}
