package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageWithTable = `<html><body>
<table class="tb_base tb_dados">
<thead><tr><th>Produto</th><th>Quantidade (L.)</th></tr></thead>
<tbody><tr><td class="tb_item">VINHO DE MESA</td><td class="tb_item">1.000</td></tr></tbody>
</table></body></html>`

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second, StaticUserAgent("test-agent"))
}

func mustResolve(t *testing.T, section, sub string) Selection {
	t.Helper()
	sel, err := Resolve(section, sub)
	require.NoError(t, err)
	return sel
}

func TestFetchFindsTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "2022", r.URL.Query().Get("ano"))
		assert.Equal(t, "opt_05", r.URL.Query().Get("opcao"))
		assert.Equal(t, "subopt_02", r.URL.Query().Get("subopcao"))
		w.Write([]byte(pageWithTable))
	}))
	defer srv.Close()

	page, err := newTestClient(srv.URL).Fetch(context.Background(), mustResolve(t, "Importação", "Espumantes"), 2022)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Table.Length())
	assert.Contains(t, page.URL, "subopcao=subopt_02")
	assert.Equal(t, "test-agent", page.Headers.Get("User-Agent"))
}

func TestFetchMissingTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><table class="tb_base"><tr><td>x</td></tr></table></body></html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), mustResolve(t, "Produção", ""), 2023)

	var missing *MissingTableError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.URL, "opcao=opt_02")
	assert.Equal(t, "test-agent", missing.Headers.Get("User-Agent"))
	require.NotNil(t, missing.Document)
	assert.Equal(t, 1, missing.Document.Find("table").Length())
}

func TestFetchUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), mustResolve(t, "Comercialização", ""), 2021)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, &UpstreamError{Section: "Comercialização", Year: 2021, StatusCode: http.StatusServiceUnavailable}, upstream)
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Fetch(context.Background(), mustResolve(t, "Produção", ""), 2023)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Contains(t, err.Error(), "não foi possível acessar o site")
}

func TestFetchCanceledContextIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pageWithTable))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).Fetch(ctx, mustResolve(t, "Produção", ""), 2023)
	require.Error(t, err)

	var transport *TransportError
	assert.NotErrorAs(t, err, &transport)
}

func TestRandomUserAgents(t *testing.T) {
	ua := RandomUserAgents{"a", "b"}
	for range 20 {
		assert.Contains(t, []string{"a", "b"}, ua.UserAgent())
	}
	assert.Equal(t, "Mozilla/5.0", RandomUserAgents{}.UserAgent())
}

func TestFetchOutcome(t *testing.T) {
	assert.Equal(t, "ok", fetchOutcome(nil))
	assert.Equal(t, "transport", fetchOutcome(&TransportError{}))
	assert.Equal(t, "upstream_status", fetchOutcome(&UpstreamError{}))
	assert.Equal(t, "missing_table", fetchOutcome(&MissingTableError{}))
}
