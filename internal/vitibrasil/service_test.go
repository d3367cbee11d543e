package vitibrasil

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitibrasil/internal/crawler"
	"vitibrasil/internal/model"
	"vitibrasil/internal/repository"
	"vitibrasil/internal/table"
)

const viniferasHTML = `<html><body><table class="tb_base tb_dados">
<thead><tr><th>Cultivar</th><th>Quantidade (Kg)</th></tr></thead>
<tbody>
<tr><td class="tb_item">Tinto</td><td class="tb_subitem">Uva</td><td class="tb_subitem">100</td></tr>
<tr></tr>
</tbody></table></body></html>`

type fakeLocator struct {
	html  string
	err   error
	calls int
}

func (f *fakeLocator) Fetch(_ context.Context, sel crawler.Selection, year int) (*crawler.Page, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(f.html))
	if err != nil {
		return nil, err
	}
	return &crawler.Page{
		URL:     sel.URL(crawler.DefaultBaseURL, year),
		Headers: http.Header{},
		Table:   doc.Find(table.Selector).First(),
	}, nil
}

// syncLocator protege o contador do fakeLocator para uso concorrente.
type syncLocator struct {
	mu sync.Mutex
	fakeLocator
}

func (s *syncLocator) Fetch(ctx context.Context, sel crawler.Selection, year int) (*crawler.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fakeLocator.Fetch(ctx, sel, year)
}

// brokenStore falha em todas as operações.
type brokenStore struct{}

var errStore = errors.New("disco indisponível")

func (brokenStore) Exists(context.Context, repository.Key) (bool, error) { return false, errStore }
func (brokenStore) Read(context.Context, repository.Key) (*model.Table, error) {
	return nil, errStore
}
func (brokenStore) WriteIfAbsent(context.Context, repository.Key, *model.Table) (bool, error) {
	return false, errStore
}

var viniferas = crawler.Selection{Section: "Processamento", Subsection: "Viníferas", Option: "opt_03", Suboption: "subopt_01"}

var viniferasKey = repository.Key{Section: "Processamento", Subsection: "Viníferas", Year: 2023}

func storedTable() *model.Table {
	return &model.Table{
		Columns: []string{"Category", "Cultivar", "Quantidade (Kg)"},
		Rows:    [][]model.Value{{model.Text("Branco"), model.Text("Moscato"), model.Number(7)}},
	}
}

func TestGetLiveTwoLevelTable(t *testing.T) {
	ctx := context.Background()
	store := repository.NewFileStore(t.TempDir())
	svc := NewService(&fakeLocator{html: viniferasHTML}, store)

	res, err := svc.Get(ctx, viniferas, 2023)
	require.NoError(t, err)
	assert.Equal(t, SourceLive, res.Source)

	row := []model.Value{model.Text("Tinto"), model.Text("Uva"), model.Number(100)}
	assert.Equal(t, &model.Table{
		Columns: []string{"Category", "Cultivar", "Quantidade (Kg)"},
		Rows:    [][]model.Value{row, row},
	}, res.Table)

	saved, err := store.Read(ctx, viniferasKey)
	require.NoError(t, err)
	assert.Equal(t, res.Table, saved)
}

func TestGetLiveKeepsExistingSnapshot(t *testing.T) {
	ctx := context.Background()
	store := repository.NewFileStore(t.TempDir())
	_, err := store.WriteIfAbsent(ctx, viniferasKey, storedTable())
	require.NoError(t, err)

	res, err := NewService(&fakeLocator{html: viniferasHTML}, store).Get(ctx, viniferas, 2023)
	require.NoError(t, err)
	assert.Equal(t, SourceLive, res.Source)
	assert.Equal(t, 2, res.Table.Len())

	saved, err := store.Read(ctx, viniferasKey)
	require.NoError(t, err)
	assert.Equal(t, storedTable(), saved)
}

func TestGetFallsBackToSnapshot(t *testing.T) {
	failures := map[string]error{
		"upstream":  &crawler.UpstreamError{Section: "Processamento", Year: 2023, StatusCode: http.StatusServiceUnavailable},
		"transport": &crawler.TransportError{URL: "http://x", Err: errors.New("connection refused")},
		"missing":   &crawler.MissingTableError{URL: "http://x"},
	}

	for name, cause := range failures {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := repository.NewFileStore(t.TempDir())
			_, err := store.WriteIfAbsent(ctx, viniferasKey, storedTable())
			require.NoError(t, err)

			res, err := NewService(&fakeLocator{err: cause}, store).Get(ctx, viniferas, 2023)
			require.NoError(t, err)
			assert.Equal(t, SourceSnapshot, res.Source)
			assert.Equal(t, storedTable(), res.Table)
		})
	}
}

func TestGetFallsBackOnExtractionError(t *testing.T) {
	ctx := context.Background()
	store := repository.NewFileStore(t.TempDir())
	_, err := store.WriteIfAbsent(ctx, viniferasKey, storedTable())
	require.NoError(t, err)

	html := `<table class="tb_base tb_dados"><tr><th>Só uma</th></tr><tr><td>x</td></tr></table>`
	res, err := NewService(&fakeLocator{html: html}, store).Get(ctx, viniferas, 2023)
	require.NoError(t, err)
	assert.Equal(t, SourceSnapshot, res.Source)
}

func TestGetWithoutSnapshot(t *testing.T) {
	cause := &crawler.UpstreamError{Section: "Processamento", Year: 2023, StatusCode: http.StatusServiceUnavailable}
	svc := NewService(&fakeLocator{err: cause}, repository.NewFileStore(t.TempDir()))

	res, err := svc.Get(context.Background(), viniferas, 2023)
	assert.Nil(t, res)

	var missing *SnapshotMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, viniferasKey, missing.Key)

	var upstream *crawler.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
}

func TestGetStoreFailureDoesNotFailLive(t *testing.T) {
	res, err := NewService(&fakeLocator{html: viniferasHTML}, brokenStore{}).Get(context.Background(), viniferas, 2023)
	require.NoError(t, err)
	assert.Equal(t, SourceLive, res.Source)
}

func TestGetStoreReadFailureIsTerminal(t *testing.T) {
	svc := NewService(&fakeLocator{err: errors.New("boom")}, brokenStore{})

	_, err := svc.Get(context.Background(), viniferas, 2023)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStore)

	var missing *SnapshotMissingError
	assert.False(t, errors.As(err, &missing))
}
