package table

import (
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// Selector localiza a tabela de dados nas páginas do VitiBrasil.
const Selector = "table.tb_base.tb_dados"

// Classes CSS usadas pelo site para categoria e subcategoria.
const (
	itemClass    = "tb_item"
	subitemClass = "tb_subitem"
)

type Role uint8

const (
	RoleData Role = iota
	RoleItem
	RoleSubitem
)

type Cell struct {
	Text string
	Role Role
}

type Row []Cell

// RawTable é a tabela HTML ainda sem tratamento: cabeçalhos e linhas na
// ordem do documento.
type RawTable struct {
	Headers []string
	Rows    []Row
}

var ErrTableNotFound = eris.New("tabela de dados não encontrada")

// FromSelection converte o nó <table> em RawTable. Todo <th> vira
// cabeçalho e todo <tr> vira linha, inclusive as de cabeçalho e rodapé.
func FromSelection(sel *goquery.Selection) RawTable {
	var raw RawTable

	sel.Find("th").Each(func(_ int, th *goquery.Selection) {
		raw.Headers = append(raw.Headers, th.Text())
	})

	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		row := Row{}
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, Cell{Text: td.Text(), Role: roleOf(td)})
		})
		raw.Rows = append(raw.Rows, row)
	})

	return raw
}

// FromHTML lê um documento completo e devolve a tabela de dados.
func FromHTML(r io.Reader) (RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return RawTable{}, eris.Wrap(err, "parse html")
	}

	sel := doc.Find(Selector).First()
	if sel.Length() == 0 {
		return RawTable{}, ErrTableNotFound
	}
	return FromSelection(sel), nil
}

func roleOf(td *goquery.Selection) Role {
	switch {
	case td.HasClass(itemClass):
		return RoleItem
	case td.HasClass(subitemClass):
		return RoleSubitem
	default:
		return RoleData
	}
}
