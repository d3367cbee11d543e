package crawler

import (
	"io"

	"github.com/PuerkitoBio/goquery"

	"vitibrasil/internal/table"
)

const tableSelector = table.Selector

func parsePage(body io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(body)
}

func locateTable(doc *goquery.Document) (*goquery.Selection, bool) {
	sel := doc.Find(tableSelector).First()
	return sel, sel.Length() > 0
}
