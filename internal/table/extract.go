package table

import (
	"strings"

	"github.com/rotisserie/eris"

	"vitibrasil/internal/model"
)

// CategoryColumn é a coluna sintetizada para o layout em dois níveis.
const CategoryColumn = "Category"

// Colunas com estes trechos no nome são convertidas para número.
var numericMarkers = []string{"Quantidade", "Valor", "Quantity", "Value"}

// ExtractionError indica que a tabela não tem estrutura reconhecível.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return "extração da tabela: " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// carry guarda a última categoria e subcategoria vistas. No site a célula
// tb_item cobre várias linhas, então o valor precisa ser propagado.
type carry struct {
	category string
	label    string
	value    model.Value
}

// Extract converte a tabela bruta em registros tipados.
//
// Com exatamente dois cabeçalhos não vazios a tabela é tratada como dois
// níveis (categoria + subitem/valor); caso contrário as células de cada
// linha são copiadas na ordem. Linhas com a primeira ou a segunda coluna
// vazias são descartadas nos dois layouts.
func Extract(raw RawTable) (*model.Table, error) {
	headers := nonEmptyHeaders(raw.Headers)

	var (
		columns []string
		rows    [][]model.Value
		err     error
	)
	if len(headers) == 2 {
		columns = append([]string{CategoryColumn}, headers...)
		rows, err = twoLevelRows(raw.Rows)
		if err != nil {
			return nil, &ExtractionError{Err: err}
		}
	} else {
		columns = headers
		rows = flatRows(raw.Rows)
	}

	width, err := checkShape(rows, len(columns))
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	tbl := &model.Table{Columns: columns}
	for _, row := range rows {
		row = pad(row, width)
		// TODO: no layout plano a segunda coluna pode ser vazia legitimamente;
		// restringir o filtro ao layout em dois níveis quando os consumidores aceitarem.
		if row[0].Blank() || row[1].Blank() {
			continue
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	normalizeNumericColumns(tbl)
	return tbl, nil
}

func nonEmptyHeaders(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

func twoLevelRows(rows []Row) ([][]model.Value, error) {
	acc := carry{value: model.Number(0)}
	out := make([][]model.Value, 0, len(rows))

	for i, row := range rows {
		var (
			subitems []string
			seenItem bool
		)
		for _, c := range row {
			switch c.Role {
			case RoleItem:
				// a linha de categoria também traz o total em tb_item; vale a primeira
				if !seenItem {
					acc.category = strings.TrimSpace(c.Text)
					seenItem = true
				}
			case RoleSubitem:
				subitems = append(subitems, strings.TrimSpace(c.Text))
			}
		}

		switch len(subitems) {
		case 0:
		case 1:
			return nil, eris.Errorf("linha %d com apenas uma célula tb_subitem", i)
		default:
			acc.label = subitems[0]
			acc.value = model.Text(subitems[1])
		}

		out = append(out, []model.Value{model.Text(acc.category), model.Text(acc.label), acc.value})
	}
	return out, nil
}

func flatRows(rows []Row) [][]model.Value {
	out := make([][]model.Value, 0, len(rows))
	for _, row := range rows {
		vals := make([]model.Value, 0, len(row))
		for _, c := range row {
			vals = append(vals, model.Text(strings.TrimSpace(c.Text)))
		}
		out = append(out, vals)
	}
	return out
}

// checkShape devolve a largura da linha mais larga e confere com o esquema.
func checkShape(rows [][]model.Value, columns int) (int, error) {
	if len(rows) == 0 {
		return 0, eris.New("tabela sem linhas")
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if width < 2 {
		return 0, eris.Errorf("tabela com %d coluna(s) de dados", width)
	}
	if width != columns {
		return 0, eris.Errorf("%d cabeçalhos para linhas com %d colunas", columns, width)
	}
	return width, nil
}

func pad(row []model.Value, width int) []model.Value {
	for len(row) < width {
		row = append(row, model.Text(""))
	}
	return row
}

func normalizeNumericColumns(tbl *model.Table) {
	for i, name := range tbl.Columns {
		if !isNumericColumn(name) || !textColumn(tbl, i) {
			continue
		}
		for _, row := range tbl.Rows {
			row[i] = NormalizeNumber(row[i].Text())
		}
	}
}

func isNumericColumn(name string) bool {
	for _, m := range numericMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

func textColumn(tbl *model.Table, col int) bool {
	for _, row := range tbl.Rows {
		if !row[col].IsText() {
			return false
		}
	}
	return true
}
