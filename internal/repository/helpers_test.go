package repository

import "vitibrasil/internal/model"

var testKey = Key{Section: "Processamento", Subsection: "Viníferas", Year: 2023}

func sampleTable() *model.Table {
	return &model.Table{
		Columns: []string{"Category", "Cultivar", "Quantidade (Kg)"},
		Rows: [][]model.Value{
			{model.Text("TINTAS"), model.Text("Alicante Bouschet"), model.Number(4108737)},
			{model.Text("TINTAS"), model.Text("Ancellota"), model.Missing()},
		},
	}
}

func otherTable() *model.Table {
	return &model.Table{
		Columns: []string{"Category", "Cultivar", "Quantidade (Kg)"},
		Rows:    [][]model.Value{{model.Text("BRANCAS"), model.Text("Moscato"), model.Number(1)}},
	}
}
