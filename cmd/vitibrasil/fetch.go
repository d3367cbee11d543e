package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vitibrasil/internal/crawler"
	"vitibrasil/internal/model"
	"vitibrasil/internal/table"
	"vitibrasil/internal/vitibrasil"
)

var (
	fetchAba    string
	fetchSubAba string
	fetchAno    int
	fetchFile   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Busca uma tabela e imprime os registros em JSON",
	Long:  "Executa uma única busca (com fallback para o snapshot) ou, com --file, extrai a tabela de uma página HTML salva.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if fetchFile != "" {
			tbl, err := extractFile(fetchFile)
			if err != nil {
				return err
			}
			return printTable(tbl)
		}

		sel, err := crawler.Resolve(fetchAba, fetchSubAba)
		if err != nil {
			return err
		}
		if fetchAno == 0 {
			return eris.New("--ano é obrigatório")
		}

		store, closeStore, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		client := crawler.NewClient(cfg.BaseURL, cfg.HTTPTimeout, crawler.DefaultUserAgents)
		res, err := vitibrasil.NewService(client, store).Get(cmd.Context(), sel, fetchAno)
		if err != nil {
			return err
		}
		zap.L().Info("dados obtidos", zap.String("source", string(res.Source)), zap.Int("linhas", res.Table.Len()))
		return printTable(res.Table)
	},
}

func extractFile(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	raw, err := table.FromHTML(f)
	if err != nil {
		return nil, err
	}
	return table.Extract(raw)
}

func printTable(tbl *model.Table) error {
	b, err := json.MarshalIndent(tbl, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode json")
	}
	_, err = os.Stdout.Write(append(b, '\n'))
	return err
}

func init() {
	fetchCmd.Flags().StringVar(&fetchAba, "aba", "", "aba do site (Produção, Processamento, Comercialização, Importação, Exportação)")
	fetchCmd.Flags().StringVar(&fetchSubAba, "sub-aba", "", "subaba, obrigatória para Processamento, Importação e Exportação")
	fetchCmd.Flags().IntVar(&fetchAno, "ano", 0, "ano dos dados")
	fetchCmd.Flags().StringVar(&fetchFile, "file", "", "página HTML salva para extrair sem acessar o site")
	rootCmd.AddCommand(fetchCmd)
}
