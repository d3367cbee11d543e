package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vitibrasil/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "vitibrasil",
	Short: "API de dados de vitivinicultura do VitiBrasil (Embrapa)",
	Long:  "Raspa as tabelas do VitiBrasil, normaliza os registros e serve o resultado, usando o último snapshot local quando a raspagem falha.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if err := config.InitLogger(cfg); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// go run ./cmd/vitibrasil serve
// go run ./cmd/vitibrasil fetch --aba Processamento --sub-aba Viníferas --ano 2023
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
