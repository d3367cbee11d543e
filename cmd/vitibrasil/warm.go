package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vitibrasil/internal/crawler"
	"vitibrasil/internal/vitibrasil"
)

var (
	warmFrom    int
	warmTo      int
	warmAba     string
	warmWorkers int
	warmDelay   time.Duration
)

// go run ./cmd/vitibrasil warm --from 2020 --to 2023 --aba Importação
var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Raspa um intervalo de anos para popular os snapshots locais",
	RunE: func(cmd *cobra.Command, args []string) error {
		if warmFrom == 0 || warmTo < warmFrom {
			return eris.Errorf("intervalo de anos inválido: %d-%d", warmFrom, warmTo)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sels := crawler.AllSelections()
		if warmAba != "" {
			name := crawler.Canonical(warmAba)
			var filtered []crawler.Selection
			for _, s := range sels {
				if s.Section == name {
					filtered = append(filtered, s)
				}
			}
			if len(filtered) == 0 {
				_, err := crawler.Resolve(warmAba, "")
				return err
			}
			sels = filtered
		}

		store, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		client := crawler.NewClient(cfg.BaseURL, cfg.HTTPTimeout, crawler.DefaultUserAgents)
		svc := vitibrasil.NewService(client, store)

		jobs := vitibrasil.Jobs(sels, warmFrom, warmTo)
		zap.L().Info("iniciando aquecimento", zap.Int("buscas", len(jobs)), zap.Int("workers", warmWorkers))

		var live, cached, failed int
		for _, r := range svc.Warm(ctx, jobs, warmWorkers, warmDelay) {
			switch {
			case r.Err != nil:
				failed++
			case r.Source == vitibrasil.SourceLive:
				live++
			default:
				cached++
			}
		}

		zap.L().Info("aquecimento finalizado",
			zap.Int("live", live),
			zap.Int("snapshot", cached),
			zap.Int("falhas", failed),
		)
		return nil
	},
}

func init() {
	warmCmd.Flags().IntVar(&warmFrom, "from", 0, "primeiro ano")
	warmCmd.Flags().IntVar(&warmTo, "to", 0, "último ano")
	warmCmd.Flags().StringVar(&warmAba, "aba", "", "restringe a uma aba")
	warmCmd.Flags().IntVar(&warmWorkers, "workers", 4, "buscas simultâneas")
	warmCmd.Flags().DurationVar(&warmDelay, "delay", 500*time.Millisecond, "pausa entre buscas de cada worker")
	rootCmd.AddCommand(warmCmd)
}
