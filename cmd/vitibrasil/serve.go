package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vitibrasil/internal/api"
	"vitibrasil/internal/crawler"
	"vitibrasil/internal/observability"
	"vitibrasil/internal/vitibrasil"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Inicia a API HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		client := crawler.NewClient(cfg.BaseURL, cfg.HTTPTimeout, crawler.DefaultUserAgents)
		svc := vitibrasil.NewService(client, store)

		observability.Register()
		if cfg.MetricsPort != "" {
			observability.Start(cfg.MetricsPort)
		}

		port := servePort
		if port == "" {
			port = cfg.Port
		}
		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           api.NewRouter(svc, api.RouterOptions{Metrics: cfg.MetricsPort == ""}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("encerrando servidor")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("API VitiBrasil rodando",
			zap.String("port", port),
			zap.String("snapshot_driver", cfg.SnapshotDriver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "porta do servidor (padrão: PORT)")
	rootCmd.AddCommand(serveCmd)
}
