package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitibrasil_fetch_total",
			Help: "Total de requisições ao site do VitiBrasil por resultado",
		},
		[]string{"section", "outcome"},
	)

	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vitibrasil_fetch_duration_seconds",
			Help:    "Duração das requisições ao site do VitiBrasil",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"section"},
	)

	SnapshotFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitibrasil_snapshot_fallback_total",
			Help: "Total de respostas servidas a partir do snapshot local",
		},
		[]string{"section", "result"},
	)

	SnapshotWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitibrasil_snapshot_writes_total",
			Help: "Total de tentativas de gravação de snapshot",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Register registra as métricas no registry padrão. Pode ser chamado mais
// de uma vez.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(FetchTotal, FetchDuration, SnapshotFallbackTotal, SnapshotWritesTotal)
	})
}

func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// Start expõe /metrics numa porta separada.
func Start(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			zap.L().Error("servidor de métricas encerrado", zap.Error(err))
		}
	}()
}
