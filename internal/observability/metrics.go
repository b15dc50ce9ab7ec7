// Métricas de processamento expostas em /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const prefix = "gerador_faturas_"

var (
	// LotesProcessados conta lotes por resultado ("success"/"error").
	LotesProcessados = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prefix + "lotes_total",
		Help: "Lotes de planilha processados, por resultado",
	}, []string{"result"})

	// FaturasEmitidas conta registros de fatura emitidos.
	FaturasEmitidas = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "faturas_total",
		Help: "Registros de fatura emitidos",
	})

	// Avisos conta warnings por tipo.
	Avisos = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prefix + "avisos_total",
		Help: "Avisos de qualidade de dados, por tipo",
	}, []string{"kind"})

	// DuracaoLote mede a latência do processamento de um lote.
	DuracaoLote = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    prefix + "lote_duration_seconds",
		Help:    "Duração do processamento de um lote",
		Buckets: prometheus.DefBuckets,
	})
)
