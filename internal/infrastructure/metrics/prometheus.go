// Package metrics métricas Prometheus del motor de inventario y de la capa HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marko-code-lab/noiddea/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

const namespace = "noiddea"

// Prometheus implementa ports.Metrics con un registro propio (no el global).
type Prometheus struct {
	registry      *prometheus.Registry
	transfers     *prometheus.CounterVec
	compensations *prometheus.CounterVec
	importItems   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

// NewPrometheus crea y registra los colectores.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_transfers_total",
			Help:      "Traslados de stock por resultado.",
		}, []string{"outcome"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compensations_total",
			Help:      "Escrituras de compensación por operación y resultado.",
		}, []string{"operation", "result"}),
		importItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_items_total",
			Help:      "Ítems de importación masiva por origen y resultado.",
		}, []string{"source", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		p.transfers, p.compensations, p.importItems, p.httpRequests, p.httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// Transfer cuenta un traslado terminado.
func (p *Prometheus) Transfer(outcome string) {
	p.transfers.WithLabelValues(outcome).Inc()
}

// Compensation cuenta una compensación; result = ok | failed.
func (p *Prometheus) Compensation(operation string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	p.compensations.WithLabelValues(operation, result).Inc()
}

// ImportItems suma los ítems de un lote.
func (p *Prometheus) ImportItems(source string, imported, failed int) {
	p.importItems.WithLabelValues(source, "imported").Add(float64(imported))
	p.importItems.WithLabelValues(source, "failed").Add(float64(failed))
}

// ObserveRequest registra una petición HTTP terminada. route es el patrón, no el path concreto.
func (p *Prometheus) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler expone el registro en formato Prometheus.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
