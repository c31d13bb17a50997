package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MovementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cautela_movements_total",
		Help: "Stock-affecting movements recorded, by type.",
	}, []string{"type"})

	AllocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cautela_allocations_total",
		Help: "Vehicle allocation operations, by action.",
	}, []string{"action"})

	SignaturesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cautela_signatures_total",
		Help: "Checkout movements signed by their custody target.",
	})

	RejectedOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cautela_rejected_operations_total",
		Help: "Engine operations rejected before any write, by reason.",
	}, []string{"reason"})
)

// Serve exposes /metrics and /health on a side HTTP server, apart from
// the Fiber app.
func Serve(addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	return (&http.Server{Addr: addr, Handler: mux}).ListenAndServe()
}
