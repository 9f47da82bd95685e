package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search worker collectors. Labels: "length" is L, "policy" the acceptance policy.
var (
	Iterations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pacp_search_iterations_total",
		Help: "Controller iterations",
	}, []string{"length", "policy"})

	Restarts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pacp_search_restarts_total",
		Help: "Full restarts with seed repair",
	}, []string{"length", "policy"})

	// Kicks is labelled by kick size: "small", "big" or "solution".
	Kicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pacp_search_kicks_total",
		Help: "Perturbation kicks by size",
	}, []string{"length", "size"})

	// Solutions counts emitted classes by quality class.
	Solutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pacp_search_solutions_total",
		Help: "Emitted solution classes",
	}, []string{"length", "class"})

	Duplicates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pacp_search_duplicates_total",
		Help: "Solutions suppressed by the dedup store",
	}, []string{"length"})

	Violations = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pacp_search_violations",
		Help: "Current weighted violation count per worker",
	}, []string{"length", "worker"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pacp_search_run_duration_seconds",
		Help:    "Wall time of one worker run",
		Buckets: []float64{1, 10, 60, 300, 1800, 3600, 6 * 3600, 24 * 3600},
	})
)

// Serve exposes /metrics on addr until ctx is cancelled.
//
// Description:
//
//	The listener is bound before Serve returns so address errors surface
//	immediately; the HTTP server then runs in a goroutine and is shut down with a
//	5-second grace period once ctx is done.
//
// Outputs:
//
//	net.Addr - the bound address (useful with ":0").
//	error    - listen failure.
func Serve(ctx context.Context, addr string, logger *slog.Logger) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.String("error", err.Error()))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logger.Info("metrics endpoint listening", slog.String("addr", ln.Addr().String()))

	return ln.Addr(), nil
}
