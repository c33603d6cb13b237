// Package metrics holds the Prometheus collectors shared by the client,
// the filter evaluator and the upload workflow.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	ClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filevault_client_requests_total",
			Help: "Requests sent to the file storage backend.",
		},
		[]string{"operation", "status"},
	)

	ClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filevault_client_request_duration_seconds",
			Help:    "Duration of requests sent to the file storage backend.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	UploadOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filevault_upload_outcomes_total",
			Help: "Upload attempts by outcome (stored, duplicate, rejected, network_failure).",
		},
		[]string{"outcome"},
	)

	FilterCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filevault_filter_cache_hits_total",
		Help: "Filter evaluations served from the memoization cache.",
	})

	FilterCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filevault_filter_cache_misses_total",
		Help: "Filter evaluations computed from scratch.",
	})
)

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Debug().Str("addr", addr).Msg("Serving metrics")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
