package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality (no per-player labels).
var (
	projectileCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_projectile_count",
		Help: "Active projectiles in the arena",
	})

	stageGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_stage",
		Help: "Current stage index (0 when no session is active)",
	})

	displayScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_display_score",
		Help: "Current display score including the time bonus",
	})

	scoreSubmitFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "score_submit_failures_total",
		Help: "Leaderboard submissions that failed (gameplay unaffected)",
	})

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "ws_ip_limit", "ws_total_limit"

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "Total WebSocket messages sent",
	})
)

// ObservabilityConfig configures the localhost debug server.
type ObservabilityConfig struct {
	Enabled    bool
	ListenAddr string // MUST stay on localhost in production
}

// DefaultObservabilityConfig returns safe defaults.
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// StartDebugServer starts the internal observability server with
// pprof, prometheus metrics and a health check. Binds localhost only
// unless explicitly overridden.
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return nil
	}

	if cfg.ListenAddr != "127.0.0.1:6060" && cfg.ListenAddr != "localhost:6060" {
		if os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
			log.Println("⚠️ Debug server forced to localhost")
			cfg.ListenAddr = "127.0.0.1:6060"
		}
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	go func() {
		log.Printf("📊 Debug server on %s (pprof, /metrics)", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()

	return nil
}

// UpdateSimulationGauges publishes snapshot aggregates to prometheus.
func UpdateSimulationGauges(projectiles, stage int, score float64) {
	projectileCount.Set(float64(projectiles))
	stageGauge.Set(float64(stage))
	displayScore.Set(score)
}

// RecordScoreSubmitFailure counts a failed (and ignored) submission.
func RecordScoreSubmitFailure() {
	scoreSubmitFailures.Inc()
}

// RecordConnectionRejected increments the rejection counter. reason
// must be one of: "rate_limit", "origin", "ws_ip_limit", "ws_total_limit".
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// UpdateWSConnections updates the WebSocket connection gauge.
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments the WebSocket message counter.
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
