package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Server combines the HTTP router with the WebSocket hub.
type Server struct {
	engine      EngineInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer creates an API server. Background workers do NOT start
// until Start is called, so tests can construct a server and use
// Router() without goroutines running.
func NewServer(cfg RouterConfig) *Server {
	s := &Server{
		engine: cfg.Engine,
		wsHub:  NewWebSocketHub(cfg.Engine),
	}

	s.rateLimiter = cfg.RateLimiter
	if s.rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		s.rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	cfg.RateLimiter = s.rateLimiter

	s.router = NewRouter(cfg)

	// The hub needs the instance, so the websocket route is added here
	// rather than in the pure router factory.
	s.router.Get("/ws", s.handleWS)

	return s
}

// Start launches the hub workers and serves HTTP. Call once.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop()

	log.Printf("🌐 API server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router returns the handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop shuts down background workers.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
