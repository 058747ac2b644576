package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gunhaa/vercel-dodge-bullet/internal/game"
	"github.com/gunhaa/vercel-dodge-bullet/internal/scores"
)

// EngineInterface defines the engine methods the API layer calls.
// Kept minimal so tests can substitute a stub without running the
// tick loop.
type EngineInterface interface {
	// Snapshot returns the latest lock-free immutable snapshot.
	Snapshot() *game.SessionSnapshot
	// StartSession begins a fresh playthrough for the named player.
	StartSession(playerName string) error
	// AdvanceStage performs the StageClear -> Playing transition.
	AdvanceStage() error
	// ReturnToLobby tears down the active session.
	ReturnToLobby()
	// SetPointerTarget routes pointer input into player steering.
	SetPointerTarget(x, y float64)
	// SetVisibility is the host visibility (pause/resume) signal.
	SetVisibility(hidden bool)
}

// PreviewRenderer renders a snapshot to a PNG for the preview endpoint.
type PreviewRenderer interface {
	RenderPNG(snap *game.SessionSnapshot) ([]byte, error)
}

// RouterConfig contains the dependencies needed to construct the HTTP
// router. Designed for dependency injection in tests.
type RouterConfig struct {
	// Engine is the game engine (required).
	Engine EngineInterface

	// Scores is the leaderboard store. Nil disables the leaderboard
	// endpoint's storage; it then serves an empty list.
	Scores scores.Store

	// Renderer serves /api/preview.png. Nil returns 404 there.
	Renderer PreviewRenderer

	// LeaderboardSize is the default top-N size (default 10).
	LeaderboardSize int

	// RateLimiter is an optional pre-configured rate limiter. If nil,
	// one is created from RateLimitConfig (or defaults).
	RateLimiter *IPRateLimiter

	// RateLimitConfig is used only when RateLimiter is nil.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins overrides the default allowed origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware.
	DisableLogging bool
}

type routerHandlers struct {
	engine          EngineInterface
	scores          scores.Store
	renderer        PreviewRenderer
	leaderboardSize int
}

// NewRouter constructs the HTTP router with all middleware and routes.
// It is pure: no goroutines, no listeners, safe for httptest.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting before CORS so floods are rejected cheaply.
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = append([]string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}, AllowedOrigins...)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	size := cfg.LeaderboardSize
	if size <= 0 {
		size = 10
	}

	h := &routerHandlers{
		engine:          cfg.Engine,
		scores:          cfg.Scores,
		renderer:        cfg.Renderer,
		leaderboardSize: size,
	}

	r.Route("/api", func(r chi.Router) {
		// Session state
		r.Get("/state", h.handleGetState)
		r.Get("/leaderboard", h.handleGetLeaderboard)
		r.Get("/preview.png", h.handleGetPreview)

		// Session control
		r.Post("/session/start", h.handleSessionStart)
		r.Post("/session/advance", h.handleSessionAdvance)
		r.Post("/session/lobby", h.handleSessionLobby)

		// Input collaborators
		r.Post("/input/pointer", h.handlePointer)
		r.Post("/visibility", h.handleVisibility)
	})

	return r
}
