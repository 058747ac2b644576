package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gunhaa/vercel-dodge-bullet/internal/api"
	"github.com/gunhaa/vercel-dodge-bullet/internal/config"
	"github.com/gunhaa/vercel-dodge-bullet/internal/game"
	"github.com/gunhaa/vercel-dodge-bullet/internal/render"
	"github.com/gunhaa/vercel-dodge-bullet/internal/scores"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  DODGE BULLET - GO ENGINE")
	log.Println("🎮 ================================")

	cfg := config.Load()
	log.Printf("🗺️ Arena %gx%g at %d TPS, stage duration %s",
		cfg.Arena.Width, cfg.Arena.Height, cfg.Arena.TickRate, cfg.Stage.Duration)

	// Leaderboard store. Startup failure degrades to "no leaderboard";
	// it never blocks the simulation.
	var store *scores.SQLiteStore
	if s, err := scores.Open(cfg.Scores.Path); err != nil {
		log.Printf("⚠️ Leaderboard disabled: %v", err)
	} else {
		store = s
		defer store.Close()
		log.Printf("🏆 Leaderboard store: %s", cfg.Scores.Path)
	}

	engine := game.NewEngine(game.EngineConfig{
		TickRate:      cfg.Arena.TickRate,
		ArenaWidth:    cfg.Arena.Width,
		ArenaHeight:   cfg.Arena.Height,
		StageDuration: cfg.Stage.Duration,
		SubmitScore: func(playerName string, score int) {
			if store == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Submit(ctx, playerName, score); err != nil {
				// Caught and counted; gameplay already moved on.
				api.RecordScoreSubmitFailure()
				log.Printf("⚠️ Score submit failed for %s: %v", playerName, err)
				return
			}
			log.Printf("🏆 Score submitted: %s %d", playerName, score)
		},
	})

	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	var renderer api.PreviewRenderer
	if os.Getenv("DISABLE_PREVIEW") != "true" {
		renderer = render.NewPreview(int(cfg.Arena.Width), int(cfg.Arena.Height))
	}

	var storeIface scores.Store
	if store != nil {
		storeIface = store
	}
	server := api.NewServer(api.RouterConfig{
		Engine:          engine,
		Scores:          storeIface,
		Renderer:        renderer,
		LeaderboardSize: cfg.Scores.TopN,
	})

	engine.Start()
	log.Println("✅ Engine started")

	go func() {
		addr := ":" + strconv.Itoa(cfg.Server.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	server.Stop()
	engine.Stop()
	log.Println("👋 Goodbye!")
}
