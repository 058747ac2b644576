// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for arena, stage and server
// settings; all other packages should reference these values.
package config

import (
	"os"
	"strconv"
	"time"
)

// ArenaConfig holds the simulation arena and tick settings.
type ArenaConfig struct {
	Width    float64 // Arena width in pixels
	Height   float64 // Arena height in pixels
	TickRate int     // Simulation ticks per second
}

// DefaultArena returns the default arena configuration.
func DefaultArena() ArenaConfig {
	return ArenaConfig{
		Width:    480, // portrait arena, matches the touch-first layout
		Height:   720,
		TickRate: 60,
	}
}

// ArenaFromEnv returns arena configuration with environment overrides.
func ArenaFromEnv() ArenaConfig {
	cfg := DefaultArena()

	if w := getEnvFloat("ARENA_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvFloat("ARENA_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if t := getEnvInt("TICK_RATE", 0); t > 0 {
		cfg.TickRate = t
	}

	return cfg
}

// StageConfig holds stage timing settings.
type StageConfig struct {
	Duration time.Duration // Length of each finite stage
}

// DefaultStage returns the default stage configuration.
func DefaultStage() StageConfig {
	return StageConfig{
		Duration: 60 * time.Second,
	}
}

// StageFromEnv returns stage configuration with environment overrides.
// DEBUG_STAGES=true shortens stages to 15s for manual testing.
func StageFromEnv() StageConfig {
	cfg := DefaultStage()

	if os.Getenv("DEBUG_STAGES") == "true" {
		cfg.Duration = 15 * time.Second
	}
	if s := getEnvInt("STAGE_SECONDS", 0); s > 0 {
		cfg.Duration = time.Duration(s) * time.Second
	}

	return cfg
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port: 3000,
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}

	return cfg
}

// ScoresConfig holds leaderboard storage settings.
type ScoresConfig struct {
	Path string // SQLite database path
	TopN int    // Default leaderboard size
}

// DefaultScores returns the default scores configuration.
func DefaultScores() ScoresConfig {
	return ScoresConfig{
		Path: "scores.db",
		TopN: 10,
	}
}

// ScoresFromEnv returns scores configuration with environment overrides.
func ScoresFromEnv() ScoresConfig {
	cfg := DefaultScores()

	if p := os.Getenv("SCORES_DB_PATH"); p != "" {
		cfg.Path = p
	}
	if n := getEnvInt("LEADERBOARD_SIZE", 0); n > 0 {
		cfg.TopN = n
	}

	return cfg
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Arena  ArenaConfig
	Stage  StageConfig
	Server ServerConfig
	Scores ScoresConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Arena:  ArenaFromEnv(),
		Stage:  StageFromEnv(),
		Server: ServerFromEnv(),
		Scores: ScoresFromEnv(),
	}
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
