package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	arena := DefaultArena()
	if arena.Width != 480 || arena.Height != 720 || arena.TickRate != 60 {
		t.Errorf("DefaultArena = %+v", arena)
	}

	if d := DefaultStage().Duration; d != 60*time.Second {
		t.Errorf("DefaultStage duration = %s, want 60s", d)
	}

	if p := DefaultServer().Port; p != 3000 {
		t.Errorf("DefaultServer port = %d, want 3000", p)
	}

	sc := DefaultScores()
	if sc.Path != "scores.db" || sc.TopN != 10 {
		t.Errorf("DefaultScores = %+v", sc)
	}
}

func TestArenaFromEnv(t *testing.T) {
	t.Setenv("ARENA_WIDTH", "640")
	t.Setenv("ARENA_HEIGHT", "960")
	t.Setenv("TICK_RATE", "30")

	cfg := ArenaFromEnv()
	if cfg.Width != 640 || cfg.Height != 960 || cfg.TickRate != 30 {
		t.Errorf("ArenaFromEnv = %+v", cfg)
	}
}

func TestArenaFromEnvIgnoresBadValues(t *testing.T) {
	t.Setenv("ARENA_WIDTH", "not-a-number")
	t.Setenv("TICK_RATE", "-5")

	cfg := ArenaFromEnv()
	if cfg.Width != 480 || cfg.TickRate != 60 {
		t.Errorf("ArenaFromEnv with bad values = %+v, want defaults", cfg)
	}
}

func TestStageFromEnvDebug(t *testing.T) {
	t.Setenv("DEBUG_STAGES", "true")

	if d := StageFromEnv().Duration; d != 15*time.Second {
		t.Errorf("debug stage duration = %s, want 15s", d)
	}
}

func TestStageFromEnvSecondsOverridesDebug(t *testing.T) {
	t.Setenv("DEBUG_STAGES", "true")
	t.Setenv("STAGE_SECONDS", "45")

	if d := StageFromEnv().Duration; d != 45*time.Second {
		t.Errorf("stage duration = %s, want 45s", d)
	}
}

func TestScoresFromEnv(t *testing.T) {
	t.Setenv("SCORES_DB_PATH", "/tmp/lb.db")
	t.Setenv("LEADERBOARD_SIZE", "25")

	cfg := ScoresFromEnv()
	if cfg.Path != "/tmp/lb.db" || cfg.TopN != 25 {
		t.Errorf("ScoresFromEnv = %+v", cfg)
	}
}
