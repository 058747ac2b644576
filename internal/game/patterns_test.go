package game

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func newTestGenerator() *PatternGenerator {
	return newPatternGenerator(rand.New(rand.NewSource(42)))
}

func TestSpawnRespectsInterval(t *testing.T) {
	s := newTestSession() // stage 1: side bullets every 700ms initially
	pg := newTestGenerator()
	pg.Reset(t0)

	if out := pg.Spawn(s, t0.Add(500*time.Millisecond), 0.016, nil); len(out) != 0 {
		t.Errorf("spawned %d projectiles before the interval elapsed", len(out))
	}

	out := pg.Spawn(s, t0.Add(700*time.Millisecond), 0.016, nil)
	if len(out) != 1 {
		t.Fatalf("spawned %d projectiles at the interval, want 1", len(out))
	}
	if out[0].Homing || out[0].Splitter {
		t.Error("stage 1 spawned a non-plain projectile")
	}
}

// TestSideIntervalShrinksLinearly checks the stage 1 ramp: 700ms at
// stage start, 475ms at the midpoint, floored at 250ms by the end.
func TestSideIntervalShrinksLinearly(t *testing.T) {
	s := newTestSession()
	pg := newTestGenerator()
	tuning := stageTable[0]

	if got := pg.sideInterval(tuning, s, t0); got != 700*time.Millisecond {
		t.Errorf("interval at start = %s, want 700ms", got)
	}
	if got := pg.sideInterval(tuning, s, t0.Add(30*time.Second)); got != 475*time.Millisecond {
		t.Errorf("interval at midpoint = %s, want 475ms", got)
	}
	if got := pg.sideInterval(tuning, s, t0.Add(2*time.Minute)); got != 250*time.Millisecond {
		t.Errorf("interval past stage end = %s, want 250ms floor", got)
	}
}

func TestSideBulletSpawnsOnEdge(t *testing.T) {
	s := newTestSession()
	pg := newTestGenerator()

	for i := 0; i < 100; i++ {
		b := pg.sideBullet(s, 140)
		onEdge := b.X == 0 || b.X == s.ArenaWidth || b.Y == 0 || b.Y == s.ArenaHeight
		if !onEdge {
			t.Fatalf("side bullet spawned inside the arena at (%v, %v)", b.X, b.Y)
		}
		if speed := math.Hypot(b.VX, b.VY); math.Abs(speed-140) > 1e-6 {
			t.Fatalf("side bullet speed = %v, want 140", speed)
		}
	}
}

func TestStageTwoAddsHoming(t *testing.T) {
	s := newTestSession()
	s.Stage = 2
	pg := newTestGenerator()
	pg.Reset(t0)

	out := pg.Spawn(s, t0.Add(2500*time.Millisecond), 0.016, nil)

	homing := 0
	for _, b := range out {
		if b.Homing {
			homing++
		}
	}
	if homing != 1 {
		t.Errorf("homing spawns = %d, want 1", homing)
	}
}

func TestSplitterScheduledWithinWindow(t *testing.T) {
	s := newTestSession()
	pg := newTestGenerator()

	for i := 0; i < 50; i++ {
		b := pg.splitterBullet(s, t0, 130, 160)
		if !b.Splitter || b.CrossSpeed != 160 {
			t.Fatal("splitter not flagged or missing cross speed")
		}
		delay := b.SplitAt.Sub(t0)
		if delay < time.Second || delay > 2*time.Second {
			t.Fatalf("split delay = %s, want within [1s, 2s]", delay)
		}
	}
}

// TestWallHasTraversableGap verifies the wall leaves a gap wide enough
// for the player and that every segment advances inward.
func TestWallHasTraversableGap(t *testing.T) {
	s := newTestSession()
	pg := newTestGenerator()

	for i := 0; i < 20; i++ {
		out := pg.wall(s, 90, nil)
		if len(out) == 0 {
			t.Fatal("wall spawned no projectiles")
		}

		// All segments share one axis-aligned velocity pointing inward.
		for _, b := range out {
			inward := (b.Y <= 0 && b.VY > 0) || (b.Y >= s.ArenaHeight && b.VY < 0) ||
				(b.X <= 0 && b.VX > 0) || (b.X >= s.ArenaWidth && b.VX < 0)
			if !inward {
				t.Fatalf("wall segment at (%v, %v) velocity (%v, %v) not inward", b.X, b.Y, b.VX, b.VY)
			}
		}

		// Largest spacing between adjacent segments along the wall axis
		// must admit the player.
		positions := make([]float64, 0, len(out))
		horizontal := out[0].VY != 0
		for _, b := range out {
			if horizontal {
				positions = append(positions, b.X)
			} else {
				positions = append(positions, b.Y)
			}
		}
		maxGap := 0.0
		for j := 1; j < len(positions); j++ {
			if d := positions[j] - positions[j-1]; d > maxGap {
				maxGap = d
			}
		}
		if maxGap < PlayerSize {
			t.Fatalf("largest wall gap = %v, too narrow for the player", maxGap)
		}
	}
}

// TestInfiniteStagePrimariesAreSplitters verifies every stage 6+
// primary spawn is a splitter. dt of zero suppresses the random
// per-tick extras so the primary is isolated.
func TestInfiniteStagePrimariesAreSplitters(t *testing.T) {
	s := newTestSession()
	s.Stage = FinalStage
	pg := newTestGenerator()
	pg.Reset(t0)

	out := pg.Spawn(s, t0.Add(600*time.Millisecond), 0, nil)
	if len(out) != 1 {
		t.Fatalf("spawned %d projectiles, want 1 primary", len(out))
	}
	if !out[0].Splitter {
		t.Error("infinite-stage primary is not a splitter")
	}
}

// TestInfiniteStageIntervalScales verifies deeper stages spawn faster:
// at stage 11 the scaled interval is 500ms/1.75 ~ 285ms.
func TestInfiniteStageIntervalScales(t *testing.T) {
	s := newTestSession()
	s.Stage = 11
	pg := newTestGenerator()
	pg.Reset(t0)

	if out := pg.Spawn(s, t0.Add(250*time.Millisecond), 0, nil); len(out) != 0 {
		t.Errorf("stage 11 spawned %d projectiles before its scaled interval", len(out))
	}
	if out := pg.Spawn(s, t0.Add(300*time.Millisecond), 0, nil); len(out) != 1 {
		t.Errorf("stage 11 spawned %d projectiles after its scaled interval, want 1", len(out))
	}
}

func TestResetRearmsTimers(t *testing.T) {
	s := newTestSession()
	pg := newTestGenerator()
	pg.Reset(t0)

	// Let the side timer become due, then re-arm.
	later := t0.Add(10 * time.Second)
	pg.Reset(later)

	if out := pg.Spawn(s, later.Add(100*time.Millisecond), 0.016, nil); len(out) != 0 {
		t.Errorf("spawned %d projectiles right after re-arm", len(out))
	}
}
