package game

import (
	"math"
	"testing"
	"time"
)

func TestPlayerMoveTowardTarget(t *testing.T) {
	p := NewPlayer("tester", 100, 100)
	p.SetTarget(200, 100)

	// Stage 2 multiplier is 1.0: one 0.1s step covers 26px.
	p.Move(0.1, 2, 480, 720)

	if math.Abs(p.X-126) > 1e-9 {
		t.Errorf("X = %v, want 126", p.X)
	}
	if p.Y != 100 {
		t.Errorf("Y = %v, want 100", p.Y)
	}
	if _, _, ok := p.Target(); !ok {
		t.Error("target cleared before arrival")
	}
}

func TestPlayerSnapsAndClearsTarget(t *testing.T) {
	p := NewPlayer("tester", 100, 100)
	p.SetTarget(103, 100) // within PlayerStopDistance

	p.Move(0.1, 2, 480, 720)

	if p.X != 103 || p.Y != 100 {
		t.Errorf("position = (%v, %v), want (103, 100)", p.X, p.Y)
	}
	if _, _, ok := p.Target(); ok {
		t.Error("target not cleared after snap")
	}
}

func TestPlayerNeverOvershoots(t *testing.T) {
	p := NewPlayer("tester", 100, 100)
	p.SetTarget(110, 100)

	// A full step would be 26px; the 10px gap must not be overshot.
	p.Move(0.1, 2, 480, 720)

	if p.X > 110 {
		t.Errorf("X = %v, overshot target 110", p.X)
	}
}

func TestPlayerStageSpeedMultiplier(t *testing.T) {
	tests := []struct {
		stage int
		want  float64
	}{
		{1, 0.8},
		{2, 1.0},
		{3, 0.9},
		{4, 1.0},
		{6, 1.0},
	}

	for _, tt := range tests {
		if got := stageSpeedMultiplier(tt.stage); got != tt.want {
			t.Errorf("stageSpeedMultiplier(%d) = %v, want %v", tt.stage, got, tt.want)
		}
	}
}

func TestPlayerClampedToArena(t *testing.T) {
	p := NewPlayer("tester", 100, 100)
	p.SetTarget(-500, -500)

	for i := 0; i < 200; i++ {
		p.Move(0.05, 2, 480, 720)
	}

	half := PlayerSize / 2
	if p.X != half || p.Y != half {
		t.Errorf("position = (%v, %v), want clamped to (%v, %v)", p.X, p.Y, half, half)
	}
}

func TestDeadPlayerIgnoresTarget(t *testing.T) {
	p := NewPlayer("tester", 100, 100)
	p.Lives = 0
	p.SetTarget(300, 300)

	if _, _, ok := p.Target(); ok {
		t.Error("dead player accepted a target")
	}

	p.Move(0.1, 2, 480, 720)
	if p.X != 100 || p.Y != 100 {
		t.Errorf("dead player moved to (%v, %v)", p.X, p.Y)
	}
}

func TestAddScoreClampsAtZero(t *testing.T) {
	p := NewPlayer("tester", 0, 0)
	p.Score = 3

	p.AddScore(-10)
	if p.Score != 0 {
		t.Errorf("Score = %d, want 0", p.Score)
	}

	p.AddScore(7)
	if p.Score != 7 {
		t.Errorf("Score = %d, want 7", p.Score)
	}
}

// TestInvincibilityWindow verifies the window is [grant, grant+d):
// still active one instant before expiry, cleared at expiry.
func TestInvincibilityWindow(t *testing.T) {
	p := NewPlayer("tester", 0, 0)
	p.GrantInvincibility(t0, 2*time.Second)

	p.ExpireInvincibility(t0.Add(2*time.Second - time.Millisecond))
	if !p.Invincible {
		t.Error("invincibility expired early")
	}

	p.ExpireInvincibility(t0.Add(2 * time.Second))
	if p.Invincible {
		t.Error("invincibility survived its expiry")
	}
}

// TestInvincibilityGrantOverwrites verifies a shorter later grant
// shortens the window rather than being absorbed.
func TestInvincibilityGrantOverwrites(t *testing.T) {
	p := NewPlayer("tester", 0, 0)
	p.GrantInvincibility(t0, 10*time.Second)
	p.GrantInvincibility(t0.Add(time.Second), 2*time.Second)

	p.ExpireInvincibility(t0.Add(3 * time.Second))
	if p.Invincible {
		t.Error("earlier longer grant survived an overwriting shorter grant")
	}
}

func TestHitByUsesInsetHitbox(t *testing.T) {
	p := NewPlayer("tester", 100, 100)

	// Padded half-extent: (24/2 - 6) + 12/2 = 12.
	graze := &Projectile{X: 112.5, Y: 100}
	if p.hitBy(graze) {
		t.Error("graze outside the inset hitbox registered as a hit")
	}

	hit := &Projectile{X: 111, Y: 100}
	if !p.hitBy(hit) {
		t.Error("overlapping projectile did not register as a hit")
	}
}

func TestTouchesScaledBox(t *testing.T) {
	p := NewPlayer("tester", 100, 100)

	// Gem grab: half-extent 24/2 + 28*1.5/2 = 33.
	if !p.touches(132, 100, GemSize, GemGrabPad) {
		t.Error("gem inside padded grab box not touched")
	}
	if p.touches(134, 100, GemSize, GemGrabPad) {
		t.Error("gem outside padded grab box touched")
	}

	// Unscaled item box: half-extent 24/2 + 28/2 = 26.
	if !p.touches(125, 100, ItemSize, 1.0) {
		t.Error("item inside box not touched")
	}
	if p.touches(127, 100, ItemSize, 1.0) {
		t.Error("item outside box touched")
	}
}
