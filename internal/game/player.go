package game

import (
	"math"
	"time"
)

// Player dimensions and tuning. The hitbox is inset from the sprite box
// so grazing hits are forgiven.
const (
	PlayerSize         = 24.0
	PlayerHitboxInset  = 6.0
	PlayerBaseSpeed    = 260.0 // pixels per second
	PlayerStopDistance = 4.0   // snap-to-target threshold

	// Invincibility windows. A later grant overwrites the expiry, it
	// never extends it.
	HitGraceDuration    = 2 * time.Second
	ShieldGraceDuration = 5 * time.Second
)

// Player is the steered entity. Lives is binary: 1 alive, 0 dead.
type Player struct {
	Name  string
	Lives int
	X, Y  float64

	// Score banked from gem pickups, clamped to >= 0 after every change.
	Score int

	Invincible      bool
	InvincibleUntil time.Time

	// Pointer steering target. hasTarget is cleared once the player
	// arrives within PlayerStopDistance.
	targetX, targetY float64
	hasTarget        bool
}

// NewPlayer creates an alive player at the given spawn point.
func NewPlayer(name string, x, y float64) *Player {
	return &Player{
		Name:  name,
		Lives: 1,
		X:     x,
		Y:     y,
	}
}

// Alive reports whether the player has not been hit.
func (p *Player) Alive() bool {
	return p.Lives > 0
}

// SetTarget points the player toward an arena coordinate. Ignored once
// dead so a corpse does not wander.
func (p *Player) SetTarget(x, y float64) {
	if !p.Alive() {
		return
	}
	p.targetX = x
	p.targetY = y
	p.hasTarget = true
}

// Target returns the current steering target, if any.
func (p *Player) Target() (x, y float64, ok bool) {
	return p.targetX, p.targetY, p.hasTarget
}

// AddScore applies a gem score delta, clamped to a non-negative floor.
func (p *Player) AddScore(delta int) {
	p.Score += delta
	if p.Score < 0 {
		p.Score = 0
	}
}

// GrantInvincibility sets the invincibility window. Subsequent grants
// overwrite the expiry rather than stacking.
func (p *Player) GrantInvincibility(now time.Time, d time.Duration) {
	p.Invincible = true
	p.InvincibleUntil = now.Add(d)
}

// ExpireInvincibility clears the flag once now has reached the expiry,
// regardless of how the window was granted.
func (p *Player) ExpireInvincibility(now time.Time) {
	if p.Invincible && !now.Before(p.InvincibleUntil) {
		p.Invincible = false
	}
}

// stageSpeedMultiplier slows the player slightly in the early stages.
func stageSpeedMultiplier(stage int) float64 {
	switch stage {
	case 1:
		return 0.8
	case 3:
		return 0.9
	default:
		return 1.0
	}
}

// Move steps the player toward its target and clamps it to the arena.
// Within PlayerStopDistance the player snaps to the target and the
// target is cleared.
func (p *Player) Move(dt float64, stage int, arenaWidth, arenaHeight float64) {
	if p.hasTarget && p.Alive() {
		dx := p.targetX - p.X
		dy := p.targetY - p.Y
		dist := math.Hypot(dx, dy)

		if dist <= PlayerStopDistance {
			p.X = p.targetX
			p.Y = p.targetY
			p.hasTarget = false
		} else {
			speed := PlayerBaseSpeed * stageSpeedMultiplier(stage)
			step := speed * dt
			if step > dist {
				step = dist
			}
			p.X += dx / dist * step
			p.Y += dy / dist * step
		}
	}

	// Bounds clamp every tick, target or not.
	half := PlayerSize / 2
	p.X = clamp(p.X, half, arenaWidth-half)
	p.Y = clamp(p.Y, half, arenaHeight-half)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hitBy tests the padded player hitbox against a projectile's box.
func (p *Player) hitBy(proj *Projectile) bool {
	halfP := PlayerSize/2 - PlayerHitboxInset
	halfB := ProjectileSize / 2
	return math.Abs(proj.X-p.X) < halfP+halfB && math.Abs(proj.Y-p.Y) < halfP+halfB
}

// touches tests the full-size player box against a centered box of the
// given size, optionally scaled (gems use a 1.5x grab box).
func (p *Player) touches(x, y, size, scale float64) bool {
	halfP := PlayerSize / 2
	halfB := size * scale / 2
	return math.Abs(x-p.X) < halfP+halfB && math.Abs(y-p.Y) < halfP+halfB
}
