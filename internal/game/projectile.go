package game

import (
	"math"
	"time"
)

const (
	ProjectileSize = 12.0

	// HomingTurnRate is the steering acceleration applied toward the
	// player, in pixels per second squared. Proportional steering, not
	// an instant re-aim, so homing shots curve into pursuit.
	HomingTurnRate = 240.0

	// MaxProjectiles caps the active projectile count so a pathological
	// infinite-stage session cannot grow without bound.
	MaxProjectiles = 512
)

// Projectile is a single bullet. Splitters carry a scheduled SplitAt
// and the speed of the cross burst they convert into.
type Projectile struct {
	ID     uint64
	X, Y   float64
	VX, VY float64

	Homing bool

	Splitter   bool
	SplitAt    time.Time
	CrossSpeed float64
}

// Update advances the projectile by velocity x dt.
func (b *Projectile) Update(dt float64) {
	b.X += b.VX * dt
	b.Y += b.VY * dt
}

// Steer bends a homing projectile's velocity toward the player by
// adding turn-rate components along the angle to the player.
func (b *Projectile) Steer(playerX, playerY, dt float64) {
	angle := math.Atan2(playerY-b.Y, playerX-b.X)
	b.VX += HomingTurnRate * math.Cos(angle) * dt
	b.VY += HomingTurnRate * math.Sin(angle) * dt
}

// InBounds reports whether the projectile is still inside the arena,
// with a margin of its own size. Out-of-bounds projectiles are pruned
// before collision checks run.
func (b *Projectile) InBounds(arenaWidth, arenaHeight float64) bool {
	const m = ProjectileSize
	return b.X >= -m && b.X <= arenaWidth+m && b.Y >= -m && b.Y <= arenaHeight+m
}

// ShouldSplit reports whether a splitter's scheduled time has arrived.
func (b *Projectile) ShouldSplit(now time.Time) bool {
	return b.Splitter && !now.Before(b.SplitAt)
}

// Split converts a splitter into its cross burst: four plain
// projectiles from the splitter's last position at 0, 90, 180 and 270
// degrees. IDs are assigned by the caller.
func (b *Projectile) Split() [4]*Projectile {
	var out [4]*Projectile
	for i := 0; i < 4; i++ {
		angle := float64(i) * math.Pi / 2
		out[i] = &Projectile{
			X:  b.X,
			Y:  b.Y,
			VX: b.CrossSpeed * math.Cos(angle),
			VY: b.CrossSpeed * math.Sin(angle),
		}
	}
	return out
}

// aimedVelocity builds a velocity of the given speed from (x, y) toward
// (tx, ty). A zero-magnitude direction falls back to straight down
// rather than dividing by zero.
func aimedVelocity(x, y, tx, ty, speed float64) (vx, vy float64) {
	dx := tx - x
	dy := ty - y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return 0, speed
	}
	return dx / dist * speed, dy / dist * speed
}
