package game

import (
	"math/rand"
	"time"
)

// stageTuning is one row of the per-stage spawn table. A zero interval
// disables that spawn kind for the stage. When sideMin is lower than
// sideStart the side-bullet interval shrinks linearly over the stage
// duration, floored at sideMin.
type stageTuning struct {
	sideStart time.Duration
	sideMin   time.Duration
	sideSpeed float64

	homingEvery time.Duration
	homingSpeed float64

	splitEvery time.Duration
	splitSpeed float64
	crossSpeed float64

	wallEvery time.Duration
	wallSpeed float64
}

// stageTable holds the finite stages. Index is stage-1; stages past the
// table scale continuously off the infinite-stage base instead.
var stageTable = [5]stageTuning{
	// Stage 1: side bullets only, interval tightening over the stage.
	{sideStart: 700 * time.Millisecond, sideMin: 250 * time.Millisecond, sideSpeed: 140},
	// Stage 2: adds a slow homing shot.
	{sideStart: 600 * time.Millisecond, sideMin: 600 * time.Millisecond, sideSpeed: 150,
		homingEvery: 2500 * time.Millisecond, homingSpeed: 90},
	// Stage 3: adds splitters that burst into a cross after 1-2s.
	{sideStart: 500 * time.Millisecond, sideMin: 500 * time.Millisecond, sideSpeed: 155,
		homingEvery: 2500 * time.Millisecond, homingSpeed: 95,
		splitEvery: 3 * time.Second, splitSpeed: 130, crossSpeed: 160},
	// Stage 4: all three kinds at tightened intervals.
	{sideStart: 350 * time.Millisecond, sideMin: 350 * time.Millisecond, sideSpeed: 165,
		homingEvery: 1800 * time.Millisecond, homingSpeed: 105,
		splitEvery: 2200 * time.Millisecond, splitSpeed: 140, crossSpeed: 170},
	// Stage 5: fast but sparse side bullets plus the wall pattern.
	{sideStart: 900 * time.Millisecond, sideMin: 900 * time.Millisecond, sideSpeed: 220,
		wallEvery: 4 * time.Second, wallSpeed: 90},
}

// Infinite-mode (stage >= FinalStage) bases, scaled by stage index.
const (
	infiniteBaseInterval = 500 * time.Millisecond
	infiniteMinInterval  = 150 * time.Millisecond
	infiniteBaseSpeed    = 170.0
	infiniteAimedChance  = 1.2 // expected aimed extras per second
	infiniteHomingChance = 0.6 // expected homing extras per second
)

// PatternGenerator decides, each tick, which projectile spawn functions
// fire. Each spawn kind keeps its own last-spawn timestamp; stage
// transitions reset all of them to "now".
type PatternGenerator struct {
	rng *rand.Rand

	lastSide     time.Time
	lastHoming   time.Time
	lastSplitter time.Time
	lastWall     time.Time
}

func newPatternGenerator(rng *rand.Rand) *PatternGenerator {
	return &PatternGenerator{rng: rng}
}

// Reset re-arms every spawn timer, called at session and stage start.
func (pg *PatternGenerator) Reset(now time.Time) {
	pg.lastSide = now
	pg.lastHoming = now
	pg.lastSplitter = now
	pg.lastWall = now
}

// Spawn appends this tick's new projectiles for the session's stage.
// dt is the tick delta in seconds, used for the infinite-stage
// per-tick Bernoulli extras.
func (pg *PatternGenerator) Spawn(s *Session, now time.Time, dt float64, out []*Projectile) []*Projectile {
	if s.Stage >= FinalStage {
		return pg.spawnInfinite(s, now, dt, out)
	}

	t := stageTable[s.Stage-1]

	if interval := pg.sideInterval(t, s, now); now.Sub(pg.lastSide) >= interval {
		pg.lastSide = now
		out = append(out, pg.sideBullet(s, t.sideSpeed))
	}

	if t.homingEvery > 0 && now.Sub(pg.lastHoming) >= t.homingEvery {
		pg.lastHoming = now
		b := pg.sideBullet(s, t.homingSpeed)
		b.Homing = true
		out = append(out, b)
	}

	if t.splitEvery > 0 && now.Sub(pg.lastSplitter) >= t.splitEvery {
		pg.lastSplitter = now
		out = append(out, pg.splitterBullet(s, now, t.splitSpeed, t.crossSpeed))
	}

	if t.wallEvery > 0 && now.Sub(pg.lastWall) >= t.wallEvery {
		pg.lastWall = now
		speed := t.wallSpeed
		if s.StageElapsed(now) > s.StageDuration/2 {
			speed *= 1.5
		}
		out = pg.wall(s, speed, out)
	}

	return out
}

// sideInterval shrinks the side-bullet interval linearly across the
// stage, floored at the table minimum.
func (pg *PatternGenerator) sideInterval(t stageTuning, s *Session, now time.Time) time.Duration {
	if t.sideMin >= t.sideStart || s.StageDuration <= 0 {
		return t.sideStart
	}
	frac := float64(s.StageElapsed(now)) / float64(s.StageDuration)
	if frac > 1 {
		frac = 1
	}
	return t.sideStart - time.Duration(frac*float64(t.sideStart-t.sideMin))
}

// sideBullet spawns at a random point on one of the four arena edges,
// aimed at an independently random interior point.
func (pg *PatternGenerator) sideBullet(s *Session, speed float64) *Projectile {
	var x, y float64
	switch pg.rng.Intn(4) {
	case 0: // top
		x, y = pg.rng.Float64()*s.ArenaWidth, 0
	case 1: // bottom
		x, y = pg.rng.Float64()*s.ArenaWidth, s.ArenaHeight
	case 2: // left
		x, y = 0, pg.rng.Float64()*s.ArenaHeight
	default: // right
		x, y = s.ArenaWidth, pg.rng.Float64()*s.ArenaHeight
	}

	tx := pg.rng.Float64() * s.ArenaWidth
	ty := pg.rng.Float64() * s.ArenaHeight
	vx, vy := aimedVelocity(x, y, tx, ty, speed)

	return &Projectile{X: x, Y: y, VX: vx, VY: vy}
}

// splitterBullet is a side bullet scheduled to burst into a cross after
// a random 1-2s delay.
func (pg *PatternGenerator) splitterBullet(s *Session, now time.Time, speed, crossSpeed float64) *Projectile {
	b := pg.sideBullet(s, speed)
	b.Splitter = true
	b.SplitAt = now.Add(time.Second + time.Duration(pg.rng.Float64()*float64(time.Second)))
	b.CrossSpeed = crossSpeed
	return b
}

// wall emits a near-full-width (or height) line of projectiles
// advancing from a random edge, with one randomly placed gap wide
// enough to admit the player.
func (pg *PatternGenerator) wall(s *Session, speed float64, out []*Projectile) []*Projectile {
	const spacing = ProjectileSize * 1.25
	gapWidth := PlayerSize * 3

	edge := pg.rng.Intn(4)
	span := s.ArenaWidth
	if edge >= 2 {
		span = s.ArenaHeight
	}
	gapStart := pg.rng.Float64() * (span - gapWidth)

	for pos := 0.0; pos <= span; pos += spacing {
		if pos >= gapStart && pos <= gapStart+gapWidth {
			continue
		}
		b := &Projectile{}
		switch edge {
		case 0: // top, advancing down
			b.X, b.Y, b.VY = pos, -ProjectileSize, speed
		case 1: // bottom, advancing up
			b.X, b.Y, b.VY = pos, s.ArenaHeight+ProjectileSize, -speed
		case 2: // left, advancing right
			b.X, b.Y, b.VX = -ProjectileSize, pos, speed
		default: // right, advancing left
			b.X, b.Y, b.VX = s.ArenaWidth+ProjectileSize, pos, -speed
		}
		out = append(out, b)
	}
	return out
}

// spawnInfinite handles stage >= FinalStage: every primary spawn is a
// splitter, intervals and speeds scale with the stage index, and each
// tick makes independent Bernoulli draws for extra aimed-at-player and
// homing spawns.
func (pg *PatternGenerator) spawnInfinite(s *Session, now time.Time, dt float64, out []*Projectile) []*Projectile {
	scale := 1.0 + 0.15*float64(s.Stage-FinalStage)
	speed := infiniteBaseSpeed * scale

	interval := time.Duration(float64(infiniteBaseInterval) / scale)
	if interval < infiniteMinInterval {
		interval = infiniteMinInterval
	}

	if now.Sub(pg.lastSide) >= interval {
		pg.lastSide = now
		out = append(out, pg.splitterBullet(s, now, speed, speed))
	}

	if pg.rng.Float64() < infiniteAimedChance*scale*dt {
		b := pg.sideBullet(s, speed)
		b.VX, b.VY = aimedVelocity(b.X, b.Y, s.Player.X, s.Player.Y, speed)
		out = append(out, b)
	}

	if pg.rng.Float64() < infiniteHomingChance*scale*dt {
		b := pg.sideBullet(s, speed*0.6)
		b.Homing = true
		out = append(out, b)
	}

	return out
}
