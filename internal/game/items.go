package game

import (
	"fmt"
	"math/rand"
	"time"
)

// Entity sizes and lifetimes.
const (
	ItemSize     = 28.0
	GemSize      = 28.0
	GemGrabPad   = 1.5 // gem pickup box is padded to 1.5x its size
	MaxItems     = 8
	MaxTexts     = 32
	GemLifetime  = 6 * time.Second
	ItemLifetime = 4 * time.Second
	TextLifetime = 800 * time.Millisecond
)

// ItemKind enumerates pickup effects. This is the closed set: shield
// grants a 5s invincibility window, clear removes every projectile,
// dud does nothing. An older teleport effect was replaced by dud.
type ItemKind int

const (
	ItemShield ItemKind = iota
	ItemClear
	ItemDud
)

func (k ItemKind) String() string {
	switch k {
	case ItemShield:
		return "shield"
	case ItemClear:
		return "clear"
	case ItemDud:
		return "dud"
	}
	return "unknown"
}

// Item is a utility pickup. It disappears on expiry or on player
// overlap, whichever comes first; the effect applies exactly once.
type Item struct {
	ID        uint64
	Kind      ItemKind
	X, Y      float64
	ExpiresAt time.Time
}

// Gem is the scoring pickup: a small arithmetic expression whose result
// is applied to the score on touch.
type Gem struct {
	ID        uint64
	Op        byte // one of + - * /
	A, B      int
	Label     string
	X, Y      float64
	ExpiresAt time.Time
}

var gemOps = [4]byte{'+', '-', '*', '/'}

// newGem rolls a random gem somewhere inside the arena. A zero second
// operand under division is coerced to 1 at creation so the expression
// is always well defined.
func newGem(rng *rand.Rand, arenaWidth, arenaHeight float64, now time.Time) *Gem {
	op := gemOps[rng.Intn(len(gemOps))]
	a := rng.Intn(9) + 1
	b := rng.Intn(10)
	if op == '/' && b == 0 {
		b = 1
	}
	margin := GemSize
	return &Gem{
		Op:        op,
		A:         a,
		B:         b,
		Label:     fmt.Sprintf("%d%c%d", a, op, b),
		X:         margin + rng.Float64()*(arenaWidth-2*margin),
		Y:         margin + rng.Float64()*(arenaHeight-2*margin),
		ExpiresAt: now.Add(GemLifetime),
	}
}

// ScoreChange evaluates the gem's expression. Division by zero is
// guarded defensively and yields 0 even though creation never produces
// a zero divisor.
func (g *Gem) ScoreChange() int {
	switch g.Op {
	case '+':
		return g.A + g.B
	case '-':
		return g.A - g.B
	case '*':
		return g.A * g.B
	case '/':
		if g.B == 0 {
			return 0
		}
		return g.A / g.B
	}
	return 0
}

// FloatingText is ephemeral score-delta feedback. Purely cosmetic and
// auto-pruned on expiry.
type FloatingText struct {
	Text      string
	X, Y      float64
	ExpiresAt time.Time
}
