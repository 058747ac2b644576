package game

import (
	"sync/atomic"
	"time"
)

// PlayerSnapshot is an immutable copy of player state for readers.
type PlayerSnapshot struct {
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Alive      bool    `json:"alive"`
	Invincible bool    `json:"invincible"`
	Score      int     `json:"score"`
}

// ProjectileSnapshot is an immutable projectile for readers.
type ProjectileSnapshot struct {
	ID       uint64  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Homing   bool    `json:"homing"`
	Splitter bool    `json:"splitter"`
}

// ItemSnapshot is an immutable pickup for readers.
type ItemSnapshot struct {
	ID   uint64  `json:"id"`
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// GemSnapshot is the single scoring gem for readers.
type GemSnapshot struct {
	ID    uint64  `json:"id"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// TextSnapshot is an immutable floating score-delta text.
type TextSnapshot struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// SessionSnapshot is a complete immutable view of the session produced
// at the end of each tick. Readers (renderer, API, websocket feed)
// observe each tick's mutations as a single atomic unit.
type SessionSnapshot struct {
	Sequence  uint64    `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Tick      uint64    `json:"tick"`

	Active bool   `json:"active"`
	Status string `json:"status"`
	Stage  int    `json:"stage"`
	Paused bool   `json:"paused"`

	StageElapsedSec  float64 `json:"stageElapsedSec"`
	StageDurationSec float64 `json:"stageDurationSec"`
	DisplayScore     float64 `json:"displayScore"`
	FinalScore       int     `json:"finalScore"`

	ArenaWidth  float64 `json:"arenaWidth"`
	ArenaHeight float64 `json:"arenaHeight"`

	Player      PlayerSnapshot       `json:"player"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
	Items       []ItemSnapshot       `json:"items"`
	HasGem      bool                 `json:"hasGem"`
	Gem         GemSnapshot          `json:"gem"`
	Texts       []TextSnapshot       `json:"texts"`
}

// SnapshotPool triple-buffers snapshots so the single producer (the
// tick loop) and any number of consumers never contend on a lock.
type SnapshotPool struct {
	snapshots [3]SessionSnapshot
	writeIdx  uint32 // atomic
	readIdx   uint32 // atomic
	sequence  uint64 // atomic
}

// NewSnapshotPool pre-allocates the three buffers.
func NewSnapshotPool() *SnapshotPool {
	p := &SnapshotPool{}
	for i := 0; i < 3; i++ {
		p.snapshots[i] = SessionSnapshot{
			Projectiles: make([]ProjectileSnapshot, 0, MaxProjectiles),
			Items:       make([]ItemSnapshot, 0, MaxItems),
			Texts:       make([]TextSnapshot, 0, MaxTexts),
		}
	}
	return p
}

// AcquireWrite returns the next write slot with reset slices but
// preserved capacity. Producer only.
func (p *SnapshotPool) AcquireWrite() *SessionSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Projectiles = snap.Projectiles[:0]
	snap.Items = snap.Items[:0]
	snap.Texts = snap.Texts[:0]
	snap.HasGem = false
	snap.Gem = GemSnapshot{}
	snap.Player = PlayerSnapshot{}

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()
	return snap
}

// PublishWrite makes the populated write slot the read slot.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest complete snapshot. Consumers only.
func (p *SnapshotPool) AcquireRead() *SessionSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// PublishEmpty publishes an inactive snapshot, used after lobby return.
func (p *SnapshotPool) PublishEmpty() {
	snap := p.AcquireWrite()
	snap.Active = false
	snap.Status = ""
	snap.Stage = 0
	snap.Tick = 0
	snap.StageElapsedSec = 0
	snap.StageDurationSec = 0
	snap.DisplayScore = 0
	snap.FinalScore = 0
	snap.Paused = false
	p.PublishWrite()
}

// publishSnapshot copies the session into the pool's write slot and
// publishes it. Caller holds the engine lock.
func (e *Engine) publishSnapshot(now time.Time) {
	s := e.session
	snap := e.snapshots.AcquireWrite()

	snap.Tick = e.tickCount
	snap.Active = true
	snap.Status = s.Status.String()
	snap.Stage = s.Stage
	snap.Paused = s.Paused()
	snap.StageElapsedSec = s.StageElapsed(now).Seconds()
	snap.StageDurationSec = s.StageDuration.Seconds()
	snap.DisplayScore = s.DisplayScore(now)
	snap.FinalScore = s.FinalScore
	snap.ArenaWidth = s.ArenaWidth
	snap.ArenaHeight = s.ArenaHeight

	snap.Player = PlayerSnapshot{
		Name:       s.Player.Name,
		X:          s.Player.X,
		Y:          s.Player.Y,
		Alive:      s.Player.Alive(),
		Invincible: s.Player.Invincible,
		Score:      s.Player.Score,
	}

	for _, b := range s.Projectiles {
		if len(snap.Projectiles) >= MaxProjectiles {
			break
		}
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{
			ID: b.ID, X: b.X, Y: b.Y, Homing: b.Homing, Splitter: b.Splitter,
		})
	}

	for _, it := range s.Items {
		if len(snap.Items) >= MaxItems {
			break
		}
		snap.Items = append(snap.Items, ItemSnapshot{
			ID: it.ID, Kind: it.Kind.String(), X: it.X, Y: it.Y,
		})
	}

	if g := s.Gem; g != nil {
		snap.HasGem = true
		snap.Gem = GemSnapshot{ID: g.ID, Label: g.Label, X: g.X, Y: g.Y}
	}

	for _, t := range s.Texts {
		if len(snap.Texts) >= MaxTexts {
			break
		}
		snap.Texts = append(snap.Texts, TextSnapshot{Text: t.Text, X: t.X, Y: t.Y})
	}

	e.snapshots.PublishWrite()
}
