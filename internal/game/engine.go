package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

const (
	// ItemSpawnInterval paces utility pickup drops.
	ItemSpawnInterval = 7 * time.Second

	// maxTickDelta caps the per-tick delta so a stalled host (GC pause,
	// suspended laptop) does not produce one giant catch-up step.
	maxTickDelta = 100 * time.Millisecond
)

var (
	ErrNoSession     = errors.New("no active session")
	ErrNotStageClear = errors.New("session is not stage-clear")
)

// EngineConfig configures a new engine.
type EngineConfig struct {
	TickRate      int
	ArenaWidth    float64
	ArenaHeight   float64
	StageDuration time.Duration

	// Seed for the engine RNG; 0 means seed from the wall clock.
	Seed int64

	// SubmitScore is invoked exactly once per session, on game over,
	// in its own goroutine. Failures inside it must never reach the
	// tick loop. Nil disables submission.
	SubmitScore func(playerName string, score int)
}

// Engine owns the active session and advances it at tick-rate cadence.
// Exactly one logical writer (the tick loop) mutates session state;
// external readers consume the lock-free snapshot instead.
type Engine struct {
	mu sync.Mutex

	cfg      EngineConfig
	session  *Session
	patterns *PatternGenerator
	rng      *rand.Rand
	nextID   uint64

	lastTick      time.Time // delta-time baseline; reset on start and resume
	lastItemSpawn time.Time
	tickCount     uint64

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	snapshots *SnapshotPool
}

// NewEngine creates an engine. No goroutines start until Start.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.ArenaWidth <= 0 {
		cfg.ArenaWidth = 480
	}
	if cfg.ArenaHeight <= 0 {
		cfg.ArenaHeight = 720
	}
	if cfg.StageDuration <= 0 {
		cfg.StageDuration = 60 * time.Second
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	return &Engine{
		cfg:       cfg,
		rng:       rng,
		patterns:  newPatternGenerator(rng),
		stopChan:  make(chan struct{}),
		snapshots: NewSnapshotPool(),
	}
}

// Start begins the tick loop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.step(time.Now())
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("🎮 Engine started at %d TPS (%gx%g arena)", e.cfg.TickRate, e.cfg.ArenaWidth, e.cfg.ArenaHeight)
}

// Stop halts the tick loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Engine stopped")
}

// StartSession tears down any previous session and begins a fresh
// playthrough at stage 1 for the named player.
func (e *Engine) StartSession(playerName string) error {
	return e.startSessionAt(playerName, time.Now())
}

func (e *Engine) startSessionAt(playerName string, now time.Time) error {
	if playerName == "" {
		return errors.New("player name required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.session = NewSession(playerName, e.cfg.ArenaWidth, e.cfg.ArenaHeight, e.cfg.StageDuration, now)
	e.session.Gem = e.spawnGem(now)
	e.patterns.Reset(now)
	e.lastTick = now
	e.lastItemSpawn = now
	e.publishSnapshot(now)

	log.Printf("🕹️ Session started: player=%s stage=1 duration=%s", playerName, e.cfg.StageDuration)
	return nil
}

// AdvanceStage performs the StageClear -> Playing transition.
func (e *Engine) AdvanceStage() error {
	return e.advanceStageAt(time.Now())
}

func (e *Engine) advanceStageAt(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return ErrNoSession
	}
	if e.session.Status != StatusStageClear {
		return ErrNotStageClear
	}

	e.session.beginStage(now)
	e.session.Gem = e.spawnGem(now)
	e.patterns.Reset(now)
	e.lastTick = now
	e.lastItemSpawn = now
	e.publishSnapshot(now)

	log.Printf("⏫ Stage %d begins", e.session.Stage)
	return nil
}

// ReturnToLobby tears down the active session. Sessions are never
// reused; a new playthrough constructs a fresh one.
func (e *Engine) ReturnToLobby() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		log.Printf("🚪 Session torn down: player=%s", e.session.Player.Name)
	}
	e.session = nil
	e.snapshots.PublishEmpty()
}

// SetPointerTarget routes the input collaborator's last observed
// pointer position into player steering.
func (e *Engine) SetPointerTarget(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.Status != StatusPlaying {
		return
	}
	e.session.Player.SetTarget(x, y)
}

// SetVisibility is the host visibility signal. Hidden pauses the clock
// and stops simulation; visible resumes and resets the delta baseline
// so the first tick after resume sees a normal-sized step.
func (e *Engine) SetVisibility(hidden bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return
	}

	now := time.Now()
	if hidden {
		e.session.Pause(now)
		log.Println("⏸️ Paused (host hidden)")
	} else if e.session.Paused() {
		e.session.Resume(now)
		e.lastTick = now
		log.Println("▶️ Resumed")
	}
}

// Snapshot returns the latest published immutable snapshot.
func (e *Engine) Snapshot() *SessionSnapshot {
	return e.snapshots.AcquireRead()
}

// step computes the tick delta and runs one simulation tick. It is a
// no-op while there is nothing to simulate.
func (e *Engine) step(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil || s.Status != StatusPlaying || s.Paused() {
		return
	}

	delta := now.Sub(e.lastTick)
	if delta <= 0 {
		return
	}
	if delta > maxTickDelta {
		delta = maxTickDelta
	}
	e.lastTick = now

	e.tick(now, delta.Seconds())
}

// tick runs one full simulation frame: spawns, splits, motion, pruning,
// collisions, pickups, then the state machine. The pass ordering is
// load-bearing: splits resolve before motion, motion before off-bounds
// pruning, pruning before collision, collision before pickup
// resolution.
func (e *Engine) tick(now time.Time, dt float64) {
	s := e.session
	e.tickCount++

	// New spawns for this frame.
	spawned := e.patterns.Spawn(s, now, dt, nil)
	for _, b := range spawned {
		if len(s.Projectiles) >= MaxProjectiles {
			break
		}
		b.ID = e.allocID()
		s.Projectiles = append(s.Projectiles, b)
	}

	// Split detection: due splitters are destroyed and replaced by
	// their cross burst before anything moves.
	n := 0
	var bursts []*Projectile
	for _, b := range s.Projectiles {
		if b.ShouldSplit(now) {
			for _, c := range b.Split() {
				c.ID = e.allocID()
				bursts = append(bursts, c)
			}
			continue
		}
		s.Projectiles[n] = b
		n++
	}
	s.Projectiles = s.Projectiles[:n]
	for _, c := range bursts {
		if len(s.Projectiles) >= MaxProjectiles {
			break
		}
		s.Projectiles = append(s.Projectiles, c)
	}

	// Player motion.
	s.Player.Move(dt, s.Stage, s.ArenaWidth, s.ArenaHeight)

	// Projectile motion, homing steering first.
	for _, b := range s.Projectiles {
		if b.Homing {
			b.Steer(s.Player.X, s.Player.Y, dt)
		}
		b.Update(dt)
	}

	// Off-bounds pruning, before collision so removed projectiles are
	// never visited by hit checks.
	n = 0
	for _, b := range s.Projectiles {
		if b.InBounds(s.ArenaWidth, s.ArenaHeight) {
			s.Projectiles[n] = b
			n++
		}
	}
	s.Projectiles = s.Projectiles[:n]

	// Invincibility auto-expiry, independent of how it was granted.
	s.Player.ExpireInvincibility(now)

	// Player-projectile collision. Only the first overlapping
	// projectile each tick is processed; a hit is fatal.
	if s.Player.Alive() && !s.Player.Invincible {
		for _, b := range s.Projectiles {
			if s.Player.hitBy(b) {
				s.Player.Lives = 0
				// Gates the death-feedback visual only; there is no revival.
				s.Player.GrantInvincibility(now, HitGraceDuration)
				break
			}
		}
	}

	// Periodic pickup drop.
	if now.Sub(e.lastItemSpawn) >= ItemSpawnInterval && len(s.Items) < MaxItems {
		e.lastItemSpawn = now
		s.Items = append(s.Items, e.spawnItem(now))
	}

	// Pickup resolution: overlap consumes the item and applies its
	// effect exactly once; expired items vanish without effect.
	n = 0
	for _, it := range s.Items {
		switch {
		case s.Player.Alive() && s.Player.touches(it.X, it.Y, ItemSize, 1.0):
			e.applyItem(it, now)
		case now.Before(it.ExpiresAt):
			s.Items[n] = it
			n++
		}
	}
	s.Items = s.Items[:n]

	// Gem resolution. Consumption and expiry both respawn immediately
	// so exactly one gem exists whenever the session is running.
	if g := s.Gem; g != nil {
		switch {
		case s.Player.Alive() && s.Player.touches(g.X, g.Y, GemSize, GemGrabPad):
			change := g.ScoreChange()
			s.Player.AddScore(change)
			e.pushText(fmt.Sprintf("%+d", change), g.X, g.Y, now)
			s.Gem = e.spawnGem(now)
		case !now.Before(g.ExpiresAt):
			s.Gem = e.spawnGem(now)
		}
	} else {
		s.Gem = e.spawnGem(now)
	}

	// Floating text expiry.
	n = 0
	for _, t := range s.Texts {
		if now.Before(t.ExpiresAt) {
			s.Texts[n] = t
			n++
		}
	}
	s.Texts = s.Texts[:n]

	// State machine observes the frame's result.
	if !s.Player.Alive() {
		s.Status = StatusGameOver
		s.FinalScore = s.computeFinalScore(now)
		log.Printf("💀 Game over: player=%s stage=%d finalScore=%d", s.Player.Name, s.Stage, s.FinalScore)
		if e.cfg.SubmitScore != nil {
			// Fire and forget; a slow or failing leaderboard must not
			// gate engine state.
			go e.cfg.SubmitScore(s.Player.Name, s.FinalScore)
		}
	} else if s.stageTimerExpired(now) {
		s.Status = StatusStageClear
		log.Printf("🏁 Stage %d clear: player=%s score=%d", s.Stage, s.Player.Name, s.Player.Score)
	}

	e.publishSnapshot(now)
}

func (e *Engine) allocID() uint64 {
	e.nextID++
	return e.nextID
}

func (e *Engine) spawnGem(now time.Time) *Gem {
	g := newGem(e.rng, e.cfg.ArenaWidth, e.cfg.ArenaHeight, now)
	g.ID = e.allocID()
	return g
}

func (e *Engine) spawnItem(now time.Time) *Item {
	margin := ItemSize
	return &Item{
		ID:        e.allocID(),
		Kind:      ItemKind(e.rng.Intn(3)),
		X:         margin + e.rng.Float64()*(e.cfg.ArenaWidth-2*margin),
		Y:         margin + e.rng.Float64()*(e.cfg.ArenaHeight-2*margin),
		ExpiresAt: now.Add(ItemLifetime),
	}
}

// applyItem applies a pickup effect. Dud is deliberately a no-op.
func (e *Engine) applyItem(it *Item, now time.Time) {
	s := e.session
	switch it.Kind {
	case ItemShield:
		s.Player.GrantInvincibility(now, ShieldGraceDuration)
	case ItemClear:
		s.Projectiles = s.Projectiles[:0]
	case ItemDud:
	}
}

func (e *Engine) pushText(text string, x, y float64, now time.Time) {
	s := e.session
	if len(s.Texts) >= MaxTexts {
		return
	}
	s.Texts = append(s.Texts, &FloatingText{
		Text:      text,
		X:         x,
		Y:         y - 20,
		ExpiresAt: now.Add(TextLifetime),
	})
}
