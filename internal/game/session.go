package game

import (
	"time"
)

// Status is the session lifecycle state.
type Status int

const (
	StatusPlaying Status = iota
	StatusStageClear
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusStageClear:
		return "stageClear"
	case StatusGameOver:
		return "gameOver"
	}
	return "unknown"
}

// FinalStage is the first infinite stage. Stages below it clear on a
// timer; FinalStage and beyond never clear.
const FinalStage = 6

// Session is the root aggregate for one playthrough. It is owned
// exclusively by the Engine; nothing in it outlives the session.
type Session struct {
	Player *Player

	ArenaWidth  float64
	ArenaHeight float64

	Stage         int // 1-based, only ever increments by 1
	StageDuration time.Duration
	Status        Status

	// FinalScore is set exactly once, on the transition to GameOver.
	FinalScore int

	// Entity collections. Exactly one gem exists while the session is
	// running; a consumed or expired gem is replaced within the same tick.
	Projectiles []*Projectile
	Items       []*Item
	Gem         *Gem
	Texts       []*FloatingText

	// Clock & pause ledger. pauseStartedAt is the zero time while the
	// session is not paused.
	startedAt          time.Time
	stageStartedAt     time.Time
	pausedTotal        time.Duration
	pausedAtStageStart time.Duration
	pauseStartedAt     time.Time
}

// NewSession starts a fresh playthrough at stage 1.
func NewSession(playerName string, arenaWidth, arenaHeight float64, stageDuration time.Duration, now time.Time) *Session {
	return &Session{
		Player:         NewPlayer(playerName, arenaWidth/2, arenaHeight*0.75),
		ArenaWidth:     arenaWidth,
		ArenaHeight:    arenaHeight,
		Stage:          1,
		StageDuration:  stageDuration,
		Status:         StatusPlaying,
		Projectiles:    make([]*Projectile, 0, MaxProjectiles),
		Items:          make([]*Item, 0, MaxItems),
		Texts:          make([]*FloatingText, 0, MaxTexts),
		startedAt:      now,
		stageStartedAt: now,
	}
}

// Paused reports whether a pause boundary is currently open.
func (s *Session) Paused() bool {
	return !s.pauseStartedAt.IsZero()
}

// Pause records the start of a paused interval. A second Pause while
// already paused is a no-op.
func (s *Session) Pause(now time.Time) {
	if s.Paused() {
		return
	}
	s.pauseStartedAt = now
}

// Resume closes the open pause interval and adds it to the ledger.
func (s *Session) Resume(now time.Time) {
	if !s.Paused() {
		return
	}
	s.pausedTotal += now.Sub(s.pauseStartedAt)
	s.pauseStartedAt = time.Time{}
}

// pausedSoFar is the cumulative paused duration including a still-open
// pause interval.
func (s *Session) pausedSoFar(now time.Time) time.Duration {
	total := s.pausedTotal
	if s.Paused() {
		total += now.Sub(s.pauseStartedAt)
	}
	return total
}

// EffectiveElapsed is wall-clock time since session start minus all
// paused intervals. Scoring time bonuses are computed from this.
func (s *Session) EffectiveElapsed(now time.Time) time.Duration {
	return now.Sub(s.startedAt) - s.pausedSoFar(now)
}

// StageElapsed is wall-clock time since the current stage started minus
// pauses accrued during this stage only. Pauses from earlier stages are
// excluded via the pausedAtStageStart snapshot.
func (s *Session) StageElapsed(now time.Time) time.Duration {
	return now.Sub(s.stageStartedAt) - (s.pausedSoFar(now) - s.pausedAtStageStart)
}

// DisplayScore is the continuously accruing score shown while playing:
// banked score plus 0.01 points per effective millisecond.
func (s *Session) DisplayScore(now time.Time) float64 {
	return float64(s.Player.Score) + float64(s.EffectiveElapsed(now).Milliseconds())*0.01
}

// computeFinalScore freezes the end-of-run score: banked score plus 10
// points per whole effective second survived.
func (s *Session) computeFinalScore(now time.Time) int {
	return s.Player.Score + int(s.EffectiveElapsed(now).Seconds())*10
}

// stageTimerExpired reports whether the stage-clear condition holds.
// The final stage never clears on a timer.
func (s *Session) stageTimerExpired(now time.Time) bool {
	if s.Stage >= FinalStage {
		return false
	}
	return s.StageElapsed(now) >= s.StageDuration
}

// beginStage transitions StageClear back to Playing on the next stage.
// All entity collections reset, per-stage pause accounting re-baselines,
// and the player's invincibility is cleared.
func (s *Session) beginStage(now time.Time) {
	s.Stage++
	s.Status = StatusPlaying
	s.Projectiles = s.Projectiles[:0]
	s.Items = s.Items[:0]
	s.Gem = nil
	s.Texts = s.Texts[:0]
	s.Player.Invincible = false
	s.Player.InvincibleUntil = time.Time{}
	s.stageStartedAt = now
	s.pausedAtStageStart = s.pausedSoFar(now)
}
