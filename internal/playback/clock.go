package playback

import (
	"sync"
	"time"
)

// ClockPlayer is a Player driven by the wall clock, for headless playback
// where nothing renders the stream.
type ClockPlayer struct {
	mu       sync.Mutex
	now      func() time.Time
	base     time.Duration
	resumed  time.Time
	paused   bool
	duration time.Duration
}

// NewClockPlayer starts playing at start. A non-zero duration caps the
// reported position.
func NewClockPlayer(start, duration time.Duration) *ClockPlayer {
	return newClockPlayer(start, duration, time.Now)
}

func newClockPlayer(start, duration time.Duration, now func() time.Time) *ClockPlayer {
	return &ClockPlayer{now: now, base: start, resumed: now(), duration: duration}
}

// Position returns the current playback position.
func (p *ClockPlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position()
}

func (p *ClockPlayer) position() time.Duration {
	pos := p.base
	if !p.paused {
		pos += p.now().Sub(p.resumed)
	}
	if p.duration > 0 && pos > p.duration {
		pos = p.duration
	}
	return pos
}

// Paused reports whether the player is paused.
func (p *ClockPlayer) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Pause freezes the position.
func (p *ClockPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		return
	}
	p.base = p.position()
	p.paused = true
}

// Resume continues from the frozen position.
func (p *ClockPlayer) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		return
	}
	p.resumed = p.now()
	p.paused = false
}

// Toggle flips between paused and playing.
func (p *ClockPlayer) Toggle() {
	if p.Paused() {
		p.Resume()
		return
	}
	p.Pause()
}
