package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/errchain"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/events"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/metrics"
)

// DefaultInterval is the heartbeat period of a running session.
const DefaultInterval = time.Second

// State is the lifecycle state of a Session.
type State int

const (
	StateStarting State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "starting"
	}
}

// Config identifies what is being played. Source and UserSessionID, the
// server's id for the caller's own session, are required.
type Config struct {
	Source        *media.Source
	MediaID       string
	UserSessionID string
	Selection     Selection
	// Token identifies this session to the server. Generated when empty.
	Token string
}

// Option configures a Session.
type Option func(*Session)

// WithInterval sets the heartbeat period.
func WithInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records report outcomes and live sessions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithBus publishes every report outcome as an event.
func WithBus(bus *events.Bus) Option {
	return func(s *Session) { s.bus = bus }
}

// Session is one watch of one source. The heartbeat never outlives it: Stop,
// Close and cancellation of the construction context all end it.
type Session struct {
	cfg      Config
	reporter Reporter
	player   Player
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	bus      *events.Bus

	ctx       context.Context
	cancel    context.CancelFunc
	stopWatch func() bool

	mu         sync.Mutex
	state      State
	stopTicker context.CancelFunc
	tickerDone chan struct{}
	reports    sync.WaitGroup
}

// NewSession creates a session in StateStarting and reports Play at the
// player's current position without waiting for the result.
func NewSession(ctx context.Context, cfg Config, reporter Reporter, player Player, opts ...Option) (*Session, error) {
	switch {
	case cfg.Source == nil:
		return nil, fmt.Errorf("%w: missing source", ErrInvalidConfig)
	case cfg.UserSessionID == "":
		return nil, fmt.Errorf("%w: missing user session id", ErrInvalidConfig)
	case reporter == nil:
		return nil, fmt.Errorf("%w: missing reporter", ErrInvalidConfig)
	case player == nil:
		return nil, fmt.Errorf("%w: missing player", ErrInvalidConfig)
	}
	if cfg.Token == "" {
		cfg.Token = uuid.NewString()
	}

	s := &Session{
		cfg:      cfg,
		reporter: reporter,
		player:   player,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "playback", "session_token", cfg.Token, "media_id", cfg.MediaID)

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.stopWatch = context.AfterFunc(s.ctx, s.Close)

	s.metrics.SessionStarted()
	s.logger.Info("playback session created", "source_id", cfg.Source.ID)
	s.reportAsync(StatusPlay, media.FromDuration(player.Position()))
	return s, nil
}

// Token returns the session token sent with every report.
func (s *Session) Token() string { return s.cfg.Token }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start arms the heartbeat. Each tick reports Progressed, or Paused when the
// player is paused. Failed reports do not stop later ticks.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrStopped
	}

	tickCtx, cancel := context.WithCancel(s.ctx)
	s.stopTicker = cancel
	s.tickerDone = make(chan struct{})
	s.state = StateRunning

	go s.heartbeat(tickCtx, s.tickerDone)
	s.logger.Debug("heartbeat started", "interval", s.interval.String())
	return nil
}

func (s *Session) heartbeat(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status := StatusProgressed
			if s.player.Paused() {
				status = StatusPaused
			}
			// Inline with the ticker context so a cancelled session aborts
			// an in-flight heartbeat instead of reporting after teardown.
			s.report(ctx, status, media.FromDuration(s.player.Position()))
		}
	}
}

// Stop ends the session: it cancels the heartbeat, stores the final position
// on the source as its resume point and reports Stop without waiting for the
// result. Calls after the first do nothing.
func (s *Session) Stop() {
	if !s.halt() {
		return
	}

	pos := media.FromDuration(s.player.Position())
	s.cfg.Source.SetStartPosition(pos.Duration())
	s.logger.Info("playback stopped", "position_ms", pos.Duration().Milliseconds())
	s.reportAsync(StatusStop, pos)
	s.cancel()
}

// Close tears the session down without reporting. It is called automatically
// when the construction context is cancelled.
func (s *Session) Close() {
	if s.halt() {
		s.logger.Debug("playback session closed")
	}
	s.cancel()
}

// Wait blocks until the heartbeat has exited and every detached report has
// finished.
func (s *Session) Wait() {
	s.mu.Lock()
	done := s.tickerDone
	s.mu.Unlock()
	if done != nil {
		<-done
	}
	s.reports.Wait()
}

// halt moves the session to StateStopped and waits for the heartbeat to exit.
// It reports whether this call performed the transition.
func (s *Session) halt() bool {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return false
	}
	s.state = StateStopped
	stopTicker, done := s.stopTicker, s.tickerDone
	s.mu.Unlock()

	s.stopWatch()
	if stopTicker != nil {
		stopTicker()
		<-done
	}
	s.metrics.SessionEnded()
	return true
}

// reportAsync sends one report on a detached context. The session may end
// before it completes.
func (s *Session) reportAsync(status Status, pos media.Ticks) {
	ctx := context.WithoutCancel(s.ctx)
	s.reports.Add(1)
	go func() {
		defer s.reports.Done()
		s.report(ctx, status, pos)
	}()
}

func (s *Session) report(ctx context.Context, status Status, pos media.Ticks) {
	r := Report{
		SessionToken:  s.cfg.Token,
		UserSessionID: s.cfg.UserSessionID,
		MediaID:       s.cfg.MediaID,
		SourceID:      s.cfg.Source.ID,
		Selection:     s.cfg.Selection,
		Position:      pos,
		Status:        status,
	}
	err := s.reporter.ReportPlayback(ctx, r)
	s.metrics.PlaybackReported(string(status), err)

	evt := &events.PlaybackReported{
		BaseEvent:    events.NewBaseEvent(events.EventPlaybackReported, events.EntitySession, s.cfg.Token),
		SessionToken: s.cfg.Token,
		MediaID:      s.cfg.MediaID,
		Status:       string(status),
		PositionSecs: pos.Seconds(),
	}
	if err != nil {
		reportErr := &ReportError{Status: status, SessionToken: s.cfg.Token, Err: err}
		s.logger.Warn("playback report failed", "status", string(status), "error", errchain.Describe(reportErr))
		evt.Error = reportErr.Error()
	}
	_ = s.bus.Publish(ctx, evt)
}
