package playback_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/events"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/metrics"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/playback"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/playback/mocks"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakePlayer struct {
	mu     sync.Mutex
	pos    time.Duration
	paused bool
}

func (p *fakePlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *fakePlayer) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *fakePlayer) set(pos time.Duration, paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos, p.paused = pos, paused
}

// recorder collects reports delivered to a mock reporter.
type recorder struct {
	mu      sync.Mutex
	reports []playback.Report
}

func (r *recorder) add(_ context.Context, rep playback.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
	return nil
}

func (r *recorder) statuses() []playback.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]playback.Status, len(r.reports))
	for i, rep := range r.reports {
		out[i] = rep.Status
	}
	return out
}

func (r *recorder) count(status playback.Status) int {
	n := 0
	for _, s := range r.statuses() {
		if s == status {
			n++
		}
	}
	return n
}

func (r *recorder) last(status playback.Status) (playback.Report, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.reports) - 1; i >= 0; i-- {
		if r.reports[i].Status == status {
			return r.reports[i], true
		}
	}
	return playback.Report{}, false
}

func newReporter(t *testing.T) (*mocks.MockReporter, *recorder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	rep := mocks.NewMockReporter(ctrl)
	rec := &recorder{}
	rep.EXPECT().ReportPlayback(gomock.Any(), gomock.Any()).DoAndReturn(rec.add).AnyTimes()
	return rep, rec
}

func testConfig() playback.Config {
	return playback.Config{
		Source:        &media.Source{ID: "src"},
		MediaID:       "movie",
		UserSessionID: "user-session",
	}
}

func TestNewSession_ValidatesConfig(t *testing.T) {
	rep, _ := newReporter(t)
	player := &fakePlayer{}

	_, err := playback.NewSession(context.Background(), playback.Config{}, rep, player)
	assert.ErrorIs(t, err, playback.ErrInvalidConfig)

	_, err = playback.NewSession(context.Background(), testConfig(), nil, player)
	assert.ErrorIs(t, err, playback.ErrInvalidConfig)

	_, err = playback.NewSession(context.Background(), testConfig(), rep, nil)
	assert.ErrorIs(t, err, playback.ErrInvalidConfig)

	noUserSession := testConfig()
	noUserSession.UserSessionID = ""
	_, err = playback.NewSession(context.Background(), noUserSession, rep, player)
	assert.ErrorIs(t, err, playback.ErrInvalidConfig)
}

func TestNewSession_ReportsPlay(t *testing.T) {
	rep, rec := newReporter(t)
	player := &fakePlayer{pos: 30 * time.Second}

	cfg := testConfig()
	cfg.Selection = playback.Selection{Audio: &media.Stream{Index: 2, Kind: media.StreamAudio}}
	s, err := playback.NewSession(context.Background(), cfg, rep, player, playback.WithLogger(testLogger()))
	require.NoError(t, err)
	defer s.Close()
	s.Wait()

	_, err = uuid.Parse(s.Token())
	require.NoError(t, err)
	assert.Equal(t, playback.StateStarting, s.State())

	play, ok := rec.last(playback.StatusPlay)
	require.True(t, ok)
	assert.Equal(t, s.Token(), play.SessionToken)
	assert.Equal(t, "user-session", play.UserSessionID)
	assert.Equal(t, "src", play.SourceID)
	assert.Equal(t, "movie", play.MediaID)
	assert.Equal(t, media.Ticks(300_000_000), play.Position)
	require.NotNil(t, play.Selection.Audio)
	assert.Equal(t, 2, play.Selection.Audio.Index)
}

func TestSession_KeepsProvidedToken(t *testing.T) {
	rep, _ := newReporter(t)
	cfg := testConfig()
	cfg.Token = "fixed"

	s, err := playback.NewSession(context.Background(), cfg, rep, &fakePlayer{}, playback.WithLogger(testLogger()))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "fixed", s.Token())
}

func TestSession_HeartbeatReportsProgressAndPause(t *testing.T) {
	rep, rec := newReporter(t)
	player := &fakePlayer{}

	s, err := playback.NewSession(context.Background(), testConfig(), rep, player,
		playback.WithInterval(5*time.Millisecond), playback.WithLogger(testLogger()))
	require.NoError(t, err)
	require.NoError(t, s.Start())
	assert.Equal(t, playback.StateRunning, s.State())
	assert.ErrorIs(t, s.Start(), playback.ErrAlreadyStarted)

	require.Eventually(t, func() bool { return rec.count(playback.StatusProgressed) >= 2 },
		time.Second, time.Millisecond)

	player.set(10*time.Second, true)
	require.Eventually(t, func() bool { return rec.count(playback.StatusPaused) >= 1 },
		time.Second, time.Millisecond)

	paused, _ := rec.last(playback.StatusPaused)
	assert.Equal(t, media.FromSeconds(10), paused.Position)

	s.Stop()
	s.Wait()
}

func TestSession_StopWritesResumePosition(t *testing.T) {
	rep, rec := newReporter(t)
	player := &fakePlayer{}
	cfg := testConfig()

	s, err := playback.NewSession(context.Background(), cfg, rep, player,
		playback.WithInterval(time.Hour), playback.WithLogger(testLogger()))
	require.NoError(t, err)
	require.NoError(t, s.Start())

	player.set(125*time.Second, false)
	s.Stop()
	s.Wait()

	assert.Equal(t, 125*time.Second, cfg.Source.StartPosition())
	assert.Equal(t, media.Ticks(1_250_000_000), cfg.Source.StartTicks())
	assert.Equal(t, playback.StateStopped, s.State())

	stop, ok := rec.last(playback.StatusStop)
	require.True(t, ok)
	assert.Equal(t, media.Ticks(1_250_000_000), stop.Position)

	s.Stop()
	s.Wait()
	assert.Equal(t, 1, rec.count(playback.StatusStop))
	assert.ErrorIs(t, s.Start(), playback.ErrStopped)
}

func TestSession_StopTruncatesToWholeTicks(t *testing.T) {
	rep, _ := newReporter(t)
	player := &fakePlayer{pos: time.Second + 150*time.Nanosecond}
	cfg := testConfig()

	s, err := playback.NewSession(context.Background(), cfg, rep, player, playback.WithLogger(testLogger()))
	require.NoError(t, err)
	s.Stop()
	s.Wait()

	assert.Equal(t, time.Second+100*time.Nanosecond, cfg.Source.StartPosition())
}

func TestSession_StopWithoutStart(t *testing.T) {
	rep, rec := newReporter(t)
	s, err := playback.NewSession(context.Background(), testConfig(), rep, &fakePlayer{}, playback.WithLogger(testLogger()))
	require.NoError(t, err)

	s.Stop()
	s.Wait()
	assert.ElementsMatch(t, []playback.Status{playback.StatusPlay, playback.StatusStop}, rec.statuses())
}

func TestSession_FailedReportsAreSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	rep := mocks.NewMockReporter(ctrl)

	var mu sync.Mutex
	calls := 0
	rep.EXPECT().ReportPlayback(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, playback.Report) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			return errors.New("server unavailable")
		}).AnyTimes()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	s, err := playback.NewSession(context.Background(), testConfig(), rep, &fakePlayer{},
		playback.WithInterval(5*time.Millisecond), playback.WithMetrics(m), playback.WithLogger(testLogger()))
	require.NoError(t, err)
	require.NoError(t, s.Start())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 3
	}, time.Second, time.Millisecond)

	s.Stop()
	s.Wait()
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.PlaybackReports.WithLabelValues("progressed", "error")), 2.0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PlaybackReports.WithLabelValues("stop", "error")), 0)
}

func TestSession_ContextCancelTearsDown(t *testing.T) {
	rep, rec := newReporter(t)
	ctx, cancel := context.WithCancel(context.Background())

	s, err := playback.NewSession(ctx, testConfig(), rep, &fakePlayer{},
		playback.WithInterval(2*time.Millisecond), playback.WithLogger(testLogger()))
	require.NoError(t, err)
	require.NoError(t, s.Start())
	require.Eventually(t, func() bool { return rec.count(playback.StatusProgressed) >= 1 },
		time.Second, time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return s.State() == playback.StateStopped },
		time.Second, time.Millisecond)
	s.Wait()

	settled := len(rec.statuses())
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, rec.statuses(), settled, "no reports after teardown")
	assert.Zero(t, rec.count(playback.StatusStop))

	s.Stop()
	s.Wait()
	assert.Zero(t, rec.count(playback.StatusStop), "stop after teardown does not report")
}

func TestSession_CloseDoesNotReport(t *testing.T) {
	rep, rec := newReporter(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	s, err := playback.NewSession(context.Background(), testConfig(), rep, &fakePlayer{},
		playback.WithMetrics(m), playback.WithLogger(testLogger()))
	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ActiveSessions), 0)

	require.NoError(t, s.Start())
	s.Close()
	s.Close()
	s.Wait()

	assert.Equal(t, []playback.Status{playback.StatusPlay}, rec.statuses())
	assert.InDelta(t, 0, testutil.ToFloat64(m.ActiveSessions), 0)
}

func TestSession_PublishesReports(t *testing.T) {
	rep, _ := newReporter(t)
	bus := events.NewBus(testLogger())
	defer bus.Close()
	ch := bus.Subscribe(events.EventPlaybackReported, 8)

	s, err := playback.NewSession(context.Background(), testConfig(), rep, &fakePlayer{pos: 3 * time.Second},
		playback.WithBus(bus), playback.WithLogger(testLogger()))
	require.NoError(t, err)
	s.Wait()

	select {
	case e := <-ch:
		evt := e.(*events.PlaybackReported)
		assert.Equal(t, "play", evt.Status)
		assert.Equal(t, int64(3), evt.PositionSecs)
		assert.Equal(t, s.Token(), evt.EntityID())
		assert.Empty(t, evt.Error)
	case <-time.After(time.Second):
		t.Fatal("no playback event")
	}
	s.Close()
}
