// Package metrics exposes Prometheus instrumentation for catalog sync and
// playback reporting. A nil *Metrics is valid and records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the collectors updated by the sync loop and playback sessions.
type Metrics struct {
	SyncPages       *prometheus.CounterVec
	SyncItems       prometheus.Counter
	SyncLibraries   *prometheus.GaugeVec
	SyncDuration    prometheus.Histogram
	PlaybackReports *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
}

// New creates and registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SyncPages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stingray",
			Subsystem: "sync",
			Name:      "pages_total",
			Help:      "Library page requests by result.",
		}, []string{"result"}),
		SyncItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stingray",
			Subsystem: "sync",
			Name:      "items_total",
			Help:      "Titles received from library pages.",
		}),
		SyncLibraries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "stingray",
			Subsystem: "sync",
			Name:      "libraries",
			Help:      "Libraries currently in each load state.",
		}, []string{"state"}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stingray",
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Wall time of a full catalog sync.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		PlaybackReports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stingray",
			Subsystem: "playback",
			Name:      "reports_total",
			Help:      "Playback reports by status and result.",
		}, []string{"status", "result"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stingray",
			Subsystem: "playback",
			Name:      "active_sessions",
			Help:      "Playback sessions that have not stopped.",
		}),
	}

	reg.MustRegister(
		m.SyncPages,
		m.SyncItems,
		m.SyncLibraries,
		m.SyncDuration,
		m.PlaybackReports,
		m.ActiveSessions,
	)

	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// PageFetched records one library page request.
func (m *Metrics) PageFetched(items int, err error) {
	if m == nil {
		return
	}
	m.SyncPages.WithLabelValues(result(err)).Inc()
	m.SyncItems.Add(float64(items))
}

// LibraryTransition moves one library from one state gauge to another.
// An empty from only increments.
func (m *Metrics) LibraryTransition(from, to string) {
	if m == nil {
		return
	}
	if from != "" {
		m.SyncLibraries.WithLabelValues(from).Dec()
	}
	m.SyncLibraries.WithLabelValues(to).Inc()
}

// ResetLibraries clears the per-state gauges before a new sync.
func (m *Metrics) ResetLibraries() {
	if m == nil {
		return
	}
	m.SyncLibraries.Reset()
}

// SyncFinished records the wall time of a completed sync.
func (m *Metrics) SyncFinished(seconds float64) {
	if m == nil {
		return
	}
	m.SyncDuration.Observe(seconds)
}

// PlaybackReported records one playback report attempt.
func (m *Metrics) PlaybackReported(status string, err error) {
	if m == nil {
		return
	}
	m.PlaybackReports.WithLabelValues(status, result(err)).Inc()
}

// SessionStarted and SessionEnded track live playback sessions.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionEnded() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}
