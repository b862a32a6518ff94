// Package playback runs a single watch: it reports the start, a heartbeat of
// progress while the player runs, and the final position when it stops.
package playback

//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks

import (
	"context"
	"time"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
)

// Status is the kind of playback event sent to the server.
type Status string

const (
	StatusPlay       Status = "play"
	StatusProgressed Status = "progressed"
	StatusPaused     Status = "paused"
	StatusStop       Status = "stop"
)

// Selection is the set of streams chosen for a session. Nil streams mean
// none selected (typically subtitles).
type Selection struct {
	Video    *media.Stream
	Audio    *media.Stream
	Subtitle *media.Stream
	// Bitrate caps the stream bitrate in bits per second. Zero means unlimited.
	Bitrate int
}

// Report is one playback event.
type Report struct {
	SessionToken  string
	UserSessionID string
	MediaID       string
	SourceID      string
	Selection     Selection
	Position      media.Ticks
	Status        Status
}

// Reporter delivers playback events to the server.
type Reporter interface {
	ReportPlayback(ctx context.Context, r Report) error
}

// Player exposes the state of whatever is rendering the stream.
type Player interface {
	Position() time.Duration
	Paused() bool
}
