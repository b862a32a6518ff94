package media

import (
	"sync/atomic"
	"time"
)

// Source is one playable rendition of a title.
type Source struct {
	ID              string
	Name            string
	Container       string
	VideoStreams    []Stream
	AudioStreams    []Stream
	SubtitleStreams []Stream
	TotalDuration   time.Duration

	// Resume position in ticks. Written by playback sessions while the
	// catalog is being read, so it is kept atomic.
	start atomic.Int64
}

// StartPosition returns the resume position.
func (s *Source) StartPosition() time.Duration {
	return Ticks(s.start.Load()).Duration()
}

// SetStartPosition records a new resume position, truncated to whole ticks.
func (s *Source) SetStartPosition(d time.Duration) {
	s.start.Store(int64(FromDuration(d)))
}

// StartTicks returns the resume position in ticks.
func (s *Source) StartTicks() Ticks {
	return Ticks(s.start.Load())
}

// Streams returns the streams of the given kind.
func (s *Source) Streams(kind StreamKind) []Stream {
	switch kind {
	case StreamVideo:
		return s.VideoStreams
	case StreamAudio:
		return s.AudioStreams
	case StreamSubtitle:
		return s.SubtitleStreams
	default:
		return nil
	}
}
