package media

// StreamKind identifies what a stream carries.
type StreamKind string

const (
	StreamVideo    StreamKind = "video"
	StreamAudio    StreamKind = "audio"
	StreamSubtitle StreamKind = "subtitle"
)

// Stream is one elementary stream inside a Source.
type Stream struct {
	Index     int // server-assigned identity, stable across requests
	Title     string
	Kind      StreamKind
	Bitrate   int // bits per second
	Codec     string
	Language  string
	IsDefault bool
}

// NormalizeDefaults leaves at most one default stream in streams. When
// defaultIndex is non-nil the stream whose Index equals it wins; otherwise the
// first stream already flagged default is kept. If nothing is flagged and
// required is true, the first stream becomes the default.
func NormalizeDefaults(streams []Stream, defaultIndex *int, required bool) {
	chosen := -1
	if defaultIndex != nil {
		for i := range streams {
			if streams[i].Index == *defaultIndex {
				chosen = i
				break
			}
		}
	}
	if chosen < 0 {
		for i := range streams {
			if streams[i].IsDefault {
				chosen = i
				break
			}
		}
	}
	if chosen < 0 && required && len(streams) > 0 {
		chosen = 0
	}
	for i := range streams {
		streams[i].IsDefault = i == chosen
	}
}

// Default returns the default stream, or nil when there is none.
func Default(streams []Stream) *Stream {
	for i := range streams {
		if streams[i].IsDefault {
			return &streams[i]
		}
	}
	return nil
}

// ByIndex finds a stream by its server index.
func ByIndex(streams []Stream, index int) *Stream {
	for i := range streams {
		if streams[i].Index == index {
			return &streams[i]
		}
	}
	return nil
}
