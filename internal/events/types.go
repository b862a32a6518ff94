package events

// Entity types
const (
	EntityLibrary = "library"
	EntitySync    = "sync"
	EntitySession = "session"
)

// Event type constants
const (
	EventLibraryStatusChanged = "library.status.changed"
	EventSyncStateChanged     = "sync.state.changed"
	EventPlaybackReported     = "playback.reported"
)

// LibraryStatusChanged is emitted whenever a library's load status is
// published, including every growth of its accumulated media.
type LibraryStatusChanged struct {
	BaseEvent
	LibraryID string `json:"library_id"`
	Title     string `json:"title"`
	State     string `json:"state"`
	Count     int    `json:"count"`
	Error     string `json:"error,omitempty"`
}

// SyncStateChanged is emitted when the overall sync state moves.
type SyncStateChanged struct {
	BaseEvent
	State     string `json:"state"`
	Libraries int    `json:"libraries"`
	Error     string `json:"error,omitempty"`
}

// PlaybackReported is emitted after each playback report attempt.
type PlaybackReported struct {
	BaseEvent
	SessionToken string `json:"session_token"`
	MediaID      string `json:"media_id"`
	Status       string `json:"status"`
	PositionSecs int64  `json:"position_secs"`
	Error        string `json:"error,omitempty"`
}
