package media

import "time"

// Season is a client-side reconstruction of a run of episodes. Its ID is
// synthesized, not assigned by the server.
type Season struct {
	ID       string
	Title    string
	Episodes []Episode
}

// Episode is one entry of a series.
type Episode struct {
	ID         string
	Title      string
	Number     int
	Sources    []*Source
	LastPlayed *time.Time
	Overview   string

	DecodeErrors []error
}
