package media

// LibraryInfo describes a top-level collection as listed by the server.
type LibraryInfo struct {
	ID             string
	Title          string
	CollectionKind string // "movies", "tvshows", "boxsets", ...
	ImageTags      ImageTags
	DecodeErrors   []error
}

// SlimMedia is the reduced projection used for fast lists such as recently
// added and up next.
type SlimMedia struct {
	ID        string
	Title     string
	Type      string
	ParentID     string // series id for episodes
	ImageTags    ImageTags
	DecodeErrors []error
}
