// Package media holds the client-side model of a media server catalog:
// titles, their playable sources and streams, and reconstructed TV seasons.
package media

import (
	"sync"
	"time"
)

// Kind is the tagged union of title shapes. It is sealed: only Movie, Series
// and Unknown implement it.
type Kind interface {
	kindName() string
}

// Movie is a directly playable title.
type Movie struct {
	Sources []*Source
}

// Series is an episodic title. Its seasons live on the owning Media because
// they are loaded after the title itself.
type Series struct{}

// Unknown preserves a server type this client does not model.
type Unknown struct {
	Type string
}

func (Movie) kindName() string     { return "Movie" }
func (Series) kindName() string    { return "Series" }
func (u Unknown) kindName() string { return u.Type }

// KindName returns the server type name for k.
func KindName(k Kind) string {
	if k == nil {
		return ""
	}
	return k.kindName()
}

// Person is a cast or crew credit.
type Person struct {
	ID   string
	Name string
	Role string
	Type string
}

// ImageTags maps image kinds (Primary, Backdrop, Logo) to cache tags.
type ImageTags map[string]string

// UserData is the per-user playback state the server attaches to a title.
type UserData struct {
	Played         bool
	PlaybackTicks  Ticks
	LastPlayedDate *time.Time
}

// Media is one title in a library.
type Media struct {
	ID             string
	Title          string
	SortName       string
	Tagline        string
	Description    string
	Genres         []string
	MaturityRating string
	ReleaseDate    *time.Time
	Duration       time.Duration
	People         []Person
	Kind           Kind
	ImageTags      ImageTags
	UserData       UserData

	// DecodeErrors collects problems with non-essential fields that were
	// replaced by defaults while decoding.
	DecodeErrors []error

	mu       sync.RWMutex
	seasons  []Season
	features SpecialFeatures
}

// IsSeries reports whether m is episodic.
func (m *Media) IsSeries() bool {
	_, ok := m.Kind.(Series)
	return ok
}

// Sources returns the playable sources of a movie, or nil for other kinds.
func (m *Media) Sources() []*Source {
	if mv, ok := m.Kind.(Movie); ok {
		return mv.Sources
	}
	return nil
}

// Seasons returns the loaded seasons and whether a season fetch has completed.
func (m *Media) Seasons() ([]Season, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.seasons, m.seasons != nil
}

// SetSeasons records the result of a season fetch. A nil slice is stored as
// empty so the title reads as loaded.
func (m *Media) SetSeasons(seasons []Season) {
	if seasons == nil {
		seasons = []Season{}
	}
	m.mu.Lock()
	m.seasons = seasons
	m.mu.Unlock()
}

// SpecialFeatures returns the current special features state.
func (m *Media) SpecialFeatures() SpecialFeatures {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.features
}

// SetSpecialFeatures replaces the special features state.
func (m *Media) SetSpecialFeatures(f SpecialFeatures) {
	m.mu.Lock()
	m.features = f
	m.mu.Unlock()
}

// BeginSpecialFeatures moves Unloaded to Loading. It returns false when a
// load is already running or finished.
func (m *Media) BeginSpecialFeatures() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.features.State != FeaturesUnloaded {
		return false
	}
	m.features = SpecialFeatures{State: FeaturesLoading}
	return true
}

// Episode finds an episode by id across loaded seasons.
func (m *Media) Episode(id string) (*Episode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.seasons {
		for j := range m.seasons[i].Episodes {
			if m.seasons[i].Episodes[j].ID == id {
				return &m.seasons[i].Episodes[j], true
			}
		}
	}
	return nil, false
}
