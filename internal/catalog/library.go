package catalog

import (
	"sync"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
)

// Library is a listed collection plus its load status. Status is written only
// by the worker draining the library and read by anyone.
type Library struct {
	media.LibraryInfo

	mu     sync.RWMutex
	status LoadStatus
}

func newLibrary(info media.LibraryInfo) *Library {
	return &Library{LibraryInfo: info}
}

// Status returns the last published status.
func (l *Library) Status() LoadStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.status
}

// swap publishes next and returns the previous status.
func (l *Library) swap(next LoadStatus) LoadStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.status
	l.status = next
	return prev
}

// find returns the media with id when the library exposes media.
func (l *Library) find(id string) *media.Media {
	st := l.Status()
	if !st.State.HasMedia() {
		return nil
	}
	for _, m := range st.Media {
		if m.ID == id {
			return m
		}
	}
	return nil
}
