package catalog

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/errchain"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/events"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/metrics"
)

const (
	DefaultConcurrency = 2
	DefaultPageSize    = 100
)

// Options tunes a Syncer. Zero values fall back to the defaults.
type Options struct {
	// Concurrency bounds how many libraries drain at once.
	Concurrency int
	// PageSize is the number of titles requested per page.
	PageSize int
	// ExcludedKinds lists collection kinds that hold no content of their own.
	ExcludedKinds []string
	// IncludeTypes filters the title types requested from each library.
	IncludeTypes []string
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Concurrency:   DefaultConcurrency,
		PageSize:      DefaultPageSize,
		ExcludedKinds: []string{"boxsets"},
		IncludeTypes:  []string{"Movie", "Series"},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Concurrency <= 0 {
		o.Concurrency = d.Concurrency
	}
	if o.PageSize <= 0 {
		o.PageSize = d.PageSize
	}
	if o.ExcludedKinds == nil {
		o.ExcludedKinds = d.ExcludedKinds
	}
	if len(o.IncludeTypes) == 0 {
		o.IncludeTypes = d.IncludeTypes
	}
	return o
}

// Syncer drives the catalog sync and owns the resulting libraries.
type Syncer struct {
	client  Client
	opts    Options
	bus     *events.Bus
	metrics *metrics.Metrics
	logger  *slog.Logger

	running atomic.Bool

	mu        sync.RWMutex
	status    SyncStatus
	libraries []*Library
}

// NewSyncer creates a Syncer. bus and m may be nil.
func NewSyncer(client Client, opts Options, bus *events.Bus, m *metrics.Metrics, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		client:  client,
		opts:    opts.withDefaults(),
		bus:     bus,
		metrics: m,
		logger:  logger.With("component", "catalog-sync"),
	}
}

// Status returns the process-wide sync status.
func (s *Syncer) Status() SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Libraries returns the libraries of the current sync in server order.
func (s *Syncer) Libraries() []*Library {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.libraries)
}

// Library returns the library with id, if listed.
func (s *Syncer) Library(id string) (*Library, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.libraries {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// Sync lists every library and drains each one page by page, at most
// Concurrency libraries at a time. Partial results are published after every
// page. A failing library ends in StateError without affecting the others;
// only a failure to list libraries is returned.
func (s *Syncer) Sync(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer s.running.Store(false)

	start := time.Now()
	s.setStatus(ctx, SyncStatus{State: StateRetrieving})

	infos, err := s.client.Libraries(ctx)
	if err != nil {
		listErr := &LibraryListError{Err: err}
		s.logger.Error("library list failed", "error", errchain.Describe(listErr))
		s.setStatus(ctx, SyncStatus{State: StateError, Err: listErr})
		return listErr
	}

	libs := make([]*Library, 0, len(infos))
	for _, info := range infos {
		if s.excluded(info.CollectionKind) {
			s.logger.Debug("skipping library", "library_id", info.ID, "kind", info.CollectionKind)
			continue
		}
		libs = append(libs, newLibrary(info))
	}

	s.metrics.ResetLibraries()
	s.mu.Lock()
	s.libraries = libs
	s.mu.Unlock()

	if len(libs) == 0 {
		s.logger.Info("no libraries to sync")
		s.setStatus(ctx, SyncStatus{State: StateComplete})
		return nil
	}

	for _, lib := range libs {
		s.publish(ctx, lib, LoadStatus{State: StateRetrieving})
	}
	s.setStatus(ctx, SyncStatus{State: StateAvailable})

	g := new(errgroup.Group)
	g.SetLimit(s.opts.Concurrency)
	for _, lib := range libs {
		g.Go(func() error {
			s.drain(ctx, lib)
			return nil
		})
	}
	_ = g.Wait()

	s.setStatus(ctx, SyncStatus{State: StateComplete})
	s.metrics.SyncFinished(time.Since(start).Seconds())
	s.logger.Info("sync complete",
		"libraries", len(libs),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// drain fetches every page of lib, republishing the accumulated titles after
// each full page. A short page ends the library.
func (s *Syncer) drain(ctx context.Context, lib *Library) {
	log := s.logger.With("library_id", lib.ID)
	var acc []*media.Media
	offset := 0

	for {
		page, err := s.client.LibraryPage(ctx, PageRequest{
			LibraryID:    lib.ID,
			Offset:       offset,
			Limit:        s.opts.PageSize,
			SortBy:       SortByName,
			SortOrder:    Ascending,
			IncludeTypes: s.opts.IncludeTypes,
		})
		s.metrics.PageFetched(len(page), err)
		if err != nil {
			mediaErr := &LibraryMediaError{LibraryID: lib.ID, Offset: offset, Err: err}
			log.Error("library page failed", "offset", offset, "error", errchain.Describe(mediaErr))
			s.publish(ctx, lib, LoadStatus{State: StateError, Err: mediaErr})
			return
		}

		acc = append(acc, page...)
		offset += len(page)
		// Readers get a clipped view so later appends never touch what they hold.
		published := slices.Clip(acc)

		if len(page) < s.opts.PageSize {
			s.publish(ctx, lib, LoadStatus{State: StateComplete, Media: published})
			log.Debug("library complete", "count", len(acc))
			return
		}
		s.publish(ctx, lib, LoadStatus{State: StateAvailable, Media: published})
	}
}

func (s *Syncer) excluded(kind string) bool {
	for _, k := range s.opts.ExcludedKinds {
		if strings.EqualFold(k, kind) {
			return true
		}
	}
	return false
}

func (s *Syncer) publish(ctx context.Context, lib *Library, next LoadStatus) {
	prev := lib.swap(next)
	if !prev.State.CanTransitionTo(next.State) {
		s.logger.Warn("unexpected library transition",
			"library_id", lib.ID,
			"from", prev.State.String(),
			"to", next.State.String())
	}
	from := prev.State.String()
	if prev.State == StateUnloaded {
		from = ""
	}
	s.metrics.LibraryTransition(from, next.State.String())

	evt := &events.LibraryStatusChanged{
		BaseEvent: events.NewBaseEvent(events.EventLibraryStatusChanged, events.EntityLibrary, lib.ID),
		LibraryID: lib.ID,
		Title:     lib.Title,
		State:     next.State.String(),
		Count:     len(next.Media),
	}
	if next.Err != nil {
		evt.Error = next.Err.Error()
	}
	_ = s.bus.Publish(ctx, evt)
}

func (s *Syncer) setStatus(ctx context.Context, st SyncStatus) {
	s.mu.Lock()
	s.status = st
	count := len(s.libraries)
	s.mu.Unlock()

	evt := &events.SyncStateChanged{
		BaseEvent: events.NewBaseEvent(events.EventSyncStateChanged, events.EntitySync, "catalog"),
		State:     st.State.String(),
		Libraries: count,
	}
	if st.Err != nil {
		evt.Error = st.Err.Error()
	}
	_ = s.bus.Publish(ctx, evt)
}
