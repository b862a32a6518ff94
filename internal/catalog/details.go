package catalog

import (
	"context"
	"fmt"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/errchain"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/seasons"
)

const defaultSlimLimit = 16

// LoadSeasons fetches the episodes of a series, groups them into seasons and
// stores the result on m. Titles that already have seasons are left alone.
func (s *Syncer) LoadSeasons(ctx context.Context, m *media.Media) ([]media.Season, error) {
	if !m.IsSeries() {
		return nil, fmt.Errorf("load seasons for %s: %w", m.ID, ErrNotSeries)
	}
	if loaded, ok := m.Seasons(); ok {
		return loaded, nil
	}

	records, err := s.client.SeasonEpisodes(ctx, m.ID)
	if err != nil {
		groupErr := &SeasonGroupingError{SeriesID: m.ID, Err: err}
		s.logger.Warn("season fetch failed", "media_id", m.ID, "error", errchain.Describe(groupErr))
		return nil, groupErr
	}

	grouped := seasons.Group(records)
	m.SetSeasons(grouped)
	s.logger.Debug("seasons loaded", "media_id", m.ID, "seasons", len(grouped), "episodes", len(records))
	return grouped, nil
}

// LoadSpecialFeatures moves m from Unloaded through Loading to Loaded with its
// features grouped by kind. A failed fetch puts m back in Unloaded so the
// load can be retried. Calls made while a load is running or after it
// finished return the current state.
func (s *Syncer) LoadSpecialFeatures(ctx context.Context, m *media.Media) (media.SpecialFeatures, error) {
	if !m.BeginSpecialFeatures() {
		return m.SpecialFeatures(), nil
	}

	features, err := s.client.SpecialFeatures(ctx, m.ID)
	if err != nil {
		m.SetSpecialFeatures(media.SpecialFeatures{State: media.FeaturesUnloaded})
		featErr := &SpecialFeaturesError{MediaID: m.ID, Err: err}
		s.logger.Warn("special features fetch failed", "media_id", m.ID, "error", errchain.Describe(featErr))
		return media.SpecialFeatures{State: media.FeaturesUnloaded}, featErr
	}

	loaded := media.SpecialFeatures{
		State:  media.FeaturesLoaded,
		Groups: media.GroupFeatures(features),
	}
	m.SetSpecialFeatures(loaded)
	return loaded, nil
}

// Latest returns recently added titles of a library.
func (s *Syncer) Latest(ctx context.Context, libraryID string, limit int) ([]media.SlimMedia, error) {
	if limit <= 0 {
		limit = defaultSlimLimit
	}
	items, err := s.client.Latest(ctx, libraryID, limit)
	if err != nil {
		return nil, fmt.Errorf("latest for library %s: %w", libraryID, err)
	}
	return items, nil
}

// UpNext returns the next episodes the user is expected to watch.
func (s *Syncer) UpNext(ctx context.Context, limit int) ([]media.SlimMedia, error) {
	if limit <= 0 {
		limit = defaultSlimLimit
	}
	items, err := s.client.UpNext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("up next: %w", err)
	}
	return items, nil
}
