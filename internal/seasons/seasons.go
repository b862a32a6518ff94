// Package seasons rebuilds season boundaries from the flat, server-ordered
// episode feed of a series.
package seasons

import (
	"fmt"
	"time"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
)

const (
	// SpecialsName is the server's season name for out-of-band episodes.
	SpecialsName = "Specials"
	// SpecialTitle is the title given to each reconstructed specials season.
	SpecialTitle = "Special"
	// UnknownName is used when an episode carries no season name.
	UnknownName = "Unknown Season"
	// ContinuedSuffix marks a season resumed after a run of specials.
	ContinuedSuffix = " Cont."
)

// EpisodeRecord is one decoded entry of the episode feed.
type EpisodeRecord struct {
	ID            string
	Title         string
	Number        *int
	SeasonID      *string
	SeriesID      string
	SeasonName    *string
	Sources       []*media.Source
	LastPlayed    *time.Time
	Overview      string
	PlaybackTicks *media.Ticks
	DecodeErrors  []error
}

func (r EpisodeRecord) seasonID() string {
	if r.SeasonID != nil {
		return *r.SeasonID
	}
	return r.SeriesID
}

func (r EpisodeRecord) seasonName() string {
	if r.SeasonName != nil {
		return *r.SeasonName
	}
	return UnknownName
}

// Group turns records into ordered seasons in a single pass.
//
// Each "Specials" episode becomes its own one-episode season titled Special,
// even when neighbouring specials share a season id. A regular episode whose
// season id matches the last regular episode joins that season, unless a
// Special season was emitted in between, in which case it opens
// "<name> Cont.". Anything else opens a new season.
func Group(records []EpisodeRecord) []media.Season {
	var out []media.Season
	var prevSeasonID string
	havePrev := false

	for i, rec := range records {
		ep := toEpisode(rec, i+1)
		id := rec.seasonID()
		name := rec.seasonName()

		switch {
		case name == SpecialsName:
			out = append(out, newSeason(id, len(out), SpecialTitle, ep))
			continue
		case havePrev && id == prevSeasonID && out[len(out)-1].Title == SpecialTitle:
			out = append(out, newSeason(id, len(out), name+ContinuedSuffix, ep))
		case havePrev && id == prevSeasonID:
			last := &out[len(out)-1]
			last.Episodes = append(last.Episodes, ep)
		default:
			out = append(out, newSeason(id, len(out), name, ep))
		}
		prevSeasonID = id
		havePrev = true
	}
	return out
}

func newSeason(serverID string, ordinal int, title string, first media.Episode) media.Season {
	return media.Season{
		ID:       fmt.Sprintf("%s#%d", serverID, ordinal),
		Title:    title,
		Episodes: []media.Episode{first},
	}
}

// toEpisode converts a record, using fallback as the episode number when the
// server did not send one.
func toEpisode(rec EpisodeRecord, fallback int) media.Episode {
	number := fallback
	if rec.Number != nil {
		number = *rec.Number
	}
	if rec.PlaybackTicks != nil {
		for _, src := range rec.Sources {
			src.SetStartPosition(rec.PlaybackTicks.Duration())
		}
	}
	return media.Episode{
		ID:         rec.ID,
		Title:      rec.Title,
		Number:     number,
		Sources:    rec.Sources,
		LastPlayed: rec.LastPlayed,
		Overview:   rec.Overview,

		DecodeErrors: rec.DecodeErrors,
	}
}
