// Package catalog synchronizes a media server's libraries into an in-memory
// model that fills in page by page, and answers lookups against it while the
// sync is still running.
package catalog

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

import (
	"context"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/seasons"
)

// SortOrder is the direction of a paged listing.
type SortOrder string

const (
	Ascending  SortOrder = "Ascending"
	Descending SortOrder = "Descending"
)

// SortByName orders by the server's normalized sort name, which falls back
// to the title when no alias exists.
const SortByName = "SortName"

// PageRequest selects one page of a library listing.
type PageRequest struct {
	LibraryID    string
	Offset       int
	Limit        int
	SortBy       string
	SortOrder    SortOrder
	IncludeTypes []string
}

// Client is the server API the catalog depends on. Implementations hold the
// credentials; callers never pass them.
type Client interface {
	// Libraries lists the user's top-level collections.
	Libraries(ctx context.Context) ([]media.LibraryInfo, error)
	// LibraryPage returns one page of titles from a library.
	LibraryPage(ctx context.Context, req PageRequest) ([]*media.Media, error)
	// SeasonEpisodes returns the flat episode feed of a series.
	SeasonEpisodes(ctx context.Context, seriesID string) ([]seasons.EpisodeRecord, error)
	// SpecialFeatures returns extras attached to a title.
	SpecialFeatures(ctx context.Context, mediaID string) ([]media.SpecialFeature, error)
	// Latest returns recently added titles of a library.
	Latest(ctx context.Context, libraryID string, limit int) ([]media.SlimMedia, error)
	// UpNext returns the next unwatched episodes across series in progress.
	UpNext(ctx context.Context, limit int) ([]media.SlimMedia, error)
}
