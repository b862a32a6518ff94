package jellyfin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/catalog"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/seasons"
)

var _ catalog.Client = (*Client)(nil)

// ErrNoUser is returned by user-scoped calls on a client without credentials.
var ErrNoUser = errors.New("no authenticated user")

// itemFields asks the server for the fields the model reads beyond the defaults.
const itemFields = "SortName,Overview,Genres,Taglines,People,MediaSources,MediaStreams,PremiereDate,OfficialRating"

func (c *Client) userPath(format string, args ...string) (string, error) {
	if c.userID == "" {
		return "", ErrNoUser
	}
	p := "/Users/" + url.PathEscape(c.userID) + format
	for _, a := range args {
		p = strings.Replace(p, "{}", url.PathEscape(a), 1)
	}
	return p, nil
}

// getList fetches path and decodes each element with fn. The response may be
// a bare array or an items envelope.
func getList[T any](ctx context.Context, c *Client, path string, query url.Values, fn func(json.RawMessage) (T, error)) ([]T, error) {
	var body json.RawMessage
	if err := c.Request(ctx, http.MethodGet, path, query, nil, &body); err != nil {
		return nil, err
	}

	var raws []json.RawMessage
	if trimmed := strings.TrimSpace(string(body)); strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(body, &raws); err != nil {
			return nil, &RequestError{Op: OpDecode, Method: http.MethodGet, Path: path, Err: err}
		}
	} else {
		var env itemsEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, &RequestError{Op: OpDecode, Method: http.MethodGet, Path: path, Err: err}
		}
		raws = env.Items
	}

	items, err := decodeAll(raws, fn)
	if err != nil {
		return nil, &RequestError{Op: OpDecode, Method: http.MethodGet, Path: path, Err: err}
	}
	return items, nil
}

// Libraries lists the user's top-level views.
func (c *Client) Libraries(ctx context.Context) ([]media.LibraryInfo, error) {
	path, err := c.userPath("/Views")
	if err != nil {
		return nil, err
	}
	return getList(ctx, c, path, nil, decodeLibrary)
}

// LibraryPage fetches one page of titles from a library.
func (c *Client) LibraryPage(ctx context.Context, req catalog.PageRequest) ([]*media.Media, error) {
	path, err := c.userPath("/Items")
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("ParentId", req.LibraryID)
	q.Set("StartIndex", strconv.Itoa(req.Offset))
	q.Set("Limit", strconv.Itoa(req.Limit))
	q.Set("Recursive", "true")
	q.Set("Fields", itemFields)
	if req.SortBy != "" {
		q.Set("SortBy", req.SortBy)
	}
	if req.SortOrder != "" {
		q.Set("SortOrder", string(req.SortOrder))
	}
	if len(req.IncludeTypes) > 0 {
		q.Set("IncludeItemTypes", strings.Join(req.IncludeTypes, ","))
	}
	return getList(ctx, c, path, q, decodeMedia)
}

// SeasonEpisodes fetches every episode of a series in server order.
func (c *Client) SeasonEpisodes(ctx context.Context, seriesID string) ([]seasons.EpisodeRecord, error) {
	q := url.Values{}
	q.Set("Fields", "Overview,MediaSources,MediaStreams")
	if c.userID != "" {
		q.Set("UserId", c.userID)
	}
	return getList(ctx, c, "/Shows/"+url.PathEscape(seriesID)+"/Episodes", q, decodeEpisode)
}

// SpecialFeatures fetches the extras attached to a title.
func (c *Client) SpecialFeatures(ctx context.Context, mediaID string) ([]media.SpecialFeature, error) {
	path, err := c.userPath("/Items/{}/SpecialFeatures", mediaID)
	if err != nil {
		return nil, err
	}
	return getList(ctx, c, path, nil, decodeSpecialFeature)
}

// Latest fetches recently added titles of a library.
func (c *Client) Latest(ctx context.Context, libraryID string, limit int) ([]media.SlimMedia, error) {
	path, err := c.userPath("/Items/Latest")
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("ParentId", libraryID)
	q.Set("Limit", strconv.Itoa(limit))
	return getList(ctx, c, path, q, decodeSlim)
}

// UpNext fetches the next unwatched episodes across series in progress.
func (c *Client) UpNext(ctx context.Context, limit int) ([]media.SlimMedia, error) {
	if c.userID == "" {
		return nil, ErrNoUser
	}
	q := url.Values{}
	q.Set("UserId", c.userID)
	q.Set("Limit", strconv.Itoa(limit))
	return getList(ctx, c, "/Shows/NextUp", q, decodeSlim)
}
