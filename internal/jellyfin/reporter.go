package jellyfin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/playback"
)

var _ playback.Reporter = (*Client)(nil)

// ErrNoSession is returned by SessionID when the server lists no session for
// this device and user.
var ErrNoSession = errors.New("no server session for this device")

// playbackInfo is the body of the /Sessions/Playing endpoints.
type playbackInfo struct {
	ItemID              string      `json:"ItemId"`
	MediaSourceID       string      `json:"MediaSourceId"`
	PlaySessionID       string      `json:"PlaySessionId"`
	SessionID           string      `json:"SessionId,omitempty"`
	PositionTicks       media.Ticks `json:"PositionTicks"`
	IsPaused            bool        `json:"IsPaused"`
	AudioStreamIndex    *int        `json:"AudioStreamIndex,omitempty"`
	SubtitleStreamIndex *int        `json:"SubtitleStreamIndex,omitempty"`
	MaxStreamingBitrate int         `json:"MaxStreamingBitrate,omitempty"`
	EventName           string      `json:"EventName,omitempty"`
	PlayMethod          string      `json:"PlayMethod"`
}

// ReportPlayback sends a playback event to the matching /Sessions/Playing
// endpoint.
func (c *Client) ReportPlayback(ctx context.Context, r playback.Report) error {
	info := playbackInfo{
		ItemID:              r.MediaID,
		MediaSourceID:       r.SourceID,
		PlaySessionID:       r.SessionToken,
		SessionID:           r.UserSessionID,
		PositionTicks:       r.Position,
		MaxStreamingBitrate: r.Selection.Bitrate,
		PlayMethod:          "DirectPlay",
	}
	if r.Selection.Audio != nil {
		info.AudioStreamIndex = &r.Selection.Audio.Index
	}
	if r.Selection.Subtitle != nil {
		info.SubtitleStreamIndex = &r.Selection.Subtitle.Index
	}

	var path string
	switch r.Status {
	case playback.StatusPlay:
		path = "/Sessions/Playing"
	case playback.StatusProgressed:
		path = "/Sessions/Playing/Progress"
		info.EventName = "timeupdate"
	case playback.StatusPaused:
		path = "/Sessions/Playing/Progress"
		info.IsPaused = true
		info.EventName = "pause"
	case playback.StatusStop:
		path = "/Sessions/Playing/Stopped"
	default:
		return fmt.Errorf("unknown playback status %q", r.Status)
	}
	return c.Request(ctx, http.MethodPost, path, nil, info, nil)
}

// SessionID returns the id the server assigned to this device's session.
// The server registers a session on the first authenticated request, so
// callers normally make one before asking.
func (c *Client) SessionID(ctx context.Context) (string, error) {
	if c.userID == "" {
		return "", ErrNoUser
	}
	q := url.Values{}
	q.Set("DeviceId", c.deviceID)

	var sessions []json.RawMessage
	if err := c.Request(ctx, http.MethodGet, "/Sessions", q, nil, &sessions); err != nil {
		return "", err
	}
	for i, raw := range sessions {
		d, err := newDecodeContext("session", raw, nil)
		if err != nil {
			return "", &RequestError{Op: OpDecode, Method: http.MethodGet, Path: "/Sessions", Err: fmt.Errorf("item %d: %w", i, err)}
		}
		id, err := required[string](d, "Id")
		if err != nil {
			return "", &RequestError{Op: OpDecode, Method: http.MethodGet, Path: "/Sessions", Err: fmt.Errorf("item %d: %w", i, err)}
		}
		if optional(d, "DeviceId", "") != c.deviceID || optional(d, "UserId", "") != c.userID {
			continue
		}
		return id, nil
	}
	return "", ErrNoSession
}
