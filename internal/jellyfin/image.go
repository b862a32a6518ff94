package jellyfin

import (
	"net/url"
	"strconv"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
)

// ImageKind is a server image slot.
type ImageKind string

const (
	ImagePrimary  ImageKind = "Primary"
	ImageBackdrop ImageKind = "Backdrop"
	ImageLogo     ImageKind = "Logo"
	ImageThumb    ImageKind = "Thumb"
)

const imageQuality = "90"

// ImageURL returns the URL of an image scaled to width. It returns nil when
// id is empty. A width of zero requests the original size.
func (c *Client) ImageURL(kind ImageKind, id string, width int) *url.URL {
	if id == "" || kind == "" {
		return nil
	}
	q := url.Values{}
	q.Set("quality", imageQuality)
	if width > 0 {
		q.Set("fillWidth", strconv.Itoa(width))
	}
	u, err := c.URL("/Items/"+url.PathEscape(id)+"/Images/"+string(kind), q)
	if err != nil {
		return nil
	}
	return u
}

// ImageURLFor is ImageURL with the cache tag from tags. It returns nil when
// the title has no image of that kind.
func (c *Client) ImageURLFor(kind ImageKind, id string, tags media.ImageTags, width int) *url.URL {
	tag, ok := tags[string(kind)]
	if !ok {
		return nil
	}
	u := c.ImageURL(kind, id, width)
	if u == nil {
		return nil
	}
	q := u.Query()
	q.Set("tag", tag)
	u.RawQuery = q.Encode()
	return u
}
