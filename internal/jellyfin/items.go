package jellyfin

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/seasons"
)

// itemsEnvelope is the paged list wrapper most item endpoints return.
type itemsEnvelope struct {
	Items            []json.RawMessage `json:"Items"`
	TotalRecordCount int               `json:"TotalRecordCount"`
}

type personDTO struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
	Role string `json:"Role"`
	Type string `json:"Type"`
}

// decodeAll decodes every element with fn. The first essential failure fails
// the whole list so a short result is never mistaken for the end of a page.
func decodeAll[T any](raws []json.RawMessage, fn func(json.RawMessage) (T, error)) ([]T, error) {
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		v, err := fn(raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeMedia decodes a title. The Type field selects the shape; a missing
// type or one this client does not model becomes media.Unknown.
func decodeMedia(raw json.RawMessage) (*media.Media, error) {
	var errs []error
	d, err := newDecodeContext("media", raw, &errs)
	if err != nil {
		return nil, err
	}
	id, err := required[string](d, "Id")
	if err != nil {
		return nil, err
	}
	title, err := required[string](d, "Name")
	if err != nil {
		return nil, err
	}
	typ := optional(d, "Type", "")
	if !d.present("Type") {
		d.record(&FieldError{Object: d.object, Key: "Type", Problem: MissingKey})
	}

	m := &media.Media{
		ID:             id,
		Title:          title,
		SortName:       optional(d, "SortName", ""),
		Description:    optional(d, "Overview", ""),
		Genres:         optional[[]string](d, "Genres", nil),
		MaturityRating: optional(d, "OfficialRating", ""),
		ReleaseDate:    optionalPtr[time.Time](d, "PremiereDate"),
		Duration:       optional[media.Ticks](d, "RunTimeTicks", 0).Duration(),
		ImageTags:      optional[media.ImageTags](d, "ImageTags", nil),
		UserData:       decodeUserData(d),
	}
	if taglines := optional[[]string](d, "Taglines", nil); len(taglines) > 0 {
		m.Tagline = taglines[0]
	}
	for _, p := range optional[[]personDTO](d, "People", nil) {
		m.People = append(m.People, media.Person{ID: p.ID, Name: p.Name, Role: p.Role, Type: p.Type})
	}

	switch typ {
	case "Movie":
		sources := decodeSources(d)
		for _, src := range sources {
			src.SetStartPosition(m.UserData.PlaybackTicks.Duration())
		}
		m.Kind = media.Movie{Sources: sources}
	case "Series":
		m.Kind = media.Series{}
	default:
		m.Kind = media.Unknown{Type: typ}
	}

	m.DecodeErrors = errs
	return m, nil
}

func decodeUserData(d *decodeContext) media.UserData {
	if !d.present("UserData") {
		return media.UserData{}
	}
	ud, err := d.nested("UserData", "user data")
	if err != nil {
		d.record(err)
		return media.UserData{}
	}
	return media.UserData{
		Played:         optional(ud, "Played", false),
		PlaybackTicks:  optional[media.Ticks](ud, "PlaybackPositionTicks", 0),
		LastPlayedDate: optionalPtr[time.Time](ud, "LastPlayedDate"),
	}
}

// decodeSources reads MediaSources. A source missing its id is dropped and
// recorded; the title stays usable.
func decodeSources(d *decodeContext) []*media.Source {
	var out []*media.Source
	for _, raw := range rawList(d, "MediaSources") {
		src, err := decodeSource(raw, d.errs)
		if err != nil {
			d.record(err)
			continue
		}
		out = append(out, src)
	}
	return out
}

func decodeSource(raw json.RawMessage, errs *[]error) (*media.Source, error) {
	d, err := newDecodeContext("media source", raw, errs)
	if err != nil {
		return nil, err
	}
	id, err := required[string](d, "Id")
	if err != nil {
		return nil, err
	}

	src := &media.Source{
		ID:            id,
		Name:          optional(d, "Name", ""),
		Container:     optional(d, "Container", ""),
		TotalDuration: optional[media.Ticks](d, "RunTimeTicks", 0).Duration(),
	}
	for _, rawStream := range rawList(d, "MediaStreams") {
		stream, err := decodeStream(rawStream, errs)
		if err != nil {
			d.record(err)
			continue
		}
		switch stream.Kind {
		case media.StreamVideo:
			src.VideoStreams = append(src.VideoStreams, stream)
		case media.StreamAudio:
			src.AudioStreams = append(src.AudioStreams, stream)
		case media.StreamSubtitle:
			src.SubtitleStreams = append(src.SubtitleStreams, stream)
		}
	}

	media.NormalizeDefaults(src.VideoStreams, nil, true)
	media.NormalizeDefaults(src.AudioStreams, optionalPtr[int](d, "DefaultAudioStreamIndex"), true)
	media.NormalizeDefaults(src.SubtitleStreams, optionalPtr[int](d, "DefaultSubtitleStreamIndex"), false)
	return src, nil
}

func decodeStream(raw json.RawMessage, errs *[]error) (media.Stream, error) {
	d, err := newDecodeContext("media stream", raw, errs)
	if err != nil {
		return media.Stream{}, err
	}
	index, err := required[int](d, "Index")
	if err != nil {
		return media.Stream{}, err
	}
	typ, err := required[string](d, "Type")
	if err != nil {
		return media.Stream{}, err
	}

	title := optional(d, "DisplayTitle", "")
	if title == "" {
		title = optional(d, "Title", "")
	}
	return media.Stream{
		Index:     index,
		Title:     title,
		Kind:      media.StreamKind(strings.ToLower(typ)),
		Bitrate:   optional(d, "BitRate", 0),
		Codec:     optional(d, "Codec", ""),
		Language:  optional(d, "Language", ""),
		IsDefault: optional(d, "IsDefault", false),
	}, nil
}

func decodeLibrary(raw json.RawMessage) (media.LibraryInfo, error) {
	var errs []error
	d, err := newDecodeContext("library", raw, &errs)
	if err != nil {
		return media.LibraryInfo{}, err
	}
	id, err := required[string](d, "Id")
	if err != nil {
		return media.LibraryInfo{}, err
	}
	title, err := required[string](d, "Name")
	if err != nil {
		return media.LibraryInfo{}, err
	}
	info := media.LibraryInfo{
		ID:             id,
		Title:          title,
		CollectionKind: optional(d, "CollectionType", ""),
		ImageTags:      optional[media.ImageTags](d, "ImageTags", nil),
	}
	info.DecodeErrors = errs
	return info, nil
}

func decodeEpisode(raw json.RawMessage) (seasons.EpisodeRecord, error) {
	var errs []error
	d, err := newDecodeContext("episode", raw, &errs)
	if err != nil {
		return seasons.EpisodeRecord{}, err
	}
	id, err := required[string](d, "Id")
	if err != nil {
		return seasons.EpisodeRecord{}, err
	}
	title, err := required[string](d, "Name")
	if err != nil {
		return seasons.EpisodeRecord{}, err
	}

	rec := seasons.EpisodeRecord{
		ID:         id,
		Title:      title,
		Number:     optionalPtr[int](d, "IndexNumber"),
		SeasonID:   optionalPtr[string](d, "SeasonId"),
		SeriesID:   optional(d, "SeriesId", ""),
		SeasonName: optionalPtr[string](d, "SeasonName"),
		Sources:    decodeSources(d),
		Overview:   optional(d, "Overview", ""),
	}
	if d.present("UserData") {
		ud, err := d.nested("UserData", "user data")
		if err != nil {
			d.record(err)
		} else {
			rec.LastPlayed = optionalPtr[time.Time](ud, "LastPlayedDate")
			rec.PlaybackTicks = optionalPtr[media.Ticks](ud, "PlaybackPositionTicks")
		}
	}
	rec.DecodeErrors = errs
	return rec, nil
}

func decodeSpecialFeature(raw json.RawMessage) (media.SpecialFeature, error) {
	var errs []error
	d, err := newDecodeContext("special feature", raw, &errs)
	if err != nil {
		return media.SpecialFeature{}, err
	}
	id, err := required[string](d, "Id")
	if err != nil {
		return media.SpecialFeature{}, err
	}
	title, err := required[string](d, "Name")
	if err != nil {
		return media.SpecialFeature{}, err
	}
	f := media.SpecialFeature{
		ID:       id,
		Title:    title,
		Kind:     optional(d, "ExtraType", "Unknown"),
		Duration: optional[media.Ticks](d, "RunTimeTicks", 0),
		Sources:  decodeSources(d),
	}
	f.DecodeErrors = errs
	return f, nil
}

func decodeSlim(raw json.RawMessage) (media.SlimMedia, error) {
	var errs []error
	d, err := newDecodeContext("media", raw, &errs)
	if err != nil {
		return media.SlimMedia{}, err
	}
	id, err := required[string](d, "Id")
	if err != nil {
		return media.SlimMedia{}, err
	}
	title, err := required[string](d, "Name")
	if err != nil {
		return media.SlimMedia{}, err
	}
	slim := media.SlimMedia{
		ID:        id,
		Title:     title,
		Type:      optional(d, "Type", ""),
		ParentID:  optional(d, "SeriesId", ""),
		ImageTags: optional[media.ImageTags](d, "ImageTags", nil),
	}
	slim.DecodeErrors = errs
	return slim, nil
}
