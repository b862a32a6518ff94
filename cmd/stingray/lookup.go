package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/catalog"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
)

type mediaView struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Type         string              `json:"type"`
	Year         int                 `json:"year,omitempty"`
	Runtime      string              `json:"runtime,omitempty"`
	Rating       string              `json:"rating,omitempty"`
	Genres       []string            `json:"genres,omitempty"`
	Tagline      string              `json:"tagline,omitempty"`
	Description  string              `json:"description,omitempty"`
	Resume       string              `json:"resume,omitempty"`
	Sources      []sourceView        `json:"sources,omitempty"`
	Features     map[string][]string `json:"special_features,omitempty"`
	DecodeIssues []string            `json:"decode_issues,omitempty"`
}

type sourceView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Video    string `json:"video,omitempty"`
	Audio    string `json:"audio,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
}

func newMediaView(m *media.Media) mediaView {
	v := mediaView{
		ID:          m.ID,
		Title:       m.Title,
		Type:        media.KindName(m.Kind),
		Rating:      m.MaturityRating,
		Genres:      m.Genres,
		Tagline:     m.Tagline,
		Description: m.Description,
	}
	if m.ReleaseDate != nil {
		v.Year = m.ReleaseDate.Year()
	}
	if m.Duration > 0 {
		v.Runtime = formatRuntime(m.Duration)
	}
	for _, src := range m.Sources() {
		sv := sourceView{ID: src.ID, Name: src.Name}
		if s := media.Default(src.VideoStreams); s != nil {
			sv.Video = s.Title
		}
		if s := media.Default(src.AudioStreams); s != nil {
			sv.Audio = s.Title
		}
		if s := media.Default(src.SubtitleStreams); s != nil {
			sv.Subtitle = s.Title
		}
		if pos := src.StartPosition(); pos > 0 && v.Resume == "" {
			v.Resume = formatClock(pos)
		}
		v.Sources = append(v.Sources, sv)
	}
	for _, err := range m.DecodeErrors {
		v.DecodeIssues = append(v.DecodeIssues, err.Error())
	}
	return v
}

func newLookupCommand(cc *commandContext) *cobra.Command {
	var (
		libraryID string
		features  bool
	)
	cmd := &cobra.Command{
		Use:   "lookup <media-id>",
		Short: "Show one title from the synced catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			syncer, err := requireSynced(ctx, cc)
			if err != nil {
				return err
			}

			m, err := catalog.NewIndex(syncer).Lookup(args[0], libraryID)
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				return fmt.Errorf("%s: not in any library", args[0])
			case errors.Is(err, catalog.ErrTemporarilyNotFound):
				return fmt.Errorf("%s: not found yet, some libraries did not finish loading", args[0])
			case err != nil:
				return err
			}

			view := newMediaView(m)
			if features {
				sf, err := syncer.LoadSpecialFeatures(ctx, m)
				if err != nil {
					return fmt.Errorf("special features:\n  %s", describeError(err))
				}
				view.Features = make(map[string][]string)
				for _, group := range sf.Groups {
					for _, f := range group {
						view.Features[f.Kind] = append(view.Features[f.Kind], f.Title)
					}
				}
			}

			if cc.json() {
				return printJSON(cmd.OutOrStdout(), view)
			}
			printMediaView(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().StringVarP(&libraryID, "library", "l", "", "Library to search first")
	cmd.Flags().BoolVar(&features, "features", false, "Load special features")
	return cmd
}

func printMediaView(w io.Writer, v mediaView) {
	header := v.Title
	if v.Year > 0 {
		header = fmt.Sprintf("%s (%d)", v.Title, v.Year)
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("=", len([]rune(header))))
	if v.Tagline != "" {
		fmt.Fprintf(w, "%s\n\n", v.Tagline)
	}
	fmt.Fprintf(w, "  ID:       %s\n", v.ID)
	fmt.Fprintf(w, "  Type:     %s\n", v.Type)
	if v.Runtime != "" {
		fmt.Fprintf(w, "  Runtime:  %s\n", v.Runtime)
	}
	if v.Rating != "" {
		fmt.Fprintf(w, "  Rating:   %s\n", v.Rating)
	}
	if len(v.Genres) > 0 {
		fmt.Fprintf(w, "  Genres:   %s\n", strings.Join(v.Genres, ", "))
	}
	if v.Resume != "" {
		fmt.Fprintf(w, "  Resume:   %s\n", v.Resume)
	}
	for _, s := range v.Sources {
		fmt.Fprintf(w, "  Source:   %s (%s)\n", s.Name, s.ID)
		if s.Video != "" {
			fmt.Fprintf(w, "            video %s\n", s.Video)
		}
		if s.Audio != "" {
			fmt.Fprintf(w, "            audio %s\n", s.Audio)
		}
		if s.Subtitle != "" {
			fmt.Fprintf(w, "            subtitle %s\n", s.Subtitle)
		}
	}
	for kind, titles := range v.Features {
		fmt.Fprintf(w, "  %s: %s\n", kind, strings.Join(titles, ", "))
	}
	if v.Description != "" {
		fmt.Fprintf(w, "\n%s\n", v.Description)
	}
	if len(v.DecodeIssues) > 0 {
		fmt.Fprintf(w, "\n%d field(s) could not be read:\n", len(v.DecodeIssues))
		for _, issue := range v.DecodeIssues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
}
