package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/catalog"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
)

type seasonView struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Episodes []episodeView `json:"episodes"`
}

type episodeView struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	Resume string `json:"resume,omitempty"`
}

func newSeasonsCommand(cc *commandContext) *cobra.Command {
	var libraryID string
	cmd := &cobra.Command{
		Use:   "seasons <series-id>",
		Short: "List the seasons and episodes of a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			syncer, err := requireSynced(ctx, cc)
			if err != nil {
				return err
			}
			m, err := catalog.NewIndex(syncer).Lookup(args[0], libraryID)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			seasons, err := syncer.LoadSeasons(ctx, m)
			if errors.Is(err, catalog.ErrNotSeries) {
				return fmt.Errorf("%s is a %s, not a series", m.Title, media.KindName(m.Kind))
			}
			if err != nil {
				return fmt.Errorf("seasons:\n  %s", describeError(err))
			}

			views := make([]seasonView, 0, len(seasons))
			for _, s := range seasons {
				sv := seasonView{ID: s.ID, Title: s.Title}
				for _, e := range s.Episodes {
					ev := episodeView{ID: e.ID, Number: e.Number, Title: e.Title}
					for _, src := range e.Sources {
						if pos := src.StartPosition(); pos > 0 {
							ev.Resume = formatClock(pos)
							break
						}
					}
					sv.Episodes = append(sv.Episodes, ev)
				}
				views = append(views, sv)
			}

			if cc.json() {
				return printJSON(cmd.OutOrStdout(), views)
			}
			printSeasons(cmd.OutOrStdout(), m.Title, views)
			return nil
		},
	}
	cmd.Flags().StringVarP(&libraryID, "library", "l", "", "Library to search first")
	return cmd
}

func printSeasons(w io.Writer, series string, seasons []seasonView) {
	if len(seasons) == 0 {
		fmt.Fprintf(w, "%s has no episodes\n", series)
		return
	}
	fmt.Fprintf(w, "%s\n", series)
	for _, s := range seasons {
		fmt.Fprintf(w, "\n  %s (%d episodes)\n", s.Title, len(s.Episodes))
		for _, e := range s.Episodes {
			line := fmt.Sprintf("    %3d  %-40s %s", e.Number, truncate(e.Title, 40), e.ID)
			if e.Resume != "" {
				line += "  resume " + e.Resume
			}
			fmt.Fprintln(w, line)
		}
	}
}
