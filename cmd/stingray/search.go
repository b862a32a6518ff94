package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/catalog"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
)

type searchHit struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	Year      int     `json:"year,omitempty"`
	LibraryID string  `json:"library_id"`
	Score     float64 `json:"score"`
}

func newSearchCommand(cc *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Fuzzy-search titles across every library",
		Long: `Fuzzy-search titles across every synced library.

Examples:
  stingray search "the matrix"
  stingray search --limit 5 alien`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			syncer, err := requireSynced(cmd.Context(), cc)
			if err != nil {
				return err
			}

			results := catalog.NewIndex(syncer).Search(query, limit)
			hits := make([]searchHit, 0, len(results))
			for _, r := range results {
				h := searchHit{
					ID:        r.Media.ID,
					Title:     r.Media.Title,
					Type:      media.KindName(r.Media.Kind),
					LibraryID: r.LibraryID,
					Score:     r.Score,
				}
				if r.Media.ReleaseDate != nil {
					h.Year = r.Media.ReleaseDate.Year()
				}
				hits = append(hits, h)
			}

			out := cmd.OutOrStdout()
			if cc.json() {
				return printJSON(out, hits)
			}
			if len(hits) == 0 {
				fmt.Fprintln(out, "No matches")
				return nil
			}
			fmt.Fprintf(out, "Matches for %q:\n\n", query)
			fmt.Fprintf(out, "  %-3s %-36s %-6s %-8s %5s  %s\n", "#", "TITLE", "YEAR", "TYPE", "SCORE", "ID")
			fmt.Fprintln(out, "  "+strings.Repeat("-", 80))
			for i, h := range hits {
				year := "-"
				if h.Year > 0 {
					year = fmt.Sprint(h.Year)
				}
				fmt.Fprintf(out, "  %-3d %-36s %-6s %-8s %5.2f  %s\n", i+1, truncate(h.Title, 36), year, h.Type, h.Score, h.ID)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of matches")
	return cmd
}
