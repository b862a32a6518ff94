package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/catalog"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/events"
)

type libraryRow struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"kind"`
	State string `json:"state"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type syncReport struct {
	State     string       `json:"state"`
	Error     string       `json:"error,omitempty"`
	Libraries []libraryRow `json:"libraries"`
}

func newSyncCommand(cc *commandContext) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync every library and print its status",
		Long: `Sync every library of the server.

Libraries page in concurrently; a library that fails is reported and the
rest continue. With --watch each status change is printed as it happens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			client, err := cc.authenticatedClient(ctx)
			if err != nil {
				return err
			}
			syncer, err := cc.newSyncer(client)
			if err != nil {
				return err
			}
			cc.startMetrics()

			stopWatch := func() {}
			if watch && !cc.json() {
				ch := cc.ensureBus().SubscribeFunc(events.OfType(events.EventLibraryStatusChanged, events.EventSyncStateChanged), 256)
				done := make(chan struct{})
				go func() {
					defer close(done)
					printEvents(out, ch)
				}()
				stopWatch = func() {
					cc.ensureBus().Unsubscribe(ch)
					<-done
					fmt.Fprintln(out)
				}
			}

			syncErr := syncer.Sync(ctx)
			stopWatch()
			report := buildSyncReport(syncer)
			if cc.json() {
				if err := printJSON(out, report); err != nil {
					return err
				}
				return syncErr
			}
			if syncErr != nil {
				return fmt.Errorf("sync failed:\n  %s", describeError(syncErr))
			}
			printSyncReport(out, report)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Print status changes while syncing")
	return cmd
}

func buildSyncReport(s *catalog.Syncer) syncReport {
	st := s.Status()
	report := syncReport{State: st.State.String()}
	if st.Err != nil {
		report.Error = st.Err.Error()
	}
	for _, lib := range s.Libraries() {
		ls := lib.Status()
		row := libraryRow{
			ID:    lib.ID,
			Title: lib.Title,
			Kind:  lib.CollectionKind,
			State: ls.State.String(),
			Count: len(ls.Media),
		}
		if ls.Err != nil {
			row.Error = describeError(ls.Err)
		}
		report.Libraries = append(report.Libraries, row)
	}
	return report
}

func printSyncReport(w io.Writer, r syncReport) {
	if len(r.Libraries) == 0 {
		fmt.Fprintln(w, "No libraries")
		return
	}
	fmt.Fprintf(w, "Libraries (%d), sync %s:\n\n", len(r.Libraries), strings.ToLower(r.State))
	fmt.Fprintf(w, "  %-28s %-10s %-10s %6s\n", "TITLE", "KIND", "STATE", "ITEMS")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 58))
	for _, row := range r.Libraries {
		fmt.Fprintf(w, "  %-28s %-10s %-10s %6d\n", truncate(row.Title, 28), row.Kind, row.State, row.Count)
		if row.Error != "" {
			fmt.Fprintf(w, "    %s\n", row.Error)
		}
	}
}

func printEvents(w io.Writer, ch <-chan events.Event) {
	for e := range ch {
		switch ev := e.(type) {
		case *events.LibraryStatusChanged:
			line := fmt.Sprintf("library %-24s %-10s %d items", truncate(ev.Title, 24), ev.State, ev.Count)
			if ev.Error != "" {
				line += "  (" + ev.Error + ")"
			}
			fmt.Fprintln(w, line)
		case *events.SyncStateChanged:
			fmt.Fprintf(w, "sync    %s\n", ev.State)
		}
	}
}

// requireSynced runs a sync and fails if the library list could not load.
func requireSynced(ctx context.Context, cc *commandContext) (*catalog.Syncer, error) {
	syncer, err := cc.syncCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync failed:\n  %s", describeError(err))
	}
	return syncer, nil
}
