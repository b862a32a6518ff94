package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/catalog"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/events"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
	"github.com/benjaminRoberts01375/Stingray-sub001/internal/playback"
)

type playOptions struct {
	libraryID string
	episodeID string
	sourceID  string
	audio     int
	subtitle  int
	limit     time.Duration
}

type playResult struct {
	MediaID string `json:"media_id"`
	Source  string `json:"source_id"`
	Token   string `json:"session_token"`
	Resume  string `json:"resume_position"`
}

func newPlayCommand(cc *commandContext) *cobra.Command {
	var opts playOptions
	cmd := &cobra.Command{
		Use:   "play <media-id>",
		Short: "Play a title headlessly and report progress",
		Long: `Play a title against the wall clock and report progress to the server.

Playback starts at the saved resume position. Ctrl-C stops playback, sends
the final position and records it as the new resume point. For a series,
pass --episode with an episode id from 'stingray seasons'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, cc, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.libraryID, "library", "l", "", "Library to search first")
	cmd.Flags().StringVarP(&opts.episodeID, "episode", "e", "", "Episode of a series to play")
	cmd.Flags().StringVar(&opts.sourceID, "source", "", "Media source id (default: first)")
	cmd.Flags().IntVar(&opts.audio, "audio", -1, "Audio stream index (default: server default)")
	cmd.Flags().IntVar(&opts.subtitle, "subtitle", -1, "Subtitle stream index (default: server default)")
	cmd.Flags().DurationVar(&opts.limit, "for", 0, "Stop after this long (default: until the end or Ctrl-C)")
	return cmd
}

func runPlay(cmd *cobra.Command, cc *commandContext, mediaID string, opts playOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncer, err := requireSynced(ctx, cc)
	if err != nil {
		return err
	}
	m, err := catalog.NewIndex(syncer).Lookup(mediaID, opts.libraryID)
	if err != nil {
		return fmt.Errorf("%s: %w", mediaID, err)
	}

	playID, sources := m.ID, m.Sources()
	if m.IsSeries() {
		if opts.episodeID == "" {
			return fmt.Errorf("%s is a series; pass --episode", m.Title)
		}
		if _, err := syncer.LoadSeasons(ctx, m); err != nil {
			return fmt.Errorf("seasons:\n  %s", describeError(err))
		}
		ep, ok := m.Episode(opts.episodeID)
		if !ok {
			return fmt.Errorf("episode %s not found in %s", opts.episodeID, m.Title)
		}
		playID, sources = ep.ID, ep.Sources
	}

	src, err := pickSource(sources, opts.sourceID)
	if err != nil {
		return err
	}
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	client, err := cc.authenticatedClient(ctx)
	if err != nil {
		return err
	}

	userSession, err := client.SessionID(ctx)
	if err != nil {
		return fmt.Errorf("resolving server session:\n  %s", describeError(err))
	}

	selection := playback.Selection{
		Video:    media.Default(src.VideoStreams),
		Audio:    pickStream(src.AudioStreams, opts.audio),
		Subtitle: pickStream(src.SubtitleStreams, opts.subtitle),
		Bitrate:  cfg.Playback.MaxBitrate,
	}
	player := playback.NewClockPlayer(src.StartPosition(), src.TotalDuration)

	out := cmd.OutOrStdout()
	var reports <-chan events.Event
	if !cc.json() {
		reports = cc.ensureBus().Subscribe(events.EventPlaybackReported, 64)
	}

	// The session outlives the interrupt so Stop can still report.
	session, err := playback.NewSession(context.WithoutCancel(ctx),
		playback.Config{Source: src, MediaID: playID, UserSessionID: userSession, Selection: selection},
		client, player,
		playback.WithInterval(cfg.Playback.ReportInterval.Duration),
		playback.WithLogger(cc.ensureLogger()),
		playback.WithMetrics(cc.metrics),
		playback.WithBus(cc.ensureBus()),
	)
	if err != nil {
		return err
	}
	if err := session.Start(); err != nil {
		session.Close()
		return err
	}
	if !cc.json() {
		fmt.Fprintf(out, "Playing %s from %s (Ctrl-C to stop)\n", m.Title, formatClock(player.Position()))
	}

	waitForEnd(ctx, player, src.TotalDuration, opts.limit, reports, out)
	session.Stop()
	session.Wait()
	if reports != nil {
		cc.ensureBus().Unsubscribe(reports)
		drainReports(reports, out)
	}

	result := playResult{
		MediaID: playID,
		Source:  src.ID,
		Token:   session.Token(),
		Resume:  formatClock(src.StartPosition()),
	}
	if cc.json() {
		return printJSON(out, result)
	}
	fmt.Fprintf(out, "Stopped at %s\n", result.Resume)
	return nil
}

// waitForEnd blocks until ctx is done, the player reaches duration, or limit
// elapses. Reports arriving meanwhile are printed.
func waitForEnd(ctx context.Context, player playback.Player, duration, limit time.Duration, reports <-chan events.Event, out io.Writer) {
	var deadline <-chan time.Time
	if limit > 0 {
		timer := time.NewTimer(limit)
		defer timer.Stop()
		deadline = timer.C
	}
	tick := time.NewTicker(250 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case e := <-reports:
			printReport(out, e)
		case <-tick.C:
			if duration > 0 && player.Position() >= duration {
				return
			}
		}
	}
}

func drainReports(ch <-chan events.Event, out io.Writer) {
	for e := range ch {
		printReport(out, e)
	}
}

func printReport(out io.Writer, e events.Event) {
	r, ok := e.(*events.PlaybackReported)
	if !ok {
		return
	}
	line := fmt.Sprintf("  %-10s %s", r.Status, formatClock(time.Duration(r.PositionSecs)*time.Second))
	if r.Error != "" {
		line += "  failed: " + r.Error
	}
	fmt.Fprintln(out, line)
}

func pickSource(sources []*media.Source, id string) (*media.Source, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no playable sources")
	}
	if id == "" {
		return sources[0], nil
	}
	for _, s := range sources {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("source %s not found", id)
}

// pickStream returns the stream with the given index, or the default stream
// when index is negative or unknown.
func pickStream(streams []media.Stream, index int) *media.Stream {
	if index >= 0 {
		if s := media.ByIndex(streams, index); s != nil {
			return s
		}
	}
	return media.Default(streams)
}
