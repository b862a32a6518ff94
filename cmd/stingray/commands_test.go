package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCommand_JSON(t *testing.T) {
	jf := newFakeJellyfin(t)
	cfg := writeTestConfig(t, jf.URL, true)

	out, err := runCLI(t, "", "--config", cfg, "--json", "sync")
	require.NoError(t, err)

	var report syncReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "complete", report.State)
	require.Len(t, report.Libraries, 2, "boxsets are skipped")
	assert.Equal(t, libraryRow{ID: "lib-movies", Title: "Movies", Kind: "movies", State: "complete", Count: 2}, report.Libraries[0])
	assert.Equal(t, 1, report.Libraries[1].Count)
}

func TestSyncCommand_Table(t *testing.T) {
	jf := newFakeJellyfin(t)
	cfg := writeTestConfig(t, jf.URL, true)

	out, err := runCLI(t, "", "--config", cfg, "sync", "--watch")
	require.NoError(t, err)
	assert.Contains(t, out, "Libraries (2)")
	assert.Contains(t, out, "Movies")
	assert.Contains(t, out, "sync    complete")
}

func TestSyncCommand_NoCredentials(t *testing.T) {
	jf := newFakeJellyfin(t)
	cfg := writeTestConfig(t, jf.URL, false)

	_, err := runCLI(t, "", "--config", cfg, "sync")
	assert.ErrorIs(t, err, errNoCredentials)
}

func TestSearchCommand(t *testing.T) {
	jf := newFakeJellyfin(t)
	cfg := writeTestConfig(t, jf.URL, true)

	out, err := runCLI(t, "", "--config", cfg, "--json", "search", "matrix")
	require.NoError(t, err)

	var hits []searchHit
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.NotEmpty(t, hits)
	assert.Equal(t, "m1", hits[0].ID)
	assert.Equal(t, 1999, hits[0].Year)
	assert.Equal(t, "lib-movies", hits[0].LibraryID)
}

func TestLookupCommand(t *testing.T) {
	jf := newFakeJellyfin(t)
	cfg := writeTestConfig(t, jf.URL, true)

	out, err := runCLI(t, "", "--config", cfg, "--json", "lookup", "m1", "--library", "lib-shows")
	require.NoError(t, err)
	var view mediaView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "The Matrix", view.Title)
	assert.Equal(t, "Movie", view.Type)
	assert.Equal(t, "0:01:00", view.Resume)
	require.Len(t, view.Sources, 1)
	assert.Equal(t, "English", view.Sources[0].Audio)

	_, err = runCLI(t, "", "--config", cfg, "lookup", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in any library")
}

func TestSeasonsCommand(t *testing.T) {
	jf := newFakeJellyfin(t)
	cfg := writeTestConfig(t, jf.URL, true)

	out, err := runCLI(t, "", "--config", cfg, "--json", "seasons", "show1")
	require.NoError(t, err)
	var seasons []seasonView
	require.NoError(t, json.Unmarshal([]byte(out), &seasons))
	require.Len(t, seasons, 1)
	assert.Equal(t, "Season 1", seasons[0].Title)
	require.Len(t, seasons[0].Episodes, 2)
	assert.Equal(t, 2, seasons[0].Episodes[1].Number)

	_, err = runCLI(t, "", "--config", cfg, "seasons", "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a series")
}

func TestPlayCommand(t *testing.T) {
	jf := newFakeJellyfin(t)
	cfg := writeTestConfig(t, jf.URL, true)

	out, err := runCLI(t, "", "--config", cfg, "--json", "play", "m1", "--for", "350ms")
	require.NoError(t, err)

	var result playResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "m1", result.MediaID)
	assert.Equal(t, "src1", result.Source)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "0:01:00", result.Resume)

	reports := jf.reported()
	require.NotEmpty(t, reports)
	assert.Contains(t, reports, "/Sessions/Playing")
	assert.Contains(t, reports, "/Sessions/Playing/Progress")
	assert.Equal(t, "/Sessions/Playing/Stopped", reports[len(reports)-1])
	for _, id := range jf.reportedSessions() {
		assert.Equal(t, "sess-1", id)
	}
}

func TestPlayCommand_SeriesNeedsEpisode(t *testing.T) {
	jf := newFakeJellyfin(t)
	cfg := writeTestConfig(t, jf.URL, true)

	_, err := runCLI(t, "", "--config", cfg, "play", "show1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--episode")

	out, err := runCLI(t, "", "--config", cfg, "--json", "play", "show1", "--episode", "e2", "--for", "150ms")
	require.NoError(t, err)
	var result playResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "e2", result.MediaID)
	assert.Equal(t, "src-e2", result.Source)
}

func TestProfileCommands(t *testing.T) {
	jf := newFakeJellyfin(t)
	cfg := writeTestConfig(t, jf.URL, false)

	_, err := runCLI(t, "wrong\n", "--config", cfg, "profile", "login", "-u", "alice")
	require.Error(t, err)

	out, err := runCLI(t, "hunter2\n", "--config", cfg, "profile", "login", "-u", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, `saved profile "alice"`)

	_, err = runCLI(t, "hunter2\n", "--config", cfg, "profile", "login", "-u", "bob", "--name", "den")
	require.NoError(t, err)

	out, err = runCLI(t, "", "--config", cfg, "--json", "profile", "list")
	require.NoError(t, err)
	var views []profileView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "alice", views[0].Name)
	assert.True(t, views[0].Default, "the first login becomes the default")
	assert.False(t, views[1].Default)

	// The stored login now drives catalog commands.
	_, err = runCLI(t, "", "--config", cfg, "sync")
	require.NoError(t, err)

	_, err = runCLI(t, "", "--config", cfg, "profile", "use", "den")
	require.NoError(t, err)
	_, err = runCLI(t, "", "--config", cfg, "profile", "remove", "alice")
	require.NoError(t, err)

	out, err = runCLI(t, "", "--config", cfg, "--json", "profile", "list")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "den", views[0].Name)
	assert.True(t, views[0].Default)
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stingray.toml")

	out, err := runCLI(t, "", "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = runCLI(t, "", "config", "init", path)
	require.Error(t, err, "refuses to overwrite")
	_, err = runCLI(t, "", "config", "init", "--force", path)
	require.NoError(t, err)

	t.Setenv("JELLYFIN_TOKEN", "")
	t.Setenv("JELLYFIN_URL", "")
	out, err = runCLI(t, "", "config", "validate", path)
	require.Error(t, err)
	assert.Contains(t, out, "JELLYFIN_URL")

	t.Setenv("JELLYFIN_URL", "http://jellyfin.local:8096")
	out, err = runCLI(t, "", "config", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid!")

	_, err = os.Stat(path)
	require.NoError(t, err)
}
