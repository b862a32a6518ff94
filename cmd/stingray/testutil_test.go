package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeJellyfin serves a two-library catalog: movies with two titles and a
// collections library that sync skips.
type fakeJellyfin struct {
	*httptest.Server
	mu         sync.Mutex
	reports    []string
	sessionIDs []string
}

func newFakeJellyfin(t *testing.T) *fakeJellyfin {
	t.Helper()
	f := &fakeJellyfin{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /Users/u1/Views", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, `{"Items":[
			{"Id":"lib-movies","Name":"Movies","CollectionType":"movies"},
			{"Id":"lib-shows","Name":"Shows","CollectionType":"tvshows"},
			{"Id":"lib-box","Name":"Collections","CollectionType":"boxsets"}
		]}`)
	})
	mux.HandleFunc("GET /Users/u1/Items", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("StartIndex") != "0" {
			writeBody(w, `{"Items":[]}`)
			return
		}
		switch r.URL.Query().Get("ParentId") {
		case "lib-movies":
			writeBody(w, `{"Items":[
				{"Id":"m1","Name":"The Matrix","Type":"Movie","PremiereDate":"1999-03-31T00:00:00Z",
				 "RunTimeTicks":81600000000,"UserData":{"PlaybackPositionTicks":600000000},
				 "MediaSources":[{"Id":"src1","Name":"1080p","RunTimeTicks":81600000000,"MediaStreams":[
					{"Index":0,"Type":"Video","DisplayTitle":"1080p"},
					{"Index":1,"Type":"Audio","DisplayTitle":"English"}]}]},
				{"Id":"m2","Name":"Alien","Type":"Movie"}
			]}`)
		case "lib-shows":
			writeBody(w, `{"Items":[{"Id":"show1","Name":"Severance","Type":"Series"}]}`)
		default:
			http.Error(w, "unexpected library", http.StatusBadRequest)
		}
	})
	mux.HandleFunc("GET /Shows/show1/Episodes", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, `{"Items":[
			{"Id":"e1","Name":"Good News About Hell","IndexNumber":1,"SeasonId":"s1","SeasonName":"Season 1","MediaSources":[{"Id":"src-e1"}]},
			{"Id":"e2","Name":"Half Loop","IndexNumber":2,"SeasonId":"s1","SeasonName":"Season 1","MediaSources":[{"Id":"src-e2"}]}
		]}`)
	})
	mux.HandleFunc("GET /Sessions", func(w http.ResponseWriter, r *http.Request) {
		device := r.URL.Query().Get("DeviceId")
		writeBody(w, `[
			{"Id":"other-sess","UserId":"u2","DeviceId":"`+device+`"},
			{"Id":"sess-1","UserId":"u1","DeviceId":"`+device+`"}
		]`)
	})
	mux.HandleFunc("POST /Sessions/Playing/", f.handleReport)
	mux.HandleFunc("POST /Sessions/Playing", f.handleReport)
	mux.HandleFunc("POST /Users/AuthenticateByName", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Username, Pw string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Pw != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeBody(w, `{"User":{"Id":"u1","Name":"`+body.Username+`"},"AccessToken":"tok","ServerId":"srv"}`)
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeJellyfin) handleReport(w http.ResponseWriter, r *http.Request) {
	var body struct{ SessionId string }
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.reports = append(f.reports, r.URL.Path)
	f.sessionIDs = append(f.sessionIDs, body.SessionId)
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeJellyfin) reportedSessions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sessionIDs...)
}

func (f *fakeJellyfin) reported() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reports...)
}

func writeBody(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

// writeTestConfig writes a config pointing at serverURL. With withAuth the
// config carries credentials; otherwise commands fall back to profiles.
func writeTestConfig(t *testing.T, serverURL string, withAuth bool) string {
	t.Helper()
	dir := t.TempDir()
	auth := ""
	if withAuth {
		auth = "[auth]\nuser_id = \"u1\"\ntoken = \"tok\"\n"
	}
	content := `[server]
url = "` + serverURL + `"
device_id = "dev-1"

` + auth + `
[playback]
report_interval = "100ms"

[database]
path = "` + filepath.Join(dir, "profiles.db") + `"

[log]
level = "error"
`
	path := filepath.Join(dir, "stingray.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// runCLI executes the command tree with args and returns what it printed.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
