package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizbowl-match-service/internal/app/matches"
	"quizbowl-match-service/internal/autosave"
	"quizbowl-match-service/internal/config"
	"quizbowl-match-service/internal/domain/match"
	"quizbowl-match-service/internal/domain/packet"
	"quizbowl-match-service/internal/domain/roster"
	"quizbowl-match-service/internal/snapshots"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port: "0",
		Snapshots: config.SnapshotsConfig{
			Backend:       "fs",
			Folder:        t.TempDir(),
			Interval:      time.Hour,
			RetentionDays: 30,
			AdminToken:    "secret",
		},
		Metrics: config.MetricsConfig{Enabled: false},
	}
}

func seededArchive(t *testing.T, folder string) *snapshots.FSArchive {
	t.Helper()
	g := match.NewGame()
	g.AddPlayers(
		roster.Player{Name: "Alice", Team: "Alpha", Starter: true},
		roster.Player{Name: "Carol", Team: "Beta", Starter: true},
	)
	g.LoadPacket(&packet.Packet{Tossups: []packet.Tossup{{Question: "one two three", Answer: "x"}}})

	archive := snapshots.NewFSArchive(folder, 30)
	now := time.Now().UTC()
	require.NoError(t, archive.SaveMatch(context.Background(), matches.MatchRecord{
		ID:        "restored",
		Game:      g,
		CreatedAt: now,
		UpdatedAt: now,
	}))
	return archive
}

func TestServerRestoresMatchesFromArchive(t *testing.T) {
	cfg := testConfig(t)
	seededArchive(t, cfg.Snapshots.Folder)

	srv := New(cfg, nil)

	req := httptest.NewRequest(http.MethodGet, "/matches/restored", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"restored"`)
	assert.Contains(t, rec.Body.String(), "Alpha")
}

func TestServerServesHealthAndReady(t *testing.T) {
	srv := New(testConfig(t), nil)

	for path, want := range map[string]int{
		"/health": http.StatusOK,
		// No autosave sweep has run yet.
		"/ready": http.StatusServiceUnavailable,
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestServerAdminRefreshMounted(t *testing.T) {
	srv := New(testConfig(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/snapshots/refresh", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerAdminRefreshAbsentWithoutToken(t *testing.T) {
	cfg := testConfig(t)
	cfg.Snapshots.AdminToken = ""
	srv := New(cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/snapshots/refresh", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildArchiveFallsBackToFS(t *testing.T) {
	original := mongoConnect
	mongoConnect = func(context.Context, string, string) (Archive, error) {
		return nil, errors.New("connection refused")
	}
	t.Cleanup(func() { mongoConnect = original })

	cfg := testConfig(t)
	cfg.Snapshots.Backend = "mongo"
	cfg.Mongo.URI = "mongodb://unreachable:27017"

	archive := buildArchive(cfg, nil)
	assert.Equal(t, "fs", archive.Name())
}

func TestServerRunShutsDownOnCancel(t *testing.T) {
	srv := New(testConfig(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

type stubHTTPServer struct {
	listenErr error
	shutdowns int
}

func (s *stubHTTPServer) ListenAndServe() error          { return s.listenErr }
func (s *stubHTTPServer) Shutdown(context.Context) error { s.shutdowns++; return nil }
func (s *stubHTTPServer) Addr() string                   { return ":0" }
func (s *stubHTTPServer) Handler() http.Handler          { return nil }

type stubSaver struct {
	started  bool
	stopped  bool
	saveAlls int
}

func (s *stubSaver) Start(context.Context)         { s.started = true }
func (s *stubSaver) Stop(context.Context) error    { s.stopped = true; return nil }
func (s *stubSaver) SaveAll(context.Context) error { s.saveAlls++; return nil }
func (s *stubSaver) Status() autosave.Status       { return autosave.Status{} }

func TestServerListenFailureTriggersShutdown(t *testing.T) {
	httpSrv := &stubHTTPServer{listenErr: errors.New("address in use")}
	saver := &stubSaver{}
	srv := newServerWithDeps(testConfig(t), nil, nil, httpSrv, saver)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after listen failure")
	}

	assert.True(t, saver.started)
	assert.True(t, saver.stopped)
	// The final shutdown sweep.
	assert.Equal(t, 1, saver.saveAlls)
	assert.Equal(t, 1, httpSrv.shutdowns)
}

func TestServerRateLimitApplied(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit = config.RateLimitConfig{RPS: 1, Burst: 1}
	srv := New(cfg, nil)

	var saw429 bool
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/matches?i=%d", i), nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			saw429 = true
		}
	}
	assert.True(t, saw429)
}
