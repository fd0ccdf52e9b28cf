package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jeopardy/internal/app"
	"jeopardy/internal/config"
	"jeopardy/internal/content"
	"jeopardy/internal/domain"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

func newTestServer(t *testing.T, publicURL string) (http.Handler, *app.GameHub) {
	t.Helper()
	logger := zerolog.Nop()
	hub := app.NewGameHub(app.HubConfig{}, app.HubDeps{
		Provider:    content.NewCachedProvider(content.NewLibrary(logger), nil, logger),
		Broadcaster: app.NewRoomBroadcaster(logger),
		Clock:       clockwork.NewFakeClock(),
		Logger:      logger,
	})
	t.Cleanup(hub.Close)

	cfg := &config.Config{Server: config.ServerConfig{
		Host:      "127.0.0.1",
		Port:      "0",
		Env:       "development",
		PublicURL: publicURL,
	}}
	return NewServer(cfg, hub, logger).Handler(), hub
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestCreateGame_DefaultTopic(t *testing.T) {
	h, hub := newTestServer(t, "")

	rec, env := do(t, h, http.MethodPost, "/api/games", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var created CreateGameResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Len(t, created.Code, app.DefaultRoomCodeLength)
	assert.Equal(t, "http://example.com/join/"+created.Code, created.JoinURL)
	assert.Equal(t, 1, hub.SessionCount())
}

func TestCreateGame_PublicURL(t *testing.T) {
	h, _ := newTestServer(t, "https://play.example.org")

	_, env := do(t, h, http.MethodPost, "/api/games", `{"topic":"General"}`)
	require.True(t, env.Success)

	var created CreateGameResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "https://play.example.org/join/"+created.Code, created.JoinURL)
}

func TestCreateGame_UnknownTopic(t *testing.T) {
	h, hub := newTestServer(t, "")

	rec, env := do(t, h, http.MethodPost, "/api/games", `{"topic":"underwater basket weaving"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONTENT_FAILED", env.Error.Code)
	assert.Zero(t, hub.SessionCount())
}

func TestCreateGame_BadBody(t *testing.T) {
	h, _ := newTestServer(t, "")

	rec, env := do(t, h, http.MethodPost, "/api/games", `{"topic":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
}

func TestGetGame(t *testing.T) {
	h, hub := newTestServer(t, "")
	session, err := hub.CreateGame(context.Background(), domain.ContentSource{})
	require.NoError(t, err)

	rec, env := do(t, h, http.MethodGet, "/api/games/"+strings.ToLower(session.Code()), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info app.SessionInfo
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Equal(t, session.Code(), info.Code)
	assert.Equal(t, domain.StatusLobby, info.Status)
	assert.True(t, info.CanJoin)

	rec, env = do(t, h, http.MethodGet, "/api/games/ZZZZZZ", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "GAME_NOT_FOUND", env.Error.Code)
}

func TestGameExists(t *testing.T) {
	h, hub := newTestServer(t, "")
	session, err := hub.CreateGame(context.Background(), domain.ContentSource{})
	require.NoError(t, err)

	for code, want := range map[string]bool{session.Code(): true, "ZZZZZZ": false} {
		_, env := do(t, h, http.MethodGet, "/api/games/"+code+"/exists", "")
		var exists GameExistsResponse
		require.NoError(t, json.Unmarshal(env.Data, &exists))
		assert.Equal(t, want, exists.Exists, code)
	}
}

func TestGameQR(t *testing.T) {
	h, hub := newTestServer(t, "")
	session, err := hub.CreateGame(context.Background(), domain.ContentSource{})
	require.NoError(t, err)

	rec, _ := do(t, h, http.MethodGet, "/api/games/"+session.Code()+"/qr.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec, _ = do(t, h, http.MethodGet, "/api/games/ZZZZZZ/qr.png", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndStats(t *testing.T) {
	h, hub := newTestServer(t, "")
	_, err := hub.CreateGame(context.Background(), domain.ContentSource{})
	require.NoError(t, err)

	_, env := do(t, h, http.MethodGet, "/api/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	_, env = do(t, h, http.MethodGet, "/api/stats", "")
	var stats StatsResponse
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.ActiveGames)
	assert.Zero(t, stats.TotalPlayers)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/games", nil)
	req.Header.Set("Origin", "http://display.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
