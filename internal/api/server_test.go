package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/transport/websocket"
)

type testEnv struct {
	srv      *Server
	sessions *session.Manager
	hub      *websocket.Hub
	store    *storage.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	hub := websocket.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	store, err := storage.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	sessions := session.NewManager(session.WithObserver(hub.SessionObserver))
	return &testEnv{
		srv:      NewServer(sessions, hub, store, nil),
		sessions: sessions,
		hub:      hub,
		store:    store,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.srv.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func createSession(t *testing.T, e *testEnv, body string) session.State {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/sessions", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[session.State](t, rr)
}

func TestCreateSession(t *testing.T) {
	e := newTestEnv(t)

	t.Run("empty body", func(t *testing.T) {
		st := createSession(t, e, "")
		assert.NotEmpty(t, st.ID)
		assert.Equal(t, 4, st.Rows)
	})

	t.Run("custom board", func(t *testing.T) {
		st := createSession(t, e, `{"rows":3,"cols":6,"seed":5}`)
		assert.Equal(t, 3, st.Rows)
		assert.Equal(t, 6, st.Cols)
		assert.Equal(t, int64(5), st.Seed)
	})

	t.Run("invalid options", func(t *testing.T) {
		rr := e.do(t, http.MethodPost, "/api/sessions", `{"rows":1}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decode[map[string]string](t, rr), "error")
	})

	t.Run("oversized board", func(t *testing.T) {
		for _, body := range []string{
			`{"rows":9,"cols":4}`,
			`{"rows":100000,"cols":100000}`,
			`{"rows":4611686018427387904,"cols":2}`,
		} {
			rr := e.do(t, http.MethodPost, "/api/sessions", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		rr := e.do(t, http.MethodPost, "/api/sessions", `{`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListGetDeleteSession(t *testing.T) {
	e := newTestEnv(t)
	a := createSession(t, e, `{"seed":1}`)
	createSession(t, e, `{"seed":2}`)

	rr := e.do(t, http.MethodGet, "/api/sessions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]session.State](t, rr), 2)

	rr = e.do(t, http.MethodGet, "/api/sessions/"+a.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, a.Board, decode[session.State](t, rr).Board)

	rr = e.do(t, http.MethodDelete, "/api/sessions/"+a.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/sessions/"+a.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = e.do(t, http.MethodDelete, "/api/sessions/"+a.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMoveAndReset(t *testing.T) {
	e := newTestEnv(t)
	st := createSession(t, e, `{"seed":3}`)

	rr := e.do(t, http.MethodPost, "/api/sessions/"+st.ID+"/move", `{"direction":"sideways"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	moved := false
	for _, dir := range []string{"left", "right", "up", "down"} {
		rr = e.do(t, http.MethodPost, "/api/sessions/"+st.ID+"/move", `{"direction":"`+dir+`"}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		res := decode[session.MoveResult](t, rr)
		if res.Moved {
			moved = true
			assert.Equal(t, 1, res.State.Moves)
			assert.NotEmpty(t, res.Events)
			break
		}
	}
	require.True(t, moved)

	rr = e.do(t, http.MethodPost, "/api/sessions/"+st.ID+"/reset", "")
	require.Equal(t, http.StatusOK, rr.Code)
	reset := decode[session.State](t, rr)
	assert.Equal(t, st.Seed+1, reset.Seed)
	assert.Equal(t, 0, reset.Moves)

	rr = e.do(t, http.MethodPost, "/api/sessions/missing/move", `{"direction":"up"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = e.do(t, http.MethodPost, "/api/sessions/missing/reset", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMoveAfterGameOver(t *testing.T) {
	e := newTestEnv(t)
	st := createSession(t, e, `{"rows":2,"cols":2,"max_value":4,"seed":8}`)

	dirs := []string{"left", "up", "right", "down"}
	over := false
	for i := 0; i < 400 && !over; i++ {
		rr := e.do(t, http.MethodPost, "/api/sessions/"+st.ID+"/move", `{"direction":"`+dirs[i%4]+`"}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		over = decode[session.MoveResult](t, rr).State.GameOver
	}
	require.True(t, over)

	rr := e.do(t, http.MethodPost, "/api/sessions/"+st.ID+"/move", `{"direction":"left"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestStoredGames(t *testing.T) {
	e := newTestEnv(t)
	id, err := e.store.SaveGame(storage.GameRecord{GameID: "2048", Seed: 4, Rows: 4, Cols: 4, Moves: "LRUD", Score: 12, MaxTile: 8})
	require.NoError(t, err)

	rr := e.do(t, http.MethodGet, "/api/games", "")
	require.Equal(t, http.StatusOK, rr.Code)
	games := decode[[]storage.GameRecord](t, rr)
	require.Len(t, games, 1)
	assert.Equal(t, "LRUD", games[0].Moves)

	rr = e.do(t, http.MethodGet, "/api/games/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 12, decode[storage.GameRecord](t, rr).Score)

	rr = e.do(t, http.MethodGet, "/api/games/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/games?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestScoresAndStats(t *testing.T) {
	e := newTestEnv(t)
	for _, r := range []struct {
		mode  string
		score int
	}{{"2048", 40}, {"2048", 90}, {"2048_endless", 500}} {
		_, err := e.store.SaveResult(r.mode, r.score, 8, 10)
		require.NoError(t, err)
	}

	rr := e.do(t, http.MethodGet, "/api/scores/campaign", "")
	require.Equal(t, http.StatusOK, rr.Code)
	scores := decode[[]storage.ScoreEntry](t, rr)
	require.Len(t, scores, 2)
	assert.Equal(t, 90, scores[0].Score)

	rr = e.do(t, http.MethodGet, "/api/scores/2048_endless?limit=1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]storage.ScoreEntry](t, rr), 1)

	rr = e.do(t, http.MethodGet, "/api/scores/tetris", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/scores/endless?limit=-2", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = e.do(t, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[map[string]storage.GameStats](t, rr)
	assert.Equal(t, 2, stats["2048"].GamesCount)
	assert.Equal(t, 500, stats["2048_endless"].HighScore)
}

func TestEmptyScoresIsArray(t *testing.T) {
	e := newTestEnv(t)
	rr := e.do(t, http.MethodGet, "/api/scores/endless", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestStorageDisabled(t *testing.T) {
	srv := NewServer(session.NewManager(), nil, nil, nil)
	for _, path := range []string{"/api/games", "/api/games/x", "/api/scores/2048", "/api/stats", "/ws?session=x"} {
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code, path)
	}
}

func TestWebSocketSpectator(t *testing.T) {
	e := newTestEnv(t)
	st := createSession(t, e, `{"seed":21}`)

	ts := httptest.NewServer(e.srv)
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	_, resp, err := gws.DefaultDialer.Dial(wsURL+"?session=missing", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	conn, _, err := gws.DefaultDialer.Dial(wsURL+"?session="+st.ID, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return e.hub.ClientCount(st.ID) == 1 }, 2*time.Second, 10*time.Millisecond)

	rr := e.do(t, http.MethodPost, "/api/sessions/"+st.ID+"/reset", "")
	require.Equal(t, http.StatusOK, rr.Code)

	// Spawn events from creation may still be in flight; wait for the reset.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		for _, line := range strings.Split(string(data), "\n") {
			var msg websocket.Message
			require.NoError(t, json.Unmarshal([]byte(line), &msg))
			assert.Equal(t, st.ID, msg.SessionID)
			if msg.Event == "reset" {
				return
			}
		}
	}
}
