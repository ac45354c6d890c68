package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mootcourt"
	"github.com/aretw0/mootcourt/internal/testutils"
	adapter "github.com/aretw0/mootcourt/pkg/adapters/http"
	"github.com/aretw0/mootcourt/pkg/cases"
	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/observability"
	"github.com/aretw0/mootcourt/pkg/session"
)

const caseID = "royal-park-murder"

func newTestServer(t *testing.T, opts ...session.Option) (*httptest.Server, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(cases.MustDefault(), opts...)
	t.Cleanup(func() { mgr.CloseAll(context.Background()) })

	metrics := observability.NewMetrics()
	h, err := adapter.NewHandler(mgr, adapter.WithMetrics(metrics.Handler()))
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, mgr
}

func manualClock(t *testing.T) (session.Option, *testutils.ManualClock) {
	t.Helper()
	clock := testutils.NewManualClock()
	return session.WithSessionOptions(mootcourt.WithClock(clock)), clock
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createSession(t *testing.T, srv *httptest.Server) *domain.Snapshot {
	t.Helper()
	resp, body := do(t, http.MethodPost, srv.URL+"/sessions", `{"case_id":"`+caseID+`","role":"defense"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	return &snap
}

func TestServer_HealthAndInfo(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = do(t, http.MethodGet, srv.URL+"/info", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var info map[string]string
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, "mootcourt-http", info["app"])
	assert.Equal(t, "1.0.0", info["api_version"])

	resp, body = do(t, http.MethodGet, srv.URL+"/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Mootcourt API")
}

func TestServer_Cases(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/cases", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []cases.Case
	require.NoError(t, json.Unmarshal(body, &list))
	assert.NotEmpty(t, list)

	resp, body = do(t, http.MethodGet, srv.URL+"/cases/"+caseID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"playable":true`)

	resp, _ = do(t, http.MethodGet, srv.URL+"/cases/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, http.MethodGet, srv.URL+"/cases/"+caseID+"/report", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"max_total"`)

	resp, body = do(t, http.MethodGet, srv.URL+"/cases/"+caseID+"/report?format=markdown", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")
	assert.True(t, strings.HasPrefix(string(body), "#"))

	resp, _ = do(t, http.MethodGet, srv.URL+"/cases/white-flag/report", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_CreateSession(t *testing.T) {
	opt, _ := manualClock(t)
	srv, mgr := newTestServer(t, opt, session.WithLimit(1))

	snap := createSession(t, srv)
	assert.Equal(t, caseID, snap.ScriptID)
	assert.True(t, snap.AwaitingHuman)
	assert.Len(t, snap.Transcript, 1)
	assert.Equal(t, 1, mgr.Len())

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing case", `{"role":"defense"}`, http.StatusBadRequest},
		{"unknown field", `{"case_id":"` + caseID + `","speed":9}`, http.StatusBadRequest},
		{"limit reached", `{"case_id":"` + caseID + `"}`, http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, srv.URL+"/sessions", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
			assert.Contains(t, string(body), `"error"`)
		})
	}

	resp, body := do(t, http.MethodGet, srv.URL+"/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var infos []session.Info
	require.NoError(t, json.Unmarshal(body, &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, snap.SessionID, infos[0].ID)
	assert.Equal(t, "defense", infos[0].Role)
}

func TestServer_CreateErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := do(t, http.MethodPost, srv.URL+"/sessions", `{"case_id":"white-flag"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/sessions", `{"case_id":"`+caseID+`","role":"judge"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_SubmitFlow(t *testing.T) {
	opt, clock := manualClock(t)
	srv, _ := newTestServer(t, opt)
	snap := createSession(t, srv)
	base := srv.URL + "/sessions/" + snap.SessionID

	resp, _ := do(t, http.MethodPost, base+"/submit", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, base+"/submit", `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, base+"/submit", `{"text":"`+strings.Repeat("a", 5000)+`"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, http.MethodPost, base+"/submit", `{"text":"The injuries were not premeditated."}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out struct {
		Accepted bool            `json:"accepted"`
		Snapshot domain.Snapshot `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Accepted)
	assert.True(t, out.Snapshot.Thinking)
	assert.Equal(t, "The injuries were not premeditated.", out.Snapshot.Transcript[1].Content)

	resp, body = do(t, http.MethodPost, base+"/submit", `{"text":"Too early"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), `"accepted":false`)

	clock.Advance(2 * time.Second)
	resp, body = do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var current domain.Snapshot
	require.NoError(t, json.Unmarshal(body, &current))
	assert.Len(t, current.Transcript, 3)
	assert.Equal(t, 3, current.Cursor)
	assert.Equal(t, "Reply to Judge 2 as Defense Counsel.", current.Prompt)

	resp, body = do(t, http.MethodGet, base+"/graph", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(body), "graph TD"))
	assert.Contains(t, string(body), "class t3_4 current")

	resp, _ = do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, http.MethodPost, base+"/submit", `{"text":"late"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "mootcourt_sessions_active")
}

func TestServer_CORS(t *testing.T) {
	mgr := session.NewManager(cases.MustDefault())
	h, err := adapter.NewHandler(mgr, adapter.WithCORSOrigins([]string{"https://court.example"}))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	req.Header.Set("Origin", "https://court.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://court.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_SSE(t *testing.T) {
	srv, _ := newTestServer(t, session.WithSessionOptions(mootcourt.WithThinkingDelay(0)))
	snap := createSession(t, srv)
	base := srv.URL + "/sessions/" + snap.SessionID

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		for lines.Scan() {
			if line := lines.Text(); line != "" && !strings.HasPrefix(line, ":") {
				return line
			}
		}
		return ""
	}

	assert.Equal(t, "event: ping", next())
	assert.Equal(t, "data: connected", next())

	first := next()
	require.True(t, strings.HasPrefix(first, "data: "), first)
	var diff domain.SnapshotDiff
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(first, "data: ")), &diff))
	assert.Len(t, diff.Appended, 1)
	require.NotNil(t, diff.AwaitingHuman)
	assert.True(t, *diff.AwaitingHuman)

	r, _ := do(t, http.MethodPost, base+"/submit", `{"text":"Opening."}`)
	require.Equal(t, http.StatusOK, r.StatusCode)

	line := next()
	require.True(t, strings.HasPrefix(line, "data: "), line)
	assert.Contains(t, line, "Opening.")

	r, _ = do(t, http.MethodDelete, base, "")
	require.Equal(t, http.StatusNoContent, r.StatusCode)

	for line = next(); line != "" && line != "event: end"; line = next() {
	}
	assert.Equal(t, "event: end", line)
}

func TestServer_SSEUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := do(t, http.MethodGet, srv.URL+"/sessions/nope/events", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_WebSocket(t *testing.T) {
	srv, _ := newTestServer(t, session.WithSessionOptions(mootcourt.WithThinkingDelay(0)))
	snap := createSession(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + snap.SessionID + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var f adapter.Frame
	require.NoError(t, wsjson.Read(ctx, conn, &f))
	require.Equal(t, adapter.FrameDiff, f.Type)
	require.NotNil(t, f.Diff)
	assert.Len(t, f.Diff.Appended, 1)

	require.NoError(t, wsjson.Write(ctx, conn, adapter.Frame{Type: adapter.FrameSubmit, Text: "Opening."}))

	var acked, sawTurn bool
	for !acked || !sawTurn {
		var f adapter.Frame
		require.NoError(t, wsjson.Read(ctx, conn, &f))
		switch f.Type {
		case adapter.FrameAck:
			require.NotNil(t, f.Accepted)
			assert.True(t, *f.Accepted)
			acked = true
		case adapter.FrameDiff:
			for _, turn := range f.Diff.Appended {
				if turn.Content == "Opening." {
					sawTurn = true
				}
			}
		}
	}

	require.NoError(t, wsjson.Write(ctx, conn, adapter.Frame{Type: "bogus"}))
	require.NoError(t, wsjson.Read(ctx, conn, &f))
	assert.Equal(t, adapter.FrameError, f.Type)

	require.NoError(t, wsjson.Write(ctx, conn, adapter.Frame{Type: adapter.FrameClose}))
	for {
		var f adapter.Frame
		err := wsjson.Read(ctx, conn, &f)
		if err != nil {
			assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
			break
		}
		if f.Type == adapter.FrameEnd {
			continue
		}
		assert.Equal(t, adapter.FrameDiff, f.Type)
	}
}
