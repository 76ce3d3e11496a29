package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdpreview/internal/export"
	"github.com/mithrel/mdpreview/internal/preview"
	"github.com/mithrel/mdpreview/internal/render"
	"github.com/mithrel/mdpreview/pkg/markdown"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(Config{
		Options:     markdown.Default(),
		InitialText: "# Welcome",
		Export:      export.Options{Title: "Test Export"},
	}, render.Staged{}, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any, header http.Header) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(b))
}

func TestIndexShowsInitialRender(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(b), "<h1>Welcome</h1>")
	assert.Contains(t, string(b), `id="enableFormatting" checked`)
	assert.Contains(t, string(b), "setTimeout(connect, 1000)")

	resp2, err := http.Get(ts.URL + "/missing")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestRenderEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/render", map[string]any{
		"source":     "```\ncode\n```\n\nhello World",
		"substitute": map[string]string{"pattern": "world", "replacement": "there"},
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res preview.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Contains(t, res.HTML, "hello there")
	assert.NotContains(t, res.HTML, "copy-button")
	assert.Equal(t, 1, strings.Count(res.Display, "copy-button"))
	assert.Equal(t, ETag(res.HTML), resp.Header.Get("ETag"))
}

func TestRenderEndpointNotModified(t *testing.T) {
	ts := newTestServer(t)
	body := map[string]any{"source": "same", "enable_formatting": false}
	first := postJSON(t, ts.URL+"/api/render", body, nil)
	etag := first.Header.Get("ETag")
	require.NotEmpty(t, etag)

	second := postJSON(t, ts.URL+"/api/render", body, http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, second.StatusCode)
}

func TestRenderEndpointRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/render")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp2, err := http.Post(ts.URL+"/api/render", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestExportEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/export", map[string]any{"source": "# Doc"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, `attachment; filename="markdown_output.html"`, resp.Header.Get("Content-Disposition"))
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "<title>Test Export</title>")
	assert.Contains(t, string(b), "<h1>Doc</h1>")
}

func TestExportRecordsNotification(t *testing.T) {
	ts := newTestServer(t)
	postJSON(t, ts.URL+"/api/export", map[string]any{"source": "x"}, nil)

	resp, err := http.Get(ts.URL + "/api/notifications")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got []struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "success", got[0].Kind)
	assert.Equal(t, "Exported markdown_output.html", got[0].Message)
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

type brokenEngine struct{}

func (brokenEngine) Name() string { return "broken" }

func (brokenEngine) Render(string, markdown.Options) (string, error) {
	return "", errors.New("engine exploded")
}

func TestRenderEndpointReportsEngineError(t *testing.T) {
	srv := New(Config{Options: markdown.Default()}, brokenEngine{}, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	resp := postJSON(t, ts.URL+"/api/render", map[string]any{"source": "x"}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var res preview.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "engine exploded", res.Error)
	assert.Empty(t, resp.Header.Get("ETag"))

	page, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer page.Body.Close()
	b, _ := io.ReadAll(page.Body)
	assert.Contains(t, string(b), "if (res.error) { notify('error', res.error); return; }")
}

func TestWebSocketRender(t *testing.T) {
	ts := newTestServer(t)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()

	var last uint64
	for _, src := range []string{"**a**", "- x\n- y"} {
		require.NoError(t, conn.WriteJSON(map[string]any{"source": src}))
		var res preview.Result
		require.NoError(t, conn.ReadJSON(&res))
		assert.Greater(t, res.Revision, last)
		last = res.Revision
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("nope")))
	var res preview.Result
	require.NoError(t, conn.ReadJSON(&res))
	assert.Equal(t, "bad request", res.Error)
}

func TestETagStable(t *testing.T) {
	assert.Equal(t, ETag("<p>x</p>"), ETag("<p>x</p>"))
	assert.NotEqual(t, ETag("<p>x</p>"), ETag("<p>y</p>"))
}

func TestRenderFallbackAfterWebSocketIsNotStale(t *testing.T) {
	ts := newTestServer(t)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)

	var last uint64
	for i := 0; i < 10; i++ {
		require.NoError(t, conn.WriteJSON(map[string]any{"source": strings.Repeat("x", i+1)}))
		var res preview.Result
		require.NoError(t, conn.ReadJSON(&res))
		last = res.Revision
	}
	require.NoError(t, conn.Close())

	resp := postJSON(t, ts.URL+"/api/render", map[string]any{"source": "after the drop"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res preview.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Greater(t, res.Revision, last)
	assert.Contains(t, res.HTML, "after the drop")

	// A fresh socket keeps counting from the shared clock as well.
	conn2, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn2.Close()
	require.NoError(t, conn2.WriteJSON(map[string]any{"source": "back again"}))
	var again preview.Result
	require.NoError(t, conn2.ReadJSON(&again))
	assert.Greater(t, again.Revision, res.Revision)
}

func TestWebSocketPingsIdleClients(t *testing.T) {
	assert.Less(t, wsPingPeriod, wsPongWait)

	srv := New(Config{Options: markdown.Default(), PingInterval: 20 * time.Millisecond}, render.Staged{}, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()

	pinged := make(chan struct{}, 1)
	conn.SetPingHandler(func(string) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return nil
	})
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-pinged:
	case <-time.After(2 * time.Second):
		t.Fatal("server sent no ping to an idle connection")
	}
}

func TestNewDefaultsPingInterval(t *testing.T) {
	srv := New(Config{Options: markdown.Default()}, render.Staged{}, nil)
	assert.Equal(t, wsPingPeriod, srv.cfg.PingInterval)
	assert.Less(t, srv.cfg.PingInterval, wsPongWait)
}
