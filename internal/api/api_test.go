package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pathrank/pkg/errors"
	"github.com/matzehuels/pathrank/pkg/observability"
	"github.com/matzehuels/pathrank/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := NewServer(pipeline.NewRunner(nil, nil, logger), logger, Options{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errors.Code {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Error.Message)
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRank(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/v1/rank", `{"sequences": [["A", "B", "C"]], "start": "A", "top": 2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body RankResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.RunID)
	assert.Equal(t, 3, body.Nodes)
	assert.Equal(t, 2, body.Edges)
	assert.Equal(t, 1, body.Dangling)
	assert.Equal(t, 10, body.Iterations)
	assert.Equal(t, "A", body.Start)
	require.Len(t, body.Ranking, 2)
	assert.Equal(t, "C", body.Ranking[0].ID)
	assert.InEpsilon(t, 1.6977526347093626e-05, body.Ranking[0].Score, 1e-12)
	assert.Equal(t, "B", body.Ranking[1].ID)
}

func TestRankPaths(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/v1/rank", `{"paths": ["<;A;B", "A;B;<;C"], "start": "A", "teleport": "uniform"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body RankResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body.Nodes)
	assert.Equal(t, 2, body.Edges, "A→B from the first path, A→C from the second")
	require.Len(t, body.Issues, 1)
	assert.Equal(t, 0, body.Issues[0].Sequence)
	assert.Equal(t, errors.ErrCodeMalformedSequence, body.Issues[0].Code)
}

func TestRankErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"malformed json", `{"sequences": [`, errors.ErrCodeInvalidFormat},
		{"unknown field", `{"sequences": [["A"]], "damping": 0.5}`, errors.ErrCodeInvalidFormat},
		{"no input", `{}`, errors.ErrCodeInvalidInput},
		{"degenerate beta", `{"sequences": [["A", "B"]], "beta": 1.5}`, errors.ErrCodeDegenerateBeta},
		{"unknown mode", `{"sequences": [["A", "B"]], "mode": "fast"}`, errors.ErrCodeInvalidOption},
		{"unknown start", `{"sequences": [["A", "B"]], "start": "Z"}`, errors.ErrCodeUnknownNode},
		{"empty universe", `{"sequences": [["<", "<"]]}`, errors.ErrCodeEmptyUniverse},
		{"sentinel contains delimiter", `{"paths": ["A;B"], "sentinel": "<;x"}`, errors.ErrCodeInvalidOption},
		{"sentinel contains custom delimiter", `{"paths": ["A,B"], "delimiter": ",", "sentinel": "<,"}`, errors.ErrCodeInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/rank", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp))
		})
	}
}

func TestRankRequiresJSON(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/rank", "text/plain", strings.NewReader("A;B"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestRankBodyLimit(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := NewServer(pipeline.NewRunner(nil, nil, logger), logger, Options{MaxBodyBytes: 16})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := post(t, ts.URL+"/v1/rank", `{"sequences": [["A", "B", "C", "D"]]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGraph(t *testing.T) {
	ts := newTestServer(t)
	body := `{"sequences": [["A", "B", "C"]], "start": "A"}`

	resp := post(t, ts.URL+"/v1/graph", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Run-ID"))
	var g struct {
		Nodes []struct {
			ID   string `json:"id"`
			Rank int    `json:"rank"`
		} `json:"nodes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&g))
	assert.Len(t, g.Nodes, 3)

	resp = post(t, ts.URL+"/v1/graph?format=dot&edge_labels=true", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/vnd.graphviz", resp.Header.Get("Content-Type"))
	dot, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(dot, []byte("digraph G {")))

	resp = post(t, ts.URL+"/v1/graph?format=gif", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeInvalidOption, decodeError(t, resp))
}

func TestGraphRankDir(t *testing.T) {
	ts := newTestServer(t)
	body := `{"sequences": [["A", "B", "C"]], "start": "A"}`

	resp := post(t, ts.URL+"/v1/graph?format=dot&rankdir=TB", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dot, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "rankdir=TB;")

	injected := url.QueryEscape("LR;\n  \"x\" -> \"y\"")
	resp = post(t, ts.URL+"/v1/graph?format=dot&rankdir="+injected, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeInvalidOption, decodeError(t, resp))
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
	status []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
	h.status = append(h.status, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	post(t, ts.URL+"/v1/rank", `{"sequences": [["A", "B"]], "start": "A"}`)
	post(t, ts.URL+"/v1/rank", `{}`)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []string{"/v1/rank", "/v1/rank"}, hooks.routes)
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.status)
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := NewServer(pipeline.NewRunner(nil, nil, logger), logger, Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
