package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dockgrid/pkg/core/anchor"
	"github.com/matzehuels/dockgrid/pkg/core/layout"
	"github.com/matzehuels/dockgrid/pkg/errors"
	"github.com/matzehuels/dockgrid/pkg/observability"
)

func newTestServer(t *testing.T) (*Server, *layout.Engine) {
	t.Helper()
	logger := log.New(io.Discard)
	e := layout.NewEngine(layout.Options{Logger: logger})
	return New(Config{Engine: e, Logger: logger}), e
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

func TestApplyOperations(t *testing.T) {
	s, e := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/ops/add-part", `{"id":"explorer-part","slot":"left-top","activity":"explorer","label":"Explorer"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Op       string `json:"op"`
		Revision uint64 `json:"revision"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Op != "add-part" || resp.Revision != 1 {
		t.Errorf("resp = %+v", resp)
	}
	if _, ok := e.Snapshot().Dock.Activity("explorer"); !ok {
		t.Error("activity not declared on the engine")
	}
}

func TestApplyGeneratesPartID(t *testing.T) {
	s, e := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodPost, "/ops/add-part", `{"ref":"main-area","align":"bottom"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Part string `json:"part"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if !strings.HasPrefix(resp.Part, "part-") {
		t.Fatalf("part = %q", resp.Part)
	}
	if p, _ := e.Snapshot().Part(resp.Part); p == nil {
		t.Errorf("generated part %q missing from layout", resp.Part)
	}
}

func TestApplyErrorStatuses(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	do(t, h, http.MethodPost, "/ops/add-part", `{"id":"explorer-part","slot":"left-top","activity":"explorer"}`)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"duplicate part", "/ops/add-part", `{"id":"main-area"}`, http.StatusConflict, errors.ErrCodeDuplicatePartID},
		{"unknown part", "/ops/add-view", `{"view":"v","part":"ghost"}`, http.StatusNotFound, errors.ErrCodeUnknownReference},
		{"unknown operation", "/ops/explode", `{}`, http.StatusNotFound, errors.ErrCodeUnsupported},
		{"not active", "/ops/deactivate-activity", `{"activity":"explorer"}`, http.StatusUnprocessableEntity, errors.ErrCodeStructuralInvariant},
		{"malformed", "/ops/add-view", `{"view":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", "/ops/add-view", `{"view":"v","part":"main-area","colour":1}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad ratio", "/ops/add-part", `{"id":"p","ref":"main-area","ratio":1.5}`, http.StatusBadRequest, errors.ErrCodeInvalidRatio},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := decodeError(t, rec); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestLayoutExportImport(t *testing.T) {
	s, e := newTestServer(t)
	h := s.Handler()
	do(t, h, http.MethodPost, "/ops/add-view", `{"view":"readme","part":"main-area"}`)
	want := e.Snapshot()

	for _, f := range []string{"json", "yaml", "cbor"} {
		t.Run(f, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/layout?format="+f, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("GET status = %d", rec.Code)
			}
			data := rec.Body.Bytes()

			req := httptest.NewRequest(http.MethodPut, "/layout?format="+f, bytes.NewReader(data))
			put := httptest.NewRecorder()
			h.ServeHTTP(put, req)
			if put.Code != http.StatusOK {
				t.Fatalf("PUT status = %d: %s", put.Code, put.Body)
			}
			got := e.Snapshot()
			if p := got.Grid(layout.MainGrid).Find("main-area"); p == nil || p.Active != "readme" {
				t.Errorf("imported layout lost the active view")
			}
			if got.Revision <= want.Revision {
				t.Errorf("revision went from %d to %d", want.Revision, got.Revision)
			}
		})
	}

	rec := do(t, h, http.MethodGet, "/layout?format=xml", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad format status = %d", rec.Code)
	}
}

func TestLayoutDOT(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/layout/dot", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "digraph G") {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("content type = %q", ct)
	}
}

func TestPartAndActivity(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	do(t, h, http.MethodPost, "/ops/add-part", `{"id":"search-part","slot":"right-top","activity":"search","label":"Search"}`)

	rec := do(t, h, http.MethodGet, "/parts/search-part", "")
	var part partResponse
	json.NewDecoder(rec.Body).Decode(&part)
	if part.Grid != "search" || part.Visible || len(part.Views) != 0 {
		t.Errorf("reserved part = %+v", part)
	}

	rec = do(t, h, http.MethodGet, "/activities/search", "")
	var act activityResponse
	json.NewDecoder(rec.Body).Decode(&act)
	if act.Title != "Search" || act.Materialized || act.Slot != "right-top" {
		t.Errorf("activity = %+v", act)
	}

	if rec := do(t, h, http.MethodGet, "/parts/ghost", ""); rec.Code != http.StatusNotFound {
		t.Errorf("ghost part status = %d", rec.Code)
	}
}

func TestAnchorPlace(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodPost, "/anchor/place",
		`{"anchor":{"x":400,"y":300,"width":100,"height":100},"bounds":{"x":0,"y":0,"width":1920,"height":1080},"align":"north","size":{"width":200,"height":80}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var pl anchor.Placement
	json.NewDecoder(rec.Body).Decode(&pl)
	if pl.Popup.Bottom() != 300-anchor.DefaultDiamondOffset || pl.Popup.Center().X != 450 {
		t.Errorf("placement = %+v", pl)
	}

	rec = do(t, s.Handler(), http.MethodPost, "/anchor/place", `{"align":"up"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad align status = %d", rec.Code)
	}
}

func TestAnchorTrack(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	do(t, h, http.MethodPost, "/ops/add-view", `{"view":"readme","part":"main-area"}`)
	if rec := do(t, h, http.MethodPut, "/anchor/elements", `{"btn":{"x":10,"y":10,"width":20,"height":20}}`); rec.Code != http.StatusNoContent {
		t.Fatalf("elements status = %d", rec.Code)
	}

	track := `{"popup":{"id":"tip","view":"readme","anchor":{"element":"btn"},"align":"south","size":{"width":40,"height":10}},` +
		`"areas":{"main":{"x":0,"y":0,"width":800,"height":600}},"state":{"draft":"hi"}}`
	rec := do(t, h, http.MethodPost, "/anchor/track", track)
	var res anchor.Result
	json.NewDecoder(rec.Body).Decode(&res)
	if !res.Visible || res.Seq != 1 {
		t.Fatalf("result = %+v", res)
	}

	// detach the anchor: hidden, state kept
	do(t, h, http.MethodPut, "/anchor/elements", `{}`)
	rec = do(t, h, http.MethodPost, "/anchor/track", strings.Replace(track, `,"state":{"draft":"hi"}`, "", 1))
	var hidden map[string]any
	json.NewDecoder(rec.Body).Decode(&hidden)
	if hidden["visible"] != false {
		t.Errorf("detached anchor visible: %v", hidden)
	}
	if st, _ := hidden["state"].(map[string]any); st["draft"] != "hi" {
		t.Errorf("state = %v", hidden["state"])
	}

	rec = do(t, h, http.MethodGet, "/anchor/popups/tip", "")
	json.NewDecoder(rec.Body).Decode(&res)
	if res.Seq != 2 {
		t.Errorf("latest seq = %d, want 2", res.Seq)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu    sync.Mutex
	paths []string
	codes []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths = append(h.paths, path)
	h.codes = append(h.codes, status)
}

func TestObserveReportsRoutePattern(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	s, _ := newTestServer(t)
	do(t, s.Handler(), http.MethodGet, "/parts/main-area", "")
	do(t, s.Handler(), http.MethodGet, "/healthz", "")

	if len(hooks.paths) != 2 || hooks.paths[0] != "/parts/{id}" || hooks.paths[1] != "/healthz" {
		t.Errorf("paths = %v", hooks.paths)
	}
	if hooks.codes[0] != http.StatusOK {
		t.Errorf("codes = %v", hooks.codes)
	}
}

func TestServeShutsDown(t *testing.T) {
	logger := log.New(io.Discard)
	s := New(Config{Addr: "127.0.0.1:0", Engine: layout.NewEngine(layout.Options{Logger: logger}), Logger: logger})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	<-s.Ready()
	resp, err := http.Get("http://" + s.Addr().String() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
}
