package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"

	"seam/internal/batch"
	"seam/internal/httputil"
	"seam/internal/jsontree"
	"seam/internal/media"
	"seam/internal/provider"
)

type stubResolver struct {
	mu      sync.Mutex
	node    *media.Node
	err     error
	headers map[string]string
	room    string
}

func (s *stubResolver) Resolve(ctx context.Context, platform, roomID string, headers map[string]string) (*media.Node, error) {
	s.mu.Lock()
	s.headers = headers
	s.room = roomID
	s.mu.Unlock()
	if platform != "bilibili" {
		return nil, fmt.Errorf("%w %q", provider.ErrUnknownPlatform, platform)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.node, nil
}

func (s *stubResolver) Names() []string { return []string{"173", "bilibili"} }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, New(&stubResolver{}, nil).Handler(), "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestPlatforms(t *testing.T) {
	rec := get(t, New(&stubResolver{}, nil).Handler(), "/api/platforms")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct{ Platforms []string }
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(body.Platforms) != "[173 bilibili]" {
		t.Errorf("platforms = %v", body.Platforms)
	}
}

func TestResolveLive(t *testing.T) {
	stub := &stubResolver{node: &media.Node{
		Platform: "bilibili",
		RoomID:   "7734200",
		URLs:     []string{"https://a/1"},
	}}
	headersFor := func(p string) map[string]string {
		return map[string]string{"Cookie": "for-" + p}
	}

	rec := get(t, New(stub, headersFor).Handler(), "/api/bilibili/6")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var node media.Node
	if err := json.Unmarshal(rec.Body.Bytes(), &node); err != nil {
		t.Fatal(err)
	}
	if node.RoomID != "7734200" || len(node.URLs) != 1 {
		t.Errorf("node = %+v", node)
	}
	if !strings.Contains(rec.Body.String(), `"stream_urls"`) {
		t.Errorf("body should use stream_urls key: %s", rec.Body.String())
	}
	if stub.room != "6" {
		t.Errorf("room passed = %q, want 6", stub.room)
	}
	if stub.headers["Cookie"] != "for-bilibili" {
		t.Errorf("headers passed = %v", stub.headers)
	}
}

func TestResolveRoomDecodedOnce(t *testing.T) {
	stub := &stubResolver{node: &media.Node{Platform: "bilibili", RoomID: "6"}}
	get(t, New(stub, nil).Handler(), "/api/bilibili/%2536")

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.room != "%36" {
		t.Errorf("room passed = %q, want %%36", stub.room)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"not live", "/api/bilibili/1", fmt.Errorf("room 1: %w", provider.ErrNotLive), http.StatusNotFound, provider.OutcomeNotLive},
		{"unknown platform", "/api/nope/1", nil, http.StatusBadRequest, provider.OutcomeUnknownPlatform},
		{"invalid room", "/api/bilibili/1", provider.ErrInvalidRoom, http.StatusBadRequest, provider.OutcomeInvalidRoom},
		{"schema", "/api/bilibili/1", &jsontree.SchemaError{Field: "base_url"}, http.StatusBadGateway, provider.OutcomeSchema},
		{"no tiers", "/api/bilibili/1", provider.ErrNoTiers, http.StatusBadGateway, provider.OutcomeNoTiers},
		{"network", "/api/bilibili/1", &httputil.NetworkError{Status: 503}, http.StatusBadGateway, provider.OutcomeNetwork},
		{"api", "/api/bilibili/1", &provider.APIError{Code: 19002000}, http.StatusBadGateway, provider.OutcomeAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, New(&stubResolver{err: tt.err}, nil).Handler(), tt.path)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if body.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", body.Kind, tt.wantKind)
			}
			if body.Error == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, New(&stubResolver{}, nil).Handler(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Errorf("metrics status = %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	New(&stubResolver{}, nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}
}

func TestStatus(t *testing.T) {
	stub := &stubResolver{node: &media.Node{Platform: "bilibili", RoomID: "7734200"}}
	rec := get(t, New(stub, nil).Handler(), "/api/status?room=bilibili:6&room=nope:1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct{ Rooms []batch.Result }
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(body.Rooms))
	}
	if body.Rooms[0].Outcome != provider.OutcomeLive || body.Rooms[0].Node == nil {
		t.Errorf("rooms[0] = %+v", body.Rooms[0])
	}
	if body.Rooms[1].Outcome != provider.OutcomeUnknownPlatform || body.Rooms[1].Error == "" {
		t.Errorf("rooms[1] = %+v", body.Rooms[1])
	}
}

func TestStatusBadRequest(t *testing.T) {
	h := New(&stubResolver{}, nil).Handler()
	for _, path := range []string{"/api/status", "/api/status?room=bilibili"} {
		if rec := get(t, h, path); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestGzip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/platforms", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	New(&stubResolver{}, nil).Handler().ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", rec.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader() error: %v", err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(plain), "bilibili") {
		t.Errorf("decompressed body = %q", plain)
	}
}
