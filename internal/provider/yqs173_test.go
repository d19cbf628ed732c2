package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"seam/internal/httputil"
	"seam/internal/jsontree"
)

func start173(t *testing.T, body string) (*YQS173, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		r.ParseForm()
		if r.PostForm.Get("roomId") == "" {
			http.Error(w, "roomId", http.StatusBadRequest)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client := httputil.NewClient(httputil.Options{HTTPClient: srv.Client()})
	return &YQS173{client: client, url: srv.URL}, &calls
}

func TestYQS173Live(t *testing.T) {
	y, calls := start173(t, `{"data":{"status":2,"url":"https://pull.173.com/live/96.flv"}}`)

	node, err := y.Resolve(context.Background(), "96", nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if node.RoomID != "96" {
		t.Errorf("RoomID = %q, want 96", node.RoomID)
	}
	if len(node.URLs) != 1 || node.URLs[0] != "https://pull.173.com/live/96.flv" {
		t.Errorf("URLs = %v", node.URLs)
	}
	if *calls != 1 {
		t.Errorf("calls = %d, want 1", *calls)
	}
}

func TestYQS173NotLive(t *testing.T) {
	for _, body := range []string{
		`{"data":{"status":0}}`,
		`{"data":{"status":1,"url":"https://x"}}`,
		`{"data":{"status":7}}`,
	} {
		y, _ := start173(t, body)
		if _, err := y.Resolve(context.Background(), "96", nil); !errors.Is(err, ErrNotLive) {
			t.Errorf("body %s: expected ErrNotLive, got %v", body, err)
		}
	}
}

func TestYQS173Schema(t *testing.T) {
	tests := []struct {
		body  string
		field string
	}{
		{`{"data":{}}`, "status"},
		{`{"data":{"status":"2"}}`, "status"},
		{`{"data":{"status":2}}`, "url"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			y, _ := start173(t, tt.body)
			_, err := y.Resolve(context.Background(), "96", nil)
			var se *jsontree.SchemaError
			if !errors.As(err, &se) || se.Field != tt.field {
				t.Errorf("expected schema error on %s, got %v", tt.field, err)
			}
		})
	}
}
