package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vectorops/chromactl/internal/config"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		AppName:              "chromactl",
		LogLevel:             "error",
		BaseURL:              baseURL,
		RequestTimeout:       2 * time.Second,
		CacheType:            "bbolt",
		CachePath:            filepath.Join(t.TempDir(), "collections.db"),
		CacheTTL:             time.Minute,
		CacheCleanupInterval: time.Minute,
	}
}

func newCollectionServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/heartbeat":
			w.Write([]byte(`{"nanosecond heartbeat":1}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/collections":
			w.Write([]byte(`{"id":"1","name":"demo"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/collections/demo":
			w.Write([]byte(`{"id":"1","name":"demo"}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestAppHeartbeatAndCreate(t *testing.T) {
	srv := newCollectionServer(t)
	defer srv.Close()

	a, err := New(context.Background(), testConfig(t, srv.URL), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if !a.Heartbeat(context.Background()) {
		t.Fatalf("Heartbeat = false")
	}
	if !a.CreateCollection(context.Background(), "demo") {
		t.Fatalf("CreateCollection = false")
	}
}

func TestAppGetCollectionCachesAndFallsBack(t *testing.T) {
	srv := newCollectionServer(t)

	a, err := New(context.Background(), testConfig(t, srv.URL), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	col, ok := a.GetCollection(context.Background(), "demo")
	if !ok {
		t.Fatalf("GetCollection = false with server up")
	}
	if col.ID != "1" || col.Name != "demo" {
		t.Fatalf("collection = %+v", col)
	}

	// Server gone: the cached record must still be served.
	srv.Close()

	col, ok = a.GetCollection(context.Background(), "demo")
	if !ok {
		t.Fatalf("GetCollection should fall back to the cache")
	}
	if col.ID != "1" || col.Name != "demo" {
		t.Fatalf("cached collection = %+v", col)
	}

	// Never-fetched names have nothing to fall back to.
	if _, ok := a.GetCollection(context.Background(), "missing"); ok {
		t.Fatalf("GetCollection = true for a never-fetched name with server down")
	}
}

func TestAppGetCollectionUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	a, err := New(context.Background(), testConfig(t, srv.URL), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, ok := a.GetCollection(context.Background(), "demo"); ok {
		t.Fatalf("GetCollection = true for an undecodable body")
	}
}

func TestAppCreatePublishesEvent(t *testing.T) {
	srv := newCollectionServer(t)
	defer srv.Close()

	eventCh := make(chan []byte, 1)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		eventCh <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	pubFile := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := "publishers:\n  - id: hook\n    type: http\n    http:\n      url: " + hook.URL + "\n"
	if err := os.WriteFile(pubFile, []byte(raw), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}

	cfg := testConfig(t, srv.URL)
	cfg.PublishersFile = pubFile

	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if !a.CreateCollection(context.Background(), "demo") {
		t.Fatalf("CreateCollection = false")
	}

	select {
	case body := <-eventCh:
		if want := `"action":"collection.created"`; !strings.Contains(string(body), want) {
			t.Fatalf("event payload missing %s: %s", want, body)
		}
		if want := `"collection_name":"demo"`; !strings.Contains(string(body), want) {
			t.Fatalf("event payload missing %s: %s", want, body)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event delivered to the hook")
	}
}
