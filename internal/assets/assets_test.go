package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Faultbox/arviewer/internal/config"
)

func newServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/models/lantern.gltf", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "model/gltf+json")
		w.Write([]byte(sceneJSON))
	})
	mux.HandleFunc("/slow.gltf", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	mux.HandleFunc("/broken.gltf", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadOverHTTPUsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	l := NewLoader(config.AssetsConfig{Timeout: time.Second})

	for i := 0; i < 3; i++ {
		m, err := l.Load(context.Background(), srv.URL+"/models/lantern.gltf")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if m.MeshCount() != 2 {
			t.Errorf("MeshCount() = %d", m.MeshCount())
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
	if h, miss := l.Cache().Stats(); h != 2 || miss != 1 {
		t.Errorf("cache stats = %d hits %d misses", h, miss)
	}
}

func TestLoadNotFound(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	l := NewLoader(config.AssetsConfig{Timeout: time.Second})

	_, err := l.Load(context.Background(), srv.URL+"/missing.gltf")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := l.Load(context.Background(), srv.URL+"/broken.gltf"); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestLoadHonoursContext(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	l := NewLoader(config.AssetsConfig{Timeout: 10 * time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Load(ctx, srv.URL+"/slow.gltf"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "lantern.gltf")
	if err := os.WriteFile(p, []byte(sceneJSON), 0644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(config.AssetsConfig{})

	if _, err := l.Load(context.Background(), p); err != nil {
		t.Errorf("plain path: %v", err)
	}
	if _, err := l.Load(context.Background(), "file://"+p); err != nil {
		t.Errorf("file URL: %v", err)
	}
	if _, err := l.Load(context.Background(), filepath.Join(dir, "nope.gltf")); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := l.Load(context.Background(), "ftp://example.com/a.gltf"); err == nil {
		t.Error("expected error for unsupported scheme")
	}
}

func TestDiskCacheSurvivesLoaders(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	cfg := config.AssetsConfig{Timeout: time.Second, CacheDir: t.TempDir()}
	location := srv.URL + "/models/lantern.gltf"

	if _, err := NewLoader(cfg).Load(context.Background(), location); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := NewLoader(cfg).Load(context.Background(), location); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestLoadNamesModelFromLocation(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "robot.gltf")
	doc := `{"asset": {"version": "2.0"}, "nodes": [{"name": "a"}]}`
	if err := os.WriteFile(p, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := NewLoader(config.AssetsConfig{}).Load(context.Background(), p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "robot" {
		t.Errorf("Name = %q, want robot", m.Name)
	}
}
