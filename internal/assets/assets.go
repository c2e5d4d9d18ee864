// Package assets fetches and decodes the models placed in the viewer.
package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/arviewer/internal/config"
	"github.com/Faultbox/arviewer/internal/logger"
)

// ErrNotFound is returned when an asset location does not resolve.
var ErrNotFound = errors.New("asset not found")

// maxAssetSize bounds a single download.
const maxAssetSize = 64 << 20

// Loader fetches model files over HTTP or from disk and decodes them.
type Loader struct {
	client   *http.Client
	cache    *Cache
	cacheDir string
	log      *zap.Logger
}

// NewLoader creates a loader from the assets config.
func NewLoader(cfg config.AssetsConfig) *Loader {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Loader{
		client:   &http.Client{Timeout: timeout},
		cache:    NewCache(),
		cacheDir: cfg.CacheDir,
		log:      logger.Named("assets"),
	}
}

// Cache returns the loader's in-memory cache.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Load fetches and decodes the model at location.
func (l *Loader) Load(ctx context.Context, location string) (*Model, error) {
	data, err := l.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", location, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(path.Base(location), path.Ext(location))
	}
	l.log.Info("model loaded",
		zap.String("location", location),
		zap.Int("nodes", len(m.Nodes)),
		zap.Int("meshes", m.MeshCount()))
	return m, nil
}

// Fetch returns the raw bytes at location. http and https URLs are
// downloaded; file URLs and plain paths are read from disk.
func (l *Loader) Fetch(ctx context.Context, location string) ([]byte, error) {
	if data, ok := l.cache.Get(location); ok {
		return data, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parsing location %q: %w", location, err)
	}

	var data []byte
	switch u.Scheme {
	case "http", "https":
		data, err = l.fromDisk(location)
		if err != nil {
			data, err = l.download(ctx, location)
			if err == nil {
				l.toDisk(location, data)
			}
		}
	case "file":
		data, err = readFile(u.Path)
	case "":
		data, err = readFile(location)
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if err != nil {
		return nil, err
	}

	l.cache.Set(location, data)
	return data, nil
}

func (l *Loader) download(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", location, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetching %s: %w", location, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetching %s: unexpected status %s", location, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("fetching %s: asset exceeds %d bytes", location, maxAssetSize)
	}
	return data, nil
}

func readFile(p string) ([]byte, error) {
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", p, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return data, nil
}

func (l *Loader) diskPath(location string) string {
	sum := sha256.Sum256([]byte(location))
	return filepath.Join(l.cacheDir, hex.EncodeToString(sum[:])+path.Ext(location))
}

func (l *Loader) fromDisk(location string) ([]byte, error) {
	if l.cacheDir == "" {
		return nil, ErrNotFound
	}
	return os.ReadFile(l.diskPath(location))
}

func (l *Loader) toDisk(location string, data []byte) {
	if l.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(l.cacheDir, 0755); err != nil {
		l.log.Warn("creating asset cache dir", zap.Error(err))
		return
	}
	if err := os.WriteFile(l.diskPath(location), data, 0644); err != nil {
		l.log.Warn("writing asset cache", zap.String("location", location), zap.Error(err))
	}
}
