package pip

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	manifests "bakery.run/apis/manifests/v1alpha1"
)

// ErrChecksumMismatch is reported when a fetched wheel does not match
// the checksum recorded in the lock file.
var ErrChecksumMismatch = errors.New("wheel checksum mismatch")

// NewFetcher returns a Fetcher downloading locked wheels.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	var cfg FetcherConfig
	cfg.Option(opts...)
	cfg.Default()

	return &Fetcher{cfg: cfg}
}

type Fetcher struct {
	cfg FetcherConfig
}

type FetcherConfig struct {
	HTTPClient *http.Client
	// CacheDir holds fetched wheels keyed by checksum. Empty disables caching.
	CacheDir string
}

func (c *FetcherConfig) Option(opts ...FetcherOption) {
	for _, opt := range opts {
		opt.ConfigureFetcher(c)
	}
}

func (c *FetcherConfig) Default() {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
}

type FetcherOption interface {
	ConfigureFetcher(*FetcherConfig)
}

// Fetch downloads the wheel of a locked distribution and verifies its
// checksum. A checksum mismatch is fatal, never retried.
func (f *Fetcher) Fetch(
	ctx context.Context, dist manifests.LockedDistribution,
) ([]byte, error) {
	log := logr.FromContextOrDiscard(ctx).V(1)

	if data, ok := f.fromCache(dist); ok {
		log.Info("using cached wheel", "filename", dist.Filename)
		return data, nil
	}

	log.Info("fetching wheel", "url", dist.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dist.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", dist.Filename, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", dist.Filename, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", dist.Filename, err)
	}

	if err := verifyChecksum(data, dist); err != nil {
		return nil, err
	}
	f.toCache(dist, data)

	return data, nil
}

func verifyChecksum(data []byte, dist manifests.LockedDistribution) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != dist.SHA256 {
		return fmt.Errorf("%w: %s: got %s, lock records %s",
			ErrChecksumMismatch, dist.Filename, got, dist.SHA256)
	}
	return nil
}

func (f *Fetcher) fromCache(dist manifests.LockedDistribution) ([]byte, bool) {
	if f.cfg.CacheDir == "" || dist.SHA256 == "" {
		return nil, false
	}
	data, err := os.ReadFile(f.cachePath(dist))
	if err != nil || verifyChecksum(data, dist) != nil {
		return nil, false
	}
	return data, true
}

func (f *Fetcher) toCache(dist manifests.LockedDistribution, data []byte) {
	if f.cfg.CacheDir == "" || dist.SHA256 == "" {
		return
	}
	if err := os.MkdirAll(f.cfg.CacheDir, 0o755); err != nil {
		return
	}
	// Cache writes are best effort, a failed write only costs a re-download.
	_ = os.WriteFile(f.cachePath(dist), data, 0o644)
}

func (f *Fetcher) cachePath(dist manifests.LockedDistribution) string {
	return filepath.Join(f.cfg.CacheDir, dist.SHA256+".whl")
}
