package ncgallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// maxDataBytes caps a single download. The largest gallery file is ~60 MB.
const maxDataBytes = 200 << 20

// DefaultDataURL serves the GeoCAT sample data files.
const DefaultDataURL = "https://github.com/NCAR/GeoCAT-datafiles/raw/main"

// DataClient resolves sample dataset names (e.g. "netcdf_files/SOI.nc") to
// local files, downloading and caching them on first use.
type DataClient struct {
	HTTPClient *http.Client
	BaseURL    string
	CacheDir   string
	LocalDir   string // checked before the cache; empty disables it

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDataClient returns a client caching into cacheDir with sensible defaults.
func NewDataClient(cacheDir string) *DataClient {
	return &DataClient{
		HTTPClient: &http.Client{Timeout: 10 * time.Minute},
		BaseURL:    DefaultDataURL,
		CacheDir:   cacheDir,
	}
}

// Get returns the local path of a dataset, fetching it if needed.
// ctx is propagated to the HTTP request.
func (c *DataClient) Get(ctx context.Context, name string) (string, error) {
	if err := checkDataName(name); err != nil {
		return "", err
	}
	if c.LocalDir != "" {
		p := filepath.Join(c.LocalDir, filepath.FromSlash(name))
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if c.CacheDir == "" {
		return "", fmt.Errorf("dataset %s: not found locally and no cache dir configured", name)
	}

	// Two callers asking for the same file wait for one download.
	l := c.lock(name)
	l.Lock()
	defer l.Unlock()

	dst := filepath.Join(c.CacheDir, filepath.FromSlash(name))
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}
	if err := c.download(ctx, name, dst); err != nil {
		return "", fmt.Errorf("dataset %s: %w", name, err)
	}
	return dst, nil
}

// URL returns the remote location of a dataset.
func (c *DataClient) URL(name string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + path.Clean(name)
}

func (c *DataClient) lock(name string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks == nil {
		c.locks = map[string]*sync.Mutex{}
	}
	l, ok := c.locks[name]
	if !ok {
		l = &sync.Mutex{}
		c.locks[name] = l
	}
	return l
}

func (c *DataClient) download(ctx context.Context, name, dst string) error {
	url := c.URL(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, url)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.part")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	n, err := io.Copy(tmp, io.LimitReader(resp.Body, maxDataBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if n > maxDataBytes {
		return fmt.Errorf("%s exceeds %d bytes", url, maxDataBytes)
	}
	return os.Rename(tmp.Name(), dst)
}

var errBadDataName = errors.New("dataset name must be a relative path without '..'")

func checkDataName(name string) error {
	if name == "" || path.IsAbs(name) || filepath.IsAbs(name) {
		return fmt.Errorf("%q: %w", name, errBadDataName)
	}
	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if part == ".." {
			return fmt.Errorf("%q: %w", name, errBadDataName)
		}
	}
	return nil
}
