package gallery

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/geal-ai/ncgallery"
)

// Config controls where data comes from and where figures go.
type Config struct {
	DataDir     string                `yaml:"data_dir"`   // local copies of the sample files, checked first
	CacheDir    string                `yaml:"cache_dir"`  // downloads land here
	OutDir      string                `yaml:"out_dir"`    // rendered figures
	BaseURL     string                `yaml:"base_url"`   // sample data server
	Format      string                `yaml:"format"`     // png, svg, pdf, jpg
	Coastlines  string                `yaml:"coastlines"` // optional lon/lat shapefile
	Concurrency int                   `yaml:"concurrency"`
	Seed        int64                 `yaml:"seed"` // random data in the ticks example
	Figures     map[string]FigureSize `yaml:"figures"`
}

// FigureSize overrides an example's figure size in inches.
type FigureSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

var formats = []string{"png", "jpg", "jpeg", "svg", "pdf", "eps", "tif", "tiff"}

// DefaultConfig returns the settings used when no file or flag says otherwise.
func DefaultConfig() Config {
	cache := filepath.Join(os.TempDir(), "ncgallery")
	if dir, err := os.UserCacheDir(); err == nil {
		cache = filepath.Join(dir, "ncgallery")
	}
	return Config{
		CacheDir:    cache,
		OutDir:      "out",
		BaseURL:     ncgallery.DefaultDataURL,
		Format:      "png",
		Concurrency: 6,
		Seed:        1950,
	}
}

// LoadConfig reads a YAML config file over the defaults. Unknown keys are
// rejected. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("config: format %q not one of %v", c.Format, formats)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("config: concurrency %d must be at least 1", c.Concurrency)
	}
	if c.OutDir == "" {
		return fmt.Errorf("config: out_dir is empty")
	}
	for name, s := range c.Figures {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("config: figure %s: size %gx%g must be positive", name, s.Width, s.Height)
		}
	}
	return nil
}

// Size returns the configured figure size for an example, or the default.
func (c Config) Size(name string, width, height float64) (float64, float64) {
	if s, ok := c.Figures[name]; ok {
		return s.Width, s.Height
	}
	return width, height
}
