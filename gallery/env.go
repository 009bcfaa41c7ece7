package gallery

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/geal-ai/ncgallery"
	"github.com/geal-ai/ncgallery/chart"
)

// Env carries what every example needs to load data and write figures.
type Env struct {
	Config Config
	Data   *ncgallery.DataClient
	Log    *zap.Logger
	Now    func() time.Time
}

// NewEnv builds an Env from a validated config. A nil logger discards logs.
func NewEnv(cfg Config, log *zap.Logger) *Env {
	if log == nil {
		log = zap.NewNop()
	}
	data := ncgallery.NewDataClient(cfg.CacheDir)
	data.LocalDir = cfg.DataDir
	if cfg.BaseURL != "" {
		data.BaseURL = cfg.BaseURL
	}
	return &Env{Config: cfg, Data: data, Log: log, Now: time.Now}
}

// Open resolves a sample dataset name and opens it.
func (e *Env) Open(ctx context.Context, name string) (*ncgallery.Dataset, error) {
	path, err := e.Data.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	e.Log.Debug("opening dataset", zap.String("name", name), zap.String("path", path))
	return ncgallery.Open(path)
}

// OutPath returns the file an example writes; suffix distinguishes the
// figures of examples that produce more than one.
func (e *Env) OutPath(example, suffix string) string {
	base := example
	if suffix != "" {
		base += "_" + suffix
	}
	return filepath.Join(e.Config.OutDir, base+"."+e.Config.Format)
}

// Outlines loads the configured coastline shapefile clipped to extent.
// Without one, or if it cannot be read, maps are drawn without outlines.
func (e *Env) Outlines(extent ncgallery.Extent) *chart.Outlines {
	if e.Config.Coastlines == "" {
		return nil
	}
	o, err := chart.LoadOutlines(e.Config.Coastlines, extent)
	if err != nil {
		e.Log.Warn("coastlines unavailable", zap.Error(err))
		return nil
	}
	return o
}

// save writes a figure and logs where it went.
func (e *Env) save(fig *chart.Figure, path string) error {
	if err := fig.Save(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	e.Log.Info("wrote figure", zap.String("path", path))
	return nil
}
