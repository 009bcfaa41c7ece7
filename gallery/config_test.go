package gallery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geal-ai/ncgallery"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gallery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "png", cfg.Format)
	assert.Equal(t, "out", cfg.OutDir)
	assert.Equal(t, ncgallery.DefaultDataURL, cfg.BaseURL)
	assert.Equal(t, 6, cfg.Concurrency)
	assert.NotEmpty(t, cfg.CacheDir)

	cfg, err = LoadConfig(writeConfig(t, ""))
	require.NoError(t, err, "an empty file keeps the defaults")
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
data_dir: /data/geocat
out_dir: figures
format: pdf
concurrency: 2
seed: 42
figures:
  conlev: {width: 12, height: 7}
`))
	require.NoError(t, err)
	assert.Equal(t, "/data/geocat", cfg.DataDir)
	assert.Equal(t, "figures", cfg.OutDir)
	assert.Equal(t, "pdf", cfg.Format)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, int64(42), cfg.Seed)

	w, h := cfg.Size("conlev", 15, 9)
	assert.Equal(t, [2]float64{12, 7}, [2]float64{w, h})
	w, h = cfg.Size("bar", 5, 5)
	assert.Equal(t, [2]float64{5, 5}, [2]float64{w, h})
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "colour: red\n", "colour"},
		{"bad yaml", "format: [png\n", "config"},
		{"bad format", "format: bmp\n", `format "bmp"`},
		{"zero concurrency", "concurrency: 0\n", "concurrency"},
		{"empty out dir", "out_dir: \"\"\n", "out_dir"},
		{"bad figure size", "figures:\n  bar: {width: 0, height: 3}\n", "figure bar"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			assert.ErrorContains(t, err, tc.want)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
