package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geal-ai/ncgallery/gallery"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--cache-dir", t.TempDir()}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Examples:"))
	for _, name := range gallery.Names() {
		assert.Contains(t, out, "  "+name+" ")
	}
	assert.Contains(t, out, "Sample data is fetched from https://")
}

func TestFlagValidation(t *testing.T) {
	_, err := execute(t, "list", "--format", "bmp")
	assert.ErrorContains(t, err, `format "bmp"`)

	_, err = execute(t, "list", "-j", "0")
	assert.ErrorContains(t, err, "concurrency")

	_, err = execute(t, "list", "extra")
	assert.Error(t, err)
}

func TestRenderUnknown(t *testing.T) {
	_, err := execute(t, "render", "ticks", "nope")
	assert.ErrorContains(t, err, `unknown example "nope"`)

	_, err = execute(t, "render")
	assert.Error(t, err, "render needs at least one name")
}

func TestRenderWithConfig(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "figs")
	cfg := filepath.Join(dir, "gallery.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("out_dir: "+outDir+"\nformat: svg\nfigures:\n  ticks: {width: 4, height: 3}\n"), 0o644))

	out, err := execute(t, "--config", cfg, "render", "ticks")
	require.NoError(t, err)
	want := filepath.Join(outDir, "ticks.svg")
	assert.Contains(t, out, want)
	st, err := os.Stat(want)
	require.NoError(t, err)
	assert.Positive(t, st.Size())

	// Flags win over the file.
	_, err = execute(t, "--config", cfg, "-f", "png", "render", "ticks")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "ticks.png"))
}

func TestBadConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "gallery.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("colour: red\n"), 0o644))
	_, err := execute(t, "--config", cfg, "list")
	assert.ErrorContains(t, err, "colour")
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("CDF\x01"))
	}))
	defer srv.Close()

	cfg := filepath.Join(t.TempDir(), "gallery.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("base_url: "+srv.URL+"\n"), 0o644))
	out, err := execute(t, "--config", cfg, "fetch")
	require.NoError(t, err)
	for _, name := range gallery.Datasets() {
		assert.Contains(t, out, name)
	}
}

func TestRenderReportsFailures(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "gallery.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("base_url: "+srv.URL+"\nout_dir: "+dir+"\n"), 0o644))
	out, err := execute(t, "--config", cfg, "render", "bar", "ticks")
	assert.EqualError(t, err, "1 of 2 examples failed")
	assert.Contains(t, out, "bar")
	assert.Contains(t, out, "error:")
	assert.Contains(t, out, filepath.Join(dir, "ticks.png"))
}
