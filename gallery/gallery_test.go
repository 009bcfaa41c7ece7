package gallery

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/geal-ai/ncgallery"
	"github.com/geal-ai/ncgallery/chart"
)

// testEnv writes small PNGs into a temporary directory and never touches
// the network.
func testEnv(t *testing.T) *Env {
	t.Helper()
	cfg := DefaultConfig()
	cfg.OutDir = t.TempDir()
	cfg.CacheDir = t.TempDir()
	cfg.BaseURL = "http://127.0.0.1:0"
	cfg.Concurrency = 2
	require.NoError(t, cfg.Validate())
	env := NewEnv(cfg, zaptest.NewLogger(t))
	env.Now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return env
}

// requireFiles checks that every path exists and is not empty.
func requireFiles(t *testing.T, files []string, n int) {
	t.Helper()
	require.Len(t, files, n)
	for _, f := range files {
		st, err := os.Stat(f)
		require.NoError(t, err)
		assert.Positive(t, st.Size(), f)
	}
}

// globalField builds a time×lat×lon field on a coarse 0..350 grid.
// value(t, lat, lon) = 280 + 10·cos(lat) + 3·sin(lon) + t.
func globalField(t *testing.T, name string, ntime int) *ncgallery.Field {
	t.Helper()
	lat := chart.Arange(-80, 81, 10)
	lon := chart.Arange(0, 351, 10)
	times := chart.Arange(0, float64(ntime), 1)
	vals := make([]float64, 0, ntime*len(lat)*len(lon))
	for k := range times {
		for _, y := range lat {
			for _, x := range lon {
				vals = append(vals, 280+10*math.Cos(y*math.Pi/180)+3*math.Sin(x*math.Pi/180)+float64(k))
			}
		}
	}
	f, err := ncgallery.NewField(name, []string{"time", "lat", "lon"}, []int{ntime, len(lat), len(lon)},
		[]ncgallery.Coord{{Name: "time", Values: times}, {Name: "lat", Values: lat}, {Name: "lon", Values: lon}},
		vals)
	require.NoError(t, err)
	f.Attrs["long_name"] = "Surface temperature"
	f.Attrs["units"] = "K"
	return f
}

func isel(t *testing.T, f *ncgallery.Field, i int) *ncgallery.Field {
	t.Helper()
	s, err := f.Isel("time", i)
	require.NoError(t, err)
	return s
}

func TestRegistry(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"bar", "conlev", "conwomap", "legend", "mask", "polygons", "scatter", "vectors", "ticks"}, names)
	for _, n := range names {
		ex, err := Lookup(n)
		require.NoError(t, err)
		assert.NotEmpty(t, ex.Desc)
		assert.NotNil(t, ex.Run)
	}
	_, err := Lookup("nope")
	assert.ErrorContains(t, err, `unknown example "nope"`)

	ds := Datasets()
	assert.ElementsMatch(t, []string{soiFile, tsFile, coneFile, uvFile, atmosFile}, ds)

	exs := Examples()
	exs[0].Name = "changed"
	assert.Equal(t, "bar", Examples()[0].Name, "Examples returns a copy")
}

func TestOutPath(t *testing.T) {
	env := &Env{Config: Config{OutDir: "out", Format: "svg"}}
	assert.Equal(t, filepath.Join("out", "mask_land.svg"), env.OutPath("mask", "land"))
	assert.Equal(t, filepath.Join("out", "bar.svg"), env.OutPath("bar", ""))
}

func TestOutlinesWithoutCoastlines(t *testing.T) {
	env := testEnv(t)
	assert.Nil(t, env.Outlines(ncgallery.GlobalExtent))
	env.Config.Coastlines = filepath.Join(t.TempDir(), "missing.shp")
	assert.Nil(t, env.Outlines(ncgallery.GlobalExtent), "unreadable coastlines are skipped")
}

func TestDrawBar(t *testing.T) {
	env := testEnv(t)
	var d barData
	for yr := 1866; yr < 1906; yr++ {
		for m := 1; m <= 12; m++ {
			d.Dates = append(d.Dates, float64(yr)+float64(m)/100)
			d.Values = append(d.Values, math.Sin(float64(len(d.Values))/7)*2)
		}
	}
	d.Values[5] = math.NaN()
	outs, err := drawBar(d, env)
	require.NoError(t, err)
	files, err := env.saveAll("bar", outs)
	require.NoError(t, err)
	requireFiles(t, files, 1)
	assert.Equal(t, env.OutPath("bar", ""), files[0])

	_, err = drawBar(barData{}, env)
	assert.Error(t, err)
}

func TestConLev(t *testing.T) {
	env := testEnv(t)
	anom, err := loadConLev(globalField(t, "TS", 3))
	require.NoError(t, err)

	lon, err := anom.Coord("lon")
	require.NoError(t, err)
	assert.Equal(t, -180.0, lon[0])
	assert.Equal(t, 180.0, lon[len(lon)-1], "seam closes one period after the first longitude")
	assert.LessOrEqual(t, lon[0]-(lon[1]-lon[0])/2, -180.0, "the first cell reaches the left edge of the map")
	// Time step 0 minus the mean over 0, 1, 2.
	lo, hi := anom.Range()
	assert.InDelta(t, -1, lo, 1e-9)
	assert.InDelta(t, -1, hi, 1e-9)

	outs, err := drawConLev(anom, env)
	require.NoError(t, err)
	files, err := env.saveAll("conlev", outs)
	require.NoError(t, err)
	requireFiles(t, files, 1)
}

func TestDrawConwomap(t *testing.T) {
	env := testEnv(t)
	nx, ny := 50, 30
	vals := make([]float64, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			vals = append(vals, 10-math.Hypot(float64(i-25), float64(j-15))/3)
		}
	}
	u, err := ncgallery.NewField("u", []string{"y", "x"}, []int{ny, nx}, nil, vals)
	require.NoError(t, err)

	outs, err := drawConwomap(u, env)
	require.NoError(t, err)
	files, err := env.saveAll("conwomap", outs)
	require.NoError(t, err)
	requireFiles(t, files, 1)

	flat, err := ncgallery.NewField("u", []string{"x"}, []int{3}, nil, []float64{1, 2, 3})
	require.NoError(t, err)
	_, err = drawConwomap(flat, env)
	assert.ErrorContains(t, err, "2-d")
}

func TestLegend(t *testing.T) {
	env := testEnv(t)
	u, err := zonalAt(globalField(t, "U", 2), 0)
	require.NoError(t, err)
	v, err := zonalAt(globalField(t, "V", 2), 1)
	require.NoError(t, err)

	xys, err := latLine(u)
	require.NoError(t, err)
	require.Len(t, xys, 17)
	assert.Equal(t, -80.0, xys[0].X)

	outs, err := drawLegend(u, v, env)
	require.NoError(t, err)
	files, err := env.saveAll("legend", outs)
	require.NoError(t, err)
	requireFiles(t, files, 1)

	_, err = latLine(globalField(t, "U", 1))
	assert.Error(t, err, "a 3-d field is not a profile")
}

func TestDrawMask(t *testing.T) {
	env := testEnv(t)
	ts := isel(t, globalField(t, "TS", 1), 0)
	oroVals := make([]float64, len(ts.Vals))
	lon, err := ts.Coord("lon")
	require.NoError(t, err)
	for i := range oroVals {
		if x := lon[i%len(lon)]; x >= 60 && x <= 150 {
			oroVals[i] = oroLand
		}
	}
	oro, err := ncgallery.NewField("ORO", ts.Dims, ts.Shape, ts.Coords, oroVals)
	require.NoError(t, err)

	outs, err := drawMask(ts, oro, env)
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, "Ocean Only", outs[0].fig.Suptitle)
	assert.Equal(t, "Land Only", outs[1].fig.Suptitle)

	files, err := env.saveAll("mask", outs)
	require.NoError(t, err)
	requireFiles(t, files, 2)
	assert.Equal(t, env.OutPath("mask", "ocean"), files[0])
	assert.Equal(t, env.OutPath("mask", "land"), files[1])
}

func TestMaskPanels(t *testing.T) {
	for _, mp := range maskPanels {
		assert.Equal(t, 0.1, mp.cmapLo, "%s panel drops the lowest tenth of the colormap", mp.suffix)
		for _, tick := range mp.cbTicks {
			assert.Contains(t, mp.levels, tick, "%s colorbar tick %g must be a level", mp.suffix, tick)
		}
	}
}

func TestDrawPolygons(t *testing.T) {
	env := testEnv(t)
	u, err := isel(t, globalField(t, "U", 2), 1).ToSigned()
	require.NoError(t, err)
	for i := range u.Vals {
		u.Vals[i] -= 280
	}

	outs, err := drawPolygons(u, env)
	require.NoError(t, err)
	files, err := env.saveAll("polygons", outs)
	require.NoError(t, err)
	requireFiles(t, files, 2)
	assert.Equal(t, env.OutPath("polygons", "2"), files[1])
}

func TestNearestLevel(t *testing.T) {
	tests := []struct {
		v      float64
		want   float64
		wantOK bool
	}{
		{7, 8, true},
		{-9.5, -8, true},
		{4, 0, false},
		{30, 16, false},
		{math.NaN(), 0, false},
	}
	for _, tc := range tests {
		got, ok := nearestLevel(tc.v, polygonLabelLevels, 2)
		assert.Equal(t, tc.wantOK, ok, "nearestLevel(%v)", tc.v)
		if ok {
			assert.Equal(t, tc.want, got, "nearestLevel(%v)", tc.v)
		}
	}
}

func TestScatter(t *testing.T) {
	env := testEnv(t)
	const n = 100
	times := chart.Arange(7000, 7000+n, 1)
	vals := make([]float64, 0, n*3*2)
	for _, tm := range times {
		for range 3 {
			for range 2 {
				vals = append(vals, 262+0.001*tm)
			}
		}
	}
	ts, err := ncgallery.NewField("TS", []string{"time", "lat", "lon"}, []int{n, 3, 2},
		[]ncgallery.Coord{
			{Name: "time", Values: times},
			{Name: "lat", Values: []float64{0, 59, 62}},
			{Name: "lon", Values: []float64{177.5, 180}},
		}, vals)
	require.NoError(t, err)

	d, err := loadScatter(ts)
	require.NoError(t, err)
	assert.Len(t, d.Time, n-scatterWindow+1, "edges without a full window are dropped")
	assert.Len(t, d.FullTime, n)
	assert.Len(t, d.Fit, n)
	assert.InDelta(t, 0.001, d.Slope, 1e-9)
	// The centred window lags the label by half a step.
	assert.InDelta(t, 262+0.001*(7050-0.5), d.Fit[50], 1e-6)

	outs, err := drawScatter(d, env)
	require.NoError(t, err)
	files, err := env.saveAll("scatter", outs)
	require.NoError(t, err)
	requireFiles(t, files, 1)
}

func TestVectors(t *testing.T) {
	env := testEnv(t)
	u, err := thinWinds(globalField(t, "U", 2))
	require.NoError(t, err)
	v, err := thinWinds(globalField(t, "V", 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"lat", "lon"}, u.Dims)
	// 36 longitudes minus the last, every third: 12; 17 latitudes minus
	// both ends, every third: 5.
	assert.Equal(t, []int{5, 12}, u.Shape)

	outs, err := drawVectors(u, v, env)
	require.NoError(t, err)
	files, err := env.saveAll("vectors", outs)
	require.NoError(t, err)
	requireFiles(t, files, 1)

	_, err = drawVectors(globalField(t, "U", 1), v, env)
	assert.ErrorContains(t, err, "want [lat lon]")
}

func TestTickSeries(t *testing.T) {
	xs, ys := tickSeries(7)
	require.Len(t, xs, 56)
	assert.Equal(t, 1950.0, xs[0])
	assert.Equal(t, 2005.0, xs[55])
	for _, y := range ys {
		assert.True(t, y >= -4 && y < 4, "value %g out of range", y)
	}
	xs2, ys2 := tickSeries(7)
	assert.Equal(t, xs, xs2)
	assert.Equal(t, ys, ys2)
	_, ys3 := tickSeries(8)
	assert.NotEqual(t, ys, ys3)
}

func TestRunAllTicks(t *testing.T) {
	defer goleak.VerifyNone(t)
	env := testEnv(t)
	results, err := RunAll(context.Background(), env, []string{"ticks"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ticks", results[0].Name)
	require.NoError(t, results[0].Err)
	requireFiles(t, results[0].Files, 1)
}

func TestRunAllCollectsFailures(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	env := testEnv(t)
	env.Data.BaseURL = srv.URL

	results, err := RunAll(context.Background(), env, []string{"bar", "ticks"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "bar", results[0].Name)
	assert.Error(t, results[0].Err, "missing dataset")
	assert.NoError(t, results[1].Err, "one failure does not cancel the others")

	_, err = RunAll(context.Background(), env, []string{"ticks", "nope"})
	assert.Error(t, err)
}

func TestRunAllCancelled(t *testing.T) {
	env := testEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := RunAll(ctx, env, []string{"ticks"})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}
