package ncgallery

import (
	"errors"
	"math"
	"os"
	"slices"
	"testing"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		vals  []float64
		shape []int
	}{
		{"scalar", float32(2.5), []float64{2.5}, []int{1}},
		{"1-d int16", []int16{1, -2, 3}, []float64{1, -2, 3}, []int{3}},
		{"2-d float32", [][]float32{{1, 2, 3}, {4, 5, 6}}, []float64{1, 2, 3, 4, 5, 6}, []int{2, 3}},
		{"3-d uint8", [][][]uint8{{{1}, {2}}, {{3}, {4}}}, []float64{1, 2, 3, 4}, []int{2, 2, 1}},
		{"empty", []float64{}, []float64{}, []int{0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vals, shape, err := flatten(tc.in)
			if err != nil {
				t.Fatalf("flatten: %v", err)
			}
			if !slices.Equal(vals, tc.vals) || !slices.Equal(shape, tc.shape) {
				t.Errorf("flatten = %v %v, want %v %v", vals, shape, tc.vals, tc.shape)
			}
		})
	}
}

func TestFlattenErrors(t *testing.T) {
	if _, _, err := flatten([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("ragged array error = %v, want ErrShapeMismatch", err)
	}
	if _, _, err := flatten([]string{"a"}); err == nil {
		t.Error("string values: expected error")
	}
	if _, _, err := flatten(nil); err == nil {
		t.Error("nil values: expected error")
	}
}

func TestDecodeVariableUnpacks(t *testing.T) {
	v := rawVar{
		values: [][]int16{{0, 10, -999}, {20, 30, 40}},
		dims:   []string{"lat", "lon"},
		attrs: map[string]any{
			"_FillValue":   int16(-999),
			"scale_factor": float32(0.5),
			"add_offset":   float32(100),
			"units":        "K",
			"long_name":    "Surface temperature",
		},
	}
	coords := map[string]rawVar{
		"lat": {values: []float32{-45, 45}, dims: []string{"lat"}},
		"lon": {values: []float64{0, 120, 240}, dims: []string{"lon"}},
	}
	f, err := decodeVariable("TS", v, coords)
	if err != nil {
		t.Fatalf("decodeVariable: %v", err)
	}
	want := []float64{100, 105, math.NaN(), 110, 115, 120}
	for i, w := range want {
		got := f.Vals[i]
		if !(got == w || math.IsNaN(got) && math.IsNaN(w)) {
			t.Errorf("Vals[%d] = %v, want %v", i, got, w)
		}
	}
	lon, _ := f.Coord("lon")
	if !slices.Equal(lon, []float64{0, 120, 240}) {
		t.Errorf("lon = %v", lon)
	}
	if f.Attr("units") != "K" || f.Attr("long_name") != "Surface temperature" {
		t.Errorf("attrs = %v", f.Attrs)
	}
}

func TestDecodeVariableCoordinates(t *testing.T) {
	v := rawVar{
		values: [][]float64{{1, 2}, {3, 4}},
		dims:   []string{"y", "x"},
	}
	// 2-d lat on a curvilinear grid is not a dimension coordinate.
	coords := map[string]rawVar{
		"y": {values: [][]float64{{1, 2}, {3, 4}}, dims: []string{"y", "x"}},
	}
	f, err := decodeVariable("u", v, coords)
	if err != nil {
		t.Fatalf("decodeVariable: %v", err)
	}
	y, _ := f.Coord("y")
	if !slices.Equal(y, []float64{0, 1}) {
		t.Errorf("y = %v, want index coordinate [0 1]", y)
	}

	scalar, err := decodeVariable("p0", rawVar{values: float64(1000)}, nil)
	if err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if len(scalar.Dims) != 0 || scalar.Vals[0] != 1000 {
		t.Errorf("scalar = %v %v", scalar.Dims, scalar.Vals)
	}

	bad := rawVar{values: []float64{1, 2}, dims: []string{"y", "x"}}
	if _, err := decodeVariable("bad", bad, nil); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("rank mismatch error = %v, want ErrShapeMismatch", err)
	}
}

func TestUnpackFillBeforeScale(t *testing.T) {
	vals := []float64{1, 2, 3}
	unpack(vals, map[string]any{
		"missing_value": []float32{2},
		"scale_factor":  float64(10),
	})
	if vals[0] != 10 || !math.IsNaN(vals[1]) || vals[2] != 30 {
		t.Errorf("unpack = %v, want [10 NaN 30]", vals)
	}
}

// TestOpenFixture reads a committed sample if present.
func TestOpenFixture(t *testing.T) {
	const path = "testdata/uv300.nc"
	if _, err := os.Stat(path); err != nil {
		t.Skipf("fixture not present (%v); copy netcdf_files/uv300.nc from the sample data repository", err)
	}
	ds, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ds.Close()
	if !slices.Contains(ds.Variables(), "U") {
		t.Fatalf("variables %v, want U", ds.Variables())
	}
	u, err := ds.Variable("U")
	if err != nil {
		t.Fatalf("Variable(U): %v", err)
	}
	if !slices.Equal(u.Dims, []string{"time", "lat", "lon"}) {
		t.Errorf("U dims = %v", u.Dims)
	}
	if _, err := ds.Variable("nope"); !errors.Is(err, ErrNoVariable) {
		t.Errorf("missing variable error = %v, want ErrNoVariable", err)
	}
}
