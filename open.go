package ncgallery

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// ErrNoVariable is returned when a dataset has no variable of the requested name.
var ErrNoVariable = errors.New("no such variable")

// Dataset is an open netCDF file.
type Dataset struct {
	Path  string
	group api.Group
}

// Open opens a netCDF (classic or HDF5-based netCDF-4) file for reading.
func Open(path string) (*Dataset, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Dataset{Path: path, group: g}, nil
}

// Close releases the underlying file.
func (d *Dataset) Close() {
	d.group.Close()
}

// Variables lists the variable names in the file.
func (d *Dataset) Variables() []string {
	return d.group.ListVariables()
}

// Variable reads a variable and its coordinate variables into a Field.
// Packed values are unpacked with scale_factor/add_offset and fill values
// become NaN.
func (d *Dataset) Variable(name string) (*Field, error) {
	raw, err := d.raw(name)
	if err != nil {
		return nil, err
	}
	coords := make(map[string]rawVar, len(raw.dims))
	for _, dim := range raw.dims {
		if dim == name {
			continue
		}
		c, err := d.raw(dim)
		if errors.Is(err, ErrNoVariable) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("coordinate of %s: %w", name, err)
		}
		coords[dim] = c
	}
	return decodeVariable(name, raw, coords)
}

func (d *Dataset) raw(name string) (rawVar, error) {
	if !slices.Contains(d.group.ListVariables(), name) {
		return rawVar{}, fmt.Errorf("%s in %s: %w", name, d.Path, ErrNoVariable)
	}
	v, err := d.group.GetVariable(name)
	if err != nil {
		return rawVar{}, fmt.Errorf("read %s: %w", name, err)
	}
	attrs := map[string]any{}
	if v.Attributes != nil {
		for _, k := range v.Attributes.Keys() {
			if val, ok := v.Attributes.Get(k); ok {
				attrs[k] = val
			}
		}
	}
	return rawVar{values: v.Values, dims: v.Dimensions, attrs: attrs}, nil
}

// rawVar is a variable as the reader hands it over: values as a possibly
// nested slice of any numeric type.
type rawVar struct {
	values any
	dims   []string
	attrs  map[string]any
}

func decodeVariable(name string, v rawVar, coords map[string]rawVar) (*Field, error) {
	vals, shape, err := flatten(v.values)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if len(shape) != len(v.dims) {
		// Scalars and single-element records come back unnested.
		if product(shape) == 1 && len(v.dims) == 0 {
			shape = nil
		} else {
			return nil, fmt.Errorf("decode %s: values are %d-d but %d dims declared: %w", name, len(shape), len(v.dims), ErrShapeMismatch)
		}
	}
	unpack(vals, v.attrs)

	var cs []Coord
	for ax, dim := range v.dims {
		c, ok := coords[dim]
		if !ok {
			continue
		}
		cv, cshape, err := flatten(c.values)
		if err != nil {
			return nil, fmt.Errorf("decode coordinate %s of %s: %w", dim, name, err)
		}
		if len(cshape) != 1 || cshape[0] != shape[ax] {
			// Not a 1-D coordinate variable (e.g. 2-D lat on a curvilinear grid).
			continue
		}
		unpack(cv, c.attrs)
		cs = append(cs, Coord{Name: dim, Values: cv})
	}

	f, err := NewField(name, v.dims, shape, cs, vals)
	if err != nil {
		return nil, err
	}
	for k, a := range v.attrs {
		if s, ok := a.(string); ok {
			f.Attrs[k] = s
		}
	}
	return f, nil
}

// unpack applies CF scale/offset and fill conventions in place.
func unpack(vals []float64, attrs map[string]any) {
	var fills []float64
	for _, key := range []string{"_FillValue", "missing_value"} {
		if a, ok := attrs[key]; ok {
			fills = append(fills, attrFloats(a)...)
		}
	}
	// Fill values are stored packed, so compare before scaling.
	applyFill(vals, fills)
	scale, offset := 1.0, 0.0
	if s := attrFloats(attrs["scale_factor"]); len(s) > 0 {
		scale = s[0]
	}
	if o := attrFloats(attrs["add_offset"]); len(o) > 0 {
		offset = o[0]
	}
	applyScale(vals, scale, offset)
}

// flatten converts a scalar or (nested) slice of numbers into a row-major
// []float64 and its shape.
func flatten(v any) ([]float64, []int, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, nil, fmt.Errorf("no values")
	}
	var shape []int
	for t := rv; t.Kind() == reflect.Slice; {
		shape = append(shape, t.Len())
		if t.Len() == 0 {
			break
		}
		t = t.Index(0)
	}
	out := make([]float64, 0, product(shape))
	var walk func(reflect.Value, int) error
	walk = func(x reflect.Value, depth int) error {
		if x.Kind() == reflect.Slice {
			if depth >= len(shape) || x.Len() != shape[depth] {
				return fmt.Errorf("ragged array at depth %d: %w", depth, ErrShapeMismatch)
			}
			for i := 0; i < x.Len(); i++ {
				if err := walk(x.Index(i), depth+1); err != nil {
					return err
				}
			}
			return nil
		}
		f, ok := toFloat(x)
		if !ok {
			return fmt.Errorf("non-numeric element type %s", x.Type())
		}
		out = append(out, f)
		return nil
	}
	if err := walk(rv, 0); err != nil {
		return nil, nil, err
	}
	if len(shape) == 0 {
		shape = []int{1}
	}
	return out, shape, nil
}

func toFloat(x reflect.Value) (float64, bool) {
	switch x.Kind() {
	case reflect.Float32, reflect.Float64:
		return x.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(x.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(x.Uint()), true
	}
	return 0, false
}

// attrFloats reads a numeric attribute that may be a scalar or a slice.
func attrFloats(a any) []float64 {
	if a == nil {
		return nil
	}
	vals, _, err := flatten(a)
	if err != nil {
		return nil
	}
	return vals
}
