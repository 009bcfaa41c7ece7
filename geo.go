package ncgallery

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ctessum/geom"
)

// NormLon converts a 0-360 longitude to -180..+180.
func NormLon(lon float64) float64 {
	if lon > 180 {
		return lon - 360
	}
	return lon
}

// Lon360 maps any longitude into [0, 360).
func Lon360(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

// LonLabel formats a longitude the way map tick labels are written:
// 120°W, 0°, 60°E, 180°. Values are normalised to -180..180 first.
func LonLabel(lon float64) string {
	lon = NormLon(Lon360(lon))
	switch {
	case lon == 0 || lon == 180 || lon == -180:
		return formatDeg(math.Abs(lon)) + "°"
	case lon < 0:
		return formatDeg(-lon) + "°W"
	default:
		return formatDeg(lon) + "°E"
	}
}

// LatLabel formats a latitude as 30°S, 0°, 30°N.
func LatLabel(lat float64) string {
	switch {
	case lat == 0:
		return "0°"
	case lat < 0:
		return formatDeg(-lat) + "°S"
	default:
		return formatDeg(lat) + "°N"
	}
}

// LatLabelNCL formats a latitude the compact NCL way: 30S, 0, 30N.
func LatLabelNCL(lat float64) string {
	switch {
	case lat == 0:
		return "0"
	case lat < 0:
		return formatDeg(-lat) + "S"
	default:
		return formatDeg(lat) + "N"
	}
}

func formatDeg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Extent is a lon/lat box in degrees.
type Extent struct {
	West, East, South, North float64
}

// GlobalExtent spans the whole globe in -180..180 longitudes.
var GlobalExtent = Extent{West: -180, East: 180, South: -90, North: 90}

// Bounds returns the extent as a geometry bounding box (X = lon, Y = lat).
func (e Extent) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: e.West, Y: e.South},
		Max: geom.Point{X: e.East, Y: e.North},
	}
}

// Contains reports whether (lon, lat) lies inside the extent.
func (e Extent) Contains(lon, lat float64) bool {
	return lon >= e.West && lon <= e.East && lat >= e.South && lat <= e.North
}

// Validate checks that the extent is well ordered and within lon/lat ranges.
func (e Extent) Validate() error {
	if e.West >= e.East || e.South >= e.North {
		return fmt.Errorf("extent %+v: west/south must be below east/north", e)
	}
	if e.South < -90 || e.North > 90 {
		return fmt.Errorf("extent %+v: latitude outside [-90, 90]", e)
	}
	return nil
}

// ToSigned returns a copy of f whose longitude coordinate is mapped to
// [-180, 180) and rotated so it stays ascending. A 180° column becomes the
// first column at -180, so a global grid closed with AddCyclic spans
// exactly -180..180. Fields without a lon dimension, or already in
// [-180, 180), are returned unchanged.
func (f *Field) ToSigned() (*Field, error) {
	ax, err := f.Axis("lon")
	if err != nil {
		return f, nil
	}
	lons := f.Coords[ax].Values
	n := len(lons)
	// First index whose longitude lands at or past 180.
	split := n
	for i, l := range lons {
		if l >= 180 {
			split = i
			break
		}
	}
	if split == n {
		return f, nil
	}
	outer, inner := splitShape(f.Shape, ax)
	out := f.Clone()
	for o := 0; o < outer; o++ {
		for i := 0; i < n; i++ {
			src := (i + split) % n
			copy(out.Vals[(o*n+i)*inner:(o*n+i+1)*inner], f.Vals[(o*n+src)*inner:(o*n+src+1)*inner])
		}
	}
	for i := 0; i < n; i++ {
		l := lons[(i+split)%n]
		if l >= 180 {
			l -= 360
		}
		out.Coords[ax].Values[i] = l
	}
	for i := 1; i < n; i++ {
		if out.Coords[ax].Values[i] <= out.Coords[ax].Values[i-1] {
			return nil, fmt.Errorf("field %q: longitudes do not rotate to an ascending axis: %w", f.Name, ErrUnsupportedGrid)
		}
	}
	return out, nil
}
