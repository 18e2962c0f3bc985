package field

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/sirupsen/logrus"
)

// Default variable names follow the marine-product convention used by the
// Mediterranean reanalysis files this tool was built around.
const (
	varU    = "uo"
	varV    = "vo"
	varLon  = "lon"
	varLat  = "lat"
	varTime = "time"
)

// Load reads a FieldSet from a NetCDF file holding uo/vo current components
// on (time[, depth], lat, lon) dimensions. Only the first depth level is
// used. Times are rebased to seconds since the first snapshot.
func Load(path string) (*FieldSet, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("field: open %s: %w", path, err)
	}
	defer nc.Close()

	lons, err := axisVariable(nc, varLon)
	if err != nil {
		return nil, err
	}
	lats, err := axisVariable(nc, varLat)
	if err != nil {
		return nil, err
	}
	times, timeAttrs, err := axisVariableWithAttrs(nc, varTime)
	if err != nil {
		return nil, err
	}

	u, err := componentVariable(nc, varU, len(times), len(lats), len(lons))
	if err != nil {
		return nil, err
	}
	v, err := componentVariable(nc, varV, len(times), len(lats), len(lons))
	if err != nil {
		return nil, err
	}

	scale := timeUnitSeconds(timeAttrs)
	rebased := make([]float64, len(times))
	for i, t := range times {
		rebased[i] = (t - times[0]) * scale
	}

	fs := &FieldSet{
		Grid:  Grid{Lons: lons, Lats: lats},
		Times: rebased,
		U:     u,
		V:     v,
	}
	if err := fs.Validate(); err != nil {
		return nil, err
	}
	logrus.Debugf("loaded field %s: %d snapshots, %dx%d grid, span %.1f days",
		path, len(fs.Times), len(lats), len(lons), fs.Duration()/86400)
	return fs, nil
}

// timeUnitSeconds derives a to-seconds multiplier from a CF-style time units
// attribute ("hours since ...", "days since ...", ...). Unknown or missing
// units are treated as seconds; only the relative spacing matters downstream.
func timeUnitSeconds(attrs api.AttributeMap) float64 {
	if attrs == nil {
		return 1
	}
	raw, has := attrs.Get("units")
	if !has {
		return 1
	}
	units, ok := raw.(string)
	if !ok {
		return 1
	}
	return unitSeconds(units)
}

func unitSeconds(units string) float64 {
	u := strings.ToLower(units)
	switch {
	case strings.HasPrefix(u, "day"):
		return 86400
	case strings.HasPrefix(u, "hour"):
		return 3600
	case strings.HasPrefix(u, "minute"):
		return 60
	default:
		return 1
	}
}

// axisVariable reads a 1-D coordinate variable as float64.
func axisVariable(nc api.Group, name string) ([]float64, error) {
	vals, _, err := axisVariableWithAttrs(nc, name)
	return vals, err
}

func axisVariableWithAttrs(nc api.Group, name string) ([]float64, api.AttributeMap, error) {
	vr, err := nc.GetVariable(name)
	if err != nil {
		return nil, nil, fmt.Errorf("field: variable %q: %w", name, err)
	}
	flat, shape, err := flatten64(vr.Values)
	if err != nil {
		return nil, nil, fmt.Errorf("field: variable %q: %w", name, err)
	}
	if len(shape) != 1 {
		return nil, nil, fmt.Errorf("field: variable %q: want 1 dimension, got %d", name, len(shape))
	}
	return flat, vr.Attributes, nil
}

// componentVariable reads uo/vo as [time][lat][lon] float32, taking depth
// level 0 when a depth dimension is present, and applying scale_factor /
// add_offset / _FillValue conventions.
func componentVariable(nc api.Group, name string, nTime, nLat, nLon int) ([][][]float32, error) {
	vr, err := nc.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("field: variable %q: %w", name, err)
	}
	flat, shape, err := flatten64(vr.Values)
	if err != nil {
		return nil, fmt.Errorf("field: variable %q: %w", name, err)
	}

	var nDepth int
	switch len(shape) {
	case 3:
		nDepth = 1
	case 4:
		nDepth = shape[1]
	default:
		return nil, fmt.Errorf("field: variable %q: want 3 or 4 dimensions, got %d", name, len(shape))
	}
	if shape[0] != nTime || shape[len(shape)-2] != nLat || shape[len(shape)-1] != nLon {
		return nil, fmt.Errorf("field: variable %q: shape %v does not match axes (%d,%d,%d)",
			name, shape, nTime, nLat, nLon)
	}

	scale, hasScale := attrFloat(vr.Attributes, "scale_factor")
	offset, hasOffset := attrFloat(vr.Attributes, "add_offset")
	fill, hasFill := attrFloat(vr.Attributes, "_FillValue")
	if !hasScale {
		scale = 1
	}
	if !hasOffset {
		offset = 0
	}

	out := make([][][]float32, nTime)
	for k := 0; k < nTime; k++ {
		out[k] = make([][]float32, nLat)
		// Depth level 0: the surface layer.
		base := k * nDepth * nLat * nLon
		for i := 0; i < nLat; i++ {
			row := make([]float32, nLon)
			for j := 0; j < nLon; j++ {
				raw := flat[base+i*nLon+j]
				if hasFill && raw == fill {
					row[j] = float32(math.NaN())
					continue
				}
				row[j] = float32(raw*scale + offset)
			}
			out[k][i] = row
		}
	}
	return out, nil
}

// attrFloat fetches a numeric attribute, tolerating the various integer and
// float widths NetCDF writers use.
func attrFloat(attrs api.AttributeMap, name string) (float64, bool) {
	if attrs == nil {
		return 0, false
	}
	raw, has := attrs.Get(name)
	if !has {
		return 0, false
	}
	rv := reflect.ValueOf(raw)
	// Scalar attributes sometimes arrive as single-element slices.
	if rv.Kind() == reflect.Slice && rv.Len() == 1 {
		rv = rv.Index(0)
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

// flatten64 converts an arbitrarily nested numeric slice (as returned by the
// NetCDF reader) into a flat row-major []float64 plus its shape.
func flatten64(values any) ([]float64, []int, error) {
	rv := reflect.ValueOf(values)
	shape, err := shapeOf(rv)
	if err != nil {
		return nil, nil, err
	}
	total := 1
	for _, s := range shape {
		total *= s
	}
	out := make([]float64, 0, total)
	if err := appendFlat(rv, len(shape), &out); err != nil {
		return nil, nil, err
	}
	if len(out) != total {
		return nil, nil, fmt.Errorf("ragged array: expected %d values, got %d", total, len(out))
	}
	return out, shape, nil
}

func shapeOf(rv reflect.Value) ([]int, error) {
	var shape []int
	for rv.Kind() == reflect.Slice {
		shape = append(shape, rv.Len())
		if rv.Len() == 0 {
			return nil, fmt.Errorf("empty dimension in array")
		}
		rv = rv.Index(0)
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return shape, nil
	default:
		return nil, fmt.Errorf("unsupported element kind %s", rv.Kind())
	}
}

func appendFlat(rv reflect.Value, depth int, out *[]float64) error {
	if depth == 0 {
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			*out = append(*out, rv.Float())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			*out = append(*out, float64(rv.Int()))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			*out = append(*out, float64(rv.Uint()))
		default:
			return fmt.Errorf("unsupported element kind %s", rv.Kind())
		}
		return nil
	}
	if rv.Kind() != reflect.Slice {
		return fmt.Errorf("ragged array: expected slice at depth %d", depth)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := appendFlat(rv.Index(i), depth-1, out); err != nil {
			return err
		}
	}
	return nil
}
