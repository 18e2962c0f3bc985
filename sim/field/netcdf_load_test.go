package field

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
)

// writePackedFieldFile stores a 2-snapshot 2x3 product the way trimmed
// reanalysis files come: a depth axis, short-packed components with
// scale_factor/add_offset/_FillValue, and CF "hours since" time units.
// One U cell of the first snapshot holds the fill value.
func writePackedFieldFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "field.nc")

	cw, err := cdf.OpenWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	addVar := func(name string, vr api.Variable) {
		t.Helper()
		if err := cw.AddVar(name, vr); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	addVar("lon", api.Variable{Values: []float64{10, 10.5, 11}, Dimensions: []string{"lon"}})
	addVar("lat", api.Variable{Values: []float64{40, 40.5}, Dimensions: []string{"lat"}})

	timeAttrs, err := util.NewOrderedMap([]string{"units"},
		map[string]interface{}{"units": "hours since 2019-01-01"})
	if err != nil {
		t.Fatal(err)
	}
	addVar("time", api.Variable{Values: []float64{12, 18}, Dimensions: []string{"time"}, Attributes: timeAttrs})

	packAttrs, err := util.NewOrderedMap(
		[]string{"scale_factor", "add_offset", "_FillValue"},
		map[string]interface{}{
			"scale_factor": 0.001,
			"add_offset":   0.1,
			"_FillValue":   int16(-32767),
		})
	if err != nil {
		t.Fatal(err)
	}

	// [time][depth][lat][lon]; raw 100 unpacks to 0.2 m/s, raw 50 to 0.15
	snap := func(raw int16) [][][]int16 {
		return [][][]int16{{{raw, raw, raw}, {raw, raw, raw}}}
	}
	uo := [][][][]int16{snap(100), snap(100)}
	uo[0][0][0][0] = -32767
	vo := [][][][]int16{snap(50), snap(50)}

	dims := []string{"time", "depth", "lat", "lon"}
	addVar("uo", api.Variable{Values: uo, Dimensions: dims, Attributes: packAttrs})
	addVar("vo", api.Variable{Values: vo, Dimensions: dims, Attributes: packAttrs})

	if err := cw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_PackedFileWithDepthAxis(t *testing.T) {
	fs, err := Load(writePackedFieldFile(t))
	if err != nil {
		t.Fatal(err)
	}

	if len(fs.Grid.Lons) != 3 || len(fs.Grid.Lats) != 2 {
		t.Fatalf("grid = %dx%d, want 2x3", len(fs.Grid.Lats), len(fs.Grid.Lons))
	}
	if fs.Grid.Lons[1] != 10.5 || fs.Grid.Lats[1] != 40.5 {
		t.Errorf("axes = %v / %v", fs.Grid.Lons, fs.Grid.Lats)
	}

	// Times rebased to seconds since the first snapshot, hours scaled
	if fs.Times[0] != 0 || fs.Times[1] != 21600 {
		t.Errorf("times = %v, want [0 21600]", fs.Times)
	}

	// Fill value became NaN, everything else was unpacked
	if !math.IsNaN(float64(fs.U[0][0][0])) {
		t.Errorf("fill cell = %g, want NaN", fs.U[0][0][0])
	}
	if got := float64(fs.U[0][0][1]); math.Abs(got-0.2) > 1e-6 {
		t.Errorf("U[0][0][1] = %g, want 0.2", got)
	}
	if got := float64(fs.V[0][1][2]); math.Abs(got-0.15) > 1e-6 {
		t.Errorf("V[0][1][2] = %g, want 0.15", got)
	}
	if got := float64(fs.U[1][0][0]); math.Abs(got-0.2) > 1e-6 {
		t.Errorf("U[1][0][0] = %g, want 0.2 (fill is per-cell, not per-column)", got)
	}

	// The fill cell is the only land cell
	land := LandMask(fs)
	if land.Count() != 1 || !land[0][0] {
		t.Errorf("land count = %d, want the single fill cell", land.Count())
	}

	// Sampling sees the unpacked values
	u, v, ok := fs.Sample(10800, 10.5, 40.25)
	if !ok {
		t.Fatal("sample inside the grid not ok")
	}
	if math.Abs(u-0.2) > 1e-5 || math.Abs(v-0.15) > 1e-5 {
		t.Errorf("sample = (%g, %g), want (0.2, 0.15)", u, v)
	}
}

func TestLoad_UnpackedFileWithoutDepthAxis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.nc")

	cw, err := cdf.OpenWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	addVar := func(name string, vr api.Variable) {
		t.Helper()
		if err := cw.AddVar(name, vr); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	addVar("lon", api.Variable{Values: []float64{0, 1}, Dimensions: []string{"lon"}})
	addVar("lat", api.Variable{Values: []float64{40, 41}, Dimensions: []string{"lat"}})

	timeAttrs, err := util.NewOrderedMap([]string{"units"},
		map[string]interface{}{"units": "days since 2019-01-01"})
	if err != nil {
		t.Fatal(err)
	}
	addVar("time", api.Variable{Values: []float64{10, 11}, Dimensions: []string{"time"}, Attributes: timeAttrs})

	// 3-D float components, no packing attributes
	comp := func(v float32) [][][]float32 {
		return [][][]float32{{{v, v}, {v, v}}, {{v, v}, {v, v}}}
	}
	dims := []string{"time", "lat", "lon"}
	addVar("uo", api.Variable{Values: comp(0.3), Dimensions: dims})
	addVar("vo", api.Variable{Values: comp(-0.1), Dimensions: dims})

	if err := cw.Close(); err != nil {
		t.Fatal(err)
	}

	fs, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if fs.Times[1] != 86400 {
		t.Errorf("Times[1] = %g, want 86400 (one day)", fs.Times[1])
	}
	if fs.U[1][0][1] != 0.3 || fs.V[0][1][0] != -0.1 {
		t.Errorf("components = %g / %g, want 0.3 / -0.1", fs.U[1][0][1], fs.V[0][1][0])
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.nc")); err == nil {
		t.Error("loading a missing file succeeded")
	}
}
