package field

import (
	"math"
	"testing"
)

func testGrid() Grid {
	return RegularGrid(0, 10, 11, 40, 45, 11)
}

func TestUniformChannel_SampleIsConstant(t *testing.T) {
	// GIVEN a uniform 0.2/-0.1 m/s field
	fs := UniformChannel(testGrid(), []float64{0, 86400}, 0.2, -0.1)

	// WHEN sampled at arbitrary interior positions and times
	positions := [][2]float64{{0.3, 40.7}, {5, 42.5}, {9.99, 44.9}}
	for _, pos := range positions {
		u, v, ok := fs.Sample(43200, pos[0], pos[1])
		// THEN the constant velocity comes back exactly
		if !ok {
			t.Fatalf("sample at (%g,%g) not ok", pos[0], pos[1])
		}
		if u != 0.2 || v != -0.1 {
			t.Errorf("sample at (%g,%g) = (%g,%g), want (0.2,-0.1)", pos[0], pos[1], u, v)
		}
	}
}

func TestFieldSet_TimeInterpolationMidpoint(t *testing.T) {
	// GIVEN two snapshots with different uniform U (0.0 then 1.0)
	fs := UniformChannel(testGrid(), []float64{0, 86400}, 0, 0)
	for i := range fs.U[1] {
		for j := range fs.U[1][i] {
			fs.U[1][i][j] = 1.0
		}
	}

	// WHEN sampled at the temporal midpoint
	u, _, ok := fs.Sample(43200, 5, 42.5)

	// THEN U is the average of both snapshots
	if !ok {
		t.Fatal("sample not ok")
	}
	if math.Abs(u-0.5) > 1e-12 {
		t.Errorf("u = %g, want 0.5", u)
	}
}

func TestFieldSet_TimeExtrapolationClamps(t *testing.T) {
	fs := UniformChannel(testGrid(), []float64{0, 86400}, 0, 0)
	for i := range fs.U[1] {
		for j := range fs.U[1][i] {
			fs.U[1][i][j] = 1.0
		}
	}

	// Beyond the last snapshot: last value. Before the first: first value.
	if u, _, _ := fs.Sample(1e9, 5, 42.5); u != 1.0 {
		t.Errorf("late extrapolation u = %g, want 1.0", u)
	}
	if u, _, _ := fs.Sample(-100, 5, 42.5); u != 0.0 {
		t.Errorf("early extrapolation u = %g, want 0.0", u)
	}
}

func TestFieldSet_SingleSnapshotDegenerates(t *testing.T) {
	fs := UniformChannel(testGrid(), []float64{0}, 0.3, 0)
	u, _, ok := fs.Sample(5e6, 5, 42.5)
	if !ok || u != 0.3 {
		t.Errorf("single-snapshot sample = (%g, %v), want (0.3, true)", u, ok)
	}
}

func TestFieldSet_OutsideGridNotOK(t *testing.T) {
	fs := UniformChannel(testGrid(), []float64{0}, 0.1, 0.1)
	cases := [][2]float64{{-0.1, 42}, {10.1, 42}, {5, 39.9}, {5, 45.1}}
	for _, pos := range cases {
		if _, _, ok := fs.Sample(0, pos[0], pos[1]); ok {
			t.Errorf("sample at (%g,%g) ok, want out of domain", pos[0], pos[1])
		}
	}
}

func TestFieldSet_LandContributesZero(t *testing.T) {
	// GIVEN a uniform field with one NaN (land) grid node
	fs := UniformChannel(testGrid(), []float64{0}, 1.0, 0)
	fs.U[0][5][5] = float32(math.NaN())
	fs.V[0][5][5] = float32(math.NaN())

	// WHEN sampled exactly on the land node
	u, v, ok := fs.Sample(0, fs.Grid.Lons[5], fs.Grid.Lats[5])

	// THEN velocity is zero, not NaN
	if !ok {
		t.Fatal("sample not ok")
	}
	if u != 0 || v != 0 {
		t.Errorf("land sample = (%g,%g), want (0,0)", u, v)
	}

	// AND a neighboring midpoint blends land as zero
	u, _, _ = fs.Sample(0, (fs.Grid.Lons[5]+fs.Grid.Lons[6])/2, fs.Grid.Lats[5])
	if math.IsNaN(u) || u <= 0 || u >= 1 {
		t.Errorf("coastal blend u = %g, want strictly between 0 and 1", u)
	}
}

func TestFieldSet_ValidateCatchesShapeMismatch(t *testing.T) {
	fs := UniformChannel(testGrid(), []float64{0, 86400}, 0, 0)
	fs.V = fs.V[:1]
	if err := fs.Validate(); err == nil {
		t.Error("Validate accepted mismatched component lengths")
	}
}

func TestIsLandValue(t *testing.T) {
	cases := []struct {
		v    float32
		land bool
	}{
		{float32(math.NaN()), true},
		{0, true},
		{2e10, true},
		{-2e10, true},
		{0.5, false},
		{-0.5, false},
	}
	for _, c := range cases {
		if got := IsLandValue(c.v); got != c.land {
			t.Errorf("IsLandValue(%g) = %v, want %v", c.v, got, c.land)
		}
	}
}
