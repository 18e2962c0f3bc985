package field

import "math"

// Synthetic fields used by tests and demo scenarios. They exercise the same
// sampling and masking paths as NetCDF-loaded products.

// UniformChannel builds a field with constant velocity (u, v) m/s everywhere.
func UniformChannel(grid Grid, times []float64, u, v float64) *FieldSet {
	fs := &FieldSet{Grid: grid, Times: times}
	nLat := len(grid.Lats)
	nLon := len(grid.Lons)
	for range times {
		uSnap := make([][]float32, nLat)
		vSnap := make([][]float32, nLat)
		for i := 0; i < nLat; i++ {
			uSnap[i] = make([]float32, nLon)
			vSnap[i] = make([]float32, nLon)
			for j := 0; j < nLon; j++ {
				uSnap[i][j] = float32(u)
				vSnap[i][j] = float32(v)
			}
		}
		fs.U = append(fs.U, uSnap)
		fs.V = append(fs.V, vSnap)
	}
	return fs
}

// RotatingGyre builds a solid-body rotation around the grid center with
// angular speed omega (rad/s), scaled so velocities are in m/s on a locally
// flat projection. Useful for closed-trajectory tests.
func RotatingGyre(grid Grid, times []float64, omega float64) *FieldSet {
	fs := &FieldSet{Grid: grid, Times: times}
	nLat := len(grid.Lats)
	nLon := len(grid.Lons)
	cLon := (grid.Lons[0] + grid.Lons[nLon-1]) / 2
	cLat := (grid.Lats[0] + grid.Lats[nLat-1]) / 2
	for range times {
		uSnap := make([][]float32, nLat)
		vSnap := make([][]float32, nLat)
		for i := 0; i < nLat; i++ {
			uSnap[i] = make([]float32, nLon)
			vSnap[i] = make([]float32, nLon)
			for j := 0; j < nLon; j++ {
				dx := (grid.Lons[j] - cLon) * MetersPerDegree * math.Cos(cLat*math.Pi/180)
				dy := (grid.Lats[i] - cLat) * MetersPerDegree
				uSnap[i][j] = float32(-omega * dy)
				vSnap[i][j] = float32(omega * dx)
			}
		}
		fs.U = append(fs.U, uSnap)
		fs.V = append(fs.V, vSnap)
	}
	return fs
}

// WithLandBorder zeroes out a border of the given width (in cells) on every
// snapshot, turning it into land for masking purposes. Returns fs.
func WithLandBorder(fs *FieldSet, width int) *FieldSet {
	nLat := len(fs.Grid.Lats)
	nLon := len(fs.Grid.Lons)
	nan := float32(math.NaN())
	for k := range fs.U {
		for i := 0; i < nLat; i++ {
			for j := 0; j < nLon; j++ {
				if i < width || i >= nLat-width || j < width || j >= nLon-width {
					fs.U[k][i][j] = nan
					fs.V[k][i][j] = nan
				}
			}
		}
	}
	return fs
}
