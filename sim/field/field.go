// Package field loads and samples gridded hydrodynamic velocity fields.
//
// A FieldSet holds the U (eastward) and V (northward) current components on a
// regular lon/lat grid over a sequence of time snapshots. Sampling is
// bilinear in space and linear in time; requests outside the time axis clamp
// to the first/last snapshot, mirroring how trajectory frameworks allow time
// extrapolation when the run outlasts the forcing data.
package field

import (
	"fmt"
	"math"
	"sort"
)

// FillThreshold is the magnitude above which a stored value is treated as a
// fill (land) value. Marine products commonly encode land as NaN or a huge
// sentinel.
const FillThreshold = 1e10

// MetersPerDegree converts degrees of latitude (and of longitude at the
// equator) to meters on a spherical earth: 1852 m per arc minute.
const MetersPerDegree = 1852.0 * 60.0

// Grid holds the horizontal axes of a field. Both axes must be strictly
// ascending and hold at least two points.
type Grid struct {
	Lons []float64 // degrees east
	Lats []float64 // degrees north
}

// RegularGrid builds an evenly spaced grid with n points per axis (inclusive
// of both endpoints).
func RegularGrid(lonMin, lonMax float64, nLon int, latMin, latMax float64, nLat int) Grid {
	lons := make([]float64, nLon)
	for i := range lons {
		lons[i] = lonMin + (lonMax-lonMin)*float64(i)/float64(nLon-1)
	}
	lats := make([]float64, nLat)
	for i := range lats {
		lats[i] = latMin + (latMax-latMin)*float64(i)/float64(nLat-1)
	}
	return Grid{Lons: lons, Lats: lats}
}

// Contains reports whether the position lies inside the grid's bounding box.
func (g Grid) Contains(lon, lat float64) bool {
	return lon >= g.Lons[0] && lon <= g.Lons[len(g.Lons)-1] &&
		lat >= g.Lats[0] && lat <= g.Lats[len(g.Lats)-1]
}

// FieldSet is a time sequence of U/V velocity snapshots on a shared grid.
// Component layout is [time][lat][lon] in m/s. Land cells hold NaN or a
// fill sentinel; Sample treats them as zero velocity so particles stall at
// the coast instead of erroring.
type FieldSet struct {
	Grid  Grid
	Times []float64 // seconds since the first snapshot, ascending
	U     [][][]float32
	V     [][][]float32
}

// Validate checks axis and component shape consistency.
func (fs *FieldSet) Validate() error {
	if len(fs.Grid.Lons) < 2 || len(fs.Grid.Lats) < 2 {
		return fmt.Errorf("field: grid needs at least 2 points per axis, got %dx%d",
			len(fs.Grid.Lons), len(fs.Grid.Lats))
	}
	if len(fs.Times) == 0 {
		return fmt.Errorf("field: empty time axis")
	}
	if len(fs.U) != len(fs.Times) || len(fs.V) != len(fs.Times) {
		return fmt.Errorf("field: component snapshots (%d U, %d V) do not match time axis length %d",
			len(fs.U), len(fs.V), len(fs.Times))
	}
	for k := range fs.U {
		if len(fs.U[k]) != len(fs.Grid.Lats) || len(fs.V[k]) != len(fs.Grid.Lats) {
			return fmt.Errorf("field: snapshot %d lat dimension mismatch", k)
		}
		if len(fs.U[k][0]) != len(fs.Grid.Lons) || len(fs.V[k][0]) != len(fs.Grid.Lons) {
			return fmt.Errorf("field: snapshot %d lon dimension mismatch", k)
		}
	}
	for i := 1; i < len(fs.Times); i++ {
		if fs.Times[i] <= fs.Times[i-1] {
			return fmt.Errorf("field: time axis not strictly ascending at index %d", i)
		}
	}
	return nil
}

// Duration returns the span of the time axis in seconds.
func (fs *FieldSet) Duration() float64 {
	return fs.Times[len(fs.Times)-1] - fs.Times[0]
}

// Sample returns the interpolated velocity (m/s) at time t (seconds since the
// first snapshot) and position (lon, lat). ok is false when the position is
// outside the grid's lateral bounding box; callers should freeze the particle
// in that case. Time outside the axis clamps to the nearest snapshot.
func (fs *FieldSet) Sample(t, lon, lat float64) (u, v float64, ok bool) {
	if !fs.Grid.Contains(lon, lat) {
		return 0, 0, false
	}

	k0, k1, wt := fs.timeBracket(t)
	u0, v0 := fs.sampleSnapshot(k0, lon, lat)
	if k0 == k1 {
		return u0, v0, true
	}
	u1, v1 := fs.sampleSnapshot(k1, lon, lat)
	return u0*(1-wt) + u1*wt, v0*(1-wt) + v1*wt, true
}

// timeBracket locates the snapshot pair surrounding t and the interpolation
// weight toward the later snapshot. Out-of-range t clamps to an endpoint.
func (fs *FieldSet) timeBracket(t float64) (k0, k1 int, w float64) {
	n := len(fs.Times)
	if t <= fs.Times[0] || n == 1 {
		return 0, 0, 0
	}
	if t >= fs.Times[n-1] {
		return n - 1, n - 1, 0
	}
	k1 = sort.SearchFloat64s(fs.Times, t)
	if fs.Times[k1] == t {
		return k1, k1, 0
	}
	k0 = k1 - 1
	w = (t - fs.Times[k0]) / (fs.Times[k1] - fs.Times[k0])
	return k0, k1, w
}

// sampleSnapshot bilinearly interpolates one snapshot at (lon, lat).
func (fs *FieldSet) sampleSnapshot(k int, lon, lat float64) (u, v float64) {
	j0, j1, wx := axisBracket(fs.Grid.Lons, lon)
	i0, i1, wy := axisBracket(fs.Grid.Lats, lat)

	us := fs.U[k]
	vs := fs.V[k]
	u = bilinear(
		waterValue(us[i0][j0]), waterValue(us[i0][j1]),
		waterValue(us[i1][j0]), waterValue(us[i1][j1]), wx, wy)
	v = bilinear(
		waterValue(vs[i0][j0]), waterValue(vs[i0][j1]),
		waterValue(vs[i1][j0]), waterValue(vs[i1][j1]), wx, wy)
	return u, v
}

// axisBracket locates the cell [a0, a1] surrounding x on an ascending axis
// and the fractional position inside it. x at or beyond an edge clamps.
func axisBracket(axis []float64, x float64) (a0, a1 int, w float64) {
	n := len(axis)
	if x <= axis[0] {
		return 0, 0, 0
	}
	if x >= axis[n-1] {
		return n - 1, n - 1, 0
	}
	a1 = sort.SearchFloat64s(axis, x)
	if axis[a1] == x {
		return a1, a1, 0
	}
	a0 = a1 - 1
	w = (x - axis[a0]) / (axis[a1] - axis[a0])
	return a0, a1, w
}

func bilinear(v00, v01, v10, v11, wx, wy float64) float64 {
	return v00*(1-wx)*(1-wy) + v01*wx*(1-wy) + v10*(1-wx)*wy + v11*wx*wy
}

// waterValue converts a stored component value to a usable velocity.
// Land and fill values contribute zero.
func waterValue(f float32) float64 {
	v := float64(f)
	if math.IsNaN(v) || math.Abs(v) > FillThreshold {
		return 0
	}
	return v
}

// IsLandValue reports whether a stored component value encodes land: NaN, a
// fill sentinel, or exactly zero (masked products zero out land cells).
func IsLandValue(f float32) bool {
	v := float64(f)
	return math.IsNaN(v) || math.Abs(v) > FillThreshold || v == 0
}
