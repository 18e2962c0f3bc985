// Package traj stores and persists particle trajectory snapshots.
//
// A Dataset is particle-major: Lon[p][s] is particle p's longitude at
// snapshot s. NaN marks slots after a particle left the domain. Persistence
// is a gzipped CSV next to a YAML manifest describing the run, so stored
// runs can be re-analyzed and re-rendered without re-simulating.
package traj

import (
	"fmt"
	"math"
)

// Dataset holds the recorded trajectories of one simulation run.
type Dataset struct {
	Times []float64   // snapshot times, seconds since simulation start
	Lon   [][]float64 // [particle][snapshot]
	Lat   [][]float64 // [particle][snapshot]
}

// NewDataset allocates an empty dataset for a fixed population size.
func NewDataset(particles int) *Dataset {
	d := &Dataset{
		Lon: make([][]float64, particles),
		Lat: make([][]float64, particles),
	}
	for i := 0; i < particles; i++ {
		d.Lon[i] = make([]float64, 0, 16)
		d.Lat[i] = make([]float64, 0, 16)
	}
	return d
}

// Particles returns the population size.
func (d *Dataset) Particles() int { return len(d.Lon) }

// Snapshots returns the number of recorded snapshots.
func (d *Dataset) Snapshots() int { return len(d.Times) }

// DaysSinceStart converts snapshot index s to days since the first snapshot.
func (d *Dataset) DaysSinceStart(s int) float64 {
	return (d.Times[s] - d.Times[0]) / 86400
}

// AppendSnapshot records one position per particle at the given time.
// Slice lengths must match the population size.
func (d *Dataset) AppendSnapshot(timeS float64, lons, lats []float64) {
	if len(lons) != len(d.Lon) || len(lats) != len(d.Lat) {
		panic(fmt.Sprintf("traj: snapshot size %d/%d does not match population %d",
			len(lons), len(lats), len(d.Lon)))
	}
	d.Times = append(d.Times, timeS)
	for i := range lons {
		d.Lon[i] = append(d.Lon[i], lons[i])
		d.Lat[i] = append(d.Lat[i], lats[i])
	}
}

// Valid reports whether particle p has a recorded (non-NaN) position at
// snapshot s.
func (d *Dataset) Valid(p, s int) bool {
	return !math.IsNaN(d.Lon[p][s]) && !math.IsNaN(d.Lat[p][s])
}

// LastValid returns the index of particle p's last non-NaN snapshot, or -1
// if it never had one.
func (d *Dataset) LastValid(p int) int {
	for s := d.Snapshots() - 1; s >= 0; s-- {
		if d.Valid(p, s) {
			return s
		}
	}
	return -1
}
