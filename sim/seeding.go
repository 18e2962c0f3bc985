package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/driftsim/driftsim/sim/field"
)

// SeedParticles samples release sites from the coastal band of the field:
// water cells within a few dilation passes of land, excluding cells at or
// west of the exclusion meridian. Sites are drawn uniformly without
// replacement; when the band holds fewer cells than requested, every cell is
// used and a warning is logged.
func SeedParticles(fs *field.FieldSet, cfg ReleaseConfig, rng *rand.Rand) (*ParticleSet, error) {
	if cfg.Particles <= 0 {
		return nil, fmt.Errorf("seeding: particle count must be positive, got %d", cfg.Particles)
	}
	iterations := cfg.DilationIterations
	if iterations <= 0 {
		iterations = 4
	}

	land := field.LandMask(fs)
	nLand := land.Count()
	nCells := len(fs.Grid.Lats) * len(fs.Grid.Lons)
	if nLand == 0 || nLand == nCells {
		return nil, fmt.Errorf("seeding: field has no coastline (%d/%d land cells)", nLand, nCells)
	}

	band := field.CoastalBand(land, iterations)
	cells := band.Cells()

	// Atlantic exclusion: keep only cells east of the threshold.
	kept := cells[:0]
	for _, c := range cells {
		if fs.Grid.Lons[c.LonIdx] > cfg.ExclusionLon {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("seeding: coastal band empty after exclusion at lon %.2f", cfg.ExclusionLon)
	}

	chosen := kept
	if len(kept) > cfg.Particles {
		chosen = sampleWithoutReplacement(kept, cfg.Particles, rng)
	} else if len(kept) < cfg.Particles {
		logrus.Warnf("coastal band has %d cells for %d requested particles; releasing one per cell",
			len(kept), cfg.Particles)
	}

	lons := make([]float64, len(chosen))
	lats := make([]float64, len(chosen))
	for i, c := range chosen {
		lons[i] = fs.Grid.Lons[c.LonIdx]
		lats[i] = fs.Grid.Lats[c.LatIdx]
	}
	logrus.Infof("released %d particles on the coastal band (%d candidate cells)", len(chosen), len(kept))
	return NewParticleSet(lons, lats), nil
}

// sampleWithoutReplacement draws n distinct cells via a partial
// Fisher-Yates shuffle. The input order is the mask's row-major cell order,
// so results are reproducible for a given seed.
func sampleWithoutReplacement(cells []field.Cell, n int, rng *rand.Rand) []field.Cell {
	pool := make([]field.Cell, len(cells))
	copy(pool, cells)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
