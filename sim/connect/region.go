// Package connect measures connectivity between released particles and a
// protected-area region: which particles enter the region once competent,
// when they first arrive, and how the captured population accumulates.
package connect

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Region is the lon/lat bounding box of a marine protected area.
type Region struct {
	bound orb.Bound
}

// NewRegion builds a Region from box edges in degrees.
func NewRegion(lonMin, lonMax, latMin, latMax float64) (Region, error) {
	if lonMin >= lonMax || latMin >= latMax {
		return Region{}, fmt.Errorf("connect: degenerate region [%g,%g]x[%g,%g]",
			lonMin, lonMax, latMin, latMax)
	}
	return Region{bound: orb.Bound{
		Min: orb.Point{lonMin, latMin},
		Max: orb.Point{lonMax, latMax},
	}}, nil
}

// Contains reports whether the position lies inside the region (edges
// inclusive).
func (r Region) Contains(lon, lat float64) bool {
	return r.bound.Contains(orb.Point{lon, lat})
}

// Bound returns the region's bounding box.
func (r Region) Bound() orb.Bound { return r.bound }
