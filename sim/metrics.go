// Tracks run-wide counters for final reporting.

package sim

import (
	"fmt"
	"time"
)

// Metrics aggregates statistics about the simulation for final reporting.
// Useful for sanity-checking a run before spending time on analysis and
// rendering.
type Metrics struct {
	ParticlesReleased int // population size at t=0
	ParticlesFrozen   int // particles that left the domain before the horizon
	StepsExecuted     int // integration steps over the whole population
	SnapshotsWritten  int // trajectory snapshots recorded
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(horizonSeconds int64, startTime time.Time) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Particles Released   : %d\n", m.ParticlesReleased)
	fmt.Printf("Particles Frozen     : %d\n", m.ParticlesFrozen)
	fmt.Printf("Integration Steps    : %d\n", m.StepsExecuted)
	fmt.Printf("Snapshots Written    : %d\n", m.SnapshotsWritten)
	fmt.Printf("Simulated Time       : %.1f days\n", float64(horizonSeconds)/86400)
	fmt.Printf("Wall Clock           : %s\n", time.Since(startTime).Round(time.Millisecond))
}
