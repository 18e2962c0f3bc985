package sim

// ParticleStatus tracks a particle through its lifecycle.
type ParticleStatus int

const (
	// StatusDrifting means the particle is advected every step.
	StatusDrifting ParticleStatus = iota
	// StatusFrozen means the particle left the field's lateral domain and is
	// no longer advected. Snapshots taken after the freeze record NaN for it,
	// matching how deleted particles appear in trajectory archives.
	StatusFrozen
)

// Particle is a virtual drifter advected through the velocity field.
// Positions are in degrees (lon east-positive, lat north-positive).
type Particle struct {
	ID     int
	Lon    float64
	Lat    float64
	Status ParticleStatus
	// FrozenAt is the simulation clock (seconds) at which the particle froze.
	// Meaningful only when Status == StatusFrozen.
	FrozenAt int64
}

// Freeze marks the particle as out of domain at the given clock.
// Idempotent: a frozen particle keeps its original freeze time.
func (p *Particle) Freeze(clock int64) {
	if p.Status == StatusFrozen {
		return
	}
	p.Status = StatusFrozen
	p.FrozenAt = clock
}

// ParticleSet is the population advected by the simulator.
// Order is release order and is stable for the whole run; particle IDs
// equal their index in Particles.
type ParticleSet struct {
	Particles []*Particle
}

// NewParticleSet creates a set from release positions.
func NewParticleSet(lons, lats []float64) *ParticleSet {
	ps := &ParticleSet{Particles: make([]*Particle, len(lons))}
	for i := range lons {
		ps.Particles[i] = &Particle{ID: i, Lon: lons[i], Lat: lats[i], Status: StatusDrifting}
	}
	return ps
}

// Len returns the population size.
func (ps *ParticleSet) Len() int { return len(ps.Particles) }

// Drifting returns the number of particles still being advected.
func (ps *ParticleSet) Drifting() int {
	n := 0
	for _, p := range ps.Particles {
		if p.Status == StatusDrifting {
			n++
		}
	}
	return n
}
