package sim

import (
	"math"
	"math/rand"

	"github.com/driftsim/driftsim/sim/field"
)

// KernelContext carries the per-step state kernels operate on.
type KernelContext struct {
	Fields *field.FieldSet
	Clock  int64 // simulation time at the start of the step (seconds)
	Dt     int64 // step length (seconds)
}

// Kernel mutates one particle for one step. Kernels are composed into a
// chain and applied in order, advection first, boundary conditions after.
type Kernel interface {
	Apply(ctx *KernelContext, p *Particle)
}

// KernelChain applies kernels in order. Frozen particles short-circuit.
type KernelChain []Kernel

func (kc KernelChain) Apply(ctx *KernelContext, p *Particle) {
	for _, k := range kc {
		if p.Status != StatusDrifting {
			return
		}
		k.Apply(ctx, p)
	}
}

// RK4Advection integrates particle positions with classic fourth-order
// Runge-Kutta over the velocity field. Velocities are m/s; displacement is
// converted to degrees on a spherical mesh, with a cos(lat) correction for
// longitude. A particle whose stage positions leave the lateral domain is
// frozen at its pre-step position.
type RK4Advection struct{}

func (RK4Advection) Apply(ctx *KernelContext, p *Particle) {
	t := float64(ctx.Clock)
	dt := float64(ctx.Dt)

	u1, v1, ok := sampleDeg(ctx.Fields, t, p.Lon, p.Lat)
	if !ok {
		p.Freeze(ctx.Clock)
		return
	}
	lon1, lat1 := p.Lon+u1*dt/2, p.Lat+v1*dt/2

	u2, v2, ok := sampleDeg(ctx.Fields, t+dt/2, lon1, lat1)
	if !ok {
		p.Freeze(ctx.Clock)
		return
	}
	lon2, lat2 := p.Lon+u2*dt/2, p.Lat+v2*dt/2

	u3, v3, ok := sampleDeg(ctx.Fields, t+dt/2, lon2, lat2)
	if !ok {
		p.Freeze(ctx.Clock)
		return
	}
	lon3, lat3 := p.Lon+u3*dt, p.Lat+v3*dt

	u4, v4, ok := sampleDeg(ctx.Fields, t+dt, lon3, lat3)
	if !ok {
		p.Freeze(ctx.Clock)
		return
	}

	newLon := p.Lon + (u1+2*u2+2*u3+u4)/6*dt
	newLat := p.Lat + (v1+2*v2+2*v3+v4)/6*dt
	if !ctx.Fields.Grid.Contains(newLon, newLat) {
		p.Freeze(ctx.Clock)
		return
	}
	p.Lon, p.Lat = newLon, newLat
}

// sampleDeg samples the field and converts m/s to deg/s at the sample point.
func sampleDeg(fs *field.FieldSet, t, lon, lat float64) (uDeg, vDeg float64, ok bool) {
	u, v, ok := fs.Sample(t, lon, lat)
	if !ok {
		return 0, 0, false
	}
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}
	return u / (field.MetersPerDegree * cosLat), v / field.MetersPerDegree, true
}

// BrownianDiffusion adds an uncorrelated horizontal random walk with
// diffusivity Kh (m^2/s): each step displaces the particle by
// sqrt(2*Kh*dt)*N(0,1) meters per axis, converted to degrees at the
// particle's latitude. Draws come from the kernel RNG subsystem so enabling
// diffusion never perturbs release-site sampling.
type BrownianDiffusion struct {
	Kh  float64
	Rng *rand.Rand
}

func (k BrownianDiffusion) Apply(ctx *KernelContext, p *Particle) {
	if k.Kh <= 0 {
		return
	}
	scale := math.Sqrt(2 * k.Kh * float64(ctx.Dt))
	dxm := scale * k.Rng.NormFloat64()
	dym := scale * k.Rng.NormFloat64()
	cosLat := math.Cos(p.Lat * math.Pi / 180)
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}
	lon := p.Lon + dxm/(field.MetersPerDegree*cosLat)
	lat := p.Lat + dym/field.MetersPerDegree
	if !ctx.Fields.Grid.Contains(lon, lat) {
		p.Freeze(ctx.Clock)
		return
	}
	p.Lon, p.Lat = lon, lat
}

// DefaultKernels builds the standard chain: RK4 advection, Brownian
// diffusion when enabled, then the meridian wall.
func DefaultKernels(b BoundaryConfig, d DiffusionConfig, rng *PartitionedRNG) KernelChain {
	chain := KernelChain{RK4Advection{}}
	if d.Kh > 0 {
		chain = append(chain, BrownianDiffusion{Kh: d.Kh, Rng: rng.ForSubsystem(SubsystemKernel)})
	}
	return append(chain, MeridianWall{MinLon: b.WallLon})
}

// MeridianWall clamps particles that cross west of MinLon back onto it,
// preventing escape through an open strait (Gibraltar in the reference
// scenario).
type MeridianWall struct {
	MinLon float64
}

func (w MeridianWall) Apply(_ *KernelContext, p *Particle) {
	if p.Lon < w.MinLon {
		p.Lon = w.MinLon
	}
}
