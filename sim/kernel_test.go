package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/driftsim/driftsim/sim/field"
	"github.com/driftsim/driftsim/sim/internal/testutil"
)

func channelField(u, v float64) *field.FieldSet {
	grid := field.RegularGrid(-5, 5, 21, 40, 45, 11)
	return field.UniformChannel(grid, []float64{0, 10 * 86400}, u, v)
}

func TestRK4Advection_UniformFlowExactDisplacement(t *testing.T) {
	// GIVEN a constant 0.1 m/s eastward flow and a particle at lat 42
	fs := channelField(0.1, 0)
	p := &Particle{ID: 0, Lon: 0, Lat: 42}
	ctx := &KernelContext{Fields: fs, Clock: 0, Dt: 3600}

	// WHEN one RK4 step runs
	RK4Advection{}.Apply(ctx, p)

	// THEN displacement equals u*dt converted to degrees at that latitude
	// (RK4 over a constant field is exact)
	wantLon := 0.1 * 3600 / (field.MetersPerDegree * math.Cos(42*math.Pi/180))
	testutil.AssertFloat64Equal(t, "lon", wantLon, p.Lon, 1e-12)
	testutil.AssertAbsClose(t, "lat", 42, p.Lat, 1e-12)
	if p.Status != StatusDrifting {
		t.Errorf("status = %v, want drifting", p.Status)
	}
}

func TestRK4Advection_NorthwardFlowNoCosCorrection(t *testing.T) {
	fs := channelField(0, 0.2)
	p := &Particle{ID: 0, Lon: 0, Lat: 42}
	ctx := &KernelContext{Fields: fs, Clock: 0, Dt: 1800}

	RK4Advection{}.Apply(ctx, p)

	wantLat := 42 + 0.2*1800/field.MetersPerDegree
	testutil.AssertFloat64Equal(t, "lat", wantLat, p.Lat, 1e-12)
	testutil.AssertAbsClose(t, "lon", 0, p.Lon, 1e-12)
}

func TestRK4Advection_FreezesAtDomainEdge(t *testing.T) {
	// GIVEN a strong eastward flow and a particle just inside the east edge
	fs := channelField(5.0, 0)
	p := &Particle{ID: 0, Lon: 4.999, Lat: 42}
	ctx := &KernelContext{Fields: fs, Clock: 7200, Dt: 6 * 3600}

	// WHEN the step would carry it past the edge
	RK4Advection{}.Apply(ctx, p)

	// THEN the particle freezes at its pre-step position, stamped with the
	// step's clock
	if p.Status != StatusFrozen {
		t.Fatal("particle not frozen at domain edge")
	}
	if p.Lon != 4.999 || p.Lat != 42 {
		t.Errorf("frozen particle moved to (%g,%g)", p.Lon, p.Lat)
	}
	if p.FrozenAt != 7200 {
		t.Errorf("FrozenAt = %d, want 7200", p.FrozenAt)
	}
}

func TestMeridianWall_ClampsWestwardEscape(t *testing.T) {
	w := MeridianWall{MinLon: -5.8}
	p := &Particle{Lon: -6.1, Lat: 36}
	w.Apply(nil, p)
	if p.Lon != -5.8 {
		t.Errorf("lon = %g, want -5.8", p.Lon)
	}

	p2 := &Particle{Lon: -5.7, Lat: 36}
	w.Apply(nil, p2)
	if p2.Lon != -5.7 {
		t.Errorf("wall moved a particle east of it: lon = %g", p2.Lon)
	}
}

// countingKernel records how many times it was applied.
type countingKernel struct{ applied int }

func (k *countingKernel) Apply(_ *KernelContext, _ *Particle) { k.applied++ }

// freezingKernel freezes every particle it sees.
type freezingKernel struct{}

func (freezingKernel) Apply(ctx *KernelContext, p *Particle) { p.Freeze(ctx.Clock) }

func TestKernelChain_FrozenShortCircuits(t *testing.T) {
	// GIVEN a chain that freezes, then counts
	counter := &countingKernel{}
	chain := KernelChain{freezingKernel{}, counter}
	ctx := &KernelContext{Clock: 100}

	// WHEN applied to a drifting particle
	p := &Particle{Status: StatusDrifting}
	chain.Apply(ctx, p)

	// THEN the kernel after the freeze never runs
	if counter.applied != 0 {
		t.Errorf("kernel after freeze applied %d times, want 0", counter.applied)
	}
	if p.FrozenAt != 100 {
		t.Errorf("FrozenAt = %d, want 100", p.FrozenAt)
	}
}

func TestDefaultKernels_AdvectsThenClampsAtWall(t *testing.T) {
	// GIVEN a westward flow and the standard chain with a wall just west of
	// the particle
	fs := channelField(-5.0, 0)
	chain := DefaultKernels(BoundaryConfig{WallLon: -0.05}, DiffusionConfig{}, NewPartitionedRNG(NewSimulationKey(1)))
	p := &Particle{ID: 0, Lon: 0, Lat: 42}
	ctx := &KernelContext{Fields: fs, Clock: 0, Dt: 6 * 3600}

	chain.Apply(ctx, p)

	// THEN advection crosses the wall and the clamp puts it back
	if p.Lon != -0.05 {
		t.Errorf("lon = %g, want clamped to -0.05", p.Lon)
	}
	if p.Status != StatusDrifting {
		t.Errorf("status = %v, want drifting", p.Status)
	}
}

func TestDefaultKernels_DiffusionOnlyWhenEnabled(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(1))

	off := DefaultKernels(BoundaryConfig{WallLon: -5.8}, DiffusionConfig{}, rng)
	if len(off) != 2 {
		t.Errorf("chain length = %d without diffusion, want 2", len(off))
	}

	on := DefaultKernels(BoundaryConfig{WallLon: -5.8}, DiffusionConfig{Kh: 10}, rng)
	if len(on) != 3 {
		t.Fatalf("chain length = %d with diffusion, want 3", len(on))
	}
	diff, ok := on[1].(BrownianDiffusion)
	if !ok {
		t.Fatalf("kernel[1] = %T, want BrownianDiffusion between advection and wall", on[1])
	}
	if diff.Rng == nil {
		t.Error("diffusion kernel has no RNG")
	}
}

func TestBrownianDiffusion_ZeroKhIsNoOp(t *testing.T) {
	fs := channelField(0, 0)
	k := BrownianDiffusion{Kh: 0, Rng: rand.New(rand.NewSource(7))}
	p := &Particle{ID: 0, Lon: 1.5, Lat: 42}

	k.Apply(&KernelContext{Fields: fs, Clock: 0, Dt: 3600}, p)

	if p.Lon != 1.5 || p.Lat != 42 {
		t.Errorf("disabled diffusion moved the particle to (%g,%g)", p.Lon, p.Lat)
	}
}

func TestBrownianDiffusion_DeterministicPerSeed(t *testing.T) {
	fs := channelField(0, 0)
	ctx := &KernelContext{Fields: fs, Clock: 0, Dt: 1800}

	a := &Particle{Lon: 0, Lat: 42}
	b := &Particle{Lon: 0, Lat: 42}
	BrownianDiffusion{Kh: 100, Rng: rand.New(rand.NewSource(7))}.Apply(ctx, a)
	BrownianDiffusion{Kh: 100, Rng: rand.New(rand.NewSource(7))}.Apply(ctx, b)

	if a.Lon != b.Lon || a.Lat != b.Lat {
		t.Errorf("same seed diverged: (%g,%g) vs (%g,%g)", a.Lon, a.Lat, b.Lon, b.Lat)
	}
	if a.Lon == 0 && a.Lat == 42 {
		t.Error("diffusion with positive Kh did not move the particle")
	}
}

func TestBrownianDiffusion_DisplacementScalesWithSqrtKh(t *testing.T) {
	// GIVEN two kernels drawing the same normals but with Kh and 4*Kh
	fs := channelField(0, 0)
	ctx := &KernelContext{Fields: fs, Clock: 0, Dt: 1800}

	a := &Particle{Lon: 0, Lat: 42}
	b := &Particle{Lon: 0, Lat: 42}
	BrownianDiffusion{Kh: 100, Rng: rand.New(rand.NewSource(7))}.Apply(ctx, a)
	BrownianDiffusion{Kh: 400, Rng: rand.New(rand.NewSource(7))}.Apply(ctx, b)

	// THEN the step length doubles: displacement goes as sqrt(2*Kh*dt)
	testutil.AssertFloat64Equal(t, "lon", 2*a.Lon, b.Lon, 1e-12)
	testutil.AssertFloat64Equal(t, "lat", 2*(a.Lat-42)+42, b.Lat, 1e-12)
}

func TestParticle_FreezeIsIdempotent(t *testing.T) {
	p := &Particle{Status: StatusDrifting}
	p.Freeze(50)
	p.Freeze(200)
	if p.FrozenAt != 50 {
		t.Errorf("FrozenAt = %d, want original freeze time 50", p.FrozenAt)
	}
}
