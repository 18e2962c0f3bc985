package sim

// ReleaseConfig groups release-site sampling parameters for SeedParticles.
type ReleaseConfig struct {
	Particles          int     // number of particles to release (must be > 0)
	ExclusionLon       float64 // drop coastal cells with lon <= this (Atlantic exclusion)
	DilationIterations int     // land-mask dilation passes for the coastal band (default 4)
}

// IntegrationConfig groups time-stepping parameters.
type IntegrationConfig struct {
	DtSeconds       int64 // integration step (must be > 0)
	OutputDtSeconds int64 // snapshot cadence (must be >= DtSeconds)
	HorizonSeconds  int64 // total simulated time (must be > 0)
}

// BoundaryConfig groups boundary kernels applied after advection.
type BoundaryConfig struct {
	WallLon float64 // particles are clamped east of this meridian (Gibraltar wall)
}

// DiffusionConfig groups the random-walk diffusion kernel parameters.
type DiffusionConfig struct {
	Kh float64 // horizontal diffusivity (m^2/s); 0 disables the kernel
}
