// Package sim provides the core particle transport engine for driftsim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - particle.go: Particle lifecycle (drifting → frozen) and the particle set
//   - kernel.go: Per-step kernels (RK4 advection, boundary walls) and chaining
//   - simulator.go: The clock, the event heap, and the step/snapshot loop
//
// # Architecture
//
// The sim package owns time, particles and kernels; supporting concerns live
// in sub-packages:
//   - sim/field/: hydrodynamic field loading, sampling and land/coastal masks
//   - sim/traj/: trajectory snapshot storage and persistence
//   - sim/connect/: connectivity analysis against a protected-area region
//   - sim/render/: HTML map, chart and dashboard generation
//
// A run is deterministic: the same seed and scenario produce bit-identical
// trajectories. Randomness is partitioned per subsystem via PartitionedRNG so
// that adding a consumer of randomness in one subsystem never perturbs
// another.
package sim
