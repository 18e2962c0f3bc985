package sim

// Event is a scheduled action on the simulator's clock.
type Event interface {
	Timestamp() int64
	Execute(sim *Simulator)
}

// eventRank breaks ties between events scheduled at the same instant:
// snapshots run before steps so a snapshot records the state at exactly its
// timestamp, not after the step that shares it.
func eventRank(ev Event) int {
	switch ev.(type) {
	case *SnapshotEvent:
		return 0
	case *StepEvent:
		return 1
	default:
		return 2
	}
}

// StepEvent advances every drifting particle by one dt through the kernel
// chain, then reschedules itself until the horizon.
type StepEvent struct {
	At int64
}

func (e *StepEvent) Timestamp() int64 { return e.At }

func (e *StepEvent) Execute(sim *Simulator) {
	ctx := &KernelContext{Fields: sim.Fields, Clock: sim.Clock, Dt: sim.Dt}
	for _, p := range sim.Particles.Particles {
		if p.Status != StatusDrifting {
			continue
		}
		sim.Kernels.Apply(ctx, p)
	}
	sim.Metrics.StepsExecuted++

	// A step starting at `next` advances to next+dt; only schedule it if it
	// completes within the horizon.
	next := e.At + sim.Dt
	if next+sim.Dt <= sim.Horizon {
		sim.Schedule(&StepEvent{At: next})
	}
}

// SnapshotEvent records every particle's position into the trajectory
// dataset, then reschedules itself at the output cadence.
type SnapshotEvent struct {
	At int64
}

func (e *SnapshotEvent) Timestamp() int64 { return e.At }

func (e *SnapshotEvent) Execute(sim *Simulator) {
	sim.recordSnapshot()

	next := e.At + sim.OutputDt
	if next <= sim.Horizon {
		sim.Schedule(&SnapshotEvent{At: next})
	}
}
