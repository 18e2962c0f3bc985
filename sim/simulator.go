// sim/simulator.go
package sim

import (
	"container/heap"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/driftsim/driftsim/sim/field"
	"github.com/driftsim/driftsim/sim/traj"
)

// EventQueue implements heap.Interface and orders events by timestamp.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []Event

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	ti, tj := eq[i].Timestamp(), eq[j].Timestamp()
	if ti != tj {
		return ti < tj
	}
	return eventRank(eq[i]) < eventRank(eq[j])
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(Event))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator is the core object that holds simulation time, the particle
// population, and the event loop.
type Simulator struct {
	Clock   int64 // seconds since field start
	Horizon int64 // total simulated time (seconds)
	// EventQueue has all the simulator events: integration steps and
	// trajectory snapshots.
	EventQueue EventQueue
	Fields     *field.FieldSet
	Particles  *ParticleSet
	Kernels    KernelChain
	Dt         int64 // integration step (seconds)
	OutputDt   int64 // snapshot cadence (seconds)
	Trajectory *traj.Dataset
	Metrics    *Metrics
}

// NewSimulator wires a simulator from an already-seeded particle set.
// The initial step and snapshot events are scheduled; the first snapshot
// fires at t=0 so release positions are always recorded.
func NewSimulator(fields *field.FieldSet, particles *ParticleSet, kernels KernelChain,
	integ IntegrationConfig) *Simulator {
	s := &Simulator{
		Clock:      0,
		Horizon:    integ.HorizonSeconds,
		EventQueue: make(EventQueue, 0),
		Fields:     fields,
		Particles:  particles,
		Kernels:    kernels,
		Dt:         integ.DtSeconds,
		OutputDt:   integ.OutputDtSeconds,
		Trajectory: traj.NewDataset(particles.Len()),
		Metrics:    NewMetrics(),
	}
	s.Metrics.ParticlesReleased = particles.Len()
	s.Schedule(&SnapshotEvent{At: 0})
	s.Schedule(&StepEvent{At: 0})
	return s
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	heap.Push(&sim.EventQueue, ev)
}

// Run drains the event queue, advancing the clock event by event, until the
// queue empties or the horizon is passed.
func (sim *Simulator) Run() {
	for len(sim.EventQueue) > 0 {
		ev := heap.Pop(&sim.EventQueue).(Event)
		sim.Clock = ev.Timestamp()
		logrus.Debugf("[t=%08ds] Executing %T", sim.Clock, ev)
		ev.Execute(sim)
		if sim.Clock > sim.Horizon {
			break
		}
	}
	sim.Metrics.ParticlesFrozen = sim.Particles.Len() - sim.Particles.Drifting()
	logrus.Infof("[t=%08ds] Simulation ended: %d/%d particles still drifting",
		sim.Clock, sim.Particles.Drifting(), sim.Particles.Len())
}

// recordSnapshot appends the current population state to the trajectory.
// Frozen particles are recorded as NaN from the snapshot after their freeze
// onward, the way deleted particles appear in trajectory archives.
func (sim *Simulator) recordSnapshot() {
	lons := make([]float64, sim.Particles.Len())
	lats := make([]float64, sim.Particles.Len())
	for i, p := range sim.Particles.Particles {
		if p.Status == StatusFrozen && p.FrozenAt < sim.Clock {
			lons[i] = math.NaN()
			lats[i] = math.NaN()
			continue
		}
		lons[i] = p.Lon
		lats[i] = p.Lat
	}
	sim.Trajectory.AppendSnapshot(float64(sim.Clock), lons, lats)
	sim.Metrics.SnapshotsWritten++
}
