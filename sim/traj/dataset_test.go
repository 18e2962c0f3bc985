package traj

import (
	"math"
	"testing"
)

func TestDataset_AppendAndShape(t *testing.T) {
	d := NewDataset(2)
	d.AppendSnapshot(0, []float64{1, 2}, []float64{41, 42})
	d.AppendSnapshot(43200, []float64{1.1, 2.1}, []float64{41.1, 42.1})

	if d.Particles() != 2 || d.Snapshots() != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", d.Particles(), d.Snapshots())
	}
	if d.Lon[1][1] != 2.1 || d.Lat[0][0] != 41 {
		t.Error("stored positions do not match appended values")
	}
	if got := d.DaysSinceStart(1); got != 0.5 {
		t.Errorf("DaysSinceStart(1) = %g, want 0.5", got)
	}
}

func TestDataset_ValidAndLastValid(t *testing.T) {
	d := NewDataset(1)
	d.AppendSnapshot(0, []float64{1}, []float64{41})
	d.AppendSnapshot(100, []float64{1.5}, []float64{41.5})
	d.AppendSnapshot(200, []float64{math.NaN()}, []float64{math.NaN()})

	if !d.Valid(0, 1) {
		t.Error("snapshot 1 should be valid")
	}
	if d.Valid(0, 2) {
		t.Error("NaN snapshot reported valid")
	}
	if got := d.LastValid(0); got != 1 {
		t.Errorf("LastValid = %d, want 1", got)
	}
}

func TestDataset_LastValidAllNaN(t *testing.T) {
	d := NewDataset(1)
	d.AppendSnapshot(0, []float64{math.NaN()}, []float64{math.NaN()})
	if got := d.LastValid(0); got != -1 {
		t.Errorf("LastValid = %d, want -1", got)
	}
}

func TestDataset_AppendSizeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("mismatched snapshot size did not panic")
		}
	}()
	d := NewDataset(2)
	d.AppendSnapshot(0, []float64{1}, []float64{41})
}
