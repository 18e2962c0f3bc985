// Package render turns stored trajectories and a connectivity analysis into
// self-contained HTML artifacts: a static trajectory map, two time-animated
// particle maps (basin-wide and zoomed on the protected area), a cumulative
// capture chart, and a dashboard page that assembles the last two.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/driftsim/driftsim/sim/connect"
	"github.com/driftsim/driftsim/sim/traj"
)

// Output filenames inside the render directory.
const (
	StaticMapFile    = "static_map.html"
	AnimatedMapFile  = "animated_map.html"
	DashboardMapFile = "dashboard_map.html"
	CaptureChartFile = "capture_chart.html"
	DashboardFile    = "dashboard.html"
)

// Options controls sub-sampling and map framing. Trajectory archives are
// large; every map renders a stride of the population, not all of it.
type Options struct {
	StaticStride    int // every Nth trajectory on the static map
	AnimationStride int // every Nth particle on the basin animation
	DashboardStride int // every Nth particle on the protected-area animation
	SnapshotStride  int // every Nth snapshot on animations

	// StartDate anchors snapshot ages to a nominal calendar for the
	// animation time slider.
	StartDate time.Time

	MapCenterLat float64
	MapCenterLon float64
	MapZoom      int

	DashboardCenterLat float64
	DashboardCenterLon float64
	DashboardZoom      int
}

// DefaultOptions returns the framing used by the reference Mediterranean
// scenario.
func DefaultOptions() Options {
	return Options{
		StaticStride:       50,
		AnimationStride:    12,
		DashboardStride:    10,
		SnapshotStride:     2,
		StartDate:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MapCenterLat:       36.0,
		MapCenterLon:       15.0,
		MapZoom:            5,
		DashboardCenterLat: 42.8,
		DashboardCenterLon: 4.7,
		DashboardZoom:      7,
	}
}

// RenderAll writes every artifact into outDir.
func RenderAll(d *traj.Dataset, a *connect.Analysis, region connect.Region, o Options, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("render: create %s: %w", outDir, err)
	}

	steps := []struct {
		file string
		run  func(path string) error
	}{
		{StaticMapFile, func(path string) error {
			return WriteStaticMap(d, o, path)
		}},
		{AnimatedMapFile, func(path string) error {
			return WriteAnimatedMap(d, a, nil, o, basinStyle, path)
		}},
		{DashboardMapFile, func(path string) error {
			return WriteAnimatedMap(d, a, &region, dashboardOptions(o), focusStyle, path)
		}},
		{CaptureChartFile, func(path string) error {
			return WriteCaptureChart(a, path)
		}},
		{DashboardFile, func(path string) error {
			return WriteDashboard(a, path)
		}},
	}
	for _, st := range steps {
		path := filepath.Join(outDir, st.file)
		if err := st.run(path); err != nil {
			return err
		}
		logrus.Infof("wrote %s", path)
	}
	return nil
}

// dashboardOptions reframes the options onto the protected area.
func dashboardOptions(o Options) Options {
	o.AnimationStride = o.DashboardStride
	o.MapCenterLat = o.DashboardCenterLat
	o.MapCenterLon = o.DashboardCenterLon
	o.MapZoom = o.DashboardZoom
	return o
}
