package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/driftsim/driftsim/sim"
	"github.com/driftsim/driftsim/sim/connect"
	"github.com/driftsim/driftsim/sim/render"
)

// RegionSpec is the protected-area bounding box in a scenario file.
type RegionSpec struct {
	LonMin float64 `yaml:"lon_min"`
	LonMax float64 `yaml:"lon_max"`
	LatMin float64 `yaml:"lat_min"`
	LatMax float64 `yaml:"lat_max"`
}

// RenderSpec overrides visualization sub-sampling and framing.
type RenderSpec struct {
	StaticStride       int     `yaml:"static_stride"`
	AnimationStride    int     `yaml:"animation_stride"`
	DashboardStride    int     `yaml:"dashboard_stride"`
	SnapshotStride     int     `yaml:"snapshot_stride"`
	StartDate          string  `yaml:"start_date"` // YYYY-MM-DD
	MapCenterLat       float64 `yaml:"map_center_lat"`
	MapCenterLon       float64 `yaml:"map_center_lon"`
	MapZoom            int     `yaml:"map_zoom"`
	DashboardCenterLat float64 `yaml:"dashboard_center_lat"`
	DashboardCenterLon float64 `yaml:"dashboard_center_lon"`
	DashboardZoom      int     `yaml:"dashboard_zoom"`
}

// Scenario is the full run configuration, loaded from YAML with strict field
// checking so typos fail loudly instead of silently running the defaults.
type Scenario struct {
	Field              string     `yaml:"field"`
	Particles          int        `yaml:"particles"`
	RuntimeDays        float64    `yaml:"runtime_days"`
	DtMinutes          int        `yaml:"dt_minutes"`
	OutputDtHours      int        `yaml:"output_dt_hours"`
	Seed               int64      `yaml:"seed"`
	Region             RegionSpec `yaml:"region"`
	CompetenceDays     float64    `yaml:"competence_days"`
	ExclusionLon       float64    `yaml:"exclusion_lon"`
	WallLon            float64    `yaml:"wall_lon"`
	DilationIterations int        `yaml:"dilation_iterations"`
	DiffusionKh        float64    `yaml:"diffusion_kh"`
	Render             RenderSpec `yaml:"render"`
}

// DefaultScenario returns the reference Mediterranean scenario: 10000
// particles drifting 100 days toward the Gulf of Lion protected area.
func DefaultScenario() Scenario {
	o := render.DefaultOptions()
	return Scenario{
		Field:         "MEDSEA2019.nc",
		Particles:     10000,
		RuntimeDays:   100,
		DtMinutes:     30,
		OutputDtHours: 12,
		Seed:          42,
		Region: RegionSpec{
			LonMin: 4.2, LonMax: 5.2,
			LatMin: 42.5, LatMax: 43.2,
		},
		CompetenceDays:     30,
		ExclusionLon:       -5.5,
		WallLon:            -5.8,
		DilationIterations: 4,
		DiffusionKh:        0,
		Render: RenderSpec{
			StaticStride:       o.StaticStride,
			AnimationStride:    o.AnimationStride,
			DashboardStride:    o.DashboardStride,
			SnapshotStride:     o.SnapshotStride,
			StartDate:          o.StartDate.Format("2006-01-02"),
			MapCenterLat:       o.MapCenterLat,
			MapCenterLon:       o.MapCenterLon,
			MapZoom:            o.MapZoom,
			DashboardCenterLat: o.DashboardCenterLat,
			DashboardCenterLon: o.DashboardCenterLon,
			DashboardZoom:      o.DashboardZoom,
		},
	}
}

// LoadScenario reads a scenario file over the defaults, so partial files
// only override what they mention. Unknown fields are an error.
func LoadScenario(path string) (Scenario, error) {
	sc := DefaultScenario()
	data, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return sc, fmt.Errorf("scenario: parse %s: %w", path, err)
	}
	return sc, nil
}

// Validate rejects scenarios the engine cannot run.
func (sc Scenario) Validate() error {
	if sc.Field == "" {
		return fmt.Errorf("scenario: field file not set")
	}
	if sc.Particles <= 0 {
		return fmt.Errorf("scenario: particles must be positive, got %d", sc.Particles)
	}
	if sc.RuntimeDays <= 0 {
		return fmt.Errorf("scenario: runtime_days must be positive, got %g", sc.RuntimeDays)
	}
	if sc.DtMinutes <= 0 {
		return fmt.Errorf("scenario: dt_minutes must be positive, got %d", sc.DtMinutes)
	}
	if sc.OutputDtHours <= 0 {
		return fmt.Errorf("scenario: output_dt_hours must be positive, got %d", sc.OutputDtHours)
	}
	if int64(sc.OutputDtHours)*3600 < int64(sc.DtMinutes)*60 {
		return fmt.Errorf("scenario: output cadence (%dh) finer than dt (%dmin)", sc.OutputDtHours, sc.DtMinutes)
	}
	if sc.CompetenceDays < 0 {
		return fmt.Errorf("scenario: competence_days must not be negative, got %g", sc.CompetenceDays)
	}
	if sc.DiffusionKh < 0 {
		return fmt.Errorf("scenario: diffusion_kh must not be negative, got %g", sc.DiffusionKh)
	}
	if _, err := sc.RegionOf(); err != nil {
		return err
	}
	if _, err := sc.RenderOptions(); err != nil {
		return err
	}
	return nil
}

// Integration maps the scenario onto the engine's time-stepping config.
func (sc Scenario) Integration() sim.IntegrationConfig {
	return sim.IntegrationConfig{
		DtSeconds:       int64(sc.DtMinutes) * 60,
		OutputDtSeconds: int64(sc.OutputDtHours) * 3600,
		HorizonSeconds:  int64(sc.RuntimeDays * 86400),
	}
}

// Release maps the scenario onto the seeding config.
func (sc Scenario) Release() sim.ReleaseConfig {
	return sim.ReleaseConfig{
		Particles:          sc.Particles,
		ExclusionLon:       sc.ExclusionLon,
		DilationIterations: sc.DilationIterations,
	}
}

// Boundary maps the scenario onto the boundary-kernel config.
func (sc Scenario) Boundary() sim.BoundaryConfig {
	return sim.BoundaryConfig{WallLon: sc.WallLon}
}

// Diffusion maps the scenario onto the diffusion-kernel config.
func (sc Scenario) Diffusion() sim.DiffusionConfig {
	return sim.DiffusionConfig{Kh: sc.DiffusionKh}
}

// RegionOf builds the protected-area region.
func (sc Scenario) RegionOf() (connect.Region, error) {
	return connect.NewRegion(sc.Region.LonMin, sc.Region.LonMax, sc.Region.LatMin, sc.Region.LatMax)
}

// RenderOptions maps the scenario onto the render options.
func (sc Scenario) RenderOptions() (render.Options, error) {
	start, err := time.Parse("2006-01-02", sc.Render.StartDate)
	if err != nil {
		return render.Options{}, fmt.Errorf("scenario: start_date %q: %w", sc.Render.StartDate, err)
	}
	return render.Options{
		StaticStride:       sc.Render.StaticStride,
		AnimationStride:    sc.Render.AnimationStride,
		DashboardStride:    sc.Render.DashboardStride,
		SnapshotStride:     sc.Render.SnapshotStride,
		StartDate:          start,
		MapCenterLat:       sc.Render.MapCenterLat,
		MapCenterLon:       sc.Render.MapCenterLon,
		MapZoom:            sc.Render.MapZoom,
		DashboardCenterLat: sc.Render.DashboardCenterLat,
		DashboardCenterLon: sc.Render.DashboardCenterLon,
		DashboardZoom:      sc.Render.DashboardZoom,
	}, nil
}
