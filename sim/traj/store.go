package traj

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// TrajectoriesFile is the gzipped CSV written inside a run directory.
	TrajectoriesFile = "trajectories.csv.gz"
	// ManifestFile describes the run parameters next to the trajectories.
	ManifestFile = "manifest.yaml"
)

// Manifest records how a stored run was produced. It travels with the
// trajectory CSV so analyze/render can run without the original scenario.
type Manifest struct {
	Particles       int     `yaml:"particles"`
	Snapshots       int     `yaml:"snapshots"`
	Seed            int64   `yaml:"seed"`
	DtSeconds       int64   `yaml:"dt_seconds"`
	OutputDtSeconds int64   `yaml:"output_dt_seconds"`
	HorizonSeconds  int64   `yaml:"horizon_seconds"`
	FieldFile       string  `yaml:"field_file"`
	CompetenceDays  float64 `yaml:"competence_days"`
	RegionLonMin    float64 `yaml:"region_lon_min"`
	RegionLonMax    float64 `yaml:"region_lon_max"`
	RegionLatMin    float64 `yaml:"region_lat_min"`
	RegionLatMax    float64 `yaml:"region_lat_max"`
}

// Write stores the dataset and manifest into dir, creating it if needed.
// Output is deterministic: rows are ordered by particle then snapshot and
// floats use the shortest round-trippable representation.
func Write(dir string, d *Dataset, m Manifest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("traj: create %s: %w", dir, err)
	}

	m.Particles = d.Particles()
	m.Snapshots = d.Snapshots()
	mData, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("traj: marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), mData, 0o644); err != nil {
		return fmt.Errorf("traj: write manifest: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, TrajectoriesFile))
	if err != nil {
		return fmt.Errorf("traj: create trajectories: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	w := csv.NewWriter(gz)

	if err := w.Write([]string{"particle", "snapshot", "time_s", "lon", "lat"}); err != nil {
		return fmt.Errorf("traj: write header: %w", err)
	}
	for p := 0; p < d.Particles(); p++ {
		for s := 0; s < d.Snapshots(); s++ {
			row := []string{
				strconv.Itoa(p),
				strconv.Itoa(s),
				formatFloat(d.Times[s]),
				formatFloat(d.Lon[p][s]),
				formatFloat(d.Lat[p][s]),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("traj: write row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("traj: flush csv: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("traj: close gzip: %w", err)
	}
	return nil
}

// Read loads a dataset and manifest previously stored with Write.
func Read(dir string) (*Dataset, Manifest, error) {
	var m Manifest
	mData, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, m, fmt.Errorf("traj: read manifest: %w", err)
	}
	if err := yaml.Unmarshal(mData, &m); err != nil {
		return nil, m, fmt.Errorf("traj: parse manifest: %w", err)
	}
	if m.Particles <= 0 || m.Snapshots <= 0 {
		return nil, m, fmt.Errorf("traj: manifest has invalid shape %dx%d", m.Particles, m.Snapshots)
	}

	f, err := os.Open(filepath.Join(dir, TrajectoriesFile))
	if err != nil {
		return nil, m, fmt.Errorf("traj: open trajectories: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, m, fmt.Errorf("traj: gzip: %w", err)
	}
	defer gz.Close()

	r := csv.NewReader(gz)
	if _, err := r.Read(); err != nil { // header
		return nil, m, fmt.Errorf("traj: read header: %w", err)
	}

	d := &Dataset{
		Times: make([]float64, m.Snapshots),
		Lon:   make([][]float64, m.Particles),
		Lat:   make([][]float64, m.Particles),
	}
	for p := range d.Lon {
		d.Lon[p] = make([]float64, m.Snapshots)
		d.Lat[p] = make([]float64, m.Snapshots)
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, m, fmt.Errorf("traj: read row: %w", err)
		}
		if len(row) != 5 {
			return nil, m, fmt.Errorf("traj: malformed row %v", row)
		}
		p, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, m, fmt.Errorf("traj: particle index: %w", err)
		}
		s, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, m, fmt.Errorf("traj: snapshot index: %w", err)
		}
		if p < 0 || p >= m.Particles || s < 0 || s >= m.Snapshots {
			return nil, m, fmt.Errorf("traj: row (%d,%d) outside manifest shape %dx%d",
				p, s, m.Particles, m.Snapshots)
		}
		d.Times[s] = parseFloat(row[2])
		d.Lon[p][s] = parseFloat(row[3])
		d.Lat[p][s] = parseFloat(row[4])
	}
	return d, m, nil
}

// formatFloat renders a float for CSV storage; NaN becomes an empty field.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parseFloat reads a CSV float field; empty means NaN.
func parseFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
