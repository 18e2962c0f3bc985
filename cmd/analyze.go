package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/driftsim/driftsim/sim/connect"
	"github.com/driftsim/driftsim/sim/traj"
)

// AnalysisFile is the summary written into the run directory.
const AnalysisFile = "analysis.yaml"

var analyzeInputDir string

// analyzeCmd computes connectivity statistics from a stored run. The region
// and competence delay come from the run's manifest; a --scenario overrides
// them for what-if analysis without re-simulating.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute protected-area capture statistics from stored trajectories",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		ds, manifest, err := traj.Read(analyzeInputDir)
		if err != nil {
			logrus.Fatalf("Unable to read trajectories: %v", err)
		}

		region, competence := regionFromManifest(manifest)
		analysis := connect.Analyze(ds, region, competence)
		summary := analysis.Summarize()

		data, err := yaml.Marshal(&summary)
		if err != nil {
			logrus.Fatalf("Unable to marshal analysis: %v", err)
		}
		outPath := filepath.Join(analyzeInputDir, AnalysisFile)
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			logrus.Fatalf("Unable to write analysis: %v", err)
		}

		fmt.Println("=== Connectivity Analysis ===")
		fmt.Printf("Particles            : %d\n", summary.TotalParticles)
		fmt.Printf("Captured             : %d\n", summary.Captured)
		fmt.Printf("Capture rate         : %.1f%%\n", summary.CaptureRate*100)
		if summary.Captured > 0 {
			fmt.Printf("First arrival (mean) : day %.1f\n", summary.ArrivalMeanDays)
			fmt.Printf("First arrival (p50)  : day %.1f\n", summary.ArrivalMedianDays)
			fmt.Printf("First arrival (p90)  : day %.1f\n", summary.ArrivalP90Days)
		}
		logrus.Infof("analysis written to %s", outPath)
	},
}

// regionFromManifest rebuilds the capture region recorded at run time,
// letting --scenario override it.
func regionFromManifest(m traj.Manifest) (connect.Region, float64) {
	if scenarioPath != "" {
		sc, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Unable to load scenario: %v", err)
		}
		region, err := sc.RegionOf()
		if err != nil {
			logrus.Fatalf("Invalid region: %v", err)
		}
		return region, sc.CompetenceDays
	}
	region, err := connect.NewRegion(m.RegionLonMin, m.RegionLonMax, m.RegionLatMin, m.RegionLatMax)
	if err != nil {
		logrus.Fatalf("Manifest region invalid: %v", err)
	}
	return region, m.CompetenceDays
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInputDir, "input", "run", "Run directory holding trajectories and manifest")
	rootCmd.AddCommand(analyzeCmd)
}
