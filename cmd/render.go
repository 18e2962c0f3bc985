package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/driftsim/driftsim/sim/connect"
	"github.com/driftsim/driftsim/sim/render"
	"github.com/driftsim/driftsim/sim/traj"
)

var (
	renderInputDir string
	renderOutDir   string
)

// renderCmd builds the HTML artifacts from a stored run: static trajectory
// map, two animations, capture chart, and the assembled dashboard.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render maps, chart and dashboard from stored trajectories",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		ds, manifest, err := traj.Read(renderInputDir)
		if err != nil {
			logrus.Fatalf("Unable to read trajectories: %v", err)
		}

		region, competence := regionFromManifest(manifest)
		analysis := connect.Analyze(ds, region, competence)

		opts := render.DefaultOptions()
		if scenarioPath != "" {
			sc, err := LoadScenario(scenarioPath)
			if err != nil {
				logrus.Fatalf("Unable to load scenario: %v", err)
			}
			opts, err = sc.RenderOptions()
			if err != nil {
				logrus.Fatalf("Invalid render options: %v", err)
			}
		}

		outDir := renderOutDir
		if outDir == "" {
			outDir = renderInputDir
		}
		if err := render.RenderAll(ds, analysis, region, opts, outDir); err != nil {
			logrus.Fatalf("Unable to render: %v", err)
		}
		logrus.Infof("artifacts written to %s", outDir)
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderInputDir, "input", "run", "Run directory holding trajectories and manifest")
	renderCmd.Flags().StringVar(&renderOutDir, "out", "", "Output directory for HTML artifacts (defaults to --input)")
	rootCmd.AddCommand(renderCmd)
}
