package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/driftsim/driftsim/sim"
	"github.com/driftsim/driftsim/sim/field"
	"github.com/driftsim/driftsim/sim/traj"
)

var (
	// CLI flags shared across subcommands
	scenarioPath string // scenario YAML; empty means built-in defaults
	logLevel     string // log verbosity level

	// CLI flags for `run` overrides (applied on top of the scenario)
	seed          int64   // seed for release-site sampling
	particles     int     // number of particles to release
	runtimeDays   float64 // total simulated time (days)
	dtMinutes     int     // integration step (minutes)
	outputDtHours int     // snapshot cadence (hours)
	fieldPath     string  // hydrodynamic NetCDF file
	outputDir     string  // run directory for trajectories + manifest
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "driftsim",
	Short: "Lagrangian particle transport simulator for marine connectivity",
}

// runCmd executes a full simulation using the scenario plus CLI overrides.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the drift simulation and store trajectories",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		sc := loadScenarioOrDefaults()
		applyRunOverrides(cmd, &sc)
		if err := sc.Validate(); err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		logrus.Infof("Starting simulation: %d particles, %.0f days, dt=%dmin, outputdt=%dh, seed=%d",
			sc.Particles, sc.RuntimeDays, sc.DtMinutes, sc.OutputDtHours, sc.Seed)

		startTime := time.Now()

		fs, err := field.Load(sc.Field)
		if err != nil {
			logrus.Fatalf("Unable to load field: %v", err)
		}

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(sc.Seed))
		pset, err := sim.SeedParticles(fs, sc.Release(), rng.ForSubsystem(sim.SubsystemRelease))
		if err != nil {
			logrus.Fatalf("Unable to seed particles: %v", err)
		}

		kernels := sim.DefaultKernels(sc.Boundary(), sc.Diffusion(), rng)

		s := sim.NewSimulator(fs, pset, kernels, sc.Integration())
		s.Run()
		s.Metrics.Print(s.Horizon, startTime)

		manifest := traj.Manifest{
			Seed:            sc.Seed,
			DtSeconds:       sc.Integration().DtSeconds,
			OutputDtSeconds: sc.Integration().OutputDtSeconds,
			HorizonSeconds:  sc.Integration().HorizonSeconds,
			FieldFile:       sc.Field,
			CompetenceDays:  sc.CompetenceDays,
			RegionLonMin:    sc.Region.LonMin,
			RegionLonMax:    sc.Region.LonMax,
			RegionLatMin:    sc.Region.LatMin,
			RegionLatMax:    sc.Region.LatMax,
		}
		if err := traj.Write(outputDir, s.Trajectory, manifest); err != nil {
			logrus.Fatalf("Unable to store trajectories: %v", err)
		}

		logrus.Infof("Simulation complete; trajectories stored in %s", outputDir)
	},
}

// setupLogging configures logrus from the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadScenarioOrDefaults loads --scenario when given, the built-in
// Mediterranean defaults otherwise.
func loadScenarioOrDefaults() Scenario {
	if scenarioPath == "" {
		return DefaultScenario()
	}
	sc, err := LoadScenario(scenarioPath)
	if err != nil {
		logrus.Fatalf("Unable to load scenario: %v", err)
	}
	return sc
}

// applyRunOverrides copies explicitly-set run flags over the scenario.
func applyRunOverrides(cmd *cobra.Command, sc *Scenario) {
	if cmd.Flags().Changed("seed") {
		sc.Seed = seed
	}
	if cmd.Flags().Changed("particles") {
		sc.Particles = particles
	}
	if cmd.Flags().Changed("days") {
		sc.RuntimeDays = runtimeDays
	}
	if cmd.Flags().Changed("dt-minutes") {
		sc.DtMinutes = dtMinutes
	}
	if cmd.Flags().Changed("output-dt-hours") {
		sc.OutputDtHours = outputDtHours
	}
	if cmd.Flags().Changed("field") {
		sc.Field = fieldPath
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file (defaults to the built-in Mediterranean scenario)")

	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for release-site sampling")
	runCmd.Flags().IntVar(&particles, "particles", 10000, "Number of particles to release")
	runCmd.Flags().Float64Var(&runtimeDays, "days", 100, "Total simulated time (days)")
	runCmd.Flags().IntVar(&dtMinutes, "dt-minutes", 30, "Integration step (minutes)")
	runCmd.Flags().IntVar(&outputDtHours, "output-dt-hours", 12, "Snapshot cadence (hours)")
	runCmd.Flags().StringVar(&fieldPath, "field", "", "Hydrodynamic NetCDF file (overrides scenario)")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "run", "Directory for trajectories and manifest")

	rootCmd.AddCommand(runCmd)
}
