package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/driftsim/driftsim/sim/field"
)

var inspectFieldPath string

// fieldSummary holds the numbers inspect prints.
type fieldSummary struct {
	NLat, NLon int
	LonMin     float64
	LonMax     float64
	LatMin     float64
	LatMax     float64
	Snapshots  int
	SpanDays   float64
	LandCells  int
	BandCells  int
	TotalCells int
}

// summarizeField derives the inspect report from a loaded field. The coastal
// band uses the scenario's dilation setting so the report matches the band a
// run would actually seed from.
func summarizeField(fs *field.FieldSet, dilationIterations int) fieldSummary {
	land := field.LandMask(fs)
	band := field.CoastalBand(land, dilationIterations)
	return fieldSummary{
		NLat:       len(fs.Grid.Lats),
		NLon:       len(fs.Grid.Lons),
		LonMin:     fs.Grid.Lons[0],
		LonMax:     fs.Grid.Lons[len(fs.Grid.Lons)-1],
		LatMin:     fs.Grid.Lats[0],
		LatMax:     fs.Grid.Lats[len(fs.Grid.Lats)-1],
		Snapshots:  len(fs.Times),
		SpanDays:   fs.Duration() / 86400,
		LandCells:  land.Count(),
		BandCells:  band.Count(),
		TotalCells: len(fs.Grid.Lats) * len(fs.Grid.Lons),
	}
}

// inspectCmd prints what the engine sees in a hydrodynamic file: grid shape,
// time span, and land/coastal mask sizes. Useful before committing to a
// multi-hour run.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect a hydrodynamic field file",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		fs, err := field.Load(inspectFieldPath)
		if err != nil {
			logrus.Fatalf("Unable to load field: %v", err)
		}

		sc := loadScenarioOrDefaults()
		sum := summarizeField(fs, sc.DilationIterations)

		fmt.Println("=== Field Summary ===")
		fmt.Printf("Grid                 : %d lat x %d lon\n", sum.NLat, sum.NLon)
		fmt.Printf("Lon range            : [%.3f, %.3f]\n", sum.LonMin, sum.LonMax)
		fmt.Printf("Lat range            : [%.3f, %.3f]\n", sum.LatMin, sum.LatMax)
		fmt.Printf("Snapshots            : %d\n", sum.Snapshots)
		fmt.Printf("Time span            : %.1f days\n", sum.SpanDays)
		fmt.Printf("Land cells           : %d / %d (%.1f%%)\n", sum.LandCells, sum.TotalCells, 100*float64(sum.LandCells)/float64(sum.TotalCells))
		fmt.Printf("Coastal band cells   : %d (%d dilation passes)\n", sum.BandCells, sc.DilationIterations)
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFieldPath, "field", "", "Hydrodynamic NetCDF file")
	if err := inspectCmd.MarkFlagRequired("field"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(inspectCmd)
}
