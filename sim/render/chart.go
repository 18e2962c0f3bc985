package render

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/driftsim/driftsim/sim/connect"
)

// WriteCaptureChart renders the cumulative capture curve: captured particle
// count versus days since release, with the competence day marked so the
// dispersion phase reads as the flat prefix it is.
func WriteCaptureChart(a *connect.Analysis, path string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Capture accumulation dynamics",
			Subtitle: fmt.Sprintf("%d particles, competence at day %.0f", a.TotalParticles, a.CompetenceDays),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Days"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Captured particles"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	xs := make([]string, len(a.Days))
	data := make([]opts.LineData, len(a.Cumulative))
	for i := range a.Days {
		xs[i] = fmt.Sprintf("%.1f", a.Days[i])
		data[i] = opts.LineData{Value: a.Cumulative[i]}
	}

	line.SetXAxis(xs).
		AddSeries("Cumulative captures", data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: capturedColor, Width: 3}),
		).
		SetSeriesOptions(
			charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
				Name:  "Competence",
				XAxis: fmt.Sprintf("%.1f", a.CompetenceDays),
			}),
		)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("render: capture chart: %w", err)
	}
	return nil
}
