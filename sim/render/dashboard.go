package render

import (
	"fmt"
	"html/template"
	"os"

	"github.com/driftsim/driftsim/sim/connect"
)

// WriteDashboard assembles the final page: the protected-area animation and
// the capture chart side by side, plus the headline statistics. The map and
// chart are embedded by filename, so the dashboard must live in the same
// directory as the other artifacts.
func WriteDashboard(a *connect.Analysis, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	s := a.Summarize()
	return dashboardTmpl.Execute(f, map[string]any{
		"MapFile":        DashboardMapFile,
		"ChartFile":      CaptureChartFile,
		"Total":          s.TotalParticles,
		"Captured":       s.Captured,
		"RatePct":        fmt.Sprintf("%.1f%%", s.CaptureRate*100),
		"CompetenceDays": fmt.Sprintf("%.0f", s.CompetenceDays),
	})
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Particle connectivity dashboard</title>
<style>
    body { margin: 0; font-family: 'Segoe UI', sans-serif; height: 100vh; display: flex; flex-direction: column; background-color: #f4f4f4; }
    header { background: #2c3e50; color: white; padding: 0 20px; height: 60px; display: flex; align-items: center; justify-content: space-between; }
    h1 { margin: 0; font-size: 1.2rem; }
    .main-content { display: flex; flex: 1; overflow: hidden; }
    .map-panel { width: 55%; border-right: 1px solid #ccc; }
    .map-frame { width: 100%; height: 100%; border: none; }
    .side-panel { width: 45%; padding: 20px; overflow-y: auto; background: white; }
    .graph-frame { width: 100%; height: 520px; border: none; margin-bottom: 20px; box-shadow: 0 2px 8px rgba(0,0,0,0.1); border-radius: 8px; }
    .card { background: #fff; padding: 20px; border-radius: 8px; border: 1px solid #eee; margin-bottom: 20px; box-shadow: 0 2px 5px rgba(0,0,0,0.05); }
    .card h3 { margin-top: 0; color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; font-size: 1rem; }
    .stat-row { display: flex; justify-content: space-between; margin-bottom: 8px; font-size: 0.9rem; }
    .stat-val { font-weight: bold; color: #2c3e50; }
    .info-note { background-color: #fff3cd; color: #856404; padding: 10px; border-radius: 4px; font-size: 0.85rem; border-left: 4px solid #ffeeba; margin-top: 15px; }
</style>
</head>
<body>
<header>
    <div>
        <h1>Particle connectivity dashboard</h1>
        <span style="font-size: 0.9rem; opacity: 0.8;">Lagrangian drift toward the protected area</span>
    </div>
</header>
<div class="main-content">
    <div class="map-panel">
        <iframe src="{{.MapFile}}" class="map-frame"></iframe>
    </div>
    <div class="side-panel">
        <iframe src="{{.ChartFile}}" class="graph-frame"></iframe>

        <div class="card">
            <h3>Global statistics</h3>
            <div class="stat-row"><span>Particles released:</span> <span class="stat-val">{{.Total}}</span></div>
            <div class="stat-row"><span>Particles captured:</span> <span class="stat-val">{{.Captured}}</span></div>
            <div class="stat-row"><span>Capture rate:</span> <span class="stat-val">{{.RatePct}}</span></div>
        </div>

        <div class="card">
            <h3>Legend</h3>
            <div class="stat-row"><div><span style="color:#e74c3c;">&#9679;</span> Captured</div><div style="color:#666;">Inside the protected area</div></div>
            <div class="stat-row"><div><span style="color:#3498db;">&#9679;</span> Free</div><div style="color:#666;">At sea</div></div>

            <div class="info-note">
                <strong>Competence phase (from day {{.CompetenceDays}}):</strong><br>
                Captures only count from this day on.
                <ul>
                    <li><strong>Living organisms:</strong> larvae are mature enough to settle into a habitat (recruitment).</li>
                    <li><strong>Inert objects:</strong> physical conditions (stranding, density) favor local accumulation.</li>
                </ul>
            </div>
        </div>
    </div>
</div>
</body>
</html>
`))
