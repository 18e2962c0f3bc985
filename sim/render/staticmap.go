package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"

	"github.com/driftsim/driftsim/sim/traj"
)

// trajectoryLine is one rendered trajectory: the polyline plus its start
// (release) and end (final recorded) points, as [lat, lon] pairs.
type trajectoryLine struct {
	Path  [][2]float64 `json:"path"`
	Start [2]float64   `json:"start"`
	End   [2]float64   `json:"end"`
}

// BuildTrajectoryLines extracts every stride-th particle's valid positions.
// Particles with no valid snapshot at all are skipped.
func BuildTrajectoryLines(d *traj.Dataset, stride int) []trajectoryLine {
	if stride < 1 {
		stride = 1
	}
	lines := make([]trajectoryLine, 0, d.Particles()/stride+1)
	for p := 0; p < d.Particles(); p += stride {
		path := make([][2]float64, 0, d.Snapshots())
		for s := 0; s < d.Snapshots(); s++ {
			if !d.Valid(p, s) {
				continue
			}
			path = append(path, [2]float64{d.Lat[p][s], d.Lon[p][s]})
		}
		if len(path) == 0 {
			continue
		}
		lines = append(lines, trajectoryLine{
			Path:  path,
			Start: path[0],
			End:   path[len(path)-1],
		})
	}
	return lines
}

// WriteStaticMap renders the sub-sampled trajectories as a Leaflet map:
// green release markers, red final positions, thin blue polylines.
func WriteStaticMap(d *traj.Dataset, o Options, path string) error {
	lines := BuildTrajectoryLines(d, o.StaticStride)
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("render: marshal trajectories: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	return staticMapTmpl.Execute(f, map[string]any{
		"Lines":     template.JS(payload),
		"CenterLat": o.MapCenterLat,
		"CenterLon": o.MapCenterLon,
		"Zoom":      o.MapZoom,
	})
}

var staticMapTmpl = template.Must(template.New("staticmap").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Particle trajectories</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png', {
    attribution: '&copy; OpenStreetMap contributors &copy; CARTO'
}).addTo(map);

var lines = {{.Lines}};
lines.forEach(function (t) {
    L.polyline(t.path, {color: 'blue', weight: 0.6, opacity: 0.4}).addTo(map);
    L.circleMarker(t.start, {radius: 2, color: 'green', fillColor: 'green', fill: true, fillOpacity: 1}).addTo(map);
    L.circleMarker(t.end, {radius: 3, color: '#e74c3c', fillColor: '#e74c3c', fill: true, fillOpacity: 1}).addTo(map);
});
</script>
</body>
</html>
`))
