package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/driftsim/driftsim/sim/connect"
	"github.com/driftsim/driftsim/sim/traj"
)

// pointStyle controls how animated particles are drawn, split by capture
// status.
type pointStyle struct {
	CapturedRadius  float64
	FreeRadius      float64
	CapturedOpacity float64
	FreeOpacity     float64
}

// basinStyle is used on the basin-wide animation, focusStyle on the
// protected-area close-up (bigger dots, dimmer free particles).
var (
	basinStyle = pointStyle{CapturedRadius: 1.5, FreeRadius: 1.0, CapturedOpacity: 1.0, FreeOpacity: 0.6}
	focusStyle = pointStyle{CapturedRadius: 3, FreeRadius: 2, CapturedOpacity: 1.0, FreeOpacity: 0.4}
)

const (
	capturedColor = "#e74c3c"
	freeColor     = "#3498db"
)

// BuildAnimationFeatures produces one timestamped GeoJSON point per sampled
// particle and snapshot. Coordinates are rounded to 3 decimals to keep the
// document small; captured particles carry the captured style for the whole
// animation so they are traceable before arrival.
func BuildAnimationFeatures(d *traj.Dataset, a *connect.Analysis, particleStride, snapshotStride int,
	start time.Time, style pointStyle) *geojson.FeatureCollection {
	if particleStride < 1 {
		particleStride = 1
	}
	if snapshotStride < 1 {
		snapshotStride = 1
	}

	fc := geojson.NewFeatureCollection()
	for p := 0; p < d.Particles(); p += particleStride {
		captured := a.IsCaptured(p)
		color := freeColor
		radius := style.FreeRadius
		opacity := style.FreeOpacity
		if captured {
			color = capturedColor
			radius = style.CapturedRadius
			opacity = style.CapturedOpacity
		}

		for s := 0; s < d.Snapshots(); s += snapshotStride {
			if !d.Valid(p, s) {
				continue
			}
			lon := round3(d.Lon[p][s])
			lat := round3(d.Lat[p][s])
			stamp := start.Add(time.Duration(d.DaysSinceStart(s) * 24 * float64(time.Hour)))

			f := geojson.NewFeature(orb.Point{lon, lat})
			f.Properties["time"] = stamp.Format("2006-01-02T15:04:05")
			f.Properties["icon"] = "circle"
			f.Properties["iconstyle"] = map[string]any{
				"fillColor":   color,
				"fillOpacity": opacity,
				"stroke":      "false",
				"radius":      radius,
			}
			fc.Append(f)
		}
	}
	return fc
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// WriteAnimatedMap renders a time-slider particle map. When region is
// non-nil its bounding box is drawn as the protected area.
func WriteAnimatedMap(d *traj.Dataset, a *connect.Analysis, region *connect.Region,
	o Options, style pointStyle, path string) error {
	fc := BuildAnimationFeatures(d, a, o.AnimationStride, o.SnapshotStride, o.StartDate, style)
	payload, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("render: marshal animation features: %w", err)
	}

	var regionJSON template.JS
	if region != nil {
		b := region.Bound()
		box, err := json.Marshal([2][2]float64{
			{b.Min[1], b.Min[0]},
			{b.Max[1], b.Max[0]},
		})
		if err != nil {
			return fmt.Errorf("render: marshal region: %w", err)
		}
		regionJSON = template.JS(box)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	return animatedMapTmpl.Execute(f, map[string]any{
		"Features":  template.JS(payload),
		"Region":    regionJSON,
		"HasRegion": region != nil,
		"CenterLat": o.MapCenterLat,
		"CenterLon": o.MapCenterLon,
		"Zoom":      o.MapZoom,
	})
}

var animatedMapTmpl = template.Must(template.New("animatedmap").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Particle animation</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/leaflet-timedimension@1.1.1/dist/leaflet.timedimension.control.min.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://cdn.jsdelivr.net/npm/iso8601-js-period@0.2.1/iso8601.min.js"></script>
<script src="https://cdn.jsdelivr.net/npm/leaflet-timedimension@1.1.1/dist/leaflet.timedimension.min.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map', {
    center: [{{.CenterLat}}, {{.CenterLon}}],
    zoom: {{.Zoom}},
    timeDimension: true,
    timeDimensionOptions: {period: 'P1D'},
    timeDimensionControl: true,
    timeDimensionControlOptions: {
        autoPlay: false,
        loopButton: true,
        maxSpeed: 20,
        timeSliderDragUpdate: true,
        playerOptions: {transitionTime: 100, loop: false}
    }
});
L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png', {
    attribution: '&copy; OpenStreetMap contributors &copy; CARTO'
}).addTo(map);

{{if .HasRegion}}
var box = {{.Region}};
L.rectangle(box, {color: 'green', fill: true, fillColor: 'green', fillOpacity: 0.3, weight: 2})
    .bindPopup('Marine Protected Area').addTo(map);
{{end}}

var data = {{.Features}};
var layer = L.geoJSON(data, {
    pointToLayer: function (feature, latlng) {
        var s = feature.properties.iconstyle;
        return L.circleMarker(latlng, {
            radius: s.radius,
            fillColor: s.fillColor,
            fillOpacity: s.fillOpacity,
            stroke: false
        });
    }
});
L.timeDimension.layer.geoJson(layer, {
    updateTimeDimension: true,
    duration: 'P1D',
    addlastPoint: false
}).addTo(map);
</script>
</body>
</html>
`))
