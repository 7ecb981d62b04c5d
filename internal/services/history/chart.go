package history

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/minjaekwon/assetboard/internal/models"
)

// benchmarkPalette cycles through distinct stroke colors for benchmark
// lines. Portfolio lines have fixed colors below.
var benchmarkPalette = []string{
	"9ca3af", // gray-400
	"f59e0b", // amber-500
	"10b981", // emerald-500
	"8b5cf6", // violet-500
	"ec4899", // pink-500
	"64748b", // slate-500
}

// renderComparisonChart renders a PNG line chart of percent returns:
// one line per benchmark plus the domestic and overseas portfolio lines.
func renderComparisonChart(points []models.ComparisonPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	xValues := make([]time.Time, len(points))
	for i, p := range points {
		t, err := time.Parse(models.DateLayout, p.Date)
		if err != nil {
			return nil, fmt.Errorf("bad point date '%s': %w", p.Date, err)
		}
		xValues[i] = t
	}

	// Union of benchmark names across points, in stable order.
	nameSet := make(map[string]bool)
	for _, p := range points {
		for name := range p.Indexes {
			nameSet[name] = true
		}
	}
	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	var series []chart.Series
	for i, name := range names {
		yValues := make([]float64, len(points))
		for j, p := range points {
			yValues[j] = p.Indexes[name]
		}
		series = append(series, chart.TimeSeries{
			Name: name,
			Style: chart.Style{
				StrokeColor:     drawing.ColorFromHex(benchmarkPalette[i%len(benchmarkPalette)]),
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{5.0, 3.0},
			},
			XValues: xValues,
			YValues: yValues,
		})
	}

	domesticY := make([]float64, len(points))
	overseasY := make([]float64, len(points))
	for i, p := range points {
		domesticY[i] = p.MyDomestic
		overseasY[i] = p.MyOverseas
	}
	series = append(series,
		chart.TimeSeries{
			Name: "My Domestic",
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
				StrokeWidth: 2.5,
			},
			XValues: xValues,
			YValues: domesticY,
		},
		chart.TimeSeries{
			Name: "My Overseas",
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("dc2626"), // red-600
				StrokeWidth: 2.5,
			},
			XValues: xValues,
			YValues: overseasY,
		},
	)

	graph := chart.Chart{
		Title:  "Return vs Benchmarks",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f%%", f)
				}
				return ""
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
