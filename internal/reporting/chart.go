package reporting

import (
	"github.com/guptarohit/asciigraph"
)

// RenderChart plots a daily series as an ASCII line chart.
func RenderChart(points []SeriesPoint, width, height int, caption string) string {
	if len(points) == 0 {
		return "No data available"
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = float64(p.Value)
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
	}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}
	return asciigraph.Plot(data, opts...)
}
