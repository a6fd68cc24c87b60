package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderRegretChart renders gOpt and gRestricted, the two gain series
// diagnostics.PerformanceReplay returns, as a line chart written to
// <dir>/<name>.html. Returns the output path instead of blocking
// forever behind an http.FileServer — a rendering helper has no business
// owning a server's lifetime.
func RenderRegretChart(dir, name string, gOpt, gRestricted []float64) (string, error) {
	if len(gOpt) != len(gRestricted) {
		return "", fmt.Errorf("reporting: gOpt and gRestricted must have equal length, got %d and %d", len(gOpt), len(gRestricted))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "UCRL2 performance replay: optimist vs restricted policy",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	steps := make([]string, len(gOpt))
	for i := range steps {
		steps[i] = fmt.Sprintf("%d", i+1)
	}
	line.SetXAxis(steps)

	optItems := make([]opts.LineData, len(gOpt))
	for i, g := range gOpt {
		optItems[i] = opts.LineData{Value: g}
	}
	line.AddSeries("g_opt", optItems)

	restrictedItems := make([]opts.LineData, len(gRestricted))
	for i, g := range gRestricted {
		restrictedItems[i] = opts.LineData{Value: g}
	}
	line.AddSeries("g_restricted", restrictedItems)

	page := components.NewPage()
	page.AddCharts(line)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("reporting: creating chart directory: %w", err)
	}
	path := dir + "/" + name + ".html"
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("reporting: creating chart file: %w", err)
	}
	defer f.Close()

	if err := page.Render(io.MultiWriter(f)); err != nil {
		return "", fmt.Errorf("reporting: rendering chart: %w", err)
	}
	return path, nil
}
