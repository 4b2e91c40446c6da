package export

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/piwi3910/CakeCut/internal/engine"
	"github.com/piwi3910/CakeCut/internal/sim"
)

// ExportComparisonChart renders the penalty of each assignment strategy as
// an HTML bar chart.
func ExportComparisonChart(path string, results []engine.ComparisonResult) error {
	if len(results) == 0 {
		return fmt.Errorf("no comparison results to chart")
	}
	names := make([]string, len(results))
	penalties := make([]float64, len(results))
	for i, r := range results {
		names[i] = r.Scenario.Name
		penalties[i] = r.Penalty
	}
	return renderPenaltyChart(path, "Assignment Strategies", "Penalty of the final assignment per strategy", names, penalties)
}

// ExportBehaviorChart renders the final penalty of each played game as an
// HTML bar chart, labelled by behavior.
func ExportBehaviorChart(path string, records []*sim.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("no games to chart")
	}
	names := make([]string, len(records))
	penalties := make([]float64, len(records))
	for i, rec := range records {
		names[i] = rec.Game.Behavior
		penalties[i] = rec.Penalty
	}
	subtitle := fmt.Sprintf("Game %s, %d requests", records[0].Game.ID, len(records[0].Game.Requests))
	return renderPenaltyChart(path, "Cutting Behaviors", subtitle, names, penalties)
}

func renderPenaltyChart(path, title, subtitle string, names []string, penalties []float64) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "CakeCut - " + title}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Penalty"}),
	)

	items := make([]opts.BarData, len(penalties))
	for i, p := range penalties {
		items[i] = opts.BarData{Name: names[i], Value: p}
	}
	bar.SetXAxis(names).AddSeries("Penalty", items)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := bar.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return f.Close()
}
