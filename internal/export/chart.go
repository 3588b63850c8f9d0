package export

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/srikolla28/trackfina/internal/core"
)

// CategoryChartPNG renders an expense-by-category bar chart for the report.
// Only outflows (Credit, Withdrawal) are charted; deposits carry no category
// spend. Returns nil bytes when there is nothing to chart.
func CategoryChartPNG(purchases []core.Purchase) ([]byte, error) {
	totals := make(map[core.Category]int64)
	for _, p := range purchases {
		if p.Type.IsOutflow() {
			totals[p.Category] += p.Price.Cents
		}
	}
	if len(totals) == 0 {
		return nil, nil
	}

	// Fixed category order keeps the chart deterministic.
	var bars []chart.Value
	for _, cat := range core.Categories() {
		cents, ok := totals[cat]
		if !ok {
			continue
		}
		bars = append(bars, chart.Value{
			Label: string(cat),
			Value: float64(cents) / 100.0,
		})
	}

	graph := chart.BarChart{
		Title:    "Expenses by Category",
		Width:    900,
		Height:   450,
		BarWidth: 60,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category chart: %w", err)
	}
	return buf.Bytes(), nil
}
