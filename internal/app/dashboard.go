package app

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/ashureev/panelboard/internal/charts"
	"github.com/ashureev/panelboard/internal/domain"
	"github.com/ashureev/panelboard/internal/ui"
)

const metricsDays = 100

var metricsStart = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// GenerateMetrics returns n daily rows starting at start: sales is a random
// walk around 100, visits is uniform in [50, 500) and conversion uniform in [2, 8).
func GenerateMetrics(r *rand.Rand, start time.Time, n int) []domain.MetricsRow {
	rows := make([]domain.MetricsRow, n)
	walk := 0.0
	for i := range rows {
		walk += r.NormFloat64()
		rows[i] = domain.MetricsRow{
			Date:       start.AddDate(0, 0, i),
			Sales:      walk + 100,
			Visits:     50 + r.IntN(450),
			Conversion: 2 + r.Float64()*6,
		}
	}
	return rows
}

func (a *App) dashboard(ctx context.Context) []ui.Node {
	rows := GenerateMetrics(a.newRand(), metricsStart, metricsDays)

	return []ui.Node{
		ui.Title("Interactive Dashboard"),
		ui.Columns(
			ui.MetricCard("Temperature", "24 °C", "2 °C"),
			ui.MetricCard("Revenue", "$12,480", "-8%"),
			ui.MetricCard("Active Users", "1,234", "12%"),
			ui.MetricCard("Latency", "87 ms", "-5 ms"),
		),
		ui.Tabs(
			ui.Tab{Label: "Line Chart", Children: lineTab(ctx, rows)},
			ui.Tab{Label: "Scatter Plot", Children: scatterTab(ctx, rows)},
		).WithID("dashboard"),
	}
}

func lineTab(ctx context.Context, rows []domain.MetricsRow) []ui.Node {
	dates := make([]time.Time, len(rows))
	sales := make([]float64, len(rows))
	visits := make([]float64, len(rows))
	for i, r := range rows {
		dates[i] = r.Date
		sales[i] = r.Sales
		visits[i] = float64(r.Visits)
	}

	c, err := charts.TimeLines("Sales & Visits Over Time", "value",
		charts.TimeLine{Name: "sales", Dates: dates, Y: sales},
		charts.TimeLine{Name: "visits", Dates: dates, Y: visits},
	)
	return chartNodes(ctx, c, err)
}

func scatterTab(ctx context.Context, rows []domain.MetricsRow) []ui.Node {
	p := charts.Points{Name: "conversion"}
	for _, r := range rows {
		p.X = append(p.X, float64(r.Visits))
		p.Y = append(p.Y, r.Sales)
		p.Size = append(p.Size, r.Conversion)
	}

	c, err := charts.Scatter("Visits vs Sales", "visits", "sales", p)
	return chartNodes(ctx, c, err)
}

// chartNodes degrades a chart that could not be drawn to an error note.
func chartNodes(ctx context.Context, c *ui.Chart, err error) []ui.Node {
	if err != nil {
		slog.WarnContext(ctx, "Chart rendering failed", "chart", c.Title, "error", err)
		return []ui.Node{ui.Error("Chart unavailable: " + err.Error())}
	}
	return []ui.Node{ui.ChartNode(c)}
}
