package app

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/ashureev/panelboard/internal/charts"
	"github.com/ashureev/panelboard/internal/domain"
	"github.com/ashureev/panelboard/internal/explorer"
	"github.com/ashureev/panelboard/internal/ui"
)

const (
	explorerPrompt    = "Upload a CSV file to explore"
	noNumericColumns  = "No numeric columns to chart"
	explorerNotCSVMsg = "Only CSV files are accepted"
)

func (a *App) dataExplorer(ctx context.Context, art *domain.Artifact) []ui.Node {
	nodes := []ui.Node{
		ui.Title("Data Explorer"),
		ui.FileInput(ExplorerAction, "Upload CSV", ".csv"),
	}
	if art == nil {
		return append(nodes, ui.Info(explorerPrompt))
	}

	if err := explorer.CheckExtension(art.Name); err != nil {
		slog.InfoContext(ctx, "Rejected explorer upload", "name", art.Name, "error", err)
		return append(nodes, ui.Error(fmt.Sprintf("%s: %s is not a .csv file", explorerNotCSVMsg, art.Name)))
	}

	f, err := explorer.Parse(bytes.NewReader(art.Data))
	if err != nil {
		slog.InfoContext(ctx, "Could not parse upload", "name", art.Name, "error", err)
		return append(nodes, parseError(art.Name, err))
	}

	nodes = append(nodes, ui.TableNode(frameTable(f)))
	return append(nodes, frameChart(ctx, f)...)
}

func parseError(name string, err error) ui.Node {
	return ui.Error(fmt.Sprintf("Could not parse %s: %v", name, err))
}

// frameTable shows every row and column of f.
func frameTable(f *explorer.Frame) *ui.Table {
	t := &ui.Table{
		Columns:  make([]ui.Column, len(f.Columns)),
		Rows:     f.Rows,
		RowCount: f.RowCount(),
	}
	for i, c := range f.Columns {
		t.Columns[i] = ui.Column{Name: c.Name, Kind: string(c.Kind)}
	}
	return t
}

// frameChart plots every numeric column of f over the row index.
func frameChart(ctx context.Context, f *explorer.Frame) []ui.Node {
	numeric := f.NumericColumns()
	if len(numeric) == 0 {
		return []ui.Node{ui.Info(noNumericColumns)}
	}

	lines := make([]charts.Line, 0, len(numeric))
	for _, col := range numeric {
		xs, ys := f.Series(col)
		lines = append(lines, charts.Line{Name: f.Columns[col].Name, X: xs, Y: ys})
	}
	c, err := charts.Lines("", "index", lines...)
	return chartNodes(ctx, c, err)
}
