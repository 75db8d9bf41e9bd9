// Package charts renders dashboard charts to SVG with go-chart.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/ashureev/panelboard/internal/ui"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 960
	defaultHeight = 420
	dateFormat    = "2006-01-02"
)

// ErrNoData is returned when a chart has no plottable points.
var ErrNoData = errors.New("no data to plot")

var (
	backgroundColor = drawing.ColorFromHex("1e1e1e")
	axisColor       = drawing.ColorFromHex("9aa0a6")
	fontColor       = drawing.ColorFromHex("fafafa")
	palette         = []drawing.Color{
		drawing.ColorFromHex("636efa"),
		drawing.ColorFromHex("ef553b"),
		drawing.ColorFromHex("00cc96"),
		drawing.ColorFromHex("ab63fa"),
		drawing.ColorFromHex("ffa15a"),
		drawing.ColorFromHex("19d3f3"),
	}
)

// TimeLine is a named series over dates.
type TimeLine struct {
	Name  string
	Dates []time.Time
	Y     []float64
}

// Line is a named series over numeric x positions.
type Line struct {
	Name string
	X    []float64
	Y    []float64
}

// Points is a scatter data set; Size drives dot width and colour.
type Points struct {
	Name string
	X    []float64
	Y    []float64
	Size []float64
}

// svgText escapes s for go-chart, which writes labels into the SVG verbatim.
func svgText(s string) string {
	return html.EscapeString(s)
}

// xRange widens a zero-width x axis by pad on each side; go-chart cannot draw
// one. It returns nil when xs already spans a range.
func xRange(pad float64, xs ...[]float64) *chart.ContinuousRange {
	first, lo, hi := true, 0.0, 0.0
	for _, s := range xs {
		for _, x := range s {
			if first {
				lo, hi, first = x, x, false
				continue
			}
			lo = min(lo, x)
			hi = max(hi, x)
		}
	}
	if first || hi > lo {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func seriesColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

func axisStyle() chart.Style {
	return chart.Style{
		FontColor:   fontColor,
		StrokeColor: axisColor,
	}
}

func baseChart(title string) chart.Chart {
	return chart.Chart{
		Title:      svgText(title),
		TitleStyle: chart.Style{FontColor: fontColor},
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{
			FillColor: backgroundColor,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: backgroundColor},
	}
}

func render(c chart.Chart) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.SVG, &buf); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return buf.String(), nil
}

// finish renders c into out, recording a render failure on the chart itself
// so the page can degrade instead of failing.
func finish(out *ui.Chart, c chart.Chart) (*ui.Chart, error) {
	svg, err := render(c)
	if err != nil {
		out.Error = err.Error()
		return out, err
	}
	out.SVG = svg
	return out, nil
}

// TimeLines renders one line per series over a shared date axis.
func TimeLines(title, yName string, lines ...TimeLine) (*ui.Chart, error) {
	out := &ui.Chart{Type: "line", Title: title, XName: "date", YName: yName}

	c := baseChart(title)
	c.XAxis = chart.XAxis{
		Name:           "date",
		NameStyle:      axisStyle(),
		Style:          axisStyle(),
		ValueFormatter: chart.TimeValueFormatterWithFormat(dateFormat),
	}
	c.YAxis = chart.YAxis{Name: svgText(yName), NameStyle: axisStyle(), Style: axisStyle()}

	var stamps [][]float64
	for i, l := range lines {
		s := ui.Series{Name: l.Name, Y: l.Y}
		for _, d := range l.Dates {
			s.X = append(s.X, float64(d.Unix()))
			s.XLabels = append(s.XLabels, d.Format(dateFormat))
		}
		out.Series = append(out.Series, s)

		xs := make([]float64, len(l.Dates))
		for j, d := range l.Dates {
			xs[j] = chart.TimeToFloat64(d)
		}
		stamps = append(stamps, xs)

		c.Series = append(c.Series, chart.TimeSeries{
			Name:    svgText(l.Name),
			XValues: l.Dates,
			YValues: l.Y,
			Style:   chart.Style{StrokeColor: seriesColor(i), StrokeWidth: 2},
		})
	}
	if len(c.Series) == 0 {
		out.Error = ErrNoData.Error()
		return out, ErrNoData
	}
	if r := xRange(float64(12*time.Hour), stamps...); r != nil {
		c.XAxis.Range = r
	}
	c.Elements = []chart.Renderable{chart.LegendThin(&c)}

	return finish(out, c)
}

// Lines renders one line per series over numeric x positions.
func Lines(title, xName string, lines ...Line) (*ui.Chart, error) {
	out := &ui.Chart{Type: "line", Title: title, XName: xName}

	c := baseChart(title)
	c.XAxis = chart.XAxis{Name: svgText(xName), NameStyle: axisStyle(), Style: axisStyle()}
	c.YAxis = chart.YAxis{Style: axisStyle()}

	var xs [][]float64
	for i, l := range lines {
		out.Series = append(out.Series, ui.Series{Name: l.Name, X: l.X, Y: l.Y})
		if len(l.X) == 0 {
			continue
		}
		xs = append(xs, l.X)
		c.Series = append(c.Series, chart.ContinuousSeries{
			Name:    svgText(l.Name),
			XValues: l.X,
			YValues: l.Y,
			Style:   chart.Style{StrokeColor: seriesColor(i), StrokeWidth: 2},
		})
	}
	if len(c.Series) == 0 {
		out.Error = ErrNoData.Error()
		return out, ErrNoData
	}
	if r := xRange(0.5, xs...); r != nil {
		c.XAxis.Range = r
	}
	c.Elements = []chart.Renderable{chart.LegendThin(&c)}

	return finish(out, c)
}

// Scatter renders points whose dot width and colour scale with Size.
func Scatter(title, xName, yName string, p Points) (*ui.Chart, error) {
	out := &ui.Chart{
		Type:   "scatter",
		Title:  title,
		XName:  xName,
		YName:  yName,
		Series: []ui.Series{{Name: p.Name, X: p.X, Y: p.Y, Size: p.Size}},
	}
	if len(p.X) == 0 {
		out.Error = ErrNoData.Error()
		return out, ErrNoData
	}

	lo, hi := bounds(p.Size)
	sizeAt := func(index int) float64 {
		if index < 0 || index >= len(p.Size) {
			return lo
		}
		return p.Size[index]
	}

	c := baseChart(title)
	c.XAxis = chart.XAxis{Name: svgText(xName), NameStyle: axisStyle(), Style: axisStyle()}
	if r := xRange(0.5, p.X); r != nil {
		c.XAxis.Range = r
	}
	c.YAxis = chart.YAxis{Name: svgText(yName), NameStyle: axisStyle(), Style: axisStyle()}
	c.Series = []chart.Series{
		chart.ContinuousSeries{
			Name:    svgText(p.Name),
			XValues: p.X,
			YValues: p.Y,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
					return 3 + 9*normalize(sizeAt(index), lo, hi)
				},
				DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
					return chart.Viridis(sizeAt(index), lo, hi)
				},
			},
		},
	}

	return finish(out, c)
}

func bounds(vs []float64) (lo, hi float64) {
	if len(vs) == 0 {
		return 0, 1
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}
