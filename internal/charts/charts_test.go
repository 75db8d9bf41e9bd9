package charts

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDates(n int) []time.Time {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func TestTimeLinesRendersSVG(t *testing.T) {
	dates := sampleDates(10)
	sales := []float64{100, 101, 99, 102, 104, 103, 105, 107, 106, 108}
	visits := []float64{50, 80, 120, 90, 300, 200, 250, 410, 320, 75}

	c, err := TimeLines("Sales & Visits Over Time", "value",
		TimeLine{Name: "sales", Dates: dates, Y: sales},
		TimeLine{Name: "visits", Dates: dates, Y: visits},
	)
	require.NoError(t, err)

	assert.True(t, strings.Contains(c.SVG, "<svg"), "expected svg output")
	assert.Equal(t, "line", c.Type)
	require.Len(t, c.Series, 2)
	assert.Equal(t, "2025-01-01", c.Series[0].XLabels[0])
	assert.Equal(t, "2025-01-10", c.Series[1].XLabels[9])
}

func TestLinesSkipsEmptySeries(t *testing.T) {
	c, err := Lines("cols", "row",
		Line{Name: "a", X: []float64{0, 1, 2}, Y: []float64{1, 5, 3}},
		Line{Name: "empty"},
	)
	require.NoError(t, err)
	assert.Len(t, c.Series, 2, "data for every series is kept")
	assert.NotEmpty(t, c.SVG)
}

func TestLinesNoData(t *testing.T) {
	c, err := Lines("cols", "row")
	assert.True(t, errors.Is(err, ErrNoData))
	require.NotNil(t, c)
	assert.Empty(t, c.SVG)
	assert.NotEmpty(t, c.Error)
}

func TestScatterRendersSVG(t *testing.T) {
	c, err := Scatter("Visits vs Sales", "visits", "sales", Points{
		Name: "conversion",
		X:    []float64{50, 120, 300, 450},
		Y:    []float64{98, 101, 104, 110},
		Size: []float64{2.5, 4, 6.1, 7.9},
	})
	require.NoError(t, err)
	assert.Equal(t, "scatter", c.Type)
	assert.Contains(t, c.SVG, "<svg")
	assert.Equal(t, []float64{2.5, 4, 6.1, 7.9}, c.Series[0].Size)
}

func TestSinglePointCharts(t *testing.T) {
	line, err := Lines("", "index", Line{Name: "a", X: []float64{0}, Y: []float64{2}})
	require.NoError(t, err)
	assert.Contains(t, line.SVG, "<svg")
	assert.Empty(t, line.Error)

	scatter, err := Scatter("", "x", "y", Points{Name: "p", X: []float64{3}, Y: []float64{4}, Size: []float64{1}})
	require.NoError(t, err)
	assert.Contains(t, scatter.SVG, "<svg")

	day, err := TimeLines("", "value", TimeLine{Name: "sales", Dates: sampleDates(1), Y: []float64{7}})
	require.NoError(t, err)
	assert.Contains(t, day.SVG, "<svg")
}

func TestLabelsAreEscapedInSVG(t *testing.T) {
	c, err := Lines("<b>title</b>", "<i>x</i>",
		Line{Name: "<script>alert(1)</script>", X: []float64{0, 1}, Y: []float64{1, 2}},
		Line{Name: "<img src=x onerror=alert(1)>", X: []float64{0, 1}, Y: []float64{3, 4}},
	)
	require.NoError(t, err)

	assert.NotContains(t, c.SVG, "<script>")
	assert.NotContains(t, c.SVG, "<img")
	assert.NotContains(t, c.SVG, "<b>")
	assert.Contains(t, c.SVG, "&lt;script&gt;")
	assert.Equal(t, "<script>alert(1)</script>", c.Series[0].Name, "chart data keeps the raw name")
}

func TestXRange(t *testing.T) {
	assert.Nil(t, xRange(0.5, []float64{0, 1}))
	assert.Nil(t, xRange(0.5))

	r := xRange(0.5, []float64{2}, []float64{2, 2})
	require.NotNil(t, r)
	assert.Equal(t, 1.5, r.Min)
	assert.Equal(t, 2.5, r.Max)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 0.5, normalize(3, 3, 3))
	assert.Equal(t, 0.0, normalize(2, 2, 8))
	assert.Equal(t, 1.0, normalize(8, 2, 8))
	lo, hi := bounds([]float64{4, -1, 9})
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 9.0, hi)
}
