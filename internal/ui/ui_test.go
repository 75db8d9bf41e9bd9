package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ashureev/panelboard/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeltaDirection(t *testing.T) {
	tests := map[string]Direction{
		"2 °C":  DirectionUp,
		"12%":   DirectionUp,
		"-8%":   DirectionDown,
		"-5 ms": DirectionDown,
		"":      DirectionFlat,
		"0%":    DirectionFlat,
	}
	for in, want := range tests {
		assert.Equal(t, want, DeltaDirection(in), in)
	}
}

func TestProgressClamped(t *testing.T) {
	assert.Equal(t, 0, *Progress(-3).Percent)
	assert.Equal(t, 100, *Progress(140).Percent)
	assert.Equal(t, 42, *Progress(42).Percent)
}

func TestFind_Nested(t *testing.T) {
	tree := []Node{
		Title("top"),
		Columns(MetricCard("a", "1", ""), MetricCard("b", "2", "")),
		Tabs(
			Tab{Label: "one", Children: []Node{Info("inside")}},
			Tab{Label: "two", Children: []Node{Columns(Info("deeper"))}},
		),
	}

	assert.Len(t, Find(tree, KindMetric), 2)
	infos := Find(tree, KindInfo)
	require.Len(t, infos, 2)
	assert.Equal(t, "deeper", infos[1].Text)
	assert.Empty(t, Find(tree, KindTable))
}

func TestMarkdown_DropsRawHTML(t *testing.T) {
	out := string(NewMarkdownRenderer().Render("**hi** <script>alert(1)</script>"))
	assert.Contains(t, out, "<strong>hi</strong>")
	assert.NotContains(t, out, "<script>")
}

func newRenderer(t *testing.T) *HTMLRenderer {
	t.Helper()
	r, err := NewHTMLRenderer(web.Templates)
	require.NoError(t, err)
	return r
}

func TestHTMLRenderer_Page(t *testing.T) {
	page := Page{
		Meta: Meta{
			Title:        "Demo",
			Icon:         "📈",
			Layout:       "wide",
			SidebarState: "collapsed",
			Menu: []MenuItem{
				{Label: "Get Help", Href: "https://example.com/help"},
				{Label: "About", Markdown: "# About us"},
			},
		},
		Panel:   "dashboard",
		Sidebar: []Node{SelectBox("Choose a demo", Option{Value: "dashboard", Label: "Dash", Href: "/panels/dashboard", Selected: true})},
		Main: []Node{
			Title("Hello <world>"),
			MetricCard("Revenue", "$12,480", "-8%"),
			Progress(30).WithID("bar"),
		},
		Footer: []Node{Caption("bye")},
	}

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).Render(&buf, page))
	html := buf.String()

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>Demo</title>")
	assert.Contains(t, html, "sidebar-collapsed")
	assert.Contains(t, html, "Hello &lt;world&gt;")
	assert.Contains(t, html, `class="metric-delta delta-down"`)
	assert.Contains(t, html, `id="bar"`)
	assert.Contains(t, html, `width: 30%`)
	assert.Contains(t, html, `aria-current="page"`)
	assert.Contains(t, html, `<h1 id="about-us">About us</h1>`)
}

func TestHTMLRenderer_Nodes(t *testing.T) {
	nodes := []Node{
		ChatMessage("m1", "user", "*hi*"),
		TableNode(&Table{
			Columns:  []Column{{Name: "a", Kind: "number"}},
			Rows:     [][]string{{"1"}, {"2"}},
			RowCount: 2,
		}),
		InlineImage("pic", "data:image/png;base64,AQID", 0),
		InlineImage("bad", "javascript:alert(1)", 0),
		LiveStream("s", "/api/counter/stream", "progress", "complete"),
	}

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).RenderNodes(&buf, nodes))
	html := buf.String()

	assert.Contains(t, html, `data-id="m1"`)
	assert.Contains(t, html, "<em>hi</em>")
	assert.Contains(t, html, "2 rows × 1 columns")
	assert.Contains(t, html, `src="data:image/png;base64,AQID"`)
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, `data-events="progress,complete"`)
}

func TestHTMLRenderer_ChartFallback(t *testing.T) {
	var buf bytes.Buffer
	err := newRenderer(t).RenderNodes(&buf, []Node{ChartNode(&Chart{Type: "line", Error: "no data"})})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Chart unavailable: no data")
}
