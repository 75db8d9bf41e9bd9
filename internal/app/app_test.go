package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/ashureev/panelboard/internal/chat"
	"github.com/ashureev/panelboard/internal/config"
	"github.com/ashureev/panelboard/internal/domain"
	"github.com/ashureev/panelboard/internal/ui"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func newTestApp() *App {
	return New(config.Default(),
		WithClock(func() time.Time { return fixedNow }),
		WithRand(func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }),
	)
}

func render(t *testing.T, a *App, st State, ev Event) (ui.Page, State) {
	t.Helper()
	page, next, err := a.Render(context.Background(), st, ev)
	require.NoError(t, err)
	return page, next
}

func titles(nodes []ui.Node) []string {
	var out []string
	for _, n := range ui.Find(nodes, ui.KindTitle) {
		out = append(out, n.Text)
	}
	return out
}

func TestRender_ExactlyOnePanel(t *testing.T) {
	want := map[domain.Panel]string{
		domain.PanelDashboard:     "Interactive Dashboard",
		domain.PanelDataExplorer:  "Data Explorer",
		domain.PanelLiveCounter:   "Live Counter + Progress",
		domain.PanelChatSimulator: "Chat Interface",
		domain.PanelFileUploader:  "File Uploader & Preview",
	}
	a := newTestApp()

	for _, p := range domain.Panels() {
		t.Run(string(p), func(t *testing.T) {
			page, _ := render(t, a, State{Panel: p}, Load{})
			assert.Equal(t, string(p), page.Panel)
			assert.Equal(t, []string{want[p]}, titles(page.Main))

			// Rendering twice selects the same panel.
			again, _ := render(t, a, State{Panel: p}, Load{})
			assert.Equal(t, titles(page.Main), titles(again.Main))
		})
	}
}

func TestRender_DefaultAndUnknownPanel(t *testing.T) {
	a := newTestApp()

	page, st := render(t, a, State{}, Load{})
	assert.Equal(t, string(domain.PanelDashboard), page.Panel)
	assert.Equal(t, domain.PanelDashboard, st.Panel)

	_, _, err := a.Render(context.Background(), State{Panel: "settings"}, Load{})
	assert.ErrorIs(t, err, domain.ErrUnknownPanel)
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newTestApp().Render(ctx, State{}, Load{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender_Sidebar(t *testing.T) {
	page, _ := render(t, newTestApp(), State{Panel: domain.PanelLiveCounter}, Load{})

	captions := ui.Find(page.Sidebar, ui.KindCaption)
	require.Len(t, captions, 1)
	assert.Equal(t, "Running on EC2 • 2025-03-04 05:06:07", captions[0].Text)

	selects := ui.Find(page.Sidebar, ui.KindSelect)
	require.Len(t, selects, 1)
	var selected []string
	for _, o := range selects[0].Select.Options {
		if o.Selected {
			selected = append(selected, o.Value)
		}
	}
	assert.Equal(t, []string{"live-counter"}, selected)
	assert.Len(t, selects[0].Select.Options, 5)

	assert.Equal(t, "Modern Dashboard Demo", page.Meta.Title)
	require.Len(t, page.Meta.Menu, 3)
	assert.Equal(t, "About", page.Meta.Menu[2].Label)
	assert.Len(t, ui.Find(page.Footer, ui.KindCaption), 1)
}

func TestChat_SeedsGreetingOnce(t *testing.T) {
	a := newTestApp()

	_, st := render(t, a, State{Panel: domain.PanelChatSimulator}, Load{})
	require.Len(t, st.History, 1)
	assert.Equal(t, chat.Greeting, st.History[0].Content)
	assert.Len(t, st.Pending, 1)

	_, st = render(t, a, st, Load{})
	assert.Len(t, st.History, 1)
	assert.Empty(t, st.Pending)
}

func TestChat_HistoryGrowsByTwoInOrder(t *testing.T) {
	a := newTestApp()
	_, st := render(t, a, State{Panel: domain.PanelChatSimulator}, Load{})

	var page ui.Page
	const n = 6
	for i := 1; i <= n; i++ {
		prev := st.History
		page, st = render(t, a, st, ChatSubmit{Text: fmt.Sprintf("turn %d", i)})

		require.Len(t, st.Pending, 2)
		assert.Equal(t, domain.RoleUser, st.Pending[0].Role)
		assert.Equal(t, domain.RoleAssistant, st.Pending[1].Role)
		assert.Equal(t, chat.Respond(st.Pending[0].Content), st.Pending[1].Content)

		// Earlier entries are kept unchanged.
		if diff := cmp.Diff(prev, st.History[:len(prev)]); diff != "" {
			t.Fatalf("history prefix changed (-want +got):\n%s", diff)
		}
	}

	assert.Len(t, st.History, 1+2*n)
	msgs := ui.Find(page.Main, ui.KindChatMessage)
	require.Len(t, msgs, 1+2*n)
	assert.Equal(t, "turn 1", msgs[1].Message.Content)
	assert.Equal(t, "Echo (from private EC2): TURN 6", msgs[len(msgs)-1].Message.Content)
}

func TestChat_BlankSubmissionIgnored(t *testing.T) {
	a := newTestApp()
	_, st := render(t, a, State{Panel: domain.PanelChatSimulator}, Load{})

	_, st = render(t, a, st, ChatSubmit{Text: "   "})
	assert.Len(t, st.History, 1)
	assert.Empty(t, st.Pending)
}

func TestChat_SubmitSelectsChatPanel(t *testing.T) {
	page, st := render(t, newTestApp(), State{Panel: domain.PanelDashboard}, ChatSubmit{Text: "hi"})
	assert.Equal(t, "chat-simulator", page.Panel)
	assert.Len(t, st.History, 3)
}

func TestNoUploadPrompts(t *testing.T) {
	a := newTestApp()
	tests := []struct {
		panel  domain.Panel
		prompt string
	}{
		{domain.PanelDataExplorer, "Upload a CSV file to explore"},
		{domain.PanelFileUploader, "Drop any file to preview it"},
	}
	for _, tt := range tests {
		t.Run(string(tt.panel), func(t *testing.T) {
			for _, ev := range []Event{Load{}, Upload{Panel: tt.panel}} {
				page, _ := render(t, a, State{Panel: tt.panel}, ev)

				infos := ui.Find(page.Main, ui.KindInfo)
				require.Len(t, infos, 1)
				assert.Equal(t, tt.prompt, infos[0].Text)
				assert.Empty(t, ui.Find(page.Main, ui.KindTable))
				assert.Empty(t, ui.Find(page.Main, ui.KindChart))
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	page, _ := render(t, newTestApp(), State{Panel: domain.PanelDashboard}, Load{})

	metrics := ui.Find(page.Main, ui.KindMetric)
	require.Len(t, metrics, 4)
	assert.Equal(t, ui.Metric{Label: "Revenue", Value: "$12,480", Delta: "-8%", Direction: ui.DirectionDown}, *metrics[1].Metric)
	assert.Equal(t, ui.DirectionUp, metrics[0].Metric.Direction)

	tabs := ui.Find(page.Main, ui.KindTabs)
	require.Len(t, tabs, 1)
	require.Len(t, tabs[0].Tabs, 2)
	assert.Equal(t, "Line Chart", tabs[0].Tabs[0].Label)
	assert.Equal(t, "Scatter Plot", tabs[0].Tabs[1].Label)

	chartNodes := ui.Find(page.Main, ui.KindChart)
	require.Len(t, chartNodes, 2)
	line, scatter := chartNodes[0].Chart, chartNodes[1].Chart
	assert.Equal(t, "Sales & Visits Over Time", line.Title)
	require.Len(t, line.Series, 2)
	assert.Len(t, line.Series[0].Y, 100)
	assert.Equal(t, "2025-01-01", line.Series[0].XLabels[0])
	assert.Equal(t, "Visits vs Sales", scatter.Title)
	assert.Len(t, scatter.Series[0].Size, 100)
}

func TestGenerateMetrics(t *testing.T) {
	rows := GenerateMetrics(rand.New(rand.NewPCG(7, 7)), metricsStart, 100)
	require.Len(t, rows, 100)

	assert.Equal(t, metricsStart, rows[0].Date)
	assert.Equal(t, metricsStart.AddDate(0, 0, 99), rows[99].Date)
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.Visits, 50)
		assert.Less(t, r.Visits, 500)
		assert.GreaterOrEqual(t, r.Conversion, 2.0)
		assert.Less(t, r.Conversion, 8.0)
	}

	same := GenerateMetrics(rand.New(rand.NewPCG(7, 7)), metricsStart, 100)
	assert.Equal(t, rows, same, "same seed gives the same series")
}

func TestLiveCounterInitialState(t *testing.T) {
	page, _ := render(t, newTestApp(), State{Panel: domain.PanelLiveCounter}, Load{})

	progress := ui.Find(page.Main, ui.KindProgress)
	require.Len(t, progress, 1)
	assert.Equal(t, 0, *progress[0].Percent)
	assert.Equal(t, CounterProgressID, progress[0].ID)

	streams := ui.Find(page.Main, ui.KindStream)
	require.Len(t, streams, 1)
	assert.Equal(t, CounterStreamURL, streams[0].Stream.URL)
	assert.Equal(t, []string{"progress", "complete"}, streams[0].Stream.Events)
}
