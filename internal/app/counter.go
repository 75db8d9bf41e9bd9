package app

import (
	"github.com/ashureev/panelboard/internal/counter"
	"github.com/ashureev/panelboard/internal/ui"
)

// Element IDs the live counter stream patches in place.
const (
	CounterCountID    = "counter-count"
	CounterProgressID = "counter-progress"
	CounterStreamID   = "counter-stream"
)

// liveCounter renders the initial state; the stream drives the rest.
func (a *App) liveCounter() []ui.Node {
	first := counter.NewStep(0)
	return []ui.Node{
		ui.Title("Live Counter + Progress"),
		ui.Markdown(first.Markdown).WithID(CounterCountID),
		ui.Progress(first.Percent).WithID(CounterProgressID),
		ui.LiveStream(CounterStreamID, CounterStreamURL, "progress", "complete"),
	}
}
