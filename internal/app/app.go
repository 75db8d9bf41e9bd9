// Package app is the render core: it turns the current session state and the
// triggering event into a fresh page tree and the next state.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/ashureev/panelboard/internal/config"
	"github.com/ashureev/panelboard/internal/domain"
	"github.com/ashureev/panelboard/internal/ui"
)

// Upload form targets and the live counter stream.
const (
	ChatAction         = "/panels/chat-simulator/chat"
	ExplorerAction     = "/panels/data-explorer/upload"
	UploaderAction     = "/panels/file-uploader/upload"
	CounterStreamURL   = "/api/counter/stream"
	clockFormat        = "2006-01-02 15:04:05"
	sidebarSelectLabel = "Choose a demo"
)

// State is everything a render pass needs from the session.
type State struct {
	Panel   domain.Panel
	History domain.ChatHistory
	// Pending holds the chat entries added by the last render, which the
	// caller must persist.
	Pending []domain.ChatMessage
}

// Event is what triggered a render pass.
type Event interface {
	event()
}

// Load is a plain page view.
type Load struct{}

// ChatSubmit is a chat prompt submission.
type ChatSubmit struct {
	Text string
}

// Upload carries a file uploaded to a panel. A nil Artifact means the form
// was submitted without a file.
type Upload struct {
	Panel    domain.Panel
	Artifact *domain.Artifact
}

func (Load) event()       {}
func (ChatSubmit) event() {}
func (Upload) event()     {}

// App renders pages.
type App struct {
	cfg     *config.Config
	now     func() time.Time
	newRand func() *rand.Rand
}

// Option configures an App.
type Option func(*App)

// WithClock sets the time source used for the sidebar clock and chat timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithRand sets the random source factory used for the dashboard series.
// It is called once per render.
func WithRand(newRand func() *rand.Rand) Option {
	return func(a *App) { a.newRand = newRand }
}

// New creates an App.
func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		cfg: cfg,
		now: time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Render runs one render pass. Exactly one panel is rendered. The returned
// state carries the chat history after the event, with the newly added
// entries in Pending.
func (a *App) Render(ctx context.Context, st State, ev Event) (ui.Page, State, error) {
	if err := ctx.Err(); err != nil {
		return ui.Page{}, st, err
	}

	switch e := ev.(type) {
	case ChatSubmit:
		st.Panel = domain.PanelChatSimulator
	case Upload:
		if e.Panel != "" {
			st.Panel = e.Panel
		}
	}
	if st.Panel == "" {
		st.Panel = domain.DefaultPanel
	}
	if !st.Panel.Valid() {
		return ui.Page{}, st, fmt.Errorf("render %q: %w", st.Panel, domain.ErrUnknownPanel)
	}
	st.Pending = nil

	now := a.now()
	var main []ui.Node
	switch st.Panel {
	case domain.PanelDashboard:
		main = a.dashboard(ctx)
	case domain.PanelDataExplorer:
		main = a.dataExplorer(ctx, uploadFor(ev, st.Panel))
	case domain.PanelLiveCounter:
		main = a.liveCounter()
	case domain.PanelChatSimulator:
		var err error
		main, st, err = a.chatSimulator(st, ev, now)
		if err != nil {
			return ui.Page{}, st, err
		}
	case domain.PanelFileUploader:
		main = a.fileUploader(ctx, uploadFor(ev, st.Panel))
	}

	slog.DebugContext(ctx, "Rendered panel", "panel", st.Panel, "nodes", len(main))

	return ui.Page{
		Meta:    a.meta(),
		Panel:   string(st.Panel),
		Sidebar: a.sidebar(st.Panel, now),
		Main:    main,
		Footer:  a.footer(),
	}, st, nil
}

func uploadFor(ev Event, p domain.Panel) *domain.Artifact {
	if u, ok := ev.(Upload); ok && (u.Panel == "" || u.Panel == p) {
		return u.Artifact
	}
	return nil
}
