package app

import (
	"errors"
	"time"

	"github.com/ashureev/panelboard/internal/chat"
	"github.com/ashureev/panelboard/internal/ui"
)

// chatSimulator seeds the greeting on first view and applies a submission.
// Blank submissions leave the history unchanged.
func (a *App) chatSimulator(st State, ev Event, now time.Time) ([]ui.Node, State, error) {
	pending := chat.Seed(st.History, now)

	if submit, ok := ev.(ChatSubmit); ok {
		exchange, err := chat.Exchange(submit.Text, now)
		switch {
		case errors.Is(err, chat.ErrBlankInput):
		case err != nil:
			return nil, st, err
		default:
			pending = append(pending, exchange...)
		}
	}

	st.History = st.History.Append(pending...)
	st.Pending = pending

	nodes := []ui.Node{ui.Title("Chat Interface")}
	nodes = append(nodes, chat.MessageNodes(st.History)...)
	return append(nodes, ui.ChatInput(ChatAction, chat.Placeholder)), st, nil
}
