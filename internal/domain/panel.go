// Package domain contains core domain types for the panelboard application.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPanel is returned when a panel identifier is not one of the known panels.
var ErrUnknownPanel = errors.New("unknown panel")

// Panel identifies one of the mutually exclusive views selectable from the sidebar.
type Panel string

const (
	PanelDashboard     Panel = "dashboard"
	PanelDataExplorer  Panel = "data-explorer"
	PanelLiveCounter   Panel = "live-counter"
	PanelChatSimulator Panel = "chat-simulator"
	PanelFileUploader  Panel = "file-uploader"
)

// DefaultPanel is selected when no panel is requested.
const DefaultPanel = PanelDashboard

var panelOrder = []Panel{
	PanelDashboard,
	PanelDataExplorer,
	PanelLiveCounter,
	PanelChatSimulator,
	PanelFileUploader,
}

var panelLabels = map[Panel]string{
	PanelDashboard:     "Interactive Dashboard",
	PanelDataExplorer:  "Data Explorer",
	PanelLiveCounter:   "Live Counter",
	PanelChatSimulator: "Chat Simulator",
	PanelFileUploader:  "File Uploader",
}

// Panels returns every panel in sidebar order.
func Panels() []Panel {
	out := make([]Panel, len(panelOrder))
	copy(out, panelOrder)
	return out
}

// Label returns the human readable name shown in the sidebar.
func (p Panel) Label() string {
	if label, ok := panelLabels[p]; ok {
		return label
	}
	return string(p)
}

// Valid reports whether p is one of the known panels.
func (p Panel) Valid() bool {
	_, ok := panelLabels[p]
	return ok
}

// ParsePanel resolves a panel identifier. An empty identifier selects DefaultPanel.
func ParsePanel(s string) (Panel, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return DefaultPanel, nil
	}
	p := Panel(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPanel, s)
	}
	return p, nil
}
