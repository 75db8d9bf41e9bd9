package app

import (
	"fmt"
	"time"

	"github.com/ashureev/panelboard/internal/domain"
	"github.com/ashureev/panelboard/internal/ui"
)

func (a *App) meta() ui.Meta {
	p := a.cfg.Page
	m := ui.Meta{
		Title:        p.Title,
		Icon:         p.Icon,
		Layout:       p.Layout,
		SidebarState: p.SidebarState,
	}
	if p.Menu.GetHelp != "" {
		m.Menu = append(m.Menu, ui.MenuItem{Label: "Get Help", Href: p.Menu.GetHelp})
	}
	if p.Menu.ReportBug != "" {
		m.Menu = append(m.Menu, ui.MenuItem{Label: "Report a bug", Href: p.Menu.ReportBug})
	}
	if p.Menu.About != "" {
		m.Menu = append(m.Menu, ui.MenuItem{Label: "About", Markdown: p.Menu.About})
	}
	return m
}

func (a *App) sidebar(current domain.Panel, now time.Time) []ui.Node {
	var nodes []ui.Node
	if a.cfg.Page.Logo != "" {
		nodes = append(nodes, ui.ImageURL("logo", a.cfg.Page.Logo, 150))
	}
	return append(nodes,
		ui.Title(a.cfg.Page.Title),
		ui.Caption(fmt.Sprintf("Running on %s • %s", a.cfg.HostLabel, now.Format(clockFormat))),
		PanelSelect(current),
		ui.Divider(),
		ui.Markdown("Made with Go"),
	)
}

func (a *App) footer() []ui.Node {
	return []ui.Node{
		ui.Divider(),
		ui.Caption(a.cfg.Page.Footer),
	}
}

// PanelSelect builds the sidebar selector with current marked.
func PanelSelect(current domain.Panel) ui.Node {
	panels := domain.Panels()
	opts := make([]ui.Option, 0, len(panels))
	for _, p := range panels {
		opts = append(opts, ui.Option{
			Value:    string(p),
			Label:    p.Label(),
			Href:     "/panels/" + string(p),
			Selected: p == current,
		})
	}
	return ui.SelectBox(sidebarSelectLabel, opts...)
}
