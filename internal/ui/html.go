package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
)

// HTMLRenderer renders pages with the embedded html/template set.
type HTMLRenderer struct {
	tmpl *template.Template
	md   *MarkdownRenderer
}

// NewHTMLRenderer parses templates/*.tmpl from fsys.
func NewHTMLRenderer(fsys fs.FS) (*HTMLRenderer, error) {
	r := &HTMLRenderer{md: NewMarkdownRenderer()}

	funcs := template.FuncMap{
		"markdown": r.md.Render,
		// Chart SVG comes from the charts package, which escapes every label it draws.
		"svg": func(s string) template.HTML { return template.HTML(s) }, //nolint:gosec
		"dataURI": func(s string) template.URL {
			if !strings.HasPrefix(s, "data:image/") {
				return template.URL("")
			}
			return template.URL(s) //nolint:gosec // only data:image URIs built from uploads
		},
		"sidebarClass": func(state string) string { return "sidebar-" + state },
	}

	tmpl, err := template.New("page").Funcs(funcs).ParseFS(fsys, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Render writes the full HTML document for page.
func (r *HTMLRenderer) Render(w io.Writer, page Page) error {
	// Render into a buffer so a template failure does not leave a half-written page.
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page.tmpl", page); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderNodes writes an HTML fragment for nodes, for in-place updates.
func (r *HTMLRenderer) RenderNodes(w io.Writer, nodes []Node) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "nodes", nodes); err != nil {
		return fmt.Errorf("execute nodes template: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
