// Package web embeds the page templates and static assets served by panelboard.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates/*.tmpl
var Templates embed.FS

//go:embed static
var staticFS embed.FS

// StaticHandler serves the embedded static assets. It is meant to be mounted
// under /static/ and answers 404 for directories.
func StaticHandler() http.Handler {
	subFS, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}

	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(subFS)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	})
}
