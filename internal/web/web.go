// Package web serves the embedded single-page frontend.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Handler returns an http.Handler serving the frontend assets.
// Unknown paths fall through to the file server's 404; the app is a
// single page, so no SPA rewrite is needed.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embed guarantees the directory exists
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
