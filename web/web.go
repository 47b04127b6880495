// Package web holds the HTML templates and static assets of the site.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html static
var files embed.FS

// Files returns the embedded templates and static assets
func Files() fs.FS {
	return files
}

// Templates parses every page under templates/ in fsys
func Templates(fsys fs.FS) (*template.Template, error) {
	return template.New("").ParseFS(fsys, "templates/*.html")
}

// Static returns the static/ subtree of fsys
func Static(fsys fs.FS) (fs.FS, error) {
	return fs.Sub(fsys, "static")
}
