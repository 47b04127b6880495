//go:build embed
// +build embed

package main

import (
	"io/fs"
	"log/slog"

	"carprice/internal/config"
	"carprice/web"
)

// webFiles returns the templates and static assets compiled into the binary
func webFiles(_ *config.Config) fs.FS {
	slog.Info("📦 Using embedded web assets")
	return web.Files()
}
