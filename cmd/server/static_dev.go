//go:build !embed
// +build !embed

package main

import (
	"io/fs"
	"log/slog"
	"os"

	"carprice/internal/config"
)

// webFiles reads templates and static assets from disk so edits show up
// on restart without a rebuild (development mode)
func webFiles(cfg *config.Config) fs.FS {
	slog.Info("🔧 Using local filesystem for web assets (development mode)", "dir", cfg.Server.WebDir)
	return os.DirFS(cfg.Server.WebDir)
}
