// Package static embeds the kiosk browser shell.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed kiosk/*
var kioskFS embed.FS

// GetFileSystem returns an http.FileSystem for the embedded kiosk directory.
func GetFileSystem() http.FileSystem {
	fsys, err := fs.Sub(kioskFS, "kiosk")
	if err != nil {
		panic(err)
	}
	return http.FS(fsys)
}

// IndexHTML returns the kiosk page.
func IndexHTML() ([]byte, error) {
	return kioskFS.ReadFile("kiosk/index.html")
}
