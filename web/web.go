// Package web embeds the signal engine's single-page dashboard.
package web

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed index.html
var assets embed.FS

// FS returns dir when it is set and exists, else the embedded page.
func FS(dir string) fs.FS {
	if dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return os.DirFS(dir)
		}
	}
	return assets
}
