package server

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path"
)

//go:embed assets
var embedFS embed.FS

const indexPage = "index.html"

// EmbeddedAssets returns the built-in asset set served when no asset
// directory is available.
func EmbeddedAssets() http.FileSystem {
	assets, err := fs.Sub(embedFS, "assets")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return http.FS(assets)
}

// indexOnlyFS hides directories that have no index document, so they are
// reported as not found rather than listed.
type indexOnlyFS struct {
	root http.FileSystem
}

func (f indexOnlyFS) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if !info.IsDir() {
		return file, nil
	}

	index, err := f.root.Open(path.Join(name, indexPage))
	if err != nil {
		_ = file.Close()
		return nil, os.ErrNotExist
	}
	_ = index.Close()

	return file, nil
}

// StaticHandler serves files from dir. Directory paths resolve to their
// index.html; anything else that does not exist yields 404. An empty dir
// serves the embedded assets.
func StaticHandler(dir string) http.Handler {
	var root http.FileSystem
	if dir == "" {
		root = EmbeddedAssets()
	} else {
		root = http.Dir(dir)
	}
	return http.FileServer(indexOnlyFS{root: root})
}

// resolveStaticDir returns dir when it is an existing directory and "" (the
// embedded assets) otherwise.
func resolveStaticDir(dir string) string {
	if dir == "" {
		return ""
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	return dir
}
