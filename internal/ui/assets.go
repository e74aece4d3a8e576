package ui

import (
	"embed"
	"io/fs"
)

//go:embed assets
var assets embed.FS

// Assets returns the static files served next to the board page.
func Assets() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page returns the board page markup.
func Page() string {
	data, err := assets.ReadFile("assets/index.html")
	if err != nil {
		panic(err)
	}
	return string(data)
}
