package site

import (
	"embed"
	"io/fs"
)

//go:embed content/site.yaml
var embeddedContent embed.FS

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed static
var embeddedStatic embed.FS

// ContentFS exposes the built-in content document at its root.
func ContentFS() fs.FS {
	return subFS(embeddedContent, "content")
}

// TemplatesFS exposes the page templates at their root.
func TemplatesFS() fs.FS {
	return subFS(embeddedTemplates, "templates")
}

// StaticFS exposes the stylesheet, scripts and images served under /static/.
func StaticFS() fs.FS {
	return subFS(embeddedStatic, "static")
}

func subFS(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return fsys
	}
	return sub
}
