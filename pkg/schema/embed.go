package schema

import (
	"embed"
	"io/fs"
)

//go:embed forms/*.yaml
var embeddedForms embed.FS

// DefaultFS exposes the built-in contact and schedule form documents.
func DefaultFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		return embeddedForms
	}
	return sub
}

// LoadDefault parses the embedded form documents.
func LoadDefault(options ...LoadOption) (*Store, error) {
	return LoadFS(DefaultFS(), options...)
}
