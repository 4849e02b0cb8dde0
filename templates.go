package leadsite

import (
	"io/fs"

	"github.com/goliatone/go-leadsite/internal/site"
	"github.com/goliatone/go-leadsite/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in form templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// PageTemplates exposes the page layouts; copy them to a directory and pass
// it to WithTemplatesDir to customise the site.
func PageTemplates() fs.FS {
	return site.TemplatesFS()
}
