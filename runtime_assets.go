package leadsite

import (
	"io/fs"

	"github.com/goliatone/go-leadsite/internal/site"
)

// RuntimeAssetsFS exposes the stylesheet, images and the browser scripts that
// validate fields inline and dismiss toasts. The server mounts it under
// /static/; programs rendering forms on their own pages can do the same:
//
//	mux.Handle("/static/",
//	  http.StripPrefix("/static/",
//	    http.FileServerFS(leadsite.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return site.StaticFS()
}
