package render

import (
	"context"

	"github.com/goliatone/go-leadsite/pkg/model"
)

// Renderer turns a FormModel plus per-request state into markup.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
