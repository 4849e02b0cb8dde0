// Package leadsite exposes the lead capture site for embedding in other
// programs: load the configuration, build a server and mount its handler.
package leadsite

import (
	"context"
	"fmt"

	"github.com/goliatone/go-leadsite/internal/config"
	"github.com/goliatone/go-leadsite/internal/site"
	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/render"
	"github.com/goliatone/go-leadsite/pkg/renderers/vanilla"
	"github.com/goliatone/go-leadsite/pkg/schema"
)

// Config aliases the environment backed configuration.
type Config = config.Config

// Server aliases the HTTP server.
type Server = site.Server

// Option customises a Server.
type Option = site.Option

// RenderOptions describes per-request overrides that renderers use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Re-exported server options.
var (
	WithLogger       = site.WithLogger
	WithMailer       = site.WithMailer
	WithSchemaStore  = site.WithSchemaStore
	WithContentStore = site.WithContentStore
	WithClock        = site.WithClock
	WithTemplatesDir = site.WithTemplatesDir
	WithVersion      = site.WithVersion
)

// LoadConfig reads an optional dotenv file and the environment.
func LoadConfig(files ...string) (Config, error) {
	return config.Load(files...)
}

// NewServer builds the site from cfg.
func NewServer(cfg Config, options ...Option) (*Server, error) {
	return site.New(cfg, options...)
}

// LoadForms parses the embedded form documents, applying decorators to each
// form. Pass the result to WithSchemaStore to change labels or options.
func LoadForms(decorators ...model.Decorator) (*schema.Store, error) {
	return schema.LoadDefault(schema.WithDecorators(decorators...))
}

// RenderForm renders the embedded schema for kind as HTML markup, the same
// fragment the contact and schedule pages embed.
func RenderForm(ctx context.Context, kind model.FormKind, opts RenderOptions) ([]byte, error) {
	store, err := schema.LoadDefault()
	if err != nil {
		return nil, err
	}
	form, err := store.Form(kind)
	if err != nil {
		return nil, err
	}
	renderer, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("leadsite: form renderer: %w", err)
	}
	if opts.Action == "" {
		opts.Action = form.Endpoint
	}
	return renderer.Render(ctx, form, opts)
}
