package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/render"
	rendertemplate "github.com/goliatone/go-leadsite/pkg/render/template"
	"github.com/goliatone/go-leadsite/pkg/render/template/gotemplate"
	"github.com/goliatone/go-leadsite/pkg/renderers/vanilla/components"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component set.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// Renderer produces the HTML form markup for a lead form.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithName("vanilla"),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{templates: templates, registry: cfg.registry}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the <form> element for form, reflecting the values, errors
// and submitting flag carried by options.
func (r *Renderer) Render(_ context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	fields := &fieldRenderer{templates: r.templates, registry: r.registry}
	var body strings.Builder
	for _, field := range form.Fields {
		markup, err := fields.render(field, options)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		body.WriteString(markup)
	}

	action := strings.TrimSpace(options.Action)
	if action == "" {
		action = form.Endpoint
	}
	submitLabel := form.SubmitLabel
	if options.Submitting && form.SubmittingLabel != "" {
		submitLabel = form.SubmittingLabel
	}

	hidden := render.MergeHiddenFields(options.Hidden, render.FormKindField(form.Kind))
	hiddenViews := make([]map[string]string, 0, len(hidden))
	for _, field := range render.SortedHiddenFields(hidden) {
		hiddenViews = append(hiddenViews, map[string]string{"name": field.Name, "value": field.Value})
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"form": map[string]any{
			"kind":             form.Kind.String(),
			"title":            form.Title,
			"subtitle":         form.Subtitle,
			"submitting_label": form.SubmittingLabel,
		},
		"action":       action,
		"method":       strings.ToLower(form.Method),
		"classes":      chromeClasses(),
		"hidden":       hiddenViews,
		"form_errors":  render.MergeFormErrors(options.FormErrors),
		"fields_html":  body.String(),
		"submit_label": submitLabel,
		"submitting":   options.Submitting,
		"scripts":      r.registry.Scripts(fields.used),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
