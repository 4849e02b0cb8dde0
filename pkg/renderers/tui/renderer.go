package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/render"
	"github.com/goliatone/go-leadsite/pkg/validation"
)

const skipOption = "Skip"

// Renderer collects a lead form in the terminal. Every answer is checked with
// the same compiled field validators the HTTP server uses; invalid answers
// are reported and asked again.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	validation   []validation.Option
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        Theme{ErrorPrefix: "✖ "},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Driver exposes the prompt driver so callers can ask follow-up questions in
// the same session.
func (r *Renderer) Driver() PromptDriver {
	return r.driver
}

// Render prompts every field and serializes the answers.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, form, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(form, values)
}

// Collect prompts every field in declaration order and returns the answers.
// opts.Values pre-fill defaults and opts.Errors are shown before the matching
// prompt.
func (r *Renderer) Collect(ctx context.Context, form model.FormModel, opts render.RenderOptions) (map[string]string, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := form.InitialValues()
	for name, value := range opts.Values {
		if _, ok := values[name]; ok {
			values[name] = value
		}
	}

	for _, field := range form.Fields {
		validate, err := validation.Compile(field, r.validation...)
		if err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
		if msg := opts.Errors[field.Name]; msg != "" {
			r.warn(ctx, msg)
		}

		var answer string
		switch {
		case len(field.Options) > 0:
			answer, err = r.promptSelect(ctx, field, values[field.Name], validate)
		case field.Widget == "textarea":
			answer, err = r.promptTextArea(ctx, field, values[field.Name], validate)
		default:
			answer, err = r.promptInput(ctx, field, values[field.Name], validate)
		}
		if err != nil {
			return nil, err
		}
		values[field.Name] = answer
	}
	return values, nil
}

func (r *Renderer) promptInput(ctx context.Context, field model.Field, current string, validate validation.Func) (string, error) {
	for {
		answer, err := r.driver.Input(ctx, InputConfig{
			Message: displayLabel(field),
			Default: current,
			Help:    displayHelp(field),
		})
		if err != nil {
			return "", err
		}
		if res := validate(answer); !res.IsOk() {
			r.warn(ctx, res.Message())
			continue
		}
		return strings.TrimSpace(answer), nil
	}
}

func (r *Renderer) promptTextArea(ctx context.Context, field model.Field, current string, validate validation.Func) (string, error) {
	for {
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: displayLabel(field),
			Default: current,
			Help:    displayHelp(field),
		})
		if err != nil {
			return "", err
		}
		if res := validate(answer); !res.IsOk() {
			r.warn(ctx, res.Message())
			continue
		}
		return strings.TrimSpace(answer), nil
	}
}

func (r *Renderer) promptSelect(ctx context.Context, field model.Field, current string, validate validation.Func) (string, error) {
	labels := make([]string, 0, len(field.Options)+1)
	values := make([]string, 0, len(field.Options)+1)
	if !field.Required {
		labels = append(labels, skipOption)
		values = append(values, "")
	}
	defaultIdx := -1
	for _, opt := range field.Options {
		if opt.Value == current {
			defaultIdx = len(values)
		}
		labels = append(labels, opt.Label)
		values = append(values, opt.Value)
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(field),
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         displayHelp(field),
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(values) {
			r.warn(ctx, fmt.Sprintf("Invalid %s selection", strings.ToLower(displayLabel(field))))
			continue
		}
		if res := validate(values[idx]); !res.IsOk() {
			r.warn(ctx, res.Message())
			continue
		}
		return values[idx], nil
	}
}

func (r *Renderer) warn(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func (r *Renderer) serialize(form model.FormModel, values map[string]string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for name, value := range values {
			encoded.Set(name, value)
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, field := range form.Fields {
			value := values[field.Name]
			if value == "" {
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", displayLabel(field), field.OptionLabel(value))
		}
		return []byte(b.String()), nil
	default:
		out, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return out, nil
	}
}

func displayLabel(field model.Field) string {
	if label := strings.TrimSpace(field.Label); label != "" {
		return label
	}
	return field.Name
}

func displayHelp(field model.Field) string {
	if desc := strings.TrimSpace(field.Description); desc != "" {
		return desc
	}
	if field.Type == model.FieldTypeDate {
		return "Use YYYY-MM-DD"
	}
	return strings.TrimSpace(field.Placeholder)
}
