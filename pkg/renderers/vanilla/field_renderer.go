package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/render"
	"github.com/goliatone/go-leadsite/pkg/render/template"
	"github.com/goliatone/go-leadsite/pkg/renderers/vanilla/components"
)

type fieldRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	used      []string
}

func (r *fieldRenderer) render(field model.Field, options render.RenderOptions) (string, error) {
	view := buildFieldView(field, options)

	descriptor, ok := r.registry.Descriptor(view.Component)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", view.Component, field.Name)
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, view, components.ComponentData{Template: r.templates}); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", view.Component, field.Name, err)
	}
	r.used = append(r.used, view.Component)

	return buildFieldMarkup(view, control.String()), nil
}

func resolveComponent(field model.Field) string {
	if widget := strings.TrimSpace(field.Widget); widget != "" {
		return widget
	}
	switch field.Type {
	case model.FieldTypeEnum:
		return components.NameSelect
	case model.FieldTypeDate:
		return components.NameDate
	default:
		return components.NameInput
	}
}

func buildFieldView(field model.Field, options render.RenderOptions) components.FieldView {
	view := components.FieldView{
		Name:          field.Name,
		Component:     resolveComponent(field),
		ControlID:     componentControlID(field.Name),
		ErrorID:       componentErrorID(field.Name),
		DescriptionID: componentDescriptionID(field.Name),
		Label:         field.Label,
		InputType:     field.InputType,
		Placeholder:   field.Placeholder,
		Description:   strings.TrimSpace(field.Description),
		Required:      field.Required,
		Value:         field.Default,
		Disabled:      options.Submitting,
	}
	if value, ok := options.Values[field.Name]; ok {
		view.Value = value
	}
	view.Error = strings.TrimSpace(options.Errors[field.Name])
	if view.InputType == "" {
		view.InputType = "text"
		if field.Type == model.FieldTypeDate {
			view.InputType = "date"
		}
	}

	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMinLength:
			view.MinLength = rule.Param("value")
		case model.ValidationRuleMaxLength:
			view.MaxLength = rule.Param("value")
		case model.ValidationRulePattern:
			view.Pattern = rule.Param("pattern")
		case model.ValidationRuleNotBefore:
			if bound := rule.Param("value"); bound != "" && bound != "today" {
				view.Min = bound
			} else {
				view.Min = options.MinDate
			}
		}
	}

	for _, opt := range field.Options {
		view.Options = append(view.Options, components.OptionView{
			Value:    opt.Value,
			Label:    opt.Label,
			Selected: opt.Value == view.Value,
		})
	}

	view.DescribedBy = describedBy(view.ErrorID, view.DescriptionID, view.Error != "", view.Description != "")
	return view
}

func buildFieldMarkup(view components.FieldView, control string) string {
	var b strings.Builder
	b.Grow(len(control) + 256)

	b.WriteString(`<div class="`)
	b.WriteString(string(ClassField))
	if view.Error != "" {
		b.WriteByte(' ')
		b.WriteString(string(ClassInvalid))
	}
	b.WriteString(`" data-field="`)
	b.WriteString(html.EscapeString(view.Name))
	b.WriteString(`" data-component="`)
	b.WriteString(html.EscapeString(view.Component))
	b.WriteString("\">\n")

	if label := strings.TrimSpace(view.Label); label != "" {
		b.WriteString(`    <label for="`)
		b.WriteString(html.EscapeString(view.ControlID))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(label))
		if view.Required {
			b.WriteString(` *`)
		}
		b.WriteString("</label>\n")
	}

	// Control markup is written untouched: textarea content is whitespace
	// sensitive.
	if control = strings.TrimSpace(control); control != "" {
		b.WriteString("    ")
		b.WriteString(control)
		b.WriteByte('\n')
	}

	if view.Description != "" {
		b.WriteString(`    <small id="`)
		b.WriteString(html.EscapeString(view.DescriptionID))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(view.Description))
		b.WriteString("</small>\n")
	}

	b.WriteString(`    <p id="`)
	b.WriteString(html.EscapeString(view.ErrorID))
	b.WriteString(`" class="leadform-error" role="alert" data-error-for="`)
	b.WriteString(html.EscapeString(view.Name))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(view.Error))
	b.WriteString("</p>\n")

	b.WriteString("</div>\n")
	return b.String()
}
