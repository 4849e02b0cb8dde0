package components

import (
	"bytes"
	"fmt"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry returns the built-in components: text-like inputs,
// textarea, select and date.
func NewDefaultRegistry() *Registry {
	registry := New()
	registry.MustRegister(NameInput, Descriptor{Renderer: templateComponent(templatePrefix + "input.tmpl")})
	registry.MustRegister(NameTextarea, Descriptor{Renderer: templateComponent(templatePrefix + "textarea.tmpl")})
	registry.MustRegister(NameSelect, Descriptor{Renderer: templateComponent(templatePrefix + "select.tmpl")})
	registry.MustRegister(NameDate, Descriptor{
		Renderer: templateComponent(templatePrefix + "input.tmpl"),
		Scripts:  []string{"/static/forms.js"},
	})
	return registry
}

func templateComponent(name string) Renderer {
	return func(buf *bytes.Buffer, field FieldView, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", name)
		}
		_, err := data.Template.RenderTemplate(name, map[string]any{"field": field}, buf)
		return err
	}
}
