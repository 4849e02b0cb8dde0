package model

import (
	"fmt"
	"strings"
)

// FormKind identifies one of the lead-capture forms served by the site.
type FormKind string

const (
	FormKindContact  FormKind = "contact"
	FormKindSchedule FormKind = "schedule"
)

// FormKinds lists every supported kind in display order.
func FormKinds() []FormKind {
	return []FormKind{FormKindContact, FormKindSchedule}
}

// ParseFormKind normalises raw input (route segments, CLI args) into a
// FormKind.
func ParseFormKind(raw string) (FormKind, error) {
	switch FormKind(strings.ToLower(strings.TrimSpace(raw))) {
	case FormKindContact:
		return FormKindContact, nil
	case FormKindSchedule:
		return FormKindSchedule, nil
	default:
		return "", fmt.Errorf("model: unknown form kind %q", raw)
	}
}

func (k FormKind) String() string {
	return string(k)
}

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeEnum   FieldType = "enum"
	FieldTypeDate   FieldType = "date"
)

const (
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleFormat    = "format"
	ValidationRuleNotBefore = "notBefore"
)

// ValidationRule represents a single validation constraint applied to a field.
// Length limits encode their threshold in Params["value"], pattern rules keep
// the expression in Params["pattern"], format rules name the format in
// Params["format"] and notBefore rules carry a date or the literal "today" in
// Params["value"]. Message is the user-facing text shown when the rule fails.
type ValidationRule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
}

// Param returns a trimmed rule parameter.
func (r ValidationRule) Param(key string) string {
	if r.Params == nil {
		return ""
	}
	return strings.TrimSpace(r.Params[key])
}

// Option is a selectable value for enum fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field models an individual input inside a lead form.
type Field struct {
	Name            string            `json:"name" yaml:"name"`
	Type            FieldType         `json:"type" yaml:"type"`
	Widget          string            `json:"widget,omitempty" yaml:"widget,omitempty"`
	InputType       string            `json:"inputType,omitempty" yaml:"inputType,omitempty"`
	Required        bool              `json:"required" yaml:"required"`
	RequiredMessage string            `json:"requiredMessage,omitempty" yaml:"requiredMessage,omitempty"`
	Label           string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder     string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description     string            `json:"description,omitempty" yaml:"description,omitempty"`
	Default         string            `json:"default,omitempty" yaml:"default,omitempty"`
	Options         []Option          `json:"options,omitempty" yaml:"options,omitempty"`
	Validations     []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// OptionLabel resolves the display label for an enum value. Unknown values are
// returned unchanged.
func (f Field) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// FormModel is the immutable description of one lead form.
type FormModel struct {
	Kind            FormKind          `json:"kind" yaml:"kind"`
	Title           string            `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle        string            `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Endpoint        string            `json:"endpoint" yaml:"endpoint"`
	Method          string            `json:"method" yaml:"method"`
	SubmitLabel     string            `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	SubmittingLabel string            `json:"submittingLabel,omitempty" yaml:"submittingLabel,omitempty"`
	Fields          []Field           `json:"fields" yaml:"fields"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Field looks up a field by name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns field names in declaration order.
func (f FormModel) FieldNames() []string {
	names := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		names = append(names, field.Name)
	}
	return names
}

// InitialValues returns the reset state for the form: every field mapped to
// its default (usually the empty string).
func (f FormModel) InitialValues() map[string]string {
	values := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		values[field.Name] = field.Default
	}
	return values
}
