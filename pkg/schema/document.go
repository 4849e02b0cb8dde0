package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-leadsite/pkg/model"
)

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Title           string            `json:"title" yaml:"title"`
	Subtitle        string            `json:"subtitle" yaml:"subtitle"`
	Endpoint        string            `json:"endpoint" yaml:"endpoint"`
	Method          string            `json:"method" yaml:"method"`
	SubmitLabel     string            `json:"submitLabel" yaml:"submitLabel"`
	SubmittingLabel string            `json:"submittingLabel" yaml:"submittingLabel"`
	Fields          []model.Field     `json:"fields" yaml:"fields"`
	Metadata        map[string]string `json:"metadata" yaml:"metadata"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("schema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML", source)
}

var knownRules = map[string]struct{}{
	model.ValidationRuleMinLength: {},
	model.ValidationRuleMaxLength: {},
	model.ValidationRulePattern:   {},
	model.ValidationRuleFormat:    {},
	model.ValidationRuleNotBefore: {},
}

func normaliseForm(raw formFile, kind model.FormKind, source string) (model.FormModel, error) {
	form := model.FormModel{
		Kind:            kind,
		Title:           strings.TrimSpace(raw.Title),
		Subtitle:        strings.TrimSpace(raw.Subtitle),
		Endpoint:        strings.TrimSpace(raw.Endpoint),
		Method:          strings.ToUpper(strings.TrimSpace(raw.Method)),
		SubmitLabel:     strings.TrimSpace(raw.SubmitLabel),
		SubmittingLabel: strings.TrimSpace(raw.SubmittingLabel),
		Metadata:        raw.Metadata,
	}
	if form.Endpoint == "" {
		form.Endpoint = "/" + kind.String()
	}
	if form.Method == "" {
		form.Method = "POST"
	}
	if form.SubmitLabel == "" {
		form.SubmitLabel = "Submit"
	}
	if len(raw.Fields) == 0 {
		return model.FormModel{}, fmt.Errorf("schema: form %q in %s declares no fields", kind, source)
	}

	seen := make(map[string]struct{}, len(raw.Fields))
	for _, field := range raw.Fields {
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return model.FormModel{}, fmt.Errorf("schema: form %q in %s has a field without a name", kind, source)
		}
		if _, dup := seen[field.Name]; dup {
			return model.FormModel{}, fmt.Errorf("schema: form %q in %s declares field %q twice", kind, source, field.Name)
		}
		seen[field.Name] = struct{}{}

		if field.Type == "" {
			field.Type = model.FieldTypeString
		}
		switch field.Type {
		case model.FieldTypeString, model.FieldTypeDate:
		case model.FieldTypeEnum:
			if len(field.Options) == 0 {
				return model.FormModel{}, fmt.Errorf("schema: enum field %s.%s has no options", kind, field.Name)
			}
		default:
			return model.FormModel{}, fmt.Errorf("schema: field %s.%s has unsupported type %q", kind, field.Name, field.Type)
		}
		if field.Label == "" {
			field.Label = field.Name
		}
		for _, rule := range field.Validations {
			if _, ok := knownRules[rule.Kind]; !ok {
				return model.FormModel{}, fmt.Errorf("schema: field %s.%s uses unknown rule %q", kind, field.Name, rule.Kind)
			}
		}
		form.Fields = append(form.Fields, field)
	}

	return form, nil
}
