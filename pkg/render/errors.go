package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-leadsite/pkg/model"
)

// ErrorMapping splits an error payload into field messages and form-level
// messages.
type ErrorMapping struct {
	Fields map[string]string
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrors attributes each key of payload to a field of form. Keys may be
// bare names or carry request prefixes ("/body/email", "$.email",
// "values.email"). Keys that match no field become form-level messages so
// nothing is lost. Only the first message per field is kept.
func MapErrors(form model.FormModel, payload map[string]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	known := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		known[field.Name] = struct{}{}
	}

	var unmatched []string
	for _, name := range form.FieldNames() {
		if message, ok := lookup(payload, name); ok {
			if mapping.Fields == nil {
				mapping.Fields = make(map[string]string)
			}
			mapping.Fields[name] = message
		}
	}
	for key, message := range payload {
		if _, ok := known[FieldKey(key)]; ok {
			continue
		}
		unmatched = append(unmatched, message)
	}
	sort.Strings(unmatched)
	mapping.Form = normalizeMessages(unmatched)
	return mapping
}

func lookup(payload map[string]string, name string) (string, bool) {
	for key, message := range payload {
		if FieldKey(key) != name {
			continue
		}
		message = strings.TrimSpace(message)
		if message == "" {
			continue
		}
		return message, true
	}
	return "", false
}

// FieldKey strips the request prefixes MapErrors accepts ("/body/",
// "$.", "values.") from a key.
func FieldKey(raw string) string {
	key := strings.TrimSpace(raw)
	key = strings.TrimPrefix(key, "$")
	key = strings.Trim(key, "./")
	for _, prefix := range []string{"body", "values", "request"} {
		for _, sep := range []string{".", "/"} {
			key = strings.TrimPrefix(key, prefix+sep)
		}
	}
	return key
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
