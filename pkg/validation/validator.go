package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-leadsite/pkg/model"
)

// ErrUnknownField is returned when a value is validated against a field the
// form does not declare.
var ErrUnknownField = errors.New("validation: unknown field")

// Func validates a single raw value.
type Func func(value string) Result

// Option configures compilation.
type Option func(*config)

type config struct {
	now      func() time.Time
	location *time.Location
}

// WithClock overrides the clock used by date rules such as notBefore=today.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		if now != nil {
			cfg.now = now
		}
	}
}

// WithLocation sets the time zone used to interpret dates.
func WithLocation(loc *time.Location) Option {
	return func(cfg *config) {
		if loc != nil {
			cfg.location = loc
		}
	}
}

func newConfig(options ...Option) config {
	cfg := config{now: time.Now, location: time.UTC}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Compile turns a field declaration into a pure validation function. Values
// are trimmed before checking. Empty optional values always pass; empty
// required values fail with the field's required message. Rules run in
// declaration order and the first failure wins.
func Compile(field model.Field, options ...Option) (Func, error) {
	cfg := newConfig(options...)

	checks := make([]check, 0, len(field.Validations))
	for _, rule := range field.Validations {
		c, err := compileRule(field, rule, cfg)
		if err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}

	required := strings.TrimSpace(field.RequiredMessage)
	if required == "" {
		required = fmt.Sprintf("%s is required", field.Label)
	}

	return func(value string) Result {
		value = strings.TrimSpace(value)
		if value == "" {
			if field.Required {
				return Error(required)
			}
			return Ok()
		}
		for _, c := range checks {
			if res := c(value); !res.IsOk() {
				return res
			}
		}
		return Ok()
	}, nil
}

// FormValidator holds the compiled validators of one form.
type FormValidator struct {
	form   model.FormModel
	fields map[string]Func
}

// NewFormValidator compiles every field of form.
func NewFormValidator(form model.FormModel, options ...Option) (*FormValidator, error) {
	v := &FormValidator{
		form:   form,
		fields: make(map[string]Func, len(form.Fields)),
	}
	for _, field := range form.Fields {
		fn, err := Compile(field, options...)
		if err != nil {
			return nil, fmt.Errorf("validation: form %q: %w", form.Kind, err)
		}
		v.fields[field.Name] = fn
	}
	return v, nil
}

// Form returns the model the validator was compiled from.
func (v *FormValidator) Form() model.FormModel {
	return v.form
}

// Field validates a single field value.
func (v *FormValidator) Field(name, value string) (Result, error) {
	fn, ok := v.fields[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, v.form.Kind, name)
	}
	return fn(value), nil
}

// All validates every declared field against values (missing keys count as
// empty) and returns the messages of failing fields. A nil map means the
// values are valid.
func (v *FormValidator) All(values map[string]string) map[string]string {
	var errs map[string]string
	for _, field := range v.form.Fields {
		res := v.fields[field.Name](values[field.Name])
		if res.IsOk() {
			continue
		}
		if errs == nil {
			errs = make(map[string]string)
		}
		errs[field.Name] = res.Message()
	}
	return errs
}

// Issue is a JSON-friendly field error.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Issues orders errs by the form's field order.
func (v *FormValidator) Issues(errs map[string]string) []Issue {
	if len(errs) == 0 {
		return nil
	}
	out := make([]Issue, 0, len(errs))
	for _, name := range v.form.FieldNames() {
		if msg, ok := errs[name]; ok {
			out = append(out, Issue{Field: name, Message: msg})
		}
	}
	return out
}
