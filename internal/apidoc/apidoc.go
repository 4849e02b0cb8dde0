// Package apidoc describes the lead endpoints as an OpenAPI 3 document built
// from the form schemas, so the published contract cannot drift from the
// validation rules.
package apidoc

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/schema"
)

// Info identifies the published API.
type Info struct {
	Title     string
	Version   string
	ServerURL string
}

// Build returns a validated document with one submit and one validate
// operation per form kind.
func Build(ctx context.Context, store *schema.Store, info Info) (*openapi3.T, error) {
	if store == nil || store.Empty() {
		return nil, fmt.Errorf("apidoc: schema store is empty")
	}
	if info.Title == "" {
		info.Title = "Lead capture API"
	}
	if info.Version == "" {
		info.Version = "dev"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: "Contact and tour scheduling submissions.",
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"SubmissionResult": openapi3.NewSchemaRef("", resultSchema()),
				"ValidationErrors": openapi3.NewSchemaRef("", validationErrorsSchema()),
			},
		},
	}
	if info.ServerURL != "" {
		doc.Servers = openapi3.Servers{{URL: info.ServerURL}}
	}

	for _, kind := range store.Kinds() {
		form, err := store.Form(kind)
		if err != nil {
			return nil, fmt.Errorf("apidoc: %w", err)
		}
		body := FormSchema(form)
		doc.Components.Schemas[schemaName(kind)] = openapi3.NewSchemaRef("", body)

		doc.Paths.Set("/api/forms/"+kind.String(), &openapi3.PathItem{
			Post: submitOperation(form, body),
		})
		doc.Paths.Set("/api/forms/"+kind.String()+"/validate", &openapi3.PathItem{
			Post: validateOperation(form, body),
		})
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("apidoc: invalid document: %w", err)
	}
	return doc, nil
}

// FormSchema maps a form's fields and rules onto a JSON object schema.
func FormSchema(form model.FormModel) *openapi3.Schema {
	obj := openapi3.NewObjectSchema()
	obj.Title = form.Title
	var required []string
	for _, field := range form.Fields {
		obj.WithProperty(field.Name, fieldSchema(field))
		if field.Required {
			required = append(required, field.Name)
		}
	}
	obj.Required = required
	return obj
}

func fieldSchema(field model.Field) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	s.Title = field.Label
	s.Description = field.Description

	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMinLength:
			if n, err := strconv.ParseInt(rule.Param("value"), 10, 64); err == nil {
				s.WithMinLength(n)
			}
		case model.ValidationRuleMaxLength:
			if n, err := strconv.ParseInt(rule.Param("value"), 10, 64); err == nil {
				s.WithMaxLength(n)
			}
		case model.ValidationRulePattern:
			s.WithPattern(rule.Param("pattern"))
		case model.ValidationRuleFormat:
			switch format := rule.Param("format"); format {
			case "email", "date":
				s.WithFormat(format)
			}
		}
	}

	if len(field.Options) > 0 {
		values := make([]any, 0, len(field.Options)+1)
		if !field.Required {
			values = append(values, "")
		}
		for _, opt := range field.Options {
			values = append(values, opt.Value)
		}
		s.WithEnum(values...)
	}
	return s
}

func submitOperation(form model.FormModel, body *openapi3.Schema) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "submit" + titleCase(form.Kind.String())
	op.Summary = "Submit the " + form.Kind.String() + " form"
	op.Tags = []string{"forms"}
	op.RequestBody = &openapi3.RequestBodyRef{Value: requestBody(body)}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, jsonResponse("Submission accepted (or simulated when the provider is not configured)", resultSchema())),
		openapi3.WithStatus(422, jsonResponse("One or more fields failed validation", validationErrorsSchema())),
		openapi3.WithStatus(429, jsonResponse("Too many submissions from this client", resultSchema())),
		openapi3.WithStatus(502, jsonResponse("The email provider rejected or failed the delivery", resultSchema())),
	)
	return op
}

func validateOperation(form model.FormModel, body *openapi3.Schema) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "validate" + titleCase(form.Kind.String())
	op.Summary = "Validate " + form.Kind.String() + " fields without sending"
	op.Tags = []string{"forms"}
	op.RequestBody = &openapi3.RequestBodyRef{Value: requestBody(body)}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, jsonResponse("Per-field validation outcome", validationErrorsSchema())),
	)
	return op
}

func requestBody(body *openapi3.Schema) *openapi3.RequestBody {
	rb := openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(body)
	rb.Content["application/x-www-form-urlencoded"] = openapi3.NewMediaType().WithSchema(body)
	return rb
}

func jsonResponse(description string, body *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(body)}
}

func resultSchema() *openapi3.Schema {
	toast := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("variant", openapi3.NewStringSchema().WithEnum("success", "destructive")).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("duration_ms", openapi3.NewIntegerSchema())

	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema().WithEnum("success", "failure")).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("delivered", openapi3.NewBoolSchema()).
		WithProperty("submission_id", openapi3.NewStringSchema()).
		WithProperty("toast", toast)
}

func validationErrorsSchema() *openapi3.Schema {
	errs := openapi3.NewObjectSchema()
	errs.AdditionalProperties = openapi3.AdditionalProperties{Schema: openapi3.NewSchemaRef("", openapi3.NewStringSchema())}
	return openapi3.NewObjectSchema().
		WithProperty("valid", openapi3.NewBoolSchema()).
		WithProperty("errors", errs)
}

func schemaName(kind model.FormKind) string {
	return titleCase(kind.String()) + "Submission"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
