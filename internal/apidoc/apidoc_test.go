package apidoc_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadsite/internal/apidoc"
	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/schema"
)

func TestBuild_DescribesEveryForm(t *testing.T) {
	store, err := schema.LoadDefault()
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}

	doc, err := apidoc.Build(context.Background(), store, apidoc.Info{Title: "Rgaon Apartment", Version: "1.2.3"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, path := range []string{"/api/forms/contact", "/api/forms/contact/validate", "/api/forms/schedule", "/api/forms/schedule/validate"} {
		item := doc.Paths.Find(path)
		if item == nil || item.Post == nil {
			t.Fatalf("missing POST %s", path)
		}
	}

	contact := doc.Components.Schemas["ContactSubmission"].Value
	if diff := cmp.Diff([]string{"name", "email", "phone", "message"}, contact.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	name := contact.Properties["name"].Value
	if name.MinLength != 2 || name.MaxLength == nil || *name.MaxLength != 100 {
		t.Fatalf("unexpected name bounds: min=%d max=%v", name.MinLength, name.MaxLength)
	}
	if contact.Properties["email"].Value.Format != "email" {
		t.Fatalf("expected email format")
	}

	schedule := doc.Components.Schemas["ScheduleSubmission"].Value
	if got := schedule.Properties["date"].Value.Format; got != "date" {
		t.Fatalf("expected date format, got %q", got)
	}
	unit := schedule.Properties["unitType"].Value
	if len(unit.Enum) != 5 || unit.Enum[0] != "" {
		t.Fatalf("optional enum should allow empty value, got %v", unit.Enum)
	}

	if _, err := json.Marshal(doc); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}

func TestBuild_RejectsEmptyStore(t *testing.T) {
	if _, err := apidoc.Build(context.Background(), &schema.Store{}, apidoc.Info{}); err == nil {
		t.Fatalf("expected error for empty store")
	}
}

func TestFormSchema_PatternCarried(t *testing.T) {
	form := model.FormModel{
		Kind: model.FormKindContact,
		Fields: []model.Field{{
			Name: "phone",
			Type: model.FieldTypeString,
			Validations: []model.ValidationRule{{
				Kind:   model.ValidationRulePattern,
				Params: map[string]string{"pattern": `^[0-9]+$`},
			}},
		}},
	}
	s := apidoc.FormSchema(form)
	if s.Properties["phone"].Value.Pattern != `^[0-9]+$` {
		t.Fatalf("pattern not carried")
	}
	if len(s.Required) != 0 {
		t.Fatalf("expected no required fields")
	}
}
