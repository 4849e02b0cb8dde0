package leadsite

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-leadsite/pkg/model"
)

func TestRuntimeAssetsFSContainsFormScript(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), "forms.js")
	if err != nil {
		t.Fatalf("expected form script to be readable: %v", err)
	}
	if !strings.Contains(string(data), "/validate") {
		t.Fatalf("expected form script to call the validate endpoint")
	}
}

func TestRuntimeAssetsFSContainsStylesheet(t *testing.T) {
	if _, err := fs.Stat(RuntimeAssetsFS(), "site.css"); err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
}

func TestEmbeddedTemplatesReadable(t *testing.T) {
	matches, err := fs.Glob(PageTemplates(), "*.html")
	if err != nil || len(matches) == 0 {
		t.Fatalf("expected page templates, got %v (%v)", matches, err)
	}
	entries, err := fs.ReadDir(EmbeddedTemplates(), ".")
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected form templates, got %d entries (%v)", len(entries), err)
	}
}

func TestRenderFormUsesEndpoint(t *testing.T) {
	out, err := RenderForm(context.Background(), model.FormKindContact, RenderOptions{
		Values: map[string]string{"name": "Dana"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `action="/contact"`) || !strings.Contains(html, `value="Dana"`) {
		t.Fatalf("unexpected markup:\n%s", html)
	}
}

func TestLoadFormsAppliesDecorators(t *testing.T) {
	store, err := LoadForms(model.DecoratorFunc(func(form *model.FormModel) error {
		if form.Kind == model.FormKindSchedule {
			form.SubmitLabel = "Book It"
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("load forms: %v", err)
	}
	schedule, err := store.Form(model.FormKindSchedule)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if schedule.SubmitLabel != "Book It" {
		t.Fatalf("submit label %q", schedule.SubmitLabel)
	}
}
