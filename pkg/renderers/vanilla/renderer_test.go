package vanilla_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/render"
	"github.com/goliatone/go-leadsite/pkg/renderers/vanilla"
	"github.com/goliatone/go-leadsite/pkg/testsupport"
)

func newRenderer(t *testing.T) *vanilla.Renderer {
	t.Helper()
	r, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, html)
		}
	}
}

func TestRender_ContactFormWithState(t *testing.T) {
	r := newRenderer(t)
	form := testsupport.MustLoadForm(t, model.FormKindContact)

	out, err := r.Render(context.Background(), form, render.RenderOptions{
		Values: map[string]string{
			"name":    "A",
			"message": "<b>hi</b>",
		},
		Errors:     map[string]string{"name": "Name must be at least 2 characters"},
		FormErrors: []string{"Failed to send message. Please try again later."},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	assertContains(t, html,
		`id="contact-form"`,
		`action="/contact"`,
		`method="post"`,
		`<input type="hidden" name="_form" value="contact">`,
		`id="fg-name"`,
		`value="A"`,
		`minlength="2"`,
		`maxlength="100"`,
		`aria-invalid="true"`,
		`aria-describedby="fg-name-error"`,
		`Name must be at least 2 characters`,
		`type="email"`,
		`type="tel"`,
		`&lt;b&gt;hi&lt;/b&gt;</textarea>`,
		`Failed to send message. Please try again later.`,
		`>Send Message</button>`,
	)
	if strings.Contains(html, "<b>hi</b>") {
		t.Fatalf("user values must be escaped")
	}
	if strings.Contains(html, "/static/forms.js") {
		t.Fatalf("contact form does not use the date component")
	}
}

func TestRender_ScheduleFormDateAndOptions(t *testing.T) {
	r := newRenderer(t)
	form := testsupport.MustLoadForm(t, model.FormKindSchedule)

	out, err := r.Render(context.Background(), form, render.RenderOptions{
		Values:     map[string]string{"time": "10:00 AM", "unitType": "studio"},
		MinDate:    "2026-03-10",
		Submitting: true,
		Hidden:     map[string]string{"return": "/schedule"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	assertContains(t, html,
		`type="date"`,
		`min="2026-03-10"`,
		`<option value="10:00 AM" selected>10:00 AM</option>`,
		`<option value="studio" selected>Studio</option>`,
		`aria-describedby="fg-date-description"`,
		`<input type="hidden" name="return" value="/schedule">`,
		`aria-busy="true"`,
		`disabled>Scheduling...</button>`,
		`<script src="/static/forms.js" defer></script>`,
	)
}

func TestRender_UnknownComponentFails(t *testing.T) {
	r := newRenderer(t)
	form := model.FormModel{
		Kind:   model.FormKindContact,
		Fields: []model.Field{{Name: "stars", Type: model.FieldTypeString, Widget: "rating"}},
	}
	if _, err := r.Render(context.Background(), form, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for unregistered component")
	}
}
