package components_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadsite/pkg/renderers/vanilla/components"
)

func TestRegistry_RegisterAndScripts(t *testing.T) {
	reg := components.NewDefaultRegistry()

	if _, ok := reg.Descriptor(" Select "); !ok {
		t.Fatalf("expected select component")
	}
	if err := reg.Register("", components.Descriptor{}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := reg.Register("stars", components.Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}

	reg.MustRegister("stars", components.Descriptor{
		Renderer: func(*bytes.Buffer, components.FieldView, components.ComponentData) error { return nil },
		Scripts:  []string{"/static/stars.js", "/static/forms.js"},
	})

	got := reg.Scripts([]string{"date", "stars", "input"})
	want := []string{"/static/forms.js", "/static/stars.js"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("scripts mismatch (-want +got):\n%s", diff)
	}
}
