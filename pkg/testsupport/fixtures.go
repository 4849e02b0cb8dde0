package testsupport

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/schema"
	"github.com/goliatone/go-leadsite/pkg/validation"
)

// FixedNow is the reference instant used by tests that depend on "today".
var FixedNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

// Clock returns FixedNow.
func Clock() time.Time {
	return FixedNow
}

// MustLoadForm returns the embedded schema for kind.
func MustLoadForm(t *testing.T, kind model.FormKind) model.FormModel {
	t.Helper()

	store, err := schema.LoadDefault()
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	form, err := store.Form(kind)
	if err != nil {
		t.Fatalf("form %s: %v", kind, err)
	}
	return form
}

// MustValidator compiles the embedded schema for kind against FixedNow.
func MustValidator(t *testing.T, kind model.FormKind) *validation.FormValidator {
	t.Helper()

	v, err := validation.NewFormValidator(MustLoadForm(t, kind), validation.WithClock(Clock))
	if err != nil {
		t.Fatalf("validator %s: %v", kind, err)
	}
	return v
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
