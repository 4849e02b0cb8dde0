package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/render"
	"github.com/goliatone/go-leadsite/pkg/schema"
	"github.com/goliatone/go-leadsite/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	selectSeen   []SelectConfig
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectSeen = append(s.selectSeen, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func loadForm(t *testing.T, kind model.FormKind) model.FormModel {
	t.Helper()
	store, err := schema.LoadDefault()
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	form, err := store.Form(kind)
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	return form
}

func fixedClock() validation.Option {
	return validation.WithClock(func() time.Time {
		return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	})
}

func TestRender_ContactRepromptsInvalidAnswers(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"A", "Al", "al@example.com", "5551234567"},
		textAreas: []string{"short", "Hello there, I am interested."},
	}
	r := New(WithPromptDriver(driver), WithValidationOptions(fixedClock()))

	out, err := r.Render(context.Background(), loadForm(t, model.FormKindContact), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]string{
		"name":    "Al",
		"email":   "al@example.com",
		"phone":   "5551234567",
		"message": "Hello there, I am interested.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{
		"✖ Name must be at least 2 characters",
		"✖ Message must be at least 10 characters",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_ScheduleSelectsAndSkip(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Dana", "dana@example.com", "5551234567", "2026-03-09", "2026-03-12"},
		selectIdx: []int{1, 0},
	}
	r := New(WithPromptDriver(driver), WithValidationOptions(fixedClock()))

	values, err := r.Collect(context.Background(), loadForm(t, model.FormKindSchedule), render.RenderOptions{
		Values: map[string]string{"time": "10:00 AM"},
	})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if values["date"] != "2026-03-12" {
		t.Fatalf("expected past date to be re-prompted, got %q", values["date"])
	}
	if values["time"] != "10:00 AM" {
		t.Fatalf("unexpected time %q", values["time"])
	}
	if values["unitType"] != "" {
		t.Fatalf("expected skipped unit type, got %q", values["unitType"])
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], "past") {
		t.Fatalf("expected one past-date warning, got %v", driver.infoMessages)
	}

	if driver.selectSeen[0].DefaultIndex != 1 {
		t.Fatalf("expected prefilled time as default, got %d", driver.selectSeen[0].DefaultIndex)
	}
	if driver.selectSeen[1].Options[0] != skipOption {
		t.Fatalf("optional selects should offer %q first", skipOption)
	}
}

func TestRender_PrettyOutputUsesLabels(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Dana", "dana@example.com", "5551234567", "2026-03-12"},
		selectIdx: []int{0, 3},
	}
	r := New(WithPromptDriver(driver), WithValidationOptions(fixedClock()), WithOutputFormat(OutputFormatPrettyText))

	out, err := r.Render(context.Background(), loadForm(t, model.FormKindSchedule), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "Unit Preference (Optional): Two Bedroom") {
		t.Fatalf("expected unit label in output:\n%s", out)
	}
	if r.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRender_PropagatesDriverErrors(t *testing.T) {
	r := New(WithPromptDriver(&stubDriver{}))
	if _, err := r.Render(context.Background(), loadForm(t, model.FormKindContact), render.RenderOptions{}); err == nil {
		t.Fatalf("expected driver error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Collect(ctx, loadForm(t, model.FormKindContact), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
