package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-leadsite/internal/config"
	"github.com/goliatone/go-leadsite/internal/site"
	"github.com/goliatone/go-leadsite/pkg/mailer"
	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/renderers/tui"
)

type scriptedDriver struct {
	inputs    []string
	textAreas []string
	confirm   []bool
	info      []string
}

func (d *scriptedDriver) Input(_ context.Context, _ tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, _ tui.ConfirmConfig) (bool, error) {
	if len(d.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	v := d.confirm[0]
	d.confirm = d.confirm[1:]
	return v, nil
}

func (d *scriptedDriver) Select(_ context.Context, _ tui.SelectConfig) (int, error) {
	return -1, errors.New("no select scripted")
}

func (d *scriptedDriver) TextArea(_ context.Context, _ tui.TextAreaConfig) (string, error) {
	if len(d.textAreas) == 0 {
		return "", errors.New("no textarea scripted")
	}
	v := d.textAreas[0]
	d.textAreas = d.textAreas[1:]
	return v, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.info = append(d.info, msg)
	return nil
}

type recordingMailer struct {
	mu     sync.Mutex
	calls  []map[string]string
	result mailer.Result
}

func (m *recordingMailer) Mode() mailer.Mode { return mailer.ModeConfigured }

func (m *recordingMailer) Send(_ context.Context, _ model.FormModel, values map[string]string) mailer.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, values)
	return m.result
}

// useStubs swaps the prompt driver and mailer and resets command flags.
func useStubs(t *testing.T, driver tui.PromptDriver, m mailer.Mailer) {
	t.Helper()
	origDriver, origMailer := newPromptDriver, newMailer
	t.Cleanup(func() {
		newPromptDriver, newMailer = origDriver, origMailer
		intakeYes = false
		openapiOutput = ""
		envFile = ""
	})
	newPromptDriver = func(io.Writer) tui.PromptDriver { return driver }
	newMailer = func(config.Config, logrus.FieldLogger) mailer.Mailer { return m }
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SITE_TIMEZONE", "UTC")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := Execute()
	return out.String(), err
}

func TestSetVersionInfo(t *testing.T) {
	origVersion, origCommit, origDate := appVersion, appCommit, appDate
	defer func() { appVersion, appCommit, appDate = origVersion, origCommit, origDate }()

	SetVersionInfo("1.2.3", "abc1234", "2026-03-10")
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	want := "leadsite 1.2.3\ncommit: abc1234\nbuilt:  2026-03-10\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("version output mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	_, err := execute(t, "nonexistent-command")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"serve", "intake", "openapi", "version"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("command %q not registered (have %v)", want, names)
		}
	}
}

func TestIntakeContactSubmits(t *testing.T) {
	driver := &scriptedDriver{
		inputs:    []string{"Al", "al@example.com", "5551234567"},
		textAreas: []string{"Hello there, I am interested."},
		confirm:   []bool{true},
	}
	m := &recordingMailer{result: mailer.Success(true)}
	useStubs(t, driver, m)

	out, err := execute(t, "intake", "contact")
	if err != nil {
		t.Fatalf("intake: %v", err)
	}
	if len(m.calls) != 1 {
		t.Fatalf("expected one delivery, got %d", len(m.calls))
	}
	want := map[string]string{
		"name":    "Al",
		"email":   "al@example.com",
		"phone":   "5551234567",
		"message": "Hello there, I am interested.",
	}
	if diff := cmp.Diff(want, m.calls[0]); diff != "" {
		t.Fatalf("delivered values mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out, "✔ Message sent successfully!") {
		t.Fatalf("expected success toast, got:\n%s", out)
	}
}

func TestIntakeDeclinedConfirmationDiscards(t *testing.T) {
	driver := &scriptedDriver{
		inputs:    []string{"Al", "al@example.com", "5551234567"},
		textAreas: []string{"Hello there, I am interested."},
		confirm:   []bool{false},
	}
	m := &recordingMailer{result: mailer.Success(true)}
	useStubs(t, driver, m)

	out, err := execute(t, "intake", "contact")
	if err != nil {
		t.Fatalf("intake: %v", err)
	}
	if len(m.calls) != 0 {
		t.Fatalf("discarded lead was delivered")
	}
	if !strings.Contains(out, "Discarded.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestIntakeDeliveryFailure(t *testing.T) {
	driver := &scriptedDriver{
		inputs:    []string{"Al", "al@example.com", "5551234567"},
		textAreas: []string{"Hello there, I am interested."},
	}
	m := &recordingMailer{result: mailer.Failure(mailer.FailureMessage(model.FormKindContact))}
	useStubs(t, driver, m)

	out, err := execute(t, "intake", "--yes", "contact")
	if err == nil || !strings.Contains(err.Error(), "delivery failed") {
		t.Fatalf("expected delivery failure, got %v", err)
	}
	if !strings.Contains(out, "✖") {
		t.Fatalf("expected failure toast, got:\n%s", out)
	}
}

func TestIntakeUnknownForm(t *testing.T) {
	useStubs(t, &scriptedDriver{}, &recordingMailer{})
	if _, err := execute(t, "intake", "newsletter"); err == nil {
		t.Fatalf("expected error for unknown form")
	}
}

func TestOpenAPICommand(t *testing.T) {
	useStubs(t, &scriptedDriver{}, &recordingMailer{})

	out, err := execute(t, "openapi")
	if err != nil {
		t.Fatalf("openapi: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/api/forms/contact"]; !ok {
		t.Fatalf("missing contact path in %v", paths)
	}

	file := filepath.Join(t.TempDir(), "openapi.json")
	if _, err := execute(t, "openapi", "--output", file); err != nil {
		t.Fatalf("openapi to file: %v", err)
	}
	raw, err := os.ReadFile(file)
	if err != nil || !json.Valid(raw) {
		t.Fatalf("expected valid json file, err=%v", err)
	}
}

func TestRunServerServesAndShutsDown(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("LEAD_RATE_LIMIT", "0")
	t.Setenv("SITE_TIMEZONE", "UTC")
	t.Setenv("CONTENT_DIR", "")
	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	srv, err := site.New(cfg, site.WithLogger(log), site.WithMailer(&recordingMailer{result: mailer.Success(true)}))
	if err != nil {
		t.Fatalf("site: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv, ln, log) }()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		cancel()
		t.Fatalf("get healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServer: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}

func TestIntakeLogsToastsAtDebug(t *testing.T) {
	driver := &scriptedDriver{
		inputs:    []string{"Al", "al@example.com", "5551234567"},
		textAreas: []string{"Hello there, I am interested."},
	}
	useStubs(t, driver, &recordingMailer{result: mailer.Success(true)})
	t.Setenv("LOG_LEVEL", "debug")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"intake", "--yes", "contact"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := Execute(); err != nil {
		t.Fatalf("intake: %v", err)
	}
	if !strings.Contains(out.String(), "✔ Message sent successfully!") {
		t.Fatalf("console sink missed the toast:\n%s", out.String())
	}
	if !strings.Contains(errOut.String(), "Message sent successfully!") {
		t.Fatalf("log sink missed the toast:\n%s", errOut.String())
	}
}
