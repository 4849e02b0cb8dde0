package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadsite/internal/config"
	"github.com/goliatone/go-leadsite/pkg/mailer"
	"github.com/goliatone/go-leadsite/pkg/model"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}

	want := config.Site{
		Name:         "Rgaon Apartment",
		URL:          "http://localhost:5173",
		Email:        "leasing@rgaonapt.com",
		Phone:        "(555) 123-4567",
		Address:      config.DefaultAddress,
		HoursWeekday: config.DefaultHoursWeekday,
		HoursWeekend: config.DefaultHoursWeekend,
		Facebook:     "https://facebook.com/rgaonapartment",
		Instagram:    "https://instagram.com/rgaonapartment",
		Twitter:      "https://twitter.com/rgaonapartment",
		Timezone:     "UTC",
	}
	if diff := cmp.Diff(want, cfg.Site); diff != "" {
		t.Fatalf("site defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.HTTPAddr != ":8080" || cfg.Environment != config.EnvDevelopment || !cfg.Development() {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.EmailJS.SimulatedDelay != 500*time.Millisecond || cfg.EmailJS.Timeout != 10*time.Second {
		t.Fatalf("unexpected mailer timings: %+v", cfg.EmailJS)
	}
	if mailer.New(cfg.Mailer(nil)).Mode() != mailer.ModeUnconfigured {
		t.Fatalf("missing credentials must select the unconfigured mailer")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SITE_NAME", "Harbor Lofts")
	t.Setenv("SITE_URL", "https://harbor.example/")
	t.Setenv("SITE_TIMEZONE", "America/New_York")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("EMAILJS_SERVICE_ID", "svc")
	t.Setenv("EMAILJS_TEMPLATE_ID_CONTACT", "tpl_contact")
	t.Setenv("EMAILJS_PUBLIC_KEY", "pub")
	t.Setenv("MAILER_SIMULATED_DELAY", "0s")

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.Site.Name != "Harbor Lofts" || cfg.Site.URL != "https://harbor.example" {
		t.Fatalf("unexpected site: %+v", cfg.Site)
	}
	if cfg.Location().String() != "America/New_York" {
		t.Fatalf("unexpected location %s", cfg.Location())
	}
	if cfg.Development() {
		t.Fatalf("production must not be development")
	}

	mc := cfg.Mailer(nil)
	if mailer.New(mc).Mode() != mailer.ModeConfigured {
		t.Fatalf("expected configured mailer")
	}
	if diff := cmp.Diff(map[model.FormKind]string{model.FormKindContact: "tpl_contact"}, mc.TemplateIDs); diff != "" {
		t.Fatalf("templates mismatch (-want +got):\n%s", diff)
	}
	if mc.SimulatedDelay >= 0 {
		t.Fatalf("zero delay should disable waiting, got %v", mc.SimulatedDelay)
	}
}

func TestFromEnv_RejectsBadTimezone(t *testing.T) {
	t.Setenv("SITE_TIMEZONE", "Mars/Olympus")
	if _, err := config.FromEnv(); err == nil {
		t.Fatalf("expected timezone error")
	}
}

func TestFromEnv_AnalyticsID(t *testing.T) {
	for _, id := range []string{"G-TEST123", "UA-12345-1", " G-ABCD1234 "} {
		t.Setenv("GA_MEASUREMENT_ID", id)
		cfg, err := config.FromEnv()
		if err != nil {
			t.Fatalf("id %q: %v", id, err)
		}
		if cfg.Site.AnalyticsID == "" || cfg.Site.AnalyticsID[0] == ' ' {
			t.Fatalf("id %q not trimmed: %q", id, cfg.Site.AnalyticsID)
		}
	}

	for _, id := range []string{"G-TEST');alert(1);//", "<script>", "G-abc lower"} {
		t.Setenv("GA_MEASUREMENT_ID", id)
		if _, err := config.FromEnv(); err == nil {
			t.Fatalf("expected %q to be rejected", id)
		}
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CONTACT_PHONE=(555) 000-1111\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("CONTACT_PHONE", "")
	os.Unsetenv("CONTACT_PHONE")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Site.Phone != "(555) 000-1111" {
		t.Fatalf("expected phone from .env, got %q", cfg.Site.Phone)
	}
}
