// Package config loads the immutable runtime configuration from the
// environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-leadsite/pkg/mailer"
	"github.com/goliatone/go-leadsite/pkg/model"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// measurementID matches GA4 ("G-XXXXXXX") and Universal Analytics
// ("UA-1234-1") ids. The id is written into an inline script.
var measurementID = regexp.MustCompile(`^(G-[A-Z0-9]{4,20}|UA-[0-9]{4,12}-[0-9]{1,4})$`)

// Defaults whose values contain commas cannot live in envdecode tags.
const (
	DefaultAddress      = "123 Main Street, City, State 12345"
	DefaultHoursWeekday = "Mon-Fri: 9am-6pm"
	DefaultHoursWeekend = "Sat-Sun: 10am-4pm"
)

// Site describes the property and how to reach the leasing office.
type Site struct {
	Name         string `env:"SITE_NAME,default=Rgaon Apartment"`
	URL          string `env:"SITE_URL,default=http://localhost:5173"`
	Email        string `env:"CONTACT_EMAIL,default=leasing@rgaonapt.com"`
	Phone        string `env:"CONTACT_PHONE,default=(555) 123-4567"`
	Address      string `env:"CONTACT_ADDRESS"`
	HoursWeekday string `env:"HOURS_WEEKDAY"`
	HoursWeekend string `env:"HOURS_WEEKEND"`
	Facebook     string `env:"SOCIAL_FACEBOOK,default=https://facebook.com/rgaonapartment"`
	Instagram    string `env:"SOCIAL_INSTAGRAM,default=https://instagram.com/rgaonapartment"`
	Twitter      string `env:"SOCIAL_TWITTER,default=https://twitter.com/rgaonapartment"`
	Timezone     string `env:"SITE_TIMEZONE,default=UTC"`
	AnalyticsID  string `env:"GA_MEASUREMENT_ID"`
	ThemeVariant string `env:"SITE_THEME_VARIANT"`
}

// EmailJS holds the transactional email relay credentials.
type EmailJS struct {
	ServiceID          string        `env:"EMAILJS_SERVICE_ID"`
	ContactTemplateID  string        `env:"EMAILJS_TEMPLATE_ID_CONTACT"`
	ScheduleTemplateID string        `env:"EMAILJS_TEMPLATE_ID_SCHEDULE"`
	PublicKey          string        `env:"EMAILJS_PUBLIC_KEY"`
	PrivateKey         string        `env:"EMAILJS_PRIVATE_KEY"`
	Endpoint           string        `env:"EMAILJS_ENDPOINT,default=https://api.emailjs.com"`
	SimulatedDelay     time.Duration `env:"MAILER_SIMULATED_DELAY,default=500ms"`
	Timeout            time.Duration `env:"MAILER_TIMEOUT,default=10s"`
}

// Config is built once at startup and passed down explicitly.
type Config struct {
	Site    Site
	EmailJS EmailJS

	HTTPAddr      string  `env:"HTTP_ADDR,default=:8080"`
	LogLevel      string  `env:"LOG_LEVEL,default=info"`
	Environment   string  `env:"ENVIRONMENT,default=development"`
	LeadRateLimit float64 `env:"LEAD_RATE_LIMIT,default=0.2"`
	LeadBurst     int     `env:"LEAD_RATE_BURST,default=5"`
	ContentDir    string  `env:"CONTENT_DIR"`

	location *time.Location
}

// Load reads a .env file when present (existing variables win) and decodes
// the environment into a Config.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	return FromEnv()
}

// FromEnv decodes the current environment without touching .env files.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: decode environment: %w", err)
	}
	return cfg.normalise()
}

func (c Config) normalise() (Config, error) {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.Site.Address == "" {
		c.Site.Address = DefaultAddress
	}
	if c.Site.HoursWeekday == "" {
		c.Site.HoursWeekday = DefaultHoursWeekday
	}
	if c.Site.HoursWeekend == "" {
		c.Site.HoursWeekend = DefaultHoursWeekend
	}
	c.Site.URL = strings.TrimRight(c.Site.URL, "/")
	c.Site.AnalyticsID = strings.TrimSpace(c.Site.AnalyticsID)
	if c.Site.AnalyticsID != "" && !measurementID.MatchString(c.Site.AnalyticsID) {
		return Config{}, fmt.Errorf("config: GA_MEASUREMENT_ID %q is not a measurement id", c.Site.AnalyticsID)
	}

	loc, err := time.LoadLocation(c.Site.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("config: SITE_TIMEZONE %q: %w", c.Site.Timezone, err)
	}
	c.location = loc

	if c.LeadRateLimit < 0 {
		return Config{}, fmt.Errorf("config: LEAD_RATE_LIMIT must not be negative")
	}
	if c.LeadBurst < 1 {
		c.LeadBurst = 1
	}
	return c, nil
}

// Location is the site's time zone, used to decide what "today" means.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Development reports whether error details may be shown to visitors.
func (c Config) Development() bool {
	return c.Environment != EnvProduction && c.Environment != EnvStaging
}

// Mailer maps the relay settings onto a mailer.Config.
func (c Config) Mailer(logger logrus.FieldLogger) mailer.Config {
	templates := map[model.FormKind]string{}
	if id := strings.TrimSpace(c.EmailJS.ContactTemplateID); id != "" {
		templates[model.FormKindContact] = id
	}
	if id := strings.TrimSpace(c.EmailJS.ScheduleTemplateID); id != "" {
		templates[model.FormKindSchedule] = id
	}
	delay := c.EmailJS.SimulatedDelay
	if delay == 0 {
		delay = -1
	}
	return mailer.Config{
		ServiceID:      strings.TrimSpace(c.EmailJS.ServiceID),
		TemplateIDs:    templates,
		PublicKey:      strings.TrimSpace(c.EmailJS.PublicKey),
		PrivateKey:     strings.TrimSpace(c.EmailJS.PrivateKey),
		Endpoint:       c.EmailJS.Endpoint,
		ToEmail:        c.Site.Email,
		Location:       c.Location(),
		SimulatedDelay: delay,
		Timeout:        c.EmailJS.Timeout,
		Logger:         logger,
	}
}
