package mailer

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-leadsite/pkg/model"
)

const (
	DefaultEndpoint       = "https://api.emailjs.com"
	DefaultSimulatedDelay = 500 * time.Millisecond
	DefaultTimeout        = 10 * time.Second
)

// Mode names the adapter variant chosen from configuration.
type Mode string

const (
	ModeConfigured   Mode = "configured"
	ModeUnconfigured Mode = "unconfigured"
)

// Mailer delivers one validated submission. Send never returns an error:
// every outcome is folded into the Result.
type Mailer interface {
	Send(ctx context.Context, form model.FormModel, values map[string]string) Result
	Mode() Mode
}

// Config carries the provider credentials and delivery settings.
type Config struct {
	ServiceID      string
	TemplateIDs    map[model.FormKind]string
	PublicKey      string
	PrivateKey     string
	Endpoint       string
	ToEmail        string
	Location       *time.Location
	SimulatedDelay time.Duration
	Timeout        time.Duration
	HTTPClient     *http.Client
	Logger         logrus.FieldLogger
}

// Configured reports whether enough credentials are present to talk to the
// provider: a service id, a public key and at least one template.
func (c Config) Configured() bool {
	if strings.TrimSpace(c.ServiceID) == "" || strings.TrimSpace(c.PublicKey) == "" {
		return false
	}
	for _, id := range c.TemplateIDs {
		if strings.TrimSpace(id) != "" {
			return true
		}
	}
	return false
}

// TemplateID returns the template configured for kind.
func (c Config) TemplateID(kind model.FormKind) string {
	if c.TemplateIDs == nil {
		return ""
	}
	return strings.TrimSpace(c.TemplateIDs[kind])
}

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	c.Endpoint = strings.TrimRight(c.Endpoint, "/")
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.SimulatedDelay < 0 {
		c.SimulatedDelay = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	if c.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		c.Logger = logger
	}
	return c
}

// New picks the adapter variant: Configured when credentials are present,
// Unconfigured otherwise.
func New(cfg Config) Mailer {
	if cfg.Configured() {
		return NewConfigured(cfg)
	}
	return NewUnconfigured(cfg)
}

// FailureMessage is the user-facing text for a delivery failure of kind.
func FailureMessage(kind model.FormKind) string {
	if kind == model.FormKindSchedule {
		return "Failed to schedule tour. Please try again later."
	}
	return "Failed to send message. Please try again later."
}
