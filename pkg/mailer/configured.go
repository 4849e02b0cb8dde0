package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-leadsite/pkg/model"
)

const sendPath = "/api/v1.0/email/send"

// Configured delivers submissions through the EmailJS REST API. Each Send
// issues exactly one request and never retries.
type Configured struct {
	cfg      Config
	fallback *Unconfigured
}

// NewConfigured builds the provider-backed adapter. Kinds without a template
// id fall back to simulated delivery.
func NewConfigured(cfg Config) *Configured {
	return &Configured{cfg: cfg.withDefaults(), fallback: NewUnconfigured(cfg)}
}

func (c *Configured) Mode() Mode {
	return ModeConfigured
}

type sendRequest struct {
	ServiceID      string  `json:"service_id"`
	TemplateID     string  `json:"template_id"`
	UserID         string  `json:"user_id"`
	AccessToken    string  `json:"accessToken,omitempty"`
	TemplateParams Payload `json:"template_params"`
}

func (c *Configured) Send(ctx context.Context, form model.FormModel, values map[string]string) Result {
	templateID := c.cfg.TemplateID(form.Kind)
	if templateID == "" {
		return c.fallback.Send(ctx, form, values)
	}

	id := uuid.NewString()
	log := c.cfg.Logger.WithFields(logrus.Fields{
		"form":          form.Kind,
		"submission_id": id,
	})

	payload, err := BuildPayload(form, values, c.cfg.ToEmail, c.cfg.Location)
	if err != nil {
		log.WithError(err).Error("build email payload")
		return c.failure(id, form.Kind)
	}

	if err := c.post(ctx, id, sendRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     templateID,
		UserID:         c.cfg.PublicKey,
		AccessToken:    c.cfg.PrivateKey,
		TemplateParams: payload,
	}); err != nil {
		log.WithError(err).Error("send email")
		return c.failure(id, form.Kind)
	}

	log.Info("email accepted by provider")
	res := Success(true)
	res.SubmissionID = id
	return res
}

func (c *Configured) failure(id string, kind model.FormKind) Result {
	res := Failure(FailureMessage(kind))
	res.SubmissionID = id
	return res
}

func (c *Configured) post(ctx context.Context, id string, body sendRequest) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("mailer: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+sendPath, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("mailer: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", id)

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailer: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mailer: provider responded %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
