package mailer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-leadsite/pkg/model"
)

// Unconfigured simulates delivery so the site stays usable without provider
// credentials. It performs no network I/O and always reports Success with
// Delivered=false after a fixed delay.
type Unconfigured struct {
	cfg Config
}

// NewUnconfigured builds the simulated adapter. A zero SimulatedDelay means
// DefaultSimulatedDelay; a negative one disables waiting.
func NewUnconfigured(cfg Config) *Unconfigured {
	if cfg.SimulatedDelay == 0 {
		cfg.SimulatedDelay = DefaultSimulatedDelay
	}
	return &Unconfigured{cfg: cfg.withDefaults()}
}

func (u *Unconfigured) Mode() Mode {
	return ModeUnconfigured
}

func (u *Unconfigured) Send(ctx context.Context, form model.FormModel, values map[string]string) Result {
	id := uuid.NewString()
	u.cfg.Logger.WithFields(logrus.Fields{
		"form":          form.Kind,
		"submission_id": id,
		"values":        values,
	}).Info("email provider not configured; lead logged instead of sent")

	if u.cfg.SimulatedDelay > 0 {
		timer := time.NewTimer(u.cfg.SimulatedDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}

	res := Success(false)
	res.SubmissionID = id
	return res
}
