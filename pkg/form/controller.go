package form

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/goliatone/go-leadsite/pkg/mailer"
	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/notify"
	"github.com/goliatone/go-leadsite/pkg/validation"
)

var (
	// ErrInvalid is returned by Submit when at least one field fails
	// validation. The sender is not called.
	ErrInvalid = errors.New("form: submission has invalid fields")
	// ErrSubmitInProgress is returned by Submit while another submission from
	// the same controller is awaiting its result.
	ErrSubmitInProgress = errors.New("form: submission already in progress")
)

// Sender delivers a validated submission. mailer.Mailer satisfies it.
type Sender interface {
	Send(ctx context.Context, form model.FormModel, values map[string]string) mailer.Result
}

// SenderFunc adapts a function into a Sender.
type SenderFunc func(ctx context.Context, form model.FormModel, values map[string]string) mailer.Result

func (f SenderFunc) Send(ctx context.Context, form model.FormModel, values map[string]string) mailer.Result {
	return f(ctx, form, values)
}

// Option customises a Controller.
type Option func(*Controller)

// WithSink routes outcome toasts to sink. The default discards them.
func WithSink(sink notify.Sink) Option {
	return func(c *Controller) {
		if sink != nil {
			c.sink = sink
		}
	}
}

// WithValues seeds the controller with submitted values. Unknown keys are
// ignored and no validation runs until SetValue, Validate or Submit.
func WithValues(values map[string]string) Option {
	return func(c *Controller) {
		for name, value := range values {
			if _, ok := c.state.Values[name]; ok {
				c.state.Values[name] = value
			}
		}
	}
}

// Controller owns the FormState of one form instance.
type Controller struct {
	mu        sync.Mutex
	form      model.FormModel
	validator *validation.FormValidator
	sender    Sender
	sink      notify.Sink
	state     State
}

// New creates a controller in the Editing phase with the form's initial
// values.
func New(validator *validation.FormValidator, sender Sender, options ...Option) (*Controller, error) {
	if validator == nil {
		return nil, errors.New("form: validator is required")
	}
	if sender == nil {
		return nil, errors.New("form: sender is required")
	}
	form := validator.Form()
	c := &Controller{
		form:      form,
		validator: validator,
		sender:    sender,
		sink:      notify.Discard,
		state: State{
			Values: form.InitialValues(),
			Errors: map[string]string{},
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Form returns the schema bound to the controller.
func (c *Controller) Form() model.FormModel {
	return c.form
}

// State returns a copy of the current FormState.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// SetValue stores value for name and validates that field immediately.
func (c *Controller) SetValue(name, value string) (validation.Result, error) {
	res, err := c.validator.Field(name, value)
	if err != nil {
		return validation.Result{}, fmt.Errorf("form: set %q: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Values[name] = value
	c.record(name, res)
	return res, nil
}

// Validate checks every field, replaces the error map and reports whether
// the form is valid.
func (c *Controller) Validate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked()
}

func (c *Controller) validateLocked() bool {
	errs := c.validator.All(c.state.Values)
	c.state.Errors = make(map[string]string, len(errs))
	maps.Copy(c.state.Errors, errs)
	return len(errs) == 0
}

func (c *Controller) record(name string, res validation.Result) {
	if res.IsOk() {
		delete(c.state.Errors, name)
		return
	}
	c.state.Errors[name] = res.Message()
}

// Reset restores the initial values and clears every error.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.state.Values = c.form.InitialValues()
	c.state.Errors = map[string]string{}
}

// Submit validates every field and, when the form is valid, hands a snapshot
// of the values to the sender exactly once. A successful result resets the
// form; a failure keeps the values. The outcome toast is published after the
// controller has left the Submitting phase.
//
// Once dispatched, delivery is not cancelled by ctx; only the sender's own
// timeout bounds it.
func (c *Controller) Submit(ctx context.Context) (mailer.Result, error) {
	c.mu.Lock()
	if c.state.Submitting {
		c.mu.Unlock()
		return mailer.Result{}, ErrSubmitInProgress
	}
	if !c.validateLocked() {
		c.mu.Unlock()
		return mailer.Result{}, ErrInvalid
	}
	c.state.Submitting = true
	snapshot := maps.Clone(c.state.Values)
	c.mu.Unlock()

	result := c.send(context.WithoutCancel(ctx), snapshot)

	c.mu.Lock()
	c.state.Submitting = false
	if result.IsSuccess() {
		c.resetLocked()
	}
	c.mu.Unlock()

	c.notify(Outcome(c.form.Kind, result, snapshot))
	return result, nil
}

func (c *Controller) send(ctx context.Context, values map[string]string) (result mailer.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = mailer.Failure(mailer.FailureMessage(c.form.Kind))
		}
	}()
	return c.sender.Send(ctx, c.form, values)
}

func (c *Controller) notify(toast notify.Toast) {
	defer func() {
		_ = recover()
	}()
	c.sink.Notify(toast)
}
