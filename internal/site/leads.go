package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/elnormous/contenttype"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-leadsite/pkg/form"
	"github.com/goliatone/go-leadsite/pkg/mailer"
	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/notify"
	"github.com/goliatone/go-leadsite/pkg/render"
)

var (
	jsonMediaType      = contenttype.NewMediaType("application/json")
	urlencodedType     = contenttype.NewMediaType("application/x-www-form-urlencoded")
	multipartType      = contenttype.NewMediaType("multipart/form-data")
	apiResponseTypes   = []contenttype.MediaType{jsonMediaType}
	errUnsupportedBody = errors.New("site: request body must be JSON or form encoded")
)

const rateLimitedMessage = "Too many requests. Please wait a moment and try again."

// resultView is the JSON body of a submission response.
type resultView struct {
	Status       string     `json:"status"`
	Message      string     `json:"message,omitempty"`
	Delivered    bool       `json:"delivered"`
	SubmissionID string     `json:"submission_id,omitempty"`
	Toast        *toastView `json:"toast,omitempty"`
}

// validationView is the JSON body of a validation outcome.
type validationView struct {
	Valid      bool              `json:"valid"`
	Errors     map[string]string `json:"errors"`
	FormErrors []string          `json:"form_errors,omitempty"`
}

// submission is one lead attempt: a fresh controller fed with the posted
// values.
type submission struct {
	controller *form.Controller
	toasts     *notify.Collector
}

func (s *Server) newSubmission(r *http.Request, kind model.FormKind, values map[string]string) (*submission, error) {
	f, validator, err := s.form(kind)
	if err != nil {
		return nil, err
	}
	toasts := notify.NewCollector()
	ctrl, err := form.New(validator, s.mailer, form.WithSink(toasts))
	if err != nil {
		return nil, err
	}
	for _, name := range f.FieldNames() {
		if _, err := ctrl.SetValue(name, values[name]); err != nil {
			return nil, err
		}
	}
	s.logger.WithFields(logrus.Fields{
		"request_id": RequestID(r.Context()),
		"form":       kind,
		"mailer":     s.mailer.Mode(),
	}).Debug("lead submission received")
	return &submission{controller: ctrl, toasts: toasts}, nil
}

func (s *Server) logOutcome(r *http.Request, kind model.FormKind, result mailer.Result, err error) {
	entry := s.logger.WithFields(logrus.Fields{
		"request_id":    RequestID(r.Context()),
		"form":          kind,
		"submission_id": result.SubmissionID,
		"delivered":     result.Delivered,
	})
	switch {
	case errors.Is(err, form.ErrInvalid):
		entry.Info("lead rejected by validation")
	case err != nil:
		entry.WithError(err).Warn("lead submission error")
	case result.IsSuccess():
		entry.Info("lead accepted")
	default:
		entry.Warn("lead delivery failed")
	}
}

// handleFormPost serves the no-JavaScript path: the page is rendered again
// with errors and retained values, or reset after a successful submission.
func (s *Server) handleFormPost(kind model.FormKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
		if err := r.ParseForm(); err != nil {
			s.renderFormPage(w, r, kind, formPage{
				Status:  http.StatusBadRequest,
				Message: "We could not read the form. Please try again.",
			})
			return
		}
		values := postedValues(r)

		sub, err := s.newSubmission(r, kind, values)
		if err != nil {
			panic(err)
		}
		result, err := sub.controller.Submit(r.Context())
		s.logOutcome(r, kind, result, err)

		state := sub.controller.State()
		page := formPage{Values: state.Values, Errors: state.Errors, Toasts: sub.toasts.Toasts()}
		switch {
		case errors.Is(err, form.ErrInvalid):
			page.Status = http.StatusUnprocessableEntity
		case err != nil:
			panic(err)
		}
		s.renderFormPage(w, r, kind, page)
	}
}

func (s *Server) rejectFormPost(kind model.FormKind) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		s.renderFormPage(w, r, kind, formPage{
			Status: http.StatusTooManyRequests,
			Values: postedValues(r),
			Toasts: []notify.Toast{notify.Failure("Too many requests", rateLimitedMessage)},
		})
	}
}

func postedValues(r *http.Request) map[string]string {
	values := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		if key == render.FormKindFieldName {
			continue
		}
		values[key] = r.PostForm.Get(key)
	}
	return values
}

func (s *Server) apiKind(w http.ResponseWriter, r *http.Request) (model.FormKind, bool) {
	if _, _, err := contenttype.GetAcceptableMediaType(r, apiResponseTypes); err != nil {
		writeJSON(w, http.StatusNotAcceptable, map[string]string{"error": "responses are only available as application/json"})
		return "", false
	}
	kind, err := model.ParseFormKind(r.PathValue("kind"))
	if err == nil {
		_, _, err = s.form(kind)
	}
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown form %q", r.PathValue("kind"))})
		return "", false
	}
	return kind, true
}

func (s *Server) handleAPISubmit(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.apiKind(w, r)
	if !ok {
		return
	}
	values, err := decodeValues(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	sub, err := s.newSubmission(r, kind, values)
	if err != nil {
		panic(err)
	}
	result, err := sub.controller.Submit(r.Context())
	s.logOutcome(r, kind, result, err)

	if errors.Is(err, form.ErrInvalid) {
		writeJSON(w, http.StatusUnprocessableEntity, validationView{
			Valid:      false,
			Errors:     sub.controller.State().Errors,
			FormErrors: render.MapErrors(sub.controller.Form(), unknownFields(sub.controller.Form(), values)).Form,
		})
		return
	}
	if err != nil {
		panic(err)
	}

	view := resultView{
		Status:       string(result.Status),
		Message:      result.Message,
		Delivered:    result.Delivered,
		SubmissionID: result.SubmissionID,
	}
	if toasts := toastViews(sub.toasts.Toasts()); len(toasts) > 0 {
		view.Toast = &toasts[0]
	}
	status := http.StatusOK
	if !result.IsSuccess() {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, view)
}

func (s *Server) rejectAPISubmit(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, resultView{
		Status:  string(mailer.StatusFailure),
		Message: rateLimitedMessage,
	})
}

// handleAPIValidate checks only the fields present in the body, which is how
// the page script validates a field as it changes. Keys that name no field
// are reported as form errors and do not affect validity.
func (s *Server) handleAPIValidate(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.apiKind(w, r)
	if !ok {
		return
	}
	values, err := decodeValues(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}
	f, validator, err := s.form(kind)
	if err != nil {
		panic(err)
	}

	issues := unknownFields(f, values)
	for name, value := range values {
		if _, unknown := issues[name]; unknown {
			continue
		}
		res, err := validator.Field(name, value)
		if err != nil {
			continue
		}
		if !res.IsOk() {
			issues[name] = res.Message()
		}
	}

	mapped := render.MapErrors(f, issues)
	errs := mapped.Fields
	if errs == nil {
		errs = map[string]string{}
	}
	writeJSON(w, http.StatusOK, validationView{Valid: len(errs) == 0, Errors: errs, FormErrors: mapped.Form})
}

// unknownFields lists the body keys that name no field of f.
func unknownFields(f model.FormModel, values map[string]string) map[string]string {
	known := make(map[string]bool, len(f.Fields))
	for _, name := range f.FieldNames() {
		known[name] = true
	}
	out := map[string]string{}
	for name := range values {
		if !known[name] {
			out[name] = fmt.Sprintf("Unknown field %q", name)
		}
	}
	return out
}

// decodeValues reads a flat JSON object or a form encoded body into field
// values. JSON numbers and booleans are kept in their literal form. Keys are
// normalised with render.FieldKey, so "values.email" and "/body/email" both
// address the email field.
func decodeValues(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)

	mediaType, err := contenttype.GetMediaType(r)
	if err != nil {
		return nil, errUnsupportedBody
	}
	switch {
	case mediaType.Matches(jsonMediaType):
		var raw map[string]json.RawMessage
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return map[string]string{}, nil
			}
			return nil, fmt.Errorf("site: decode json body: %w", err)
		}
		values := make(map[string]string, len(raw))
		for key, msg := range raw {
			values[key] = jsonScalar(msg)
		}
		return normaliseKeys(values), nil
	case mediaType.Matches(urlencodedType), mediaType.Matches(multipartType):
		if mediaType.Matches(multipartType) {
			if err := r.ParseMultipartForm(maxFormBody); err != nil {
				return nil, fmt.Errorf("site: parse multipart body: %w", err)
			}
		} else if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("site: parse form body: %w", err)
		}
		return normaliseKeys(postedValues(r)), nil
	default:
		return nil, errUnsupportedBody
	}
}

func normaliseKeys(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, value := range values {
		name := render.FieldKey(key)
		if name == "" || name == render.FormKindFieldName {
			continue
		}
		out[name] = value
	}
	return out
}

func jsonScalar(msg json.RawMessage) string {
	var str string
	if err := json.Unmarshal(msg, &str); err == nil {
		return str
	}
	trimmed := strings.TrimSpace(string(msg))
	if trimmed == "null" {
		return ""
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil || trimmed == "true" || trimmed == "false" {
		return trimmed
	}
	return ""
}

func writeBodyError(w http.ResponseWriter, err error) {
	if errors.Is(err, errUnsupportedBody) {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "content-type must be application/json or application/x-www-form-urlencoded"})
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
}
