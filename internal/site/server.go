// Package site serves the marketing pages and the lead capture endpoints.
package site

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-leadsite/internal/apidoc"
	"github.com/goliatone/go-leadsite/internal/config"
	"github.com/goliatone/go-leadsite/pkg/mailer"
	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/render"
	"github.com/goliatone/go-leadsite/pkg/render/template/gotemplate"
	"github.com/goliatone/go-leadsite/pkg/renderers/vanilla"
	"github.com/goliatone/go-leadsite/pkg/schema"
	"github.com/goliatone/go-leadsite/pkg/validation"
)

const maxFormBody = 64 << 10

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and lead logging.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMailer replaces the mailer derived from the configuration.
func WithMailer(m mailer.Mailer) Option {
	return func(s *Server) {
		if m != nil {
			s.mailer = m
		}
	}
}

// WithSchemaStore replaces the embedded form schemas.
func WithSchemaStore(store *schema.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.forms = store
		}
	}
}

// WithContentStore replaces the content loaded from CONTENT_DIR.
func WithContentStore(store *ContentStore) Option {
	return func(s *Server) {
		if store != nil {
			s.content = store
		}
	}
}

// WithClock injects the time source used for "today" and rate limiting.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTemplatesDir renders pages from dir instead of the embedded templates
// and disables template caching.
func WithTemplatesDir(dir string) Option {
	return func(s *Server) {
		s.templatesDir = strings.TrimSpace(dir)
	}
}

// WithVersion is reported by /healthz and the API document.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// Server owns the HTTP surface of the site. It is safe for concurrent use;
// each lead submission gets its own form controller.
type Server struct {
	cfg          config.Config
	logger       logrus.FieldLogger
	forms        *schema.Store
	validators   map[model.FormKind]*validation.FormValidator
	mailer       mailer.Mailer
	content      *ContentStore
	pages        *gotemplate.Engine
	renderers    *render.Registry
	palette      Palette
	limiter      *clientLimiter
	now          func() time.Time
	templatesDir string
	version      string

	apiOnce sync.Once
	apiDoc  []byte
	apiErr  error
}

// New wires the server from cfg. Missing collaborators are built from the
// configuration: embedded schemas, content from CONTENT_DIR (or embedded)
// and the mailer selected by the EmailJS settings.
func New(cfg config.Config, options ...Option) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		logger:  logrus.StandardLogger(),
		now:     time.Now,
		version: "dev",
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.forms == nil {
		store, err := schema.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("site: load form schemas: %w", err)
		}
		s.forms = store
	}
	s.validators = make(map[model.FormKind]*validation.FormValidator)
	for _, kind := range s.forms.Kinds() {
		form, err := s.forms.Form(kind)
		if err != nil {
			return nil, fmt.Errorf("site: %w", err)
		}
		validator, err := validation.NewFormValidator(form,
			validation.WithClock(func() time.Time { return s.now() }),
			validation.WithLocation(cfg.Location()),
		)
		if err != nil {
			return nil, fmt.Errorf("site: compile %s form: %w", kind, err)
		}
		s.validators[kind] = validator
	}

	if s.content == nil {
		store, err := NewContentStore(cfg.ContentDir, s.logger)
		if err != nil {
			return nil, err
		}
		s.content = store
	}
	if s.mailer == nil {
		s.mailer = mailer.New(cfg.Mailer(s.logger))
	}

	engineOptions := []gotemplate.Option{
		gotemplate.WithName("pages"),
		gotemplate.WithFS(TemplatesFS()),
	}
	if s.templatesDir != "" {
		engineOptions = append(engineOptions, gotemplate.WithBaseDir(s.templatesDir), gotemplate.WithoutCache())
	}
	pages, err := gotemplate.New(engineOptions...)
	if err != nil {
		return nil, fmt.Errorf("site: page templates: %w", err)
	}
	s.pages = pages

	formRenderer, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("site: form renderer: %w", err)
	}
	s.renderers = render.NewRegistry()
	if err := s.renderers.Register(formRenderer); err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}

	palette, err := ResolvePalette(s.content.Current().Theme, cfg.Site.ThemeVariant)
	if err != nil {
		s.logger.WithError(err).Warn("theme tokens unavailable; using stylesheet defaults")
	}
	s.palette = palette
	s.limiter = newClientLimiter(cfg.LeadRateLimit, cfg.LeadBurst, func() time.Time { return s.now() })
	return s, nil
}

// Content exposes the content store so callers can run its watcher.
func (s *Server) Content() *ContentStore {
	return s.content
}

// Mailer reports the active submission adapter.
func (s *Server) Mailer() mailer.Mailer {
	return s.mailer
}

// Handler returns the routed handler wrapped in the request id, logging and
// error boundary middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /floor-plans", s.handleFloorPlans)
	for _, kind := range s.forms.Kinds() {
		path := "/" + kind.String()
		mux.HandleFunc("GET "+path, s.handleFormPage(kind))
		mux.HandleFunc("POST "+path, s.limitLeads(s.handleFormPost(kind), s.rejectFormPost(kind)))
	}
	mux.HandleFunc("POST /api/forms/{kind}", s.limitLeads(s.handleAPISubmit, s.rejectAPISubmit))
	mux.HandleFunc("POST /api/forms/{kind}/validate", s.handleAPIValidate)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.staticFS())))
	mux.HandleFunc("/", s.handleNotFound)

	return withRequestID(s.logRequests(s.recoverPanics(mux)))
}

func (s *Server) staticFS() fs.FS {
	return StaticFS()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"mailer":  s.mailer.Mode(),
	})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	s.apiOnce.Do(func() {
		doc, err := apidoc.Build(context.WithoutCancel(r.Context()), s.forms, apidoc.Info{
			Title:     s.cfg.Site.Name + " lead API",
			Version:   s.version,
			ServerURL: s.cfg.Site.URL,
		})
		if err != nil {
			s.apiErr = err
			return
		}
		s.apiDoc, s.apiErr = json.MarshalIndent(doc, "", "  ")
	})
	if s.apiErr != nil {
		s.logger.WithError(s.apiErr).Error("build api document")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "api document unavailable"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.apiDoc)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", jsonMediaType.String())
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(body)
}

func (s *Server) form(kind model.FormKind) (model.FormModel, *validation.FormValidator, error) {
	form, err := s.forms.Form(kind)
	if err != nil {
		return model.FormModel{}, nil, err
	}
	validator, ok := s.validators[kind]
	if !ok {
		return model.FormModel{}, nil, fmt.Errorf("site: %w: %s", schema.ErrUnknownForm, kind)
	}
	return form, validator, nil
}
