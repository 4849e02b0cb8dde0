package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ContentFile is the document read from the embedded content or CONTENT_DIR.
const ContentFile = "site.yaml"

const reloadDebounce = 250 * time.Millisecond

// Content is the editable marketing copy of the site.
type Content struct {
	Description  string        `yaml:"description" json:"description"`
	Hero         Section       `yaml:"hero" json:"hero"`
	Amenities    Amenities     `yaml:"amenities" json:"amenities"`
	CTA          Section       `yaml:"cta" json:"cta"`
	FloorPlans   []FloorPlan   `yaml:"floorPlans" json:"floor_plans"`
	FAQ          []Question    `yaml:"faq" json:"faq"`
	Testimonials []Testimonial `yaml:"testimonials" json:"testimonials"`
	Theme        ThemeDocument `yaml:"theme" json:"-"`
}

type Section struct {
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
}

type Amenities struct {
	Title    string    `yaml:"title" json:"title"`
	Subtitle string    `yaml:"subtitle" json:"subtitle"`
	Features []Feature `yaml:"features" json:"features"`
}

// Feature is an amenity card. Structured features are also advertised as
// amenityFeature entries in the ApartmentComplex JSON-LD.
type Feature struct {
	Icon        string `yaml:"icon" json:"icon"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Structured  bool   `yaml:"structured" json:"structured"`
}

// FloorPlan is one unit type. Rents are whole dollars per month.
type FloorPlan struct {
	ID          int    `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Beds        int    `yaml:"beds" json:"beds"`
	Baths       int    `yaml:"baths" json:"baths"`
	SqFt        int    `yaml:"sqft" json:"sqft"`
	RentLow     int    `yaml:"rentLow" json:"rent_low"`
	RentHigh    int    `yaml:"rentHigh" json:"rent_high"`
	Image       string `yaml:"image" json:"image"`
	Available   bool   `yaml:"available" json:"available"`
	Description string `yaml:"description" json:"description"`
}

// BedLabel is the filter caption for the plan's bedroom count.
func (p FloorPlan) BedLabel() string {
	return BedLabel(p.Beds)
}

// BedLabel renders a bedroom count the way the floor plan filter shows it.
func BedLabel(beds int) string {
	if beds == 0 {
		return "Studio"
	}
	return fmt.Sprintf("%d Bed", beds)
}

type Question struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type Testimonial struct {
	Name   string `yaml:"name" json:"name"`
	Unit   string `yaml:"unit" json:"unit"`
	Rating int    `yaml:"rating" json:"rating"`
	Date   string `yaml:"date" json:"date"`
	Review string `yaml:"review" json:"review"`
}

// ThemeDocument is the YAML form of a go-theme manifest.
type ThemeDocument struct {
	Name     string                          `yaml:"name"`
	Version  string                          `yaml:"version"`
	Tokens   map[string]string               `yaml:"tokens"`
	Variants map[string]ThemeVariantDocument `yaml:"variants"`
}

type ThemeVariantDocument struct {
	Tokens map[string]string `yaml:"tokens"`
}

// BedOptions lists the distinct bedroom counts in plan order.
func (c Content) BedOptions() []int {
	seen := map[int]bool{}
	var out []int
	for _, plan := range c.FloorPlans {
		if seen[plan.Beds] {
			continue
		}
		seen[plan.Beds] = true
		out = append(out, plan.Beds)
	}
	return out
}

// PlansWithBeds filters floor plans by bedroom count; a nil filter keeps all.
func (c Content) PlansWithBeds(beds *int) []FloorPlan {
	if beds == nil {
		return append([]FloorPlan(nil), c.FloorPlans...)
	}
	var out []FloorPlan
	for _, plan := range c.FloorPlans {
		if plan.Beds == *beds {
			out = append(out, plan)
		}
	}
	return out
}

// ParseContent decodes and checks a content document.
func ParseContent(raw []byte) (Content, error) {
	var content Content
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&content); err != nil {
		return Content{}, fmt.Errorf("site: decode content: %w", err)
	}
	if err := content.check(); err != nil {
		return Content{}, err
	}
	return content, nil
}

func (c Content) check() error {
	var errs []error
	for i, plan := range c.FloorPlans {
		if strings.TrimSpace(plan.Name) == "" {
			errs = append(errs, fmt.Errorf("floor plan %d: name is required", i))
		}
		if plan.Beds < 0 || plan.Baths < 0 || plan.SqFt < 0 {
			errs = append(errs, fmt.Errorf("floor plan %q: counts must not be negative", plan.Name))
		}
		if plan.RentLow > plan.RentHigh {
			errs = append(errs, fmt.Errorf("floor plan %q: rent range %d-%d is inverted", plan.Name, plan.RentLow, plan.RentHigh))
		}
	}
	for i, q := range c.FAQ {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			errs = append(errs, fmt.Errorf("faq %d: question and answer are required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("site: invalid content: %w", errors.Join(errs...))
	}
	return nil
}

// LoadContent reads ContentFile from fsys.
func LoadContent(fsys fs.FS) (Content, error) {
	raw, err := fs.ReadFile(fsys, ContentFile)
	if err != nil {
		return Content{}, fmt.Errorf("site: read %s: %w", ContentFile, err)
	}
	return ParseContent(raw)
}

// DefaultContent parses the embedded content document.
func DefaultContent() (Content, error) {
	return LoadContent(ContentFS())
}

// ContentStore serves the current Content and, when backed by a directory,
// swaps it in place whenever the file changes.
type ContentStore struct {
	mu      sync.RWMutex
	content Content
	dir     string
	logger  logrus.FieldLogger
}

// NewContentStore loads content from dir, or from the embedded document when
// dir is empty.
func NewContentStore(dir string, logger logrus.FieldLogger) (*ContentStore, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	store := &ContentStore{dir: strings.TrimSpace(dir), logger: logger}
	if err := store.Reload(); err != nil {
		return nil, err
	}
	return store, nil
}

// StaticContentStore wraps a fixed Content value.
func StaticContentStore(content Content) *ContentStore {
	return &ContentStore{content: content, logger: logrus.StandardLogger()}
}

// Current returns the active content.
func (s *ContentStore) Current() Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// Dir is the watched directory, empty for embedded content.
func (s *ContentStore) Dir() string {
	return s.dir
}

// Reload re-reads the document. A broken document leaves the previous content
// in place.
func (s *ContentStore) Reload() error {
	var (
		content Content
		err     error
	)
	if s.dir == "" {
		content, err = DefaultContent()
	} else {
		content, err = LoadContent(os.DirFS(s.dir))
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.content = content
	s.mu.Unlock()
	return nil
}

// Watch reloads the content whenever ContentFile changes under the store's
// directory. It blocks until ctx is done. Embedded stores return immediately.
func (s *ContentStore) Watch(ctx context.Context) error {
	if s.dir == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("site: create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(s.dir); err != nil {
		return fmt.Errorf("site: watch %s: %w", s.dir, err)
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != ContentFile {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			if err := s.Reload(); err != nil {
				s.logger.WithError(err).Warn("content reload failed; keeping previous content")
				continue
			}
			s.logger.WithField("dir", s.dir).Info("content reloaded")
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.WithError(err).Debug("content watcher error")
		}
	}
}
