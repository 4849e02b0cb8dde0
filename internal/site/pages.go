package site

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/notify"
	"github.com/goliatone/go-leadsite/pkg/render"
	"github.com/goliatone/go-leadsite/pkg/render/template/gotemplate"
	"github.com/goliatone/go-leadsite/pkg/validation"
)

type pageMeta struct {
	Name        string
	Title       string
	Description string
	Path        string
	Structured  []StructuredDataKind
}

type navItem struct {
	Href   string `json:"href"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type toastView struct {
	ID          string `json:"id"`
	Variant     string `json:"variant"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DurationMS  int64  `json:"duration_ms"`
}

func toastViews(toasts []notify.Toast) []toastView {
	out := make([]toastView, 0, len(toasts))
	for _, t := range toasts {
		out = append(out, toastView{
			ID:          t.ID,
			Variant:     string(t.Variant),
			Title:       t.Title,
			Description: t.Description,
			DurationMS:  t.TTLMillis(),
		})
	}
	return out
}

var navigation = []navItem{
	{Href: "/", Label: "Home"},
	{Href: "/floor-plans", Label: "Floor Plans"},
	{Href: "/contact", Label: "Contact"},
	{Href: "/schedule", Label: "Schedule"},
}

func (s *Server) siteView() map[string]any {
	site := s.cfg.Site
	return map[string]any{
		"name":          site.Name,
		"url":           site.URL,
		"email":         site.Email,
		"phone":         site.Phone,
		"tel":           gotemplate.TelHref(site.Phone),
		"address":       site.Address,
		"hours_weekday": site.HoursWeekday,
		"hours_weekend": site.HoursWeekend,
		"facebook":      site.Facebook,
		"instagram":     site.Instagram,
		"twitter":       site.Twitter,
	}
}

// layoutData builds the values every page template sees.
func (s *Server) layoutData(r *http.Request, meta pageMeta, content Content, toasts []notify.Toast) (map[string]any, error) {
	title := s.cfg.Site.Name
	if meta.Title != "" {
		title = meta.Title + " | " + s.cfg.Site.Name
	}
	description := meta.Description
	if description == "" {
		description = content.Description
	}

	nav := make([]navItem, len(navigation))
	for i, item := range navigation {
		item.Active = item.Href == meta.Path
		nav[i] = item
	}

	var structured string
	if len(meta.Structured) > 0 {
		docs := make([]any, 0, len(meta.Structured))
		for _, kind := range meta.Structured {
			docs = append(docs, StructuredData(kind, s.cfg.Site, content))
		}
		encoded, err := StructuredDataScript(docs...)
		if err != nil {
			return nil, fmt.Errorf("site: encode structured data: %w", err)
		}
		structured = encoded
	}

	return map[string]any{
		"site": s.siteView(),
		"page": map[string]any{
			"name":        meta.Name,
			"title":       title,
			"description": description,
			"canonical":   s.cfg.Site.URL + meta.Path,
		},
		"nav":             nav,
		"structured_data": structured,
		"theme_style":     s.palette.Style,
		"analytics_id":    strings.TrimSpace(s.cfg.Site.AnalyticsID),
		"year":            strconv.Itoa(s.now().In(s.cfg.Location()).Year()),
		"toasts":          toastViews(toasts),
		"request_id":      RequestID(r.Context()),
	}, nil
}

// renderPage executes the named template into a buffer so a failing template
// never leaves a half written response.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, template string, data map[string]any) {
	var buf bytes.Buffer
	if _, err := s.pages.RenderTemplate(template, data, &buf); err != nil {
		panic(fmt.Errorf("site: render %s: %w", template, err))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	content := s.content.Current()
	data, err := s.layoutData(r, pageMeta{
		Name:       "home",
		Path:       "/",
		Structured: []StructuredDataKind{StructuredOrganization, StructuredApartmentComplex, StructuredFAQPage},
	}, content, nil)
	if err != nil {
		panic(err)
	}
	testimonials := make([]testimonialView, 0, len(content.Testimonials))
	for _, t := range content.Testimonials {
		testimonials = append(testimonials, newTestimonialView(t))
	}
	data["hero"] = content.Hero
	data["amenities"] = content.Amenities
	data["cta"] = content.CTA
	data["faq"] = content.FAQ
	data["testimonials"] = testimonials
	s.renderPage(w, r, http.StatusOK, "home", data)
}

type testimonialView struct {
	Name    string `json:"name"`
	Unit    string `json:"unit"`
	Date    string `json:"date"`
	Review  string `json:"review"`
	Stars   string `json:"stars"`
	Rating  string `json:"rating"`
	Initial string `json:"initial"`
}

func newTestimonialView(t Testimonial) testimonialView {
	rating := min(max(t.Rating, 0), 5)
	initial := ""
	if name := strings.TrimSpace(t.Name); name != "" {
		initial = strings.ToUpper(string([]rune(name)[:1]))
	}
	return testimonialView{
		Name:    t.Name,
		Unit:    t.Unit,
		Date:    t.Date,
		Review:  t.Review,
		Stars:   strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating),
		Rating:  strconv.Itoa(rating) + " out of 5",
		Initial: initial,
	}
}

type planView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Available   bool   `json:"available"`
	Beds        string `json:"beds"`
	Baths       string `json:"baths"`
	Area        string `json:"area"`
	Rent        string `json:"rent"`
}

func newPlanView(plan FloorPlan) planView {
	beds := "Studio"
	if plan.Beds > 0 {
		beds = plural(plan.Beds, "Bedroom")
	}
	return planView{
		Name:        plan.Name,
		Description: plan.Description,
		Image:       plan.Image,
		Available:   plan.Available,
		Beds:        beds,
		Baths:       plural(plan.Baths, "Bath"),
		Area:        gotemplate.Thousands(plan.SqFt) + " sq ft",
		Rent:        gotemplate.Money(plan.RentLow) + " - " + gotemplate.Money(plan.RentHigh) + "/mo",
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

type filterView struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// parseBeds reads ?beds=N. Missing or malformed values select every plan.
func parseBeds(r *http.Request) *int {
	raw := strings.TrimSpace(r.URL.Query().Get("beds"))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func (s *Server) handleFloorPlans(w http.ResponseWriter, r *http.Request) {
	content := s.content.Current()
	beds := parseBeds(r)

	filters := []filterView{{Label: "All", Href: "/floor-plans", Active: beds == nil}}
	for _, n := range content.BedOptions() {
		filters = append(filters, filterView{
			Label:  BedLabel(n),
			Href:   "/floor-plans?beds=" + strconv.Itoa(n),
			Active: beds != nil && *beds == n,
		})
	}
	plans := content.PlansWithBeds(beds)
	views := make([]planView, 0, len(plans))
	for _, plan := range plans {
		views = append(views, newPlanView(plan))
	}

	data, err := s.layoutData(r, pageMeta{
		Name:        "floor-plans",
		Title:       "Floor Plans",
		Description: "Explore our thoughtfully designed floor plans and find your perfect home",
		Path:        "/floor-plans",
		Structured:  []StructuredDataKind{StructuredApartmentComplex},
	}, content, nil)
	if err != nil {
		panic(err)
	}
	data["filters"] = filters
	data["plans"] = views
	s.renderPage(w, r, http.StatusOK, "floor_plans", data)
}

var formPages = map[model.FormKind]pageMeta{
	model.FormKindContact: {
		Name:        "contact",
		Title:       "Contact Us",
		Description: "Have questions? We're here to help. Reach out to our team today.",
		Path:        "/contact",
		Structured:  []StructuredDataKind{StructuredContactPage},
	},
	model.FormKindSchedule: {
		Name:        "schedule",
		Title:       "Schedule a Tour",
		Description: "Book a personal tour of our apartments and see why Rgaon is the perfect place to call home",
		Path:        "/schedule",
		Structured:  []StructuredDataKind{StructuredOrganization},
	},
}

// formPage captures what a form page shows besides the layout.
type formPage struct {
	Status  int
	Values  map[string]string
	Errors  map[string]string
	Toasts  []notify.Toast
	Message string
}

func (s *Server) renderFormPage(w http.ResponseWriter, r *http.Request, kind model.FormKind, page formPage) {
	form, _, err := s.form(kind)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	renderer, err := s.renderers.Get("")
	if err != nil {
		panic(err)
	}

	values := page.Values
	if values == nil {
		values = form.InitialValues()
	}
	var formErrors []string
	if page.Message != "" {
		formErrors = append(formErrors, page.Message)
	}
	markup, err := renderer.Render(r.Context(), form, render.RenderOptions{
		Action:     form.Endpoint,
		Values:     values,
		Errors:     page.Errors,
		FormErrors: formErrors,
		MinDate:    validation.Today(s.now(), s.cfg.Location()).Format(validation.DateLayout),
	})
	if err != nil {
		panic(fmt.Errorf("site: render %s form: %w", kind, err))
	}

	content := s.content.Current()
	meta, ok := formPages[kind]
	if !ok {
		meta = pageMeta{Name: kind.String(), Title: form.Title, Path: form.Endpoint}
	}
	data, err := s.layoutData(r, meta, content, page.Toasts)
	if err != nil {
		panic(err)
	}
	data["form_html"] = string(markup)
	data["kind"] = kind.String()

	status := page.Status
	if status == 0 {
		status = http.StatusOK
	}
	s.renderPage(w, r, status, kind.String(), data)
}

func (s *Server) handleFormPage(kind model.FormKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderFormPage(w, r, kind, formPage{})
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.logger.WithFields(logrus.Fields{
		"request_id": RequestID(r.Context()),
		"path":       r.URL.Path,
	}).Warn("404: route not found")

	data, err := s.layoutData(r, pageMeta{Name: "not-found", Title: "Page Not Found", Path: r.URL.Path}, s.content.Current(), nil)
	if err != nil {
		panic(err)
	}
	data["path"] = r.URL.Path
	s.renderPage(w, r, http.StatusNotFound, "not_found", data)
}

// renderError writes the error boundary fallback. It must not panic, so a
// failing template degrades to plain text.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, cause error) {
	retry := "/"
	if r.Method == http.MethodGet {
		retry = r.URL.RequestURI()
	}
	data := map[string]any{
		"site":  s.siteView(),
		"retry": retry,
		"page": map[string]any{
			"name":  "error",
			"title": "Something went wrong | " + s.cfg.Site.Name,
		},
		"theme_style": s.palette.Style,
		"request_id":  RequestID(r.Context()),
	}
	if s.cfg.Development() && cause != nil {
		data["details"] = cause.Error()
	}

	var buf bytes.Buffer
	if _, err := s.pages.RenderTemplate("error", data, &buf); err != nil {
		s.logger.WithError(err).Error("render error page")
		http.Error(w, "Oops! Something went wrong", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = buf.WriteTo(w)
}
