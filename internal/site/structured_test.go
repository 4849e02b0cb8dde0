package site

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadsite/internal/config"
)

func testSite() config.Site {
	return config.Site{
		Name:      "Rgaon Apartment",
		URL:       "https://rgaon.example",
		Email:     "leasing@rgaonapt.com",
		Phone:     "(555) 123-4567",
		Address:   "123 Main Street, City, State 12345",
		Facebook:  "https://facebook.com/rgaonapartment",
		Instagram: "https://instagram.com/rgaonapartment",
	}
}

func decodeLD(t *testing.T, doc any) map[string]any {
	t.Helper()
	raw, err := StructuredDataScript(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestStructuredDataOrganization(t *testing.T) {
	content, err := DefaultContent()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	got := decodeLD(t, StructuredData(StructuredOrganization, testSite(), content))
	want := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "RealEstateAgent",
		"name":        "Rgaon Apartment",
		"description": content.Description,
		"url":         "https://rgaon.example",
		"telephone":   "(555) 123-4567",
		"email":       "leasing@rgaonapt.com",
		"address": map[string]any{
			"@type":         "PostalAddress",
			"streetAddress": "123 Main Street, City, State 12345",
		},
		"sameAs": []any{"https://facebook.com/rgaonapartment", "https://instagram.com/rgaonapartment"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("organization mismatch (-want +got):\n%s", diff)
	}
}

func TestStructuredDataPages(t *testing.T) {
	content, err := DefaultContent()
	if err != nil {
		t.Fatalf("content: %v", err)
	}

	complexDoc := decodeLD(t, StructuredData(StructuredApartmentComplex, testSite(), content))
	var amenities []string
	for _, item := range complexDoc["amenityFeature"].([]any) {
		amenities = append(amenities, item.(map[string]any)["name"].(string))
	}
	if diff := cmp.Diff([]string{"High-Speed Internet", "Covered Parking", "24/7 Security", "Fitness Center"}, amenities); diff != "" {
		t.Fatalf("amenities mismatch (-want +got):\n%s", diff)
	}

	contact := decodeLD(t, StructuredData(StructuredContactPage, testSite(), content))
	if contact["name"] != "Contact Us - Rgaon Apartment" || contact["url"] != "https://rgaon.example/contact" {
		t.Fatalf("unexpected contact page: %v", contact)
	}

	faq := decodeLD(t, StructuredData(StructuredFAQPage, testSite(), content))
	entities := faq["mainEntity"].([]any)
	if len(entities) != len(content.FAQ) {
		t.Fatalf("faq entities = %d, want %d", len(entities), len(content.FAQ))
	}
	first := entities[0].(map[string]any)
	if first["name"] != "What is the application process?" {
		t.Fatalf("unexpected first question: %v", first["name"])
	}
}

func TestStructuredDataScriptEscapesMarkup(t *testing.T) {
	site := testSite()
	site.Name = "</script><script>alert(1)</script>"
	raw, err := StructuredDataScript(StructuredData(StructuredOrganization, site, Content{}), StructuredData(StructuredFAQPage, site, Content{}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(raw, "</script>") {
		t.Fatalf("script terminator leaked: %s", raw)
	}
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		t.Fatalf("multiple documents should encode as an array: %s", raw)
	}
}
