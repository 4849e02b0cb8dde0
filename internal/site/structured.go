package site

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-leadsite/internal/config"
)

// StructuredDataKind selects the schema.org document embedded in a page.
type StructuredDataKind string

const (
	StructuredOrganization     StructuredDataKind = "Organization"
	StructuredApartmentComplex StructuredDataKind = "ApartmentComplex"
	StructuredContactPage      StructuredDataKind = "ContactPage"
	StructuredFAQPage          StructuredDataKind = "FAQPage"
)

const schemaContext = "https://schema.org"

type postalAddress struct {
	Type          string `json:"@type"`
	StreetAddress string `json:"streetAddress"`
}

type organizationLD struct {
	Context     string        `json:"@context"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	Telephone   string        `json:"telephone"`
	Email       string        `json:"email"`
	Address     postalAddress `json:"address"`
	SameAs      []string      `json:"sameAs,omitempty"`
}

type amenityLD struct {
	Type  string `json:"@type"`
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

type apartmentComplexLD struct {
	Context        string        `json:"@context"`
	Type           string        `json:"@type"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Address        postalAddress `json:"address"`
	Telephone      string        `json:"telephone"`
	URL            string        `json:"url"`
	AmenityFeature []amenityLD   `json:"amenityFeature,omitempty"`
}

type contactEntityLD struct {
	Type      string `json:"@type"`
	Name      string `json:"name"`
	Telephone string `json:"telephone"`
	Email     string `json:"email"`
}

type contactPageLD struct {
	Context    string          `json:"@context"`
	Type       string          `json:"@type"`
	Name       string          `json:"name"`
	URL        string          `json:"url"`
	MainEntity contactEntityLD `json:"mainEntity"`
}

type answerLD struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type questionLD struct {
	Type           string   `json:"@type"`
	Name           string   `json:"name"`
	AcceptedAnswer answerLD `json:"acceptedAnswer"`
}

type faqPageLD struct {
	Context    string       `json:"@context"`
	Type       string       `json:"@type"`
	MainEntity []questionLD `json:"mainEntity"`
}

// StructuredData returns the JSON-LD object for kind. Unknown kinds fall back
// to the organization document.
func StructuredData(kind StructuredDataKind, site config.Site, content Content) any {
	address := postalAddress{Type: "PostalAddress", StreetAddress: site.Address}
	switch kind {
	case StructuredApartmentComplex:
		var amenities []amenityLD
		for _, feature := range content.Amenities.Features {
			if feature.Structured {
				amenities = append(amenities, amenityLD{Type: "LocationFeatureSpecification", Name: feature.Title, Value: true})
			}
		}
		return apartmentComplexLD{
			Context:        schemaContext,
			Type:           "ApartmentComplex",
			Name:           site.Name,
			Description:    content.Description,
			Address:        address,
			Telephone:      site.Phone,
			URL:            site.URL,
			AmenityFeature: amenities,
		}
	case StructuredContactPage:
		return contactPageLD{
			Context: schemaContext,
			Type:    "ContactPage",
			Name:    "Contact Us - " + site.Name,
			URL:     site.URL + "/contact",
			MainEntity: contactEntityLD{
				Type:      "Organization",
				Name:      site.Name,
				Telephone: site.Phone,
				Email:     site.Email,
			},
		}
	case StructuredFAQPage:
		questions := make([]questionLD, 0, len(content.FAQ))
		for _, q := range content.FAQ {
			questions = append(questions, questionLD{
				Type:           "Question",
				Name:           q.Question,
				AcceptedAnswer: answerLD{Type: "Answer", Text: q.Answer},
			})
		}
		return faqPageLD{Context: schemaContext, Type: "FAQPage", MainEntity: questions}
	default:
		var sameAs []string
		for _, link := range []string{site.Facebook, site.Instagram, site.Twitter} {
			if strings.TrimSpace(link) != "" {
				sameAs = append(sameAs, link)
			}
		}
		return organizationLD{
			Context:     schemaContext,
			Type:        "RealEstateAgent",
			Name:        site.Name,
			Description: content.Description,
			URL:         site.URL,
			Telephone:   site.Phone,
			Email:       site.Email,
			Address:     address,
			SameAs:      sameAs,
		}
	}
}

// StructuredDataScript encodes the documents for a <script type="application/ld+json">
// body. json.Marshal escapes <, > and & so the output cannot close the tag.
func StructuredDataScript(docs ...any) (string, error) {
	var parts []string
	for _, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			return "", err
		}
		parts = append(parts, string(raw))
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}
