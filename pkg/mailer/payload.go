package mailer

import (
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/validation"
)

// TourDateLayout is how tour dates are spelled out in outgoing emails.
const TourDateLayout = "Monday, January 2, 2006"

const noPreference = "No preference"

// Payload is the flat set of template variables sent to the provider.
type Payload map[string]string

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// BuildPayload maps validated form values onto the provider's template
// variables. Callers must only pass values that passed validation.
func BuildPayload(form model.FormModel, values map[string]string, toEmail string, loc *time.Location) (Payload, error) {
	if loc == nil {
		loc = time.UTC
	}

	payload := Payload{
		"from_name":  plainText(values["name"]),
		"from_email": strings.TrimSpace(values["email"]),
		"phone":      strings.TrimSpace(values["phone"]),
		"to_email":   toEmail,
	}

	switch form.Kind {
	case model.FormKindContact:
		payload["message"] = plainText(values["message"])

	case model.FormKindSchedule:
		date, err := time.ParseInLocation(validation.DateLayout, strings.TrimSpace(values["date"]), loc)
		if err != nil {
			return nil, fmt.Errorf("mailer: parse tour date: %w", err)
		}
		payload["tour_date"] = date.Format(TourDateLayout)
		payload["tour_time"] = strings.TrimSpace(values["time"])

		// the email shows the option label, not the stored value
		unit := strings.TrimSpace(values["unitType"])
		if unit == "" {
			payload["unit_type"] = noPreference
		} else if field, ok := form.Field("unitType"); ok {
			payload["unit_type"] = field.OptionLabel(unit)
		} else {
			payload["unit_type"] = unit
		}

	default:
		return nil, fmt.Errorf("mailer: unsupported form kind %q", form.Kind)
	}

	return payload, nil
}

// plainText strips any markup a visitor typed into a free-text field.
func plainText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	cleaned := textPolicy.Sanitize(strings.TrimSpace(raw))
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
