package form

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-leadsite/pkg/mailer"
	"github.com/goliatone/go-leadsite/pkg/model"
	"github.com/goliatone/go-leadsite/pkg/notify"
	"github.com/goliatone/go-leadsite/pkg/validation"
)

// TourDayLayout formats the tour date inside the schedule confirmation.
const TourDayLayout = "January 2, 2006"

// Outcome builds the toast announcing a submission result.
func Outcome(kind model.FormKind, result mailer.Result, values map[string]string) notify.Toast {
	if kind == model.FormKindSchedule {
		if result.IsSuccess() {
			return notify.Success("Tour scheduled successfully!", tourConfirmation(values))
		}
		return notify.Failure("Failed to schedule tour", result.Message)
	}
	if result.IsSuccess() {
		return notify.Success("Message sent successfully!", "We'll get back to you as soon as possible.")
	}
	return notify.Failure("Failed to send message", result.Message)
}

func tourConfirmation(values map[string]string) string {
	date := strings.TrimSpace(values["date"])
	if parsed, err := time.Parse(validation.DateLayout, date); err == nil {
		date = parsed.Format(TourDayLayout)
	}
	return fmt.Sprintf("We'll see you on %s at %s", date, strings.TrimSpace(values["time"]))
}
