package validation_test

import (
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/goliatone/go-leadsite/pkg/model"
)

func validContactValues() *rapid.Generator[map[string]string] {
	return rapid.Custom(func(rt *rapid.T) map[string]string {
		return map[string]string{
			"name":    rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,60}[a-z]`).Draw(rt, "name"),
			"email":   rapid.StringMatching(`[a-z]{1,20}@[a-z]{1,20}\.(com|org|net)`).Draw(rt, "email"),
			"phone":   rapid.StringMatching(`[0-9]{10,14}`).Draw(rt, "phone"),
			"message": rapid.StringMatching(`[A-Za-z][A-Za-z0-9 ,.!?]{8,400}[a-z]`).Draw(rt, "message"),
		}
	})
}

func validScheduleValues() *rapid.Generator[map[string]string] {
	slots := []string{"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM", "1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM"}
	units := []string{"", "studio", "one-bedroom", "two-bedroom", "no-preference"}
	return rapid.Custom(func(rt *rapid.T) map[string]string {
		offset := rapid.IntRange(0, 365).Draw(rt, "daysAhead")
		return map[string]string{
			"name":     rapid.StringMatching(`[A-Za-z]{2,40}`).Draw(rt, "name"),
			"email":    rapid.StringMatching(`[a-z]{1,20}@[a-z]{1,20}\.com`).Draw(rt, "email"),
			"phone":    rapid.StringMatching(`\([0-9]{3}\) [0-9]{3}-[0-9]{4}`).Draw(rt, "phone"),
			"date":     fixedNow.AddDate(0, 0, offset).Format("2006-01-02"),
			"time":     rapid.SampledFrom(slots).Draw(rt, "time"),
			"unitType": rapid.SampledFrom(units).Draw(rt, "unitType"),
		}
	})
}

func TestProperty_ValidValuesPass(t *testing.T) {
	contact := mustValidator(t, model.FormKindContact)
	schedule := mustValidator(t, model.FormKindSchedule)

	rapid.Check(t, func(rt *rapid.T) {
		values := validContactValues().Draw(rt, "contact")
		if errs := contact.All(values); len(errs) != 0 {
			rt.Fatalf("contact values rejected: %v (%v)", errs, values)
		}
		values = validScheduleValues().Draw(rt, "schedule")
		if errs := schedule.All(values); len(errs) != 0 {
			rt.Fatalf("schedule values rejected: %v (%v)", errs, values)
		}
	})
}

func TestProperty_SingleViolationFlagsExactlyThatField(t *testing.T) {
	v := mustValidator(t, model.FormKindContact)

	breakers := map[string]func(*rapid.T) string{
		"name": func(rt *rapid.T) string {
			return rapid.SampledFrom([]string{"", "A", strings.Repeat("x", 101)}).Draw(rt, "badName")
		},
		"email": func(rt *rapid.T) string {
			return rapid.StringMatching(`[a-z]{1,10}(@)?`).Draw(rt, "badEmail")
		},
		"phone": func(rt *rapid.T) string {
			return rapid.StringMatching(`[0-9]{0,9}`).Draw(rt, "badPhone")
		},
		"message": func(rt *rapid.T) string {
			return rapid.StringMatching(`[a-z]{0,9}`).Draw(rt, "badMessage")
		},
	}

	rapid.Check(t, func(rt *rapid.T) {
		values := validContactValues().Draw(rt, "contact")
		field := rapid.SampledFrom([]string{"name", "email", "phone", "message"}).Draw(rt, "field")
		values[field] = breakers[field](rt)

		errs := v.All(values)
		if len(errs) != 1 {
			rt.Fatalf("expected exactly one error, got %v", errs)
		}
		if _, ok := errs[field]; !ok {
			rt.Fatalf("expected error on %s, got %v", field, errs)
		}
	})
}

func TestProperty_ScheduleSingleViolationFlagsExactlyThatField(t *testing.T) {
	v := mustValidator(t, model.FormKindSchedule)

	breakers := map[string]func(*rapid.T) string{
		"date": func(rt *rapid.T) string {
			if rapid.Bool().Draw(rt, "malformed") {
				return rapid.SampledFrom([]string{"", "tomorrow", "2030-13-45", "12/31/2030"}).Draw(rt, "badDate")
			}
			daysAgo := rapid.IntRange(1, 3650).Draw(rt, "daysAgo")
			return fixedNow.AddDate(0, 0, -daysAgo).Format(time.DateOnly)
		},
		"time": func(rt *rapid.T) string {
			return rapid.StringMatching(`[a-z]{0,10}`).Draw(rt, "badTime")
		},
		"unitType": func(rt *rapid.T) string {
			return rapid.StringMatching(`[A-Z][a-z]{0,12}`).Draw(rt, "badUnitType")
		},
	}

	rapid.Check(t, func(rt *rapid.T) {
		values := validScheduleValues().Draw(rt, "schedule")
		field := rapid.SampledFrom([]string{"date", "time", "unitType"}).Draw(rt, "field")
		values[field] = breakers[field](rt)

		errs := v.All(values)
		if len(errs) != 1 {
			rt.Fatalf("expected exactly one error, got %v (%v)", errs, values)
		}
		if _, ok := errs[field]; !ok {
			rt.Fatalf("expected error on %s, got %v", field, errs)
		}
	})
}

func TestProperty_PastDatesRejected(t *testing.T) {
	v := mustValidator(t, model.FormKindSchedule)

	rapid.Check(t, func(rt *rapid.T) {
		daysAgo := rapid.IntRange(1, 3650).Draw(rt, "daysAgo")
		date := fixedNow.AddDate(0, 0, -daysAgo).Format("2006-01-02")
		res, err := v.Field("date", date)
		if err != nil {
			rt.Fatalf("validate: %v", err)
		}
		if res.IsOk() {
			rt.Fatalf("expected %s to be rejected (now %s)", date, fixedNow.Format(time.DateOnly))
		}
	})
}

func TestProperty_ValidationIsDeterministic(t *testing.T) {
	v := mustValidator(t, model.FormKindContact)

	rapid.Check(t, func(rt *rapid.T) {
		value := rapid.String().Draw(rt, "value")
		field := rapid.SampledFrom([]string{"name", "email", "phone", "message"}).Draw(rt, "field")
		first, _ := v.Field(field, value)
		second, _ := v.Field(field, value)
		if first != second {
			rt.Fatalf("results differ: %v vs %v", first, second)
		}
	})
}
