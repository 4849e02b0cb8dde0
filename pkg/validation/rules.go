package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-leadsite/pkg/model"
)

// DateLayout is the wire format for date fields (HTML date inputs).
const DateLayout = "2006-01-02"

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9.!#$%&'*+/=?^_{|}~-]+@[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?)+$`)

type check func(value string) Result

func compileRule(field model.Field, rule model.ValidationRule, cfg config) (check, error) {
	message := strings.TrimSpace(rule.Message)

	switch rule.Kind {
	case model.ValidationRuleMinLength, model.ValidationRuleMaxLength:
		limit, err := strconv.Atoi(rule.Param("value"))
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("validation: field %q: %s needs a non-negative integer value", field.Name, rule.Kind)
		}
		if rule.Kind == model.ValidationRuleMinLength {
			if message == "" {
				message = fmt.Sprintf("%s must be at least %d characters", field.Label, limit)
			}
			return func(value string) Result {
				if utf8.RuneCountInString(value) < limit {
					return Error(message)
				}
				return Ok()
			}, nil
		}
		if message == "" {
			message = fmt.Sprintf("%s must be at most %d characters", field.Label, limit)
		}
		return func(value string) Result {
			if utf8.RuneCountInString(value) > limit {
				return Error(message)
			}
			return Ok()
		}, nil

	case model.ValidationRulePattern:
		expr, err := regexp.Compile(rule.Param("pattern"))
		if err != nil {
			return nil, fmt.Errorf("validation: field %q: compile pattern: %w", field.Name, err)
		}
		if message == "" {
			message = fmt.Sprintf("%s has an invalid format", field.Label)
		}
		return func(value string) Result {
			if !expr.MatchString(value) {
				return Error(message)
			}
			return Ok()
		}, nil

	case model.ValidationRuleFormat:
		return compileFormat(field, rule.Param("format"), message, cfg)

	case model.ValidationRuleNotBefore:
		return compileNotBefore(field, rule.Param("value"), message, cfg)
	}

	return nil, fmt.Errorf("validation: field %q: unknown rule %q", field.Name, rule.Kind)
}

func compileFormat(field model.Field, format, message string, cfg config) (check, error) {
	if message == "" {
		message = fmt.Sprintf("%s is invalid", field.Label)
	}
	switch format {
	case "email":
		return func(value string) Result {
			if !emailPattern.MatchString(value) {
				return Error(message)
			}
			return Ok()
		}, nil
	case "date":
		return func(value string) Result {
			if _, err := time.ParseInLocation(DateLayout, value, cfg.location); err != nil {
				return Error(message)
			}
			return Ok()
		}, nil
	case "enum":
		allowed := make(map[string]struct{}, len(field.Options))
		for _, opt := range field.Options {
			allowed[opt.Value] = struct{}{}
		}
		return func(value string) Result {
			if _, ok := allowed[value]; !ok {
				return Error(message)
			}
			return Ok()
		}, nil
	}
	return nil, fmt.Errorf("validation: field %q: unknown format %q", field.Name, format)
}

func compileNotBefore(field model.Field, bound, message string, cfg config) (check, error) {
	if message == "" {
		message = fmt.Sprintf("%s is too early", field.Label)
	}

	var fixed time.Time
	if bound != "today" {
		parsed, err := time.ParseInLocation(DateLayout, bound, cfg.location)
		if err != nil {
			return nil, fmt.Errorf("validation: field %q: notBefore needs \"today\" or a date: %w", field.Name, err)
		}
		fixed = parsed
	}

	return func(value string) Result {
		date, err := time.ParseInLocation(DateLayout, value, cfg.location)
		if err != nil {
			// reported by the format rule
			return Ok()
		}
		earliest := fixed
		if earliest.IsZero() {
			earliest = Today(cfg.now(), cfg.location)
		}
		if date.Before(earliest) {
			return Error(message)
		}
		return Ok()
	}, nil
}

// Today truncates now to midnight in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
