// internal/form/rules.go
//
// Curbside – Forms subsystem: shared validation rule catalog.
//
// Context
//   The same handful of format checks (email, phone, HH:MM time, event-date
//   lead time, password shape) recurs across the inquiry, login, reset, and
//   profile forms.  They live here once, as pure functions, so every form
//   enforces identical semantics and every message reads the same.
//
// Workflow
//   •  A Rule receives the field's current value plus a Snapshot of the whole
//      form and returns a user-facing message, or "" when the value passes.
//   •  Rules must be deterministic and must not mutate anything.  The only
//      ambient input is the clock, reached through the package-level nowFn so
//      tests can pin it.
//   •  Constructors below return configured rules; forms list them on a
//      FieldSpec in the order they should fire.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Rule checks one field value against the whole-form snapshot.  An empty
// return means the value passes; anything else is the message to display.
type Rule func(v any, snap Snapshot) string

// nowFn is the clock used by date rules.  Tests swap it to pin "today."
var nowFn = time.Now

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[\d\s\-()]{10,20}$`)
	clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// DateLayout is the wire format for date fields (HTML date inputs).
const DateLayout = "2006-01-02"

// -----------------------------------------------------------------------------
// Format rules
// -----------------------------------------------------------------------------

// Email validates the RFC-lite address shape used across the product.
func Email() Rule {
	return func(v any, _ Snapshot) string {
		if s, _ := v.(string); !emailRe.MatchString(strings.TrimSpace(s)) {
			return "Please enter a valid email address"
		}
		return ""
	}
}

// Phone accepts digits, spaces, dashes, and parentheses, with an optional
// leading plus, between 10 and 20 characters.
func Phone() Rule {
	return func(v any, _ Snapshot) string {
		if s, _ := v.(string); !phoneRe.MatchString(strings.TrimSpace(s)) {
			return "Please enter a valid phone number (10-20 digits)"
		}
		return ""
	}
}

// TimeOfDay validates 24-hour HH:MM input.  Values carrying seconds
// (HH:MM:SS, as some pickers emit) are normalized by stripping the seconds
// before the check.
func TimeOfDay() Rule {
	return func(v any, _ Snapshot) string {
		s, _ := v.(string)
		if !clockRe.MatchString(NormalizeTime(s)) {
			return "Please enter time in HH:MM format (e.g., 14:30)"
		}
		return ""
	}
}

// NormalizeTime strips a trailing seconds component from HH:MM:SS input.
func NormalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if parts := strings.Split(s, ":"); len(parts) == 3 {
		return parts[0] + ":" + parts[1]
	}
	return s
}

// -----------------------------------------------------------------------------
// Date rules
// -----------------------------------------------------------------------------

// LeadTime requires a date at least days ahead of today.  Both sides are
// normalized to midnight so a booking exactly `days` out passes regardless of
// the hour the form is submitted.
func LeadTime(days int, subject string) Rule {
	return func(v any, _ Snapshot) string {
		msg := fmt.Sprintf("%s must be at least %d days from today", subject, days)

		s, _ := v.(string)
		d, err := time.Parse(DateLayout, strings.TrimSpace(s))
		if err != nil {
			return msg
		}

		now := nowFn()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		sel := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

		if sel.Before(today.AddDate(0, 0, days)) {
			return msg
		}
		return ""
	}
}

// -----------------------------------------------------------------------------
// Numeric rules
// -----------------------------------------------------------------------------

// Positive fails when the number is zero or below.  The message is supplied
// by the form so "Guest count must be a positive number" and its siblings
// stay field-specific.
func Positive(msg string) Rule {
	return func(v any, _ Snapshot) string {
		if n, ok := v.(float64); !ok || n <= 0 {
			return msg
		}
		return ""
	}
}

// -----------------------------------------------------------------------------
// Cross-field rules
// -----------------------------------------------------------------------------

// RequiredIf makes a field mandatory when a sibling enum holds the sentinel
// value, e.g. the free-text event type when "other" is selected.
func RequiredIf(parent, sentinel, msg string) Rule {
	return func(v any, snap Snapshot) string {
		if snap.Text(parent) != sentinel {
			return ""
		}
		if s, _ := v.(string); strings.TrimSpace(s) == "" {
			return msg
		}
		return ""
	}
}

// EqualTo fails unless the value equals the named sibling field, used for
// password confirmation.
func EqualTo(other, msg string) Rule {
	return func(v any, snap Snapshot) string {
		if s, _ := v.(string); s != snap.Text(other) {
			return msg
		}
		return ""
	}
}

// -----------------------------------------------------------------------------
// Password rules
// -----------------------------------------------------------------------------

// MinLength fails when the string is shorter than n characters.
func MinLength(n int, msg string) Rule {
	return func(v any, _ Snapshot) string {
		if s, _ := v.(string); len(s) < n {
			return msg
		}
		return ""
	}
}

// LettersAndDigits requires at least one letter and one digit.  Forms list it
// after MinLength so the length message wins for short input.
func LettersAndDigits(msg string) Rule {
	return func(v any, _ Snapshot) string {
		s, _ := v.(string)
		if !hasLetter(s) || !hasDigit(s) {
			return msg
		}
		return ""
	}
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
