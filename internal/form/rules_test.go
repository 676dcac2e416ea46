// internal/form/rules_test.go
//
// Rule catalog coverage.  Date rules pin the clock through nowFn so results
// do not drift with the calendar.
//
//------------------------------------------------------------------------------

package form

import (
	"testing"
	"time"
)

// pinClock fixes "today" for the duration of one test.
func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	old := nowFn
	nowFn = func() time.Time { return at }
	t.Cleanup(func() { nowFn = old })
}

func TestEmailRule(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ana@example.com", ""},
		{"a.b+c@sub.example.co", ""},
		{"  ana@example.com  ", ""}, // surrounding whitespace is trimmed
		{"ana@example", "Please enter a valid email address"},
		{"ana example@x.com", "Please enter a valid email address"},
		{"@example.com", "Please enter a valid email address"},
		{"", "Please enter a valid email address"},
	}
	rule := Email()
	for _, c := range cases {
		if got := rule(c.in, nil); got != c.want {
			t.Errorf("Email(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPhoneRule(t *testing.T) {
	cases := []struct {
		in   string
		want bool // passes
	}{
		{"0412 345 678", true},
		{"+1 (555) 123-4567", true},
		{"1234567890", true},
		{"12345", false},           // too short
		{"123456789012345678901", false}, // 21 chars
		{"phone me maybe", false},
		{"", false},
	}
	rule := Phone()
	for _, c := range cases {
		got := rule(c.in, nil)
		if (got == "") != c.want {
			t.Errorf("Phone(%q) = %q, want pass=%v", c.in, got, c.want)
		}
	}
	if msg := rule("12345", nil); msg != "Please enter a valid phone number (10-20 digits)" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestTimeOfDayRule(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"14:30", true},
		{"00:00", true},
		{"23:59", true},
		{"14:30:00", true}, // picker emits seconds; normalized away
		{"24:00", false},
		{"25:61", false},
		{"9:30", false}, // must be zero-padded
		{"1430", false},
		{"", false},
	}
	rule := TimeOfDay()
	for _, c := range cases {
		got := rule(c.in, nil)
		if (got == "") != c.want {
			t.Errorf("TimeOfDay(%q) = %q, want pass=%v", c.in, got, c.want)
		}
	}
	if msg := rule("25:61", nil); msg != "Please enter time in HH:MM format (e.g., 14:30)" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestNormalizeTime(t *testing.T) {
	if got := NormalizeTime("14:30:00"); got != "14:30" {
		t.Errorf("NormalizeTime = %q, want 14:30", got)
	}
	if got := NormalizeTime("14:30"); got != "14:30" {
		t.Errorf("NormalizeTime = %q, want 14:30", got)
	}
}

func TestLeadTimeRule(t *testing.T) {
	// Late on March 1st; midnight normalization must make the hour irrelevant.
	pinClock(t, time.Date(2026, 3, 1, 23, 45, 0, 0, time.UTC))

	rule := LeadTime(7, "Event date")
	wantMsg := "Event date must be at least 7 days from today"

	cases := []struct {
		in   string
		want string
	}{
		{"2026-03-04", wantMsg}, // today+3
		{"2026-03-07", wantMsg}, // today+6
		{"2026-03-08", ""},      // exactly today+7
		{"2026-04-01", ""},
		{"not-a-date", wantMsg},
		{"", wantMsg},
	}
	for _, c := range cases {
		if got := rule(c.in, nil); got != c.want {
			t.Errorf("LeadTime(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRequiredIfRule(t *testing.T) {
	rule := RequiredIf("event_type", "other", "Please specify the event type")

	snap := Snapshot{"event_type": "wedding"}
	if got := rule("", snap); got != "" {
		t.Errorf("inactive sentinel should pass, got %q", got)
	}

	snap = Snapshot{"event_type": "other"}
	if got := rule("", snap); got != "Please specify the event type" {
		t.Errorf("active sentinel with blank value = %q", got)
	}
	if got := rule("school reunion", snap); got != "" {
		t.Errorf("active sentinel with value should pass, got %q", got)
	}
}

// TestEqualToSymmetry covers confirm-password for matching and differing
// pairs.
func TestEqualToSymmetry(t *testing.T) {
	rule := EqualTo("new_password", "Passwords do not match")

	pairs := []struct {
		a, b string
	}{
		{"abcdefg1", "abcdefg2"},
		{"abcdefg1", ""},
		{"x1y2z3w4", "x1y2z3w5"},
	}
	for _, p := range pairs {
		snap := Snapshot{"new_password": p.a}
		if got := rule(p.b, snap); got != "Passwords do not match" {
			t.Errorf("EqualTo(%q vs %q) = %q, want mismatch error", p.b, p.a, got)
		}
	}

	snap := Snapshot{"new_password": "abcdefg1"}
	if got := rule("abcdefg1", snap); got != "" {
		t.Errorf("matching pair should pass, got %q", got)
	}
}

// TestPasswordRuleChain walks the three canonical inputs: too short, no
// digits, and acceptable.  Length is listed first, so it wins for short
// input.
func TestPasswordRuleChain(t *testing.T) {
	chain := []Rule{
		MinLength(8, "Password must be at least 8 characters"),
		LettersAndDigits("Password must contain letters and numbers"),
	}
	run := func(pw string) string {
		for _, r := range chain {
			if msg := r(pw, nil); msg != "" {
				return msg
			}
		}
		return ""
	}

	if got := run("abc"); got != "Password must be at least 8 characters" {
		t.Errorf("short password = %q", got)
	}
	if got := run("abcdefgh"); got != "Password must contain letters and numbers" {
		t.Errorf("letters-only password = %q", got)
	}
	if got := run("abcdefg1"); got != "" {
		t.Errorf("valid password = %q, want pass", got)
	}
}

func TestPositiveRule(t *testing.T) {
	rule := Positive("Guest count must be a positive number")
	if got := rule(float64(0), nil); got == "" {
		t.Error("zero should fail")
	}
	if got := rule(float64(-3), nil); got == "" {
		t.Error("negative should fail")
	}
	if got := rule("12", nil); got == "" {
		t.Error("non-number should fail")
	}
	if got := rule(float64(12), nil); got != "" {
		t.Errorf("positive = %q, want pass", got)
	}
}
