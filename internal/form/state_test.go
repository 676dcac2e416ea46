// internal/form/state_test.go
//
// State machine coverage: registry construction, type enforcement, the
// clear-on-edit versus reassert-on-blur duality, and atomic full-form
// validation.
//
//------------------------------------------------------------------------------

package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: "contact_name", Kind: Text, Required: true},
		{Name: "contact_email", Kind: Text, Required: true,
			Rules: []Rule{Email()}},
		{Name: "guest_count", Kind: Number, Required: true,
			RequiredMessage: "Guest count must be a positive number",
			Rules:           []Rule{Positive("Guest count must be a positive number")}},
		{Name: "dietary", Kind: List},
		{Name: "subscribed", Kind: Bool},
	}
}

func TestNewRejectsBadSpecs(t *testing.T) {
	if _, err := New([]FieldSpec{{Name: ""}}); err == nil {
		t.Error("unnamed field accepted")
	}
	if _, err := New([]FieldSpec{{Name: "a"}, {Name: "a"}}); err == nil {
		t.Error("duplicate field accepted")
	}
	if _, err := New([]FieldSpec{{Name: SubmitErrorKey}}); err == nil {
		t.Error("reserved name accepted")
	}
}

func TestDefaultsApplied(t *testing.T) {
	st := MustNew([]FieldSpec{
		{Name: "active", Kind: Bool, Default: true},
		{Name: "count", Kind: Number},
		{Name: "note", Kind: Text},
	})
	if v := st.Value("active"); v != true {
		t.Errorf("active default = %v, want true", v)
	}
	if v := st.Value("count"); v != float64(0) {
		t.Errorf("count default = %v, want 0", v)
	}
	if v := st.Value("note"); v != "" {
		t.Errorf("note default = %v, want empty", v)
	}
}

func TestSetEnforcesType(t *testing.T) {
	st := MustNew(testSpecs())

	if err := st.Set("guest_count", "twelve"); err == nil {
		t.Error("string accepted into a number field")
	}
	if err := st.Set("contact_name", 7); err == nil {
		t.Error("int accepted into a text field")
	}
	if err := st.Set("guest_count", 12); err != nil {
		t.Errorf("int should widen into a number field: %v", err)
	}
	if v := st.Value("guest_count"); v != float64(12) {
		t.Errorf("widened value = %v, want 12", v)
	}
	if err := st.Set("unknown", "x"); err == nil {
		t.Error("unknown field accepted")
	}
}

func TestEnumClosedSet(t *testing.T) {
	st := MustNew([]FieldSpec{
		{Name: "event_type", Kind: Enum, Options: []string{"wedding", "other"}},
	})
	if err := st.Set("event_type", "wedding"); err != nil {
		t.Errorf("allowed option rejected: %v", err)
	}
	if err := st.Set("event_type", "rave"); err == nil {
		t.Error("out-of-set option accepted")
	}
	if err := st.Set("event_type", ""); err != nil {
		t.Errorf("unselected state rejected: %v", err)
	}
}

// TestRequiredBeforeFormat asserts that a blank required field reports the
// required message, never the format message.
func TestRequiredBeforeFormat(t *testing.T) {
	st := MustNew(testSpecs())
	st.Validate()

	if got := st.FieldError("contact_email"); got != "This field is required" {
		t.Errorf("blank required+format field = %q, want required message", got)
	}

	// Once non-blank, the format rule takes over.
	_ = st.Set("contact_email", "not-an-address")
	st.Validate()
	if got := st.FieldError("contact_email"); got != "Please enter a valid email address" {
		t.Errorf("non-blank bad value = %q, want format message", got)
	}
}

// TestValidateIdempotent runs full validation twice on an unchanged registry
// and expects identical error registries.
func TestValidateIdempotent(t *testing.T) {
	st := MustNew(testSpecs())
	_ = st.Set("contact_email", "bad")

	st.Validate()
	first := st.Errors()
	st.Validate()
	second := st.Errors()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("validation not idempotent (-first +second):\n%s", diff)
	}
}

// TestErrorClearsOnEdit covers the optimistic half of the duality: any write
// removes the field's error immediately, before revalidation.
func TestErrorClearsOnEdit(t *testing.T) {
	st := MustNew(testSpecs())
	st.Validate()
	if st.FieldError("contact_name") == "" {
		t.Fatal("expected an error to clear")
	}

	// Even a value that is still invalid clears the entry.
	_ = st.Set("contact_name", " ")
	if got := st.FieldError("contact_name"); got != "" {
		t.Errorf("error survived an edit: %q", got)
	}
}

// TestBlurReasserts covers the pessimistic half: blur revalidates just that
// field.
func TestBlurReasserts(t *testing.T) {
	st := MustNew(testSpecs())
	st.Validate()
	_ = st.Set("contact_name", " ")
	st.Blur("contact_name")
	if got := st.FieldError("contact_name"); got != "This field is required" {
		t.Errorf("blur did not reassert, got %q", got)
	}

	// Blur on a now-valid field clears it.
	_ = st.Set("contact_name", "Ana")
	st.Blur("contact_name")
	if got := st.FieldError("contact_name"); got != "" {
		t.Errorf("blur kept a stale error: %q", got)
	}

	// Blurring one field never touches another's error.
	st.Validate()
	before := st.FieldError("guest_count")
	st.Blur("contact_name")
	if after := st.FieldError("guest_count"); after != before {
		t.Errorf("blur leaked across fields: %q → %q", before, after)
	}
}

func TestFirstInvalidDeclarationOrder(t *testing.T) {
	st := MustNew(testSpecs())
	st.Validate()
	if got := st.FirstInvalid(); got != "contact_name" {
		t.Errorf("FirstInvalid = %q, want contact_name", got)
	}

	_ = st.Set("contact_name", "Ana")
	st.Validate()
	if got := st.FirstInvalid(); got != "contact_email" {
		t.Errorf("FirstInvalid = %q, want contact_email", got)
	}
}

func TestResetPreservesIdentityFields(t *testing.T) {
	st := MustNew(testSpecs())
	_ = st.Set("contact_name", "Ana")
	_ = st.Set("contact_email", "ana@example.com")
	_ = st.Set("guest_count", float64(40))
	_ = st.Set("dietary", []string{"vegan"})
	st.Validate()

	st.Reset("contact_name", "contact_email")

	if v := st.Value("contact_name"); v != "Ana" {
		t.Errorf("preserved field reset: %v", v)
	}
	if v := st.Value("contact_email"); v != "ana@example.com" {
		t.Errorf("preserved field reset: %v", v)
	}
	if v := st.Value("guest_count"); v != float64(0) {
		t.Errorf("guest_count = %v, want default 0", v)
	}
	if v := st.Value("dietary"); v != nil {
		if xs, ok := v.([]string); !ok || len(xs) != 0 {
			t.Errorf("dietary = %v, want empty", v)
		}
	}
	if len(st.Errors()) != 0 {
		t.Errorf("errors survived reset: %v", st.Errors())
	}
	if st.Status() != StatusIdle {
		t.Error("status not idle after reset")
	}
}

func TestValidatePreservesSubmitError(t *testing.T) {
	st := MustNew(testSpecs())
	st.failSubmit("Duplicate inquiry")
	st.Validate()
	if got := st.Errors()[SubmitErrorKey]; got != "Duplicate inquiry" {
		t.Errorf("submit error lost across Validate: %q", got)
	}
}

func TestOptionalBlankSkipsRules(t *testing.T) {
	st := MustNew([]FieldSpec{
		{Name: "website", Kind: Text, Rules: []Rule{Email()}},
	})
	if ok := st.Validate(); !ok {
		t.Errorf("optional blank field failed: %v", st.Errors())
	}

	_ = st.Set("website", "not-an-address")
	if ok := st.Validate(); ok {
		t.Error("optional non-blank field skipped its rules")
	}
}

func TestConditionallyRequiredField(t *testing.T) {
	st := MustNew([]FieldSpec{
		{Name: "event_type", Kind: Enum, Options: []string{"wedding", "other"}, Required: true},
		{Name: "event_type_other", Kind: Text, AlwaysValidate: true,
			Rules: []Rule{RequiredIf("event_type", "other", "Please specify the event type")}},
	})

	_ = st.Set("event_type", "wedding")
	if ok := st.Validate(); !ok {
		t.Errorf("inactive conditional failed: %v", st.Errors())
	}

	_ = st.Set("event_type", "other")
	if ok := st.Validate(); ok {
		t.Error("blank conditional passed while active")
	}
	if got := st.FieldError("event_type_other"); got != "Please specify the event type" {
		t.Errorf("conditional message = %q", got)
	}
}
