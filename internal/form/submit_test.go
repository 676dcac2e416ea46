// internal/form/submit_test.go
//
// HandleSubmit glue: POST binding, the CSRF gate, and the handoff to the
// controller.
//
//------------------------------------------------------------------------------

package form

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func postRequest(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/catering",
		strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleSubmitHappyPath(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatal(err)
	}

	def := inquiryDef()
	sender := &fakeSender{payload: json.RawMessage(`{"inquiry_number":"INQ-7"}`)}

	values := url.Values{
		"csrf_token":    {tok},
		"contact_name":  {"Ana Flores"},
		"contact_email": {"ana@example.com"},
		"contact_phone": {"0412 345 678"},
		"guest_count":   {"40"},
	}
	st, res, err := HandleSubmit(def, sender, postRequest(t, values))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeSucceeded {
		t.Fatalf("outcome = %v, errors = %v", res.Outcome, st.Errors())
	}
	if n := sender.calls.Load(); n != 1 {
		t.Errorf("network calls = %d, want 1", n)
	}
}

func TestHandleSubmitBadCSRF(t *testing.T) {
	def := inquiryDef()
	sender := &fakeSender{}

	values := url.Values{
		"csrf_token":    {"forged"},
		"contact_name":  {"Ana Flores"},
		"contact_email": {"ana@example.com"},
		"contact_phone": {"0412 345 678"},
		"guest_count":   {"40"},
	}
	st, res, err := HandleSubmit(def, sender, postRequest(t, values))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", res.Outcome)
	}
	if n := sender.calls.Load(); n != 0 {
		t.Errorf("network calls = %d, want 0", n)
	}
	if st.Errors()[SubmitErrorKey] == "" {
		t.Error("no submit error recorded")
	}
}

func TestHandleSubmitInvalidFields(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatal(err)
	}

	def := inquiryDef()
	sender := &fakeSender{}

	values := url.Values{
		"csrf_token":    {tok},
		"contact_email": {"not-an-address"},
	}
	st, res, err := HandleSubmit(def, sender, postRequest(t, values))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeInvalid {
		t.Fatalf("outcome = %v, want invalid", res.Outcome)
	}
	if got := st.FieldError("contact_email"); got != "Please enter a valid email address" {
		t.Errorf("email error = %q", got)
	}
	if got := st.FieldError("contact_name"); got != "This field is required" {
		t.Errorf("name error = %q", got)
	}
}
