// internal/form/controller_test.go
//
// Submission controller coverage: the happy path with its post-success
// reset, backend failures folding into the submit error, and the
// single-in-flight guarantee.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/curbsidehq/curbside-web/internal/api"
)

// fakeSender counts calls and replays a canned response.  When gate is
// non-nil, Send blocks until the gate closes, letting tests hold a
// submission in flight.
type fakeSender struct {
	calls   atomic.Int32
	payload json.RawMessage
	err     error
	gate    chan struct{}

	lastMethod string
	lastPath   string
	lastBody   any
}

func (f *fakeSender) Send(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	f.calls.Add(1)
	f.lastMethod, f.lastPath, f.lastBody = method, path, body
	if f.gate != nil {
		<-f.gate
	}
	return f.payload, f.err
}

func inquiryDef() *Definition {
	return &Definition{
		Name:     "catering/inquiry",
		Method:   http.MethodPost,
		Path:     "/v1/catering/inquiries",
		Fallback: "Failed to submit inquiry",
		Preserve: []string{"contact_name", "contact_email", "contact_phone"},
		Fields: []FieldSpec{
			{Name: "contact_name", Kind: Text, Required: true},
			{Name: "contact_email", Kind: Text, Required: true, Rules: []Rule{Email()}},
			{Name: "contact_phone", Kind: Text, Required: true, Rules: []Rule{Phone()}},
			{Name: "guest_count", Kind: Number, Required: true,
				RequiredMessage: "Guest count must be a positive number",
				Rules:           []Rule{Positive("Guest count must be a positive number")}},
		},
	}
}

func fillValid(t *testing.T, st *State) {
	t.Helper()
	for name, v := range map[string]any{
		"contact_name":  "Ana Flores",
		"contact_email": "ana@example.com",
		"contact_phone": "0412 345 678",
		"guest_count":   float64(40),
	} {
		if err := st.Set(name, v); err != nil {
			t.Fatalf("Set(%s): %v", name, err)
		}
	}
}

// TestSubmitSuccessResets covers the happy path: exactly one network call,
// identity fields preserved, everything else back to defaults, status idle.
func TestSubmitSuccessResets(t *testing.T) {
	def := inquiryDef()
	st, err := def.NewState()
	if err != nil {
		t.Fatal(err)
	}
	fillValid(t, st)

	sender := &fakeSender{payload: json.RawMessage(`{"inquiry_number":"INQ-100"}`)}
	res := NewController(def, st, sender, nil).Submit(context.Background())

	if res.Outcome != OutcomeSucceeded {
		t.Fatalf("outcome = %v, want succeeded", res.Outcome)
	}
	if n := sender.calls.Load(); n != 1 {
		t.Errorf("network calls = %d, want 1", n)
	}
	if sender.lastMethod != http.MethodPost || sender.lastPath != "/v1/catering/inquiries" {
		t.Errorf("sent %s %s", sender.lastMethod, sender.lastPath)
	}
	if string(res.Payload) != `{"inquiry_number":"INQ-100"}` {
		t.Errorf("payload = %s", res.Payload)
	}

	if v := st.Value("contact_name"); v != "Ana Flores" {
		t.Errorf("identity field reset: %v", v)
	}
	if v := st.Value("guest_count"); v != float64(0) {
		t.Errorf("guest_count = %v, want default 0", v)
	}
	if st.Status() != StatusIdle {
		t.Error("status not idle after success")
	}
}

// TestSubmitInvalidSkipsNetwork ensures validation failures never reach the
// backend and report the first offending field in declaration order.
func TestSubmitInvalidSkipsNetwork(t *testing.T) {
	def := inquiryDef()
	st, _ := def.NewState()
	_ = st.Set("contact_email", "bad")

	sender := &fakeSender{}
	res := NewController(def, st, sender, nil).Submit(context.Background())

	if res.Outcome != OutcomeInvalid {
		t.Fatalf("outcome = %v, want invalid", res.Outcome)
	}
	if n := sender.calls.Load(); n != 0 {
		t.Errorf("network calls = %d, want 0", n)
	}
	if res.FirstInvalid != "contact_name" {
		t.Errorf("FirstInvalid = %q, want contact_name", res.FirstInvalid)
	}
}

// TestSubmitBackendError folds the backend's message into the submit entry
// and leaves every field value untouched.
func TestSubmitBackendError(t *testing.T) {
	def := inquiryDef()
	st, _ := def.NewState()
	fillValid(t, st)

	sender := &fakeSender{
		err: &api.Error{Status: http.StatusConflict, Message: "Duplicate inquiry"},
	}
	res := NewController(def, st, sender, nil).Submit(context.Background())

	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", res.Outcome)
	}
	if res.Message != "Duplicate inquiry" {
		t.Errorf("message = %q, want backend message", res.Message)
	}
	if got := st.Errors()[SubmitErrorKey]; got != "Duplicate inquiry" {
		t.Errorf("submit entry = %q", got)
	}
	if v := st.Value("contact_name"); v != "Ana Flores" {
		t.Errorf("field registry modified on failure: %v", v)
	}
	if st.Status() != StatusIdle {
		t.Error("status not idle after failure")
	}
}

// TestSubmitTransportErrorUsesFallback covers errors that carry no
// user-facing message.
func TestSubmitTransportErrorUsesFallback(t *testing.T) {
	def := inquiryDef()
	st, _ := def.NewState()
	fillValid(t, st)

	sender := &fakeSender{err: errors.New("dial tcp: connection refused")}
	res := NewController(def, st, sender, nil).Submit(context.Background())

	if res.Message != "Failed to submit inquiry" {
		t.Errorf("message = %q, want fallback", res.Message)
	}
	if got := st.Errors()[SubmitErrorKey]; got != "Failed to submit inquiry" {
		t.Errorf("submit entry = %q", got)
	}
}

// TestSingleInFlight holds one submission open and fires a second; the
// second must be a no-op with no network call of its own.
func TestSingleInFlight(t *testing.T) {
	def := inquiryDef()
	st, _ := def.NewState()
	fillValid(t, st)

	sender := &fakeSender{
		payload: json.RawMessage(`{}`),
		gate:    make(chan struct{}),
	}
	ctrl := NewController(def, st, sender, nil)

	done := make(chan Result, 1)
	go func() { done <- ctrl.Submit(context.Background()) }()

	// Wait for the first submission to flip the status.
	deadline := time.Now().Add(2 * time.Second)
	for st.Status() != StatusPending {
		if time.Now().After(deadline) {
			t.Fatal("first submission never reached pending")
		}
		time.Sleep(time.Millisecond)
	}

	second := ctrl.Submit(context.Background())
	if second.Outcome != OutcomeSkipped {
		t.Errorf("second submit outcome = %v, want skipped", second.Outcome)
	}

	// Field writes are rejected while pending.
	if err := st.Set("contact_name", "Bea"); err == nil {
		t.Error("write accepted while submitting")
	}

	close(sender.gate)
	first := <-done
	if first.Outcome != OutcomeSucceeded {
		t.Errorf("first submit outcome = %v, want succeeded", first.Outcome)
	}
	if n := sender.calls.Load(); n != 1 {
		t.Errorf("network calls = %d, want 1", n)
	}
}

// TestMapShapesPayload checks the definition's Map hook is applied to the
// outgoing body.
func TestMapShapesPayload(t *testing.T) {
	def := inquiryDef()
	def.Map = func(s Snapshot) map[string]any {
		return map[string]any{"renamed": s.Text("contact_name")}
	}
	st, _ := def.NewState()
	fillValid(t, st)

	sender := &fakeSender{payload: json.RawMessage(`{}`)}
	NewController(def, st, sender, nil).Submit(context.Background())

	body, ok := sender.lastBody.(map[string]any)
	if !ok {
		t.Fatalf("body type %T", sender.lastBody)
	}
	if body["renamed"] != "Ana Flores" {
		t.Errorf("mapped body = %v", body)
	}
	if _, leak := body["contact_name"]; leak {
		t.Error("unmapped field leaked into body")
	}
}
