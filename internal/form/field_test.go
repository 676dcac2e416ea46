// internal/form/field_test.go
//
// POST binding: url.Values → typed field writes, mirroring how browsers
// submit each control.
//
//------------------------------------------------------------------------------

package form

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBindPosted(t *testing.T) {
	st := MustNew([]FieldSpec{
		{Name: "name", Kind: Text},
		{Name: "guest_count", Kind: Number},
		{Name: "subscribed", Kind: Bool},
		{Name: "event_type", Kind: Enum, Options: []string{"wedding", "other"}},
		{Name: "dietary", Kind: List},
	})

	posted := url.Values{
		"name":        {"Ana"},
		"guest_count": {"40"},
		"subscribed":  {"on"},
		"event_type":  {"wedding"},
		"dietary":     {"vegan", "gluten-free"},
	}
	BindPosted(st, posted)

	if v := st.Value("name"); v != "Ana" {
		t.Errorf("name = %v", v)
	}
	if v := st.Value("guest_count"); v != float64(40) {
		t.Errorf("guest_count = %v", v)
	}
	if v := st.Value("subscribed"); v != true {
		t.Errorf("subscribed = %v", v)
	}
	if diff := cmp.Diff([]string{"vegan", "gluten-free"}, st.Value("dietary")); diff != "" {
		t.Errorf("dietary mismatch:\n%s", diff)
	}
}

// Unchecked checkboxes are simply absent from a browser POST; the bound
// value must still land as false.
func TestBindPostedAbsentBool(t *testing.T) {
	st := MustNew([]FieldSpec{{Name: "subscribed", Kind: Bool, Default: true}})
	BindPosted(st, url.Values{})
	if v := st.Value("subscribed"); v != false {
		t.Errorf("absent checkbox = %v, want false", v)
	}
}

// Unparseable numbers bind as the 0 sentinel so the positivity rule reports
// them with a user-facing message.
func TestBindPostedBadNumber(t *testing.T) {
	st := MustNew([]FieldSpec{
		{Name: "guest_count", Kind: Number, Required: true,
			RequiredMessage: "Guest count must be a positive number"},
	})
	BindPosted(st, url.Values{"guest_count": {"forty"}})

	if v := st.Value("guest_count"); v != float64(0) {
		t.Errorf("bad number = %v, want 0 sentinel", v)
	}
	st.Validate()
	if got := st.FieldError("guest_count"); got != "Guest count must be a positive number" {
		t.Errorf("message = %q", got)
	}
}

// A tampered enum value falls back to the unselected state rather than
// erroring the bind.
func TestBindPostedTamperedEnum(t *testing.T) {
	st := MustNew([]FieldSpec{
		{Name: "event_type", Kind: Enum, Options: []string{"wedding"}, Required: true},
	})
	BindPosted(st, url.Values{"event_type": {"rave"}})

	if v := st.Value("event_type"); v != "" {
		t.Errorf("tampered enum = %v, want unselected", v)
	}
	st.Validate()
	if got := st.FieldError("event_type"); got != "This field is required" {
		t.Errorf("message = %q", got)
	}
}
