// internal/form/field.go
//
// Curbside – Forms subsystem: typed field model and field registry.
//
// Context
//   Every Curbside page that accepts input (catering inquiry, staff login,
//   profile editing, delivery-zone configuration) is backed by the same form
//   machinery.  A form instance owns a flat registry of named, typed fields.
//   The registry enforces each field's declared type on every write, so
//   downstream code (rules, payload mapping, templates) never needs to guess
//   what a value holds.
//
// Workflow
//   •  FieldSpec declares one field: name, kind, required flag, enum options,
//      default value, and an ordered rule chain.
//   •  coerce() converts an incoming value into the field's canonical runtime
//      type, rejecting anything that does not fit.
//   •  BindPosted() converts raw url.Values from an HTML POST into typed
//      writes, mirroring how browsers actually submit each control.
//
// Style
//   Comments follow the Curbside guide: full sentences, two spaces after
//   periods, Oxford commas.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// -----------------------------------------------------------------------------
// Field kinds
// -----------------------------------------------------------------------------

// Kind enumerates the runtime types a field may hold.
type Kind int

const (
	Text   Kind = iota // string
	Number             // float64
	Bool               // bool
	Enum               // string drawn from a closed option set
	List               // []string
)

// String returns the lowercase kind name for logs and error messages.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Enum:
		return "enum"
	case List:
		return "list"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Field specification
// -----------------------------------------------------------------------------

// FieldSpec describes a single input slot on a form.
//
// Rules run in declaration order and short-circuit on the first failure.  The
// required check, when enabled, always runs before the rule chain, so a blank
// required field reports the required message rather than a format message.
type FieldSpec struct {
	Name     string
	Kind     Kind
	Nullable bool     // nil is a legal stored value
	Options  []string // closed set for Enum fields
	Default  any      // applied at construction and on Reset
	Required bool
	RequiredMessage string // defaults to "This field is required"
	Rules    []Rule

	// AlwaysValidate runs the rule chain even when an optional field is
	// blank.  Needed by conditionally required fields, whose rules must see
	// the empty value to decide.
	AlwaysValidate bool
}

// requiredMsg returns the message shown when a required field is blank.
func (f *FieldSpec) requiredMsg() string {
	if f.RequiredMessage != "" {
		return f.RequiredMessage
	}
	return "This field is required"
}

// zero returns the kind's zero value, used when no Default is declared.
func (f *FieldSpec) zero() any {
	switch f.Kind {
	case Number:
		return float64(0)
	case Bool:
		return false
	case List:
		return []string(nil)
	default:
		return ""
	}
}

// coerce converts v into the field's canonical runtime type.
//
// Numbers accept any Go numeric type and collapse non-finite input to 0, so a
// later positivity rule reports it as invalid rather than the registry
// rejecting the write.  Enum values must belong to the closed option set; the
// empty string is always admissible so enums can start unselected.
func (f *FieldSpec) coerce(v any) (any, error) {
	if v == nil {
		if !f.Nullable {
			return nil, fmt.Errorf("field %q is not nullable", f.Name)
		}
		return nil, nil
	}

	switch f.Kind {
	case Text:
		s, ok := v.(string)
		if !ok {
			return nil, typeErr(f, v)
		}
		return s, nil

	case Number:
		n, ok := asFloat(v)
		if !ok {
			return nil, typeErr(f, v)
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			n = 0
		}
		return n, nil

	case Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, typeErr(f, v)
		}
		return b, nil

	case Enum:
		s, ok := v.(string)
		if !ok {
			return nil, typeErr(f, v)
		}
		if s != "" && !optionAllowed(f.Options, s) {
			return nil, fmt.Errorf("field %q: %q is not an allowed option", f.Name, s)
		}
		return s, nil

	case List:
		switch xs := v.(type) {
		case []string:
			return append([]string(nil), xs...), nil
		case string:
			// A lone string is a one-element list; browsers post single
			// checked boxes this way.
			return []string{xs}, nil
		default:
			return nil, typeErr(f, v)
		}
	}
	return nil, fmt.Errorf("field %q: unsupported kind %v", f.Name, f.Kind)
}

func typeErr(f *FieldSpec, v any) error {
	return fmt.Errorf("field %q expects %s, got %T", f.Name, f.Kind, v)
}

// asFloat widens the usual numeric types into float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func optionAllowed(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}

// blank reports whether v counts as "not provided" for the required check.
// Numbers at or below zero are blank, matching how required numeric inputs
// (guest counts, fees) are judged across the product.
func (f *FieldSpec) blank(v any) bool {
	if v == nil {
		return true
	}
	switch f.Kind {
	case Text, Enum:
		return strings.TrimSpace(v.(string)) == ""
	case Number:
		return v.(float64) <= 0
	case Bool:
		return !v.(bool)
	case List:
		return len(v.([]string)) == 0
	}
	return false
}

// -----------------------------------------------------------------------------
// Snapshot
// -----------------------------------------------------------------------------

// Snapshot is a read-only copy of every field value at one instant.  Rules
// receive a Snapshot so cross-field checks (password confirmation,
// conditional requirements) see a consistent view.
type Snapshot map[string]any

// Text returns the field as a string, or "" when unset or differently typed.
func (s Snapshot) Text(name string) string {
	v, _ := s[name].(string)
	return v
}

// Number returns the field as a float64, or 0 when unset.
func (s Snapshot) Number(name string) float64 {
	v, _ := s[name].(float64)
	return v
}

// Bool returns the field as a bool, or false when unset.
func (s Snapshot) Bool(name string) bool {
	v, _ := s[name].(bool)
	return v
}

// List returns the field as a string slice, or nil when unset.
func (s Snapshot) List(name string) []string {
	v, _ := s[name].([]string)
	return v
}

// -----------------------------------------------------------------------------
// POST binding
// -----------------------------------------------------------------------------

// BindPosted writes raw url.Values from an HTML form POST into st, converting
// each value to the field's kind.  Unchecked checkboxes are absent from the
// post body, so Bool fields default to false when missing.  Conversion
// failures are swallowed per field; the subsequent validation pass reports
// them with a user-facing message instead.
func BindPosted(st *State, posted url.Values) {
	for _, f := range st.specs {
		raw, present := posted[f.Name]

		switch f.Kind {
		case Bool:
			_ = st.Set(f.Name, present && raw[0] != "" && raw[0] != "false")
		case List:
			if present {
				_ = st.Set(f.Name, append([]string(nil), raw...))
			}
		case Number:
			if !present || raw[0] == "" {
				continue
			}
			n, err := strconv.ParseFloat(strings.TrimSpace(raw[0]), 64)
			if err != nil {
				n = 0 // sentinel; positivity rules surface the real message
			}
			_ = st.Set(f.Name, n)
		default:
			if !present {
				continue
			}
			if err := st.Set(f.Name, raw[0]); err != nil {
				// Out-of-set enum values from a tampered POST fall back to
				// the unselected state and fail the required check.
				_ = st.Set(f.Name, "")
			}
		}
	}
}
