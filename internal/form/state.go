// internal/form/state.go
//
// Curbside – Forms subsystem: form state (field registry + error registry).
//
// Context
//   State aggregates one form instance's current field values, its per-field
//   error messages, and its submission status.  It is owned by exactly one
//   request/view at a time; the mutex only guards against the submit path
//   racing a stray concurrent write, not shared use across views.
//
// Workflow
//   •  New() applies declared defaults and verifies the spec set is sane.
//   •  Set() enforces the field's type and optimistically clears that field's
//      error; errors are only reasserted on Blur (single field) or Validate
//      (whole form).  The two speeds are deliberate: clearing on every edit
//      keeps typing pleasant, while revalidating only at blur/submit avoids
//      flickering messages under the cursor.
//   •  Validate() runs every field's chain and swaps the error registry in
//      one step, so a half-validated registry is never observable.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"sync"
)

// SubmitErrorKey is the error-registry key for form-level submission
// failures.  It never collides with a field because field names are
// validated against it at construction.
const SubmitErrorKey = "submit"

// Status is the submission arm of the form lifecycle.  The terminal outcomes
// of a submit attempt travel on Result; Status itself settles back to
// StatusIdle after either outcome so the form is immediately reusable.
type Status int

const (
	StatusIdle    Status = iota
	StatusPending        // exactly one network call outstanding
)

// State is one live form instance.
type State struct {
	mu     sync.Mutex
	specs  []FieldSpec
	index  map[string]int // name → position in specs
	values map[string]any
	errors map[string]string
	status Status
}

// New builds a State from the given field specs with defaults applied.
func New(specs []FieldSpec) (*State, error) {
	st := &State{
		specs:  specs,
		index:  make(map[string]int, len(specs)),
		values: make(map[string]any, len(specs)),
		errors: make(map[string]string),
	}

	for i := range specs {
		f := &specs[i]
		if f.Name == "" {
			return nil, fmt.Errorf("form: field %d has no name", i)
		}
		if f.Name == SubmitErrorKey {
			return nil, fmt.Errorf("form: %q is a reserved field name", f.Name)
		}
		if _, dup := st.index[f.Name]; dup {
			return nil, fmt.Errorf("form: duplicate field %q", f.Name)
		}
		st.index[f.Name] = i

		def := f.Default
		if def == nil && !f.Nullable {
			def = f.zero()
		}
		v, err := f.coerce(def)
		if err != nil {
			return nil, fmt.Errorf("form: bad default: %w", err)
		}
		st.values[f.Name] = v
	}
	return st, nil
}

// MustNew is New for package-level form definitions whose specs are static.
func MustNew(specs []FieldSpec) *State {
	st, err := New(specs)
	if err != nil {
		panic(err)
	}
	return st
}

// -----------------------------------------------------------------------------
// Field access
// -----------------------------------------------------------------------------

// Set replaces a field's value after enforcing its declared type.  Any active
// error on that field is cleared immediately, before revalidation has run.
// Writes are rejected while a submission is in flight.
func (s *State) Set(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusPending {
		return fmt.Errorf("form: %q is read-only while submitting", name)
	}

	i, ok := s.index[name]
	if !ok {
		return fmt.Errorf("form: unknown field %q", name)
	}
	cv, err := s.specs[i].coerce(v)
	if err != nil {
		return err
	}
	s.values[name] = cv
	delete(s.errors, name)
	return nil
}

// Value returns the current value of a field, or nil for unknown names.
func (s *State) Value(name string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[name]
}

// Snapshot copies every field value for rule evaluation or payload mapping.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	snap := make(Snapshot, len(s.values))
	for k, v := range s.values {
		snap[k] = v
	}
	return snap
}

// Reset returns every field to its default except the named identity fields,
// which keep their current values (e.g. contact details pre-filled from the
// signed-in customer).  All errors clear and status returns to idle.
func (s *State) Reset(preserve ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keep := make(map[string]bool, len(preserve))
	for _, p := range preserve {
		keep[p] = true
	}

	for i := range s.specs {
		f := &s.specs[i]
		if keep[f.Name] {
			continue
		}
		def := f.Default
		if def == nil && !f.Nullable {
			def = f.zero()
		}
		v, _ := f.coerce(def) // validated at construction
		s.values[f.Name] = v
	}
	s.errors = make(map[string]string)
	s.status = StatusIdle
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

// Blur revalidates a single field, reasserting its error if it fails.  This
// is the pessimistic half of the edit/blur duality described above.
func (s *State) Blur(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[name]
	if !ok {
		return
	}
	snap := s.snapshotLocked()
	if msg := s.check(&s.specs[i], snap); msg != "" {
		s.errors[name] = msg
	} else {
		delete(s.errors, name)
	}
}

// Validate runs every field's chain against one snapshot and replaces the
// error registry atomically.  It returns true when the form is clean.  The
// form-level submit error, if present, survives untouched.
func (s *State) Validate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *State) validateLocked() bool {
	snap := s.snapshotLocked()
	next := make(map[string]string)

	for i := range s.specs {
		f := &s.specs[i]
		if msg := s.check(f, snap); msg != "" {
			next[f.Name] = msg
		}
	}
	if prev, ok := s.errors[SubmitErrorKey]; ok {
		next[SubmitErrorKey] = prev
	}
	s.errors = next
	return countFieldErrors(next) == 0
}

func countFieldErrors(m map[string]string) int {
	n := 0
	for k := range m {
		if k != SubmitErrorKey {
			n++
		}
	}
	return n
}

// check evaluates one field: the required gate first, then the rule chain in
// declaration order, first failure wins.  Optional blank fields pass without
// running format rules, except rules that are themselves conditional
// (RequiredIf), which must always see the value.
func (s *State) check(f *FieldSpec, snap Snapshot) string {
	v := snap[f.Name]

	if f.Required && f.blank(v) {
		return f.requiredMsg()
	}
	if !f.Required && f.blank(v) && !f.AlwaysValidate {
		return ""
	}
	for _, r := range f.Rules {
		if msg := r(v, snap); msg != "" {
			return msg
		}
	}
	return ""
}

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

// Errors returns a copy of the error registry.
func (s *State) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// FieldError returns the current message for one field, or "".
func (s *State) FieldError(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors[name]
}

// FirstInvalid returns the declaration-order first errored field so the page
// can scroll to and focus it.  "" when clean.
func (s *State) FirstInvalid() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.specs {
		if _, bad := s.errors[s.specs[i].Name]; bad {
			return s.specs[i].Name
		}
	}
	return ""
}

// Status returns the submission status.
func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// -----------------------------------------------------------------------------
// Submission hooks (used by Controller)
// -----------------------------------------------------------------------------

// beginSubmit validates and, when clean, flips to pending in one critical
// section so two overlapping submits can never both reach the network.  The
// Snapshot returned was taken under the same lock the validation used.
func (s *State) beginSubmit() (snap Snapshot, ok, alreadyPending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusPending {
		return nil, false, true
	}
	delete(s.errors, SubmitErrorKey)
	if !s.validateLocked() {
		return nil, false, false
	}
	s.status = StatusPending
	return s.snapshotLocked(), true, false
}

// failSubmit records the form-level message and returns to idle with every
// field value untouched, so the user can correct and resubmit.
func (s *State) failSubmit(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[SubmitErrorKey] = msg
	s.status = StatusIdle
}

// completeSubmit resets to defaults (keeping identity fields) after a 2xx.
// Reset also settles status back to idle.
func (s *State) completeSubmit(preserve []string) {
	s.Reset(preserve...)
}
