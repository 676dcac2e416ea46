// internal/form/submit.go
//
// Curbside – Forms subsystem: consolidated submit helper.
//
// Context
//   Most POST handlers want one call that: parses the body, verifies CSRF,
//   binds posted values into a fresh State, and drives the Controller.
//   HandleSubmit provides that convenience so component code stays terse.
//   The returned State is always usable for re-rendering, whatever the
//   outcome.
//
//------------------------------------------------------------------------------

package form

import "net/http"

// csrfFailureMsg is a form-level failure so the user sees the banner path,
// not a bare 403.
const csrfFailureMsg = "Security token invalid.  Please refresh and try again."

// HandleSubmit parses r, verifies the CSRF token, binds the posted fields,
// and submits through client.  The error return covers body-parse problems
// only; validation and backend failures travel on Result.
func HandleSubmit(def *Definition, client Sender, r *http.Request) (*State, Result, error) {
	if err := r.ParseForm(); err != nil {
		return nil, Result{}, err
	}

	st, err := def.NewState()
	if err != nil {
		return nil, Result{}, err
	}
	BindPosted(st, r.PostForm)

	// CSRF precedes validation: a stale token fails before any field-level
	// message could distract from the real problem.
	if !VerifyToken(r.PostForm.Get("csrf_token")) {
		st.failSubmit(csrfFailureMsg)
		return st, Result{Outcome: OutcomeFailed, Message: csrfFailureMsg}, nil
	}

	ctrl := NewController(def, st, client, nil)
	return st, ctrl.Submit(r.Context()), nil
}
