// internal/form/controller.go
//
// Curbside – Forms subsystem: submission controller.
//
// Context
//   The controller drives one form's save operation end to end: full-form
//   validation, mapping the field registry to the backend's wire shape, a
//   single network mutation, and folding the outcome back into form state.
//
// State machine
//   idle → validating → invalid (errors shown, back to idle)
//                     → pending → succeeded (reset, identity fields kept)
//                               → failed (submit banner, fields untouched)
//
//   Validation is synchronous; pending is the only suspension point.  While
//   pending, further Submit calls are no-ops and field writes are rejected,
//   so at most one mutation per form instance is ever in flight.  Failures
//   are terminal until the user resubmits; there is no automatic retry.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/curbsidehq/curbside-web/internal/metrics"
)

// Sender issues the backend mutation.  *api.Client satisfies it; tests plug
// in fakes without standing up HTTP.
type Sender interface {
	Send(ctx context.Context, method, path string, body any) (json.RawMessage, error)
}

// userMessenger is implemented by backend errors that carry a message safe to
// show the user (api.Error).  Transport errors do not, and fall back to the
// form's generic message.
type userMessenger interface {
	UserMessage() string
}

// Definition binds a field set to its backend save operation.
type Definition struct {
	Name     string      // metrics/log label, e.g. "catering/inquiry"
	Fields   []FieldSpec
	Method   string // POST or PUT
	Path     string // backend path, e.g. /v1/catering/inquiries
	Fallback string // shown when the backend supplies no message
	Preserve []string // identity fields kept through the post-success reset

	// Map converts a validated snapshot into the wire payload: field
	// renames, number coercion, and empty-string-to-null normalization all
	// happen here.  Nil maps the snapshot through unchanged.
	Map func(Snapshot) map[string]any
}

// NewState builds a fresh State for one render of this form.
func (d *Definition) NewState() (*State, error) { return New(d.Fields) }

// Outcome tags the result of one Submit call.
type Outcome int

const (
	OutcomeSkipped   Outcome = iota // a submission was already in flight
	OutcomeInvalid                  // validation failed; no network call
	OutcomeSucceeded
	OutcomeFailed
)

// Result is what one Submit call produced.  Payload is set on success,
// Message on failure, FirstInvalid on validation failure so the page can
// scroll to and focus the offending field.
type Result struct {
	Outcome      Outcome
	FirstInvalid string
	Payload      json.RawMessage
	Message      string
}

// Controller orchestrates Submit for one form instance.
type Controller struct {
	def    *Definition
	state  *State
	client Sender
	log    *zap.SugaredLogger
}

// NewController wires a definition, its live state, and the backend client.
func NewController(def *Definition, st *State, client Sender, log *zap.SugaredLogger) *Controller {
	if log == nil {
		log = zap.S()
	}
	return &Controller{def: def, state: st, client: client, log: log}
}

// State exposes the controller's form state to handlers and templates.
func (c *Controller) State() *State { return c.state }

// Submit runs the full save cycle described in the file header.
func (c *Controller) Submit(ctx context.Context) Result {
	snap, ok, inFlight := c.state.beginSubmit()
	if inFlight {
		return Result{Outcome: OutcomeSkipped}
	}
	if !ok {
		first := c.state.FirstInvalid()
		metrics.FormSubmissions.WithLabelValues(c.def.Name, "invalid").Inc()
		for field := range c.state.Errors() {
			metrics.FormValidationFailures.WithLabelValues(c.def.Name, field).Inc()
		}
		return Result{Outcome: OutcomeInvalid, FirstInvalid: first}
	}

	payload := map[string]any(snap)
	if c.def.Map != nil {
		payload = c.def.Map(snap)
	}

	raw, err := c.client.Send(ctx, c.def.Method, c.def.Path, payload)
	if err != nil {
		msg := c.def.Fallback
		var um userMessenger
		if errors.As(err, &um) && um.UserMessage() != "" {
			msg = um.UserMessage()
		}
		c.state.failSubmit(msg)
		c.log.Warnw("form submission failed",
			"form", c.def.Name, "error", err.Error())
		metrics.FormSubmissions.WithLabelValues(c.def.Name, "failed").Inc()
		return Result{Outcome: OutcomeFailed, Message: msg}
	}

	c.state.completeSubmit(c.def.Preserve)
	c.log.Infow("form submitted", "form", c.def.Name)
	metrics.FormSubmissions.WithLabelValues(c.def.Name, "succeeded").Inc()
	return Result{Outcome: OutcomeSucceeded, Payload: raw}
}
