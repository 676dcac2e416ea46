// components/catering/catering.go
//
// Curbside catering component – customer inquiry flow.
//
// Context
//   The catering inquiry is the largest public form in the product: contact
//   details, event logistics, dietary requirements, and budget.  Submissions
//   post to the ordering backend; the page never stores anything locally.
//   Signed-in customers get their contact fields pre-filled from the
//   backend profile, and those fields survive the post-success reset so a
//   repeat inquiry starts half-done.
//
//------------------------------------------------------------------------------

package catering

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/curbsidehq/curbside-web/internal/api"
	"github.com/curbsidehq/curbside-web/internal/component"
	"github.com/curbsidehq/curbside-web/internal/flash"
	"github.com/curbsidehq/curbside-web/internal/form"
	"github.com/curbsidehq/curbside-web/internal/session"
	"github.com/curbsidehq/curbside-web/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates the catering inquiry pages.
type Component struct {
	backend  *api.Client
	views    *view.Engine
	sessions *session.Store
	log      *zap.SugaredLogger
}

// New wires the component's collaborators.
func New(backend *api.Client, views *view.Engine, sessions *session.Store, log *zap.SugaredLogger) *Component {
	return &Component{backend: backend, views: views, sessions: sessions, log: log}
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "catering" }

// Routes builds the router mounted at "/catering".
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handleInquiryGET)
	r.Post("/", c.handleInquiryPOST)
	return r
}

/*──────────────────────────── form definition ──────────────────────────────*/

// eventTypes is the closed set the backend accepts; "other" opens the
// free-text field.
var eventTypes = []string{"birthday", "wedding", "corporate", "festival", "private", "other"}

// inquiryForm is shared by GET (render) and POST (validate + submit).
var inquiryForm = form.Definition{
	Name:     "catering/inquiry",
	Method:   http.MethodPost,
	Path:     "/v1/catering/inquiries",
	Fallback: "Failed to submit inquiry",
	Preserve: []string{"contact_name", "contact_email", "contact_phone"},
	Map:      mapInquiry,
	Fields: []form.FieldSpec{
		{Name: "contact_name", Kind: form.Text, Required: true},
		{Name: "contact_email", Kind: form.Text, Required: true,
			Rules: []form.Rule{form.Email()}},
		{Name: "contact_phone", Kind: form.Text, Required: true,
			Rules: []form.Rule{form.Phone()}},
		{Name: "event_type", Kind: form.Enum, Options: eventTypes, Required: true},
		{Name: "event_type_other", Kind: form.Text, AlwaysValidate: true,
			Rules: []form.Rule{
				form.RequiredIf("event_type", "other", "Please specify the event type"),
			}},
		{Name: "event_date", Kind: form.Text, Required: true,
			Rules: []form.Rule{form.LeadTime(7, "Event date")}},
		{Name: "event_time", Kind: form.Text, Required: true,
			Rules: []form.Rule{form.TimeOfDay()}},
		{Name: "guest_count", Kind: form.Number, Required: true,
			RequiredMessage: "Guest count must be a positive number",
			Rules: []form.Rule{
				form.Positive("Guest count must be a positive number"),
			}},
		{Name: "location", Kind: form.Text, Required: true},
		{Name: "dietary_requirements", Kind: form.List},
		{Name: "budget", Kind: form.Number},
		{Name: "notes", Kind: form.Text},
	},
}

// mapInquiry shapes the validated snapshot for the backend: integer guest
// counts, normalized times, and nulls for the optional empties.
func mapInquiry(s form.Snapshot) map[string]any {
	return map[string]any{
		"contact_name":         s.Text("contact_name"),
		"contact_email":        s.Text("contact_email"),
		"contact_phone":        s.Text("contact_phone"),
		"event_type":           s.Text("event_type"),
		"event_type_other":     nullIfEmpty(s.Text("event_type_other")),
		"event_date":           s.Text("event_date"),
		"event_time":           form.NormalizeTime(s.Text("event_time")),
		"guest_count":          int(s.Number("guest_count")),
		"location":             s.Text("location"),
		"dietary_requirements": s.List("dietary_requirements"),
		"budget":               nullIfZero(s.Number("budget")),
		"notes":                nullIfEmpty(s.Text("notes")),
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n float64) any {
	if n <= 0 {
		return nil
	}
	return n
}

// inquiryReceipt is the slice of the backend response the confirmation
// banner needs; everything else in the body is ignored.
type inquiryReceipt struct {
	InquiryID     int64  `json:"inquiry_id"`
	InquiryNumber string `json:"inquiry_number"`
	Status        string `json:"status"`
	SubmittedAt   string `json:"submitted_at"`
}

/*──────────────────────────────── handlers ─────────────────────────────────*/

func (c *Component) handleInquiryGET(w http.ResponseWriter, r *http.Request) {
	st, err := inquiryForm.NewState()
	if err != nil {
		c.fail(w, err)
		return
	}
	c.prefillContact(r.Context(), r, st)

	c.render(w, r, st, nil, "")
}

func (c *Component) handleInquiryPOST(w http.ResponseWriter, r *http.Request) {
	st, res, err := form.HandleSubmit(&inquiryForm, c.client(r), r)
	if err != nil {
		c.fail(w, err)
		return
	}

	switch res.Outcome {
	case form.OutcomeSucceeded:
		var receipt inquiryReceipt
		_ = json.Unmarshal(res.Payload, &receipt)
		// Identity fields survived the reset; everything else is fresh.
		c.prefillContact(r.Context(), r, st)
		c.render(w, r, st, &receipt, "")
	default:
		c.render(w, r, st, nil, res.FirstInvalid)
	}
}

/*──────────────────────────────── helpers ──────────────────────────────────*/

// client picks the session's bearer token when the visitor is signed in,
// falling back to the service credential for anonymous inquiries.
func (c *Component) client(r *http.Request) *api.Client {
	if sess, err := c.sessions.FromRequest(r.Context(), r); err == nil {
		return c.backend.WithToken(sess.APIToken)
	}
	return c.backend
}

// profile is the slice of GET /v1/me used to pre-fill contact fields.
type profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// prefillContact copies the signed-in customer's identity into the contact
// fields, leaving them untouched for anonymous visitors.
func (c *Component) prefillContact(ctx context.Context, r *http.Request, st *form.State) {
	sess, err := c.sessions.FromRequest(ctx, r)
	if err != nil {
		return
	}
	var me profile
	if err := c.backend.WithToken(sess.APIToken).Get(ctx, "/v1/me", &me); err != nil {
		c.log.Warnw("profile prefill failed", "error", err.Error())
		return
	}
	if cur, _ := st.Value("contact_name").(string); cur == "" {
		_ = st.Set("contact_name", me.Name)
	}
	if cur, _ := st.Value("contact_email").(string); cur == "" {
		_ = st.Set("contact_email", me.Email)
	}
	if cur, _ := st.Value("contact_phone").(string); cur == "" {
		_ = st.Set("contact_phone", me.Phone)
	}
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, st *form.State, receipt *inquiryReceipt, focus string) {
	data := map[string]any{
		"Form":    st,
		"Errors":  st.Errors(),
		"Focus":   focus, // first invalid field; the page scrolls to it
		"Receipt": receipt,
		"Flash":   flash.Pop(w, r),
	}
	if err := c.views.Render(w, "catering", "inquiry", data, view.CacheSkip); err != nil {
		c.fail(w, err)
	}
}

func (c *Component) fail(w http.ResponseWriter, err error) {
	c.log.Errorw("catering page failed", "error", err.Error())
	http.Error(w, http.StatusText(http.StatusInternalServerError),
		http.StatusInternalServerError)
}
