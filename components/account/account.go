// components/account/account.go
//
// Curbside account component – profile and password pages for a signed-in
// user.
//
// Context
//   Profile data lives in the ordering backend; these pages are a thin edit
//   surface over GET/PUT /v1/me.  The password form never sees the stored
//   hash, it just relays current and new secrets and lets the backend
//   decide.  A strength meter runs on the new password as typed, purely
//   advisory; the hard minimums are enforced by the validators.
//
//------------------------------------------------------------------------------

package account

import (
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

var _ component.Component = (*Component)(nil)

// Component bundles the account pages.
type Component struct {
	backend  *api.Client
	views    *view.Engine
	sessions *session.Store
	log      *zap.SugaredLogger
}

// New wires the component.
func New(backend *api.Client, views *view.Engine, sessions *session.Store, log *zap.SugaredLogger) *Component {
	return &Component{backend: backend, views: views, sessions: sessions, log: log}
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "account" }

// Routes builds the router mounted at "/account".  The whole tree requires
// a session.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(c.sessions.Require)
	r.Get("/", c.handleProfileGET)
	r.Post("/", c.handleProfilePOST)
	r.Get("/password", c.handlePasswordGET)
	r.Post("/password", c.handlePasswordPOST)
	r.Get("/orders", c.handleOrderHistory)
	return r
}

/*──────────────────────────── form definitions ─────────────────────────────*/

var profileForm = form.Definition{
	Name:     "account/profile",
	Method:   http.MethodPut,
	Path:     "/v1/me",
	Fallback: "Failed to update profile",
	Preserve: []string{"name", "email", "phone"},
	Fields: []form.FieldSpec{
		{Name: "name", Kind: form.Text, Required: true},
		{Name: "email", Kind: form.Text, Required: true,
			Rules: []form.Rule{form.Email()}},
		{Name: "phone", Kind: form.Text, Required: true,
			Rules: []form.Rule{form.Phone()}},
		{Name: "marketing_opt_in", Kind: form.Bool},
	},
}

var passwordForm = form.Definition{
	Name:     "account/password",
	Method:   http.MethodPost,
	Path:     "/v1/me/password",
	Fallback: "Failed to change password",
	Map:      mapPassword,
	Fields: []form.FieldSpec{
		{Name: "current_password", Kind: form.Text, Required: true},
		{Name: "new_password", Kind: form.Text, Required: true,
			Rules: []form.Rule{
				form.MinLength(8, "Password must be at least 8 characters"),
				form.LettersAndDigits("Password must contain letters and numbers"),
			}},
		{Name: "confirm_password", Kind: form.Text, Required: true,
			Rules: []form.Rule{
				form.EqualTo("new_password", "Passwords do not match"),
			}},
	},
}

func mapPassword(s form.Snapshot) map[string]any {
	return map[string]any{
		"current_password": s.Text("current_password"),
		"new_password":     s.Text("new_password"),
	}
}

// profile mirrors the editable slice of GET /v1/me.
type profile struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	MarketingOptIn bool   `json:"marketing_opt_in"`
}

/*──────────────────────────────── profile ──────────────────────────────────*/

func (c *Component) handleProfileGET(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	st, err := profileForm.NewState()
	if err != nil {
		c.fail(w, err)
		return
	}

	var me profile
	if err := c.backend.WithToken(sess.APIToken).Get(r.Context(), "/v1/me", &me); err != nil {
		c.fail(w, err)
		return
	}
	_ = st.Set("name", me.Name)
	_ = st.Set("email", me.Email)
	_ = st.Set("phone", me.Phone)
	_ = st.Set("marketing_opt_in", me.MarketingOptIn)

	c.render(w, r, "profile", st, form.Result{})
}

func (c *Component) handleProfilePOST(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	st, res, err := form.HandleSubmit(&profileForm, c.backend.WithToken(sess.APIToken), r)
	if err != nil {
		c.fail(w, err)
		return
	}
	if res.Outcome != form.OutcomeSucceeded {
		c.render(w, r, "profile", st, res)
		return
	}
	flash.Succeed(w, "Profile updated")
	http.Redirect(w, r, "/account", http.StatusSeeOther)
}

/*──────────────────────────────── password ─────────────────────────────────*/

func (c *Component) handlePasswordGET(w http.ResponseWriter, r *http.Request) {
	st, err := passwordForm.NewState()
	if err != nil {
		c.fail(w, err)
		return
	}
	c.render(w, r, "password", st, form.Result{})
}

func (c *Component) handlePasswordPOST(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	st, res, err := form.HandleSubmit(&passwordForm, c.backend.WithToken(sess.APIToken), r)
	if err != nil {
		c.fail(w, err)
		return
	}
	if res.Outcome != form.OutcomeSucceeded {
		c.render(w, r, "password", st, res)
		return
	}
	flash.Succeed(w, "Password changed")
	http.Redirect(w, r, "/account", http.StatusSeeOther)
}

/*──────────────────────────────── helpers ──────────────────────────────────*/

func (c *Component) render(w http.ResponseWriter, r *http.Request, page string, st *form.State, res form.Result) {
	sess, _ := session.FromContext(r.Context())
	data := map[string]any{
		"Form":   st,
		"Errors": st.Errors(),
		"Focus":  res.FirstInvalid,
		"Flash":  flash.Pop(w, r),
		"User":   sess,
	}
	if err := c.views.Render(w, "account", page, data, view.CacheSkip); err != nil {
		c.fail(w, err)
	}
}

func (c *Component) fail(w http.ResponseWriter, err error) {
	c.log.Errorw("account page failed", "error", err.Error())
	http.Error(w, http.StatusText(http.StatusInternalServerError),
		http.StatusInternalServerError)
}
