// components/auth/auth.go
//
// Curbside auth component – login, logout, password reset, and email
// verification.
//
// Context
//   Credentials are never checked here.  Login posts to the ordering
//   backend, which returns the user identity and a bearer token; the web
//   tier stores both in a session row and hands the browser an opaque
//   cookie.  Password reset is likewise backend-driven: request mints a
//   token and emails it, confirm consumes it.
//
// Workflow
//   GET  /auth/login           – render the login form.
//   POST /auth/login           – authenticate against the backend, create
//                                the session, redirect to ?next= or /.
//   POST /auth/logout          – delete the session row, clear the cookie.
//   GET/POST /auth/reset       – request a reset email.
//   GET/POST /auth/reset/confirm – set the new password with the token.
//   GET  /auth/verify          – email-verification landing page.
//
//------------------------------------------------------------------------------

package auth

import (
	"encoding/json"
	"net/http"
	"strings"

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

// Component bundles the auth pages and their collaborators.
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
func (c *Component) Name() string { return "auth" }

// Routes builds the router mounted at "/auth".
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/login", c.handleLoginGET)
	r.Post("/login", c.handleLoginPOST)
	r.Post("/logout", c.handleLogout)
	r.Get("/reset", c.handleResetGET)
	r.Post("/reset", c.handleResetPOST)
	r.Get("/reset/confirm", c.handleConfirmGET)
	r.Post("/reset/confirm", c.handleConfirmPOST)
	r.Get("/verify", c.handleVerify)
	return r
}

/*──────────────────────────── form definitions ─────────────────────────────*/

var loginForm = form.Definition{
	Name:     "auth/login",
	Method:   http.MethodPost,
	Path:     "/v1/auth/login",
	Fallback: "Invalid email or password",
	Fields: []form.FieldSpec{
		{Name: "email", Kind: form.Text, Required: true,
			Rules: []form.Rule{form.Email()}},
		{Name: "password", Kind: form.Text, Required: true},
	},
}

var resetRequestForm = form.Definition{
	Name:     "auth/reset-request",
	Method:   http.MethodPost,
	Path:     "/v1/auth/password-reset",
	Fallback: "Failed to send reset email",
	Fields: []form.FieldSpec{
		{Name: "email", Kind: form.Text, Required: true,
			Rules: []form.Rule{form.Email()}},
	},
}

var resetConfirmForm = form.Definition{
	Name:     "auth/reset-confirm",
	Method:   http.MethodPost,
	Path:     "/v1/auth/password-reset/confirm",
	Fallback: "Failed to reset password",
	Map:      mapResetConfirm,
	Fields: []form.FieldSpec{
		{Name: "token", Kind: form.Text, Required: true,
			RequiredMessage: "Reset link is invalid or has expired"},
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

// mapResetConfirm drops the confirmation copy; the backend only wants the
// token and the new secret.
func mapResetConfirm(s form.Snapshot) map[string]any {
	return map[string]any{
		"token":        s.Text("token"),
		"new_password": s.Text("new_password"),
	}
}

// loginResponse is the backend's answer to a successful credential check.
type loginResponse struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

/*──────────────────────────────── login ────────────────────────────────────*/

func (c *Component) handleLoginGET(w http.ResponseWriter, r *http.Request) {
	st, err := loginForm.NewState()
	if err != nil {
		c.fail(w, err)
		return
	}
	c.render(w, r, "login", st, form.Result{}, map[string]any{
		"Next": safeNext(r.URL.Query().Get("next")),
	})
}

func (c *Component) handleLoginPOST(w http.ResponseWriter, r *http.Request) {
	st, res, err := form.HandleSubmit(&loginForm, c.backend, r)
	if err != nil {
		c.fail(w, err)
		return
	}
	if res.Outcome != form.OutcomeSucceeded {
		c.render(w, r, "login", st, res, map[string]any{
			"Next": safeNext(r.PostFormValue("next")),
		})
		return
	}

	var lr loginResponse
	if err := json.Unmarshal(res.Payload, &lr); err != nil || lr.Token == "" {
		c.fail(w, err)
		return
	}
	sess, err := c.sessions.Create(r.Context(), lr.UserID, lr.Email, lr.Name, lr.Token)
	if err != nil {
		c.fail(w, err)
		return
	}
	c.sessions.Issue(w, r, sess)

	http.Redirect(w, r, safeNext(r.PostFormValue("next")), http.StatusSeeOther)
}

func (c *Component) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, err := c.sessions.FromRequest(r.Context(), r); err == nil {
		if err := c.sessions.Delete(r.Context(), sess.ID); err != nil {
			c.log.Warnw("session delete failed", "error", err.Error())
		}
	}
	c.sessions.Clear(w)
	flash.Succeed(w, "You have been signed out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

/*───────────────────────────── password reset ──────────────────────────────*/

func (c *Component) handleResetGET(w http.ResponseWriter, r *http.Request) {
	st, err := resetRequestForm.NewState()
	if err != nil {
		c.fail(w, err)
		return
	}
	c.render(w, r, "reset", st, form.Result{}, nil)
}

func (c *Component) handleResetPOST(w http.ResponseWriter, r *http.Request) {
	st, res, err := form.HandleSubmit(&resetRequestForm, c.backend, r)
	if err != nil {
		c.fail(w, err)
		return
	}
	if res.Outcome != form.OutcomeSucceeded {
		c.render(w, r, "reset", st, res, nil)
		return
	}
	// Same answer whether or not the address exists; no account probing.
	flash.Succeed(w, "If that address has an account, a reset link is on its way")
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (c *Component) handleConfirmGET(w http.ResponseWriter, r *http.Request) {
	st, err := resetConfirmForm.NewState()
	if err != nil {
		c.fail(w, err)
		return
	}
	_ = st.Set("token", r.URL.Query().Get("token"))
	c.render(w, r, "reset_confirm", st, form.Result{}, nil)
}

func (c *Component) handleConfirmPOST(w http.ResponseWriter, r *http.Request) {
	st, res, err := form.HandleSubmit(&resetConfirmForm, c.backend, r)
	if err != nil {
		c.fail(w, err)
		return
	}
	if res.Outcome != form.OutcomeSucceeded {
		c.render(w, r, "reset_confirm", st, res, nil)
		return
	}
	flash.Succeed(w, "Password updated.  You can sign in now.")
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

/*──────────────────────────── email verification ───────────────────────────*/

// handleVerify consumes the token from a verification email and shows the
// outcome.  No form here, the token rides the link.
func (c *Component) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	data := map[string]any{"Verified": false}

	if token != "" {
		err := c.backend.Post(r.Context(), "/v1/auth/verify-email",
			map[string]any{"token": token}, nil)
		if err != nil {
			c.log.Warnw("email verification failed", "error", err.Error())
		} else {
			data["Verified"] = true
		}
	}

	if err := c.views.Render(w, "auth", "verify", data, view.CacheSkip); err != nil {
		c.fail(w, err)
	}
}

/*──────────────────────────────── helpers ──────────────────────────────────*/

// safeNext allows only same-site relative targets for the post-login
// redirect, defaulting to the home page.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, page string, st *form.State, res form.Result, extra map[string]any) {
	data := map[string]any{
		"Form":   st,
		"Errors": st.Errors(),
		"Focus":  res.FirstInvalid,
		"Flash":  flash.Pop(w, r),
	}
	for k, v := range extra {
		data[k] = v
	}
	if err := c.views.Render(w, "auth", page, data, view.CacheSkip); err != nil {
		c.fail(w, err)
	}
}

func (c *Component) fail(w http.ResponseWriter, err error) {
	if err != nil {
		c.log.Errorw("auth page failed", "error", err.Error())
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError),
		http.StatusInternalServerError)
}
