// components/admin/admin.go
//
// Curbside admin component – staff tooling behind a session wall.
//
// Context
//   Four screens: delivery-zone management, the order list with filters and
//   CSV export, invoice detail, and the analytics dashboard.  All data
//   comes from the ordering backend with the staff member's bearer token;
//   nothing here touches the database beyond the session row.
//
// Style
//   One file per screen; this file owns the component shell and shared
//   helpers.
//
//------------------------------------------------------------------------------

package admin

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

// Component bundles the admin screens.
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
func (c *Component) Name() string { return "admin" }

// Routes builds the router mounted at "/admin".  Everything requires a
// session.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(c.sessions.Require)

	r.Get("/zones", c.handleZonesGET)
	r.Post("/zones", c.handleZonesPOST)

	r.Get("/orders", c.handleOrders)
	r.Get("/orders/export", c.handleOrdersExport)

	r.Get("/invoices/{number}", c.handleInvoice)

	r.Get("/analytics", c.handleAnalytics)
	return r
}

/*──────────────────────────────── helpers ──────────────────────────────────*/

// client returns the backend client bound to the signed-in staff member.
func (c *Component) client(r *http.Request) *api.Client {
	sess, _ := session.FromContext(r.Context())
	return c.backend.WithToken(sess.APIToken)
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, page string, st *form.State, res form.Result, extra map[string]any) {
	sess, _ := session.FromContext(r.Context())
	data := map[string]any{
		"Flash": flash.Pop(w, r),
		"User":  sess,
	}
	if st != nil {
		data["Form"] = st
		data["Errors"] = st.Errors()
		data["Focus"] = res.FirstInvalid
	}
	for k, v := range extra {
		data[k] = v
	}
	if err := c.views.Render(w, "admin", page, data, view.CacheSkip); err != nil {
		c.fail(w, err)
	}
}

func (c *Component) fail(w http.ResponseWriter, err error) {
	c.log.Errorw("admin page failed", "error", err.Error())
	http.Error(w, http.StatusText(http.StatusInternalServerError),
		http.StatusInternalServerError)
}
