// components/admin/zones.go
//
// Delivery-zone configuration.  A zone is a named polygonal area with a fee
// and an order minimum; this screen lists existing zones and edits one at a
// time through a single form.
//
//------------------------------------------------------------------------------

package admin

import (
	"net/http"
	"strconv"

	"github.com/curbsidehq/curbside-web/internal/flash"
	"github.com/curbsidehq/curbside-web/internal/form"
)

// zoneForm edits one delivery zone.  The form keeps the historical field
// name minimum_order_value; the backend's wire name is
// minimum_order_delivery, so the rename happens in Map.
var zoneForm = form.Definition{
	Name:     "admin/zone",
	Method:   http.MethodPut,
	Path:     "/v1/admin/delivery-zones",
	Fallback: "Failed to save delivery zone",
	Map:      mapZone,
	Fields: []form.FieldSpec{
		{Name: "zone_id", Kind: form.Number},
		{Name: "name", Kind: form.Text, Required: true},
		{Name: "delivery_fee", Kind: form.Number, Required: true,
			RequiredMessage: "Delivery fee must be a positive number",
			Rules: []form.Rule{
				form.Positive("Delivery fee must be a positive number"),
			}},
		{Name: "minimum_order_value", Kind: form.Number, Required: true,
			RequiredMessage: "Minimum order must be a positive number",
			Rules: []form.Rule{
				form.Positive("Minimum order must be a positive number"),
			}},
		{Name: "postcodes", Kind: form.List, Required: true,
			RequiredMessage: "Add at least one postcode"},
		{Name: "active", Kind: form.Bool, Default: true},
	},
}

func mapZone(s form.Snapshot) map[string]any {
	out := map[string]any{
		"name":                   s.Text("name"),
		"delivery_fee":           s.Number("delivery_fee"),
		"minimum_order_delivery": s.Number("minimum_order_value"),
		"postcodes":              s.List("postcodes"),
		"active":                 s.Bool("active"),
	}
	if id := s.Number("zone_id"); id > 0 {
		out["zone_id"] = int(id)
	}
	return out
}

// zone mirrors one backend delivery-zone row.
type zone struct {
	ID                   int64    `json:"zone_id"`
	Name                 string   `json:"name"`
	DeliveryFee          float64  `json:"delivery_fee"`
	MinimumOrderDelivery float64  `json:"minimum_order_delivery"`
	Postcodes            []string `json:"postcodes"`
	Active               bool     `json:"active"`
}

func (c *Component) handleZonesGET(w http.ResponseWriter, r *http.Request) {
	var zones []zone
	if err := c.client(r).Get(r.Context(), "/v1/admin/delivery-zones", &zones); err != nil {
		c.fail(w, err)
		return
	}

	st, err := zoneForm.NewState()
	if err != nil {
		c.fail(w, err)
		return
	}

	// ?edit=<id> pre-loads a zone into the form.
	if id := r.URL.Query().Get("edit"); id != "" {
		want, _ := strconv.ParseInt(id, 10, 64)
		for _, z := range zones {
			if z.ID == want {
				_ = st.Set("zone_id", float64(z.ID))
				_ = st.Set("name", z.Name)
				_ = st.Set("delivery_fee", z.DeliveryFee)
				_ = st.Set("minimum_order_value", z.MinimumOrderDelivery)
				_ = st.Set("postcodes", z.Postcodes)
				_ = st.Set("active", z.Active)
				break
			}
		}
	}

	c.render(w, r, "zones", st, form.Result{}, map[string]any{"Zones": zones})
}

func (c *Component) handleZonesPOST(w http.ResponseWriter, r *http.Request) {
	st, res, err := form.HandleSubmit(&zoneForm, c.client(r), r)
	if err != nil {
		c.fail(w, err)
		return
	}
	if res.Outcome != form.OutcomeSucceeded {
		var zones []zone
		if err := c.client(r).Get(r.Context(), "/v1/admin/delivery-zones", &zones); err != nil {
			c.fail(w, err)
			return
		}
		c.render(w, r, "zones", st, res, map[string]any{"Zones": zones})
		return
	}
	flash.Succeed(w, "Delivery zone saved")
	http.Redirect(w, r, "/admin/zones", http.StatusSeeOther)
}

