// components/admin/orders.go
//
// Order management: a filtered, paginated list over the backend's order
// index, plus a CSV export of the current filter.  Filter state round-trips
// through the query string so page links and the export share it.
//
//------------------------------------------------------------------------------

package admin

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/curbsidehq/curbside-web/internal/export"
	"github.com/curbsidehq/curbside-web/internal/form"
	"github.com/curbsidehq/curbside-web/internal/paginate"
)

// order mirrors one row of GET /v1/admin/orders.
type order struct {
	ID         int64   `json:"order_id"`
	Number     string  `json:"order_number"`
	Customer   string  `json:"customer_name"`
	Status     string  `json:"status"`
	Fulfilment string  `json:"fulfilment"` // pickup or delivery
	Total      float64 `json:"total"`
	PlacedAt   string  `json:"placed_at"`
	InvoiceNum string  `json:"invoice_number"`
}

// orderList is the backend's paginated envelope.
type orderList struct {
	Orders []order `json:"orders"`
	Total  int     `json:"total"`
}

// orderStatuses drives the status filter dropdown.
var orderStatuses = []string{"pending", "confirmed", "preparing", "ready", "delivered", "cancelled"}

// fetchOrders relays the filter and page window to the backend.
func (c *Component) fetchOrders(r *http.Request, pg paginate.Page) (*orderList, error) {
	q := url.Values{}
	q.Set("offset", fmt.Sprint(pg.Offset()))
	q.Set("limit", fmt.Sprint(pg.Limit()))
	for _, k := range []string{"status", "fulfilment", "from", "to", "q"} {
		if v := r.URL.Query().Get(k); v != "" {
			q.Set(k, v)
		}
	}

	var list orderList
	err := c.client(r).Get(r.Context(), "/v1/admin/orders?"+q.Encode(), &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Component) handleOrders(w http.ResponseWriter, r *http.Request) {
	// First pass uses total 0; the backend reply carries the real count, so
	// re-clamp before rendering the pager.
	pg := paginate.FromQuery(r.URL.Query(), 0)
	list, err := c.fetchOrders(r, pg)
	if err != nil {
		c.fail(w, err)
		return
	}
	pg = paginate.New(pg.Number, pg.PerPage, list.Total)

	c.render(w, r, "orders", nil, form.Result{}, map[string]any{
		"Orders":   list.Orders,
		"Page":     pg,
		"Window":   pg.Window(7),
		"Query":    r.URL.Query(),
		"Statuses": orderStatuses,
	})
}

// handleOrdersExport streams the current filter as CSV.  The export ignores
// pagination and pulls every matching row, capped by the backend.
func (c *Component) handleOrdersExport(w http.ResponseWriter, r *http.Request) {
	pg := paginate.New(1, 10000, 0)
	list, err := c.fetchOrders(r, pg)
	if err != nil {
		c.fail(w, err)
		return
	}

	t := export.Table{
		Header: []string{"Order", "Customer", "Status", "Fulfilment", "Total", "Placed", "Invoice"},
	}
	for _, o := range list.Orders {
		t.Rows = append(t.Rows, []string{
			o.Number, o.Customer, o.Status, o.Fulfilment,
			fmt.Sprintf("%.2f", o.Total), o.PlacedAt, o.InvoiceNum,
		})
	}
	if err := export.ServeCSV(w, "orders", t); err != nil {
		c.log.Errorw("order export failed", "error", err.Error())
	}
}
