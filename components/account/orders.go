// components/account/orders.go
//
// Customer order history: a paginated, read-only list of the signed-in
// customer's past orders.
//
//------------------------------------------------------------------------------

package account

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/curbsidehq/curbside-web/internal/flash"
	"github.com/curbsidehq/curbside-web/internal/paginate"
	"github.com/curbsidehq/curbside-web/internal/session"
	"github.com/curbsidehq/curbside-web/internal/view"
)

// pastOrder mirrors one row of GET /v1/me/orders.
type pastOrder struct {
	Number     string  `json:"order_number"`
	Status     string  `json:"status"`
	Fulfilment string  `json:"fulfilment"`
	Total      float64 `json:"total"`
	PlacedAt   string  `json:"placed_at"`
}

type pastOrderList struct {
	Orders []pastOrder `json:"orders"`
	Total  int         `json:"total"`
}

func (c *Component) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	pg := paginate.FromQuery(r.URL.Query(), 0)
	q := url.Values{}
	q.Set("offset", fmt.Sprint(pg.Offset()))
	q.Set("limit", fmt.Sprint(pg.Limit()))

	var list pastOrderList
	err := c.backend.WithToken(sess.APIToken).
		Get(r.Context(), "/v1/me/orders?"+q.Encode(), &list)
	if err != nil {
		c.fail(w, err)
		return
	}
	pg = paginate.New(pg.Number, pg.PerPage, list.Total)

	data := map[string]any{
		"Orders": list.Orders,
		"Page":   pg,
		"Window": pg.Window(5),
		"Flash":  flash.Pop(w, r),
		"User":   sess,
	}
	if err := c.views.Render(w, "account", "orders", data, view.CacheSkip); err != nil {
		c.fail(w, err)
	}
}
