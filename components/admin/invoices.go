// components/admin/invoices.go
//
// Invoice detail: a read-only view of one invoice with its line items,
// addressed by the invoice number in the path.
//
//------------------------------------------------------------------------------

package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/curbsidehq/curbside-web/internal/api"
	"github.com/curbsidehq/curbside-web/internal/form"
)

// invoice mirrors GET /v1/admin/invoices/{number}.
type invoice struct {
	Number    string        `json:"invoice_number"`
	OrderNum  string        `json:"order_number"`
	Customer  string        `json:"customer_name"`
	Status    string        `json:"status"`
	IssuedAt  string        `json:"issued_at"`
	DueAt     string        `json:"due_at"`
	Subtotal  float64       `json:"subtotal"`
	Tax       float64       `json:"tax"`
	Total     float64       `json:"total"`
	LineItems []invoiceLine `json:"line_items"`
}

type invoiceLine struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

func (c *Component) handleInvoice(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	var inv invoice
	err := c.client(r).Get(r.Context(), "/v1/admin/invoices/"+number, &inv)
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		c.fail(w, err)
		return
	}

	c.render(w, r, "invoice", nil, form.Result{}, map[string]any{"Invoice": inv})
}
