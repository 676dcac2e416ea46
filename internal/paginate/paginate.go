// internal/paginate/paginate.go
//
// Curbside – pagination math for admin list views.
//
// Context
//   Order management and invoice lists page through backend result sets.
//   The backend reports a total row count; this package turns (page,
//   per-page, total) into offsets, bounds, and the numbered window the
//   pager control renders.  It also round-trips the state through URL query
//   parameters so filters and the current page survive navigation.
//
//------------------------------------------------------------------------------

package paginate

import (
	"net/url"
	"strconv"
)

// DefaultPerPage matches the backend's list endpoints.
const DefaultPerPage = 25

// Page is one resolved pagination state.  Construct with New or FromQuery;
// both clamp out-of-range input instead of erroring.
type Page struct {
	Number  int // 1-based current page
	PerPage int
	Total   int // total rows across all pages
}

// New clamps and returns a Page.  Zero or negative per-page falls back to
// the default.  With a positive total the page number is clamped into
// [1, Pages()]; with total 0 the count is not yet known (handlers fetch
// first, then re-clamp with the backend's reported total), so the requested
// number is kept and only the lower bound applies.
func New(number, perPage, total int) Page {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}
	p := Page{Number: number, PerPage: perPage, Total: total}
	if p.Number < 1 {
		p.Number = 1
	}
	if last := p.Pages(); p.Total > 0 && p.Number > last {
		p.Number = last
	}
	return p
}

// FromQuery reads `page` and `per_page` from q, clamped against total.
func FromQuery(q url.Values, total int) Page {
	number, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return New(number, perPage, total)
}

// Pages returns the number of pages, never less than 1.
func (p Page) Pages() int {
	if p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// Offset is the index of the first row on this page.
func (p Page) Offset() int { return (p.Number - 1) * p.PerPage }

// Limit is the row budget for this page.
func (p Page) Limit() int { return p.PerPage }

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a further page exists.
func (p Page) HasNext() bool { return p.Number < p.Pages() }

// Window returns up to width page numbers centred on the current page,
// shifted to stay inside [1, Pages()].  The pager renders these as links.
func (p Page) Window(width int) []int {
	if width < 1 {
		width = 1
	}
	last := p.Pages()
	if width > last {
		width = last
	}

	start := p.Number - width/2
	if start < 1 {
		start = 1
	}
	if start+width-1 > last {
		start = last - width + 1
	}

	out := make([]int, width)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// Query returns a copy of q with this page's parameters applied, preserving
// every filter already present.  Use it to build pager links.
func (p Page) Query(q url.Values) url.Values {
	out := url.Values{}
	for k, vs := range q {
		out[k] = append([]string(nil), vs...)
	}
	out.Set("page", strconv.Itoa(p.Number))
	out.Set("per_page", strconv.Itoa(p.PerPage))
	return out
}
