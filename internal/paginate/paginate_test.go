// internal/paginate/paginate_test.go

package paginate

import (
	"net/url"
	"reflect"
	"testing"
)

func TestNewClamps(t *testing.T) {
	cases := []struct {
		number, perPage, total int
		wantNumber, wantPages  int
	}{
		{1, 25, 100, 1, 4},
		{0, 25, 100, 1, 4},    // below range
		{99, 25, 100, 4, 4},   // beyond last page
		{2, 0, 10, 1, 1},      // per-page falls back to default
		{1, 25, 0, 1, 1},      // empty result set still has one page
		{3, 10, 25, 3, 3},
	}
	for _, c := range cases {
		p := New(c.number, c.perPage, c.total)
		if p.Number != c.wantNumber || p.Pages() != c.wantPages {
			t.Errorf("New(%d,%d,%d) = page %d of %d, want %d of %d",
				c.number, c.perPage, c.total, p.Number, p.Pages(),
				c.wantNumber, c.wantPages)
		}
	}
}

func TestOffsetAndBounds(t *testing.T) {
	p := New(3, 10, 100)
	if p.Offset() != 20 {
		t.Errorf("Offset = %d, want 20", p.Offset())
	}
	if !p.HasPrev() || !p.HasNext() {
		t.Error("middle page should have both neighbours")
	}

	first := New(1, 10, 100)
	if first.HasPrev() {
		t.Error("first page has no previous")
	}
	last := New(10, 10, 100)
	if last.HasNext() {
		t.Error("last page has no next")
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		page  Page
		width int
		want  []int
	}{
		{New(5, 10, 100), 5, []int{3, 4, 5, 6, 7}},
		{New(1, 10, 100), 5, []int{1, 2, 3, 4, 5}},   // shifted right
		{New(10, 10, 100), 5, []int{6, 7, 8, 9, 10}}, // shifted left
		{New(1, 10, 20), 5, []int{1, 2}},             // width capped at Pages
	}
	for _, c := range cases {
		if got := c.page.Window(c.width); !reflect.DeepEqual(got, c.want) {
			t.Errorf("page %d Window(%d) = %v, want %v",
				c.page.Number, c.width, got, c.want)
		}
	}
}

func TestQueryPreservesFilters(t *testing.T) {
	q := url.Values{"status": {"pending"}, "q": {"ana"}}
	p := New(2, 25, 100)

	out := p.Query(q)
	if out.Get("status") != "pending" || out.Get("q") != "ana" {
		t.Errorf("filters lost: %v", out)
	}
	if out.Get("page") != "2" || out.Get("per_page") != "25" {
		t.Errorf("page state missing: %v", out)
	}
	if q.Get("page") != "" {
		t.Error("input values mutated")
	}
}

func TestFromQuery(t *testing.T) {
	q := url.Values{"page": {"3"}, "per_page": {"10"}}
	p := FromQuery(q, 25)
	if p.Number != 3 || p.PerPage != 10 || p.Pages() != 3 {
		t.Errorf("FromQuery = %+v", p)
	}

	p = FromQuery(url.Values{"page": {"junk"}}, 25)
	if p.Number != 1 || p.PerPage != DefaultPerPage {
		t.Errorf("junk input = %+v, want defaults", p)
	}
}

// The list handlers read the query before the backend reports a total, then
// re-clamp with the real count.  The requested page must survive the first
// pass so the fetch carries the right offset.
func TestFromQueryBeforeTotalKnown(t *testing.T) {
	q := url.Values{"page": {"3"}, "per_page": {"25"}}

	p := FromQuery(q, 0)
	if p.Number != 3 {
		t.Fatalf("page = %d before the total is known, want 3", p.Number)
	}
	if p.Offset() != 50 {
		t.Errorf("Offset = %d, want 50", p.Offset())
	}

	// Re-clamp once the backend answers: an in-range page is kept, an
	// out-of-range one collapses to the last page.
	p = New(p.Number, p.PerPage, 60)
	if p.Number != 3 || p.Pages() != 3 {
		t.Errorf("re-clamped to page %d of %d, want 3 of 3", p.Number, p.Pages())
	}
	p = New(9, 25, 60)
	if p.Number != 3 {
		t.Errorf("out-of-range page re-clamped to %d, want 3", p.Number)
	}
}
