// components/admin/analytics.go
//
// Analytics dashboard.  Three backend aggregates render side by side: the
// daily order trend, revenue per delivery zone, and top menu items.  The
// fetches are independent, so they run in parallel; one failure fails the
// page rather than rendering partial numbers.
//
//------------------------------------------------------------------------------

package admin

import (
	"html/template"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/curbsidehq/curbside-web/internal/chart"
	"github.com/curbsidehq/curbside-web/internal/form"
)

// seriesPoint is one label/value pair in a backend aggregate.
type seriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// rangeQuery clamps the dashboard window to the presets the backend
// understands.
func rangeQuery(r *http.Request) string {
	switch v := r.URL.Query().Get("range"); v {
	case "7d", "30d", "90d":
		return v
	default:
		return "30d"
	}
}

func toSeries(pts []seriesPoint) chart.Series {
	s := chart.Series{
		Labels: make([]string, len(pts)),
		Values: make([]float64, len(pts)),
	}
	for i, p := range pts {
		s.Labels[i] = p.Label
		s.Values[i] = p.Value
	}
	return s
}

func (c *Component) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	client := c.client(r)
	window := rangeQuery(r)

	var daily, byZone, topItems []seriesPoint

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		return client.Get(ctx, "/v1/admin/analytics/orders-daily?range="+window, &daily)
	})
	g.Go(func() error {
		return client.Get(ctx, "/v1/admin/analytics/revenue-by-zone?range="+window, &byZone)
	})
	g.Go(func() error {
		return client.Get(ctx, "/v1/admin/analytics/top-items?range="+window, &topItems)
	})
	if err := g.Wait(); err != nil {
		c.fail(w, err)
		return
	}

	c.render(w, r, "analytics", nil, form.Result{}, map[string]any{
		"Range":        window,
		"OrdersChart":  template.HTML(chart.LineSVG(toSeries(daily), 640, 220)),
		"RevenueChart": template.HTML(chart.BarSVG(toSeries(byZone), 640, 220)),
		"TopItems":     topItems,
	})
}
