// internal/chart/chart.go
//
// Curbside – inline SVG charts for the analytics dashboard.
//
// Context
//   The dashboard shows daily order counts and revenue per delivery zone.
//   Aggregates arrive from the backend already summed; this package only
//   scales them into simple bar and line charts emitted as inline SVG, so
//   pages need no client-side charting script.
//
//   Output is plain markup built from numeric values and escaped labels.
//   Callers wrap the result in template.HTML at the render boundary.
//
//------------------------------------------------------------------------------

package chart

import (
	"fmt"
	"html"
	"strings"
)

// Series pairs labels with values, index-aligned.
type Series struct {
	Labels []string
	Values []float64
}

// Max returns the largest value, or 0 for an empty series.
func (s Series) Max() float64 {
	var max float64
	for _, v := range s.Values {
		if v > max {
			max = v
		}
	}
	return max
}

// geometry shared by both chart kinds
const (
	padTop    = 10
	padBottom = 24 // label row
	padSide   = 8
)

// BarSVG renders the series as vertical bars.  Values scale against the
// series maximum; a zero-max series renders an empty frame rather than
// dividing by zero.
func BarSVG(s Series, width, height int) string {
	n := len(s.Values)
	var b strings.Builder
	openSVG(&b, width, height)

	if n > 0 && s.Max() > 0 {
		max := s.Max()
		plotH := float64(height - padTop - padBottom)
		slot := float64(width-2*padSide) / float64(n)
		barW := slot * 0.7

		for i, v := range s.Values {
			h := v / max * plotH
			x := float64(padSide) + slot*float64(i) + (slot-barW)/2
			y := float64(padTop) + plotH - h
			fmt.Fprintf(&b,
				`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" class="bar"/>`,
				x, y, barW, h)
			label(&b, s, i, x+barW/2, float64(height-6))
		}
	}

	b.WriteString(`</svg>`)
	return b.String()
}

// LineSVG renders the series as a polyline, suitable for the daily-orders
// trend.  Points are evenly spaced; the vertical axis scales to the max.
func LineSVG(s Series, width, height int) string {
	n := len(s.Values)
	var b strings.Builder
	openSVG(&b, width, height)

	if n > 1 && s.Max() > 0 {
		max := s.Max()
		plotH := float64(height - padTop - padBottom)
		step := float64(width-2*padSide) / float64(n-1)

		pts := make([]string, n)
		for i, v := range s.Values {
			x := float64(padSide) + step*float64(i)
			y := float64(padTop) + plotH - v/max*plotH
			pts[i] = fmt.Sprintf("%.1f,%.1f", x, y)
			label(&b, s, i, x, float64(height-6))
		}
		fmt.Fprintf(&b,
			`<polyline fill="none" class="line" points="%s"/>`,
			strings.Join(pts, " "))
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func openSVG(b *strings.Builder, width, height int) {
	fmt.Fprintf(b,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" `+
			`width="%d" height="%d" role="img">`,
		width, height, width, height)
}

// label emits the x-axis text for point i when a label exists.
func label(b *strings.Builder, s Series, i int, x, y float64) {
	if i >= len(s.Labels) || s.Labels[i] == "" {
		return
	}
	fmt.Fprintf(b,
		`<text x="%.1f" y="%.1f" text-anchor="middle" class="lbl">%s</text>`,
		x, y, html.EscapeString(s.Labels[i]))
}
