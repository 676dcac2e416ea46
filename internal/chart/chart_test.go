// internal/chart/chart_test.go

package chart

import (
	"strings"
	"testing"
)

func TestSeriesMax(t *testing.T) {
	if got := (Series{}).Max(); got != 0 {
		t.Errorf("empty series max = %v", got)
	}
	s := Series{Values: []float64{3, 9, 1}}
	if got := s.Max(); got != 9 {
		t.Errorf("max = %v, want 9", got)
	}
}

func TestBarSVG(t *testing.T) {
	s := Series{
		Labels: []string{"Mon", "Tue", "Wed"},
		Values: []float64{5, 10, 2},
	}
	out := BarSVG(s, 300, 120)

	if !strings.HasPrefix(out, `<svg `) || !strings.HasSuffix(out, `</svg>`) {
		t.Errorf("not a closed svg: %q", out)
	}
	if got := strings.Count(out, "<rect "); got != 3 {
		t.Errorf("bars = %d, want 3", got)
	}
	for _, lbl := range s.Labels {
		if !strings.Contains(out, ">"+lbl+"<") {
			t.Errorf("label %q missing", lbl)
		}
	}
}

func TestLineSVG(t *testing.T) {
	s := Series{Values: []float64{1, 4, 2, 8}}
	out := LineSVG(s, 300, 120)
	if !strings.Contains(out, "<polyline ") {
		t.Errorf("polyline missing: %q", out)
	}
	if got := strings.Count(out, ","); got < 4 {
		t.Errorf("expected 4 points, got %q", out)
	}
}

// Degenerate inputs render an empty frame instead of dividing by zero.
func TestEmptyAndZeroSeries(t *testing.T) {
	for _, s := range []Series{
		{},
		{Labels: []string{"a"}, Values: []float64{0}},
	} {
		out := BarSVG(s, 300, 120)
		if strings.Contains(out, "<rect ") {
			t.Errorf("zero series drew bars: %q", out)
		}
		out = LineSVG(s, 300, 120)
		if strings.Contains(out, "<polyline ") {
			t.Errorf("zero series drew a line: %q", out)
		}
	}
}

func TestLabelsEscaped(t *testing.T) {
	s := Series{Labels: []string{`<b>&`}, Values: []float64{1, 2}}
	out := LineSVG(s, 300, 120)
	if strings.Contains(out, "<b>") {
		t.Errorf("label not escaped: %q", out)
	}
}
