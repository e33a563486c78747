package metrics

import "testing"

func TestFormatDelta(t *testing.T) {
	cases := []struct {
		baseline  float64
		candidate float64
		want      string
	}{
		{0, 5, NoData},
		{0, 0, NoData},
		{10, 6, "-40%"},
		{10, 15, "+50%"},
		{10, 10, "0%"},
		{200, 100, "-50%"},
	}
	for _, tc := range cases {
		if got := FormatDelta(tc.baseline, tc.candidate); got != tc.want {
			t.Fatalf("FormatDelta(%v, %v) = %q, want %q", tc.baseline, tc.candidate, got, tc.want)
		}
	}
}

func TestSparklineEmpty(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestSparklineConstant(t *testing.T) {
	if got := Sparkline([]int64{7, 7, 7, 7}); got != "▄▄▄▄" {
		t.Fatalf("expected midpoint runes, got %q", got)
	}
}

func TestSparklineRamp(t *testing.T) {
	got := Sparkline([]int64{0, 50, 100})
	runes := []rune(got)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %q", got)
	}
	if runes[0] != ' ' {
		t.Fatalf("expected minimum to render blank, got %q", runes[0])
	}
	if runes[2] != '█' {
		t.Fatalf("expected maximum to render full block, got %q", runes[2])
	}
}

func TestSparklineMonotone(t *testing.T) {
	got := []rune(Sparkline([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9}))
	for i := 1; i < len(got); i++ {
		prev := sparkIndex(got[i-1])
		cur := sparkIndex(got[i])
		if cur < prev {
			t.Fatalf("sparkline not monotone: %q", string(got))
		}
	}
}

func sparkIndex(r rune) int {
	for i, candidate := range sparkRamp {
		if candidate == r {
			return i
		}
	}
	return -1
}
