// ABOUTME: Tests for the progress bar widget
// ABOUTME: Checks clamping and cell counts on unstyled output

package widgets

import (
	"strings"
	"testing"
)

func TestFilledCells(t *testing.T) {
	tests := []struct {
		percent float64
		want    int
	}{
		{-5, 0},
		{0, 0},
		{50, 5},
		{99, 9},
		{100, 10},
		{150, 10},
	}
	for _, tt := range tests {
		if got := filledCells(tt.percent, 10); got != tt.want {
			t.Errorf("filledCells(%v, 10) = %d, want %d", tt.percent, got, tt.want)
		}
	}
}

func TestProgressBar_Shape(t *testing.T) {
	bar := ProgressBar(50, ProgressBarConfig{Width: 10})
	if !strings.HasPrefix(bar, "[") || !strings.HasSuffix(bar, "]") {
		t.Errorf("expected bracketed bar, got %q", bar)
	}
	if strings.Count(bar, "█") != 5 || strings.Count(bar, "░") != 5 {
		t.Errorf("expected 5 filled and 5 empty cells, got %q", bar)
	}
}

func TestProgressBarWithLabel(t *testing.T) {
	out := ProgressBarWithLabel(120, DefaultProgressBarConfig())
	if !strings.HasSuffix(out, "100%") {
		t.Errorf("expected clamped label, got %q", out)
	}
}
