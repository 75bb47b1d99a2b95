package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/yardtrack/yardmap/pkg/core"
)

func TestParsePercent_WithSuffix(t *testing.T) {
	v, err := ParsePercent("12.5%")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 12.5 {
		t.Errorf("expected 12.5, got %f", v)
	}
}

func TestParsePercent_WithoutSuffix(t *testing.T) {
	v, err := ParsePercent(" 40 ")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 40 {
		t.Errorf("expected 40, got %f", v)
	}
}

func TestParsePercent_Invalid(t *testing.T) {
	for _, input := range []string{"", "%", "abc%", "NaN%", "Inf"} {
		_, err := ParsePercent(input)

		if err == nil {
			t.Fatalf("expected error for %q", input)
		}
		if !errors.Is(err, ErrInvalidPercent) {
			t.Errorf("expected ErrInvalidPercent for %q, got %v", input, err)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := map[float64]string{
		0:        "0%",
		50:       "50%",
		12.5:     "12.5%",
		33.33333: "33.33%",
		-0.001:   "0%",
	}
	for in, want := range tests {
		if got := FormatPercent(in); got != want {
			t.Errorf("FormatPercent(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateRect_Valid(t *testing.T) {
	b, err := ValidateRect(core.Rect{Top: "10%", Left: "20%", Width: "80%", Height: "90%"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Right() != 100 || b.Bottom() != 100 {
		t.Errorf("expected right/bottom 100, got %f/%f", b.Right(), b.Bottom())
	}
}

func TestValidateRect_RoundingAtEdge(t *testing.T) {
	_, err := ValidateRect(core.Rect{Top: "0%", Left: "33.33%", Width: "66.67%", Height: "100%"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRect_RoundedEdgeOverflow(t *testing.T) {
	// 0.005 rounds up to 0.01 and 99.995 up to 100
	_, err := ValidateRect(core.Rect{Top: "0.005%", Left: "0%", Width: "10%", Height: "99.995%"})

	if !errors.Is(err, ErrInvalidRect) {
		t.Errorf("expected ErrInvalidRect, got %v", err)
	}
}

func TestValidateRect_ReturnsRounded(t *testing.T) {
	b, err := ValidateRect(core.Rect{Top: "10.004%", Left: "0%", Width: "10%", Height: "20%"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Top != 10 {
		t.Errorf("expected top rounded to 10, got %f", b.Top)
	}
}

func TestValidateRect_Invalid(t *testing.T) {
	tests := []struct {
		name string
		rect core.Rect
	}{
		{"negative top", core.Rect{Top: "-1%", Left: "0%", Width: "10%", Height: "10%"}},
		{"over 100", core.Rect{Top: "0%", Left: "0%", Width: "101%", Height: "10%"}},
		{"overflow right", core.Rect{Top: "0%", Left: "60%", Width: "50%", Height: "10%"}},
		{"overflow bottom", core.Rect{Top: "95%", Left: "0%", Width: "10%", Height: "10%"}},
		{"zero width", core.Rect{Top: "0%", Left: "0%", Width: "0%", Height: "10%"}},
		{"unparseable", core.Rect{Top: "x", Left: "0%", Width: "10%", Height: "10%"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRect(tt.rect)
			if !errors.Is(err, ErrInvalidRect) {
				t.Errorf("expected ErrInvalidRect, got %v", err)
			}
		})
	}
}

func TestBounds_RectRoundTrip(t *testing.T) {
	b := Bounds{Top: 5, Left: 10.25, Width: 20, Height: 30.5}

	got, err := ParseRect(b.Rect())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != b {
		t.Errorf("expected %+v, got %+v", b, got)
	}
}

func TestClampMove(t *testing.T) {
	b := Bounds{Top: 0, Left: 0, Width: 30, Height: 40}

	moved := ClampMove(b, 80, -5)

	if moved.Top != 60 {
		t.Errorf("expected top clamped to 60, got %f", moved.Top)
	}
	if moved.Left != 0 {
		t.Errorf("expected left clamped to 0, got %f", moved.Left)
	}
	if moved.Width != 30 || moved.Height != 40 {
		t.Errorf("move must not change size, got %fx%f", moved.Width, moved.Height)
	}
}

func TestClampResize(t *testing.T) {
	b := Bounds{Top: 50, Left: 70, Width: 10, Height: 10}

	resized := ClampResize(b, 50, 0)

	if resized.Width != 30 {
		t.Errorf("expected width clamped to 30, got %f", resized.Width)
	}
	if resized.Height != MinZoneSize {
		t.Errorf("expected height clamped to %f, got %f", MinZoneSize, resized.Height)
	}
	if err := ValidateBounds(resized); err != nil {
		t.Errorf("clamped bounds should be valid: %v", err)
	}
}

func TestClampResize_SmallZoneAtEdge(t *testing.T) {
	b := Bounds{Top: 10, Left: 99.5, Width: 0.5, Height: 10}

	resized := ClampResize(b, 0.5, 10)

	if resized.Width != 0.5 {
		t.Errorf("expected width 0.5, got %f", resized.Width)
	}
	if err := ValidateBounds(resized); err != nil {
		t.Errorf("resized bounds should be valid: %v", err)
	}
}

func TestContains_NonFinite(t *testing.T) {
	b := Bounds{Top: 0, Left: 0, Width: math.Inf(1), Height: 10}

	if Contains(b, core.Point{X: 1, Y: 1}) {
		t.Error("non-finite bounds should contain nothing")
	}
}

func TestContains(t *testing.T) {
	b := Bounds{Top: 0, Left: 0, Width: 50, Height: 50}

	tests := []struct {
		name string
		p    core.Point
		want bool
	}{
		{"inside", core.Point{X: 25, Y: 25}, true},
		{"top-left corner", core.Point{X: 0, Y: 0}, true},
		{"right edge", core.Point{X: 50, Y: 10}, true},
		{"outside right", core.Point{X: 50.01, Y: 10}, false},
		{"outside below", core.Point{X: 10, Y: 75}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(b, tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectContains_Unparseable(t *testing.T) {
	if RectContains(core.Rect{Top: "bad"}, core.Point{}) {
		t.Error("unparseable rect should contain nothing")
	}
}
