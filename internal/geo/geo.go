package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yardtrack/yardmap/pkg/core"
)

// MAP PERCENTAGES
// Zone rectangles and marker points share one plane: percent of the yard map on both axes.
// Rect values travel as strings ("12.5%") because that is what the map layer renders.

const (
	// MinZoneSize is the smallest width or height a zone can be resized to, in percent
	MinZoneSize = 1.0

	epsilon = 1e-9
)

var (
	// ErrInvalidPercent is returned when a percentage string cannot be parsed
	ErrInvalidPercent = errors.New("invalid percentage")
	// ErrInvalidRect is returned when a zone rectangle does not fit the map
	ErrInvalidRect = errors.New("invalid zone rectangle")
)

// Bounds is a parsed zone rectangle in percent
type Bounds struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Right returns the right edge of the rectangle
func (b Bounds) Right() float64 {
	return b.Left + b.Width
}

// Bottom returns the bottom edge of the rectangle
func (b Bounds) Bottom() float64 {
	return b.Top + b.Height
}

// Rect formats the bounds back into percentage strings
func (b Bounds) Rect() core.Rect {
	return core.Rect{
		Top:    FormatPercent(b.Top),
		Left:   FormatPercent(b.Left),
		Width:  FormatPercent(b.Width),
		Height: FormatPercent(b.Height),
	}
}

// Rounded returns b with every value rounded the way Rect formats it
func (b Bounds) Rounded() Bounds {
	return Bounds{
		Top:    roundPercent(b.Top),
		Left:   roundPercent(b.Left),
		Width:  roundPercent(b.Width),
		Height: roundPercent(b.Height),
	}
}

// ParsePercent parses "12.5%" or "12.5" into 12.5
func ParsePercent(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "%"))
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidPercent)
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPercent, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPercent, s)
	}
	return v, nil
}

// FormatPercent renders v rounded to two decimals with a trailing "%"
func FormatPercent(v float64) string {
	return strconv.FormatFloat(roundPercent(v), 'f', -1, 64) + "%"
}

func roundPercent(v float64) float64 {
	rounded := math.Round(v*100) / 100
	if rounded == 0 {
		// avoid "-0%"
		rounded = 0
	}
	return rounded
}

// ParseRect parses all four values of a zone rectangle.
// It does not check that the rectangle fits the map, see ValidateRect.
func ParseRect(r core.Rect) (Bounds, error) {
	var b Bounds
	var err error
	if b.Top, err = ParsePercent(r.Top); err != nil {
		return Bounds{}, fmt.Errorf("top: %w", err)
	}
	if b.Left, err = ParsePercent(r.Left); err != nil {
		return Bounds{}, fmt.Errorf("left: %w", err)
	}
	if b.Width, err = ParsePercent(r.Width); err != nil {
		return Bounds{}, fmt.Errorf("width: %w", err)
	}
	if b.Height, err = ParsePercent(r.Height); err != nil {
		return Bounds{}, fmt.Errorf("height: %w", err)
	}
	return b, nil
}

// ValidateBounds checks that every value is within 0..100, the size is
// non-zero and the rectangle does not overflow the right or bottom edge.
func ValidateBounds(b Bounds) error {
	values := []struct {
		name string
		v    float64
	}{{"top", b.Top}, {"left", b.Left}, {"width", b.Width}, {"height", b.Height}}
	for _, f := range values {
		if f.v < 0 || f.v > 100+epsilon {
			return fmt.Errorf("%w: %s %v out of range 0..100", ErrInvalidRect, f.name, f.v)
		}
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: zero size", ErrInvalidRect)
	}
	if b.Right() > 100+epsilon {
		return fmt.Errorf("%w: left+width %v exceeds 100", ErrInvalidRect, b.Right())
	}
	if b.Bottom() > 100+epsilon {
		return fmt.Errorf("%w: top+height %v exceeds 100", ErrInvalidRect, b.Bottom())
	}
	return nil
}

// ValidateRect parses a zone rectangle and validates it as it will be
// stored, rounded to two decimals.
func ValidateRect(r core.Rect) (Bounds, error) {
	b, err := ParseRect(r)
	if err != nil {
		return Bounds{}, fmt.Errorf("%w: %v", ErrInvalidRect, err)
	}
	b = b.Rounded()
	if err := ValidateBounds(b); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

// ClampMove moves b to top/left, keeping the whole rectangle inside the map
func ClampMove(b Bounds, top, left float64) Bounds {
	b.Top = clamp(top, 0, 100-b.Height)
	b.Left = clamp(left, 0, 100-b.Width)
	return b
}

// ClampResize resizes b to width/height, anchored at its top-left corner.
// The size never crosses the map edge and never drops below MinZoneSize,
// or below the room left to the edge when that is smaller.
func ClampResize(b Bounds, width, height float64) Bounds {
	b.Width = clamp(width, math.Min(MinZoneSize, 100-b.Left), 100-b.Left)
	b.Height = clamp(height, math.Min(MinZoneSize, 100-b.Top), 100-b.Top)
	return b
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(hi, v))
}
