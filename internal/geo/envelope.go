package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/yardtrack/yardmap/pkg/core"
)

// Envelope converts zone bounds into a simplefeatures envelope.
// The map plane is used as is: X is left, Y is top.
func Envelope(b Bounds) (geom.Envelope, error) {
	return geom.NewEnvelope([]geom.XY{
		{X: b.Left, Y: b.Top},
		{X: b.Right(), Y: b.Bottom()},
	})
}

// Contains reports whether p lies inside b. Edges are inclusive.
// Bounds with non-finite values contain nothing.
func Contains(b Bounds, p core.Point) bool {
	env, err := Envelope(b)
	if err != nil {
		return false
	}
	return env.Contains(geom.XY{X: p.X, Y: p.Y})
}

// RectContains parses r and reports whether it contains p.
// A rectangle that cannot be parsed contains nothing.
func RectContains(r core.Rect, p core.Point) bool {
	b, err := ParseRect(r)
	if err != nil {
		return false
	}
	return Contains(b, p)
}
