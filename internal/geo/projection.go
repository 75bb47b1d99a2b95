package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/yardtrack/yardmap/pkg/core"
	"github.com/wroge/wgs84"
)

// GEO-REFERENCED YARD
// Beacons and motorcycles may report GPS fixes. The yard map is pinned to the world by
// its north-west corner and its size on the ground; fixes go through EPSG:3857 and are
// then scaled linearly into map percent. Web mercator stretches distances by 1/cos(lat),
// which is constant enough over a yard to correct once at the origin.

var (
	// ErrOutsideYard is returned when a GPS fix falls outside the yard map
	ErrOutsideYard = errors.New("position outside yard")
	// ErrInvalidYard is returned when the yard geo-reference is unusable
	ErrInvalidYard = errors.New("invalid yard geo-reference")
)

// Coords3857From4326 transforms a longitude/latitude pair into web mercator meters
func Coords3857From4326(longitude, latitude float64) (x, y float64) {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ = f(longitude, latitude, 0)
	return x, y
}

// Coords4326From3857 transforms web mercator meters back into longitude/latitude
func Coords4326From3857(x, y float64) (longitude, latitude float64) {
	epsg := wgs84.EPSG()
	f := epsg.Transform(3857, 4326)
	longitude, latitude, _ = f(x, y, 0)
	return longitude, latitude
}

// Projector maps GPS fixes onto the yard map
type Projector struct {
	originX float64
	originY float64
	spanX   float64 // mercator meters across the map
	spanY   float64 // mercator meters down the map
}

// NewProjector builds a projector for a yard whose north-west corner is at
// originLon/originLat and which spans widthMeters east and heightMeters south.
func NewProjector(originLon, originLat, widthMeters, heightMeters float64) (*Projector, error) {
	if widthMeters <= 0 || heightMeters <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %vx%v", ErrInvalidYard, widthMeters, heightMeters)
	}
	if originLat <= -85 || originLat >= 85 || originLon < -180 || originLon > 180 {
		return nil, fmt.Errorf("%w: origin %v,%v", ErrInvalidYard, originLon, originLat)
	}

	ox, oy := Coords3857From4326(originLon, originLat)
	scale := 1 / math.Cos(originLat*math.Pi/180)

	return &Projector{
		originX: ox,
		originY: oy,
		spanX:   widthMeters * scale,
		spanY:   heightMeters * scale,
	}, nil
}

// Project converts a GPS fix to a map point. When the fix is outside the
// yard the unclamped point is returned together with ErrOutsideYard.
func (p *Projector) Project(longitude, latitude float64) (core.Point, error) {
	x, y := Coords3857From4326(longitude, latitude)

	pt := core.Point{
		X: (x - p.originX) / p.spanX * 100,
		Y: (p.originY - y) / p.spanY * 100,
	}
	if pt.X < 0 || pt.X > 100 || pt.Y < 0 || pt.Y > 100 {
		return pt, fmt.Errorf("%w: %v,%v", ErrOutsideYard, longitude, latitude)
	}
	return pt, nil
}

// Unproject converts a map point back to a GPS fix
func (p *Projector) Unproject(pt core.Point) (longitude, latitude float64) {
	x := p.originX + pt.X/100*p.spanX
	y := p.originY - pt.Y/100*p.spanY
	return Coords4326From3857(x, y)
}
