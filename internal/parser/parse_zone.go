package parser

import (
	"errors"
	"fmt"

	"github.com/yardtrack/yardmap/internal/geo"
	"github.com/yardtrack/yardmap/pkg/core"
)

// ErrEmptyZoneID is returned when a zone command carries no zone id
var ErrEmptyZoneID = errors.New("empty zone id")

// ParseZoneCreate parses name, color, top, left, width, height.
// The rectangle values are normalized to percentage strings; range checks
// are left to the store.
func (p *Parser) ParseZoneCreate(data []string) (ZoneCreate, error) {
	var zc ZoneCreate

	data, err := clean(data, 6)
	if err != nil {
		return zc, err
	}

	zc.Name = data[0]
	zc.Color = data[1]

	var vals [4]float64
	names := [4]string{"top", "left", "width", "height"}
	for i := range vals {
		v, err := geo.ParsePercent(data[2+i])
		if err != nil {
			return zc, fmt.Errorf("error parsing %s: %w", names[i], err)
		}
		vals[i] = v
	}
	zc.Position = geo.Bounds{Top: vals[0], Left: vals[1], Width: vals[2], Height: vals[3]}.Rect()

	if zc.Name == "" {
		p.logger.Warn("Zone created without a name", "position", zc.Position)
	}
	return zc, nil
}

// ParseZoneID parses a single zone id argument
func (p *Parser) ParseZoneID(data []string) (string, error) {
	data, err := clean(data, 1)
	if err != nil {
		return "", err
	}
	if data[0] == "" {
		return "", ErrEmptyZoneID
	}
	return data[0], nil
}

// ParseZoneRename parses id, name, color
func (p *Parser) ParseZoneRename(data []string) (ZoneRename, error) {
	var zr ZoneRename

	data, err := clean(data, 3)
	if err != nil {
		return zr, err
	}
	if data[0] == "" {
		return zr, ErrEmptyZoneID
	}
	zr.ZoneID = data[0]
	zr.Name = data[1]
	zr.Color = data[2]
	return zr, nil
}

// ParseZoneMove parses id, top, left
func (p *Parser) ParseZoneMove(data []string) (ZoneMove, error) {
	var zm ZoneMove

	data, err := clean(data, 3)
	if err != nil {
		return zm, err
	}
	if data[0] == "" {
		return zm, ErrEmptyZoneID
	}
	zm.ZoneID = data[0]

	if zm.Top, err = geo.ParsePercent(data[1]); err != nil {
		return zm, fmt.Errorf("error parsing top: %w", err)
	}
	if zm.Left, err = geo.ParsePercent(data[2]); err != nil {
		return zm, fmt.Errorf("error parsing left: %w", err)
	}
	return zm, nil
}

// ParseZoneResize parses id, width, height
func (p *Parser) ParseZoneResize(data []string) (ZoneResize, error) {
	var zr ZoneResize

	data, err := clean(data, 3)
	if err != nil {
		return zr, err
	}
	if data[0] == "" {
		return zr, ErrEmptyZoneID
	}
	zr.ZoneID = data[0]

	if zr.Width, err = geo.ParsePercent(data[1]); err != nil {
		return zr, fmt.Errorf("error parsing width: %w", err)
	}
	if zr.Height, err = geo.ParsePercent(data[2]); err != nil {
		return zr, fmt.Errorf("error parsing height: %w", err)
	}
	return zr, nil
}

// ParsePoint parses x, y in map percent
func (p *Parser) ParsePoint(data []string) (core.Point, error) {
	var pt core.Point

	data, err := clean(data, 2)
	if err != nil {
		return pt, err
	}
	if pt.X, err = geo.ParsePercent(data[0]); err != nil {
		return pt, fmt.Errorf("error parsing x: %w", err)
	}
	if pt.Y, err = geo.ParsePercent(data[1]); err != nil {
		return pt, fmt.Errorf("error parsing y: %w", err)
	}
	return pt, nil
}
