package parser

import (
	"errors"
	"fmt"

	"github.com/yardtrack/yardmap/internal/geo"
	"github.com/yardtrack/yardmap/pkg/core"
)

// ErrInvalidMarkerType is returned for marker types other than beacon and motorcycle
var ErrInvalidMarkerType = errors.New("invalid marker type")

func parseMarkerKey(typ, id string) (core.MarkerKey, error) {
	var key core.MarkerKey

	key.Type = core.MarkerType(typ)
	if !key.Type.Valid() {
		return key, fmt.Errorf("%w: %q", ErrInvalidMarkerType, typ)
	}

	n, err := parseIntFromFloat(id)
	if err != nil {
		return key, fmt.Errorf("error parsing marker id: %w", err)
	}
	key.ID = n
	return key, nil
}

// ParseMarkerKey parses type, id
func (p *Parser) ParseMarkerKey(data []string) (core.MarkerKey, error) {
	data, err := clean(data, 2)
	if err != nil {
		return core.MarkerKey{}, err
	}
	return parseMarkerKey(data[0], data[1])
}

// ParseMarkerType parses an optional type filter. No argument or an empty
// one means every type.
func (p *Parser) ParseMarkerType(data []string) (core.MarkerType, error) {
	if len(data) == 0 {
		return "", nil
	}
	data, err := clean(data, 1)
	if err != nil {
		return "", err
	}
	if data[0] == "" {
		return "", nil
	}
	t := core.MarkerType(data[0])
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMarkerType, data[0])
	}
	return t, nil
}

// ParseMarkerPlace parses type, id, x, y
func (p *Parser) ParseMarkerPlace(data []string) (MarkerPlace, error) {
	var mp MarkerPlace

	data, err := clean(data, 4)
	if err != nil {
		return mp, err
	}
	if mp.Key, err = parseMarkerKey(data[0], data[1]); err != nil {
		return mp, err
	}
	if mp.Position.X, err = geo.ParsePercent(data[2]); err != nil {
		return mp, fmt.Errorf("error parsing x: %w", err)
	}
	if mp.Position.Y, err = geo.ParsePercent(data[3]); err != nil {
		return mp, fmt.Errorf("error parsing y: %w", err)
	}

	if mp.Position.X < 0 || mp.Position.X > 100 || mp.Position.Y < 0 || mp.Position.Y > 100 {
		p.logger.Debug("Marker placed outside the map", "marker", mp.Key.String(),
			"x", mp.Position.X, "y", mp.Position.Y)
	}
	return mp, nil
}

// ParseMarkerGPS parses type, id, longitude, latitude
func (p *Parser) ParseMarkerGPS(data []string) (MarkerFix, error) {
	var mf MarkerFix

	data, err := clean(data, 4)
	if err != nil {
		return mf, err
	}
	if mf.Key, err = parseMarkerKey(data[0], data[1]); err != nil {
		return mf, err
	}
	if mf.Longitude, err = parseFloat("longitude", data[2]); err != nil {
		return mf, err
	}
	if mf.Latitude, err = parseFloat("latitude", data[3]); err != nil {
		return mf, err
	}
	if mf.Longitude < -180 || mf.Longitude > 180 {
		return mf, fmt.Errorf("longitude out of range: %v", mf.Longitude)
	}
	if mf.Latitude < -90 || mf.Latitude > 90 {
		return mf, fmt.Errorf("latitude out of range: %v", mf.Latitude)
	}
	return mf, nil
}
