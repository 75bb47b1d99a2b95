package yard

import (
	"fmt"

	"github.com/yardtrack/yardmap/internal/registry"
	"github.com/yardtrack/yardmap/pkg/core"
)

// PlaceMarker puts the marker at p, resolving its zone.
// An existing marker with the same identity is moved.
func (s *Store) PlaceMarker(t core.MarkerType, id int, p core.Point) (core.Marker, error) {
	if err := validMarkerType(t); err != nil {
		return core.Marker{}, err
	}

	s.mu.Lock()
	m := core.Marker{
		ID:       id,
		Type:     t,
		Position: p,
		ZoneID:   registry.ResolveZone(p, s.zones),
	}
	s.markers = registry.Upsert(s.markers, m)
	s.bump()
	s.mu.Unlock()

	s.logger.Debug("Marker placed", "marker", m.Key().String(), "x", p.X, "y", p.Y, "zoneId", m.ZoneID)
	return m, nil
}

// PlaceMarkerGPS projects a GPS fix onto the map and places the marker there.
// Fixes outside the yard are rejected and leave the marker untouched.
func (s *Store) PlaceMarkerGPS(t core.MarkerType, id int, longitude, latitude float64) (core.Marker, error) {
	if s.projector == nil {
		return core.Marker{}, ErrNoProjector
	}
	p, err := s.projector.Project(longitude, latitude)
	if err != nil {
		return core.Marker{}, fmt.Errorf("marker %s:%d: %w", t, id, err)
	}
	return s.PlaceMarker(t, id, p)
}

// RemoveMarker deletes the marker and reports whether it existed
func (s *Store) RemoveMarker(t core.MarkerType, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeMarkerLocked(t, id)
}

func (s *Store) removeMarkerLocked(t core.MarkerType, id int) bool {
	before := len(s.markers)
	s.markers = registry.Remove(s.markers, id, t)
	if len(s.markers) == before {
		return false
	}
	s.bump()
	return true
}
