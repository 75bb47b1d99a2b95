package yard

import (
	"fmt"

	"github.com/yardtrack/yardmap/internal/geo"
	"github.com/yardtrack/yardmap/internal/interaction"
	"github.com/yardtrack/yardmap/internal/registry"
	"github.com/yardtrack/yardmap/pkg/core"
)

// CreateZone validates the rectangle and appends a new zone.
// The new zone is last in the sequence, so it wins containment ties.
func (s *Store) CreateZone(name, color string, rect core.Rect) (core.Zone, error) {
	b, err := geo.ValidateRect(rect)
	if err != nil {
		return core.Zone{}, err
	}

	z := core.Zone{
		ID:       s.newID(),
		Name:     name,
		Color:    color,
		Position: b.Rect(),
	}

	s.mu.Lock()
	s.zones = append(s.zones, z)
	changed := s.reassignLocked()
	s.bump()
	s.mu.Unlock()

	s.logReassigned(changed)
	s.logger.Info("Zone created", "zoneId", z.ID, "name", z.Name, "position", z.Position)
	return z, nil
}

// RenameZone changes the display fields of a zone
func (s *Store) RenameZone(id, name, color string) (core.Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	z, ok := registry.FindZone(s.zones, id)
	if !ok {
		return core.Zone{}, fmt.Errorf("%w: %s", ErrZoneNotFound, id)
	}
	z.Name = name
	z.Color = color
	s.zones = registry.ReplaceZone(s.zones, z)
	s.bump()
	return z, nil
}

// BeginMove starts a drag gesture on the zone
func (s *Store) BeginMove(id string) error {
	return s.beginGesture(id, interaction.Moving)
}

// BeginResize starts a resize gesture on the zone
func (s *Store) BeginResize(id string) error {
	return s.beginGesture(id, interaction.Resizing)
}

func (s *Store) beginGesture(id string, kind interaction.State) error {
	if _, ok := s.Zone(id); !ok {
		return fmt.Errorf("%w: %s", ErrZoneNotFound, id)
	}
	if err := s.gestures.Begin(id, kind); err != nil {
		return err
	}
	s.logger.Debug("Gesture started", "zoneId", id, "gesture", kind.String())
	return nil
}

// MoveZone drags the zone to top/left while a move gesture is active.
// The zone is kept inside the map.
func (s *Store) MoveZone(id string, top, left float64) (core.Zone, error) {
	return s.reshape(id, interaction.Moving, func(b geo.Bounds) geo.Bounds {
		return geo.ClampMove(b, top, left)
	})
}

// ResizeZone resizes the zone while a resize gesture is active.
// The top-left corner stays fixed and the zone is kept inside the map.
func (s *Store) ResizeZone(id string, width, height float64) (core.Zone, error) {
	return s.reshape(id, interaction.Resizing, func(b geo.Bounds) geo.Bounds {
		return geo.ClampResize(b, width, height)
	})
}

func (s *Store) reshape(id string, kind interaction.State, apply func(geo.Bounds) geo.Bounds) (core.Zone, error) {
	if err := s.gestures.Require(id, kind); err != nil {
		return core.Zone{}, err
	}

	z, changed, err := s.reshapeLocked(id, apply)
	if err != nil {
		return core.Zone{}, err
	}
	s.logReassigned(changed)
	return z, nil
}

func (s *Store) reshapeLocked(id string, apply func(geo.Bounds) geo.Bounds) (core.Zone, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	z, ok := registry.FindZone(s.zones, id)
	if !ok {
		return core.Zone{}, 0, fmt.Errorf("%w: %s", ErrZoneNotFound, id)
	}
	b, err := geo.ParseRect(z.Position)
	if err != nil {
		return core.Zone{}, 0, fmt.Errorf("zone %s: %w", id, err)
	}

	next := apply(b).Rounded()
	if err := geo.ValidateBounds(next); err != nil {
		return core.Zone{}, 0, fmt.Errorf("zone %s: %w", id, err)
	}
	z.Position = next.Rect()

	s.zones = registry.ReplaceZone(s.zones, z)
	changed := s.reassignLocked()
	s.bump()
	return z, changed, nil
}

// EndGesture returns the zone to idle. It never fails, so a release always
// clears the session even for a zone deleted mid-gesture.
func (s *Store) EndGesture(id string) interaction.State {
	prev := s.gestures.End(id)
	if prev != interaction.Idle {
		s.logger.Debug("Gesture ended", "zoneId", id, "gesture", prev.String())
	}
	return prev
}

// DeleteZone removes the zone and clears the zone reference of every marker
// that pointed at it. The cleared marker keys are returned.
func (s *Store) DeleteZone(id string) ([]core.MarkerKey, error) {
	s.mu.Lock()
	if _, ok := registry.FindZone(s.zones, id); !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrZoneNotFound, id)
	}

	var reassign []core.MarkerKey
	s.zones, reassign = registry.DeleteZone(s.zones, s.markers, id)
	s.markers = registry.ApplyReassignments(s.markers, reassign)
	s.gestures.Forget(id)
	s.bump()
	s.mu.Unlock()

	s.logger.Info("Zone deleted", "zoneId", id, "reassigned", len(reassign))
	return reassign, nil
}
