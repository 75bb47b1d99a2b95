package yard

import (
	"time"

	"github.com/yardtrack/yardmap/pkg/core"
)

// AddBeacon registers a beacon record
func (s *Store) AddBeacon(b core.Beacon) error {
	if b.LastSeen.IsZero() {
		b.LastSeen = time.Now()
	}
	if err := s.entities.AddBeacon(b); err != nil {
		return err
	}
	s.bump()
	return nil
}

// UpdateBeacon replaces a beacon record
func (s *Store) UpdateBeacon(b core.Beacon) error {
	if b.LastSeen.IsZero() {
		b.LastSeen = time.Now()
	}
	if err := s.entities.UpdateBeacon(b); err != nil {
		return err
	}
	s.bump()
	return nil
}

// DeleteBeacon removes the beacon record and its marker
func (s *Store) DeleteBeacon(id int) error {
	if err := s.entities.DeleteBeacon(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeMarkerLocked(core.MarkerBeacon, id)
	s.bump()
	return nil
}

// AddMotorcycle registers a motorcycle record
func (s *Store) AddMotorcycle(v core.Motorcycle) error {
	if v.Status == "" {
		v.Status = core.StatusAvailable
	}
	if err := s.entities.AddMotorcycle(v); err != nil {
		return err
	}
	s.bump()
	return nil
}

// UpdateMotorcycle replaces a motorcycle record
func (s *Store) UpdateMotorcycle(v core.Motorcycle) error {
	if v.Status == "" {
		v.Status = core.StatusAvailable
	}
	if err := s.entities.UpdateMotorcycle(v); err != nil {
		return err
	}
	s.bump()
	return nil
}

// DeleteMotorcycle removes the motorcycle record and its marker
func (s *Store) DeleteMotorcycle(id int) error {
	if err := s.entities.DeleteMotorcycle(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeMarkerLocked(core.MarkerMotorcycle, id)
	s.bump()
	return nil
}
