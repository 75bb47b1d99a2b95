// Package yard holds the application state of the yard map.
//
// Store exclusively owns the zone and marker sequences and changes them
// only through the registry functions. Gesture sessions live in an
// interaction.Tracker and domain records in a cache.EntityCache.
package yard

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yardtrack/yardmap/internal/cache"
	"github.com/yardtrack/yardmap/internal/geo"
	"github.com/yardtrack/yardmap/internal/interaction"
	"github.com/yardtrack/yardmap/internal/registry"
	"github.com/yardtrack/yardmap/pkg/core"
)

var (
	// ErrZoneNotFound is returned when a zone id is unknown
	ErrZoneNotFound = errors.New("zone not found")
	// ErrInvalidMarkerType is returned for marker types other than beacon and motorcycle
	ErrInvalidMarkerType = errors.New("invalid marker type")
	// ErrNoProjector is returned for GPS placement when the yard is not geo-referenced
	ErrNoProjector = errors.New("yard is not geo-referenced")
)

// Dependencies holds the collaborators of a Store. Nil fields get defaults.
type Dependencies struct {
	Logger    *slog.Logger
	Gestures  *interaction.Tracker
	Entities  *cache.EntityCache
	Projector *geo.Projector
	NewID     func() string
}

// Snapshot is a consistent copy of the yard state
type Snapshot struct {
	Revision    int
	TakenAt     time.Time
	Zones       []core.Zone
	Markers     []core.Marker
	Beacons     []core.Beacon
	Motorcycles []core.Motorcycle
}

// Store is the yard state container
type Store struct {
	mu      sync.RWMutex
	zones   []core.Zone
	markers []core.Marker

	gestures  *interaction.Tracker
	entities  *cache.EntityCache
	projector *geo.Projector
	logger    *slog.Logger
	newID     func() string
	revision  cache.SafeCounter
}

// NewStore creates an empty store
func NewStore(deps Dependencies) *Store {
	s := &Store{
		zones:     make([]core.Zone, 0),
		markers:   make([]core.Marker, 0),
		gestures:  deps.Gestures,
		entities:  deps.Entities,
		projector: deps.Projector,
		logger:    deps.Logger,
		newID:     deps.NewID,
	}
	if s.gestures == nil {
		s.gestures = interaction.NewTracker()
	}
	if s.entities == nil {
		s.entities = cache.NewEntityCache()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Gestures returns the gesture tracker
func (s *Store) Gestures() *interaction.Tracker {
	return s.gestures
}

// Entities returns the beacon and motorcycle records
func (s *Store) Entities() *cache.EntityCache {
	return s.entities
}

// Revision returns the number of state changes applied so far
func (s *Store) Revision() int {
	return s.revision.Value()
}

// Zones returns a copy of the zone sequence
func (s *Store) Zones() []core.Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Zone, len(s.zones))
	copy(out, s.zones)
	return out
}

// Zone returns the zone with the given id
func (s *Store) Zone(id string) (core.Zone, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return registry.FindZone(s.zones, id)
}

// Markers returns the markers of type t, or all markers when t is empty
func (s *Store) Markers(t core.MarkerType) []core.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t == "" {
		out := make([]core.Marker, len(s.markers))
		copy(out, s.markers)
		return out
	}
	return registry.FilterByType(s.markers, t)
}

// Marker returns the marker with the given identity
func (s *Store) Marker(t core.MarkerType, id int) (core.Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return registry.Find(s.markers, id, t)
}

// ResolveZone returns the zone containing p, or ""
func (s *Store) ResolveZone(p core.Point) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return registry.ResolveZone(p, s.zones)
}

// Occupancy counts the markers of every zone
func (s *Store) Occupancy() []core.Occupancy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return registry.Occupancy(s.markers, s.zones)
}

// Snapshot returns a copy of the whole state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Revision:    s.revision.Value(),
		TakenAt:     time.Now(),
		Zones:       make([]core.Zone, len(s.zones)),
		Markers:     make([]core.Marker, len(s.markers)),
		Beacons:     s.entities.ListBeacons(),
		Motorcycles: s.entities.ListMotorcycles(),
	}
	copy(snap.Zones, s.zones)
	copy(snap.Markers, s.markers)
	return snap
}

// Reset clears zones, markers, gesture sessions and domain records.
// The revision keeps counting so observers see the change.
func (s *Store) Reset() {
	s.mu.Lock()
	s.zones = make([]core.Zone, 0)
	s.markers = make([]core.Marker, 0)
	s.gestures.Reset()
	s.entities.Reset()
	s.bump()
	s.mu.Unlock()

	s.logger.Info("Yard reset")
}

// reassignLocked recomputes marker containment after a zone geometry change
// and returns the number of markers whose zone changed.
// Must be called with s.mu held for writing. It does not log: log handlers
// may read the store.
func (s *Store) reassignLocked() int {
	var changed []core.MarkerKey
	s.markers, changed = registry.Reassign(s.markers, s.zones)
	return len(changed)
}

func (s *Store) logReassigned(changed int) {
	if changed > 0 {
		s.logger.Debug("Recomputed marker zones", "changed", changed)
	}
}

func (s *Store) bump() {
	s.revision.Inc()
}

func validMarkerType(t core.MarkerType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMarkerType, t)
	}
	return nil
}
