// Package interaction tracks in-progress zone gestures.
//
// A zone is idle unless a drag (moving) or resize (resizing) gesture is
// active on it. The two are mutually exclusive. Session state is keyed by
// zone id and kept apart from core.Zone so it never reaches exported data.
package interaction

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// State is the gesture state of one zone
type State int

const (
	Idle State = iota
	Moving
	Resizing
)

func (s State) String() string {
	switch s {
	case Moving:
		return "moving"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

var (
	// ErrGestureConflict is returned when a zone is already in the other gesture
	ErrGestureConflict = errors.New("conflicting gesture in progress")
	// ErrNoGesture is returned when a mutation arrives outside its gesture
	ErrNoGesture = errors.New("no matching gesture in progress")
	// ErrInvalidKind is returned when Begin or Require is called with Idle
	ErrInvalidKind = errors.New("gesture kind must be moving or resizing")
)

// Tracker holds the active gesture sessions
type Tracker struct {
	mu       sync.RWMutex
	sessions map[string]State
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		sessions: make(map[string]State),
	}
}

// Begin starts a gesture of the given kind on the zone.
// Beginning the gesture already in progress is a no-op.
func (t *Tracker) Begin(zoneID string, kind State) error {
	if kind != Moving && kind != Resizing {
		return ErrInvalidKind
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.sessions[zoneID]
	if current != Idle && current != kind {
		return fmt.Errorf("%w: zone %s is %s", ErrGestureConflict, zoneID, current)
	}
	t.sessions[zoneID] = kind
	return nil
}

// Require returns nil only while the zone is in the given gesture
func (t *Tracker) Require(zoneID string, kind State) error {
	if kind != Moving && kind != Resizing {
		return ErrInvalidKind
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	if current := t.sessions[zoneID]; current != kind {
		return fmt.Errorf("%w: zone %s is %s, not %s", ErrNoGesture, zoneID, current, kind)
	}
	return nil
}

// End returns the zone to idle and reports the state it was in.
// It always succeeds, whatever happened during the gesture.
func (t *Tracker) End(zoneID string) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.sessions[zoneID]
	delete(t.sessions, zoneID)
	return prev
}

// State returns the current gesture state of the zone
func (t *Tracker) State(zoneID string) State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sessions[zoneID]
}

// Forget drops any session for the zone, used when the zone is deleted
func (t *Tracker) Forget(zoneID string) {
	t.End(zoneID)
}

// Active returns the ids of zones with a gesture in progress, sorted
func (t *Tracker) Active() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.sessions))
	for id := range t.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset ends every session
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions = make(map[string]State)
}
