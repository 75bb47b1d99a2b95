// Package registry indexes the markers and zones of a yard map.
//
// Every function is pure: inputs are never mutated and a fresh slice is
// returned. Sequences are ordered; order is meaningful for ResolveZone,
// where the last containing zone wins. Nothing here fails: not-found and
// no-op are ordinary return values.
package registry

import (
	"github.com/yardtrack/yardmap/internal/geo"
	"github.com/yardtrack/yardmap/pkg/core"
)

// Upsert replaces the marker with the same (id, type) in place, or appends it
func Upsert(markers []core.Marker, m core.Marker) []core.Marker {
	out := make([]core.Marker, len(markers), len(markers)+1)
	copy(out, markers)
	for i := range out {
		if out[i].ID == m.ID && out[i].Type == m.Type {
			out[i] = m
			return out
		}
	}
	return append(out, m)
}

// FilterByType returns the markers of type t in their original order.
// The result is empty, not nil, when nothing matches.
func FilterByType(markers []core.Marker, t core.MarkerType) []core.Marker {
	out := make([]core.Marker, 0)
	for _, m := range markers {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// Find returns the marker matching id and type
func Find(markers []core.Marker, id int, t core.MarkerType) (core.Marker, bool) {
	for _, m := range markers {
		if m.ID == id && m.Type == t {
			return m, true
		}
	}
	return core.Marker{}, false
}

// Remove returns markers without the one matching id and type.
// The input is returned unchanged when there is no match.
func Remove(markers []core.Marker, id int, t core.MarkerType) []core.Marker {
	idx := -1
	for i, m := range markers {
		if m.ID == id && m.Type == t {
			idx = i
			break
		}
	}
	if idx < 0 {
		return markers
	}
	out := make([]core.Marker, 0, len(markers)-1)
	out = append(out, markers[:idx]...)
	return append(out, markers[idx+1:]...)
}

// ResolveZone returns the id of the zone containing p, or "" when none does.
// When rectangles overlap the last zone in the sequence wins, so the most
// recently created zone takes precedence. Edges are inclusive.
func ResolveZone(p core.Point, zones []core.Zone) string {
	for i := len(zones) - 1; i >= 0; i-- {
		if geo.RectContains(zones[i].Position, p) {
			return zones[i].ID
		}
	}
	return ""
}

// FindZone returns the zone with the given id
func FindZone(zones []core.Zone, id string) (core.Zone, bool) {
	for _, z := range zones {
		if z.ID == id {
			return z, true
		}
	}
	return core.Zone{}, false
}

// ReplaceZone swaps the zone with z.ID for z, keeping its position in the sequence.
// The input is returned unchanged when no zone has that id.
func ReplaceZone(zones []core.Zone, z core.Zone) []core.Zone {
	for i := range zones {
		if zones[i].ID == z.ID {
			out := make([]core.Zone, len(zones))
			copy(out, zones)
			out[i] = z
			return out
		}
	}
	return zones
}

// DeleteZone removes the zone with the given id and returns the keys of the
// markers that referenced it. The caller owns the markers and must apply the
// reassignment, see ApplyReassignments.
func DeleteZone(zones []core.Zone, markers []core.Marker, zoneID string) ([]core.Zone, []core.MarkerKey) {
	reassign := make([]core.MarkerKey, 0)
	if zoneID == "" {
		return zones, reassign
	}
	for _, m := range markers {
		if m.ZoneID == zoneID {
			reassign = append(reassign, m.Key())
		}
	}

	out := make([]core.Zone, 0, len(zones))
	for _, z := range zones {
		if z.ID != zoneID {
			out = append(out, z)
		}
	}
	return out, reassign
}

// ApplyReassignments returns markers with the zone reference of every listed key cleared
func ApplyReassignments(markers []core.Marker, keys []core.MarkerKey) []core.Marker {
	if len(keys) == 0 {
		return markers
	}
	set := make(map[core.MarkerKey]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}

	out := make([]core.Marker, len(markers))
	for i, m := range markers {
		if _, ok := set[m.Key()]; ok {
			m.ZoneID = ""
		}
		out[i] = m
	}
	return out
}

// Reassign recomputes the zone of every marker and returns the keys whose zone changed
func Reassign(markers []core.Marker, zones []core.Zone) ([]core.Marker, []core.MarkerKey) {
	out := make([]core.Marker, len(markers))
	changed := make([]core.MarkerKey, 0)
	for i, m := range markers {
		zoneID := ResolveZone(m.Position, zones)
		if zoneID != m.ZoneID {
			m.ZoneID = zoneID
			changed = append(changed, m.Key())
		}
		out[i] = m
	}
	return out, changed
}

// Occupancy counts markers per zone, in zone order, followed by the unassigned bucket.
// Markers referencing unknown zones are counted as unassigned.
func Occupancy(markers []core.Marker, zones []core.Zone) []core.Occupancy {
	out := make([]core.Occupancy, 0, len(zones)+1)
	index := make(map[string]int, len(zones))
	for i, z := range zones {
		index[z.ID] = i
		out = append(out, core.Occupancy{ZoneID: z.ID, ZoneName: z.Name, Counts: emptyCounts()})
	}
	unassigned := core.Occupancy{Counts: emptyCounts()}

	for _, m := range markers {
		if i, ok := index[m.ZoneID]; ok && m.Assigned() {
			out[i].Counts[m.Type]++
			continue
		}
		unassigned.Counts[m.Type]++
	}
	return append(out, unassigned)
}

func emptyCounts() map[core.MarkerType]int {
	counts := make(map[core.MarkerType]int, len(core.MarkerTypes))
	for _, t := range core.MarkerTypes {
		counts[t] = 0
	}
	return counts
}
