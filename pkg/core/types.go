// pkg/core/types.go
package core

import "strconv"

// Point is a planar coordinate in percent of the map (0..100).
// Y grows downward, the same way a zone's Top does.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a zone rectangle. Each value is a percentage string of the
// containing map's dimensions, e.g. "12.5%".
type Rect struct {
	Top    string `json:"top"`
	Left   string `json:"left"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// Zone is a named rectangular region of the yard map
type Zone struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position Rect   `json:"position"`
}

// MarkerType discriminates what a marker projects onto the map
type MarkerType string

const (
	MarkerBeacon     MarkerType = "beacon"
	MarkerMotorcycle MarkerType = "motorcycle"
)

// MarkerTypes lists every known marker type in display order
var MarkerTypes = []MarkerType{MarkerBeacon, MarkerMotorcycle}

// Valid reports whether t is a known marker type
func (t MarkerType) Valid() bool {
	switch t {
	case MarkerBeacon, MarkerMotorcycle:
		return true
	}
	return false
}

// MarkerKey is the identity of a marker. IDs are unique within a type only.
type MarkerKey struct {
	ID   int        `json:"id"`
	Type MarkerType `json:"type"`
}

func (k MarkerKey) String() string {
	return string(k.Type) + ":" + strconv.Itoa(k.ID)
}

// Marker places a beacon or motorcycle on the map.
// ZoneID is empty when the marker is not inside any zone.
type Marker struct {
	ID       int        `json:"id"`
	Type     MarkerType `json:"type"`
	Position Point      `json:"position"`
	ZoneID   string     `json:"zoneId"`
}

// Key returns the marker identity
func (m Marker) Key() MarkerKey {
	return MarkerKey{ID: m.ID, Type: m.Type}
}

// Assigned reports whether the marker references a zone
func (m Marker) Assigned() bool {
	return m.ZoneID != ""
}

// Occupancy counts the markers in one zone by type.
// ZoneID is empty for the unassigned bucket.
type Occupancy struct {
	ZoneID   string             `json:"zoneId"`
	ZoneName string             `json:"zoneName"`
	Counts   map[MarkerType]int `json:"counts"`
}

// Total returns the number of markers across all types
func (o Occupancy) Total() int {
	n := 0
	for _, c := range o.Counts {
		n += c
	}
	return n
}
