package parser

import "github.com/yardtrack/yardmap/pkg/core"

// ZoneCreate holds the fields of a :ZONE:CREATE: command
type ZoneCreate struct {
	Name     string
	Color    string
	Position core.Rect
}

// ZoneMove holds the target corner of a :ZONE:MOVE: command
type ZoneMove struct {
	ZoneID string
	Top    float64
	Left   float64
}

// ZoneResize holds the target size of a :ZONE:RESIZE: command
type ZoneResize struct {
	ZoneID string
	Width  float64
	Height float64
}

// ZoneRename holds the display fields of a :ZONE:RENAME: command
type ZoneRename struct {
	ZoneID string
	Name   string
	Color  string
}

// MarkerPlace holds a marker placement in map percent
type MarkerPlace struct {
	Key      core.MarkerKey
	Position core.Point
}

// MarkerFix holds a GPS fix for a marker
type MarkerFix struct {
	Key       core.MarkerKey
	Longitude float64
	Latitude  float64
}
