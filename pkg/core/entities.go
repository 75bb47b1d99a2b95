// pkg/core/entities.go
package core

import "time"

// Beacon is a Bluetooth beacon tracked in the yard
type Beacon struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Signal   int       `json:"signal"`  // RSSI in dBm
	Battery  int       `json:"battery"` // percent
	LastSeen time.Time `json:"lastSeen"`
}

// MotorcycleStatus is the fleet status of a motorcycle
type MotorcycleStatus string

const (
	StatusAvailable   MotorcycleStatus = "available"
	StatusInUse       MotorcycleStatus = "in_use"
	StatusMaintenance MotorcycleStatus = "maintenance"
)

// Valid reports whether s is a known status
func (s MotorcycleStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusInUse, StatusMaintenance:
		return true
	}
	return false
}

// Motorcycle is a fleet vehicle parked or moving in the yard
type Motorcycle struct {
	ID     int              `json:"id"`
	Name   string           `json:"name"`
	Plate  string           `json:"plate"`
	Status MotorcycleStatus `json:"status"`
}
