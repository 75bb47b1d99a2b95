package parser

import (
	"errors"
	"fmt"

	"github.com/yardtrack/yardmap/pkg/core"
)

// ErrInvalidStatus is returned for unknown motorcycle statuses
var ErrInvalidStatus = errors.New("invalid motorcycle status")

// ParseEntityID parses a single beacon or motorcycle id
func (p *Parser) ParseEntityID(data []string) (int, error) {
	data, err := clean(data, 1)
	if err != nil {
		return 0, err
	}
	id, err := parseIntFromFloat(data[0])
	if err != nil {
		return 0, fmt.Errorf("error parsing id: %w", err)
	}
	return id, nil
}

// ParseBeacon parses id, name, signal, battery
func (p *Parser) ParseBeacon(data []string) (core.Beacon, error) {
	var b core.Beacon

	data, err := clean(data, 4)
	if err != nil {
		return b, err
	}

	if b.ID, err = parseIntFromFloat(data[0]); err != nil {
		return b, fmt.Errorf("error parsing id: %w", err)
	}
	b.Name = data[1]

	// signal is in dBm and may be sent as a float
	if b.Signal, err = parseIntFromFloat(data[2]); err != nil {
		f, ferr := parseFloat("signal", data[2])
		if ferr != nil {
			return b, ferr
		}
		b.Signal = int(f)
	}

	if b.Battery, err = parseIntFromFloat(data[3]); err != nil {
		return b, fmt.Errorf("error parsing battery: %w", err)
	}
	if b.Battery < 0 || b.Battery > 100 {
		p.logger.Warn("Beacon battery out of range, clamping", "beaconId", b.ID, "battery", b.Battery)
		b.Battery = max(0, min(100, b.Battery))
	}
	return b, nil
}

// ParseMotorcycle parses id, name, plate, status. An empty status means available.
func (p *Parser) ParseMotorcycle(data []string) (core.Motorcycle, error) {
	var m core.Motorcycle

	data, err := clean(data, 4)
	if err != nil {
		return m, err
	}

	if m.ID, err = parseIntFromFloat(data[0]); err != nil {
		return m, fmt.Errorf("error parsing id: %w", err)
	}
	m.Name = data[1]
	m.Plate = data[2]

	m.Status = core.MotorcycleStatus(data[3])
	if m.Status == "" {
		m.Status = core.StatusAvailable
	}
	if !m.Status.Valid() {
		return m, fmt.Errorf("%w: %q", ErrInvalidStatus, data[3])
	}
	return m, nil
}
