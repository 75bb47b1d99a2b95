package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardtrack/yardmap/pkg/core"
)

func TestParseBeacon(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		input   []string
		check   func(t *testing.T, b core.Beacon)
		wantErr bool
	}{
		{
			name: "full record",
			input: []string{
				"1",            // 0: id
				`"Gate north"`, // 1: name
				"-67",          // 2: signal
				"88",           // 3: battery
			},
			check: func(t *testing.T, b core.Beacon) {
				assert.Equal(t, 1, b.ID)
				assert.Equal(t, "Gate north", b.Name)
				assert.Equal(t, -67, b.Signal)
				assert.Equal(t, 88, b.Battery)
				assert.True(t, b.LastSeen.IsZero(), "LastSeen is set by the store")
			},
		},
		{
			name:  "fractional signal truncated",
			input: []string{"2", "B2", "-71.6", "50"},
			check: func(t *testing.T, b core.Beacon) {
				assert.Equal(t, -71, b.Signal)
			},
		},
		{
			name:  "battery clamped",
			input: []string{"3", "B3", "-50", "140"},
			check: func(t *testing.T, b core.Beacon) {
				assert.Equal(t, 100, b.Battery)
			},
		},
		{
			name:    "bad id",
			input:   []string{"x", "B", "-50", "10"},
			wantErr: true,
		},
		{
			name:    "bad signal",
			input:   []string{"1", "B", "strong", "10"},
			wantErr: true,
		},
		{
			name:    "wrong arg count",
			input:   []string{"1", "B"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := p.ParseBeacon(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, b)
		})
	}
}

func TestParseMotorcycle(t *testing.T) {
	p := newTestParser()

	m, err := p.ParseMotorcycle([]string{"7", "Scooter 7", "B-XY 123", "in_use"})
	require.NoError(t, err)
	assert.Equal(t, core.Motorcycle{ID: 7, Name: "Scooter 7", Plate: "B-XY 123", Status: core.StatusInUse}, m)

	m, err = p.ParseMotorcycle([]string{"8", "Scooter 8", "", ""})
	require.NoError(t, err)
	assert.Equal(t, core.StatusAvailable, m.Status)

	_, err = p.ParseMotorcycle([]string{"9", "Scooter 9", "", "stolen"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = p.ParseMotorcycle([]string{"9.5", "Scooter", "", ""})
	assert.Error(t, err)
}

func TestParseEntityID(t *testing.T) {
	p := newTestParser()

	id, err := p.ParseEntityID([]string{"42.00"})
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = p.ParseEntityID([]string{"forty-two"})
	assert.Error(t, err)

	_, err = p.ParseEntityID(nil)
	assert.ErrorIs(t, err, ErrArgCount)
}
