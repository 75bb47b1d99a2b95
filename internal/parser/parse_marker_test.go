package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardtrack/yardmap/internal/geo"
	"github.com/yardtrack/yardmap/pkg/core"
)

func TestParseMarkerKey(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		input   []string
		want    core.MarkerKey
		wantErr error
	}{
		{"beacon", []string{"beacon", "3"}, core.MarkerKey{ID: 3, Type: core.MarkerBeacon}, nil},
		{"quoted motorcycle float id", []string{`"motorcycle"`, "12.00"}, core.MarkerKey{ID: 12, Type: core.MarkerMotorcycle}, nil},
		{"unknown type", []string{"car", "1"}, core.MarkerKey{}, ErrInvalidMarkerType},
		{"uppercase type rejected", []string{"BEACON", "1"}, core.MarkerKey{}, ErrInvalidMarkerType},
		{"missing id", []string{"beacon"}, core.MarkerKey{}, ErrArgCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := p.ParseMarkerKey(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}

	_, err := p.ParseMarkerKey([]string{"beacon", "1.5"})
	assert.Error(t, err)
}

func TestParseMarkerType(t *testing.T) {
	p := newTestParser()

	typ, err := p.ParseMarkerType(nil)
	require.NoError(t, err)
	assert.Equal(t, core.MarkerType(""), typ)

	typ, err = p.ParseMarkerType([]string{`""`})
	require.NoError(t, err)
	assert.Equal(t, core.MarkerType(""), typ)

	typ, err = p.ParseMarkerType([]string{"motorcycle"})
	require.NoError(t, err)
	assert.Equal(t, core.MarkerMotorcycle, typ)

	_, err = p.ParseMarkerType([]string{"truck"})
	assert.ErrorIs(t, err, ErrInvalidMarkerType)

	_, err = p.ParseMarkerType([]string{"beacon", "motorcycle"})
	assert.ErrorIs(t, err, ErrArgCount)
}

func TestParseMarkerPlace(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		input   []string
		check   func(t *testing.T, mp MarkerPlace)
		wantErr error
	}{
		{
			name: "beacon in map",
			input: []string{
				"beacon", // 0: type
				"1",      // 1: id
				"15%",    // 2: x
				"15%",    // 3: y
			},
			check: func(t *testing.T, mp MarkerPlace) {
				assert.Equal(t, core.MarkerKey{ID: 1, Type: core.MarkerBeacon}, mp.Key)
				assert.Equal(t, core.Point{X: 15, Y: 15}, mp.Position)
			},
		},
		{
			name:  "outside map still parses",
			input: []string{"motorcycle", "2", "120", "-4"},
			check: func(t *testing.T, mp MarkerPlace) {
				assert.Equal(t, core.Point{X: 120, Y: -4}, mp.Position)
			},
		},
		{
			name:    "bad y",
			input:   []string{"beacon", "1", "10", "abc"},
			wantErr: geo.ErrInvalidPercent,
		},
		{
			name:    "bad type",
			input:   []string{"drone", "1", "10", "10"},
			wantErr: ErrInvalidMarkerType,
		},
		{
			name:    "too many args",
			input:   []string{"beacon", "1", "10", "10", "10"},
			wantErr: ErrArgCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp, err := p.ParseMarkerPlace(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, mp)
		})
	}
}

func TestParseMarkerGPS(t *testing.T) {
	p := newTestParser()

	mf, err := p.ParseMarkerGPS([]string{"motorcycle", "4", "13.4050", "52.5200"})
	require.NoError(t, err)
	assert.Equal(t, core.MarkerKey{ID: 4, Type: core.MarkerMotorcycle}, mf.Key)
	assert.InDelta(t, 13.405, mf.Longitude, 1e-9)
	assert.InDelta(t, 52.52, mf.Latitude, 1e-9)

	_, err = p.ParseMarkerGPS([]string{"motorcycle", "4", "east", "52"})
	assert.Error(t, err)

	_, err = p.ParseMarkerGPS([]string{"motorcycle", "4", "190", "52"})
	assert.ErrorContains(t, err, "longitude out of range")

	_, err = p.ParseMarkerGPS([]string{"motorcycle", "4", "13", "-91"})
	assert.ErrorContains(t, err, "latitude out of range")
}
