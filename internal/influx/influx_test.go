package influx

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardtrack/yardmap/internal/config"
	"github.com/yardtrack/yardmap/pkg/core"
)

var sampleTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func unreachableConfig() config.InfluxConfig {
	return config.InfluxConfig{
		Enabled:  true,
		Protocol: "http",
		Host:     "127.0.0.1",
		Port:     1,
		Org:      "yardmap",
		Bucket:   "yard_occupancy",
	}
}

func readBackup(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	raw, err := io.ReadAll(gz)
	require.NoError(t, err)
	return string(raw)
}

func TestConnect_Disabled(t *testing.T) {
	m := NewManager(config.InfluxConfig{Enabled: false}, zerolog.Nop(), "")
	err := m.Connect(context.Background())
	assert.ErrorIs(t, err, ErrDisabled)
	assert.False(t, m.IsValid)
}

func TestWritePoint_NotConnected(t *testing.T) {
	m := NewManager(config.InfluxConfig{}, zerolog.Nop(), "")
	p := influxdb2_write.NewPointWithMeasurement("x")
	assert.ErrorIs(t, m.WritePoint(context.Background(), p), ErrNotConnected)
}

func TestWritePoint_CanceledContext(t *testing.T) {
	m := NewManager(config.InfluxConfig{}, zerolog.Nop(), "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.WritePoint(ctx, influxdb2_write.NewPointWithMeasurement("x")), context.Canceled)
}

func TestConnect_FallsBackToBackup(t *testing.T) {
	backup := filepath.Join(t.TempDir(), "influx_backup.log.gz")
	var logs bytes.Buffer
	m := NewManager(unreachableConfig(), zerolog.New(&logs), backup)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Connect(ctx))
	assert.False(t, m.IsValid)
	assert.Contains(t, logs.String(), "using backup writer")

	occ := []core.Occupancy{
		{ZoneID: "z1", ZoneName: "North", Counts: map[core.MarkerType]int{core.MarkerBeacon: 2, core.MarkerMotorcycle: 1}},
	}
	for _, p := range OccupancyPoints(occ, sampleTime) {
		require.NoError(t, m.WritePoint(ctx, p))
	}
	require.NoError(t, m.Close())

	lines := strings.Split(strings.TrimSpace(readBackup(t, backup)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "zone_occupancy,")
	assert.Contains(t, lines[0], "marker_type=beacon")
	assert.Contains(t, lines[0], "zone_id=z1")
	assert.Contains(t, lines[0], "count=2i")
	assert.Contains(t, lines[1], "marker_type=motorcycle")
	assert.Contains(t, lines[1], "count=1i")

	// closing twice is harmless
	assert.NoError(t, m.Close())
}

func TestOccupancyPoints(t *testing.T) {
	occ := []core.Occupancy{
		{ZoneID: "z1", ZoneName: "North", Counts: map[core.MarkerType]int{core.MarkerBeacon: 3}},
		{ZoneID: "z2", ZoneName: "", Counts: map[core.MarkerType]int{}},
		{ZoneID: "", Counts: map[core.MarkerType]int{core.MarkerMotorcycle: 4}},
	}

	points := OccupancyPoints(occ, sampleTime)
	require.Len(t, points, 6)

	tags := func(p *influxdb2_write.Point) map[string]string {
		out := map[string]string{}
		for _, tag := range p.TagList() {
			out[tag.Key] = tag.Value
		}
		return out
	}
	field := func(p *influxdb2_write.Point) any {
		require.Len(t, p.FieldList(), 1)
		assert.Equal(t, "count", p.FieldList()[0].Key)
		return p.FieldList()[0].Value
	}

	assert.Equal(t, MeasurementOccupancy, points[0].Name())
	assert.Equal(t, map[string]string{"zone_id": "z1", "zone_name": "North", "marker_type": "beacon"}, tags(points[0]))
	assert.EqualValues(t, 3, field(points[0]))
	assert.EqualValues(t, 0, field(points[1]), "missing types are reported as zero")
	assert.True(t, points[0].Time().Equal(sampleTime))

	assert.Equal(t, "z2", tags(points[2])["zone_name"], "unnamed zones use their id")

	assert.Equal(t, UnassignedZoneID, tags(points[5])["zone_id"])
	assert.Equal(t, "motorcycle", tags(points[5])["marker_type"])
	assert.EqualValues(t, 4, field(points[5]))
}

func TestOccupancyPoints_Empty(t *testing.T) {
	assert.Empty(t, OccupancyPoints(nil, sampleTime))
}
