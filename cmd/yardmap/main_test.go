package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardtrack/yardmap/internal/config"
	"github.com/yardtrack/yardmap/internal/export"
	"github.com/yardtrack/yardmap/internal/yard"
	"github.com/yardtrack/yardmap/pkg/core"
)

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "yardmap "+Version+" ("+BuildDate+")\n", stdout.String())
}

func TestRun_Usage(t *testing.T) {
	tests := [][]string{
		nil,
		{"teleport"},
		{"run"},
		{"inspect"},
		{"-nosuchflag"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, 2, run(args, &stdout, &stderr))
			assert.Contains(t, stderr.String(), "usage:")
		})
	}
}

func TestRun_MissingScript(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"run", filepath.Join(t.TempDir(), "missing.yaml")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "failed to read file")
}

func TestRun_Inspect(t *testing.T) {
	dir := t.TempDir()
	exp := export.New(config.ExportConfig{OutputDir: dir})
	zone := "z1"
	path, err := exp.Write(yard.Snapshot{
		Revision: 3,
		Zones: []core.Zone{{ID: zone, Name: "Bay A",
			Position: core.Rect{Top: "0%", Left: "0%", Width: "50%", Height: "50%"}}},
		Markers: []core.Marker{
			{ID: 1, Type: core.MarkerMotorcycle, Position: core.Point{X: 10, Y: 10}, ZoneID: zone},
			{ID: 2, Type: core.MarkerBeacon, Position: core.Point{X: 90, Y: 90}},
		},
	}, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	code := run([]string{"inspect", path}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "revision 3")
	assert.Contains(t, stdout.String(), "1 zones, 2 markers")
	assert.Contains(t, stdout.String(), `z1 "Bay A" at 0%,0% size 50%x50%: 1 markers`)
}

func TestRun_ScriptEndToEnd(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	logsDir := filepath.Join(dir, "logs")
	outDir := filepath.Join(dir, "exports")
	cfg := `{"logsDir": "` + filepath.ToSlash(logsDir) + `",
		"export": {"outputDir": "` + filepath.ToSlash(outDir) + `", "compressOutput": false}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0644))

	script := filepath.Join(dir, "load.yaml")
	require.NoError(t, os.WriteFile(script, []byte(`
steps:
  - command: zone:create
    args: ["Bay A", "green", "0", "0", "50", "50"]
  - command: marker:place
    args: ["motorcycle", "7", "25", "25"]
  - command: export
`), 0644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", dir, "run", script}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), ":EXPORT: -> "+outDir)

	files, err := filepath.Glob(filepath.Join(outDir, "yard_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	doc, err := export.Read(files[0])
	require.NoError(t, err)
	require.Len(t, doc.Zones, 1)
	require.Len(t, doc.Markers, 1)
	require.NotNil(t, doc.Markers[0].ZoneID)
	assert.Equal(t, doc.Zones[0].ID, *doc.Markers[0].ZoneID)

	logs, err := filepath.Glob(filepath.Join(logsDir, "yardmap.*.log"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
