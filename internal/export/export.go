// Package export writes yard snapshots as JSON documents.
package export

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yardtrack/yardmap/internal/config"
	"github.com/yardtrack/yardmap/internal/yard"
	"github.com/yardtrack/yardmap/pkg/core"
)

// FormatVersion is bumped whenever the document layout changes
const FormatVersion = 1

// Document is the root JSON structure
type Document struct {
	FormatVersion int               `json:"formatVersion"`
	Revision      int               `json:"revision"`
	ExportedAt    time.Time         `json:"exportedAt"`
	Zones         []core.Zone       `json:"zones"`
	Markers       []MarkerJSON      `json:"markers"`
	Beacons       []core.Beacon     `json:"beacons"`
	Motorcycles   []core.Motorcycle `json:"motorcycles"`
}

// MarkerJSON is a marker whose zone reference is null when unassigned
type MarkerJSON struct {
	ID       int             `json:"id"`
	Type     core.MarkerType `json:"type"`
	Position core.Point      `json:"position"`
	ZoneID   *string         `json:"zoneId"`
}

// Exporter writes snapshots to OutputDir
type Exporter struct {
	cfg config.ExportConfig
}

// New creates an exporter for the given settings
func New(cfg config.ExportConfig) *Exporter {
	return &Exporter{cfg: cfg}
}

// Build converts a snapshot to its export document without any I/O
func Build(snap yard.Snapshot, at time.Time) Document {
	doc := Document{
		FormatVersion: FormatVersion,
		Revision:      snap.Revision,
		ExportedAt:    at.UTC(),
		Zones:         make([]core.Zone, len(snap.Zones)),
		Markers:       make([]MarkerJSON, 0, len(snap.Markers)),
		Beacons:       make([]core.Beacon, 0, len(snap.Beacons)),
		Motorcycles:   make([]core.Motorcycle, 0, len(snap.Motorcycles)),
	}
	copy(doc.Zones, snap.Zones)

	for _, m := range snap.Markers {
		mj := MarkerJSON{
			ID:       m.ID,
			Type:     m.Type,
			Position: m.Position,
		}
		if m.Assigned() {
			zoneID := m.ZoneID
			mj.ZoneID = &zoneID
		}
		doc.Markers = append(doc.Markers, mj)
	}
	doc.Beacons = append(doc.Beacons, snap.Beacons...)
	doc.Motorcycles = append(doc.Motorcycles, snap.Motorcycles...)

	return doc
}

// FileName returns the export file name for a snapshot taken at the given time
func (e *Exporter) FileName(at time.Time) string {
	timestamp := at.UTC().Format("20060102_150405")
	if e.cfg.CompressOutput {
		return fmt.Sprintf("yard_%s.json.gz", timestamp)
	}
	return fmt.Sprintf("yard_%s.json", timestamp)
}

// Write exports the snapshot and returns the path of the written file
func (e *Exporter) Write(snap yard.Snapshot, at time.Time) (string, error) {
	if at.IsZero() {
		at = time.Now()
	}
	doc := Build(snap, at)

	if err := os.MkdirAll(e.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(e.cfg.OutputDir, e.FileName(at))

	var err error
	if e.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, doc)
	} else {
		err = writeJSON(outputPath, doc)
	}
	if err != nil {
		return "", err
	}
	return outputPath, nil
}

// Read loads an export document, decompressing .gz files
func Read(path string) (Document, error) {
	var doc Document

	f, err := os.Open(path)
	if err != nil {
		return doc, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return doc, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return doc, fmt.Errorf("failed to decode export: %w", err)
	}
	return doc, nil
}

func writeJSON(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func writeGzipJSON(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(doc); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return gzWriter.Close()
}
