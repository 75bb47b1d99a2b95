// Package handlers binds the yard commands to the dispatcher.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yardtrack/yardmap/internal/dispatcher"
	"github.com/yardtrack/yardmap/internal/parser"
	"github.com/yardtrack/yardmap/internal/yard"
)

const (
	// ResultOK is returned by commands that have no other result
	ResultOK = "ok"
	// ResultNoop is returned when a command changed nothing
	ResultNoop = "noop"
)

// ErrExportDisabled is returned by :EXPORT: when no exporter is configured
var ErrExportDisabled = errors.New("export is not configured")

// SnapshotWriter persists a snapshot of the yard and returns where it went
type SnapshotWriter interface {
	Write(snap yard.Snapshot, at time.Time) (string, error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Store     *yard.Store
	Parser    *parser.Parser
	Exporter  SnapshotWriter
	Logger    *slog.Logger
	Version   string
	BuildDate string
}

// Service provides the handler methods for the yard commands
type Service struct {
	deps Dependencies
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Parser == nil {
		deps.Parser = parser.NewParser(deps.Logger)
	}
	return &Service{deps: deps}
}

// RegisterHandlers registers all yard commands with the dispatcher.
// Every command is synchronous so each one observes the state left by the
// previous one.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(":VERSION:", s.handleVersion)

	// zones
	d.Register(":ZONE:CREATE:", s.handleZoneCreate, dispatcher.Logged())
	d.Register(":ZONE:RENAME:", s.handleZoneRename, dispatcher.Logged())
	d.Register(":ZONE:MOVE:BEGIN:", s.handleZoneMoveBegin, dispatcher.Logged())
	d.Register(":ZONE:RESIZE:BEGIN:", s.handleZoneResizeBegin, dispatcher.Logged())
	d.Register(":ZONE:MOVE:", s.handleZoneMove, dispatcher.Logged())
	d.Register(":ZONE:RESIZE:", s.handleZoneResize, dispatcher.Logged())
	d.Register(":ZONE:GESTURE:END:", s.handleZoneGestureEnd, dispatcher.Logged())
	d.Register(":ZONE:DELETE:", s.handleZoneDelete, dispatcher.Logged())
	d.Register(":ZONE:RESOLVE:", s.handleZoneResolve, dispatcher.Logged())
	d.Register(":ZONE:LIST:", s.handleZoneList)

	// markers
	d.Register(":MARKER:PLACE:", s.handleMarkerPlace, dispatcher.Logged())
	d.Register(":MARKER:GPS:", s.handleMarkerGPS, dispatcher.Logged())
	d.Register(":MARKER:REMOVE:", s.handleMarkerRemove, dispatcher.Logged())
	d.Register(":MARKER:LIST:", s.handleMarkerList)

	// domain records
	d.Register(":BEACON:ADD:", s.handleBeaconAdd, dispatcher.Logged())
	d.Register(":BEACON:UPDATE:", s.handleBeaconUpdate, dispatcher.Logged())
	d.Register(":BEACON:DELETE:", s.handleBeaconDelete, dispatcher.Logged())
	d.Register(":MOTORCYCLE:ADD:", s.handleMotorcycleAdd, dispatcher.Logged())
	d.Register(":MOTORCYCLE:UPDATE:", s.handleMotorcycleUpdate, dispatcher.Logged())
	d.Register(":MOTORCYCLE:DELETE:", s.handleMotorcycleDelete, dispatcher.Logged())

	// reporting
	d.Register(":STATUS:", s.handleStatus)
	d.Register(":EXPORT:", s.handleExport, dispatcher.Logged())
	d.Register(":YARD:RESET:", s.handleReset, dispatcher.Logged())
}

func (s *Service) handleVersion(e dispatcher.Event) (any, error) {
	return []string{s.deps.Version, s.deps.BuildDate}, nil
}

func (s *Service) handleZoneCreate(e dispatcher.Event) (any, error) {
	zc, err := s.deps.Parser.ParseZoneCreate(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zone: %w", err)
	}
	z, err := s.deps.Store.CreateZone(zc.Name, zc.Color, zc.Position)
	if err != nil {
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}
	return z.ID, nil
}

func (s *Service) handleZoneRename(e dispatcher.Event) (any, error) {
	zr, err := s.deps.Parser.ParseZoneRename(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zone rename: %w", err)
	}
	if _, err := s.deps.Store.RenameZone(zr.ZoneID, zr.Name, zr.Color); err != nil {
		return nil, fmt.Errorf("failed to rename zone: %w", err)
	}
	return ResultOK, nil
}

func (s *Service) handleZoneMoveBegin(e dispatcher.Event) (any, error) {
	id, err := s.deps.Parser.ParseZoneID(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zone id: %w", err)
	}
	if err := s.deps.Store.BeginMove(id); err != nil {
		return nil, fmt.Errorf("failed to begin move: %w", err)
	}
	return ResultOK, nil
}

func (s *Service) handleZoneResizeBegin(e dispatcher.Event) (any, error) {
	id, err := s.deps.Parser.ParseZoneID(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zone id: %w", err)
	}
	if err := s.deps.Store.BeginResize(id); err != nil {
		return nil, fmt.Errorf("failed to begin resize: %w", err)
	}
	return ResultOK, nil
}

func (s *Service) handleZoneMove(e dispatcher.Event) (any, error) {
	zm, err := s.deps.Parser.ParseZoneMove(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zone move: %w", err)
	}
	if _, err := s.deps.Store.MoveZone(zm.ZoneID, zm.Top, zm.Left); err != nil {
		return nil, fmt.Errorf("failed to move zone: %w", err)
	}
	return ResultOK, nil
}

func (s *Service) handleZoneResize(e dispatcher.Event) (any, error) {
	zr, err := s.deps.Parser.ParseZoneResize(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zone resize: %w", err)
	}
	if _, err := s.deps.Store.ResizeZone(zr.ZoneID, zr.Width, zr.Height); err != nil {
		return nil, fmt.Errorf("failed to resize zone: %w", err)
	}
	return ResultOK, nil
}

func (s *Service) handleZoneGestureEnd(e dispatcher.Event) (any, error) {
	id, err := s.deps.Parser.ParseZoneID(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zone id: %w", err)
	}
	s.deps.Store.EndGesture(id)
	return ResultOK, nil
}

func (s *Service) handleZoneDelete(e dispatcher.Event) (any, error) {
	id, err := s.deps.Parser.ParseZoneID(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zone id: %w", err)
	}
	keys, err := s.deps.Store.DeleteZone(id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete zone: %w", err)
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out, nil
}

func (s *Service) handleZoneResolve(e dispatcher.Event) (any, error) {
	p, err := s.deps.Parser.ParsePoint(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse point: %w", err)
	}
	return s.deps.Store.ResolveZone(p), nil
}

func (s *Service) handleZoneList(e dispatcher.Event) (any, error) {
	return s.deps.Store.Zones(), nil
}

func (s *Service) handleMarkerPlace(e dispatcher.Event) (any, error) {
	mp, err := s.deps.Parser.ParseMarkerPlace(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse marker: %w", err)
	}
	m, err := s.deps.Store.PlaceMarker(mp.Key.Type, mp.Key.ID, mp.Position)
	if err != nil {
		return nil, fmt.Errorf("failed to place marker: %w", err)
	}
	return m.ZoneID, nil
}

func (s *Service) handleMarkerGPS(e dispatcher.Event) (any, error) {
	mf, err := s.deps.Parser.ParseMarkerGPS(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gps fix: %w", err)
	}
	m, err := s.deps.Store.PlaceMarkerGPS(mf.Key.Type, mf.Key.ID, mf.Longitude, mf.Latitude)
	if err != nil {
		return nil, fmt.Errorf("failed to place marker from gps: %w", err)
	}
	return m.ZoneID, nil
}

func (s *Service) handleMarkerRemove(e dispatcher.Event) (any, error) {
	key, err := s.deps.Parser.ParseMarkerKey(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse marker key: %w", err)
	}
	if !s.deps.Store.RemoveMarker(key.Type, key.ID) {
		return ResultNoop, nil
	}
	return ResultOK, nil
}

func (s *Service) handleMarkerList(e dispatcher.Event) (any, error) {
	t, err := s.deps.Parser.ParseMarkerType(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse marker type: %w", err)
	}
	return s.deps.Store.Markers(t), nil
}

func (s *Service) handleBeaconAdd(e dispatcher.Event) (any, error) {
	b, err := s.deps.Parser.ParseBeacon(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse beacon: %w", err)
	}
	b.LastSeen = e.Timestamp
	if err := s.deps.Store.AddBeacon(b); err != nil {
		return nil, fmt.Errorf("failed to add beacon: %w", err)
	}
	return ResultOK, nil
}

func (s *Service) handleBeaconUpdate(e dispatcher.Event) (any, error) {
	b, err := s.deps.Parser.ParseBeacon(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse beacon: %w", err)
	}
	b.LastSeen = e.Timestamp
	if err := s.deps.Store.UpdateBeacon(b); err != nil {
		return nil, fmt.Errorf("failed to update beacon: %w", err)
	}
	return ResultOK, nil
}

func (s *Service) handleBeaconDelete(e dispatcher.Event) (any, error) {
	id, err := s.deps.Parser.ParseEntityID(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse beacon id: %w", err)
	}
	if err := s.deps.Store.DeleteBeacon(id); err != nil {
		return nil, fmt.Errorf("failed to delete beacon: %w", err)
	}
	return ResultOK, nil
}

func (s *Service) handleMotorcycleAdd(e dispatcher.Event) (any, error) {
	m, err := s.deps.Parser.ParseMotorcycle(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse motorcycle: %w", err)
	}
	if err := s.deps.Store.AddMotorcycle(m); err != nil {
		return nil, fmt.Errorf("failed to add motorcycle: %w", err)
	}
	return ResultOK, nil
}

func (s *Service) handleMotorcycleUpdate(e dispatcher.Event) (any, error) {
	m, err := s.deps.Parser.ParseMotorcycle(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse motorcycle: %w", err)
	}
	if err := s.deps.Store.UpdateMotorcycle(m); err != nil {
		return nil, fmt.Errorf("failed to update motorcycle: %w", err)
	}
	return ResultOK, nil
}

func (s *Service) handleMotorcycleDelete(e dispatcher.Event) (any, error) {
	id, err := s.deps.Parser.ParseEntityID(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse motorcycle id: %w", err)
	}
	if err := s.deps.Store.DeleteMotorcycle(id); err != nil {
		return nil, fmt.Errorf("failed to delete motorcycle: %w", err)
	}
	return ResultOK, nil
}

func (s *Service) handleStatus(e dispatcher.Event) (any, error) {
	return s.deps.Store.Occupancy(), nil
}

func (s *Service) handleReset(e dispatcher.Event) (any, error) {
	s.deps.Store.Reset()
	return ResultOK, nil
}

func (s *Service) handleExport(e dispatcher.Event) (any, error) {
	if s.deps.Exporter == nil {
		return nil, ErrExportDisabled
	}
	snap := s.deps.Store.Snapshot()
	path, err := s.deps.Exporter.Write(snap, e.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to export yard: %w", err)
	}
	s.deps.Logger.Info("Yard exported", "path", path, "revision", snap.Revision,
		"zones", len(snap.Zones), "markers", len(snap.Markers))
	return path, nil
}

