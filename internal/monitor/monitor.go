// Package monitor samples zone occupancy and ships it to a point writer.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/yardtrack/yardmap/internal/influx"
	"github.com/yardtrack/yardmap/internal/queue"
	"github.com/yardtrack/yardmap/pkg/core"
)

// ErrAlreadyRunning is returned by Start when the loop is active
var ErrAlreadyRunning = errors.New("monitor already running")

// DefaultMaxQueued bounds the samples kept while the writer is failing
const DefaultMaxQueued = 1440

// OccupancySource provides the current per-zone marker counts
type OccupancySource interface {
	Occupancy() []core.Occupancy
}

// PointWriter accepts telemetry points
type PointWriter interface {
	WritePoint(ctx context.Context, point *influxdb2_write.Point) error
}

// Sample is the occupancy of every zone at one instant
type Sample struct {
	At    time.Time
	Zones []core.Occupancy

	// points already written by an earlier, partly failed flush
	written int
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Source     OccupancySource
	Writer     PointWriter
	Logger     *slog.Logger
	StatusPath string // optional text file rewritten on every tick
	MaxQueued  int
	Now        func() time.Time
}

// Service manages occupancy sampling
type Service struct {
	deps    Dependencies
	samples *queue.Queue[Sample]

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.MaxQueued <= 0 {
		deps.MaxQueued = DefaultMaxQueued
	}
	return &Service{
		deps:    deps,
		samples: queue.NewBounded[Sample](deps.MaxQueued),
	}
}

// IsRunning returns whether the sampling loop is running
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Pending returns the number of samples not yet written
func (s *Service) Pending() int {
	return s.samples.Len()
}

// Dropped returns the number of samples discarded while the writer was failing
func (s *Service) Dropped() int {
	return s.samples.Dropped()
}

// Sample takes an occupancy sample and queues it for the next flush
func (s *Service) Sample() Sample {
	smp := Sample{
		At:    s.deps.Now(),
		Zones: s.deps.Source.Occupancy(),
	}
	s.samples.Push(smp)
	return smp
}

// Flush writes every queued sample. Samples that could not be written stay
// queued for the next flush, which resumes after the last point written.
// It returns the number of points written.
func (s *Service) Flush(ctx context.Context) (int, error) {
	pending := s.samples.GetAndEmpty()
	if len(pending) == 0 {
		return 0, nil
	}
	if s.deps.Writer == nil {
		s.samples.Requeue(pending...)
		return 0, errors.New("no point writer configured")
	}

	written := 0
	for i, smp := range pending {
		points := influx.OccupancyPoints(smp.Zones, smp.At)
		for j := smp.written; j < len(points); j++ {
			if err := s.deps.Writer.WritePoint(ctx, points[j]); err != nil {
				pending[i].written = j
				s.samples.Requeue(pending[i:]...)
				return written, fmt.Errorf("writing occupancy sample: %w", err)
			}
			written++
		}
	}
	return written, nil
}

// Status renders the last sample as text lines
func Status(smp Sample) []string {
	lines := []string{fmt.Sprintf("sampled at %s", smp.At.UTC().Format(time.RFC3339))}
	for _, z := range smp.Zones {
		name := z.ZoneName
		if z.ZoneID == "" {
			name = "(unassigned)"
		}
		lines = append(lines, fmt.Sprintf("%s: beacons=%d motorcycles=%d",
			name, z.Counts[core.MarkerBeacon], z.Counts[core.MarkerMotorcycle]))
	}
	return lines
}

func (s *Service) writeStatus(smp Sample) error {
	if s.deps.StatusPath == "" {
		return nil
	}
	f, err := os.Create(s.deps.StatusPath)
	if err != nil {
		return fmt.Errorf("creating status file: %w", err)
	}
	defer f.Close()
	for _, line := range Status(smp) {
		if _, err := f.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("writing status file: %w", err)
		}
	}
	return nil
}

func (s *Service) tick(ctx context.Context) {
	smp := s.Sample()
	if err := s.writeStatus(smp); err != nil {
		s.deps.Logger.Error("Error writing status file", "error", err)
	}
	n, err := s.Flush(ctx)
	if err != nil {
		s.deps.Logger.Warn("Occupancy flush failed", "error", err,
			"pending", s.Pending(), "dropped", s.Dropped())
		return
	}
	s.deps.Logger.Debug("Occupancy flushed", "points", n)
}

// Start runs the sampling loop every interval until ctx is done or Stop is called
func (s *Service) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid monitor interval %v", interval)
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	s.isRunning = true
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
			close(done)
		}()

		s.deps.Logger.Debug("Starting occupancy monitor", "interval", interval)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()

	return nil
}

// Stop ends the sampling loop and waits for it to exit
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
