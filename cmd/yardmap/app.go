package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/metric"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/yardtrack/yardmap/internal/config"
	"github.com/yardtrack/yardmap/internal/dispatcher"
	"github.com/yardtrack/yardmap/internal/export"
	"github.com/yardtrack/yardmap/internal/geo"
	"github.com/yardtrack/yardmap/internal/handlers"
	"github.com/yardtrack/yardmap/internal/influx"
	"github.com/yardtrack/yardmap/internal/logging"
	"github.com/yardtrack/yardmap/internal/monitor"
	intOtel "github.com/yardtrack/yardmap/internal/otel"
	"github.com/yardtrack/yardmap/internal/yard"
)

const (
	statusFileName = "yardmap_status.txt"
	backupFileName = "yardmap_occupancy.lp.gz"
)

// app owns every long-lived service of one process
type app struct {
	start   time.Time
	logPath string
	logFile io.WriteCloser

	logs   *logging.SlogManager
	logger *slog.Logger
	otel   *intOtel.Provider

	store      *yard.Store
	dispatcher *dispatcher.Dispatcher
	metrics    metric.Registration
	influx     *influx.Manager
	monitor    *monitor.Service
}

// newApp loads configuration and wires the services together. A missing
// config file is not fatal; the defaults are used instead.
func newApp(ctx context.Context, configDir string) (*app, error) {
	a := &app{start: time.Now(), logs: logging.NewSlogManager()}

	// console logging until the log file is known
	a.logs.Setup(nil, "info", nil)
	a.logger = a.logs.Logger()

	if err := config.LoadDotEnv(filepath.Join(configDir, ".env")); err != nil {
		a.logger.Warn("Failed to load env file", "error", err)
	}
	if err := config.Load(configDir); err != nil {
		a.logger.Warn("Failed to load config, using defaults!", "error", err)
	}

	lc := config.GetLogConfig()
	a.logPath = logging.LogFilePath(lc.Dir, appName, a.start)
	a.logFile = logging.OpenRotating(a.logPath, logging.Rotation{
		MaxSizeMB:  lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAgeDays: lc.MaxAgeDays,
		Compress:   lc.Compress,
	})

	var err error
	oc := config.GetOTelConfig()
	a.otel, err = intOtel.New(intOtel.Config{
		Enabled:      oc.Enabled,
		ServiceName:  oc.ServiceName,
		BatchTimeout: oc.BatchTimeout,
		LogWriter:    a.logFile,
		MetricWriter: a.logFile,
		Endpoint:     oc.Endpoint,
		Insecure:     oc.Insecure,
	})
	if err != nil {
		a.logger.Error("Failed to initialize OTel provider", "error", err)
		a.otel, _ = intOtel.New(intOtel.Config{})
	}

	var otelLogs *sdklog.LoggerProvider
	if a.otel.Enabled() {
		otelLogs = a.otel.LoggerProvider()
	}
	a.logs.SetContextProvider(a.logContext)
	a.logs.Setup(a.logFile, lc.Level, otelLogs)
	a.logger = a.logs.Logger()
	a.logger.Info("Logging to file", "path", a.logPath, "version", Version, "buildDate", BuildDate)

	a.store = yard.NewStore(yard.Dependencies{
		Logger:    a.logger.With("component", "yard"),
		Projector: a.projector(),
	})
	a.metrics, err = yard.RegisterMetrics(a.store)
	if err != nil {
		a.logger.Warn("Failed to register yard metrics", "error", err)
	}

	dl := logging.NewZerolog(a.logFile, lc.Level, "dispatcher")
	a.dispatcher, err = newCommandDispatcher(a.store, export.New(config.GetExportConfig()),
		logging.NewDispatcherLogger(dl), a.logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	if err := a.startMonitor(ctx, lc); err != nil {
		a.logger.Warn("Occupancy monitor not started", "error", err)
	}
	return a, nil
}

// newCommandDispatcher registers the yard commands on a new dispatcher
func newCommandDispatcher(store *yard.Store, exporter handlers.SnapshotWriter, dl dispatcher.Logger, logger *slog.Logger) (*dispatcher.Dispatcher, error) {
	d, err := dispatcher.New(dl)
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}
	handlers.NewService(handlers.Dependencies{
		Store:     store,
		Exporter:  exporter,
		Logger:    logger.With("component", "handlers"),
		Version:   Version,
		BuildDate: BuildDate,
	}).RegisterHandlers(d)
	return d, nil
}

func (a *app) projector() *geo.Projector {
	yc := config.GetYardConfig()
	if !yc.GeoReferenced() {
		a.logger.Info("Yard is not geo-referenced, GPS placement disabled")
		return nil
	}
	p, err := geo.NewProjector(yc.OriginLon, yc.OriginLat, yc.WidthMeters, yc.HeightMeters)
	if err != nil {
		a.logger.Warn("Invalid yard geo-reference, GPS placement disabled", "error", err)
		return nil
	}
	return p
}

func (a *app) startMonitor(ctx context.Context, lc config.LogConfig) error {
	ic := config.GetInfluxConfig()
	if !ic.Enabled {
		return nil
	}

	a.influx = influx.NewManager(ic, logging.NewZerolog(a.logFile, lc.Level, "influx"),
		filepath.Join(lc.Dir, backupFileName))
	if err := a.influx.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	}

	a.monitor = monitor.NewService(monitor.Dependencies{
		Source:     a.store,
		Writer:     a.influx,
		Logger:     a.logger.With("component", "monitor"),
		StatusPath: filepath.Join(lc.Dir, statusFileName),
	})
	return a.monitor.Start(ctx, ic.Interval)
}

func (a *app) logContext() []slog.Attr {
	if a.store == nil {
		return nil
	}
	return []slog.Attr{
		slog.Int("revision", a.store.Revision()),
		slog.Int("zones", len(a.store.Zones())),
	}
}

// Close stops the services in reverse start order. The last sample is
// flushed before the telemetry writer goes away.
func (a *app) Close() error {
	var errs []error

	if a.monitor != nil {
		a.monitor.Stop()
		a.monitor.Sample()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := a.monitor.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
		cancel()
	}
	if a.influx != nil {
		errs = append(errs, a.influx.Close())
	}
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	if a.metrics != nil {
		errs = append(errs, a.metrics.Unregister())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	errs = append(errs, a.logs.Flush(ctx))
	if a.otel != nil {
		errs = append(errs, a.otel.Shutdown(ctx))
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}
