package yard

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/yardtrack/yardmap/internal/yard"

// RegisterMetrics exposes zone and marker gauges on the global OTel meter.
// It is a no-op when no meter provider is configured.
func RegisterMetrics(s *Store) (metric.Registration, error) {
	m := otel.Meter(instrumentationName)

	zones, err := m.Int64ObservableGauge(
		"yard.zones",
		metric.WithDescription("Number of zones on the map"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating zones gauge: %w", err)
	}

	markers, err := m.Int64ObservableGauge(
		"yard.markers",
		metric.WithDescription("Number of markers by type and zone assignment"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markers gauge: %w", err)
	}

	gestures, err := m.Int64ObservableGauge(
		"yard.gestures.active",
		metric.WithDescription("Zones with a move or resize gesture in progress"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gestures gauge: %w", err)
	}

	reg, err := m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			occ := s.Occupancy()
			o.ObserveInt64(zones, int64(len(occ)-1))
			assigned := map[string]int64{}
			unassigned := map[string]int64{}
			for _, z := range occ {
				for t, c := range z.Counts {
					if z.ZoneID == "" {
						unassigned[string(t)] += int64(c)
					} else {
						assigned[string(t)] += int64(c)
					}
				}
			}
			for t, c := range assigned {
				o.ObserveInt64(markers, c, metric.WithAttributes(
					attribute.String("type", t), attribute.Bool("assigned", true)))
			}
			for t, c := range unassigned {
				o.ObserveInt64(markers, c, metric.WithAttributes(
					attribute.String("type", t), attribute.Bool("assigned", false)))
			}
			o.ObserveInt64(gestures, int64(len(s.gestures.Active())))
			return nil
		},
		zones, markers, gestures,
	)
	if err != nil {
		return nil, fmt.Errorf("registering yard callback: %w", err)
	}
	return reg, nil
}
