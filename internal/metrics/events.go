package metrics

import (
	"context"

	"github.com/osse101/FlipResolver_Go/internal/event"
	"github.com/osse101/FlipResolver_Go/internal/logger"
)

// EventMetricsCollector subscribes to engine events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every event type the collector understands
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, t := range []event.Type{event.CompositeCreated, event.CompositeReleased, event.CatalogReloaded} {
		bus.Subscribe(t, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.CompositeCreated:
		payload, ok := evt.Payload.(event.CompositePayloadV1)
		if !ok {
			log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type)
			return nil
		}
		kind := KindRecipe
		if payload.IsSet {
			kind = KindSet
		}
		CompositesBuilt.WithLabelValues(kind).Inc()
		CompositeProfit.WithLabelValues(kind).Observe(float64(payload.Profit))

	case event.CompositeReleased:
		CompositesReleased.Inc()

	case event.CatalogReloaded:
		CatalogReloads.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
