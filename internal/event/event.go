package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/FlipResolver_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Event types published by the resolution engine
const (
	CompositeCreated  Type = domain.EventTypeCompositeCreated
	CompositeReleased Type = domain.EventTypeCompositeReleased
	CatalogReloaded   Type = domain.EventTypeCatalogReloaded
)

// CompositePayloadV1 is the typed payload for composite events
type CompositePayloadV1 struct {
	CompositeID      string `json:"composite_id"`
	RecipeName       string `json:"recipe_name"`
	TriggeringItemID int    `json:"triggering_item_id"`
	IsSet            bool   `json:"is_set"`
	Instances        int    `json:"instances"`
	Profit           int64  `json:"profit"`
	Timestamp        int64  `json:"timestamp"`
}

// CatalogPayloadV1 is the typed payload for catalog reloads
type CatalogPayloadV1 struct {
	Recipes      int   `json:"recipes"`
	LocalRecipes int   `json:"local_recipes"`
	Sets         int   `json:"sets"`
	Timestamp    int64 `json:"timestamp"`
}

// NewCompositeCreatedEvent builds the event published after a composite is committed
func NewCompositeCreatedEvent(ct *domain.CompositeTransaction, isSet bool) Event {
	return newCompositeEvent(CompositeCreated, ct, isSet, ct.CreatedAt)
}

// NewCompositeReleasedEvent builds the event published after a composite is released
func NewCompositeReleasedEvent(ct *domain.CompositeTransaction, isSet bool) Event {
	at := time.Now()
	if ct.ReleasedAt != nil {
		at = *ct.ReleasedAt
	}
	return newCompositeEvent(CompositeReleased, ct, isSet, at)
}

func newCompositeEvent(t Type, ct *domain.CompositeTransaction, isSet bool, at time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: CompositePayloadV1{
			CompositeID:      ct.ID,
			RecipeName:       ct.RecipeName,
			TriggeringItemID: ct.TriggeringItemID,
			IsSet:            isSet,
			Instances:        ct.Instances,
			Profit:           ct.Profit,
			Timestamp:        at.Unix(),
		},
	}
}

// NewCatalogReloadedEvent builds the event published when a catalog is swapped in
func NewCatalogReloadedEvent(recipes, localRecipes, sets int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CatalogReloaded,
		Payload: CatalogPayloadV1{
			Recipes:      recipes,
			LocalRecipes: localRecipes,
			Sets:         sets,
			Timestamp:    time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
