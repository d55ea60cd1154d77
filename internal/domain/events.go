package domain

// Event type constants used for event bus subscriptions and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "composite.created")
const (
	// EventTypeCompositeCreated is published after a composite transaction is committed
	EventTypeCompositeCreated = "composite.created"

	// EventTypeCompositeReleased is published when a composite's consumption is returned to the ledger
	EventTypeCompositeReleased = "composite.released"

	// EventTypeCatalogReloaded is published after a new recipe catalog replaces the current one
	EventTypeCatalogReloaded = "catalog.reloaded"
)
