package repository

import (
	"context"

	"github.com/osse101/FlipResolver_Go/internal/domain"
)

// Composite defines the interface for composite transaction persistence
type Composite interface {
	BeginTx(ctx context.Context) (Tx, error)
	GetComposite(ctx context.Context, compositeID string) (*domain.CompositeTransaction, error)
	// ListCompositesByItem returns composites with any selected offer of itemID, newest first
	ListCompositesByItem(ctx context.Context, itemID int) ([]domain.CompositeTransaction, error)
	// SumConsumption returns the consumed amount per offer across unreleased composites
	SumConsumption(ctx context.Context) (map[string]int, error)
}
