package repository

import (
	"context"

	"github.com/osse101/FlipResolver_Go/internal/domain"
)

// Offer defines the interface for offer history persistence.
// Offers are owned by the game client; the resolver only records and reads them.
type Offer interface {
	OfferWriter
	GetOfferByID(ctx context.Context, offerID string) (*domain.Offer, error)
	ListOffersByItem(ctx context.Context, itemID int) ([]domain.Offer, error)
}

// OfferWriter inserts or replaces offer snapshots by id
type OfferWriter interface {
	UpsertOffers(ctx context.Context, offers []domain.Offer) error
}
