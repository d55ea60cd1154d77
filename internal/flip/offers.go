package flip

import (
	"context"
	"fmt"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/logger"
)

// RecordOffers stores new or updated offers from the game client. An update may
// not shrink an offer's fill below what composites have already consumed.
func (s *service) RecordOffers(ctx context.Context, offers []domain.Offer) error {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgRecordOffers, "count", len(offers))

	for _, o := range offers {
		if err := validateOffer(o); err != nil {
			return err
		}
	}
	if err := s.ledger.RecordOffers(ctx, offers, s.offers); err != nil {
		log.Warn(LogMsgRecordOffers, "error", err)
		return err
	}

	log.Info(LogMsgOffersRecorded, "count", len(offers))
	return nil
}

func validateOffer(o domain.Offer) error {
	switch {
	case o.ID == "":
		return fmt.Errorf("%w: offer id is required", domain.ErrInvalidInput)
	case o.ItemID <= 0 || o.ItemID == domain.CoinsItemID:
		return fmt.Errorf("%w: offer %s has invalid item id %d", domain.ErrInvalidInput, o.ID, o.ItemID)
	case !o.Side.Valid():
		return fmt.Errorf("%w: offer %s has unknown side %q", domain.ErrInvalidInput, o.ID, o.Side)
	case o.QuantityFilled < 0 || o.TotalQuantity < o.QuantityFilled:
		return fmt.Errorf("%w: offer %s filled %d of %d", domain.ErrInvalidInput, o.ID, o.QuantityFilled, o.TotalQuantity)
	case o.Price < 0:
		return fmt.Errorf("%w: offer %s has negative price", domain.ErrInvalidInput, o.ID)
	}
	return nil
}
