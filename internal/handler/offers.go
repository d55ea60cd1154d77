package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/flip"
	"github.com/osse101/FlipResolver_Go/internal/logger"
)

// maxOffersPerRequest bounds a single ingest batch
const maxOffersPerRequest = 1000

// OfferInput is one trade as reported by the game client
type OfferInput struct {
	ID             string    `json:"offer_id" validate:"required,max=100"`
	ItemID         int       `json:"item_id" validate:"required,gt=0"`
	Side           string    `json:"side" validate:"required,side"`
	QuantityFilled int       `json:"quantity_filled" validate:"gte=0"`
	TotalQuantity  int       `json:"total_quantity" validate:"gtefield=QuantityFilled"`
	Price          int64     `json:"price" validate:"gte=0"`
	MarginCheck    bool      `json:"margin_check"`
	Complete       bool      `json:"complete"`
	Time           time.Time `json:"time" validate:"required"`
}

// RecordOffersRequest carries a batch of new or updated offers
type RecordOffersRequest struct {
	Offers []OfferInput `json:"offers" validate:"required,min=1,max=1000,dive"`
}

func (o OfferInput) toDomain() domain.Offer {
	return domain.Offer{
		ID:             o.ID,
		ItemID:         o.ItemID,
		Side:           domain.Side(strings.ToLower(o.Side)),
		QuantityFilled: o.QuantityFilled,
		TotalQuantity:  o.TotalQuantity,
		Price:          o.Price,
		MarginCheck:    o.MarginCheck,
		Complete:       o.Complete,
		Time:           o.Time.UTC(),
	}
}

// HandleRecordOffers ingests offers from the game client
// @Summary Record offers
// @Description Inserts or updates offers. An update cannot lower an offer's fill below what composites consumed.
// @Tags offers
// @Accept json
// @Produce json
// @Param request body RecordOffersRequest true "Offers"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/offers [post]
func HandleRecordOffers(svc flip.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RecordOffersRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Record offers"); err != nil {
			return
		}

		offers := make([]domain.Offer, 0, len(req.Offers))
		for _, o := range req.Offers {
			offers = append(offers, o.toDomain())
		}

		if err := svc.RecordOffers(r.Context(), offers); err != nil {
			logger.FromContext(r.Context()).Warn("Failed to record offers", "error", err, "count", len(offers))
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgOffersRecorded})
	}
}
