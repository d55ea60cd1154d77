package handler

import (
	"net/http"
	"strconv"

	"github.com/osse101/FlipResolver_Go/internal/pricing"
)

// TaxResponse shows how a sell price is realized
type TaxResponse struct {
	Price        int64 `json:"price"`
	Tax          int64 `json:"tax"`
	PostTaxPrice int64 `json:"post_tax_price"`
}

// HandleTax reports the GE tax on a unit sell price
// @Summary Post-tax price
// @Tags pricing
// @Produce json
// @Param price query int true "Unit price"
// @Success 200 {object} TaxResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/tax [get]
func HandleTax() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		price, err := strconv.ParseInt(r.URL.Query().Get("price"), 10, 64)
		if err != nil || price < 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidPrice)
			return
		}

		respondJSON(w, http.StatusOK, TaxResponse{
			Price:        price,
			Tax:          pricing.Tax(price),
			PostTaxPrice: pricing.PostTaxPrice(price),
		})
	}
}
