package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/flip"
	"github.com/osse101/FlipResolver_Go/internal/logger"
)

// RecipesResponse lists what an item can take part in
type RecipesResponse struct {
	ItemID  int             `json:"item_id"`
	Side    domain.Side     `json:"side"`
	Recipes []domain.Recipe `json:"recipes"`
	Set     flip.SetInfo    `json:"set"`
}

// HandleGetRecipes lists the recipes and combination sets an item can trigger
// @Summary Applicable recipes
// @Description Recipes and combination sets the item participates in for the given trade direction
// @Tags recipes
// @Produce json
// @Param itemID path int true "Item ID"
// @Param side query string false "buy or sell" default(sell)
// @Success 200 {object} RecipesResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/items/{itemID}/recipes [get]
func HandleGetRecipes(svc flip.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		itemID, ok := itemIDParam(w, r)
		if !ok {
			return
		}

		side := domain.Side(strings.ToLower(GetOptionalQueryParam(r, "side", string(domain.SideSell))))
		if !side.Valid() {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidSide)
			return
		}

		recipes, err := svc.ApplicableRecipes(r.Context(), itemID, side)
		if err != nil {
			log.Error("Failed to list applicable recipes", "error", err, "item_id", itemID)
			respondServiceError(w, err)
			return
		}
		if recipes == nil {
			recipes = []domain.Recipe{}
		}

		respondJSON(w, http.StatusOK, RecipesResponse{
			ItemID:  itemID,
			Side:    side,
			Recipes: recipes,
			Set:     svc.SetInfo(r.Context(), itemID),
		})
	}
}
