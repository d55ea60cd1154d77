package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/flip"
	"github.com/osse101/FlipResolver_Go/internal/logger"
)

// RecipeTarget names the recipe to evaluate, by authored name or by set parent id
type RecipeTarget struct {
	RecipeName  string `json:"recipe_name,omitempty" validate:"required_without=SetParentID,max=200"`
	SetParentID int    `json:"set_parent_id,omitempty" validate:"omitempty,gt=0"`
}

func (t RecipeTarget) ref() flip.RecipeRef {
	return flip.RecipeRef{Name: t.RecipeName, SetParentID: t.SetParentID}
}

// FeasibilityRequest asks for the maximum instances a triggering offer can realize.
// Assigned switches to validating a selection in progress.
type FeasibilityRequest struct {
	OfferID string `json:"offer_id" validate:"required,max=100"`
	RecipeTarget
	Assigned *int `json:"assigned,omitempty" validate:"omitempty,gte=0"`
}

// BuildCompositeRequest commits an explicit selection: item id -> offer id -> amount
type BuildCompositeRequest struct {
	OfferID string `json:"offer_id" validate:"required,max=100"`
	RecipeTarget
	Selection map[int]map[string]int `json:"selection" validate:"required,min=1"`
}

// BuildMaxRequest commits the maximum achievable composite using oldest offers first
type BuildMaxRequest struct {
	OfferID string `json:"offer_id" validate:"required,max=100"`
	RecipeTarget
}

// HandleFeasibility computes the maximum instances and per-item targets
// @Summary Feasibility for a triggering offer
// @Tags composites
// @Accept json
// @Produce json
// @Param request body FeasibilityRequest true "Triggering offer and recipe"
// @Success 200 {object} flip.FeasibilityView
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/feasibility [post]
func HandleFeasibility(svc flip.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FeasibilityRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Feasibility"); err != nil {
			return
		}

		view, err := svc.Feasibility(r.Context(), flip.FeasibilityRequest{
			OfferID:  req.OfferID,
			Recipe:   req.ref(),
			Assigned: req.Assigned,
		})
		if err != nil {
			logger.FromContext(r.Context()).Warn("Feasibility failed", "error", err, "offer_id", req.OfferID)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, view)
	}
}

// HandleBuildComposite commits a user-selected set of partial offers
// @Summary Build composite transaction
// @Tags composites
// @Accept json
// @Produce json
// @Param request body BuildCompositeRequest true "Selection"
// @Success 201 {object} DataResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} NotReadyResponse
// @Security ApiKeyAuth
// @Router /api/v1/composites [post]
func HandleBuildComposite(svc flip.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BuildCompositeRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Build composite"); err != nil {
			return
		}

		ct, err := svc.Build(r.Context(), flip.BuildRequest{
			OfferID:   req.OfferID,
			Recipe:    req.ref(),
			Selection: req.Selection,
		})
		respondBuilt(w, r, ct, err)
	}
}

// HandleBuildMax auto-selects and commits the largest achievable composite
// @Summary Build maximum composite transaction
// @Tags composites
// @Accept json
// @Produce json
// @Param request body BuildMaxRequest true "Triggering offer and recipe"
// @Success 201 {object} DataResponse
// @Failure 409 {object} NotReadyResponse
// @Security ApiKeyAuth
// @Router /api/v1/composites/max [post]
func HandleBuildMax(svc flip.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BuildMaxRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Build max composite"); err != nil {
			return
		}

		ct, err := svc.BuildMax(r.Context(), req.OfferID, req.ref())
		respondBuilt(w, r, ct, err)
	}
}

func respondBuilt(w http.ResponseWriter, r *http.Request, ct *domain.CompositeTransaction, err error) {
	log := logger.FromContext(r.Context())
	if err != nil {
		log.Warn("Composite build failed", "error", err)
		respondServiceError(w, err)
		return
	}
	log.Info("Composite built", "composite_id", ct.ID, "profit", ct.Profit)
	respondJSON(w, http.StatusCreated, DataResponse{Message: MsgCompositeBuilt, Data: ct})
}

// HandleReleaseComposite returns a composite's consumption to its offers
// @Summary Release composite transaction
// @Tags composites
// @Produce json
// @Param id path string true "Composite ID"
// @Success 200 {object} DataResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/composites/{id} [delete]
func HandleReleaseComposite(svc flip.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		ct, err := svc.Release(r.Context(), id)
		if err != nil {
			logger.FromContext(r.Context()).Warn("Composite release failed", "error", err, "composite_id", id)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Message: MsgCompositeRelease, Data: ct})
	}
}

// HandleCompositeHistory lists composites that drew on an item
// @Summary Composite history for an item
// @Tags composites
// @Produce json
// @Param itemID path int true "Item ID"
// @Success 200 {array} domain.CompositeTransaction
// @Security ApiKeyAuth
// @Router /api/v1/items/{itemID}/composites [get]
func HandleCompositeHistory(svc flip.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := itemIDParam(w, r)
		if !ok {
			return
		}

		history, err := svc.History(r.Context(), itemID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to load composite history", "error", err, "item_id", itemID)
			respondServiceError(w, err)
			return
		}
		if history == nil {
			history = []domain.CompositeTransaction{}
		}

		respondJSON(w, http.StatusOK, history)
	}
}
