package handler

import (
	"net/http"

	"github.com/osse101/FlipResolver_Go/internal/flip"
	"github.com/osse101/FlipResolver_Go/internal/logger"
)

// HandleReloadCatalog rebuilds the recipe catalog from its sources (admin only)
// @Summary Reload recipe catalog
// @Description Refetches the remote baseline, rereads local recipes and combination sets, then swaps the catalog in
// @Tags admin
// @Produce json
// @Success 200 {object} DataResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/admin/catalog/reload [post]
// @Security ApiKeyAuth
func HandleReloadCatalog(svc flip.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		log.Info("Reloading recipe catalog")

		stats, err := svc.ReloadCatalog(r.Context())
		if err != nil {
			log.Error("Failed to reload recipe catalog", "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Message: MsgCatalogReloaded, Data: stats})
	}
}

// HandleCatalogStats reports the size of the catalog in use
// @Summary Recipe catalog stats
// @Tags admin
// @Produce json
// @Success 200 {object} catalog.Stats
// @Router /api/v1/admin/catalog [get]
// @Security ApiKeyAuth
func HandleCatalogStats(svc flip.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.CatalogStats())
	}
}
