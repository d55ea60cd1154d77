package worker

import (
	"context"

	"github.com/osse101/FlipResolver_Go/internal/catalog"
	"github.com/osse101/FlipResolver_Go/internal/logger"
)

// CatalogReloader rebuilds the recipe catalog in place
type CatalogReloader interface {
	ReloadCatalog(ctx context.Context) (catalog.Stats, error)
}

// CatalogRefreshJob periodically picks up changes to the remote baseline and the
// local recipe files
type CatalogRefreshJob struct {
	reloader CatalogReloader
}

// NewCatalogRefreshJob creates the job
func NewCatalogRefreshJob(reloader CatalogReloader) *CatalogRefreshJob {
	return &CatalogRefreshJob{reloader: reloader}
}

// Process reloads the catalog once
func (j *CatalogRefreshJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgCatalogRefreshStarting)

	stats, err := j.reloader.ReloadCatalog(ctx)
	if err != nil {
		return err
	}

	log.Info(LogMsgCatalogRefreshCompleted, "recipes", stats.Recipes, "local_recipes", stats.LocalRecipes, "sets", stats.Sets)
	return nil
}
