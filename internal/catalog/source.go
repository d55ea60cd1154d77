package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/logger"
)

// LoaderConfig names where catalog data comes from. Any field may be empty.
type LoaderConfig struct {
	RemoteURL           string
	LocalRecipesPath    string
	CombinationSetsPath string
	FetchTimeout        time.Duration
	CacheSize           int
}

// Loader builds catalogs from the remote baseline, the local recipe file and the
// bundled combination-set file
type Loader struct {
	cfg    LoaderConfig
	client *resty.Client
}

// NewLoader creates a Loader. The resty client is reused across reloads.
func NewLoader(cfg LoaderConfig) *Loader {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(250 * time.Millisecond)
	return &Loader{cfg: cfg, client: client}
}

// Load builds a catalog. It never fails: each source that cannot be read degrades to
// "no data" and is logged as CatalogUnavailable.
func (l *Loader) Load(ctx context.Context) *Catalog {
	log := logger.FromContext(ctx)

	baseline := l.loadSource(ctx, SourceRemote, l.cfg.RemoteURL, func() ([]domain.Recipe, error) {
		return l.FetchRemote(ctx)
	})
	local := l.loadSource(ctx, SourceLocal, l.cfg.LocalRecipesPath, func() ([]domain.Recipe, error) {
		return ReadRecipesFile(ctx, l.cfg.LocalRecipesPath)
	})

	var sets []domain.CombinationSet
	if l.cfg.CombinationSetsPath == "" {
		log.Debug(LogMsgSourceMissing, "source", SourceSets)
	} else {
		loaded, err := ReadCombinationSetsFile(ctx, l.cfg.CombinationSetsPath)
		if err != nil {
			log.Warn(LogMsgSourceFailed, "source", SourceSets, "error", err)
		}
		sets = loaded
	}

	cat := New(baseline, local, sets, WithLookupCache(l.cacheSize(), 0))
	st := cat.Stats()
	log.Info(LogMsgCatalogLoaded, "recipes", st.Recipes, "local_recipes", st.LocalRecipes, "sets", st.Sets)
	return cat
}

func (l *Loader) cacheSize() int {
	if l.cfg.CacheSize > 0 {
		return l.cfg.CacheSize
	}
	return DefaultLookupCacheSize
}

func (l *Loader) loadSource(ctx context.Context, source, location string, load func() ([]domain.Recipe, error)) []domain.Recipe {
	log := logger.FromContext(ctx)
	if location == "" {
		log.Debug(LogMsgSourceMissing, "source", source)
		return nil
	}
	recipes, err := load()
	if err != nil {
		log.Warn(LogMsgSourceFailed, "source", source, "location", location, "error", err)
		return nil
	}
	return recipes
}

// FetchRemote downloads and parses the remote baseline recipe list
func (l *Loader) FetchRemote(ctx context.Context) ([]domain.Recipe, error) {
	resp, err := l.client.R().SetContext(ctx).Get(l.cfg.RemoteURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrCatalogUnavailable, l.cfg.RemoteURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: fetch %s: status %d", domain.ErrCatalogUnavailable, l.cfg.RemoteURL, resp.StatusCode())
	}

	recipes, err := ParseRecipes(ctx, SourceRemote, resp.Body())
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug(LogMsgRemoteFetched, "count", len(recipes), "duration", resp.Time())
	return recipes, nil
}

// ReadRecipesFile parses a user-local recipe file. A missing file yields no recipes.
func ReadRecipesFile(ctx context.Context, path string) ([]domain.Recipe, error) {
	data, err := readOptional(ctx, path)
	if err != nil || data == nil {
		return nil, err
	}
	return ParseRecipes(ctx, SourceLocal, data)
}

// ReadCombinationSetsFile parses the bundled parent -> members document
func ReadCombinationSetsFile(ctx context.Context, path string) ([]domain.CombinationSet, error) {
	data, err := readOptional(ctx, path)
	if err != nil || data == nil {
		return nil, err
	}
	return ParseCombinationSets(ctx, data)
}

func readOptional(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.FromContext(ctx).Debug(LogMsgLocalFileMissing, "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrCatalogUnavailable, path, err)
	}
	return data, nil
}
