// Package flip wires the catalog, feasibility calculator, ledger and composite
// builder into the operations exposed over HTTP.
package flip

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/osse101/FlipResolver_Go/internal/catalog"
	"github.com/osse101/FlipResolver_Go/internal/composite"
	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/event"
	"github.com/osse101/FlipResolver_Go/internal/feasibility"
	"github.com/osse101/FlipResolver_Go/internal/logger"
	"github.com/osse101/FlipResolver_Go/internal/repository"
)

// Ledger is the consumption state the service reads and commits through
type Ledger interface {
	composite.Committer
	Available(o domain.Offer) int
	RecordOffers(ctx context.Context, offers []domain.Offer, w repository.OfferWriter) error
	Release(ctx context.Context, compositeID string) (*domain.CompositeTransaction, error)
}

// CatalogLoader builds a fresh catalog from its sources
type CatalogLoader interface {
	Load(ctx context.Context) *catalog.Catalog
}

// Options tunes candidate selection
type Options struct {
	// IncludeMarginChecks lets small margin-check trades count as candidates
	IncludeMarginChecks bool
}

// RecipeRef names the recipe to resolve: an authored recipe by name or a
// combination set by parent item id
type RecipeRef struct {
	Name        string `json:"recipe_name,omitempty"`
	SetParentID int    `json:"set_parent_id,omitempty"`
}

// FeasibilityRequest asks how far a triggering offer can be taken through a recipe.
// Assigned, when set, is the amount of the triggering offer the user has assigned so far.
type FeasibilityRequest struct {
	OfferID  string
	Recipe   RecipeRef
	Assigned *int
}

// FeasibilityView is the calculator output plus the candidates it was computed from
type FeasibilityView struct {
	Recipe     domain.Recipe                   `json:"recipe"`
	Trigger    domain.Offer                    `json:"trigger"`
	Result     feasibility.Result              `json:"result"`
	Candidates map[int][]feasibility.Candidate `json:"candidates"`
}

// BuildRequest commits an explicit selection: item id -> offer id -> amount
type BuildRequest struct {
	OfferID   string
	Recipe    RecipeRef
	Selection map[int]map[string]int
}

// SetInfo describes an item's combination-set membership
type SetInfo struct {
	IsParent bool  `json:"is_parent"`
	IsMember bool  `json:"is_member"`
	Members  []int `json:"members,omitempty"`
	Parents  []int `json:"parents,omitempty"`
}

// Service defines the flip resolution operations
type Service interface {
	ApplicableRecipes(ctx context.Context, itemID int, side domain.Side) ([]domain.Recipe, error)
	SetInfo(ctx context.Context, itemID int) SetInfo
	Feasibility(ctx context.Context, req FeasibilityRequest) (*FeasibilityView, error)
	Build(ctx context.Context, req BuildRequest) (*domain.CompositeTransaction, error)
	BuildMax(ctx context.Context, offerID string, ref RecipeRef) (*domain.CompositeTransaction, error)
	Release(ctx context.Context, compositeID string) (*domain.CompositeTransaction, error)
	History(ctx context.Context, itemID int) ([]domain.CompositeTransaction, error)
	RecordOffers(ctx context.Context, offers []domain.Offer) error
	ReloadCatalog(ctx context.Context) (catalog.Stats, error)
	CatalogStats() catalog.Stats
}

type service struct {
	offers     repository.Offer
	composites repository.Composite
	ledger     Ledger
	builder    *composite.Builder
	loader     CatalogLoader
	bus        event.Bus
	opts       Options

	catalog atomic.Pointer[catalog.Catalog]
}

// NewService creates a new flip service starting from initial.
// A nil initial catalog is treated as empty.
func NewService(
	offers repository.Offer,
	composites repository.Composite,
	ledger Ledger,
	builder *composite.Builder,
	initial *catalog.Catalog,
	loader CatalogLoader,
	bus event.Bus,
	opts Options,
) Service {
	s := &service{
		offers:     offers,
		composites: composites,
		ledger:     ledger,
		builder:    builder,
		loader:     loader,
		bus:        bus,
		opts:       opts,
	}
	if initial == nil {
		initial = catalog.Empty()
	}
	s.catalog.Store(initial)
	return s
}

func (s *service) currentCatalog() *catalog.Catalog {
	return s.catalog.Load()
}

// CatalogStats reports the size of the catalog currently in use
func (s *service) CatalogStats() catalog.Stats {
	return s.currentCatalog().Stats()
}

// ReloadCatalog builds a new catalog and swaps it in. Readers holding the old
// catalog keep a consistent view until they finish.
func (s *service) ReloadCatalog(ctx context.Context) (catalog.Stats, error) {
	if s.loader == nil {
		return catalog.Stats{}, domain.ErrCatalogUnavailable
	}

	next := s.loader.Load(ctx)
	s.catalog.Store(next)
	stats := next.Stats()

	logger.FromContext(ctx).Info(LogMsgCatalogReloaded,
		"recipes", stats.Recipes, "local", stats.LocalRecipes, "sets", stats.Sets)
	s.publish(ctx, event.NewCatalogReloadedEvent(stats.Recipes, stats.LocalRecipes, stats.Sets))
	return stats, nil
}

// ApplicableRecipes lists recipes and sets the item can trigger in the given direction
func (s *service) ApplicableRecipes(ctx context.Context, itemID int, side domain.Side) ([]domain.Recipe, error) {
	logger.FromContext(ctx).Debug(LogMsgApplicableRecipes, "item_id", itemID, "side", side)
	return s.currentCatalog().ApplicableRecipes(itemID, side == domain.SideBuy), nil
}

// SetInfo answers the combination-set queries for itemID
func (s *service) SetInfo(_ context.Context, itemID int) SetInfo {
	cat := s.currentCatalog()
	info := SetInfo{
		IsParent: cat.IsSetParent(itemID),
		IsMember: cat.IsSetMember(itemID),
		Parents:  cat.ParentsOf(itemID),
	}
	for m := range cat.MembersOf(itemID) {
		info.Members = append(info.Members, m)
	}
	sort.Ints(info.Members)
	return info
}

// History lists composites that drew on the item, newest first
func (s *service) History(ctx context.Context, itemID int) ([]domain.CompositeTransaction, error) {
	return s.composites.ListCompositesByItem(ctx, itemID)
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
