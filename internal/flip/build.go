package flip

import (
	"context"
	"fmt"
	"sort"

	"github.com/osse101/FlipResolver_Go/internal/composite"
	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/event"
	"github.com/osse101/FlipResolver_Go/internal/feasibility"
	"github.com/osse101/FlipResolver_Go/internal/logger"
)

// Build commits an explicit selection
func (s *service) Build(ctx context.Context, req BuildRequest) (*domain.CompositeTransaction, error) {
	logger.FromContext(ctx).Debug(LogMsgBuild, "offer_id", req.OfferID, "recipe", req.Recipe.Name, "set_parent_id", req.Recipe.SetParentID)

	trigger, recipe, err := s.loadTrigger(ctx, req.OfferID, req.Recipe)
	if err != nil {
		return nil, err
	}

	selection, err := s.materialize(ctx, req.Selection)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, recipe, trigger, selection)
}

// BuildMax auto-selects the oldest candidates that realize the maximum instance
// count and commits them
func (s *service) BuildMax(ctx context.Context, offerID string, ref RecipeRef) (*domain.CompositeTransaction, error) {
	logger.FromContext(ctx).Debug(LogMsgBuildMax, "offer_id", offerID, "recipe", ref.Name, "set_parent_id", ref.SetParentID)

	view, err := s.Feasibility(ctx, FeasibilityRequest{OfferID: offerID, Recipe: ref})
	if err != nil {
		return nil, err
	}
	if view.Result.MaxInstances == 0 {
		return nil, &domain.NotReadyError{Shortfalls: zeroShortfalls(view)}
	}

	selection := feasibility.AutoSelect(view.Result, view.Trigger, view.Candidates)
	return s.commit(ctx, view.Recipe, view.Trigger, selection)
}

// Release returns a composite's consumption to its offers
func (s *service) Release(ctx context.Context, compositeID string) (*domain.CompositeTransaction, error) {
	logger.FromContext(ctx).Debug(LogMsgRelease, "composite_id", compositeID)

	ct, err := s.ledger.Release(ctx, compositeID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.NewCompositeReleasedEvent(ct, domain.IsSetRecipeName(ct.RecipeName)))
	return ct, nil
}

func (s *service) commit(ctx context.Context, recipe domain.Recipe, trigger domain.Offer, selection map[int][]domain.PartialOffer) (*domain.CompositeTransaction, error) {
	ct, err := s.builder.Build(ctx, composite.Request{Recipe: recipe, Trigger: trigger, Selection: selection})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.NewCompositeCreatedEvent(ct, recipe.IsSet()))
	return ct, nil
}

// materialize loads every referenced offer. Offer ids are resolved in sorted order
// so repeated requests produce identical selections.
func (s *service) materialize(ctx context.Context, raw map[int]map[string]int) (map[int][]domain.PartialOffer, error) {
	out := make(map[int][]domain.PartialOffer, len(raw))
	for itemID, byOffer := range raw {
		ids := make([]string, 0, len(byOffer))
		for id := range byOffer {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			o, err := s.offers.GetOfferByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if o.ItemID != itemID {
				return nil, fmt.Errorf("%w: offer %s is for item %d, selected under %d", domain.ErrInvalidInput, id, o.ItemID, itemID)
			}
			out[itemID] = append(out[itemID], domain.PartialOffer{Offer: *o, AmountConsumed: byOffer[id]})
		}
	}
	return out, nil
}

// zeroShortfalls reports each constrained item that cannot cover a single instance
func zeroShortfalls(view *FeasibilityView) []domain.Shortfall {
	var short []domain.Shortfall
	ids := make([]int, 0, len(view.Result.Available))
	for id := range view.Result.Available {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if want := view.Recipe.Ratio(id); view.Result.Available[id] < want {
			short = append(short, domain.Shortfall{ItemID: id, Have: view.Result.Available[id], Want: want})
		}
	}
	return short
}
