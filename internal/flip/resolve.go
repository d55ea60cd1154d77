package flip

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/FlipResolver_Go/internal/catalog"
	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/feasibility"
	"github.com/osse101/FlipResolver_Go/internal/logger"
	"github.com/osse101/FlipResolver_Go/internal/metrics"
)

// resolveRecipe finds the recipe ref points at among those the trigger may start
func resolveRecipe(cat *catalog.Catalog, trigger domain.Offer, ref RecipeRef) (domain.Recipe, error) {
	switch {
	case ref.SetParentID > 0:
		set, ok := cat.Set(ref.SetParentID)
		if !ok {
			return domain.Recipe{}, fmt.Errorf("%w: no combination set for parent %d", domain.ErrRecipeNotFound, ref.SetParentID)
		}
		r := set.AsRecipe()
		if !r.Contains(trigger.ItemID) {
			return domain.Recipe{}, fmt.Errorf("%w: item %d is not in set %d", domain.ErrRecipeNotApplicable, trigger.ItemID, ref.SetParentID)
		}
		return r, nil

	case ref.Name != "":
		named := cat.RecipesByName(ref.Name)
		if len(named) == 0 {
			return domain.Recipe{}, fmt.Errorf("%w: %q", domain.ErrRecipeNotFound, ref.Name)
		}
		for _, r := range named {
			if role, ok := r.RoleOf(trigger.ItemID); ok && catalog.Matches(r, role, trigger.IsBuy()) {
				return r, nil
			}
		}
		return domain.Recipe{}, fmt.Errorf("%w: %q cannot be triggered by a %s of item %d",
			domain.ErrRecipeNotApplicable, ref.Name, trigger.Side, trigger.ItemID)
	}
	return domain.Recipe{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgRecipeRefMissing)
}

// loadTrigger fetches the triggering offer and the recipe it is resolved against
func (s *service) loadTrigger(ctx context.Context, offerID string, ref RecipeRef) (domain.Offer, domain.Recipe, error) {
	trigger, err := s.offers.GetOfferByID(ctx, offerID)
	if err != nil {
		return domain.Offer{}, domain.Recipe{}, err
	}
	recipe, err := resolveRecipe(s.currentCatalog(), *trigger, ref)
	if err != nil {
		return domain.Offer{}, domain.Recipe{}, err
	}
	return *trigger, recipe, nil
}

// candidates lists, per non-trigger item, the offers of the required direction that
// still have capacity, oldest first
func (s *service) candidates(ctx context.Context, recipe domain.Recipe, trigger domain.Offer) (map[int][]feasibility.Candidate, error) {
	out := make(map[int][]feasibility.Candidate)
	seen := make(map[int]bool)

	for _, it := range recipe.Items() {
		id := it.ItemID
		if id == domain.CoinsItemID || id == trigger.ItemID || seen[id] {
			continue
		}
		seen[id] = true

		offers, err := s.offers.ListOffersByItem(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to list offers for item %d: %w", id, err)
		}

		side := recipe.RequiredSide(trigger.ItemID, trigger.Side, id)
		for _, o := range offers {
			if o.ID == trigger.ID || o.Side != side {
				continue
			}
			if o.MarginCheck && !s.opts.IncludeMarginChecks {
				continue
			}
			if avail := s.ledger.Available(o); avail > 0 {
				out[id] = append(out[id], feasibility.Candidate{Offer: o, Available: avail})
			}
		}
	}
	return out, nil
}

// Feasibility computes the maximum instances for the trigger, or validates a live
// selection when an assigned amount is given
func (s *service) Feasibility(ctx context.Context, req FeasibilityRequest) (*FeasibilityView, error) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgFeasibility, "offer_id", req.OfferID, "recipe", req.Recipe.Name, "set_parent_id", req.Recipe.SetParentID)

	if req.Assigned != nil && *req.Assigned < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgAssignedNegative)
	}

	trigger, recipe, err := s.loadTrigger(ctx, req.OfferID, req.Recipe)
	if err != nil {
		return nil, err
	}

	cands, err := s.candidates(ctx, recipe, trigger)
	if err != nil {
		return nil, err
	}

	amount := s.ledger.Available(trigger)
	if req.Assigned != nil && *req.Assigned < amount {
		amount = *req.Assigned
	}

	res := feasibility.Calculate(feasibility.Input{
		Recipe:        recipe,
		TriggerItemID: trigger.ItemID,
		TriggerSide:   trigger.Side,
		TriggerAmount: amount,
		Offers:        cands,
	})
	metrics.FeasibilityChecks.Inc()

	log.Info(LogMsgFeasibility, "offer_id", trigger.ID, "recipe", recipe.Name,
		"max_instances", res.MaxInstances, "bottleneck", res.Bottleneck)
	return &FeasibilityView{Recipe: recipe, Trigger: trigger, Result: res, Candidates: cands}, nil
}

// IsNotFound reports whether err means a referenced entity does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrOfferNotFound) ||
		errors.Is(err, domain.ErrCompositeNotFound) ||
		errors.Is(err, domain.ErrRecipeNotFound)
}
