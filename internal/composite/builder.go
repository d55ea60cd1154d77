// Package composite turns a complete selection of partial offers into an
// immutable CompositeTransaction with realized profit, recording its
// consumption in the ledger in the same step.
package composite

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/logger"
	"github.com/osse101/FlipResolver_Go/internal/metrics"
	"github.com/osse101/FlipResolver_Go/internal/pricing"
)

// Committer records a composite's consumption atomically
type Committer interface {
	Commit(ctx context.Context, ct domain.CompositeTransaction) error
}

// Request is one build attempt
type Request struct {
	Recipe    domain.Recipe
	Trigger   domain.Offer
	Selection map[int][]domain.PartialOffer
}

// Builder materializes composite transactions
type Builder struct {
	ledger Committer
	now    func() time.Time
	newID  func() string
}

// Option configures a Builder
type Option func(*Builder)

// WithClock overrides the creation timestamp source
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithIDGenerator overrides composite id generation
func WithIDGenerator(newID func() string) Option {
	return func(b *Builder) { b.newID = newID }
}

// NewBuilder creates a builder that commits through ledger
func NewBuilder(ledger Committer, opts ...Option) *Builder {
	b := &Builder{
		ledger: ledger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build validates the selection, computes profit and commits the composite.
// A selection that misses its targets yields a *domain.NotReadyError and leaves the
// ledger untouched.
func (b *Builder) Build(ctx context.Context, req Request) (*domain.CompositeTransaction, error) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgBuildStarted, "recipe", req.Recipe.Name, "trigger_offer", req.Trigger.ID)

	if err := validate(req); err != nil {
		metrics.BuildsRejected.WithLabelValues(metrics.ReasonInvalid).Inc()
		log.Warn(LogMsgBuildRejected, "recipe", req.Recipe.Name, "error", err)
		return nil, err
	}

	instances, short := checkTargets(req)
	if len(short) > 0 {
		metrics.BuildsRejected.WithLabelValues(metrics.ReasonNotReady).Inc()
		log.Info(LogMsgBuildNotReady, "recipe", req.Recipe.Name, "shortfalls", len(short))
		return nil, &domain.NotReadyError{Shortfalls: short}
	}

	ct := domain.CompositeTransaction{
		ID:                b.newID(),
		RecipeName:        req.Recipe.Name,
		TriggeringOfferID: req.Trigger.ID,
		TriggeringItemID:  req.Trigger.ItemID,
		Instances:         instances,
		Selection:         compact(req.Selection),
		Profit:            Profit(req.Recipe, instances, req.Selection),
		CreatedAt:         b.now().UTC(),
	}

	if err := b.ledger.Commit(ctx, ct); err != nil {
		reason := metrics.ReasonStorage
		switch {
		case errors.Is(err, domain.ErrOverConsumption):
			reason = metrics.ReasonOverConsumption
			log.Error(LogMsgBuildRejected, "recipe", req.Recipe.Name, "error", err)
		case errors.Is(err, domain.ErrInvalidInput):
			reason = metrics.ReasonInvalid
		}
		metrics.BuildsRejected.WithLabelValues(reason).Inc()
		return nil, err
	}

	log.Info(LogMsgBuilt, "composite_id", ct.ID, "recipe", ct.RecipeName, "kind", Kind(req.Recipe), "instances", ct.Instances, "profit", ct.Profit)
	return &ct, nil
}

// Kind labels a recipe for metrics and events
func Kind(r domain.Recipe) string {
	if r.IsSet() {
		return metrics.KindSet
	}
	return metrics.KindRecipe
}

// Profit computes realized profit for a selection:
// taxed sell proceeds, minus nominal buy costs, minus any coins input.
// Coins on the output side are added at face value.
func Profit(r domain.Recipe, instances int, selection map[int][]domain.PartialOffer) int64 {
	var profit int64
	for itemID, parts := range selection {
		if itemID == domain.CoinsItemID {
			continue
		}
		for _, p := range parts {
			amt := int64(p.AmountConsumed)
			if p.Offer.Side == domain.SideSell {
				profit += pricing.PostTaxPrice(p.Offer.Price) * amt
			} else {
				profit -= p.Offer.Price * amt
			}
		}
	}

	coins := int64(r.Ratio(domain.CoinsItemID)) * int64(instances)
	if role, ok := r.RoleOf(domain.CoinsItemID); ok {
		if role == domain.RoleInput {
			profit -= coins
		} else {
			profit += coins
		}
	}
	return profit
}

func validate(req Request) error {
	r := req.Recipe
	if req.Trigger.ID == "" {
		return fmt.Errorf("%w: triggering offer has no id", domain.ErrInvalidInput)
	}
	if !r.Contains(req.Trigger.ItemID) {
		return fmt.Errorf("%w: recipe %q does not use item %d", domain.ErrRecipeNotApplicable, r.Name, req.Trigger.ItemID)
	}

	for itemID, parts := range req.Selection {
		if itemID == domain.CoinsItemID {
			return fmt.Errorf("%w: coins cannot be selected from offers", domain.ErrInvalidInput)
		}
		if !r.Contains(itemID) {
			return fmt.Errorf("%w: item %d is not part of recipe %q", domain.ErrInvalidInput, itemID, r.Name)
		}
		want := r.RequiredSide(req.Trigger.ItemID, req.Trigger.Side, itemID)
		for _, p := range parts {
			if p.Offer.ItemID != itemID {
				return fmt.Errorf("%w: offer %s is for item %d, selected under %d", domain.ErrInvalidInput, p.Offer.ID, p.Offer.ItemID, itemID)
			}
			if p.AmountConsumed < 0 {
				return fmt.Errorf("%w: offer %s has negative amount %d", domain.ErrInvalidInput, p.Offer.ID, p.AmountConsumed)
			}
			if p.Offer.Side != want {
				return fmt.Errorf("%w: offer %s is a %s, item %d needs %s offers", domain.ErrInvalidInput, p.Offer.ID, p.Offer.Side, itemID, want)
			}
			if itemID == req.Trigger.ItemID && p.Offer.ID != req.Trigger.ID {
				return fmt.Errorf("%w: item %d may only draw from the triggering offer", domain.ErrInvalidInput, itemID)
			}
		}
	}
	return nil
}

// checkTargets derives the instance count from the trigger's committed amount and
// reports every item whose selected total differs from ratio * instances
func checkTargets(req Request) (int, []domain.Shortfall) {
	r := req.Recipe
	sum := func(itemID int) int {
		total := 0
		for _, p := range req.Selection[itemID] {
			total += p.AmountConsumed
		}
		return total
	}

	triggerRatio := r.Ratio(req.Trigger.ItemID)
	committed := sum(req.Trigger.ItemID)
	instances := committed / triggerRatio
	if instances == 0 {
		return 0, []domain.Shortfall{{ItemID: req.Trigger.ItemID, Have: committed, Want: triggerRatio}}
	}

	var short []domain.Shortfall
	seen := make(map[int]bool)
	for _, it := range r.Items() {
		if it.ItemID == domain.CoinsItemID || seen[it.ItemID] {
			continue
		}
		seen[it.ItemID] = true
		if have, want := sum(it.ItemID), it.Quantity*instances; have != want {
			short = append(short, domain.Shortfall{ItemID: it.ItemID, Have: have, Want: want})
		}
	}
	sort.Slice(short, func(i, j int) bool { return short[i].ItemID < short[j].ItemID })
	return instances, short
}

// compact drops zero-amount bindings and empty items
func compact(selection map[int][]domain.PartialOffer) map[int][]domain.PartialOffer {
	out := make(map[int][]domain.PartialOffer, len(selection))
	for itemID, parts := range selection {
		for _, p := range parts {
			if p.AmountConsumed == 0 {
				continue
			}
			out[itemID] = append(out[itemID], p)
		}
	}
	return out
}
