// Package feasibility computes how many whole recipe instances the unconsumed offer
// inventory can realize, and the exact per-item quantity each instance count needs.
//
// Everything here is a pure function of its inputs: no I/O, no shared state, and
// identical inputs always produce identical results.
package feasibility

import (
	"sort"

	"github.com/osse101/FlipResolver_Go/internal/domain"
)

// Candidate is an offer together with its capacity not yet consumed by other composites
type Candidate struct {
	Offer     domain.Offer `json:"offer"`
	Available int          `json:"available"`
}

// Input describes one evaluation.
//
// TriggerAmount is the quantity of the triggering item committed by the triggering
// offer. Pass the offer's full remaining capacity to ask "what is the maximum", or
// the amount the user has assigned so far to validate a selection in progress.
//
// Offers maps item id to its candidates. A missing entry means the item has no
// trade history and is treated as zero availability.
type Input struct {
	Recipe        domain.Recipe
	TriggerItemID int
	TriggerSide   domain.Side
	TriggerAmount int
	Offers        map[int][]Candidate
}

// Result is the outcome of an evaluation
type Result struct {
	MaxInstances int         `json:"max_instances"`
	Targets      map[int]int `json:"targets"`
	Available    map[int]int `json:"available"`
	// Bottleneck is the item limiting MaxInstances; ties go to the lowest item id.
	// Zero when the recipe has no constrained item.
	Bottleneck int `json:"bottleneck"`
}

// Calculate runs bottleneck ratio matching:
//
//	available_i  = sum of remaining capacity of offers in the required direction
//	maxInstances = min_i floor(available_i / ratio_i)
//	target_i     = ratio_i * maxInstances
//
// The triggering item's availability is the trigger amount. Coins are unconstrained
// and only receive a target.
func Calculate(in Input) Result {
	res := Result{
		Targets:   make(map[int]int),
		Available: make(map[int]int),
	}

	items := in.Recipe.Items()
	sort.SliceStable(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })

	maxInstances := -1
	for _, it := range items {
		if it.ItemID == domain.CoinsItemID || it.Quantity <= 0 {
			continue
		}
		if _, seen := res.Available[it.ItemID]; seen {
			continue
		}

		avail := availableFor(in, it.ItemID)
		res.Available[it.ItemID] = avail

		n := avail / it.Quantity
		if maxInstances < 0 || n < maxInstances {
			maxInstances = n
			res.Bottleneck = it.ItemID
		}
	}
	if maxInstances < 0 {
		maxInstances = 0
	}
	res.MaxInstances = maxInstances

	for _, it := range items {
		res.Targets[it.ItemID] = it.Quantity * maxInstances
	}
	return res
}

func availableFor(in Input, itemID int) int {
	if itemID == in.TriggerItemID {
		if in.TriggerAmount < 0 {
			return 0
		}
		return in.TriggerAmount
	}

	side := in.Recipe.RequiredSide(in.TriggerItemID, in.TriggerSide, itemID)
	total := 0
	for _, c := range in.Offers[itemID] {
		if c.Offer.ItemID != itemID || c.Offer.Side != side || c.Available <= 0 {
			continue
		}
		total += c.Available
	}
	return total
}

// Ready reports whether a selection meets every non-currency target exactly and
// describes the shortfall otherwise
func (r Result) Ready(selection map[int][]domain.PartialOffer) (bool, []domain.Shortfall) {
	if r.MaxInstances == 0 {
		return false, nil
	}

	ids := make([]int, 0, len(r.Targets))
	for id := range r.Targets {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var short []domain.Shortfall
	for _, id := range ids {
		if id == domain.CoinsItemID {
			continue
		}
		have := 0
		for _, p := range selection[id] {
			have += p.AmountConsumed
		}
		if want := r.Targets[id]; have != want {
			short = append(short, domain.Shortfall{ItemID: id, Have: have, Want: want})
		}
	}
	return len(short) == 0, short
}
