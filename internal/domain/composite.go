package domain

import (
	"sort"
	"time"
)

// CompositeTransaction is a completed recipe or combination-set instance built from
// selected partial offers. It is immutable once created.
type CompositeTransaction struct {
	ID                string                 `json:"composite_id"`
	RecipeName        string                 `json:"recipe_name"`
	TriggeringOfferID string                 `json:"triggering_offer_id"`
	TriggeringItemID  int                    `json:"triggering_item_id"`
	Instances         int                    `json:"instances"`
	Selection         map[int][]PartialOffer `json:"selection"`
	Profit            int64                  `json:"profit"`
	CreatedAt         time.Time              `json:"created_at"`
	ReleasedAt        *time.Time             `json:"released_at,omitempty"`
}

// Consumption sums the consumed amount per offer id across the whole selection
func (c CompositeTransaction) Consumption() map[string]int {
	out := make(map[string]int)
	for _, parts := range c.Selection {
		for _, p := range parts {
			out[p.Offer.ID] += p.AmountConsumed
		}
	}
	return out
}

// SelectionRecord is the persisted shape of the selection: item id -> offer id -> amount
func (c CompositeTransaction) SelectionRecord() map[int]map[string]int {
	out := make(map[int]map[string]int, len(c.Selection))
	for itemID, parts := range c.Selection {
		byOffer := make(map[string]int, len(parts))
		for _, p := range parts {
			byOffer[p.Offer.ID] += p.AmountConsumed
		}
		out[itemID] = byOffer
	}
	return out
}

// ItemIDs returns the selected item ids in ascending order
func (c CompositeTransaction) ItemIDs() []int {
	ids := make([]int, 0, len(c.Selection))
	for id := range c.Selection {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Released reports whether the composite's consumption has been returned to the ledger
func (c CompositeTransaction) Released() bool {
	return c.ReleasedAt != nil
}
