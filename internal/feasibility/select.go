package feasibility

import (
	"sort"

	"github.com/osse101/FlipResolver_Go/internal/domain"
)

// AutoSelect fills every non-currency target from the candidates, oldest offer first.
// The triggering item is always served by the triggering offer alone. Items whose
// candidates cannot cover the target are returned partially filled; callers validate
// the result with Result.Ready.
func AutoSelect(res Result, trigger domain.Offer, candidates map[int][]Candidate) map[int][]domain.PartialOffer {
	selection := make(map[int][]domain.PartialOffer, len(res.Targets))
	if res.MaxInstances == 0 {
		return selection
	}

	for itemID, target := range res.Targets {
		if itemID == domain.CoinsItemID || target == 0 {
			continue
		}
		if itemID == trigger.ItemID {
			selection[itemID] = []domain.PartialOffer{{Offer: trigger, AmountConsumed: target}}
			continue
		}

		pool := append([]Candidate(nil), candidates[itemID]...)
		sort.SliceStable(pool, func(i, j int) bool { return pool[i].Offer.Time.Before(pool[j].Offer.Time) })

		remaining := target
		for _, c := range pool {
			if remaining == 0 {
				break
			}
			if c.Available <= 0 || c.Offer.ItemID != itemID {
				continue
			}
			take := min(c.Available, remaining)
			selection[itemID] = append(selection[itemID], domain.PartialOffer{Offer: c.Offer, AmountConsumed: take})
			remaining -= take
		}
	}
	return selection
}
