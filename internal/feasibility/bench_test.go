package feasibility

import (
	"fmt"
	"testing"

	"github.com/osse101/FlipResolver_Go/internal/domain"
)

func BenchmarkCalculate(b *testing.B) {
	members := make([]int, 0, 8)
	offers := make(map[int][]Candidate)
	for i := 1; i <= 8; i++ {
		id := i * 10
		members = append(members, id)
		for j := 0; j < 50; j++ {
			o := offer(fmt.Sprintf("o-%d-%d", id, j), id, domain.SideBuy, 3, j)
			offers[id] = append(offers[id], cand(o, 3))
		}
	}
	in := Input{
		Recipe:        domain.CombinationSet{ParentID: itemParent, Members: members}.AsRecipe(),
		TriggerItemID: itemParent,
		TriggerSide:   domain.SideSell,
		TriggerAmount: 100,
		Offers:        offers,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Calculate(in)
	}
}
