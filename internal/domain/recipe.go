package domain

import (
	"fmt"
	"strings"
)

// SetRecipePrefix prefixes the names of recipes derived from combination sets
const SetRecipePrefix = "set:"

// CoinsItemID is the virtual currency item. It never has offers and is priced at face value.
const CoinsItemID = 995

// Relationship constrains which trade direction of the triggering item may start a recipe
type Relationship string

const (
	RelationshipBidirectional Relationship = "BIDIRECTIONAL"
	RelationshipBuyDrives     Relationship = "BUY_DRIVES_RECIPE"
	RelationshipSellDrives    Relationship = "SELL_DRIVES_RECIPE"
)

// Valid reports whether r is a known relationship
func (r Relationship) Valid() bool {
	switch r {
	case RelationshipBidirectional, RelationshipBuyDrives, RelationshipSellDrives:
		return true
	}
	return false
}

// Role is the position an item occupies in a recipe
type Role int

const (
	RoleInput Role = iota
	RoleOutput
)

func (r Role) String() string {
	if r == RoleOutput {
		return "output"
	}
	return "input"
}

// RecipeItem is the number of units of an item consumed or produced per recipe instance
type RecipeItem struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

// Recipe is an authored conversion between input and output items
type Recipe struct {
	Name         string       `json:"name"`
	Relationship Relationship `json:"relationship"`
	Inputs       []RecipeItem `json:"inputs"`
	Outputs      []RecipeItem `json:"outputs"`
	// Local is set for user-authored recipes, which skip direction filtering
	Local bool `json:"local,omitempty"`
	// SetParentID is non-zero when the recipe was derived from a combination set
	SetParentID int `json:"set_parent_id,omitempty"`
}

// Items returns inputs followed by outputs
func (r Recipe) Items() []RecipeItem {
	items := make([]RecipeItem, 0, len(r.Inputs)+len(r.Outputs))
	items = append(items, r.Inputs...)
	return append(items, r.Outputs...)
}

// RoleOf returns the role of itemID. Inputs take precedence when an item appears on both sides.
func (r Recipe) RoleOf(itemID int) (Role, bool) {
	for _, in := range r.Inputs {
		if in.ItemID == itemID {
			return RoleInput, true
		}
	}
	for _, out := range r.Outputs {
		if out.ItemID == itemID {
			return RoleOutput, true
		}
	}
	return RoleInput, false
}

// Ratio returns the per-instance quantity of itemID, or 0 when absent
func (r Recipe) Ratio(itemID int) int {
	for _, it := range r.Items() {
		if it.ItemID == itemID {
			return it.Quantity
		}
	}
	return 0
}

// Contains reports whether itemID takes part in the recipe
func (r Recipe) Contains(itemID int) bool {
	_, ok := r.RoleOf(itemID)
	return ok
}

// IsSet reports whether the recipe was derived from a combination set
func (r Recipe) IsSet() bool {
	return r.SetParentID != 0
}

// RequiredSide returns the direction offers of itemID must have when the recipe is
// triggered by an offer of triggerItemID on triggerSide. Items sharing the trigger's
// role trade in the same direction, items on the other side trade in the opposite one.
func (r Recipe) RequiredSide(triggerItemID int, triggerSide Side, itemID int) Side {
	triggerRole, _ := r.RoleOf(triggerItemID)
	role, _ := r.RoleOf(itemID)
	if role == triggerRole {
		return triggerSide
	}
	return triggerSide.Opposite()
}

// Validate checks structural sanity of an authored recipe
func (r Recipe) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: recipe has empty name", ErrMalformedCatalogEntry)
	}
	if !r.Relationship.Valid() {
		return fmt.Errorf("%w: recipe %q has unknown relationship %q", ErrMalformedCatalogEntry, r.Name, r.Relationship)
	}
	if len(r.Inputs) == 0 || len(r.Outputs) == 0 {
		return fmt.Errorf("%w: recipe %q needs at least one input and one output", ErrMalformedCatalogEntry, r.Name)
	}
	seen := make(map[int]bool, len(r.Inputs)+len(r.Outputs))
	for _, it := range r.Items() {
		if it.ItemID <= 0 {
			return fmt.Errorf("%w: recipe %q references invalid item id %d", ErrMalformedCatalogEntry, r.Name, it.ItemID)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: recipe %q item %d has non-positive quantity", ErrMalformedCatalogEntry, r.Name, it.ItemID)
		}
		// every lookup keys ratios by item id, so an item may appear only once
		if seen[it.ItemID] {
			return fmt.Errorf("%w: recipe %q lists item %d more than once", ErrMalformedCatalogEntry, r.Name, it.ItemID)
		}
		seen[it.ItemID] = true
	}
	return nil
}

// CombinationSet links an assembled item to its constituent parts, one of each
type CombinationSet struct {
	ParentID int   `json:"parent_id"`
	Members  []int `json:"members"`
}

// AsRecipe derives the 1:1 bidirectional recipe for the set: members in, parent out
func (s CombinationSet) AsRecipe() Recipe {
	inputs := make([]RecipeItem, 0, len(s.Members))
	for _, m := range s.Members {
		inputs = append(inputs, RecipeItem{ItemID: m, Quantity: 1})
	}
	return Recipe{
		Name:         fmt.Sprintf("%s%d", SetRecipePrefix, s.ParentID),
		Relationship: RelationshipBidirectional,
		Inputs:       inputs,
		Outputs:      []RecipeItem{{ItemID: s.ParentID, Quantity: 1}},
		SetParentID:  s.ParentID,
	}
}

// IsSetRecipeName reports whether name was produced by CombinationSet.AsRecipe
func IsSetRecipeName(name string) bool {
	return strings.HasPrefix(name, SetRecipePrefix)
}
