// Package catalog answers which recipes and combination sets an item can take part in.
//
// A Catalog is immutable after construction. Reloading builds a new Catalog and the
// owner swaps the handle; nothing mutates a catalog that other goroutines are reading.
package catalog

import (
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/text/cases"

	"github.com/osse101/FlipResolver_Go/internal/domain"
)

type lookupKey struct {
	itemID int
	isBuy  bool
}

// Catalog holds authored recipes (remote baseline plus local) and combination sets
type Catalog struct {
	recipes []domain.Recipe
	byItem  map[int][]int
	byName  map[string][]int

	sets     map[int]domain.CombinationSet
	parentOf map[int][]int

	lookups *expirable.LRU[lookupKey, []domain.Recipe]
}

// Option customizes a Catalog
type Option func(*options)

type options struct {
	cacheSize int
	cacheTTL  time.Duration
}

// WithLookupCache sets the size and TTL of the ApplicableRecipes memo. A size of 0 disables it.
func WithLookupCache(size int, ttl time.Duration) Option {
	return func(o *options) {
		o.cacheSize = size
		o.cacheTTL = ttl
	}
}

// New builds a catalog. Baseline and local recipes are kept side by side; duplicate
// names are allowed and not deduplicated. Local recipes are flagged so they bypass
// direction filtering.
func New(baseline, local []domain.Recipe, sets []domain.CombinationSet, opts ...Option) *Catalog {
	o := options{cacheSize: DefaultLookupCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Catalog{
		recipes:  make([]domain.Recipe, 0, len(baseline)+len(local)+len(sets)),
		byItem:   make(map[int][]int),
		byName:   make(map[string][]int),
		sets:     make(map[int]domain.CombinationSet, len(sets)),
		parentOf: make(map[int][]int),
	}

	for _, r := range baseline {
		r.Local = false
		c.add(r)
	}
	for _, r := range local {
		r.Local = true
		c.add(r)
	}

	sorted := append([]domain.CombinationSet(nil), sets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ParentID < sorted[j].ParentID })
	for _, s := range sorted {
		c.sets[s.ParentID] = s
		for _, m := range s.Members {
			c.parentOf[m] = append(c.parentOf[m], s.ParentID)
		}
		c.add(s.AsRecipe())
	}

	if o.cacheSize > 0 {
		c.lookups = expirable.NewLRU[lookupKey, []domain.Recipe](o.cacheSize, nil, o.cacheTTL)
	}
	return c
}

// Empty returns a catalog with no recipes and no sets
func Empty() *Catalog {
	return New(nil, nil, nil)
}

func (c *Catalog) add(r domain.Recipe) {
	idx := len(c.recipes)
	c.recipes = append(c.recipes, r)

	seen := make(map[int]bool)
	for _, it := range r.Items() {
		if seen[it.ItemID] {
			continue
		}
		seen[it.ItemID] = true
		c.byItem[it.ItemID] = append(c.byItem[it.ItemID], idx)
	}

	key := foldName(r.Name)
	c.byName[key] = append(c.byName[key], idx)
}

func foldName(name string) string {
	return cases.Fold().String(name)
}

// ApplicableRecipes returns the recipes itemID participates in whose relationship
// allows a trigger in the given direction. Combination sets are included as
// bidirectional recipes.
func (c *Catalog) ApplicableRecipes(itemID int, isBuy bool) []domain.Recipe {
	key := lookupKey{itemID: itemID, isBuy: isBuy}
	if c.lookups != nil {
		if cached, ok := c.lookups.Get(key); ok {
			return append([]domain.Recipe(nil), cached...)
		}
	}

	var out []domain.Recipe
	for _, idx := range c.byItem[itemID] {
		r := c.recipes[idx]
		role, _ := r.RoleOf(itemID)
		if Matches(r, role, isBuy) {
			out = append(out, r)
		}
	}

	if c.lookups != nil {
		c.lookups.Add(key, out)
	}
	return append([]domain.Recipe(nil), out...)
}

// Matches reports whether a trigger of the given role and direction may start r.
// Local recipes are not direction filtered.
func Matches(r domain.Recipe, role domain.Role, isBuy bool) bool {
	if r.Local {
		return true
	}
	switch r.Relationship {
	case domain.RelationshipBidirectional:
		return true
	case domain.RelationshipBuyDrives:
		return isBuy && role == domain.RoleOutput
	case domain.RelationshipSellDrives:
		return !isBuy && role == domain.RoleOutput
	}
	return false
}

// RecipesByName returns every recipe with the given name, compared case-insensitively
func (c *Catalog) RecipesByName(name string) []domain.Recipe {
	idxs := c.byName[foldName(name)]
	out := make([]domain.Recipe, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, c.recipes[idx])
	}
	return out
}

// Recipes returns every recipe, including set-derived ones
func (c *Catalog) Recipes() []domain.Recipe {
	return append([]domain.Recipe(nil), c.recipes...)
}

// IsSetMember reports whether itemID is part of any combination set
func (c *Catalog) IsSetMember(itemID int) bool {
	return len(c.parentOf[itemID]) > 0
}

// IsSetParent reports whether itemID is the assembled item of a combination set
func (c *Catalog) IsSetParent(itemID int) bool {
	_, ok := c.sets[itemID]
	return ok
}

// MembersOf returns the member ids of the set whose parent is parentID
func (c *Catalog) MembersOf(parentID int) map[int]struct{} {
	s, ok := c.sets[parentID]
	if !ok {
		return map[int]struct{}{}
	}
	out := make(map[int]struct{}, len(s.Members))
	for _, m := range s.Members {
		out[m] = struct{}{}
	}
	return out
}

// Set returns the combination set keyed by parentID
func (c *Catalog) Set(parentID int) (domain.CombinationSet, bool) {
	s, ok := c.sets[parentID]
	return s, ok
}

// ParentsOf returns the parent ids of every set containing itemID
func (c *Catalog) ParentsOf(itemID int) []int {
	return append([]int(nil), c.parentOf[itemID]...)
}

// Stats summarizes catalog contents for logging and admin endpoints
type Stats struct {
	Recipes      int `json:"recipes"`
	LocalRecipes int `json:"local_recipes"`
	Sets         int `json:"sets"`
}

// Stats returns catalog counts
func (c *Catalog) Stats() Stats {
	st := Stats{Sets: len(c.sets)}
	for _, r := range c.recipes {
		if r.IsSet() {
			continue
		}
		st.Recipes++
		if r.Local {
			st.LocalRecipes++
		}
	}
	return st
}
