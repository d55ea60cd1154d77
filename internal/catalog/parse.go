package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/logger"
	"github.com/osse101/FlipResolver_Go/internal/metrics"
)

// RecipeDef is the wire shape of one recipe in the remote and local documents
type RecipeDef struct {
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	Inputs       []ItemDef `json:"inputs"`
	Outputs      []ItemDef `json:"outputs"`
}

// ItemDef is the wire shape of one recipe item
type ItemDef struct {
	ItemID   int `json:"itemId"`
	Quantity int `json:"quantity"`
}

// ToDomain converts and validates the definition
func (d RecipeDef) ToDomain() (domain.Recipe, error) {
	r := domain.Recipe{
		Name:         strings.TrimSpace(d.Name),
		Relationship: domain.Relationship(strings.ToUpper(strings.TrimSpace(d.Relationship))),
		Inputs:       toItems(d.Inputs),
		Outputs:      toItems(d.Outputs),
	}
	if err := r.Validate(); err != nil {
		return domain.Recipe{}, err
	}
	return r, nil
}

func toItems(defs []ItemDef) []domain.RecipeItem {
	items := make([]domain.RecipeItem, 0, len(defs))
	for _, d := range defs {
		items = append(items, domain.RecipeItem{ItemID: d.ItemID, Quantity: d.Quantity})
	}
	return items
}

// ParseRecipes decodes a JSON array of recipe definitions. A document that is not an
// array fails as a whole with ErrCatalogUnavailable; individual entries that fail to
// decode or validate are logged, counted and skipped.
func ParseRecipes(ctx context.Context, source string, data []byte) ([]domain.Recipe, error) {
	log := logger.FromContext(ctx)

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s recipes: %v", domain.ErrCatalogUnavailable, source, err)
	}

	recipes := make([]domain.Recipe, 0, len(raw))
	for i, entry := range raw {
		var def RecipeDef
		if err := json.Unmarshal(entry, &def); err != nil {
			skipEntry(log, source, i, fmt.Errorf("%w: %v", domain.ErrMalformedCatalogEntry, err))
			continue
		}
		r, err := def.ToDomain()
		if err != nil {
			skipEntry(log, source, i, err)
			continue
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}

// ParseCombinationSets decodes a {"parentId": [memberId, ...]} document
func ParseCombinationSets(ctx context.Context, data []byte) ([]domain.CombinationSet, error) {
	log := logger.FromContext(ctx)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: combination sets: %v", domain.ErrCatalogUnavailable, err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]domain.CombinationSet, 0, len(raw))
	for i, key := range keys {
		set, err := parseSet(key, raw[key])
		if err != nil {
			skipEntry(log, SourceSets, i, err)
			continue
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func parseSet(key string, value json.RawMessage) (domain.CombinationSet, error) {
	parentID, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || parentID <= 0 {
		return domain.CombinationSet{}, fmt.Errorf("%w: invalid set parent id %q", domain.ErrMalformedCatalogEntry, key)
	}

	var members []int
	if err := json.Unmarshal(value, &members); err != nil {
		return domain.CombinationSet{}, fmt.Errorf("%w: set %d: %v", domain.ErrMalformedCatalogEntry, parentID, err)
	}
	if len(members) == 0 {
		return domain.CombinationSet{}, fmt.Errorf("%w: set %d has no members", domain.ErrMalformedCatalogEntry, parentID)
	}

	seen := make(map[int]bool, len(members))
	for _, m := range members {
		if m <= 0 || m == parentID || seen[m] {
			return domain.CombinationSet{}, fmt.Errorf("%w: set %d has invalid member %d", domain.ErrMalformedCatalogEntry, parentID, m)
		}
		seen[m] = true
	}
	return domain.CombinationSet{ParentID: parentID, Members: members}, nil
}

func skipEntry(log *slog.Logger, source string, index int, err error) {
	metrics.CatalogEntriesSkipped.WithLabelValues(source).Inc()
	log.Warn(LogMsgEntrySkipped, "source", source, "index", index, "error", err)
}
