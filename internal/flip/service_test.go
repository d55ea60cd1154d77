package flip

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/FlipResolver_Go/internal/catalog"
	"github.com/osse101/FlipResolver_Go/internal/composite"
	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/event"
	"github.com/osse101/FlipResolver_Go/internal/ledger"
	"github.com/osse101/FlipResolver_Go/internal/repository/memory"
)

const (
	itemHelm   = 1163
	itemBody   = 1127
	itemLegs   = 1079
	itemSet    = 12960
	itemHerb   = 249
	itemVial   = 227
	itemPotion = 91
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) handle(_ context.Context, evt event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type staticLoader struct {
	cat *catalog.Catalog
}

func (l staticLoader) Load(context.Context) *catalog.Catalog { return l.cat }

type fixture struct {
	svc    Service
	store  *memory.Store
	ledger *ledger.Ledger
	events *recorder
}

func potion() domain.Recipe {
	return domain.Recipe{
		Name:         "Unfinished potion",
		Relationship: domain.RelationshipBuyDrives,
		Inputs:       []domain.RecipeItem{{ItemID: itemHerb, Quantity: 1}, {ItemID: itemVial, Quantity: 1}},
		Outputs:      []domain.RecipeItem{{ItemID: itemPotion, Quantity: 1}},
	}
}

func defaultCatalog() *catalog.Catalog {
	return catalog.New(
		[]domain.Recipe{potion()},
		nil,
		[]domain.CombinationSet{{ParentID: itemSet, Members: []int{itemHelm, itemBody, itemLegs}}},
	)
}

func newFixture(t *testing.T, opts Options, offers ...domain.Offer) *fixture {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.UpsertOffers(context.Background(), offers))

	l := ledger.New(store)
	bus := event.NewMemoryBus()
	rec := &recorder{}
	for _, typ := range []event.Type{event.CompositeCreated, event.CompositeReleased, event.CatalogReloaded} {
		bus.Subscribe(typ, rec.handle)
	}

	svc := NewService(store, store, l, composite.NewBuilder(l), defaultCatalog(), staticLoader{cat: catalog.Empty()}, bus, opts)
	return &fixture{svc: svc, store: store, ledger: l, events: rec}
}

func offer(id string, itemID int, side domain.Side, filled int, price int64, minutes int) domain.Offer {
	return domain.Offer{
		ID:             id,
		ItemID:         itemID,
		Side:           side,
		QuantityFilled: filled,
		TotalQuantity:  filled,
		Price:          price,
		Complete:       true,
		Time:           t0.Add(time.Duration(minutes) * time.Minute),
	}
}

func setOffers() []domain.Offer {
	return []domain.Offer{
		offer("sell-set", itemSet, domain.SideSell, 5, 2_000_000, 30),
		offer("helm-1", itemHelm, domain.SideBuy, 3, 300_000, 0),
		offer("helm-2", itemHelm, domain.SideBuy, 4, 310_000, 5),
		offer("body", itemBody, domain.SideBuy, 5, 900_000, 1),
		offer("legs", itemLegs, domain.SideBuy, 5, 600_000, 2),
	}
}

var setRef = RecipeRef{SetParentID: itemSet}

func TestApplicableRecipes(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	got, err := f.svc.ApplicableRecipes(ctx, itemSet, domain.SideSell)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "set:12960", got[0].Name)

	got, err = f.svc.ApplicableRecipes(ctx, itemPotion, domain.SideBuy)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = f.svc.ApplicableRecipes(ctx, itemPotion, domain.SideSell)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSetInfo(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	parent := f.svc.SetInfo(ctx, itemSet)
	assert.True(t, parent.IsParent)
	assert.False(t, parent.IsMember)
	assert.Equal(t, []int{itemLegs, itemBody, itemHelm}, parent.Members)

	member := f.svc.SetInfo(ctx, itemBody)
	assert.True(t, member.IsMember)
	assert.Equal(t, []int{itemSet}, member.Parents)

	none := f.svc.SetInfo(ctx, itemHerb)
	assert.Equal(t, SetInfo{}, none)
}

func TestFeasibility_MaxAndRoundTrip(t *testing.T) {
	f := newFixture(t, Options{}, setOffers()...)
	ctx := context.Background()

	view, err := f.svc.Feasibility(ctx, FeasibilityRequest{OfferID: "sell-set", Recipe: setRef})
	require.NoError(t, err)
	assert.Equal(t, 5, view.Result.MaxInstances)
	assert.Equal(t, 7, view.Result.Available[itemHelm])
	require.Len(t, view.Candidates[itemHelm], 2)
	assert.Equal(t, "helm-1", view.Candidates[itemHelm][0].Offer.ID)

	ct, err := f.svc.BuildMax(ctx, "sell-set", setRef)
	require.NoError(t, err)
	assert.Equal(t, 5, ct.Instances)
	assert.Equal(t, map[string]int{"helm-1": 3, "helm-2": 2}, ct.SelectionRecord()[itemHelm])
	// 5 * (2,000,000 - 20,000) - (3*300,000 + 2*310,000 + 5*900,000 + 5*600,000)
	assert.Equal(t, int64(9_900_000-9_020_000), ct.Profit)

	view, err = f.svc.Feasibility(ctx, FeasibilityRequest{OfferID: "sell-set", Recipe: setRef})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Result.MaxInstances)

	_, err = f.svc.BuildMax(ctx, "sell-set", setRef)
	assert.ErrorIs(t, err, domain.ErrNotReady)

	assert.Equal(t, []event.Type{event.CompositeCreated}, f.events.types())
}

func TestFeasibility_AssignedAmount(t *testing.T) {
	f := newFixture(t, Options{}, setOffers()...)
	assigned := 2

	view, err := f.svc.Feasibility(context.Background(), FeasibilityRequest{OfferID: "sell-set", Recipe: setRef, Assigned: &assigned})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Result.MaxInstances)
	assert.Equal(t, 2, view.Result.Targets[itemBody])

	negative := -1
	_, err = f.svc.Feasibility(context.Background(), FeasibilityRequest{OfferID: "sell-set", Recipe: setRef, Assigned: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFeasibility_MarginChecksExcludedByDefault(t *testing.T) {
	marginCheck := offer("margin-check", itemHelm, domain.SideBuy, 1, 350_000, 0)
	marginCheck.MarginCheck = true
	offers := []domain.Offer{
		offer("sell-set", itemSet, domain.SideSell, 1, 2_000_000, 10),
		marginCheck,
		offer("body", itemBody, domain.SideBuy, 1, 900_000, 1),
		offer("legs", itemLegs, domain.SideBuy, 1, 600_000, 2),
	}

	strict := newFixture(t, Options{}, offers...)
	view, err := strict.svc.Feasibility(context.Background(), FeasibilityRequest{OfferID: "sell-set", Recipe: setRef})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Result.MaxInstances)
	assert.Equal(t, itemHelm, view.Result.Bottleneck)

	loose := newFixture(t, Options{IncludeMarginChecks: true}, offers...)
	view, err = loose.svc.Feasibility(context.Background(), FeasibilityRequest{OfferID: "sell-set", Recipe: setRef})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Result.MaxInstances)
}

func TestFeasibility_RecipeResolution(t *testing.T) {
	offers := append(setOffers(),
		offer("buy-potion", itemPotion, domain.SideBuy, 2, 1_000, 0),
		offer("sell-potion", itemPotion, domain.SideSell, 2, 1_000, 0),
	)
	f := newFixture(t, Options{}, offers...)
	ctx := context.Background()

	tests := []struct {
		name    string
		offerID string
		ref     RecipeRef
		want    error
	}{
		{"unknown offer", "nope", setRef, domain.ErrOfferNotFound},
		{"unknown set", "sell-set", RecipeRef{SetParentID: 42}, domain.ErrRecipeNotFound},
		{"unknown recipe", "buy-potion", RecipeRef{Name: "Nope"}, domain.ErrRecipeNotFound},
		{"item outside set", "buy-potion", setRef, domain.ErrRecipeNotApplicable},
		{"wrong direction", "sell-potion", RecipeRef{Name: "unfinished POTION"}, domain.ErrRecipeNotApplicable},
		{"missing ref", "sell-set", RecipeRef{}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Feasibility(ctx, FeasibilityRequest{OfferID: tt.offerID, Recipe: tt.ref})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	view, err := f.svc.Feasibility(ctx, FeasibilityRequest{OfferID: "buy-potion", Recipe: RecipeRef{Name: "unfinished potion"}})
	require.NoError(t, err)
	assert.Equal(t, "Unfinished potion", view.Recipe.Name)
}

func TestBuild_ExplicitSelection(t *testing.T) {
	f := newFixture(t, Options{}, setOffers()...)
	ctx := context.Background()

	ct, err := f.svc.Build(ctx, BuildRequest{
		OfferID: "sell-set",
		Recipe:  setRef,
		Selection: map[int]map[string]int{
			itemSet:  {"sell-set": 2},
			itemHelm: {"helm-2": 2},
			itemBody: {"body": 2},
			itemLegs: {"legs": 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ct.Instances)
	assert.Equal(t, 2, f.ledger.Consumed("sell-set"))
	assert.Equal(t, 2, f.ledger.Consumed("helm-2"))

	history, err := f.svc.History(ctx, itemHelm)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, ct.ID, history[0].ID)
}

func TestBuild_Errors(t *testing.T) {
	f := newFixture(t, Options{}, setOffers()...)
	ctx := context.Background()

	_, err := f.svc.Build(ctx, BuildRequest{
		OfferID:   "sell-set",
		Recipe:    setRef,
		Selection: map[int]map[string]int{itemSet: {"sell-set": 1}, itemHelm: {"ghost": 1}},
	})
	assert.ErrorIs(t, err, domain.ErrOfferNotFound)

	_, err = f.svc.Build(ctx, BuildRequest{
		OfferID:   "sell-set",
		Recipe:    setRef,
		Selection: map[int]map[string]int{itemSet: {"sell-set": 1}, itemBody: {"helm-1": 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Build(ctx, BuildRequest{
		OfferID:   "sell-set",
		Recipe:    setRef,
		Selection: map[int]map[string]int{itemSet: {"sell-set": 1}, itemHelm: {"helm-1": 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotReady)
	assert.Empty(t, f.events.types())
}

func TestRelease(t *testing.T) {
	f := newFixture(t, Options{}, setOffers()...)
	ctx := context.Background()

	ct, err := f.svc.BuildMax(ctx, "sell-set", setRef)
	require.NoError(t, err)

	released, err := f.svc.Release(ctx, ct.ID)
	require.NoError(t, err)
	assert.True(t, released.Released())

	view, err := f.svc.Feasibility(ctx, FeasibilityRequest{OfferID: "sell-set", Recipe: setRef})
	require.NoError(t, err)
	assert.Equal(t, 5, view.Result.MaxInstances)

	_, err = f.svc.Release(ctx, ct.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReleased)

	assert.Equal(t, []event.Type{event.CompositeCreated, event.CompositeReleased}, f.events.types())
}

func TestRecordOffers(t *testing.T) {
	f := newFixture(t, Options{}, setOffers()...)
	ctx := context.Background()

	_, err := f.svc.BuildMax(ctx, "sell-set", setRef)
	require.NoError(t, err)

	tests := []struct {
		name  string
		offer domain.Offer
		want  error
	}{
		{"missing id", offer("", itemHelm, domain.SideBuy, 1, 1, 0), domain.ErrInvalidInput},
		{"coins", offer("c", domain.CoinsItemID, domain.SideBuy, 1, 1, 0), domain.ErrInvalidInput},
		{"bad side", offer("s", itemHelm, domain.Side("hold"), 1, 1, 0), domain.ErrInvalidInput},
		{"negative price", offer("p", itemHelm, domain.SideBuy, 1, -1, 0), domain.ErrInvalidInput},
		{"shrinks consumed offer", offer("body", itemBody, domain.SideBuy, 4, 900_000, 1), domain.ErrOverConsumption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, f.svc.RecordOffers(ctx, []domain.Offer{tt.offer}), tt.want)
		})
	}

	grown := offer("body", itemBody, domain.SideBuy, 8, 900_000, 1)
	require.NoError(t, f.svc.RecordOffers(ctx, []domain.Offer{grown}))
	stored, err := f.store.GetOfferByID(ctx, "body")
	require.NoError(t, err)
	assert.Equal(t, 8, stored.QuantityFilled)
	assert.Equal(t, 3, f.ledger.Available(*stored))
}

// racingStore starts a build from inside the offer write and checks that the
// build cannot commit until the write has finished
type racingStore struct {
	*memory.Store
	t       *testing.T
	svc     Service
	results chan error
}

func (r *racingStore) UpsertOffers(ctx context.Context, offers []domain.Offer) error {
	done := make(chan error, 1)
	go func() {
		_, err := r.svc.BuildMax(ctx, "sell-set", setRef)
		done <- err
	}()

	select {
	case err := <-done:
		r.t.Errorf("build finished while offers were being recorded: %v", err)
		r.results <- err
	case <-time.After(50 * time.Millisecond):
		go func() { r.results <- <-done }()
	}
	return r.Store.UpsertOffers(ctx, offers)
}

func TestRecordOffers_BuildCannotInterleave(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.UpsertOffers(ctx, setOffers()))

	racing := &racingStore{Store: store, t: t, results: make(chan error, 1)}
	l := ledger.New(store)
	svc := NewService(racing, store, l, composite.NewBuilder(l), defaultCatalog(), staticLoader{cat: catalog.Empty()}, event.NewMemoryBus(), Options{})
	racing.svc = svc

	shrunk := offer("body", itemBody, domain.SideBuy, 1, 900_000, 1)
	require.NoError(t, svc.RecordOffers(ctx, []domain.Offer{shrunk}))

	select {
	case err := <-racing.results:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("build never completed")
	}

	stored, err := store.GetOfferByID(ctx, "body")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.QuantityFilled)
	assert.LessOrEqual(t, l.Consumed("body"), stored.QuantityFilled)
	assert.Equal(t, 1, l.Consumed("body"))
	assert.Equal(t, 1, l.Consumed("sell-set"))
}

func TestReloadCatalog(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	assert.Equal(t, 1, f.svc.CatalogStats().Sets)

	stats, err := f.svc.ReloadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Stats{}, stats)
	assert.Equal(t, 0, f.svc.CatalogStats().Sets)
	assert.Equal(t, []event.Type{event.CatalogReloaded}, f.events.types())

	noLoader := NewService(f.store, f.store, f.ledger, composite.NewBuilder(f.ledger), nil, nil, nil, Options{})
	_, err = noLoader.ReloadCatalog(ctx)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}
