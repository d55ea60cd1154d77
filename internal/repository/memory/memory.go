// Package memory is an in-process implementation of the repository interfaces.
// It backs the resolver when no database is configured and doubles as the fake
// used by service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/repository"
)

// Store keeps offers and composite transactions in maps guarded by a single lock
type Store struct {
	mu         sync.RWMutex
	offers     map[string]domain.Offer
	composites map[string]domain.CompositeTransaction
}

var (
	_ repository.Offer     = (*Store)(nil)
	_ repository.Composite = (*Store)(nil)
)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		offers:     make(map[string]domain.Offer),
		composites: make(map[string]domain.CompositeTransaction),
	}
}

// GetOfferByID returns the offer or domain.ErrOfferNotFound
func (s *Store) GetOfferByID(_ context.Context, offerID string) (*domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.offers[offerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOfferNotFound, offerID)
	}
	return &o, nil
}

// ListOffersByItem returns the offers of itemID oldest first
func (s *Store) ListOffersByItem(_ context.Context, itemID int) ([]domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Offer
	for _, o := range s.offers {
		if o.ItemID == itemID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time.Equal(out[j].Time) {
			return out[i].ID < out[j].ID
		}
		return out[i].Time.Before(out[j].Time)
	})
	return out, nil
}

// UpsertOffers inserts or replaces offers by id
func (s *Store) UpsertOffers(_ context.Context, offers []domain.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range offers {
		s.offers[o.ID] = o
	}
	return nil
}

// GetComposite returns the composite or domain.ErrCompositeNotFound
func (s *Store) GetComposite(_ context.Context, compositeID string) (*domain.CompositeTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ct, ok := s.composites[compositeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCompositeNotFound, compositeID)
	}
	return &ct, nil
}

// ListCompositesByItem returns composites touching itemID, newest first
func (s *Store) ListCompositesByItem(_ context.Context, itemID int) ([]domain.CompositeTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CompositeTransaction
	for _, ct := range s.composites {
		if _, ok := ct.Selection[itemID]; ok || ct.TriggeringItemID == itemID {
			out = append(out, ct)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// SumConsumption totals consumption per offer over unreleased composites
func (s *Store) SumConsumption(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int)
	for _, ct := range s.composites {
		if ct.Released() {
			continue
		}
		for id, amt := range ct.Consumption() {
			out[id] += amt
		}
	}
	return out, nil
}

// BeginTx starts a buffered transaction. Writes become visible on Commit.
func (s *Store) BeginTx(_ context.Context) (repository.Tx, error) {
	return &tx{store: s, released: make(map[string]time.Time)}, nil
}

type tx struct {
	store    *Store
	inserts  []domain.CompositeTransaction
	released map[string]time.Time
	closed   bool
}

func (t *tx) InsertComposite(_ context.Context, ct domain.CompositeTransaction) error {
	if t.closed {
		return repository.ErrTxClosed
	}
	t.store.mu.RLock()
	_, exists := t.store.composites[ct.ID]
	t.store.mu.RUnlock()
	if exists {
		return fmt.Errorf("composite %s already exists", ct.ID)
	}
	t.inserts = append(t.inserts, ct)
	return nil
}

func (t *tx) GetCompositeForUpdate(ctx context.Context, compositeID string) (*domain.CompositeTransaction, error) {
	if t.closed {
		return nil, repository.ErrTxClosed
	}
	ct, err := t.store.GetComposite(ctx, compositeID)
	if err != nil {
		return nil, err
	}
	if at, ok := t.released[compositeID]; ok {
		ct.ReleasedAt = &at
	}
	return ct, nil
}

func (t *tx) MarkReleased(_ context.Context, compositeID string, at time.Time) error {
	if t.closed {
		return repository.ErrTxClosed
	}
	t.released[compositeID] = at
	return nil
}

func (t *tx) Commit(_ context.Context) error {
	if t.closed {
		return repository.ErrTxClosed
	}
	t.closed = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for _, ct := range t.inserts {
		t.store.composites[ct.ID] = ct
	}
	for id, at := range t.released {
		ct, ok := t.store.composites[id]
		if !ok {
			continue
		}
		at := at
		ct.ReleasedAt = &at
		t.store.composites[id] = ct
	}
	return nil
}

func (t *tx) Rollback(_ context.Context) error {
	if t.closed {
		return repository.ErrTxClosed
	}
	t.closed = true
	return nil
}
