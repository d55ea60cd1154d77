// Package ledger tracks how much of each offer's filled quantity has been bound
// to composite transactions, and makes committing a composite atomic.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/logger"
	"github.com/osse101/FlipResolver_Go/internal/repository"
)

// Ledger is the single authority on offer consumption.
// Commits and releases are serialized; reads never observe a partial commit.
type Ledger struct {
	mu       sync.RWMutex
	consumed map[string]int
	// filled holds the latest fill recorded through RecordOffers. It overrides the
	// fill carried by offer snapshots taken before that update.
	filled map[string]int
	store  repository.Composite
	now    func() time.Time
}


// Option configures a Ledger
type Option func(*Ledger)

// WithClock overrides the time source used for release timestamps
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates an empty ledger persisting through store
func New(store repository.Composite, opts ...Option) *Ledger {
	l := &Ledger{
		consumed: make(map[string]int),
		filled:   make(map[string]int),
		store:    store,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Replay rebuilds consumption from the unreleased composites in the store
func (l *Ledger) Replay(ctx context.Context) error {
	sums, err := l.store.SumConsumption(ctx)
	if err != nil {
		return fmt.Errorf("failed to load consumption: %w", err)
	}

	l.mu.Lock()
	l.consumed = sums
	l.mu.Unlock()

	logger.FromContext(ctx).Info(LogMsgReplayed, "offers", len(sums))
	return nil
}

// Consumed returns the amount of offerID bound to composites
func (l *Ledger) Consumed(offerID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.consumed[offerID]
}

// Available returns the offer's filled quantity not yet consumed, never negative
func (l *Ledger) Available(o domain.Offer) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	avail := l.fillOf(o.ID, o.QuantityFilled) - l.consumed[o.ID]
	if avail < 0 {
		return 0
	}
	return avail
}

// RecordOffers stores offer updates while holding the write lock, so no commit can
// interleave between the consumption check and the write. An update whose filled
// quantity would fall below what composites already consumed is rejected.
func (l *Ledger) RecordOffers(ctx context.Context, offers []domain.Offer, w repository.OfferWriter) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, o := range offers {
		if used := l.consumed[o.ID]; o.QuantityFilled < used {
			return fmt.Errorf("%w: offer %s filled %d is below consumed %d", domain.ErrOverConsumption, o.ID, o.QuantityFilled, used)
		}
	}

	if err := w.UpsertOffers(ctx, offers); err != nil {
		return fmt.Errorf("failed to store offers: %w", err)
	}
	for _, o := range offers {
		l.filled[o.ID] = o.QuantityFilled
	}
	return nil
}

// fillOf returns the authoritative fill for an offer. Caller must hold the mutex.
func (l *Ledger) fillOf(offerID string, snapshot int) int {
	if f, ok := l.filled[offerID]; ok {
		return f
	}
	return snapshot
}

// Commit validates and records ct's consumption as one atomic step.
// On any error neither the ledger nor the store has changed.
func (l *Ledger) Commit(ctx context.Context, ct domain.CompositeTransaction) error {
	log := logger.FromContext(ctx)

	delta, filled, err := aggregate(ct)
	if err != nil {
		log.Warn(LogMsgCommitRejected, "composite_id", ct.ID, "error", err)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range sortedKeys(delta) {
		limit := l.fillOf(id, filled[id])
		if used := l.consumed[id]; used+delta[id] > limit {
			err := fmt.Errorf("%w: offer %s has %d of %d consumed, cannot take %d more",
				domain.ErrOverConsumption, id, used, limit, delta[id])
			log.Warn(LogMsgCommitRejected, "composite_id", ct.ID, "error", err)
			return err
		}
	}

	if err := l.persist(ctx, ct); err != nil {
		log.Error(LogMsgPersistFailed, "composite_id", ct.ID, "error", err)
		return err
	}

	for id, amt := range delta {
		l.consumed[id] += amt
	}
	log.Info(LogMsgCommitted, "composite_id", ct.ID, "offers", len(delta))
	return nil
}

func (l *Ledger) persist(ctx context.Context, ct domain.CompositeTransaction) error {
	tx, err := l.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.InsertComposite(ctx, ct); err != nil {
		return fmt.Errorf("failed to insert composite: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Release returns a composite's consumption to its offers and stamps it released
func (l *Ledger) Release(ctx context.Context, compositeID string) (*domain.CompositeTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	ct, err := tx.GetCompositeForUpdate(ctx, compositeID)
	if err != nil {
		return nil, err
	}
	if ct.Released() {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyReleased, compositeID)
	}

	at := l.now().UTC()
	if err := tx.MarkReleased(ctx, compositeID, at); err != nil {
		return nil, fmt.Errorf("failed to mark released: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for id, amt := range ct.Consumption() {
		l.consumed[id] -= amt
		if l.consumed[id] <= 0 {
			delete(l.consumed, id)
		}
	}
	ct.ReleasedAt = &at

	logger.FromContext(ctx).Info(LogMsgReleased, "composite_id", compositeID)
	return ct, nil
}

// aggregate sums the requested amount per offer and checks each binding
func aggregate(ct domain.CompositeTransaction) (delta, filled map[string]int, err error) {
	delta = make(map[string]int)
	filled = make(map[string]int)

	for itemID, parts := range ct.Selection {
		for _, p := range parts {
			if p.Offer.ID == "" {
				return nil, nil, fmt.Errorf("%w: selection for item %d has an offer without id", domain.ErrInvalidInput, itemID)
			}
			if p.Offer.ItemID != itemID {
				return nil, nil, fmt.Errorf("%w: offer %s is for item %d, selected under %d", domain.ErrInvalidInput, p.Offer.ID, p.Offer.ItemID, itemID)
			}
			if !p.Valid() {
				return nil, nil, fmt.Errorf("%w: offer %s amount %d outside [0, %d]", domain.ErrOverConsumption, p.Offer.ID, p.AmountConsumed, p.Offer.QuantityFilled)
			}
			if f, seen := filled[p.Offer.ID]; seen && f != p.Offer.QuantityFilled {
				return nil, nil, fmt.Errorf("%w: offer %s appears with conflicting fill quantities", domain.ErrInvalidInput, p.Offer.ID)
			}
			filled[p.Offer.ID] = p.Offer.QuantityFilled
			delta[p.Offer.ID] += p.AmountConsumed
		}
	}
	return delta, filled, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
