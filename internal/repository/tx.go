package repository

import (
	"context"
	"errors"
	"time"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/logger"
)

// Tx defines the interface for transactional operations on composite transactions
type Tx interface {
	InsertComposite(ctx context.Context, ct domain.CompositeTransaction) error
	GetCompositeForUpdate(ctx context.Context, compositeID string) (*domain.CompositeTransaction, error)
	MarkReleased(ctx context.Context, compositeID string, at time.Time) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// ErrTxClosed is what Rollback returns after a successful Commit
var ErrTxClosed = errors.New(domain.ErrMsgTxClosed)

// SafeRollback rolls back a transaction and logs any error other than the tx
// already being closed. Safe to defer right after BeginTx.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || errors.Is(err, ErrTxClosed) || err.Error() == domain.ErrMsgTxClosed {
		return
	}
	logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
}
