package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/logger"
	"github.com/osse101/FlipResolver_Go/internal/repository"
)

// OfferRepository stores offers reported by the game client
type OfferRepository struct {
	db *pgxpool.Pool
}

var _ repository.Offer = (*OfferRepository)(nil)

// NewOfferRepository creates a new OfferRepository
func NewOfferRepository(db *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{db: db}
}

const offerSelectCols = `offer_id, item_id, side, quantity_filled, total_quantity,
	price, margin_check, complete, offer_time`

func scanOffer(row pgx.Row) (domain.Offer, error) {
	var o domain.Offer
	var side string
	if err := row.Scan(
		&o.ID, &o.ItemID, &side, &o.QuantityFilled, &o.TotalQuantity,
		&o.Price, &o.MarginCheck, &o.Complete, &o.Time,
	); err != nil {
		return domain.Offer{}, err
	}
	o.Side = domain.Side(side)
	o.Time = o.Time.UTC()
	return o, nil
}

// GetOfferByID returns the offer or domain.ErrOfferNotFound
func (r *OfferRepository) GetOfferByID(ctx context.Context, offerID string) (*domain.Offer, error) {
	query := `SELECT ` + offerSelectCols + ` FROM offers WHERE offer_id = $1`

	o, err := scanOffer(r.db.QueryRow(ctx, query, offerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrOfferNotFound, offerID)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetOffer, err)
	}
	return &o, nil
}

// ListOffersByItem returns the offers of itemID oldest first
func (r *OfferRepository) ListOffersByItem(ctx context.Context, itemID int) ([]domain.Offer, error) {
	query := `SELECT ` + offerSelectCols + ` FROM offers WHERE item_id = $1 ORDER BY offer_time, offer_id`

	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListOffers, err)
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanOffer, err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListOffers, err)
	}
	return offers, nil
}

// UpsertOffers inserts or replaces offers by id in a single transaction
func (r *OfferRepository) UpsertOffers(ctx context.Context, offers []domain.Offer) error {
	if len(offers) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginOfferTx, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.FromContext(ctx).Error("Failed to rollback offer upsert", "error", err)
		}
	}()

	const query = `
		INSERT INTO offers (
			offer_id, item_id, side, quantity_filled, total_quantity,
			price, margin_check, complete, offer_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (offer_id) DO UPDATE SET
			item_id = EXCLUDED.item_id,
			side = EXCLUDED.side,
			quantity_filled = EXCLUDED.quantity_filled,
			total_quantity = EXCLUDED.total_quantity,
			price = EXCLUDED.price,
			margin_check = EXCLUDED.margin_check,
			complete = EXCLUDED.complete,
			offer_time = EXCLUDED.offer_time,
			updated_at = NOW()`

	batch := &pgx.Batch{}
	for _, o := range offers {
		batch.Queue(query,
			o.ID, o.ItemID, string(o.Side), o.QuantityFilled, o.TotalQuantity,
			o.Price, o.MarginCheck, o.Complete, o.Time,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range offers {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("%s: offer %s: %w", ErrMsgFailedToUpsertOffers, offers[i].ID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertOffers, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitOfferTx, err)
	}
	return nil
}
