package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/repository"
)

// querier is satisfied by both the pool and an open transaction
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CompositeRepository stores composite transactions and the consumption rows the
// ledger is rebuilt from
type CompositeRepository struct {
	db *pgxpool.Pool
}

var _ repository.Composite = (*CompositeRepository)(nil)

// NewCompositeRepository creates a new CompositeRepository
func NewCompositeRepository(db *pgxpool.Pool) *CompositeRepository {
	return &CompositeRepository{db: db}
}

const compositeSelectCols = `composite_id, recipe_name, triggering_offer_id, triggering_item_id,
	instances, profit, created_at, released_at`

func scanComposite(row pgx.Row) (domain.CompositeTransaction, error) {
	var ct domain.CompositeTransaction
	if err := row.Scan(
		&ct.ID, &ct.RecipeName, &ct.TriggeringOfferID, &ct.TriggeringItemID,
		&ct.Instances, &ct.Profit, &ct.CreatedAt, &ct.ReleasedAt,
	); err != nil {
		return domain.CompositeTransaction{}, err
	}
	ct.CreatedAt = ct.CreatedAt.UTC()
	if ct.ReleasedAt != nil {
		at := ct.ReleasedAt.UTC()
		ct.ReleasedAt = &at
	}
	return ct, nil
}

// loadSelections fills in the selection of each composite from its consumption rows.
// Offers are joined from the offers table; a binding whose offer is no longer stored
// keeps only its id and item.
func loadSelections(ctx context.Context, q querier, composites []domain.CompositeTransaction) error {
	if len(composites) == 0 {
		return nil
	}

	ids := make([]string, len(composites))
	index := make(map[string]int, len(composites))
	for i, ct := range composites {
		ids[i] = ct.ID
		index[ct.ID] = i
		composites[i].Selection = make(map[int][]domain.PartialOffer)
	}

	const query = `
		SELECT cc.composite_id, cc.item_id, cc.offer_id, cc.amount,
			o.side, o.quantity_filled, o.total_quantity, o.price, o.margin_check, o.complete, o.offer_time
		FROM composite_consumption cc
		LEFT JOIN offers o ON o.offer_id = cc.offer_id
		WHERE cc.composite_id = ANY($1)
		ORDER BY cc.composite_id, cc.item_id, o.offer_time NULLS LAST, cc.offer_id`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLoadSelection, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			compositeID string
			p           domain.PartialOffer
			side        *string
			filled      *int
			total       *int
			price       *int64
			marginCheck *bool
			complete    *bool
			offerTime   *time.Time
		)
		if err := rows.Scan(
			&compositeID, &p.Offer.ItemID, &p.Offer.ID, &p.AmountConsumed,
			&side, &filled, &total, &price, &marginCheck, &complete, &offerTime,
		); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToLoadSelection, err)
		}
		if side != nil {
			p.Offer.Side = domain.Side(*side)
			p.Offer.QuantityFilled = *filled
			p.Offer.TotalQuantity = *total
			p.Offer.Price = *price
			p.Offer.MarginCheck = *marginCheck
			p.Offer.Complete = *complete
			p.Offer.Time = offerTime.UTC()
		}

		i := index[compositeID]
		composites[i].Selection[p.Offer.ItemID] = append(composites[i].Selection[p.Offer.ItemID], p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLoadSelection, err)
	}
	return nil
}

func getComposite(ctx context.Context, q querier, compositeID string, forUpdate bool) (*domain.CompositeTransaction, error) {
	query := `SELECT ` + compositeSelectCols + ` FROM composite_transactions WHERE composite_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	ct, err := scanComposite(q.QueryRow(ctx, query, compositeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCompositeNotFound, compositeID)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetComposite, err)
	}

	composites := []domain.CompositeTransaction{ct}
	if err := loadSelections(ctx, q, composites); err != nil {
		return nil, err
	}
	return &composites[0], nil
}

// GetComposite returns the composite or domain.ErrCompositeNotFound
func (r *CompositeRepository) GetComposite(ctx context.Context, compositeID string) (*domain.CompositeTransaction, error) {
	return getComposite(ctx, r.db, compositeID, false)
}

// ListCompositesByItem returns composites triggered by or consuming itemID, newest first
func (r *CompositeRepository) ListCompositesByItem(ctx context.Context, itemID int) ([]domain.CompositeTransaction, error) {
	query := `SELECT ` + compositeSelectCols + ` FROM composite_transactions ct
		WHERE ct.triggering_item_id = $1
			OR EXISTS (SELECT 1 FROM composite_consumption cc WHERE cc.composite_id = ct.composite_id AND cc.item_id = $1)
		ORDER BY ct.created_at DESC, ct.composite_id DESC`

	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListComposites, err)
	}
	defer rows.Close()

	var composites []domain.CompositeTransaction
	for rows.Next() {
		ct, err := scanComposite(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListComposites, err)
		}
		composites = append(composites, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListComposites, err)
	}
	rows.Close()

	if err := loadSelections(ctx, r.db, composites); err != nil {
		return nil, err
	}
	return composites, nil
}

// SumConsumption totals consumption per offer over unreleased composites
func (r *CompositeRepository) SumConsumption(ctx context.Context) (map[string]int, error) {
	const query = `
		SELECT cc.offer_id, SUM(cc.amount)
		FROM composite_consumption cc
		JOIN composite_transactions ct ON ct.composite_id = cc.composite_id
		WHERE ct.released_at IS NULL
		GROUP BY cc.offer_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToSumConsumption, err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var offerID string
		var total int64
		if err := rows.Scan(&offerID, &total); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToSumConsumption, err)
		}
		out[offerID] = int(total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToSumConsumption, err)
	}
	return out, nil
}

// BeginTx starts a database transaction
func (r *CompositeRepository) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &compositeTx{tx: tx}, nil
}

// compositeTx wraps pgx.Tx so the composite row and its consumption rows commit together
type compositeTx struct {
	tx pgx.Tx
}

func (t *compositeTx) InsertComposite(ctx context.Context, ct domain.CompositeTransaction) error {
	const insertComposite = `
		INSERT INTO composite_transactions (
			composite_id, recipe_name, triggering_offer_id, triggering_item_id,
			instances, profit, created_at, released_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := t.tx.Exec(ctx, insertComposite,
		ct.ID, ct.RecipeName, ct.TriggeringOfferID, ct.TriggeringItemID,
		ct.Instances, ct.Profit, ct.CreatedAt, ct.ReleasedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation {
			return fmt.Errorf("%s: %s", ErrMsgDuplicateComposite, ct.ID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertComposite, err)
	}

	const insertConsumption = `
		INSERT INTO composite_consumption (composite_id, item_id, offer_id, amount)
		VALUES ($1, $2, $3, $4)`

	batch := &pgx.Batch{}
	for itemID, byOffer := range ct.SelectionRecord() {
		for offerID, amount := range byOffer {
			if amount <= 0 {
				continue
			}
			batch.Queue(insertConsumption, ct.ID, itemID, offerID, amount)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := t.tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("%s: %w", ErrMsgFailedToInsertConsumption, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertConsumption, err)
	}
	return nil
}

func (t *compositeTx) GetCompositeForUpdate(ctx context.Context, compositeID string) (*domain.CompositeTransaction, error) {
	return getComposite(ctx, t.tx, compositeID, true)
}

func (t *compositeTx) MarkReleased(ctx context.Context, compositeID string, at time.Time) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE composite_transactions SET released_at = $2 WHERE composite_id = $1`,
		compositeID, at)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkReleased, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCompositeNotFound, compositeID)
	}
	return nil
}

func (t *compositeTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return repository.ErrTxClosed
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

func (t *compositeTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return repository.ErrTxClosed
		}
		return err
	}
	return nil
}
