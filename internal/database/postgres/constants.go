package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Offer Operations
const (
	ErrMsgFailedToGetOffer      = "failed to get offer"
	ErrMsgFailedToListOffers    = "failed to list offers"
	ErrMsgFailedToUpsertOffers  = "failed to upsert offers"
	ErrMsgFailedToScanOffer     = "failed to scan offer"
	ErrMsgFailedToBeginOfferTx  = "failed to begin tx for offer upsert"
	ErrMsgFailedToCommitOfferTx = "failed to commit offer upsert"
)

// Error Messages - Composite Operations
const (
	ErrMsgFailedToInsertComposite   = "failed to insert composite transaction"
	ErrMsgDuplicateComposite        = "composite transaction already exists"
	ErrMsgFailedToInsertConsumption = "failed to insert composite consumption"
	ErrMsgFailedToGetComposite      = "failed to get composite transaction"
	ErrMsgFailedToListComposites    = "failed to list composite transactions"
	ErrMsgFailedToLoadSelection     = "failed to load composite selection"
	ErrMsgFailedToMarkReleased      = "failed to mark composite released"
	ErrMsgFailedToSumConsumption    = "failed to sum consumption"
)
