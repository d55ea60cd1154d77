package ledger

// Log messages
const (
	LogMsgReplayed       = "Consumption ledger replayed"
	LogMsgCommitted      = "Composite committed to ledger"
	LogMsgReleased       = "Composite released from ledger"
	LogMsgCommitRejected = "Composite rejected by ledger"
	LogMsgPersistFailed  = "Failed to persist composite"
)
