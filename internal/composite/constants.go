package composite

// Log messages
const (
	LogMsgBuildStarted  = "Building composite transaction"
	LogMsgBuildNotReady = "Selection does not meet targets"
	LogMsgBuildRejected = "Composite build rejected"
	LogMsgBuilt         = "Composite transaction built"
)
