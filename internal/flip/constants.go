package flip

// Log messages
const (
	LogMsgApplicableRecipes = "ApplicableRecipes called"
	LogMsgFeasibility       = "Feasibility called"
	LogMsgBuild             = "Build called"
	LogMsgBuildMax          = "BuildMax called"
	LogMsgRelease           = "Release called"
	LogMsgRecordOffers      = "RecordOffers called"
	LogMsgOffersRecorded    = "Offers recorded"
	LogMsgCatalogReloaded   = "Recipe catalog reloaded"
	LogMsgPublishFailed     = "Failed to publish event"
)

// Error messages
const (
	ErrMsgRecipeRefMissing = "either recipe_name or set_parent_id is required"
	ErrMsgAssignedNegative = "assigned amount cannot be negative"
)
