package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// Request errors
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidItemID         = "Invalid item id"
	ErrMsgInvalidPrice          = "Invalid price"
	ErrMsgInvalidSide           = "side must be buy or sell"

	// Service errors
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidInputError   = "Invalid request. Please check your inputs."
	ErrMsgOfferNotFound       = "Offer not found"
	ErrMsgCompositeNotFound   = "Composite transaction not found"
	ErrMsgRecipeNotFound      = "Recipe not found"
	ErrMsgRecipeNotApplicable = "Recipe cannot be triggered by this offer"
	ErrMsgNotReady            = "Selection does not meet recipe targets"
	ErrMsgOverConsumption     = "Selection would consume more than an offer filled"
	ErrMsgAlreadyReleased     = "Composite transaction already released"
	ErrMsgCatalogUnavailable  = "Recipe catalog is unavailable"
)

// Success messages
const (
	MsgOffersRecorded   = "Offers recorded"
	MsgCompositeBuilt   = "Composite transaction created"
	MsgCompositeRelease = "Composite transaction released"
	MsgCatalogReloaded  = "Recipe catalog reloaded"
)
