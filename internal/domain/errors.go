package domain

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Catalog errors
	ErrMsgCatalogUnavailable    = "catalog unavailable"
	ErrMsgMalformedCatalogEntry = "malformed catalog entry"
	ErrMsgRecipeNotFound        = "recipe not found"
	ErrMsgRecipeNotApplicable   = "recipe not applicable to offer"

	// Ledger errors
	ErrMsgNotReady        = "selection not ready"
	ErrMsgOverConsumption = "offer over-consumption"
	ErrMsgOfferNotFound   = "offer not found"

	// Composite errors
	ErrMsgCompositeNotFound = "composite transaction not found"
	ErrMsgAlreadyReleased   = "composite transaction already released"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Database errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrCatalogUnavailable    = errors.New(ErrMsgCatalogUnavailable)
	ErrMalformedCatalogEntry = errors.New(ErrMsgMalformedCatalogEntry)
	ErrRecipeNotFound        = errors.New(ErrMsgRecipeNotFound)
	ErrRecipeNotApplicable   = errors.New(ErrMsgRecipeNotApplicable)

	ErrNotReady        = errors.New(ErrMsgNotReady)
	ErrOverConsumption = errors.New(ErrMsgOverConsumption)
	ErrOfferNotFound   = errors.New(ErrMsgOfferNotFound)

	ErrCompositeNotFound = errors.New(ErrMsgCompositeNotFound)
	ErrAlreadyReleased   = errors.New(ErrMsgAlreadyReleased)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// Shortfall describes how far an item's selection is from its target
type Shortfall struct {
	ItemID int `json:"item_id"`
	Have   int `json:"have"`
	Want   int `json:"want"`
}

// NotReadyError is returned when a selection does not meet its target quantities.
// It is an expected outcome, not a failure: the caller adjusts the selection and retries.
type NotReadyError struct {
	Shortfalls []Shortfall
}

// Error lists shortfalls by item id. The receiver is never modified, so the error
// may be formatted from several goroutines.
func (e *NotReadyError) Error() string {
	short := slices.Clone(e.Shortfalls)
	sort.Slice(short, func(i, j int) bool { return short[i].ItemID < short[j].ItemID })
	parts := make([]string, 0, len(short))
	for _, s := range short {
		parts = append(parts, fmt.Sprintf("item %d has %d want %d", s.ItemID, s.Have, s.Want))
	}
	return fmt.Sprintf("%s: %s", ErrMsgNotReady, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is(err, ErrNotReady) match
func (e *NotReadyError) Unwrap() error {
	return ErrNotReady
}
