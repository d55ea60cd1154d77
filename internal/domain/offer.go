package domain

import "time"

// Side is the trade direction of an offer
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite returns the other trade direction
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Valid reports whether s is a known side
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// SideFromBool maps an isBuy flag to a Side
func SideFromBool(isBuy bool) Side {
	if isBuy {
		return SideBuy
	}
	return SideSell
}

// Offer is one executed (or in-progress) trade recorded by the game client.
// Offers are never mutated by the resolution engine.
type Offer struct {
	ID             string    `json:"offer_id"`
	ItemID         int       `json:"item_id"`
	Side           Side      `json:"side"`
	QuantityFilled int       `json:"quantity_filled"`
	TotalQuantity  int       `json:"total_quantity"`
	Price          int64     `json:"price"`
	MarginCheck    bool      `json:"margin_check"`
	Complete       bool      `json:"complete"`
	Time           time.Time `json:"time"`
}

// IsBuy reports whether the offer is a buy
func (o Offer) IsBuy() bool {
	return o.Side == SideBuy
}

// PartialOffer binds an amount of an offer to a single composite transaction.
// 0 <= AmountConsumed <= Offer.QuantityFilled.
type PartialOffer struct {
	Offer          Offer `json:"offer"`
	AmountConsumed int   `json:"amount_consumed"`
}

// Valid checks the per-binding bound. The cross-binding bound is enforced by the ledger.
func (p PartialOffer) Valid() bool {
	return p.AmountConsumed >= 0 && p.AmountConsumed <= p.Offer.QuantityFilled
}
