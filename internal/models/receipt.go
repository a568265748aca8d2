package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Layouts for the date and time fields of a receipt, as they appear on the
// wire and in storage.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// MaxRetailerLen is the longest accepted retailer name.
const MaxRetailerLen = 30

// Receipt represents a submitted purchase receipt together with the points
// awarded to it.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	// Assigned by the store on creation.
	ID string

	// Retailer is the name of the store the purchase was made at.
	Retailer string

	// PurchaseDate is the calendar date of the purchase. Only the
	// year/month/day components are meaningful.
	PurchaseDate time.Time

	// PurchaseTime is the time of day of the purchase. Only the hour and
	// minute components are meaningful.
	PurchaseTime time.Time

	// Total is the final amount paid, with two fractional digits.
	Total decimal.Decimal

	// Items are the line items on the receipt, in submission order.
	Items []Item

	// Points is the score computed from the receipt at submission time.
	// It never changes after creation.
	Points int64

	// CreatedAt is the Unix timestamp when the receipt was stored.
	CreatedAt int64
}

// Item represents a single line item on a receipt.
type Item struct {
	// ShortDescription is the product description as printed on the receipt.
	ShortDescription string

	// Price is the price of this item, with two fractional digits.
	Price decimal.Decimal
}
