// Package points implements the receipt scoring rules.
package points

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pointable/receipts/internal/models"
)

var (
	quarter = decimal.RequireFromString("0.25")
	fifth   = decimal.RequireFromString("0.2")
)

// Calculate computes the points awarded to a receipt. It is pure and
// deterministic: identical receipts always score identically. Inputs are
// assumed to be validated; every rule is additive so the result is never
// negative.
//
// Rules:
//   - 1 point per alphanumeric character in the retailer name
//   - 50 points if the total is a round dollar amount
//   - 25 points if the total is a multiple of 0.25
//   - 5 points for every two items
//   - 6 points if the purchase day of month is odd
//   - 10 points if the purchase time is at or after 14:00 and before 16:00
//   - ceil(price * 0.2) points per item whose trimmed description length is
//     a positive multiple of 3
func Calculate(r *models.Receipt) int64 {
	var pts int64

	pts += retailerPoints(r.Retailer)
	pts += totalPoints(r.Total)
	pts += int64(len(r.Items)/2) * 5

	if r.PurchaseDate.Day()%2 != 0 {
		pts += 6
	}
	if afternoonWindow(r.PurchaseTime.Hour()) {
		pts += 10
	}

	for _, item := range r.Items {
		pts += itemPoints(item)
	}

	return pts
}

// retailerPoints awards one point per ASCII letter or digit. Spaces,
// punctuation and non-ASCII characters score nothing.
func retailerPoints(retailer string) int64 {
	var pts int64
	for _, ch := range retailer {
		switch {
		case ch >= '0' && ch <= '9':
			pts++
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
			pts++
		}
	}
	return pts
}

func totalPoints(total decimal.Decimal) int64 {
	var pts int64
	if total.IsInteger() {
		pts += 50
	}
	if total.Mod(quarter).IsZero() {
		pts += 25
	}
	return pts
}

// afternoonWindow reports whether the hour falls in [14:00, 16:00).
// Minutes are irrelevant: any minute of hour 14 or 15 qualifies.
func afternoonWindow(hour int) bool {
	return hour == 14 || hour == 15
}

func itemPoints(item models.Item) int64 {
	trimmed := strings.TrimSpace(item.ShortDescription)
	if len(trimmed) == 0 || len(trimmed)%3 != 0 {
		return 0
	}
	return item.Price.Mul(fifth).Ceil().IntPart()
}
