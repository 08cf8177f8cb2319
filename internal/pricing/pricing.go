// Package pricing derives line-item prices and cart totals from cart
// snapshots. Everything here is a pure function; formatting aside, nothing
// touches I/O.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/co-developer342/fyp-wednesday/internal/cart"
)

// LineItemPrice is the snapshotted base price plus the delta of every
// selected attribute. No selection means no deltas.
func LineItemPrice(item cart.LineItem) float64 {
	price := item.BasePrice
	for _, sel := range item.Selected {
		price += sel.PriceDelta
	}
	return price
}

// CartTotal sums LineItemPrice over all items; an empty cart totals 0.
func CartTotal(items []cart.LineItem) float64 {
	total := 0.0
	for _, it := range items {
		total += LineItemPrice(it)
	}
	return total
}

// ItemCount is the number of line items. Each Add is one unit, so this is
// not quantity-weighted.
func ItemCount(items []cart.LineItem) int {
	return len(items)
}

// FormatUSD renders v the way the storefront UI does: "$1,234.56".
// Negative values get a leading minus: "-$5.00".
func FormatUSD(v float64) string {
	neg := v < 0 || math.Signbit(v)
	cents := int64(math.Round(math.Abs(v) * 100))

	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := fmt.Sprintf("$%s.%02d", b.String(), frac)
	if neg && cents != 0 {
		out = "-" + out
	}
	return out
}
