package allocation

import (
	"github.com/shopspring/decimal"
)

// LineItem is one product entry of a submission before any money math runs.
type LineItem struct {
	ProductName  string
	Quantity     int
	PricePerUnit decimal.Decimal
}

// Split carries the computed money fields for one line item. Values keep
// full precision; callers round for storage and display.
type Split struct {
	LineTotal decimal.Decimal
	Paid      decimal.Decimal
	Remaining decimal.Decimal
}

// LineTotal returns quantity x price for a single item.
func LineTotal(item LineItem) decimal.Decimal {
	return item.PricePerUnit.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// GrandTotal sums the line totals of all items.
func GrandTotal(items []LineItem) decimal.Decimal {
	grand := decimal.Zero
	for _, item := range items {
		grand = grand.Add(LineTotal(item))
	}
	return grand
}

// Allocate distributes a single paid amount across items proportionally to
// each item's share of the grand total. Output order matches input order.
// A zero grand total yields zero paid and zero remaining for every item,
// whatever the paid amount. A negative paid amount is a caller precondition
// violation and is not checked here.
func Allocate(items []LineItem, paid decimal.Decimal) []Split {
	grand := GrandTotal(items)
	splits := make([]Split, 0, len(items))
	for _, item := range items {
		total := LineTotal(item)
		split := Split{LineTotal: total}
		if grand.IsPositive() {
			split.Paid = paid.Mul(total).Div(grand)
			split.Remaining = total.Sub(split.Paid)
		} else {
			split.Paid = decimal.Zero
			split.Remaining = decimal.Zero
		}
		splits = append(splits, split)
	}
	return splits
}
