package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
)

func item(name string, qty int, price string) LineItem {
	return LineItem{
		ProductName:  name,
		Quantity:     qty,
		PricePerUnit: decimal.RequireFromString(price),
	}
}

func TestAllocateProportional(t *testing.T) {
	items := []LineItem{
		item("Widget", 2, "10.00"),
		item("Gadget", 1, "30.00"),
	}

	splits := Allocate(items, decimal.RequireFromString("25.00"))
	if len(splits) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(splits))
	}

	if !splits[0].LineTotal.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("widget line total: %s", splits[0].LineTotal)
	}
	if !splits[0].Paid.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("widget paid: %s", splits[0].Paid)
	}
	if !splits[0].Remaining.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("widget remaining: %s", splits[0].Remaining)
	}
	if !splits[1].Paid.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("gadget paid: %s", splits[1].Paid)
	}
	if !splits[1].Remaining.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("gadget remaining: %s", splits[1].Remaining)
	}
}

func TestAllocatePaidSumsToPayment(t *testing.T) {
	items := []LineItem{
		item("Coffee", 3, "4.50"),
		item("Beans", 1, "12.99"),
		item("Mug", 2, "7.25"),
	}
	paid := decimal.RequireFromString("19.37")

	splits := Allocate(items, paid)

	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.Paid)
		if !s.Paid.Add(s.Remaining).Equal(s.LineTotal) {
			t.Fatalf("paid+remaining != total for split %+v", s)
		}
	}
	epsilon := decimal.New(1, -12)
	if sum.Sub(paid).Abs().GreaterThan(epsilon) {
		t.Fatalf("allocated sum %s does not match paid %s", sum, paid)
	}
}

func TestAllocateZeroGrandTotal(t *testing.T) {
	items := []LineItem{item("Free Sample", 1, "0.00")}

	splits := Allocate(items, decimal.RequireFromString("5.00"))
	if len(splits) != 1 {
		t.Fatalf("expected 1 split, got %d", len(splits))
	}
	if !splits[0].Paid.IsZero() || !splits[0].Remaining.IsZero() {
		t.Fatalf("expected zero allocation, got paid=%s remaining=%s", splits[0].Paid, splits[0].Remaining)
	}
}

func TestAllocatePreservesOrder(t *testing.T) {
	items := []LineItem{
		item("C", 1, "3.00"),
		item("A", 1, "1.00"),
		item("B", 1, "2.00"),
	}

	splits := Allocate(items, decimal.RequireFromString("6.00"))

	want := []string{"3", "1", "2"}
	for i, s := range splits {
		if !s.LineTotal.Equal(decimal.RequireFromString(want[i])) {
			t.Fatalf("split %d out of order: %s", i, s.LineTotal)
		}
	}
}

func TestAllocateEmptyItems(t *testing.T) {
	splits := Allocate(nil, decimal.RequireFromString("10.00"))
	if len(splits) != 0 {
		t.Fatalf("expected no splits, got %d", len(splits))
	}
}

func TestGrandTotal(t *testing.T) {
	items := []LineItem{
		item("Widget", 2, "10.00"),
		item("Gadget", 1, "30.00"),
	}
	if got := GrandTotal(items); !got.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("grand total: %s", got)
	}
}
