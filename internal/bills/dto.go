package bills

import (
	"time"

	"github.com/avilaruiz/billbook-backend/pkg/db/models"
	"github.com/avilaruiz/billbook-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// BillView is the API shape of one persisted bill row.
type BillView struct {
	ID              int64           `json:"id"`
	GroupID         string          `json:"group_id"`
	CustomerName    string          `json:"customer_name"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	Total           decimal.Decimal `json:"total"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BillList carries one page of bills plus the cursor for the next page.
type BillList struct {
	Bills      []BillView `json:"bills"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// BillDetailView is one bill plus the ordered membership of its group.
type BillDetailView struct {
	Bill  BillView   `json:"bill"`
	Items []BillView `json:"items"`
}

// NewBillView maps a persisted row into its API shape.
func NewBillView(bill models.Bill) BillView {
	return BillView{
		ID:              bill.ID,
		GroupID:         bill.GroupID,
		CustomerName:    bill.CustomerName,
		ProductName:     bill.ProductName,
		Quantity:        bill.Quantity,
		PricePerUnit:    bill.PricePerUnit,
		Total:           bill.Total,
		PaidAmount:      bill.PaidAmount,
		RemainingAmount: bill.RemainingAmount,
		CreatedAt:       bill.CreatedAt,
		UpdatedAt:       bill.UpdatedAt,
	}
}

// NewBillViews maps a slice of rows, preserving order.
func NewBillViews(bills []models.Bill) []BillView {
	views := make([]BillView, 0, len(bills))
	for _, bill := range bills {
		views = append(views, NewBillView(bill))
	}
	return views
}

// NewBillList assembles a page response with an encoded next cursor.
func NewBillList(bills []models.Bill, next *pagination.Cursor) BillList {
	list := BillList{Bills: NewBillViews(bills)}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list
}

// NewBillDetailView assembles the detail response for edit-form pre-fill.
func NewBillDetailView(detail BillDetail) BillDetailView {
	return BillDetailView{
		Bill:  NewBillView(detail.Bill),
		Items: NewBillViews(detail.Group),
	}
}
