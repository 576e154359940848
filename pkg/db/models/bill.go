package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is one persisted line item of a customer transaction. Rows created by
// the same submission share a GroupID; the row whose id is the smallest in
// the group is the one edit forms are pre-filled from.
type Bill struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	GroupID         string          `gorm:"column:group_id;not null;index"`
	CustomerName    string          `gorm:"column:customer_name;not null"`
	ProductName     string          `gorm:"column:product_name;not null"`
	Quantity        int             `gorm:"column:quantity;not null"`
	PricePerUnit    decimal.Decimal `gorm:"column:price_per_unit;type:numeric(12,2);not null"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	PaidAmount      decimal.Decimal `gorm:"column:paid_amount;type:numeric(12,2);not null"`
	RemainingAmount decimal.Decimal `gorm:"column:remaining_amount;type:numeric(12,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
