package dashboard

import (
	"context"

	"github.com/avilaruiz/billbook-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stats is the reduction over a set of bill rows.
type Stats struct {
	BillCount       int64           `gorm:"column:bill_count" json:"bill_count"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount" json:"total_amount"`
	PaidAmount      decimal.Decimal `gorm:"column:paid_amount" json:"paid_amount"`
	RemainingAmount decimal.Decimal `gorm:"column:remaining_amount" json:"remaining_amount"`
}

// Repository handles dashboard aggregation queries.
type Repository interface {
	Aggregate(ctx context.Context, customerName *string) (*Stats, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a dashboard repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Aggregate(ctx context.Context, customerName *string) (*Stats, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Bill{}).
		Select(`COUNT(*) AS bill_count,
			COALESCE(SUM(total), 0) AS total_amount,
			COALESCE(SUM(paid_amount), 0) AS paid_amount,
			COALESCE(SUM(remaining_amount), 0) AS remaining_amount`)
	if customerName != nil {
		query = query.Where("customer_name = ?", *customerName)
	}

	var stats Stats
	if err := query.Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
