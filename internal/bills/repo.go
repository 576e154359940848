package bills

import (
	"context"

	"github.com/avilaruiz/billbook-backend/pkg/db/models"
	"github.com/avilaruiz/billbook-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository handles bill persistence.
type Repository interface {
	Create(ctx context.Context, bill *models.Bill) error
	Update(ctx context.Context, bill *models.Bill) error
	FindByID(ctx context.Context, id int64) (*models.Bill, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.Bill, error)
	DeleteGroupMembersExcept(ctx context.Context, groupID string, keepID int64) error
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, params ListBillsQuery) ([]models.Bill, *pagination.Cursor, error)
	ListGroupsWithMixedCustomers(ctx context.Context) ([]string, error)
	ListRowsWithAllocationDrift(ctx context.Context) ([]models.Bill, error)
}

// ListBillsQuery configures bill list queries.
type ListBillsQuery struct {
	CustomerName *string
	Limit        int
	Cursor       *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a bill repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *repository) Update(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Bill, error) {
	var bill models.Bill
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&bill).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

// ListByGroup returns the group members in submission order. Ids are
// monotonic, so ascending id reconstructs the order items were inserted.
func (r *repository) ListByGroup(ctx context.Context, groupID string) ([]models.Bill, error) {
	var bills []models.Bill
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("id ASC").
		Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repository) DeleteGroupMembersExcept(ctx context.Context, groupID string, keepID int64) error {
	return r.db.WithContext(ctx).
		Where("group_id = ? AND id <> ?", groupID, keepID).
		Delete(&models.Bill{}).Error
}

// Delete removes exactly one row and reports how many rows matched.
func (r *repository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Bill{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) List(ctx context.Context, params ListBillsQuery) ([]models.Bill, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Bill{})
	if params.CustomerName != nil {
		query = query.Where("customer_name = ?", *params.CustomerName)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) > (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var bills []models.Bill
	if err := query.Order("created_at ASC, id ASC").Limit(pagination.LimitWithBuffer(limit)).Find(&bills).Error; err != nil {
		return nil, nil, err
	}

	if len(bills) > limit {
		bills = bills[:limit]
		// Cursor points at the last returned row; the strict (created_at, id)
		// comparison above then resumes at the row after it.
		last := bills[limit-1]
		return bills, &pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		}, nil
	}

	return bills, nil, nil
}

// ListGroupsWithMixedCustomers reports groups whose members no longer agree
// on the customer name, which the write path never produces on its own.
func (r *repository) ListGroupsWithMixedCustomers(ctx context.Context) ([]string, error) {
	var groups []string
	if err := r.db.WithContext(ctx).
		Model(&models.Bill{}).
		Select("group_id").
		Group("group_id").
		Having("COUNT(DISTINCT customer_name) > 1").
		Order("group_id ASC").
		Pluck("group_id", &groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// ListRowsWithAllocationDrift reports rows where paid plus remaining no
// longer equals the line total.
func (r *repository) ListRowsWithAllocationDrift(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	if err := r.db.WithContext(ctx).
		Where("paid_amount + remaining_amount <> total").
		Order("id ASC").
		Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}
