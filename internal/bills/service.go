package bills

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/avilaruiz/billbook-backend/internal/allocation"
	"github.com/avilaruiz/billbook-backend/pkg/db/models"
	pkgerrors "github.com/avilaruiz/billbook-backend/pkg/errors"
	"github.com/avilaruiz/billbook-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

const groupIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewGroupID mints a group identifier from the current time plus a random
// base36 suffix. There is no central allocator; uniqueness across concurrent
// creations rests on the millisecond timestamp and the suffix together.
func NewGroupID() string {
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = groupIDAlphabet[rand.Intn(len(groupIDAlphabet))]
	}
	return fmt.Sprintf("bill_%d_%s", time.Now().UnixMilli(), suffix)
}

// ServiceParams groups dependencies for the bills service.
type ServiceParams struct {
	Repo Repository
}

// Service owns bill group lifecycle: creation of group ids, membership
// changes, and the allocation of payments across group members.
type Service struct {
	repo       Repository
	newGroupID func() string
}

// NewService builds a bills service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo, newGroupID: NewGroupID}, nil
}

// CreateBillParams carries one submission: a customer, an ordered item list,
// and a single lump payment to allocate across the items.
type CreateBillParams struct {
	CustomerName string
	Items        []allocation.LineItem
	PaidAmount   decimal.Decimal
}

// UpdateBillParams replaces the full membership of the target record's group.
type UpdateBillParams struct {
	CustomerName string
	Items        []allocation.LineItem
	PaidAmount   decimal.Decimal
}

// ListBillsParams configures the paginated bill listing.
type ListBillsParams struct {
	CustomerName string
	Limit        int
	Cursor       string
}

// BillDetail is one record plus the ordered membership of its group, used to
// pre-fill edit forms.
type BillDetail struct {
	Bill  models.Bill
	Group []models.Bill
}

// CreateBill validates the submission, allocates the payment across items,
// and persists one row per item under a freshly minted group id. Rows are
// written sequentially with no rollback: a mid-sequence failure leaves the
// already-inserted prefix in place.
func (s *Service) CreateBill(ctx context.Context, params CreateBillParams) ([]models.Bill, error) {
	if err := validateSubmission(params.CustomerName, params.Items, params.PaidAmount); err != nil {
		return nil, err
	}

	groupID := s.newGroupID()
	splits := allocation.Allocate(params.Items, params.PaidAmount)

	created := make([]models.Bill, 0, len(params.Items))
	for i, item := range params.Items {
		row := buildRow(groupID, params.CustomerName, item, splits[i])
		if err := s.repo.Create(ctx, &row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bill row")
		}
		created = append(created, row)
	}
	return created, nil
}

// GetBill returns the record plus its group members in submission order. A
// record with no group id, or whose group lookup comes back empty, is treated
// as a one-item group.
func (s *Service) GetBill(ctx context.Context, id int64) (*BillDetail, error) {
	bill, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find bill")
	}
	if bill == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
	}

	detail := BillDetail{Bill: *bill}
	if bill.GroupID != "" {
		group, err := s.repo.ListByGroup(ctx, bill.GroupID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bill group")
		}
		detail.Group = group
	}
	if len(detail.Group) == 0 {
		detail.Group = []models.Bill{*bill}
	}
	return &detail, nil
}

// UpdateBill replaces the target record's group with the submitted item list.
// The target row is rewritten in place with the first item, every other
// current member is deleted, and the remaining items are inserted as fresh
// rows. The existing group id is reused; a new one is minted only when the
// target row has none, in which case the delete step matches no rows.
func (s *Service) UpdateBill(ctx context.Context, id int64, params UpdateBillParams) ([]models.Bill, error) {
	if err := validateSubmission(params.CustomerName, params.Items, params.PaidAmount); err != nil {
		return nil, err
	}

	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find bill")
	}
	if target == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
	}

	groupID := target.GroupID
	if groupID == "" {
		groupID = s.newGroupID()
	}

	splits := allocation.Allocate(params.Items, params.PaidAmount)

	first := buildRow(groupID, params.CustomerName, params.Items[0], splits[0])
	first.ID = target.ID
	first.CreatedAt = target.CreatedAt
	if err := s.repo.Update(ctx, &first); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update bill row")
	}

	if err := s.repo.DeleteGroupMembersExcept(ctx, groupID, target.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete group members")
	}

	rows := make([]models.Bill, 0, len(params.Items))
	rows = append(rows, first)
	for i := 1; i < len(params.Items); i++ {
		row := buildRow(groupID, params.CustomerName, params.Items[i], splits[i])
		if err := s.repo.Create(ctx, &row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bill row")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DeleteBill removes exactly one row. Other members of the row's group are
// left untouched, including when the deleted row was the group's first.
func (s *Service) DeleteBill(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete bill")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
	}
	return nil
}

// ListBills pages through bills in creation order, optionally filtered to one
// customer.
func (s *Service) ListBills(ctx context.Context, params ListBillsParams) ([]models.Bill, *pagination.Cursor, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := ListBillsQuery{Limit: params.Limit, Cursor: cursor}
	if params.CustomerName != "" {
		query.CustomerName = &params.CustomerName
	}

	bills, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bills")
	}
	return bills, next, nil
}

// buildRow materializes one persisted row from an item and its computed
// split. Paid is rounded to cents and remaining derived from the rounded
// value so paid + remaining equals total exactly per row.
func buildRow(groupID, customerName string, item allocation.LineItem, split allocation.Split) models.Bill {
	total := split.LineTotal.Round(2)
	paid := split.Paid.Round(2)
	return models.Bill{
		GroupID:         groupID,
		CustomerName:    customerName,
		ProductName:     item.ProductName,
		Quantity:        item.Quantity,
		PricePerUnit:    item.PricePerUnit,
		Total:           total,
		PaidAmount:      paid,
		RemainingAmount: total.Sub(paid),
	}
}

func validateSubmission(customerName string, items []allocation.LineItem, paid decimal.Decimal) error {
	details := map[string]string{}
	if customerName == "" {
		details["customer_name"] = "must not be empty"
	}
	if len(items) == 0 {
		details["items"] = "must contain at least one item"
	}
	for i, item := range items {
		if item.ProductName == "" {
			details[fmt.Sprintf("items[%d].product_name", i)] = "must not be empty"
		}
		if item.Quantity < 1 {
			details[fmt.Sprintf("items[%d].quantity", i)] = "must be at least 1"
		}
		if item.PricePerUnit.IsNegative() {
			details[fmt.Sprintf("items[%d].price_per_unit", i)] = "must not be negative"
		}
	}
	if paid.IsNegative() {
		details["paid_amount"] = "must not be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid bill submission").WithDetails(details)
	}
	return nil
}
