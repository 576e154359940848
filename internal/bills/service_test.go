package bills

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/avilaruiz/billbook-backend/internal/allocation"
	"github.com/avilaruiz/billbook-backend/pkg/db/models"
	pkgerrors "github.com/avilaruiz/billbook-backend/pkg/errors"
	"github.com/avilaruiz/billbook-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

type stubRepo struct {
	created      []models.Bill
	updated      []models.Bill
	deletedIDs   []int64
	deletedGroup string
	deletedKeep  int64

	createFn func(bill *models.Bill) error
	findFn   func(id int64) (*models.Bill, error)
	listByFn func(groupID string) ([]models.Bill, error)
	deleteFn func(id int64) (int64, error)
	listFn   func(params ListBillsQuery) ([]models.Bill, *pagination.Cursor, error)
}

func (s *stubRepo) Create(ctx context.Context, bill *models.Bill) error {
	if s.createFn != nil {
		if err := s.createFn(bill); err != nil {
			return err
		}
	}
	bill.ID = int64(len(s.created) + len(s.updated) + 1)
	s.created = append(s.created, *bill)
	return nil
}

func (s *stubRepo) Update(ctx context.Context, bill *models.Bill) error {
	s.updated = append(s.updated, *bill)
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*models.Bill, error) {
	if s.findFn != nil {
		return s.findFn(id)
	}
	return nil, nil
}

func (s *stubRepo) ListByGroup(ctx context.Context, groupID string) ([]models.Bill, error) {
	if s.listByFn != nil {
		return s.listByFn(groupID)
	}
	return nil, nil
}

func (s *stubRepo) DeleteGroupMembersExcept(ctx context.Context, groupID string, keepID int64) error {
	s.deletedGroup = groupID
	s.deletedKeep = keepID
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) (int64, error) {
	s.deletedIDs = append(s.deletedIDs, id)
	if s.deleteFn != nil {
		return s.deleteFn(id)
	}
	return 1, nil
}

func (s *stubRepo) List(ctx context.Context, params ListBillsQuery) ([]models.Bill, *pagination.Cursor, error) {
	if s.listFn != nil {
		return s.listFn(params)
	}
	return nil, nil, nil
}

func (s *stubRepo) ListGroupsWithMixedCustomers(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (s *stubRepo) ListRowsWithAllocationDrift(ctx context.Context) ([]models.Bill, error) {
	return nil, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var groupIDPattern = regexp.MustCompile(`^bill_\d+_[0-9a-z]{5}$`)

func TestNewGroupIDShape(t *testing.T) {
	for i := 0; i < 10; i++ {
		if id := NewGroupID(); !groupIDPattern.MatchString(id) {
			t.Fatalf("unexpected group id %q", id)
		}
	}
}

func TestCreateBillAllocatesAcrossItems(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	created, err := svc.CreateBill(context.Background(), CreateBillParams{
		CustomerName: "Acme Corp",
		Items: []allocation.LineItem{
			{ProductName: "Widget", Quantity: 2, PricePerUnit: dec("10.00")},
			{ProductName: "Gadget", Quantity: 1, PricePerUnit: dec("30.00")},
		},
		PaidAmount: dec("25.00"),
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(created))
	}

	if !groupIDPattern.MatchString(created[0].GroupID) {
		t.Fatalf("unexpected group id %q", created[0].GroupID)
	}
	if created[0].GroupID != created[1].GroupID {
		t.Fatalf("rows do not share a group id")
	}

	if !created[0].PaidAmount.Equal(dec("10.00")) || !created[0].RemainingAmount.Equal(dec("10.00")) {
		t.Fatalf("widget split: paid=%s remaining=%s", created[0].PaidAmount, created[0].RemainingAmount)
	}
	if !created[1].PaidAmount.Equal(dec("15.00")) || !created[1].RemainingAmount.Equal(dec("15.00")) {
		t.Fatalf("gadget split: paid=%s remaining=%s", created[1].PaidAmount, created[1].RemainingAmount)
	}
	for _, row := range created {
		if !row.PaidAmount.Add(row.RemainingAmount).Equal(row.Total) {
			t.Fatalf("paid+remaining != total for %+v", row)
		}
	}
}

func TestCreateBillValidation(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	cases := []struct {
		name   string
		params CreateBillParams
	}{
		{
			name: "empty customer",
			params: CreateBillParams{
				Items:      []allocation.LineItem{{ProductName: "Widget", Quantity: 1, PricePerUnit: dec("1.00")}},
				PaidAmount: dec("0"),
			},
		},
		{
			name:   "no items",
			params: CreateBillParams{CustomerName: "Acme", PaidAmount: dec("0")},
		},
		{
			name: "zero quantity",
			params: CreateBillParams{
				CustomerName: "Acme",
				Items:        []allocation.LineItem{{ProductName: "Widget", Quantity: 0, PricePerUnit: dec("1.00")}},
				PaidAmount:   dec("0"),
			},
		},
		{
			name: "negative paid",
			params: CreateBillParams{
				CustomerName: "Acme",
				Items:        []allocation.LineItem{{ProductName: "Widget", Quantity: 1, PricePerUnit: dec("1.00")}},
				PaidAmount:   dec("-1"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBill(context.Background(), tc.params)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateBillPartialWriteOnFailure(t *testing.T) {
	boom := errors.New("insert failed")
	repo := &stubRepo{}
	repo.createFn = func(bill *models.Bill) error {
		if len(repo.created) == 1 {
			return boom
		}
		return nil
	}
	svc := newTestService(t, repo)

	_, err := svc.CreateBill(context.Background(), CreateBillParams{
		CustomerName: "Acme",
		Items: []allocation.LineItem{
			{ProductName: "Widget", Quantity: 1, PricePerUnit: dec("5.00")},
			{ProductName: "Gadget", Quantity: 1, PricePerUnit: dec("5.00")},
		},
		PaidAmount: dec("10.00"),
	})

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected first row to stay written, got %d rows", len(repo.created))
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestGetBillReturnsGroupInOrder(t *testing.T) {
	group := []models.Bill{
		{ID: 4, GroupID: "bill_1_aaaaa", ProductName: "Widget"},
		{ID: 7, GroupID: "bill_1_aaaaa", ProductName: "Gadget"},
	}
	repo := &stubRepo{
		findFn: func(id int64) (*models.Bill, error) {
			b := group[0]
			return &b, nil
		},
		listByFn: func(groupID string) ([]models.Bill, error) {
			if groupID != "bill_1_aaaaa" {
				t.Fatalf("unexpected group lookup %q", groupID)
			}
			return group, nil
		},
	}
	svc := newTestService(t, repo)

	detail, err := svc.GetBill(context.Background(), 4)
	if err != nil {
		t.Fatalf("GetBill: %v", err)
	}
	if len(detail.Group) != 2 || detail.Group[0].ProductName != "Widget" || detail.Group[1].ProductName != "Gadget" {
		t.Fatalf("unexpected group %+v", detail.Group)
	}
}

func TestGetBillSingleRecordFallback(t *testing.T) {
	repo := &stubRepo{
		findFn: func(id int64) (*models.Bill, error) {
			return &models.Bill{ID: 9, ProductName: "Widget"}, nil
		},
	}
	svc := newTestService(t, repo)

	detail, err := svc.GetBill(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetBill: %v", err)
	}
	if len(detail.Group) != 1 || detail.Group[0].ID != 9 {
		t.Fatalf("expected single-record fallback, got %+v", detail.Group)
	}
}

func TestGetBillNotFound(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.GetBill(context.Background(), 42)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateBillReplacesGroup(t *testing.T) {
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := &stubRepo{
		findFn: func(id int64) (*models.Bill, error) {
			return &models.Bill{ID: 4, GroupID: "bill_1_aaaaa", CustomerName: "Old Name", CreatedAt: createdAt}, nil
		},
	}
	svc := newTestService(t, repo)

	rows, err := svc.UpdateBill(context.Background(), 4, UpdateBillParams{
		CustomerName: "New Name",
		Items: []allocation.LineItem{
			{ProductName: "Widget", Quantity: 2, PricePerUnit: dec("10.00")},
			{ProductName: "Gadget", Quantity: 1, PricePerUnit: dec("30.00")},
		},
		PaidAmount: dec("25.00"),
	})
	if err != nil {
		t.Fatalf("UpdateBill: %v", err)
	}

	if len(repo.updated) != 1 {
		t.Fatalf("expected 1 in-place update, got %d", len(repo.updated))
	}
	target := repo.updated[0]
	if target.ID != 4 || !target.CreatedAt.Equal(createdAt) {
		t.Fatalf("target row identity not preserved: %+v", target)
	}
	if target.GroupID != "bill_1_aaaaa" || target.ProductName != "Widget" || target.CustomerName != "New Name" {
		t.Fatalf("target row not rewritten with first item: %+v", target)
	}

	if repo.deletedGroup != "bill_1_aaaaa" || repo.deletedKeep != 4 {
		t.Fatalf("group members not cleared: group=%q keep=%d", repo.deletedGroup, repo.deletedKeep)
	}

	if len(repo.created) != 1 || repo.created[0].ProductName != "Gadget" || repo.created[0].GroupID != "bill_1_aaaaa" {
		t.Fatalf("remaining items not reinserted: %+v", repo.created)
	}

	if len(rows) != 2 || rows[0].ProductName != "Widget" || rows[1].ProductName != "Gadget" {
		t.Fatalf("unexpected result rows %+v", rows)
	}
}

func TestUpdateBillMintsGroupIDForLegacyRow(t *testing.T) {
	repo := &stubRepo{
		findFn: func(id int64) (*models.Bill, error) {
			return &models.Bill{ID: 11}, nil
		},
	}
	svc := newTestService(t, repo)
	svc.newGroupID = func() string { return "bill_99_zzzzz" }

	rows, err := svc.UpdateBill(context.Background(), 11, UpdateBillParams{
		CustomerName: "Acme",
		Items: []allocation.LineItem{
			{ProductName: "Widget", Quantity: 1, PricePerUnit: dec("5.00")},
		},
		PaidAmount: dec("5.00"),
	})
	if err != nil {
		t.Fatalf("UpdateBill: %v", err)
	}

	if rows[0].GroupID != "bill_99_zzzzz" {
		t.Fatalf("expected fresh group id, got %q", rows[0].GroupID)
	}
	// The delete step runs against the fresh id, which matches no existing
	// rows.
	if repo.deletedGroup != "bill_99_zzzzz" {
		t.Fatalf("delete step used group %q", repo.deletedGroup)
	}
}

func TestUpdateBillNotFound(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.UpdateBill(context.Background(), 42, UpdateBillParams{
		CustomerName: "Acme",
		Items: []allocation.LineItem{
			{ProductName: "Widget", Quantity: 1, PricePerUnit: dec("5.00")},
		},
		PaidAmount: dec("0"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteBillRemovesSingleRow(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	if err := svc.DeleteBill(context.Background(), 7); err != nil {
		t.Fatalf("DeleteBill: %v", err)
	}
	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != 7 {
		t.Fatalf("unexpected deletes %v", repo.deletedIDs)
	}
	if repo.deletedGroup != "" {
		t.Fatalf("delete must not cascade to group members")
	}
}

func TestDeleteBillNotFound(t *testing.T) {
	repo := &stubRepo{
		deleteFn: func(id int64) (int64, error) { return 0, nil },
	}
	svc := newTestService(t, repo)

	err := svc.DeleteBill(context.Background(), 42)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListBillsInvalidCursor(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, _, err := svc.ListBills(context.Background(), ListBillsParams{Cursor: "not-base64!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListBillsPassesCustomerFilter(t *testing.T) {
	repo := &stubRepo{
		listFn: func(params ListBillsQuery) ([]models.Bill, *pagination.Cursor, error) {
			if params.CustomerName == nil || *params.CustomerName != "Acme" {
				t.Fatalf("customer filter not forwarded: %+v", params)
			}
			return []models.Bill{{ID: 1}}, nil, nil
		},
	}
	svc := newTestService(t, repo)

	bills, next, err := svc.ListBills(context.Background(), ListBillsParams{CustomerName: "Acme"})
	if err != nil {
		t.Fatalf("ListBills: %v", err)
	}
	if len(bills) != 1 || next != nil {
		t.Fatalf("unexpected result: %d bills, cursor %v", len(bills), next)
	}
}
