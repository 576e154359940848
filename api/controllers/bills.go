package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/avilaruiz/billbook-backend/api/responses"
	"github.com/avilaruiz/billbook-backend/api/validators"
	"github.com/avilaruiz/billbook-backend/internal/allocation"
	"github.com/avilaruiz/billbook-backend/internal/bills"
	"github.com/avilaruiz/billbook-backend/pkg/db/models"
	pkgerrors "github.com/avilaruiz/billbook-backend/pkg/errors"
	"github.com/avilaruiz/billbook-backend/pkg/logger"
	"github.com/avilaruiz/billbook-backend/pkg/pagination"
)

const maxNameLength = 200

// BillsService is the bill group surface the HTTP layer depends on.
type BillsService interface {
	CreateBill(ctx context.Context, params bills.CreateBillParams) ([]models.Bill, error)
	GetBill(ctx context.Context, id int64) (*bills.BillDetail, error)
	UpdateBill(ctx context.Context, id int64, params bills.UpdateBillParams) ([]models.Bill, error)
	DeleteBill(ctx context.Context, id int64) error
	ListBills(ctx context.Context, params bills.ListBillsParams) ([]models.Bill, *pagination.Cursor, error)
}

type lineItemPayload struct {
	ProductName  string          `json:"product_name" validate:"required"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

type billPayload struct {
	CustomerName string            `json:"customer_name" validate:"required"`
	Items        []lineItemPayload `json:"items" validate:"required,min=1,dive"`
	PaidAmount   decimal.Decimal   `json:"paid_amount"`
}

func (p billPayload) lineItems() []allocation.LineItem {
	items := make([]allocation.LineItem, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, allocation.LineItem{
			ProductName:  validators.SanitizeString(item.ProductName, maxNameLength),
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit,
		})
	}
	return items
}

// BillCreate persists a new bill group from one submission.
func BillCreate(svc BillsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bills service unavailable"))
			return
		}

		var payload billPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		customer := validators.SanitizeString(payload.CustomerName, maxNameLength)
		if logg != nil {
			ctx = logg.WithCustomer(ctx, customer)
		}

		created, err := svc.CreateBill(ctx, bills.CreateBillParams{
			CustomerName: customer,
			Items:        payload.lineItems(),
			PaidAmount:   payload.PaidAmount,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, bills.BillList{Bills: bills.NewBillViews(created)})
	}
}

// BillList returns one page of bills, optionally filtered to a customer.
func BillList(svc BillsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bills service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, next, err := svc.ListBills(ctx, bills.ListBillsParams{
			CustomerName: validators.SanitizeString(r.URL.Query().Get("customer"), maxNameLength),
			Limit:        limit,
			Cursor:       strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, bills.NewBillList(page, next))
	}
}

// BillDetail returns a bill plus the ordered item list of its group.
func BillDetail(svc BillsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bills service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "billId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		detail, err := svc.GetBill(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, bills.NewBillDetailView(*detail))
	}
}

// BillUpdate replaces the target bill's group with the submitted item list.
func BillUpdate(svc BillsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bills service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "billId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload billPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		customer := validators.SanitizeString(payload.CustomerName, maxNameLength)
		if logg != nil {
			ctx = logg.WithCustomer(ctx, customer)
		}

		rows, err := svc.UpdateBill(ctx, id, bills.UpdateBillParams{
			CustomerName: customer,
			Items:        payload.lineItems(),
			PaidAmount:   payload.PaidAmount,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, bills.BillList{Bills: bills.NewBillViews(rows)})
	}
}

// BillDelete removes exactly one row, leaving other group members in place.
func BillDelete(svc BillsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bills service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "billId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteBill(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// CustomerBills lists one customer's bills, mirroring the customer view.
func CustomerBills(svc BillsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bills service unavailable"))
			return
		}

		customer := validators.SanitizeString(chi.URLParam(r, "customerName"), maxNameLength)
		if customer == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customer name required"))
			return
		}
		if logg != nil {
			ctx = logg.WithCustomer(ctx, customer)
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, next, err := svc.ListBills(ctx, bills.ListBillsParams{
			CustomerName: customer,
			Limit:        limit,
			Cursor:       strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, bills.NewBillList(page, next))
	}
}
