package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/avilaruiz/billbook-backend/internal/dashboard"
	pkgerrors "github.com/avilaruiz/billbook-backend/pkg/errors"
)

type testStatsService struct {
	statsFn func(ctx context.Context, customerName string) (*dashboard.Stats, error)
}

func (s *testStatsService) Stats(ctx context.Context, customerName string) (*dashboard.Stats, error) {
	return s.statsFn(ctx, customerName)
}

func TestDashboardStatsSuccess(t *testing.T) {
	svc := &testStatsService{
		statsFn: func(ctx context.Context, customerName string) (*dashboard.Stats, error) {
			if customerName != "" {
				t.Fatalf("unexpected customer filter %q", customerName)
			}
			return &dashboard.Stats{
				BillCount:       3,
				TotalAmount:     decimal.RequireFromString("30.00"),
				PaidAmount:      decimal.RequireFromString("12.50"),
				RemainingAmount: decimal.RequireFromString("17.50"),
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	resp := httptest.NewRecorder()
	DashboardStats(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data dashboard.Stats `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.BillCount != 3 {
		t.Fatalf("unexpected count %d", envelope.Data.BillCount)
	}
	if !envelope.Data.RemainingAmount.Equal(decimal.RequireFromString("17.50")) {
		t.Fatalf("unexpected remaining %s", envelope.Data.RemainingAmount)
	}
}

func TestDashboardStatsForwardsCustomer(t *testing.T) {
	var got string
	svc := &testStatsService{
		statsFn: func(ctx context.Context, customerName string) (*dashboard.Stats, error) {
			got = customerName
			return &dashboard.Stats{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats?customer=%20Acme%20", nil)
	resp := httptest.NewRecorder()
	DashboardStats(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got != "Acme" {
		t.Fatalf("customer not sanitized: %q", got)
	}
}

func TestDashboardStatsDependencyFailure(t *testing.T) {
	svc := &testStatsService{
		statsFn: func(ctx context.Context, customerName string) (*dashboard.Stats, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "query billing stats")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	resp := httptest.NewRecorder()
	DashboardStats(svc, testLogger())(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
