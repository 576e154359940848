package cron

import (
	"context"
	"fmt"

	"github.com/avilaruiz/billbook-backend/internal/dashboard"
	"github.com/avilaruiz/billbook-backend/pkg/logger"
)

type statsProvider interface {
	Stats(ctx context.Context, customerName string) (*dashboard.Stats, error)
}

// DailySummaryJobParams configures the scheduled billing summary.
type DailySummaryJobParams struct {
	Logger *logger.Logger
	Stats  statsProvider
}

// NewDailySummaryJob constructs the daily summary cron job. It writes the
// dashboard aggregates to the log once per cycle so operators get a daily
// billing snapshot without querying the database.
func NewDailySummaryJob(params DailySummaryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Stats == nil {
		return nil, fmt.Errorf("stats provider required")
	}
	return &dailySummaryJob{logg: params.Logger, stats: params.Stats}, nil
}

type dailySummaryJob struct {
	logg  *logger.Logger
	stats statsProvider
}

func (j *dailySummaryJob) Name() string { return "daily-summary" }

func (j *dailySummaryJob) Run(ctx context.Context) error {
	stats, err := j.stats.Stats(ctx, "")
	if err != nil {
		return fmt.Errorf("collect billing summary: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"bill_count":       stats.BillCount,
		"total_amount":     stats.TotalAmount.StringFixed(2),
		"paid_amount":      stats.PaidAmount.StringFixed(2),
		"remaining_amount": stats.RemainingAmount.StringFixed(2),
	})
	j.logg.Info(logCtx, "daily billing summary")
	return nil
}
