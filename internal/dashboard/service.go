package dashboard

import (
	"context"
	"errors"

	pkgerrors "github.com/avilaruiz/billbook-backend/pkg/errors"
)

// ServiceParams groups dependencies for the dashboard service.
type ServiceParams struct {
	Repo Repository
}

// Service computes billing dashboard aggregates.
type Service struct {
	repo Repository
}

// NewService builds a dashboard service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// Stats returns count and money sums over all bills, or over one customer's
// bills when customerName is non-empty.
func (s *Service) Stats(ctx context.Context, customerName string) (*Stats, error) {
	var filter *string
	if customerName != "" {
		filter = &customerName
	}

	stats, err := s.repo.Aggregate(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate bills")
	}
	return stats, nil
}
