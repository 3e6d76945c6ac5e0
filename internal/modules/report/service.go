package report

import (
	"context"
	"fmt"

	"github.com/georgemunganga/cloture-backend/internal/modules/closing"
)

// Source lists every stored closing in creation order.
type Source interface {
	List(ctx context.Context) ([]closing.Record, error)
}

// Query selects what a report covers.
type Query struct {
	Dimension Dimension
	Period    *Period
}

// Service builds reports from the closings held by a Source. Records are
// fetched afresh on every call.
type Service interface {
	Aggregate(ctx context.Context, q Query) ([]Entry, error)
	Export(ctx context.Context, q Query) (string, error)
	// Overview summarizes the records in p, or all of them when p is nil.
	Overview(ctx context.Context, p *Period) (Overview, error)
}

type service struct {
	source Source
}

func NewService(source Source) Service {
	return &service{source: source}
}

func (s *service) Aggregate(ctx context.Context, q Query) ([]Entry, error) {
	if q.Period == nil {
		return nil, ErrPeriodRequired
	}
	records, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return Aggregate(records, q.Period, q.Dimension)
}

func (s *service) Export(ctx context.Context, q Query) (string, error) {
	entries, err := s.Aggregate(ctx, q)
	if err != nil {
		return "", err
	}
	return ToCSV(entries), nil
}

func (s *service) Overview(ctx context.Context, p *Period) (Overview, error) {
	records, err := s.source.List(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list transactions: %w", err)
	}
	if p != nil {
		records = Filter(records, *p)
	}
	return Summarize(records), nil
}
