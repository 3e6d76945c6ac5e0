package closing

import (
	"context"
	"fmt"
	"time"

	"github.com/georgemunganga/cloture-backend/internal/modules/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service defines cash-closing business logic.
type Service interface {
	// Create stores a new record submitted by the session's user.
	Create(ctx context.Context, sess session.Session, rec Record) (*Record, Report, error)
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	// Update replaces a stored record; the same rules as Create apply.
	Update(ctx context.Context, id string, rec Record) (*Record, Report, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger) Service {
	return &service{repo: repo, log: log, now: time.Now}
}

func (s *service) Create(ctx context.Context, sess session.Session, rec Record) (*Record, Report, error) {
	if sess.Active() {
		rec.Agent = sess.Pseudo
	}
	if err := Validate(rec); err != nil {
		return nil, Report{}, err
	}

	now := s.now().UTC()
	rec.ID = uuid.New()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	report := Reconcile(rec)
	if err := s.repo.Create(ctx, &rec); err != nil {
		return nil, report, fmt.Errorf("create transaction: %w", err)
	}
	s.logReconciliation(rec, report)
	return &rec, report, nil
}

func (s *service) Get(ctx context.Context, id string) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id string, rec Record) (*Record, Report, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, Report{}, err
	}
	if err := Validate(rec); err != nil {
		return nil, Report{}, err
	}

	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = s.now().UTC()

	report := Reconcile(rec)
	if err := s.repo.Update(ctx, &rec); err != nil {
		return nil, report, fmt.Errorf("update transaction %s: %w", id, err)
	}
	s.logReconciliation(rec, report)
	return &rec, report, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) logReconciliation(rec Record, report Report) {
	for _, sig := range report.Signals {
		if sig.Severity != SeverityWarning {
			continue
		}
		s.log.Warn().
			Str("transaction_id", rec.ID.String()).
			Str("numero_de_cloture", rec.ClosingNumber).
			Str("point_de_vente", string(rec.PointOfSale)).
			Str("expected", sig.Expected.String()).
			Str("actual", sig.Actual.String()).
			Msg(string(sig.Kind))
	}
}
