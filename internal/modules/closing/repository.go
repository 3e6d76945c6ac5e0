package closing

import "context"

// Repository defines data access for cash-closing transactions.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	// List returns every stored record in creation order.
	List(ctx context.Context) ([]Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
}
