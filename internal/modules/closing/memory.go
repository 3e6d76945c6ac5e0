package closing

import (
	"context"
	"fmt"
	"sync"
)

// memoryRepo keeps records in memory. It is safe for concurrent use and
// returns copies so callers cannot mutate stored state.
type memoryRepo struct {
	mu      sync.RWMutex
	records map[string]Record
	order   []string
}

// NewMemoryRepository returns a Repository that loses its data on restart.
func NewMemoryRepository() Repository {
	return &memoryRepo{records: make(map[string]Record)}
}

func (r *memoryRepo) Create(ctx context.Context, rec *Record) error {
	id := rec.ID.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; exists {
		return fmt.Errorf("transaction %s already exists", id)
	}
	r.records[id] = *rec
	r.order = append(r.order, id)
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &rec, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, rec *Record) error {
	id := rec.ID.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	r.records[id] = *rec
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.records, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
