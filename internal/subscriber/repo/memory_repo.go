package repo

import (
	"context"
	"sync"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/entity"
)

// MemoryRepo is an in-process store with the same semantics as
// SubscriberRepo: ids are never reused, NULL reads back as "".
// Mainly for tests and for running the API without a database.
type MemoryRepo struct {
	mu     sync.Mutex
	rows   []entity.Subscriber
	lastID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// EnsureTable is a no-op kept so both repos can be set up the same way.
func (r *MemoryRepo) EnsureTable(ctx context.Context) error { return nil }

func (r *MemoryRepo) Create(ctx context.Context, s *entity.Subscriber) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, wrapError(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	row := s.Clone()
	row.ID = entity.ID(r.lastID)
	r.rows = append(r.rows, row)
	return r.lastID, nil
}

func (r *MemoryRepo) Update(ctx context.Context, s *entity.Subscriber) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, wrapError(err)
	}
	id := s.IDOrNone()

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if *r.rows[i].ID == id {
			row := s.Clone()
			row.ID = entity.ID(id)
			r.rows[i] = row
			return 1, nil
		}
	}
	return 0, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, wrapError(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if *r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]entity.Subscriber, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapError(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.Subscriber, len(r.rows))
	for i, row := range r.rows {
		out[i] = coalesce(row.Clone())
	}
	return out, nil
}

func (r *MemoryRepo) Ping(ctx context.Context) error {
	return wrapError(ctx.Err())
}

// coalesce mirrors the COALESCE(col, '') projection of the SQL repo.
func coalesce(s entity.Subscriber) entity.Subscriber {
	for _, f := range []**string{&s.Email, &s.Surname, &s.Lastname, &s.Address, &s.City, &s.PostalCode, &s.PhoneNumber} {
		if *f == nil {
			*f = entity.Str("")
		}
	}
	return s
}
