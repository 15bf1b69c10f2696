package subscriber

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/entity"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/repo"
)

// Repository is the storage the service needs. Both repo.SubscriberRepo
// and repo.MemoryRepo satisfy it.
type Repository interface {
	Create(ctx context.Context, s *entity.Subscriber) (int64, error)
	Update(ctx context.Context, s *entity.Subscriber) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context) ([]entity.Subscriber, error)
	Ping(ctx context.Context) error
}

var (
	_ Repository = (*repo.SubscriberRepo)(nil)
	_ Repository = (*repo.MemoryRepo)(nil)
)

// sentinel errors for the outcomes callers need to tell apart
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreConflict    = errors.New("store conflict")
)

// Service implements create/update/delete/list over a Repository. It keeps
// no state between calls.
type Service struct {
	repo   Repository
	logger *zap.SugaredLogger
}

// NewService constructs a Service with the provided repository.
func NewService(r Repository, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: r, logger: logger}
}

// Create stores a new subscriber and returns its id. The id of in is ignored.
func (s *Service) Create(ctx context.Context, in *entity.Subscriber) (int64, error) {
	if in == nil {
		return 0, ErrInvalidInput
	}
	row := in.Clone()
	row.ID = nil
	id, err := s.repo.Create(ctx, &row)
	if err != nil {
		metrics.Mutations.WithLabelValues("create", "error").Inc()
		return 0, s.fail("create", err)
	}
	metrics.Mutations.WithLabelValues("create", "ok").Inc()
	return id, nil
}

// Update replaces every field of the subscriber addressed by in.ID. Without
// an id the update targets entity.NoID and changes nothing; that case is
// logged but still reported as success, as is an id that matches no row.
func (s *Service) Update(ctx context.Context, in *entity.Subscriber) error {
	if in == nil {
		return ErrInvalidInput
	}
	if in.ID == nil {
		s.logger.Warnw("update without id, targeting sentinel identity", "id", entity.NoID)
	}
	n, err := s.repo.Update(ctx, in)
	if err != nil {
		metrics.Mutations.WithLabelValues("update", "error").Inc()
		return s.fail("update", err)
	}
	if n == 0 {
		s.logger.Debugw("update matched no rows", "id", in.IDOrNone())
	}
	metrics.Mutations.WithLabelValues("update", "ok").Inc()
	return nil
}

// Delete removes the subscriber with the given id. Deleting an id that does
// not exist succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		metrics.Mutations.WithLabelValues("delete", "error").Inc()
		return s.fail("delete", err)
	}
	if n == 0 {
		s.logger.Debugw("delete matched no rows", "id", id)
	}
	metrics.Mutations.WithLabelValues("delete", "ok").Inc()
	return nil
}

// List returns every subscriber. An empty store yields an empty, non-nil slice.
func (s *Service) List(ctx context.Context) ([]entity.Subscriber, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.fail("list", err)
	}
	if rows == nil {
		rows = []entity.Subscriber{}
	}
	return rows, nil
}

// Ping reports whether the store answers.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return s.fail("ping", err)
	}
	return nil
}

// fail logs a store error and maps it onto the service's sentinel errors.
func (s *Service) fail(op string, err error) error {
	s.logger.Errorw("store operation failed", "op", op, "err", err)
	switch {
	case errors.Is(err, repo.ErrUnavailable):
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	case errors.Is(err, repo.ErrConflict):
		return fmt.Errorf("%s: %w: %w", op, ErrStoreConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
