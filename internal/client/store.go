package client

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/entity"
)

// RecordService is the remote API the store mirrors. *Client implements it.
type RecordService interface {
	ListAll(ctx context.Context) ([]entity.Subscriber, error)
	Create(ctx context.Context, s entity.Subscriber) error
	Update(ctx context.Context, s entity.Subscriber) error
	Delete(ctx context.Context, id int64) error
}

var _ RecordService = (*Client)(nil)

// Phase is where the store is in a mutation cycle:
// Idle → Requesting → (Succeeded | Failed) → Resyncing → Idle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseRequesting Phase = "requesting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
	PhaseResyncing  Phase = "resyncing"
)

// State is the full client-side view of the collection. It is a plain value;
// listeners receive copies.
type State struct {
	Subscribers []entity.Subscriber `json:"subscribers"`
	Phase       Phase               `json:"phase"`
	// Seq is the sequence number of the Load that produced Subscribers.
	Seq uint64 `json:"seq"`
	// Err is the last mutation or load failure, cleared by the next success.
	Err string `json:"error,omitempty"`
}

func (s State) clone() State {
	out := s
	out.Subscribers = make([]entity.Subscriber, len(s.Subscribers))
	for i, sub := range s.Subscribers {
		out.Subscribers[i] = sub.Clone()
	}
	return out
}

// IntentKind names the mutation an Intent performs.
type IntentKind string

const (
	IntentCreate IntentKind = "create"
	IntentUpdate IntentKind = "update"
	IntentDelete IntentKind = "delete"
)

// Intent is a user request to change the collection.
type Intent struct {
	Kind       IntentKind
	Subscriber entity.Subscriber
	ID         int64
}

func CreateIntent(s entity.Subscriber) Intent { return Intent{Kind: IntentCreate, Subscriber: s} }
func UpdateIntent(s entity.Subscriber) Intent { return Intent{Kind: IntentUpdate, Subscriber: s} }
func DeleteIntent(id int64) Intent            { return Intent{Kind: IntentDelete, ID: id} }

// Store caches the subscriber collection and keeps it in step with the
// server by re-fetching the whole list after every mutation. It never
// patches the cache locally.
//
// Each Load takes a sequence number when it starts. A completed Load is
// applied only if its number is higher than the one already applied, so a
// slow, older fetch cannot overwrite a newer snapshot.
type Store struct {
	svc    RecordService
	logger *zap.SugaredLogger

	mu        sync.Mutex
	state     State
	issued    uint64
	listeners map[int]func(State)
	nextLn    int
}

func NewStore(svc RecordService, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{
		svc:       svc,
		logger:    logger,
		state:     State{Subscribers: []entity.Subscriber{}, Phase: PhaseIdle},
		listeners: map[int]func(State){},
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to be called with a copy of the state after every
// change. The returned function removes the registration.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextLn
	s.nextLn++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Lookup finds a subscriber in the current snapshot.
func (s *Store) Lookup(id int64) (entity.Subscriber, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.state.Subscribers {
		if sub.IDOrNone() == id {
			return sub.Clone(), true
		}
	}
	return entity.Subscriber{}, false
}

// Load fetches the full collection and replaces the cache with it, unless a
// newer Load has already been applied. It reports whether the result was applied.
func (s *Store) Load(ctx context.Context) (bool, error) {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	rows, err := s.svc.ListAll(ctx)

	s.mu.Lock()
	// a newer snapshot is already applied; drop this completion, failed or not
	if applied := s.state.Seq; seq < applied {
		s.mu.Unlock()
		s.logger.Debugw("discarding stale load", "seq", seq, "applied", applied, "err", err)
		return false, nil
	}
	if err != nil {
		s.state.Err = fmt.Sprintf("load: %v", err)
		s.logger.Warnw("load failed", "seq", seq, "err", err)
		s.notifyLocked()
		return false, fmt.Errorf("load: %w", err)
	}
	if rows == nil {
		rows = []entity.Subscriber{}
	}
	s.state.Subscribers = rows
	s.state.Seq = seq
	s.state.Err = ""
	s.notifyLocked()
	return true, nil
}

// Mutate sends intent to the server and then reloads the collection,
// whether or not the mutation succeeded. The returned error is the
// mutation's own failure; a failed reload is recorded in State.Err and
// logged but does not make a successful mutation fail.
//
// Callers decide what to do next (navigate away, stay on a form) once
// Mutate returns, so the mutation always completes first.
func (s *Store) Mutate(ctx context.Context, intent Intent) error {
	s.setPhase(PhaseRequesting, "")

	var err error
	switch intent.Kind {
	case IntentCreate:
		err = s.svc.Create(ctx, intent.Subscriber)
	case IntentUpdate:
		err = s.svc.Update(ctx, intent.Subscriber)
	case IntentDelete:
		err = s.svc.Delete(ctx, intent.ID)
	default:
		err = fmt.Errorf("unknown intent %q", intent.Kind)
	}

	if err != nil {
		err = fmt.Errorf("%s: %w", intent.Kind, err)
		s.logger.Warnw("mutation failed", "intent", intent.Kind, "err", err)
		s.setPhase(PhaseFailed, err.Error())
	} else {
		s.setPhase(PhaseSucceeded, "")
	}

	s.setPhase(PhaseResyncing, "")
	if _, lerr := s.Load(ctx); lerr != nil {
		s.logger.Warnw("resync after mutation failed", "intent", intent.Kind, "err", lerr)
	}
	s.mu.Lock()
	s.state.Phase = PhaseIdle
	if err != nil {
		// keep the mutation failure visible even if the resync succeeded
		s.state.Err = err.Error()
	}
	s.notifyLocked()
	return err
}

// setPhase moves to p; a non-empty errMsg replaces State.Err.
func (s *Store) setPhase(p Phase, errMsg string) {
	s.mu.Lock()
	s.state.Phase = p
	if errMsg != "" {
		s.state.Err = errMsg
	}
	s.notifyLocked()
}

// notifyLocked must be called with s.mu held; it releases the lock before
// running listeners.
func (s *Store) notifyLocked() {
	snap := s.state.clone()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}
