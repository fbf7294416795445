// Package store is the portfolio state container. Actions are applied one
// at a time through portfolio.Reduce; listeners observe every transition
// and effects turn actions into asynchronous work that dispatches further
// actions.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/portfolio"
)

// Listener is notified after every dispatched action with the resulting
// state. Listeners run synchronously in dispatch order and must not call
// Dispatch themselves.
type Listener func(state *portfolio.State, action portfolio.Action)

// Dispatch delivers one action to the store.
type Dispatch func(portfolio.Action)

// Effect reacts to actions with asynchronous work. Run is started on its
// own goroutine for every action Accepts returns true for.
type Effect interface {
	Accepts(a portfolio.Action) bool
	Run(ctx context.Context, a portfolio.Action, dispatch Dispatch)
}

// Preparer is implemented by effects with a synchronous step. Prepare runs
// inside Dispatch for every accepted action, in dispatch order, before Run
// is started. It must not block or dispatch.
type Preparer interface {
	Prepare(a portfolio.Action)
}

type listenerEntry struct {
	id uint64
	fn Listener
}

type Store struct {
	// dispatchMu serializes transitions and listener delivery.
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	state     *portfolio.State
	seq       uint64
	nextID    uint64
	listeners []listenerEntry
	closed    bool

	effects   []Effect
	selectors *portfolio.Selectors
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithEffects(effects ...Effect) Option {
	return func(s *Store) {
		s.effects = append(s.effects, effects...)
	}
}

func New(opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		state:     portfolio.InitialState(),
		selectors: portfolio.NewSelectors(),
		logger:    zap.NewNop(),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state. The result must be treated as read-only.
func (s *Store) State() *portfolio.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Selectors returns the memoized selectors bound to this store.
func (s *Store) Selectors() *portfolio.Selectors {
	return s.selectors
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch applies a to the current state, runs Prepare of accepting
// effects, notifies listeners and starts the effects that accept it. A LoadTriggered without a sequence number is
// stamped with the next one, so its terminal action can be told apart from
// those of earlier triggers.
func (s *Store) Dispatch(a portfolio.Action) {
	if a == nil {
		return
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	if lt, ok := a.(portfolio.LoadTriggered); ok {
		if lt.Seq == 0 {
			s.seq++
			lt.Seq = s.seq
			a = lt
		} else if lt.Seq > s.seq {
			s.seq = lt.Seq
		}
	}
	prev := s.state
	next := portfolio.Reduce(prev, a)
	s.state = next
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	var accepted []Effect
	if !s.closed {
		for _, eff := range s.effects {
			if eff.Accepts(a) {
				accepted = append(accepted, eff)
			}
		}
		// Added under mu so Close cannot start waiting in between.
		s.wg.Add(len(accepted))
	}
	s.mu.Unlock()

	if next == prev {
		s.logger.Debug("action left state unchanged", zap.String("action", a.Type()))
	} else {
		s.logger.Debug("action dispatched", zap.String("action", a.Type()))
	}

	for _, eff := range accepted {
		if p, ok := eff.(Preparer); ok {
			p.Prepare(a)
		}
	}

	for _, l := range listeners {
		l.fn(next, a)
	}

	for _, eff := range accepted {
		go func(eff Effect) {
			defer s.wg.Done()
			eff.Run(s.ctx, a, s.Dispatch)
		}(eff)
	}
}

// Wait blocks until every running effect has returned.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close stops starting new effects, cancels the running ones and waits for
// them to return. Effects may still dispatch their terminal actions while
// shutting down.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}
