package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-storefront/internal/apiclient"
	"go-storefront/internal/cart/cartstate"
	"go-storefront/internal/shared/kv"

	"go.uber.org/zap"
)

// Store owns every live session's State. Dispatches for the same session are
// serialized in call order; the cart and auth slices are written through to
// durable storage after each change.
type Store struct {
	kv     kv.Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu       sync.Mutex
	state    State
	loaded   bool
	lastSeen time.Time
	// refs counts callers between lookup and unlock; guarded by Store.mu.
	refs int
}

type StoreDeps struct {
	KV     kv.Store
	TTL    time.Duration
	Logger *zap.Logger
}

func NewStore(deps StoreDeps) *Store {
	if deps.KV == nil {
		panic("kv store cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Store{
		kv:       deps.KV,
		ttl:      deps.TTL,
		logger:   deps.Logger.Named("session.store"),
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

func cartKey(sid string) string { return "cart:" + sid }
func authKey(sid string) string { return "auth:" + sid }

// Get returns the current state of a session, loading it on first use.
func (s *Store) Get(ctx context.Context, sid string) (State, error) {
	e := s.acquire(sid)
	defer s.release(e)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := s.load(ctx, sid, e); err != nil {
		return State{}, err
	}
	e.lastSeen = s.now()
	return e.state, nil
}

// Dispatch applies actions in order. If any action fails, or the resulting
// cart or auth slice cannot be persisted, the session keeps its previous
// state and the error is returned.
func (s *Store) Dispatch(ctx context.Context, sid string, actions ...Action) (State, error) {
	e := s.acquire(sid)
	defer s.release(e)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := s.load(ctx, sid, e); err != nil {
		return State{}, err
	}

	prev := e.state
	next := prev
	for _, a := range actions {
		var err error
		next, err = Reduce(next, a)
		if err != nil {
			return prev, err
		}
	}

	if err := s.persist(ctx, sid, prev, next); err != nil {
		s.logger.Error("persist session failed",
			zap.String("session_id", sid),
			zap.Error(err),
		)
		return prev, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	e.state = next
	e.lastSeen = s.now()
	return next, nil
}

// CallUpstream runs fn with the session's backend credentials. Credentials
// rotated by fn are saved; an expired backend session clears auth.
func (s *Store) CallUpstream(ctx context.Context, sid string, fn func(creds *apiclient.Credentials) error) error {
	st, err := s.Get(ctx, sid)
	if err != nil {
		return err
	}

	before := st.Auth.Credentials
	creds := before
	callErr := fn(&creds)

	if errors.Is(callErr, apiclient.ErrSessionExpired) {
		if _, err := s.Dispatch(ctx, sid, AuthExpired{At: s.now()}); err != nil {
			s.logger.Warn("clear expired auth failed", zap.String("session_id", sid), zap.Error(err))
		}
		return callErr
	}

	if creds != before {
		if _, err := s.Dispatch(ctx, sid, CredentialsRefreshed{Credentials: creds}); err != nil {
			s.logger.Warn("save refreshed credentials failed", zap.String("session_id", sid), zap.Error(err))
		}
	}
	return callErr
}

// Evict drops the in-memory copy of a session. Durable data is kept.
func (s *Store) Evict(sid string) {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
}

// Sweep evicts sessions idle for longer than idle and returns how many were
// dropped.
func (s *Store) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for sid, e := range s.sessions {
		if e.refs > 0 || !e.mu.TryLock() {
			continue
		}
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, sid)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(idle); n > 0 {
				s.logger.Debug("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

// acquire looks up the session entry and pins it so Sweep cannot evict it
// before the caller takes e.mu.
func (s *Store) acquire(sid string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sid]
	if !ok {
		e = &entry{state: Initial()}
		s.sessions[sid] = e
	}
	e.refs++
	return e
}

func (s *Store) release(e *entry) {
	s.mu.Lock()
	e.refs--
	s.mu.Unlock()
}

// load reads the durable cart and auth slices once per process. A stored
// cart that cannot be decoded is discarded.
func (s *Store) load(ctx context.Context, sid string, e *entry) error {
	if e.loaded {
		return nil
	}

	st := Initial()

	raw, err := s.kv.Get(ctx, cartKey(sid))
	switch {
	case errors.Is(err, kv.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load cart: %w", err)
	default:
		c, decErr := cartstate.Decode(raw)
		if decErr != nil {
			s.logger.Warn("discarding stored cart",
				zap.String("session_id", sid),
				zap.Error(decErr),
			)
			if err := s.kv.Delete(ctx, cartKey(sid)); err != nil {
				s.logger.Warn("delete stored cart failed", zap.String("session_id", sid), zap.Error(err))
			}
		}
		st, _ = Reduce(st, CartRestored{Cart: c})
	}

	raw, err = s.kv.Get(ctx, authKey(sid))
	switch {
	case errors.Is(err, kv.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load auth: %w", err)
	default:
		var auth AuthState
		if decErr := json.Unmarshal(raw, &auth); decErr != nil {
			s.logger.Warn("discarding stored auth", zap.String("session_id", sid), zap.Error(decErr))
			_ = s.kv.Delete(ctx, authKey(sid))
		} else {
			st, _ = Reduce(st, AuthRestored{Auth: auth})
		}
	}

	e.state = st
	e.loaded = true
	return nil
}

func (s *Store) persist(ctx context.Context, sid string, prev, next State) error {
	prevCart, err := cartstate.Encode(prev.Cart)
	if err != nil {
		return err
	}
	nextCart, err := cartstate.Encode(next.Cart)
	if err != nil {
		return err
	}
	if !bytes.Equal(prevCart, nextCart) {
		if next.Cart.IsEmpty() {
			err = s.kv.Delete(ctx, cartKey(sid))
		} else {
			err = s.kv.Set(ctx, cartKey(sid), nextCart, s.ttl)
		}
		if err != nil {
			return fmt.Errorf("save cart: %w", err)
		}
	}

	prevAuth, err := json.Marshal(prev.Auth)
	if err != nil {
		return err
	}
	nextAuth, err := json.Marshal(next.Auth)
	if err != nil {
		return err
	}
	if !bytes.Equal(prevAuth, nextAuth) {
		if !next.Auth.Identified() && next.Auth.Credentials.Empty() {
			err = s.kv.Delete(ctx, authKey(sid))
		} else {
			err = s.kv.Set(ctx, authKey(sid), nextAuth, s.ttl)
		}
		if err != nil {
			return fmt.Errorf("save auth: %w", err)
		}
	}
	return nil
}
