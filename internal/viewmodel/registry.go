package viewmodel

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
)

type sessionGauge interface {
	SetViewSessions(view string, n int)
}

type session[T any] struct {
	owner    int
	view     T
	lastSeen time.Time
}

// Registry holds live view models for the dashboard, keyed by a random
// session id and bound to the user that created them. Sessions idle for
// longer than the TTL are evicted.
type Registry[T any] struct {
	mu       sync.Mutex
	name     string
	ttl      time.Duration
	sessions map[string]*session[T]
	gauge    sessionGauge
	logger   *zap.Logger
	now      func() time.Time
}

// NewRegistry constructs a registry for views of kind name.
func NewRegistry[T any](name string, ttl time.Duration, gauge sessionGauge, logger *zap.Logger) *Registry[T] {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry[T]{
		name:     name,
		ttl:      ttl,
		sessions: make(map[string]*session[T]),
		gauge:    gauge,
		logger:   logger,
		now:      time.Now,
	}
}

// Create stores view for owner and returns its session id.
func (r *Registry[T]) Create(owner int, view T) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &session[T]{owner: owner, view: view, lastSeen: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()
	r.report(n)
	return id
}

// Get returns the view for id if owner created it and it has not expired.
func (r *Registry[T]) Get(id string, owner int) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	s, ok := r.sessions[id]
	if !ok || r.expired(s) {
		return zero, appErrors.Clone(appErrors.ErrNotFound, "view session not found")
	}
	if s.owner != owner {
		return zero, appErrors.Clone(appErrors.ErrForbidden, "view session belongs to another user")
	}
	s.lastSeen = r.now()
	return s.view, nil
}

// Delete closes the session.
func (r *Registry[T]) Delete(id string, owner int) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return appErrors.Clone(appErrors.ErrNotFound, "view session not found")
	}
	if s.owner != owner {
		r.mu.Unlock()
		return appErrors.Clone(appErrors.ErrForbidden, "view session belongs to another user")
	}
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()
	r.report(n)
	return nil
}

// Sweep evicts expired sessions and returns how many were removed.
func (r *Registry[T]) Sweep() int {
	r.mu.Lock()
	removed := 0
	for id, s := range r.sessions {
		if r.expired(s) {
			delete(r.sessions, id)
			removed++
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()
	r.report(n)
	return removed
}

// Len returns the number of stored sessions, expired or not.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry[T]) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := r.Sweep(); removed > 0 {
				r.logger.Debug("evicted idle view sessions", zap.String("view", r.name), zap.Int("count", removed))
			}
		}
	}
}

func (r *Registry[T]) expired(s *session[T]) bool {
	return r.now().Sub(s.lastSeen) > r.ttl
}

func (r *Registry[T]) report(n int) {
	if r.gauge != nil {
		r.gauge.SetViewSessions(r.name, n)
	}
}
