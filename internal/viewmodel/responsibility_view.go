package viewmodel

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-dashboard-gateway/internal/models"
)

const responsibilityViewName = "responsibilities"

type responsibilityResolver interface {
	Resolve(ctx context.Context, user *models.User) (*models.Responsibilities, error)
}

// ResponsibilityView resolves a user's responsibilities once per user
// identity. A newer user record (different IdentityKey) triggers a fresh
// resolution. Failures and partial results that carry fallback labels are not
// remembered, so the next request retries the name lookups.
type ResponsibilityView struct {
	mu       sync.Mutex
	resolver responsibilityResolver
	key      string
	resolved bool
	result   *models.Responsibilities
}

// NewResponsibilityView builds an unresolved view.
func NewResponsibilityView(resolver responsibilityResolver) *ResponsibilityView {
	return &ResponsibilityView{resolver: resolver}
}

// Resolve returns the memoised result for user or resolves it. A nil result
// with nil error means the user holds no officer role.
func (v *ResponsibilityView) Resolve(ctx context.Context, user *models.User) (*models.Responsibilities, error) {
	key := user.IdentityKey()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.resolved && v.key == key {
		return v.result, nil
	}
	result, err := v.resolver.Resolve(ctx, user)
	if err != nil {
		return nil, err
	}
	if result == nil || result.Partial {
		v.resolved = false
		return result, nil
	}
	v.key = key
	v.result = result
	v.resolved = true
	return result, nil
}

type trackedView struct {
	view     *ResponsibilityView
	lastSeen time.Time
}

// ResponsibilityViews keeps one ResponsibilityView per officer. Users without
// an officer role are resolved directly and never stored. Views idle for
// longer than the TTL are evicted by Sweep.
type ResponsibilityViews struct {
	mu       sync.Mutex
	resolver responsibilityResolver
	ttl      time.Duration
	views    map[int]*trackedView
	gauge    sessionGauge
	logger   *zap.Logger
	now      func() time.Time
}

// NewResponsibilityViews constructs an empty set of views.
func NewResponsibilityViews(resolver responsibilityResolver, ttl time.Duration, gauge sessionGauge, logger *zap.Logger) *ResponsibilityViews {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponsibilityViews{
		resolver: resolver,
		ttl:      ttl,
		views:    make(map[int]*trackedView),
		gauge:    gauge,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve resolves user through its own view.
func (r *ResponsibilityViews) Resolve(ctx context.Context, user *models.User) (*models.Responsibilities, error) {
	if user == nil {
		return nil, nil
	}
	if models.SelectOfficerContext(user).Kind == models.OfficerNone {
		return r.resolver.Resolve(ctx, user)
	}
	return r.viewFor(user.ID).Resolve(ctx, user)
}

func (r *ResponsibilityViews) viewFor(userID int) *ResponsibilityView {
	r.mu.Lock()
	tracked, ok := r.views[userID]
	if !ok {
		tracked = &trackedView{view: NewResponsibilityView(r.resolver)}
		r.views[userID] = tracked
	}
	tracked.lastSeen = r.now()
	n := len(r.views)
	r.mu.Unlock()
	if !ok {
		r.report(n)
	}
	return tracked.view
}

// Sweep evicts idle views and returns how many were removed.
func (r *ResponsibilityViews) Sweep() int {
	r.mu.Lock()
	removed := 0
	for id, tracked := range r.views {
		if r.now().Sub(tracked.lastSeen) > r.ttl {
			delete(r.views, id)
			removed++
		}
	}
	n := len(r.views)
	r.mu.Unlock()
	r.report(n)
	return removed
}

// Len returns the number of stored views.
func (r *ResponsibilityViews) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Run sweeps every interval until ctx is cancelled.
func (r *ResponsibilityViews) Run(ctx context.Context, interval time.Duration) {
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
				r.logger.Debug("evicted idle responsibility views", zap.Int("count", removed))
			}
		}
	}
}

func (r *ResponsibilityViews) report(n int) {
	if r.gauge != nil {
		r.gauge.SetViewSessions(responsibilityViewName, n)
	}
}
