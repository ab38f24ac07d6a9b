package viewmodel

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/attendance-dashboard-gateway/pkg/errors"
)

type recordingGauge struct {
	mu     sync.Mutex
	values map[string]int
}

func (g *recordingGauge) SetViewSessions(view string, n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.values == nil {
		g.values = make(map[string]int)
	}
	g.values[view] = n
}

func TestRegistryOwnership(t *testing.T) {
	gauge := &recordingGauge{}
	registry := NewRegistry[string]("attendance", time.Minute, gauge, nil)

	id := registry.Create(41, "view-a")
	assert.Equal(t, 1, gauge.values["attendance"])

	view, err := registry.Get(id, 41)
	require.NoError(t, err)
	assert.Equal(t, "view-a", view)

	_, err = registry.Get(id, 7)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	assert.True(t, errors.Is(registry.Delete(id, 7), appErrors.ErrForbidden))

	require.NoError(t, registry.Delete(id, 41))
	assert.Equal(t, 0, gauge.values["attendance"])

	_, err = registry.Get(id, 41)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestRegistryExpiresIdleSessions(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	registry := NewRegistry[int]("schools", 10*time.Minute, nil, nil)
	registry.now = func() time.Time { return now }

	idle := registry.Create(1, 1)
	active := registry.Create(1, 2)

	now = now.Add(8 * time.Minute)
	_, err := registry.Get(active, 1)
	require.NoError(t, err)

	now = now.Add(5 * time.Minute)
	_, err = registry.Get(idle, 1)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	assert.Equal(t, 1, registry.Sweep())
	assert.Equal(t, 1, registry.Len())
	_, err = registry.Get(active, 1)
	assert.NoError(t, err)
}
