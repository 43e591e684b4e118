package server

import (
	"maps"
	"sync"

	"github.com/matzehuels/dockgrid/pkg/core/anchor"
	"github.com/matzehuels/dockgrid/pkg/core/geom"
)

// liveElements is the element geometry last reported by the client.
type liveElements struct {
	mu sync.RWMutex
	m  anchor.ElementMap
}

func (e *liveElements) ElementBounds(id string) (geom.Rect, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.m.ElementBounds(id)
}

func (e *liveElements) set(m anchor.ElementMap) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.m = maps.Clone(m)
}
