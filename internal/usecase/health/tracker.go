package health

import (
	"sync"
	"time"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

// Component names an adapter whose reachability is tracked.
type Component string

const (
	ComponentStore  Component = "store"
	ComponentQuotes Component = "quotes"
)

// Probe is the outcome of the most recent call observed against a component.
type Probe struct {
	Healthy   bool
	CheckedAt time.Time
	Error     string
}

// Tracker remembers the last probe outcome per component.
// A nil *Tracker ignores observations so services can run without one.
type Tracker struct {
	mu     sync.RWMutex
	probes map[Component]Probe
	now    func() time.Time
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		probes: make(map[Component]Probe),
		now:    time.Now,
	}
}

// Observe records the outcome of a call against a component.
// Only adapter faults count as unhealthy: an unknown symbol or a missing record
// means the adapter answered.
func (t *Tracker) Observe(component Component, err error) {
	if t == nil {
		return
	}
	probe := Probe{Healthy: true, CheckedAt: t.now()}
	if isAdapterFault(component, err) {
		probe.Healthy = false
		probe.Error = err.Error()
	}

	t.mu.Lock()
	t.probes[component] = probe
	t.mu.Unlock()
}

// Last returns the latest observation for a component, if any.
func (t *Tracker) Last(component Component) (Probe, bool) {
	if t == nil {
		return Probe{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	probe, ok := t.probes[component]
	return probe, ok
}

func isAdapterFault(component Component, err error) bool {
	if err == nil {
		return false
	}
	kind := domain.KindOf(err)
	switch component {
	case ComponentStore:
		return kind == domain.KindStoreUnavailable
	case ComponentQuotes:
		return kind.Transient()
	default:
		return true
	}
}
