// Package session keeps one pricing engine per browser session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/steelcalc/internal/pricing"
)

// Registry owns the engines of all live sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry

	idle        time.Duration
	quiet       time.Duration
	onReconcile func(id string, s pricing.State)
	now         func() time.Time
}

type entry struct {
	engine   *pricing.Engine
	lastSeen time.Time
}

// Options configures a Registry.
type Options struct {
	// IdleTimeout is how long an untouched session lives. Zero keeps sessions
	// until End is called.
	IdleTimeout time.Duration
	// QuietPeriod is passed to every engine.
	QuietPeriod time.Duration
	// OnReconcile, if set, is called after a session's deferred reconciliation.
	OnReconcile func(id string, s pricing.State)
}

// NewRegistry returns an empty registry.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		sessions:    make(map[string]*entry),
		idle:        opts.IdleTimeout,
		quiet:       opts.QuietPeriod,
		onReconcile: opts.OnReconcile,
		now:         time.Now,
	}
}

// Acquire returns the engine of session id, starting a new session when id is
// empty or unknown. The returned id is the one the caller should keep.
func (r *Registry) Acquire(id string) (string, *pricing.Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[id]; ok && id != "" {
		e.lastSeen = r.now()
		return id, e.engine, false
	}

	id = uuid.NewString()
	r.sessions[id] = &entry{engine: r.newEngine(id), lastSeen: r.now()}
	return id, r.sessions[id].engine, true
}

func (r *Registry) newEngine(id string) *pricing.Engine {
	opts := pricing.Options{QuietPeriod: r.quiet}
	if r.onReconcile != nil {
		notify := r.onReconcile
		opts.OnReconcile = func(s pricing.State) { notify(id, s) }
	}
	return pricing.NewEngine(opts)
}

// End discards a session and stops its engine.
func (r *Registry) End(id string) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		e.engine.Close()
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep ends sessions idle for longer than the idle timeout and returns how
// many were removed.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}

	r.mu.Lock()
	cutoff := r.now().Add(-r.idle)
	var expired []*pricing.Engine
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.engine)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, engine := range expired {
		engine.Close()
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done, then ends all
// remaining sessions.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.engine.Close()
	}
}
