package pricing

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long derived price edits must stop before the
// margin is back-solved.
const DefaultQuietPeriod = time.Second

// State is a snapshot of a calculation.
type State struct {
	Inputs
	Derived

	// Driver is DriverMargin or the PriceKind of the last direct price edit.
	Driver Driver
	// Pending is true between a direct price edit and its reconciliation.
	Pending bool
}

// Options configures an Engine.
type Options struct {
	// QuietPeriod defaults to DefaultQuietPeriod when zero.
	QuietPeriod time.Duration
	// OnReconcile, if set, is called with the new state after each deferred
	// reconciliation. It runs on the timer goroutine without the engine lock held.
	OnReconcile func(State)
}

// Engine holds one calculation and keeps its derived values consistent.
//
// Every operation runs to completion before the next one starts. The only
// asynchronous work is the reconciliation timer armed by SetDerivedPrice.
type Engine struct {
	mu    sync.Mutex
	state State

	quiet       time.Duration
	onReconcile func(State)

	timer *time.Timer
	// gen is bumped on every edit that supersedes a scheduled reconciliation,
	// so a timer that fired while waiting for the lock can tell it is stale.
	gen     uint64
	pending pendingEdit
	closed  bool
}

type pendingEdit struct {
	kind  PriceKind
	value float64
}

// NewEngine returns an engine with all inputs at zero.
func NewEngine(opts Options) *Engine {
	quiet := opts.QuietPeriod
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	e := &Engine{quiet: quiet, onReconcile: opts.OnReconcile}
	e.state.Driver = DriverMargin
	e.state.Derived = Derive(e.state.Inputs)
	return e
}

// State returns a snapshot of the current inputs and derived values.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetPrimaryInput updates one primary input and recomputes the whole pipeline.
//
// If a direct price edit is waiting for reconciliation, that price keeps the
// value the user typed; it is back-solved against the new inputs when the
// quiet period ends.
func (e *Engine) SetPrimaryInput(f Field, value float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.state.Inputs.set(f, value); err != nil {
		return err
	}
	e.recompute()
	return nil
}

// SetMargin sets the margin directly. It supersedes any pending price edit.
func (e *Engine) SetMargin(percent float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelPending()
	e.state.Driver = DriverMargin
	e.applyMargin(percent)
}

// SetDerivedPrice stores a directly edited per-unit price and schedules the
// margin back-solve. Each call restarts the quiet period; only the last edit
// is reconciled.
func (e *Engine) SetDerivedPrice(kind PriceKind, value float64) error {
	if _, err := ParsePriceKind(string(kind)); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}

	e.state.Derived.setPrice(kind, value)
	e.state.Driver = Driver(kind)
	e.state.Pending = true
	e.pending = pendingEdit{kind: kind, value: value}

	if e.timer != nil {
		e.timer.Stop()
	}
	e.gen++
	gen := e.gen
	e.timer = time.AfterFunc(e.quiet, func() { e.fire(gen) })
	return nil
}

// Flush reconciles a pending price edit immediately. It reports whether there
// was anything to reconcile.
func (e *Engine) Flush() bool {
	e.mu.Lock()
	if !e.state.Pending {
		e.mu.Unlock()
		return false
	}
	e.stopTimer()
	s := e.reconcile()
	e.mu.Unlock()

	e.notify(s)
	return true
}

// Close stops the reconciliation timer. A pending edit is dropped and later
// price edits are ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelPending()
	e.closed = true
}

func (e *Engine) fire(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || !e.state.Pending {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	s := e.reconcile()
	e.mu.Unlock()

	e.notify(s)
}

func (e *Engine) notify(s State) {
	if e.onReconcile != nil {
		e.onReconcile(s)
	}
}

// reconcile back-solves the margin from the pending edit and runs the forward
// path, which overwrites the raw edit with the consistent value.
func (e *Engine) reconcile() State {
	edit := e.pending
	e.state.Pending = false
	e.pending = pendingEdit{}

	margin, err := SolveMargin(edit.kind, edit.value, e.state.Inputs)
	if err != nil {
		// unreachable: kind is validated in SetDerivedPrice
		margin = e.state.MarginPercent
	}
	e.applyMargin(margin)
	return e.state
}

func (e *Engine) applyMargin(percent float64) {
	e.state.MarginPercent = percent
	raw := e.state.Derived
	applyPrice(&e.state.Derived, e.state.Inputs)
	e.keepPendingEdit(raw)
}

// recompute runs the full weight → cost → price → per-unit → profit pipeline.
func (e *Engine) recompute() {
	raw := e.state.Derived
	e.state.TotalWeight = totalWeight(e.state.Inputs)
	e.state.TotalCost = totalCost(e.state.Inputs, e.state.TotalWeight)
	applyPrice(&e.state.Derived, e.state.Inputs)
	e.keepPendingEdit(raw)
}

func (e *Engine) keepPendingEdit(prev Derived) {
	if !e.state.Pending {
		return
	}
	e.state.Derived.setPrice(e.pending.kind, prev.PriceOf(e.pending.kind))
}

func (e *Engine) cancelPending() {
	e.stopTimer()
	e.state.Pending = false
	e.pending = pendingEdit{}
}

func (e *Engine) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
}
