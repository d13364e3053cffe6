package triesearch

import "sync"

// Locked serializes every call on an Engine with a mutex. Search takes the
// write lock too since it updates the query cache. Subscribers run under
// the lock and must not call back into Locked.
type Locked[R any] struct {
	mu sync.Mutex
	e  *Engine[R]
}

// NewLocked wraps e.
func NewLocked[R any](e *Engine[R]) *Locked[R] {
	return &Locked[R]{e: e}
}

// Do runs fn with exclusive access to the engine.
func (l *Locked[R]) Do(fn func(e *Engine[R]) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.e)
}

// Add calls Engine.Add under the lock.
func (l *Locked[R]) Add(records ...R) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Add(records...)
}

// Map calls Engine.Map under the lock.
func (l *Locked[R]) Map(key string, record R) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Map(key, record)
}

// Remove calls Engine.Remove under the lock.
func (l *Locked[R]) Remove(records ...R) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Remove(records...)
}

// Clear calls Engine.Clear under the lock.
func (l *Locked[R]) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Clear()
}

// Destroy calls Engine.Destroy under the lock.
func (l *Locked[R]) Destroy() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Destroy()
}

// Search calls Engine.Search under the lock.
func (l *Locked[R]) Search(phrases []string, opts SearchOptions[R]) ([]R, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Search(phrases, opts)
}

// Get calls Engine.Get under the lock.
func (l *Locked[R]) Get(phrase string) ([]R, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Get(phrase)
}

// Stats returns Engine.Stats under the lock.
func (l *Locked[R]) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e.Stats()
}
