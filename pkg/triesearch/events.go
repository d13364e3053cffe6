package triesearch

import "slices"

// Action names the engine change behind an Event.
type Action string

const (
	ActionAdd     Action = "add"
	ActionClear   Action = "clear"
	ActionDestroy Action = "destroy"
)

// Event notifies subscribers that the engine changed. Engine is nil for
// ActionDestroy. Subscribers re-query the engine for its new state.
type Event[R any] struct {
	Action Action
	Engine *Engine[R]
}

type subscriber[R any] struct {
	id int
	fn func(Event[R])
}

// Subscribe registers fn for change events and returns a function that
// removes it. A nil fn registers nothing. Unsubscribing twice is harmless.
func (e *Engine[R]) Subscribe(fn func(Event[R])) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	e.nextSub++
	id := e.nextSub
	e.subs = append(e.subs, subscriber[R]{id: id, fn: fn})
	return func() {
		e.subs = slices.DeleteFunc(e.subs, func(s subscriber[R]) bool {
			return s.id == id
		})
	}
}

// notify calls subscribers in registration order. Subscribers may
// unsubscribe from inside the callback.
func (e *Engine[R]) notify(action Action) {
	ev := Event[R]{Action: action, Engine: e}
	if action == ActionDestroy {
		ev.Engine = nil
	}
	for _, s := range slices.Clone(e.subs) {
		s.fn(ev)
	}
}
