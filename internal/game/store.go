package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Subscriber observes committed state transitions. Subscribers are invoked in
// dispatch order and must not dispatch from the callback.
type Subscriber func(prev, next *State, a Action)

// Store owns the state tree. All mutation goes through Dispatch, which
// serializes reducer applications; delayed resolutions and sweeps enter the
// same path as ordinary actions.
type Store struct {
	mu    sync.Mutex
	state *State
	subs  []Subscriber
}

// NewStore creates a store owning the given initial tree.
func NewStore(initial *State) *Store {
	return &Store{state: initial}
}

// State returns the current tree. The returned value must be treated as
// immutable.
func (st *Store) State() *State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Subscribe registers an observer for committed transitions.
func (st *Store) Subscribe(fn Subscriber) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.subs = append(st.subs, fn)
}

// Dispatch applies one action. The action's Now is stamped here if unset. On
// rejection the prior tree is returned along with the reason; subscribers are
// only notified when the tree actually changed.
func (st *Store) Dispatch(a Action) (*State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if a.Now.IsZero() {
		a.Now = time.Now().UTC()
	}

	prev := st.state
	next, err := Reduce(prev, a)
	st.state = next

	if err != nil {
		log.Debug().Str("action", string(a.Type)).Err(err).Msg("Action rejected")
	}
	if next != prev {
		for _, fn := range st.subs {
			fn(prev, next, a)
		}
	}
	return next, err
}
