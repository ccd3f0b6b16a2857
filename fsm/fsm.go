// Package fsm implements a deterministic cooperative dispatcher over an
// ordered list of states. In each step the dispatcher scans the list
// from the top and enters the first state whose admission predicate
// holds; the scan restarts after every entry. The list order is a
// correctness contract for users of the package.
package fsm

import (
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
)

// ErrStuck is returned when no state is admissible. A well-formed state
// list always keeps at least one predicate true until a terminal state
// is entered.
var ErrStuck = errors.New("fsm: no admissible state")

// Context is the shared mutable state the dispatcher threads through
// the predicates and actions.
type Context interface{}

// State pairs an admission predicate with an action. Terminal states
// stop the dispatcher after their action runs.
type State struct {
	Name     string
	CanEnter func(Context) bool
	OnEnter  func(Context)
	Terminal bool
}

// Machine dispatches over a fixed state list. It is single-threaded;
// one state action runs per step.
type Machine struct {
	states   []State
	counters []metrics.Counter
}

// New builds a machine over the given ordered states. Entry counts are
// published to registry under "fsm.enter.<state>"; a nil registry
// keeps the counters private.
func New(states []State, registry metrics.Registry) *Machine {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	counters := make([]metrics.Counter, len(states))
	for i, s := range states {
		counters[i] = metrics.GetOrRegisterCounter("fsm.enter."+s.Name, registry)
	}
	return &Machine{states: states, counters: counters}
}

// Run steps the machine until a terminal state is entered and returns
// that state's name. It returns ErrStuck if no state is admissible.
func (m *Machine) Run(ctx Context) (string, error) {
	for {
		entered := false
		for i := range m.states {
			s := &m.states[i]
			if !s.CanEnter(ctx) {
				continue
			}
			m.counters[i].Inc(1)
			if s.OnEnter != nil {
				s.OnEnter(ctx)
			}
			if s.Terminal {
				return s.Name, nil
			}
			entered = true
			break
		}
		if !entered {
			return "", ErrStuck
		}
	}
}

// EntryCount returns how many times the named state has been entered.
func (m *Machine) EntryCount(name string) int64 {
	for i := range m.states {
		if m.states[i].Name == name {
			return m.counters[i].Count()
		}
	}
	return 0
}
