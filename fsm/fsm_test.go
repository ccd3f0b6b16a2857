package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type counterContext struct {
	ticks int
	done  bool
}

func TestMachineRunsToTerminal(t *testing.T) {
	states := []State{
		{
			Name:     "End",
			CanEnter: func(ctx Context) bool { return ctx.(*counterContext).done },
			Terminal: true,
		},
		{
			Name:     "Tick",
			CanEnter: func(ctx Context) bool { return true },
			OnEnter: func(ctx Context) {
				c := ctx.(*counterContext)
				c.ticks++
				if c.ticks == 3 {
					c.done = true
				}
			},
		},
	}

	m := New(states, nil)
	last, err := m.Run(&counterContext{})
	assert.NoError(t, err)
	assert.Equal(t, "End", last)
	assert.Equal(t, int64(3), m.EntryCount("Tick"))
	assert.Equal(t, int64(1), m.EntryCount("End"))
}

func TestMachineFirstMatchWins(t *testing.T) {
	var order []string
	ctx := &counterContext{}
	states := []State{
		{
			Name:     "High",
			CanEnter: func(Context) bool { return ctx.ticks > 0 && !ctx.done },
			OnEnter: func(Context) {
				order = append(order, "High")
				ctx.done = true
			},
		},
		{
			Name:     "Low",
			CanEnter: func(Context) bool { return !ctx.done },
			OnEnter: func(Context) {
				order = append(order, "Low")
				ctx.ticks++
			},
		},
		{
			Name:     "End",
			CanEnter: func(Context) bool { return ctx.done },
			Terminal: true,
		},
	}

	_, err := New(states, nil).Run(ctx)
	assert.NoError(t, err)
	// Low runs first; once it raised ticks, High outranks it.
	assert.Equal(t, []string{"Low", "High"}, order)
}

func TestMachineStuck(t *testing.T) {
	states := []State{
		{Name: "Never", CanEnter: func(Context) bool { return false }},
	}
	_, err := New(states, nil).Run(&counterContext{})
	assert.ErrorIs(t, err, ErrStuck)
}
