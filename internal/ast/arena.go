package ast

import (
	"errors"
	"fmt"
)

var ErrStaleHandle = errors.New("stale expression handle")

// Handle addresses a node in an Arena. The zero Handle never refers to a
// node.
type Handle struct {
	index      uint32
	generation uint32
}

var NoHandle = Handle{}

func (h Handle) IsValid() bool {
	return h.generation != 0
}

func (h Handle) String() string {
	return fmt.Sprintf("#%d.%d", h.index, h.generation)
}

type slot struct {
	generation uint32
	dead       bool
	expr       *Expression
}

// Arena owns every expression node of a compilation. Slots are never reused:
// deleting a node tombstones it and bumps the slot generation so that old
// handles stop resolving.
type Arena struct {
	slots []slot
	live  int
}

func NewArena() *Arena {
	return &Arena{
		slots: make([]slot, 0, 64),
	}
}

func (a *Arena) Alloc(expr Expression) Handle {
	node := expr
	a.slots = append(a.slots, slot{generation: 1, expr: &node})
	a.live++

	return Handle{index: uint32(len(a.slots) - 1), generation: 1}
}

func (a *Arena) Get(h Handle) (*Expression, bool) {
	if !h.IsValid() || int(h.index) >= len(a.slots) {
		return nil, false
	}

	s := a.slots[h.index]
	if s.dead || s.generation != h.generation {
		return nil, false
	}
	return s.expr, true
}

// MustGet panics with an error wrapping ErrStaleHandle when h does not
// resolve.
func (a *Arena) MustGet(h Handle) *Expression {
	expr, ok := a.Get(h)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrStaleHandle, h))
	}
	return expr
}

// Delete tombstones the node behind h. The memory stays with the arena.
func (a *Arena) Delete(h Handle) bool {
	expr, ok := a.Get(h)
	if !ok {
		return false
	}

	expr.Kind = KindDeleted
	expr.Value = Deleted{}

	s := &a.slots[h.index]
	s.dead = true
	s.generation++
	a.live--

	return true
}

func (a *Arena) Len() int {
	return len(a.slots)
}

func (a *Arena) Live() int {
	return a.live
}
