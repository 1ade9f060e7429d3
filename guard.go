package relgraph

import "fmt"

// guard busy flags taken by one operation
type guard struct {
	held []*Entity
	seen map[uint64]struct{}
}

// lock take the busy flag of every distinct node. A node that is already
// held by someone else makes it panic with ErrConcurrentMutation, after
// handing back the flags it took; it never waits.
func lock(nodes ...*Entity) *guard {
	g := &guard{
		held: make([]*Entity, 0, len(nodes)),
		seen: make(map[uint64]struct{}, len(nodes)),
	}
	g.add(nodes...)
	return g
}

func (g *guard) add(nodes ...*Entity) {
	for _, e := range nodes {
		if e == nil {
			continue
		}
		if _, ok := g.seen[e.id]; ok {
			continue
		}

		if !e.busy.CompareAndSwap(false, true) {
			g.release()
			panic(fmt.Errorf("%w: %s", ErrConcurrentMutation, e.label()))
		}
		g.seen[e.id] = struct{}{}
		g.held = append(g.held, e)
	}
}

func (g *guard) release() {
	for _, e := range g.held {
		e.busy.Store(false)
	}
	g.held = g.held[:0]
}

// acquire take the busy flag of e alone
func (e *Entity) acquire() (release func()) {
	return lock(e).release
}
