package machine

import (
	"cmp"
	"slices"

	"github.com/sarchlab/vanilla/bus"
	"github.com/sarchlab/vanilla/emu"
)

type eventKind uint8

const (
	// eventDrive applies a CPU output to a port.
	eventDrive eventKind = iota
	// eventMemory is the RAM driving the memory line.
	eventMemory
)

type event struct {
	time int
	seq  uint64
	kind eventKind

	port  bus.Port
	value emu.Value

	// gen is the RAM request an eventMemory answers.
	gen uint64
}

func compareEvents(a, b event) int {
	if c := cmp.Compare(a.time, b.time); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// eventQueue holds pending events ordered by time, then by scheduling
// order.
type eventQueue struct {
	events []event
	seq    uint64
}

func (q *eventQueue) push(e event) {
	e.seq = q.seq
	q.seq++
	i, _ := slices.BinarySearchFunc(q.events, e, compareEvents)
	q.events = slices.Insert(q.events, i, e)
}

// next returns the time of the earliest pending event.
func (q *eventQueue) next() (int, bool) {
	if len(q.events) == 0 {
		return 0, false
	}
	return q.events[0].time, true
}

// popAt removes and returns every event scheduled at time t.
func (q *eventQueue) popAt(t int) []event {
	n := 0
	for n < len(q.events) && q.events[n].time == t {
		n++
	}
	batch := slices.Clone(q.events[:n])
	q.events = slices.Delete(q.events, 0, n)
	return batch
}
