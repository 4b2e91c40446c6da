package planner

import "github.com/piwi3910/CakeCut/internal/model"

// Queue is a FIFO of pending knife positions.
type Queue struct {
	items []model.Point
}

// Push appends positions to the back of the queue.
func (q *Queue) Push(points ...model.Point) {
	q.items = append(q.items, points...)
}

// Pop removes and returns the front position. ok is false when the queue is empty.
func (q *Queue) Pop() (p model.Point, ok bool) {
	if len(q.items) == 0 {
		return model.Point{}, false
	}
	p = q.items[0]
	q.items = q.items[1:]
	return p, true
}

func (q *Queue) IsEmpty() bool { return len(q.items) == 0 }

func (q *Queue) Len() int { return len(q.items) }

// Items returns a copy of the pending positions in pop order.
func (q Queue) Items() []model.Point {
	out := make([]model.Point, len(q.items))
	copy(out, q.items)
	return out
}

// Clone returns an independent copy so pushes and pops on either side don't leak.
func (q Queue) Clone() Queue {
	return Queue{items: q.Items()}
}
