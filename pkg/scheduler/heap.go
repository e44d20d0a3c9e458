package scheduler

import (
	"container/heap"
	"time"

	"github.com/mofa-run/mofa/pkg/ids"
	"github.com/mofa-run/mofa/pkg/message"
)

// queuedTask is one entry in the priority queue: a task plus its
// original submission order, used to break priority ties FIFO.
type queuedTask struct {
	task  *message.Task
	index int // heap.Interface bookkeeping
}

// taskHeap is a min-heap over queuedTask ordered by
// (Priority, SubmittedAt): lower Priority value sorts first, and within equal priority, earlier
// submission sorts first.
type taskHeap []*queuedTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	a, b := h[i].task, h[j].task
	if a.Priority != b.Priority {
		return a.Priority.Less(b.Priority)
	}
	return a.SubmittedAt.Before(b.SubmittedAt)
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	qt := x.(*queuedTask)
	qt.index = len(*h)
	*h = append(*h, qt)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	qt := old[n-1]
	old[n-1] = nil
	qt.index = -1
	*h = old[:n-1]
	return qt
}

var _ heap.Interface = (*taskHeap)(nil)

// reenqueue pushes a task back onto the queue preserving its original
// priority and SubmittedAt timestamp, so FIFO order within a priority
// class is unaffected by preemption.
func reenqueue(h *taskHeap, t *message.Task) {
	heap.Push(h, &queuedTask{task: t})
}

// runningTask tracks the task currently assigned to a worker.
type runningTask struct {
	task      *message.Task
	agentID   ids.AgentID
	startedAt time.Time
}
