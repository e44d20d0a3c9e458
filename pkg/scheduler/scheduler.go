// Package scheduler implements the priority scheduler (C6): a
// max-priority, FIFO-tiebreak task queue with load-balanced,
// preemptive dispatch across a pool of worker agents.
package scheduler

import (
	"container/heap"
	"sync"
	"time"

	"github.com/mofa-run/mofa/pkg/bus"
	"github.com/mofa-run/mofa/pkg/ids"
	"github.com/mofa-run/mofa/pkg/message"
)

// Status is the lifecycle of a submitted task as tracked by the
// scheduler.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Scheduler is the priority scheduler for agent dispatch. It
// is safe for concurrent use.
type Scheduler struct {
	mu sync.Mutex

	queue     taskHeap
	directory WorkerDirectory
	bus       *bus.Bus
	schedulerID ids.AgentID

	status  map[ids.TaskID]Status
	load    map[ids.AgentID]int
	running map[ids.AgentID]*runningTask
}

// New creates a Scheduler dispatching over b using directory to
// resolve eligible workers per role.
func New(b *bus.Bus, directory WorkerDirectory) *Scheduler {
	return &Scheduler{
		queue:       taskHeap{},
		directory:   directory,
		bus:         b,
		schedulerID: ids.AgentID("scheduler"),
		status:      make(map[ids.TaskID]Status),
		load:        make(map[ids.AgentID]int),
		running:     make(map[ids.AgentID]*runningTask),
	}
}

// Submit pushes task onto the priority queue for role and immediately
// triggers scheduling.
func (s *Scheduler) Submit(role string, task *message.Task) {
	s.mu.Lock()
	heap.Push(&s.queue, &queuedTask{task: task})
	s.status[task.TaskID] = StatusPending
	s.mu.Unlock()

	s.schedule(role)
}

// schedule drains ready tasks for role as long as an eligible worker
// is available, preempting strictly-lower-priority running tasks when
// necessary.
func (s *Scheduler) schedule(role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleLocked(role)
}

func (s *Scheduler) scheduleLocked(role string) {
	for s.queue.Len() > 0 {
		qt := s.queue[0]
		task := qt.task

		if s.status[task.TaskID] != StatusPending {
			heap.Pop(&s.queue)
			continue
		}

		workers := s.directory.WorkersForRole(role)
		if len(workers) == 0 {
			// No eligible worker at all: leave queue as-is, stop.
			return
		}
		sorted := sortByLoad(workers, func(a ids.AgentID) int { return s.load[a] })
		target := sorted[0]

		if running, ok := s.running[target]; ok {
			if !task.Priority.Less(running.task.Priority) {
				// target's current task is not strictly lower priority
				// than the incoming one; nothing to preempt, and since
				// it's the least-loaded worker, no other worker is free
				// either. Stop until capacity frees up.
				return
			}
			s.preempt(target, running)
		}

		heap.Pop(&s.queue)
		s.dispatch(target, task)
	}
}

// preempt evicts the worker's running task, emits TaskPreempted on the
// bus, re-enqueues the preempted task at its original priority and
// submission time, and frees the worker's load slot.
func (s *Scheduler) preempt(target ids.AgentID, running *runningTask) {
	s.bus.Send(s.schedulerID, bus.PointToPoint, target, "", message.NewEventMessage(message.AgentEvent{
		Kind:   message.EventTaskPreempted,
		TaskID: running.task.TaskID,
	}))
	s.status[running.task.TaskID] = StatusPending
	s.load[target]--
	delete(s.running, target)
	reenqueue(&s.queue, running.task)
}

// dispatch assigns task to target: marks it Running, increments the
// worker's load, and sends a TaskRequest on the bus.
func (s *Scheduler) dispatch(target ids.AgentID, task *message.Task) {
	s.status[task.TaskID] = StatusRunning
	s.load[target]++
	s.running[target] = &runningTask{task: task, agentID: target, startedAt: time.Now()}
	s.bus.Send(s.schedulerID, bus.PointToPoint, target, "", message.NewTaskRequestMessage(task))
}

// OnTaskCompleted records completion of taskID on agentID, frees the
// worker's load slot, and re-runs scheduling for role so the next
// queued task (if any) can be dispatched.
func (s *Scheduler) OnTaskCompleted(role string, agentID ids.AgentID, taskID ids.TaskID) {
	s.mu.Lock()
	if running, ok := s.running[agentID]; ok && running.task.TaskID == taskID {
		delete(s.running, agentID)
	}
	if s.load[agentID] > 0 {
		s.load[agentID]--
	}
	s.status[taskID] = StatusCompleted
	s.mu.Unlock()

	s.schedule(role)
}

// OnTaskFailed records a terminal failure for taskID without
// re-enqueuing it, and re-runs scheduling.
func (s *Scheduler) OnTaskFailed(role string, agentID ids.AgentID, taskID ids.TaskID) {
	s.mu.Lock()
	if running, ok := s.running[agentID]; ok && running.task.TaskID == taskID {
		delete(s.running, agentID)
	}
	if s.load[agentID] > 0 {
		s.load[agentID]--
	}
	s.status[taskID] = StatusFailed
	s.mu.Unlock()

	s.schedule(role)
}

// StatusOf reports the current status of taskID.
func (s *Scheduler) StatusOf(taskID ids.TaskID) (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status[taskID]
	return st, ok
}

// LoadOf reports the current running-task count for agentID.
func (s *Scheduler) LoadOf(agentID ids.AgentID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load[agentID]
}

// PendingCount reports how many tasks remain queued (not yet running).
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, st := range s.status {
		if st == StatusPending {
			n++
		}
	}
	return n
}
