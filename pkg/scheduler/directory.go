package scheduler

import (
	"sort"
	"sync"

	"github.com/mofa-run/mofa/pkg/ids"
)

// WorkerDirectory resolves which agents can serve a given role; the
// scheduler tracks each worker's load itself and picks the
// least-loaded eligible worker. Implementations backed by Consul,
// etcd, or ZooKeeper can satisfy this for multi-process deployments;
// MemoryWorkerDirectory is the in-process default.
type WorkerDirectory interface {
	WorkersForRole(role string) []ids.AgentID
	RegisterWorker(role string, agentID ids.AgentID)
	UnregisterWorker(role string, agentID ids.AgentID)
}

// MemoryWorkerDirectory is a process-local role -> []AgentID registry.
type MemoryWorkerDirectory struct {
	mu      sync.RWMutex
	byRole  map[string][]ids.AgentID
}

// NewMemoryWorkerDirectory creates an empty directory.
func NewMemoryWorkerDirectory() *MemoryWorkerDirectory {
	return &MemoryWorkerDirectory{byRole: make(map[string][]ids.AgentID)}
}

func (d *MemoryWorkerDirectory) WorkersForRole(role string) []ids.AgentID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]ids.AgentID, len(d.byRole[role]))
	copy(out, d.byRole[role])
	return out
}

func (d *MemoryWorkerDirectory) RegisterWorker(role string, agentID ids.AgentID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range d.byRole[role] {
		if id == agentID {
			return
		}
	}
	d.byRole[role] = append(d.byRole[role], agentID)
}

func (d *MemoryWorkerDirectory) UnregisterWorker(role string, agentID ids.AgentID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	agents := d.byRole[role]
	for i, id := range agents {
		if id == agentID {
			d.byRole[role] = append(agents[:i], agents[i+1:]...)
			return
		}
	}
}

// sortByLoad returns agents ordered ascending by their current load as
// reported by loadOf, lowest first.
func sortByLoad(agents []ids.AgentID, loadOf func(ids.AgentID) int) []ids.AgentID {
	out := make([]ids.AgentID, len(agents))
	copy(out, agents)
	sort.SliceStable(out, func(i, j int) bool {
		return loadOf(out[i]) < loadOf(out[j])
	})
	return out
}
