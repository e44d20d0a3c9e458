package workflow

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// NodeStatus is the terminal status of one node execution within a
// trace.
type NodeStatus string

const (
	NodeStatusSuccess NodeStatus = "success"
	NodeStatusFailed  NodeStatus = "failed"
)

// NodeExecutionRecord captures one node's execution for deterministic
// replay.
type NodeExecutionRecord struct {
	NodeID         string
	ExecutionOrder int
	Status         NodeStatus
	Input          State
	Output         State
	Error          string
}

// Trace is the ordered list of node executions for one workflow run.
type Trace struct {
	WorkflowID string
	Records    []NodeExecutionRecord
}

// NewTrace creates an empty trace for workflowID.
func NewTrace(workflowID string) *Trace {
	return &Trace{WorkflowID: workflowID}
}

// StartNode appends a new in-progress record and returns its index.
func (t *Trace) StartNode(nodeID string, input State) int {
	order := len(t.Records)
	t.Records = append(t.Records, NodeExecutionRecord{
		NodeID:         nodeID,
		ExecutionOrder: order,
		Input:          input,
	})
	return order
}

// CompleteNode finalizes the record at executionOrder.
func (t *Trace) CompleteNode(executionOrder int, output State, status NodeStatus, errMsg string) {
	if executionOrder < 0 || executionOrder >= len(t.Records) {
		return
	}
	t.Records[executionOrder].Output = output
	t.Records[executionOrder].Status = status
	t.Records[executionOrder].Error = errMsg
}

// NodeOrder returns the recorded node IDs in execution order.
func (t *Trace) NodeOrder() []string {
	out := make([]string, len(t.Records))
	for i, r := range t.Records {
		out[i] = r.NodeID
	}
	return out
}

// normalize produces a canonical JSON encoding of v: map keys sorted,
// so that two structurally equal states hash identically regardless
// of Go map iteration order.
func normalize(v any) string {
	b, err := json.Marshal(sortedValue(v))
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func sortedValue(v any) any {
	switch m := v.(type) {
	case State:
		return sortedMap(map[string]any(m))
	case map[string]any:
		return sortedMap(m)
	default:
		return v
	}
}

func sortedMap(m map[string]any) []mapEntry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]mapEntry, len(keys))
	for i, k := range keys {
		out[i] = mapEntry{Key: k, Value: sortedValue(m[k])}
	}
	return out
}

type mapEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Fingerprint folds the trace's workflow ID and, per node, (id,
// status, normalized output) into a single 64-bit hash.
func (t *Trace) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte(t.WorkflowID))
	for _, r := range t.Records {
		h.Write([]byte{0})
		h.Write([]byte(r.NodeID))
		h.Write([]byte(r.Status))
		h.Write([]byte(normalize(r.Output)))
	}
	return h.Sum64()
}

// ReplayDivergence describes the first point at which a replayed trace
// differs from the reference trace.
type ReplayDivergence struct {
	NodeIndex int
	Reason    string
}

// Replay compares t against reference, returning nil if they are
// identical (same ordered node IDs, same per-node status, same
// normalized output), or the first divergence otherwise.
func Replay(reference, t *Trace) (*ReplayDivergence, error) {
	if reference == nil || t == nil {
		return nil, mofaerr.New(mofaerr.ValidationFailed, "cannot replay a nil trace")
	}
	for i := 0; i < len(reference.Records); i++ {
		if i >= len(t.Records) {
			return &ReplayDivergence{NodeIndex: i, Reason: "replay trace ended early: missing node " + reference.Records[i].NodeID}, nil
		}
		ref := reference.Records[i]
		got := t.Records[i]
		if ref.NodeID != got.NodeID {
			return &ReplayDivergence{NodeIndex: i, Reason: fmt.Sprintf("node mismatch: expected %q, got %q", ref.NodeID, got.NodeID)}, nil
		}
		if ref.Status != got.Status {
			return &ReplayDivergence{NodeIndex: i, Reason: fmt.Sprintf("status mismatch at %q: expected %s, got %s", ref.NodeID, ref.Status, got.Status)}, nil
		}
		if normalize(ref.Output) != normalize(got.Output) {
			return &ReplayDivergence{NodeIndex: i, Reason: fmt.Sprintf("output mismatch at %q", ref.NodeID)}, nil
		}
	}
	if len(t.Records) > len(reference.Records) {
		return &ReplayDivergence{NodeIndex: len(reference.Records), Reason: "replay trace has extra nodes beyond the reference"}, nil
	}
	return nil, nil
}
