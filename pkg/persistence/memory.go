package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mofa-run/mofa/pkg/ids"
	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// memoryStore is the shared bookkeeping behind every in-memory store
// below: a map keyed by ID plus insertion order, so List results are
// deterministic (oldest first) the way a SQL store's default ORDER BY
// created_at would be.
type memoryStore[T any] struct {
	mu    sync.RWMutex
	byID  map[string]T
	order []string
}

func newMemoryStore[T any]() *memoryStore[T] {
	return &memoryStore[T]{byID: make(map[string]T)}
}

func (s *memoryStore[T]) put(id string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[id]; !exists {
		s.order = append(s.order, id)
	}
	s.byID[id] = v
}

func (s *memoryStore[T]) get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byID[id]
	return v, ok
}

func (s *memoryStore[T]) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *memoryStore[T]) all() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func matchesTimeRange(t, after, before time.Time) bool {
	if !after.IsZero() && t.Before(after) {
		return false
	}
	if !before.IsZero() && t.After(before) {
		return false
	}
	return true
}

func applyWindow[T any](items []T, f Filter) []T {
	if f.Offset > 0 {
		if f.Offset >= len(items) {
			return nil
		}
		items = items[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(items) {
		items = items[:f.Limit]
	}
	return items
}

// InMemoryMessageStore is a MessageStore backed by process memory.
type InMemoryMessageStore struct{ s *memoryStore[*Message] }

func NewInMemoryMessageStore() *InMemoryMessageStore {
	return &InMemoryMessageStore{s: newMemoryStore[*Message]()}
}

func (m *InMemoryMessageStore) Create(ctx context.Context, msg *Message) error {
	if msg.ID == "" {
		msg.ID = ids.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	m.s.put(msg.ID, msg)
	return nil
}

func (m *InMemoryMessageStore) Get(ctx context.Context, id string) (*Message, error) {
	v, ok := m.s.get(id)
	if !ok {
		return nil, mofaerr.New(mofaerr.NotFound, "message "+id+" not found")
	}
	return v, nil
}

func (m *InMemoryMessageStore) Update(ctx context.Context, msg *Message) error {
	if _, ok := m.s.get(msg.ID); !ok {
		return mofaerr.New(mofaerr.NotFound, "message "+msg.ID+" not found")
	}
	m.s.put(msg.ID, msg)
	return nil
}

func (m *InMemoryMessageStore) Delete(ctx context.Context, id string) error {
	m.s.delete(id)
	return nil
}

func (m *InMemoryMessageStore) List(ctx context.Context, f Filter) ([]*Message, error) {
	var out []*Message
	for _, msg := range m.s.all() {
		if f.TenantID != "" && msg.TenantID != f.TenantID {
			continue
		}
		if f.SessionID != "" && msg.SessionID != f.SessionID {
			continue
		}
		if f.UserID != "" && msg.UserID != f.UserID {
			continue
		}
		if !matchesTimeRange(msg.CreatedAt, f.After, f.Before) {
			continue
		}
		out = append(out, msg)
	}
	return applyWindow(out, f), nil
}

// InMemoryApiCallStore is an ApiCallStore backed by process memory.
type InMemoryApiCallStore struct{ s *memoryStore[*ApiCall] }

func NewInMemoryApiCallStore() *InMemoryApiCallStore {
	return &InMemoryApiCallStore{s: newMemoryStore[*ApiCall]()}
}

func (m *InMemoryApiCallStore) Create(ctx context.Context, c *ApiCall) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	m.s.put(c.ID, c)
	return nil
}

func (m *InMemoryApiCallStore) Get(ctx context.Context, id string) (*ApiCall, error) {
	v, ok := m.s.get(id)
	if !ok {
		return nil, mofaerr.New(mofaerr.NotFound, "api call "+id+" not found")
	}
	return v, nil
}

func (m *InMemoryApiCallStore) Update(ctx context.Context, c *ApiCall) error {
	if _, ok := m.s.get(c.ID); !ok {
		return mofaerr.New(mofaerr.NotFound, "api call "+c.ID+" not found")
	}
	m.s.put(c.ID, c)
	return nil
}

func (m *InMemoryApiCallStore) Delete(ctx context.Context, id string) error {
	m.s.delete(id)
	return nil
}

func (m *InMemoryApiCallStore) List(ctx context.Context, f Filter) ([]*ApiCall, error) {
	var out []*ApiCall
	for _, c := range m.s.all() {
		if f.TenantID != "" && c.TenantID != f.TenantID {
			continue
		}
		if f.SessionID != "" && c.SessionID != f.SessionID {
			continue
		}
		if f.UserID != "" && c.UserID != f.UserID {
			continue
		}
		if !matchesTimeRange(c.CreatedAt, f.After, f.Before) {
			continue
		}
		out = append(out, c)
	}
	return applyWindow(out, f), nil
}

// InMemorySessionStore is a SessionStore backed by process memory.
type InMemorySessionStore struct{ s *memoryStore[*SessionRecord] }

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{s: newMemoryStore[*SessionRecord]()}
}

func (m *InMemorySessionStore) Create(ctx context.Context, s *SessionRecord) error {
	if s.ID == "" {
		s.ID = ids.New()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.LastUpdateTime = now
	m.s.put(s.ID, s)
	return nil
}

func (m *InMemorySessionStore) Get(ctx context.Context, id string) (*SessionRecord, error) {
	v, ok := m.s.get(id)
	if !ok {
		return nil, mofaerr.New(mofaerr.NotFound, "session "+id+" not found")
	}
	return v, nil
}

func (m *InMemorySessionStore) Update(ctx context.Context, s *SessionRecord) error {
	if _, ok := m.s.get(s.ID); !ok {
		return mofaerr.New(mofaerr.NotFound, "session "+s.ID+" not found")
	}
	s.LastUpdateTime = time.Now()
	m.s.put(s.ID, s)
	return nil
}

func (m *InMemorySessionStore) Delete(ctx context.Context, id string) error {
	m.s.delete(id)
	return nil
}

func (m *InMemorySessionStore) List(ctx context.Context, f Filter) ([]*SessionRecord, error) {
	var out []*SessionRecord
	for _, s := range m.s.all() {
		if f.TenantID != "" && s.TenantID != f.TenantID {
			continue
		}
		if f.UserID != "" && s.UserID != f.UserID {
			continue
		}
		if !matchesTimeRange(s.CreatedAt, f.After, f.Before) {
			continue
		}
		out = append(out, s)
	}
	return applyWindow(out, f), nil
}

// InMemoryAgentStore is an AgentStore backed by process memory.
type InMemoryAgentStore struct {
	s        *memoryStore[*AgentRecord]
	provider ProviderStore
}

// NewInMemoryAgentStore builds an AgentStore whose
// GetAgentByCodeAndTenantWithProvider join reads from providers.
func NewInMemoryAgentStore(providers ProviderStore) *InMemoryAgentStore {
	return &InMemoryAgentStore{s: newMemoryStore[*AgentRecord](), provider: providers}
}

func (m *InMemoryAgentStore) Create(ctx context.Context, a *AgentRecord) error {
	if a.ID == "" {
		a.ID = ids.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	m.s.put(a.ID, a)
	return nil
}

func (m *InMemoryAgentStore) Get(ctx context.Context, id string) (*AgentRecord, error) {
	v, ok := m.s.get(id)
	if !ok {
		return nil, mofaerr.New(mofaerr.NotFound, "agent "+id+" not found")
	}
	return v, nil
}

func (m *InMemoryAgentStore) Update(ctx context.Context, a *AgentRecord) error {
	if _, ok := m.s.get(a.ID); !ok {
		return mofaerr.New(mofaerr.NotFound, "agent "+a.ID+" not found")
	}
	m.s.put(a.ID, a)
	return nil
}

func (m *InMemoryAgentStore) Delete(ctx context.Context, id string) error {
	m.s.delete(id)
	return nil
}

func (m *InMemoryAgentStore) List(ctx context.Context, f Filter) ([]*AgentRecord, error) {
	var out []*AgentRecord
	for _, a := range m.s.all() {
		if f.TenantID != "" && a.TenantID != f.TenantID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return applyWindow(out, f), nil
}

func (m *InMemoryAgentStore) GetAgentByCodeAndTenantWithProvider(ctx context.Context, code, tenantID string) (*AgentWithProvider, error) {
	var found *AgentRecord
	for _, a := range m.s.all() {
		if a.Code == code && a.TenantID == tenantID {
			found = a
			break
		}
	}
	if found == nil {
		return nil, mofaerr.New(mofaerr.NotFound, "agent with code "+code+" not found for tenant "+tenantID)
	}
	if m.provider == nil {
		return &AgentWithProvider{Agent: found}, nil
	}
	prov, err := m.provider.Get(ctx, found.ProviderID)
	if err != nil {
		return nil, err
	}
	return &AgentWithProvider{Agent: found, Provider: prov}, nil
}

// InMemoryProviderStore is a ProviderStore backed by process memory.
type InMemoryProviderStore struct{ s *memoryStore[*ProviderRecord] }

func NewInMemoryProviderStore() *InMemoryProviderStore {
	return &InMemoryProviderStore{s: newMemoryStore[*ProviderRecord]()}
}

func (m *InMemoryProviderStore) Create(ctx context.Context, p *ProviderRecord) error {
	if p.ID == "" {
		p.ID = ids.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	m.s.put(p.ID, p)
	return nil
}

func (m *InMemoryProviderStore) Get(ctx context.Context, id string) (*ProviderRecord, error) {
	v, ok := m.s.get(id)
	if !ok {
		return nil, mofaerr.New(mofaerr.NotFound, "provider "+id+" not found")
	}
	return v, nil
}

func (m *InMemoryProviderStore) Update(ctx context.Context, p *ProviderRecord) error {
	if _, ok := m.s.get(p.ID); !ok {
		return mofaerr.New(mofaerr.NotFound, "provider "+p.ID+" not found")
	}
	m.s.put(p.ID, p)
	return nil
}

func (m *InMemoryProviderStore) Delete(ctx context.Context, id string) error {
	m.s.delete(id)
	return nil
}

func (m *InMemoryProviderStore) List(ctx context.Context, f Filter) ([]*ProviderRecord, error) {
	var out []*ProviderRecord
	for _, p := range m.s.all() {
		if f.TenantID != "" && p.TenantID != f.TenantID {
			continue
		}
		out = append(out, p)
	}
	return applyWindow(out, f), nil
}

var (
	_ MessageStore  = (*InMemoryMessageStore)(nil)
	_ ApiCallStore  = (*InMemoryApiCallStore)(nil)
	_ SessionStore  = (*InMemorySessionStore)(nil)
	_ AgentStore    = (*InMemoryAgentStore)(nil)
	_ ProviderStore = (*InMemoryProviderStore)(nil)
)
