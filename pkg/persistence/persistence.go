// Package persistence defines the storage contracts
// for the runtime's optional persistence layer: MessageStore,
// ApiCallStore, SessionStore, AgentStore, and ProviderStore. Each store
// is CRUD-by-UUID with queries filterable by tenant, session, user, or
// time range.
//
// Concrete schema and migrations are deliberately out of scope; this
// package defines the
// contracts plus an in-memory reference implementation suitable for
// tests and single-process deployments, grounded on hector's
// pkg/session Service interface shape.
package persistence

import (
	"context"
	"time"
)

// Filter narrows a store's List query. Zero-value fields are not
// applied.
type Filter struct {
	TenantID  string
	SessionID string
	UserID    string

	// After/Before bound the record's creation time, inclusive.
	After  time.Time
	Before time.Time

	Limit  int
	Offset int
}

// Message is one turn of a conversation, persisted for session replay
// and audit.
type Message struct {
	ID        string
	TenantID  string
	SessionID string
	UserID    string
	Role      string
	Content   string
	CreatedAt time.Time
}

// MessageStore persists conversation turns.
type MessageStore interface {
	Create(ctx context.Context, m *Message) error
	Get(ctx context.Context, id string) (*Message, error)
	Update(ctx context.Context, m *Message) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]*Message, error)
}

// ApiCall records one outbound provider/tool call for billing and
// observability.
type ApiCall struct {
	ID          string
	TenantID    string
	SessionID   string
	UserID      string
	Provider    string
	Model       string
	TokensIn    int
	TokensOut   int
	DurationMs  int64
	Succeeded   bool
	ErrorReason string
	CreatedAt   time.Time
}

// ApiCallStore persists provider/tool call records.
type ApiCallStore interface {
	Create(ctx context.Context, c *ApiCall) error
	Get(ctx context.Context, id string) (*ApiCall, error)
	Update(ctx context.Context, c *ApiCall) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]*ApiCall, error)
}

// SessionRecord is a persisted session's durable identity and state
// snapshot, stored as one row.
type SessionRecord struct {
	ID             string
	TenantID       string
	UserID         string
	AppName        string
	State          map[string]any
	CreatedAt      time.Time
	LastUpdateTime time.Time
}

// SessionStore persists session identity and state rows.
type SessionStore interface {
	Create(ctx context.Context, s *SessionRecord) error
	Get(ctx context.Context, id string) (*SessionRecord, error)
	Update(ctx context.Context, s *SessionRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]*SessionRecord, error)
}

// AgentRecord is an agent's persisted configuration.
type AgentRecord struct {
	ID         string
	TenantID   string
	Code       string // short, human-chosen identifier unique per tenant
	Name       string
	ProviderID string
	Config     map[string]any
	CreatedAt  time.Time
}

// ProviderRecord is an LLM provider's persisted configuration.
type ProviderRecord struct {
	ID        string
	TenantID  string
	Type      string // "openai", "anthropic", "gemini", "ollama"
	Model     string
	Config    map[string]any
	CreatedAt time.Time
}

// AgentWithProvider is the joined row AgentStore.GetAgentByCodeAndTenantWithProvider
// returns: the agent record alongside the provider
// configuration it was built against.
type AgentWithProvider struct {
	Agent    *AgentRecord
	Provider *ProviderRecord
}

// AgentStore persists agent configuration rows.
type AgentStore interface {
	Create(ctx context.Context, a *AgentRecord) error
	Get(ctx context.Context, id string) (*AgentRecord, error)
	Update(ctx context.Context, a *AgentRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]*AgentRecord, error)

	// GetAgentByCodeAndTenantWithProvider returns the joined
	// {agent, provider} config used to build an agent.
	GetAgentByCodeAndTenantWithProvider(ctx context.Context, code, tenantID string) (*AgentWithProvider, error)
}

// ProviderStore persists LLM provider configuration rows.
type ProviderStore interface {
	Create(ctx context.Context, p *ProviderRecord) error
	Get(ctx context.Context, id string) (*ProviderRecord, error)
	Update(ctx context.Context, p *ProviderRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]*ProviderRecord, error)
}
