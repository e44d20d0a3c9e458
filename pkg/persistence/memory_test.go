package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryMessageStore()

	msg := &Message{TenantID: "t1", SessionID: "s1", UserID: "u1", Role: "user", Content: "hi"}
	require.NoError(t, store.Create(ctx, msg))
	assert.NotEmpty(t, msg.ID)

	got, err := store.Get(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Content)

	got.Content = "hi there"
	require.NoError(t, store.Update(ctx, got))
	got2, err := store.Get(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi there", got2.Content)

	require.NoError(t, store.Delete(ctx, msg.ID))
	_, err = store.Get(ctx, msg.ID)
	assert.Error(t, err)
}

func TestMessageStoreListFiltersBySessionAndTime(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryMessageStore()

	old := &Message{SessionID: "s1", Content: "old", CreatedAt: time.Now().Add(-time.Hour)}
	recent := &Message{SessionID: "s1", Content: "recent", CreatedAt: time.Now()}
	other := &Message{SessionID: "s2", Content: "other session", CreatedAt: time.Now()}
	require.NoError(t, store.Create(ctx, old))
	require.NoError(t, store.Create(ctx, recent))
	require.NoError(t, store.Create(ctx, other))

	bySession, err := store.List(ctx, Filter{SessionID: "s1"})
	require.NoError(t, err)
	assert.Len(t, bySession, 2)

	afterOnly, err := store.List(ctx, Filter{SessionID: "s1", After: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	require.Len(t, afterOnly, 1)
	assert.Equal(t, "recent", afterOnly[0].Content)
}

func TestAgentStoreGetAgentByCodeAndTenantWithProviderJoins(t *testing.T) {
	ctx := context.Background()
	providers := NewInMemoryProviderStore()
	prov := &ProviderRecord{TenantID: "t1", Type: "anthropic", Model: "claude"}
	require.NoError(t, providers.Create(ctx, prov))

	agents := NewInMemoryAgentStore(providers)
	agent := &AgentRecord{TenantID: "t1", Code: "assistant", ProviderID: prov.ID}
	require.NoError(t, agents.Create(ctx, agent))

	joined, err := agents.GetAgentByCodeAndTenantWithProvider(ctx, "assistant", "t1")
	require.NoError(t, err)
	assert.Equal(t, agent.ID, joined.Agent.ID)
	assert.Equal(t, "anthropic", joined.Provider.Type)
}

func TestAgentStoreGetAgentByCodeAndTenantWithProviderNotFound(t *testing.T) {
	agents := NewInMemoryAgentStore(NewInMemoryProviderStore())
	_, err := agents.GetAgentByCodeAndTenantWithProvider(context.Background(), "missing", "t1")
	assert.Error(t, err)
}

func TestListRespectsLimitAndOffset(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryApiCallStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Create(ctx, &ApiCall{TenantID: "t1"}))
	}
	page, err := store.List(ctx, Filter{TenantID: "t1", Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
