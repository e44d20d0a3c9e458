package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackChainTriesInOrder(t *testing.T) {
	chain := Chain{Strategies: []Fallback{
		{Kind: FallbackReturnCachedResponse, CachedFn: func(ctx context.Context) (any, bool) {
			return nil, false // cache miss, fall through
		}},
		{Kind: FallbackReturnDefaultValue, Value: "default"},
	}}
	v, err := chain.Apply(context.Background(), errors.New("boom"))
	require.NoError(t, err)
	assert.Equal(t, "default", v)
}

func TestFallbackChainStopsAtFirstSuccess(t *testing.T) {
	called := false
	chain := Chain{Strategies: []Fallback{
		{Kind: FallbackReturnDefaultValue, Value: 42},
		{Kind: FallbackCallAlternativeService, AlternativeFn: func(ctx context.Context) (any, error) {
			called = true
			return nil, nil
		}},
	}}
	v, err := chain.Apply(context.Background(), errors.New("boom"))
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.False(t, called)
}

func TestFallbackChainReturnErrorSurfacesMessage(t *testing.T) {
	chain := Chain{Strategies: []Fallback{
		{Kind: FallbackReturnError, Message: "no recovery possible"},
	}}
	_, err := chain.Apply(context.Background(), errors.New("boom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recovery possible")
}
