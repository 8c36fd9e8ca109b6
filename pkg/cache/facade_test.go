package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xivtools/lodestone-aggregator/internal/testutil"
	"github.com/xivtools/lodestone-aggregator/pkg/cache"
)

type payload struct {
	Name  string
	Count int
}

func TestFacade_SetAndGet(t *testing.T) {
	store := testutil.NewMemoryStore()
	facade := cache.NewFacade(store)
	ctx := context.Background()

	key := cache.SectionKey("v6", "123456", "AC")
	facade.SetJSON(ctx, key, payload{Name: "test", Count: 3}, time.Minute)

	var got payload
	require.True(t, facade.GetJSON(ctx, key, &got))
	assert.Equal(t, "test", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestFacade_Miss(t *testing.T) {
	facade := cache.NewFacade(testutil.NewMemoryStore())

	var got payload
	assert.False(t, facade.GetJSON(context.Background(), cache.ProfileKey("v6", "404"), &got))
}

func TestFacade_ExpiredEntryIsMiss(t *testing.T) {
	store := testutil.NewMemoryStore()
	facade := cache.NewFacade(store)
	ctx := context.Background()

	key := cache.ProfileKey("v6", "123456")
	facade.SetJSON(ctx, key, payload{Name: "stale"}, time.Minute)
	store.Expire(key.String())

	var got payload
	assert.False(t, facade.GetJSON(ctx, key, &got))
}

func TestFacade_StoreOutageDegradesToMiss(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.GetErr = errors.New("connection refused")
	facade := cache.NewFacade(store)

	var got payload
	assert.False(t, facade.GetJSON(context.Background(), cache.ProfileKey("v6", "1"), &got))
}

func TestFacade_SetFailureIsSwallowed(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.SetErr = errors.New("connection refused")
	facade := cache.NewFacade(store)

	// Must not panic or propagate the failure.
	facade.SetJSON(context.Background(), cache.ProfileKey("v6", "1"), payload{}, time.Minute)
}

func TestFacade_CorruptEntryIsMiss(t *testing.T) {
	store := testutil.NewMemoryStore()
	facade := cache.NewFacade(store)
	ctx := context.Background()

	key := cache.ProfileKey("v6", "1")
	require.NoError(t, store.Set(ctx, key.String(), []byte("{not json"), time.Minute))

	var got payload
	assert.False(t, facade.GetJSON(ctx, key, &got))
}

func TestNewFacade_PanicsOnNilStore(t *testing.T) {
	assert.Panics(t, func() { cache.NewFacade(nil) })
}
