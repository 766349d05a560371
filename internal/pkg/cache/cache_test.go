package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client, ttl), mr
}

type testEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	err := store.Set(ctx, "entry:a", testEntry{Name: "mechanical keyboard", Count: 3})
	require.NoError(t, err)

	var got testEntry
	err = store.Get(ctx, "entry:a", &got)
	require.NoError(t, err)
	assert.Equal(t, "mechanical keyboard", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestStore_GetMissingKey(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)

	var got testEntry
	err := store.Get(context.Background(), "entry:absent", &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestStore_EntryExpires(t *testing.T) {
	store, mr := newTestStore(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "entry:a", testEntry{Name: "x"}))

	mr.FastForward(31 * time.Second)

	var got testEntry
	err := store.Get(ctx, "entry:a", &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "entry:a", testEntry{Name: "a"}))
	require.NoError(t, store.Set(ctx, "entry:b", testEntry{Name: "b"}))

	err := store.Delete(ctx, "entry:a", "entry:b", "entry:absent")
	require.NoError(t, err)

	var got testEntry
	assert.ErrorIs(t, store.Get(ctx, "entry:a", &got), ErrMiss)
	assert.ErrorIs(t, store.Get(ctx, "entry:b", &got), ErrMiss)
}

func TestStore_DeleteNothing(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	assert.NoError(t, store.Delete(context.Background()))
}

func TestStore_IncrStartsAtOne(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	n, err := store.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStore_IncrValueReadableByGet(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.Incr(ctx, "gen")
	require.NoError(t, err)

	var gen int64
	err = store.Get(ctx, "gen", &gen)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestStore_CounterSurvivesDataTTL(t *testing.T) {
	store, mr := newTestStore(t, time.Second)
	ctx := context.Background()

	_, err := store.Incr(ctx, "gen")
	require.NoError(t, err)

	mr.FastForward(time.Hour)

	var gen int64
	err = store.Get(ctx, "gen", &gen)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}
