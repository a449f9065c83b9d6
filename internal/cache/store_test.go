package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestStore_AsideFetchesOnceThenHits(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			calls++
			*dest = cachedPost{ID: 1, Title: "First Post!"}
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, store.Aside(ctx, PostKey(1), &first, PostTTL, fetch(&first)))
	assert.Equal(t, "First Post!", first.Title)
	assert.True(t, mr.Exists("post:1"))
	assert.Equal(t, PostTTL, mr.TTL("post:1"))

	var second cachedPost
	require.NoError(t, store.Aside(ctx, PostKey(1), &second, PostTTL, fetch(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestStore_AsideDoesNotCacheFetchErrors(t *testing.T) {
	store, mr := newTestStore(t)
	boom := errors.New("boom")

	var dest cachedPost
	err := store.Aside(context.Background(), PostKey(9), &dest, PostTTL, func() error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("post:9"))
}

func TestStore_AsideFallsBackWhenRedisIsDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	var dest cachedPost
	err := store.Aside(context.Background(), PostKey(2), &dest, PostTTL, func() error {
		dest = cachedPost{ID: 2, Title: "Second"}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Second", dest.Title)
}

func TestStore_Invalidate(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetJSON(ctx, PostKey(1), cachedPost{ID: 1}, time.Minute))
	require.NoError(t, store.SetJSON(ctx, NewestPostsKey, []cachedPost{{ID: 1}}, time.Minute))

	store.Invalidate(ctx, PostKey(1), NewestPostsKey)

	assert.False(t, mr.Exists("post:1"))
	assert.False(t, mr.Exists(NewestPostsKey))
}

func TestStore_NilIsNoop(t *testing.T) {
	var store *Store
	ctx := context.Background()

	assert.False(t, store.Enabled())
	assert.NoError(t, store.Ping(ctx))
	assert.NoError(t, store.SetJSON(ctx, "k", 1, time.Minute))
	found, err := store.GetJSON(ctx, "k", new(int))
	assert.NoError(t, err)
	assert.False(t, found)
	store.Invalidate(ctx, "k")

	calls := 0
	require.NoError(t, New(nil).Aside(ctx, "k", new(int), time.Minute, func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client := Connect(context.Background(), mr.Addr())
	require.NotNil(t, client)
	_ = client.Close()

	assert.Nil(t, Connect(context.Background(), ""))
	assert.Nil(t, Connect(context.Background(), "redis://%zz"))
}

func TestPostKeys(t *testing.T) {
	assert.Equal(t, []string{"post:1", "post:7"}, PostKeys([]uint{1, 7}))
}
