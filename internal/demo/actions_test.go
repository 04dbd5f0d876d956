package demo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/effect_ive_store/internal/demo"
	"github.com/on-the-ground/effect_ive_store/scope"
	"github.com/on-the-ground/effect_ive_store/service"
	"github.com/on-the-ground/effect_ive_store/store"
	"github.com/on-the-ground/effect_ive_store/tagged"
)

type brokenRepository struct{}

var errOffline = errors.New("offline")

func (brokenRepository) Load(string) (demo.Record, bool, error)   { return demo.Record{}, false, errOffline }
func (brokenRepository) InsertIfAbsent(demo.Record) (bool, error) { return false, errOffline }

type mapCache map[string]int

func (m mapCache) Get(key string) (int, bool) {
	n, ok := m[key]
	return n, ok
}

func (m mapCache) Set(key string, value int) bool {
	m[key] = value
	return true
}

func newDemoContext(t *testing.T) *scope.Context[tagged.Value] {
	t.Helper()
	initial, err := demo.Fetch.Make("Idle", nil)
	require.NoError(t, err)
	c, err := scope.New(demo.Register(store.New(initial)), scope.Config[tagged.Value]{})
	require.NoError(t, err)
	t.Cleanup(c.Dispose)
	return c
}

func TestIncrement_OnlyTouchesValuedStates(t *testing.T) {
	c := newDemoContext(t)
	ctx := context.Background()

	next, err := c.Dispatch(ctx, "Increment", demo.Amount{By: 4})
	require.NoError(t, err)
	n, _ := tagged.FieldOf[int](next, "value")
	assert.Equal(t, 4, n)

	failed, err := demo.Fetch.Make("Failed", tagged.Fields{"reason": "x"})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, "Transition", failed)
	require.NoError(t, err)
	next, err = c.Dispatch(ctx, "Increment", demo.Amount{By: 4})
	require.NoError(t, err)
	assert.True(t, failed.Equal(next))
}

func TestLoad_RequiresServices(t *testing.T) {
	c := newDemoContext(t)

	_, err := c.Dispatch(context.Background(), "Load", demo.LoadRequest{Key: "k"})
	assert.ErrorIs(t, err, service.ErrMissingService)
	assert.True(t, scope.IsInState(c, "Idle"))
}

func TestLoad_RepositoryErrorKeepsState(t *testing.T) {
	c := newDemoContext(t)
	c.ProvideService(demo.CacheTag, mapCache{}).ProvideService(demo.RepositoryTag, brokenRepository{})

	_, err := c.Dispatch(context.Background(), "Load", demo.LoadRequest{Key: "k"})
	assert.ErrorIs(t, err, errOffline)
	assert.True(t, scope.IsInState(c, "Idle"))
}

func TestLoad_FillsCacheFromRepository(t *testing.T) {
	c := newDemoContext(t)
	cache := mapCache{}
	repo, err := demo.NewMemDBRepository()
	require.NoError(t, err)
	_, err = repo.InsertIfAbsent(demo.Record{Key: "k", Value: 9})
	require.NoError(t, err)
	c.ProvideService(demo.CacheTag, cache).ProvideService(demo.RepositoryTag, repo)

	next, err := c.Dispatch(context.Background(), "Load", demo.LoadRequest{Key: "k"})
	require.NoError(t, err)
	source, _ := tagged.FieldOf[string](next, "source")
	assert.Equal(t, "repository", source)
	assert.Equal(t, mapCache{"k": 9}, cache)

	next, err = c.Dispatch(context.Background(), "Load", demo.LoadRequest{Key: "k"})
	require.NoError(t, err)
	source, _ = tagged.FieldOf[string](next, "source")
	assert.Equal(t, "cache", source)
}
