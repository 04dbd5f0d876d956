package demo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/effect_ive_store/internal/demo"
)

func TestMemDBRepository(t *testing.T) {
	repo, err := demo.NewMemDBRepository()
	require.NoError(t, err)

	inserted, err := repo.InsertIfAbsent(demo.Record{Key: "u1", Value: 1})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertIfAbsent(demo.Record{Key: "u1", Value: 2})
	require.NoError(t, err)
	assert.False(t, inserted)

	rec, ok, err := repo.Load("u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, demo.Record{Key: "u1", Value: 1}, rec)

	_, ok, err = repo.Load("u2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRistrettoCache(t *testing.T) {
	cache, err := demo.NewRistrettoCache(8)
	require.NoError(t, err)
	defer cache.Close()

	_, ok := cache.Get("a")
	assert.False(t, ok)

	require.True(t, cache.Set("a", 1))
	n, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, err = demo.NewRistrettoCache(0)
	assert.Error(t, err)
}
