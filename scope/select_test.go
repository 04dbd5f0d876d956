package scope_test

import (
	"context"
	"testing"

	"github.com/on-the-ground/effect_ive_store/scope"
	"github.com/on-the-ground/effect_ive_store/store"
	"github.com/on-the-ground/effect_ive_store/tagged"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_FiresImmediatelyThenOnChange(t *testing.T) {
	_, root := newRoot(t, counterAt(7))

	var seen []int
	unsubscribe, err := scope.Select(root, func(s tagged.Value) int { return nOf(t, s) }, func(n int) {
		seen = append(seen, n)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{7}, seen)

	_, err = root.Dispatch(context.Background(), "Bump", nil)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, seen)

	unsubscribe()
	_, err = root.Dispatch(context.Background(), "Bump", nil)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, seen)
}

func TestSelectAsync_ResolvesWithCurrentSelection(t *testing.T) {
	_, root := newRoot(t, counterAt(3))

	ch, unsubscribe, err := scope.SelectAsync(root, func(s tagged.Value) string { return s.Tag() })
	require.NoError(t, err)
	defer unsubscribe()

	select {
	case tag := <-ch:
		assert.Equal(t, "Counter", tag)
	default:
		t.Fatal("selection not resolved")
	}
}

func TestUse(t *testing.T) {
	_, root := newRoot(t, counterAt(5))

	n, err := scope.Use(root, func(s tagged.Value) int { return nOf(t, s) * 2 })
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	cur, err := root.Use()
	require.NoError(t, err)
	assert.Equal(t, 5, nOf(t, cur))

	root.Dispose()
	_, err = scope.Use(root, func(s tagged.Value) int { return 0 })
	assert.ErrorIs(t, err, scope.ErrDisposed)
	_, _, err = scope.SelectAsync(root, func(s tagged.Value) int { return 0 })
	assert.ErrorIs(t, err, scope.ErrDisposed)
}

func TestSelectAsync_FailingSelector(t *testing.T) {
	var failures []error
	root, err := scope.New(store.New(counterAt(1)), scope.Config[tagged.Value]{
		OnError: func(err error) { failures = append(failures, err) },
	})
	require.NoError(t, err)
	defer root.Dispose()

	ch, unsubscribe, err := scope.SelectAsync(root, func(tagged.Value) int { panic("bad selector") })
	defer unsubscribe()
	assert.ErrorIs(t, err, scope.ErrNoSelection)

	_, ok := <-ch
	assert.False(t, ok)
	require.Len(t, failures, 1)
	var subErr *scope.SubscriberError
	assert.ErrorAs(t, failures[0], &subErr)
}
