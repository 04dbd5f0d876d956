package selector_test

import (
	"fmt"
	"testing"

	"github.com/on-the-ground/effect_ive_store/selector"
	"github.com/on-the-ground/effect_ive_store/tagged"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type box struct{ value int }

func TestMemoize_IdentityKeyed(t *testing.T) {
	calls := 0
	double := selector.Memoize(func(b *box) int {
		calls++
		return b.value * 2
	})

	first := &box{value: 5}
	assert.Equal(t, 10, double(first))
	assert.Equal(t, 10, double(first))
	assert.Equal(t, 1, calls)

	second := &box{value: 5}
	assert.Equal(t, 10, double(second))
	assert.Equal(t, 2, calls)
}

func TestMemoize_PrimitivesByValue(t *testing.T) {
	calls := 0
	square := selector.Memoize(func(n int) int {
		calls++
		return n * n
	})

	assert.Equal(t, 9, square(3))
	assert.Equal(t, 9, square(3))
	assert.Equal(t, 1, calls)

	assert.Equal(t, 16, square(4))
	assert.Equal(t, 9, square(3))
	assert.Equal(t, 3, calls)
}

func TestMemoize_TaggedValues(t *testing.T) {
	calls := 0
	valueOf := selector.Memoize(func(v tagged.Value) int {
		calls++
		n, _ := tagged.FieldOf[int](v, "value")
		return n
	})

	ready := tagged.NewValue("Ready", tagged.Fields{"value": 42})
	copied := ready
	assert.Equal(t, 42, valueOf(ready))
	assert.Equal(t, 42, valueOf(copied))
	assert.Equal(t, 1, calls)

	assert.Equal(t, 42, valueOf(tagged.NewValue("Ready", tagged.Fields{"value": 42})))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 43, valueOf(ready.With(tagged.Fields{"value": 43})))
	assert.Equal(t, 3, calls)
}

func TestMemoize_IncomparableDynamicInputs(t *testing.T) {
	calls := 0
	size := selector.Memoize(func(in any) int {
		calls++
		return 1
	})
	record := map[string]any{"a": 1}
	list := []int{1, 2}

	assert.NotPanics(t, func() {
		size(tagged.NewValue("Ready", tagged.Fields{"value": 42}))
		size(record)
		size(record)
		size(list)
		size(list)
		size(list[:1])
		size(nil)
		size(nil)
		size(func() {})
	})
	assert.Equal(t, 6, calls)
}

type point struct{ X, Y []int }

func (p point) String() string { return fmt.Sprintf("point%v%v", p.X, p.Y) }

func TestTableize(t *testing.T) {
	calls := 0
	table, err := selector.Tableize(func(p point) int {
		calls++
		return len(p.X) + len(p.Y)
	}, 16)
	require.NoError(t, err)
	defer table.Close()

	fn := table.Func()
	assert.Equal(t, 3, fn(point{X: []int{1}, Y: []int{2, 3}}))
	assert.Equal(t, 3, fn(point{X: []int{1}, Y: []int{2, 3}}))
	assert.LessOrEqual(t, calls, 2)
	assert.Equal(t, 1, fn(point{X: []int{9}}))
}

func TestTableize_RejectsEmptyTable(t *testing.T) {
	_, err := selector.Tableize(func(int) int { return 0 }, 0)
	assert.Error(t, err)
}
