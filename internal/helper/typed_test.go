package helper_test

import (
	"errors"
	"testing"

	"github.com/on-the-ground/effect_ive_store/internal/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedValueOf(t *testing.T) {
	v, err := helper.TypedValueOf[int](3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = helper.TypedValueOf[int]("3")
	assert.ErrorIs(t, err, helper.ErrUnexpectedType)

	v, err = helper.TypedValueOf[int](nil)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestGetTypedValueOf_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := helper.GetTypedValueOf[string](func() (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestGetTypedValueOf2(t *testing.T) {
	s, ok := helper.GetTypedValueOf2[string](func() (any, bool) { return "x", true })
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = helper.GetTypedValueOf2[string](func() (any, bool) { return 1, true })
	assert.False(t, ok)

	_, ok = helper.GetTypedValueOf2[string](func() (any, bool) { return "x", false })
	assert.False(t, ok)

	_, ok = helper.GetTypedValueOf2[error](func() (any, bool) { return nil, true })
	assert.False(t, ok)
}

func TestMustGetTypedValue_Panics(t *testing.T) {
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, helper.ErrUnexpectedType)
	}()
	helper.MustGetTypedValue[int](func() (any, error) { return "nope", nil })
}

func TestMustGetTypedValue_Value(t *testing.T) {
	assert.Equal(t, 7, helper.MustGetTypedValue[int](func() (any, error) { return 7, nil }))
}
