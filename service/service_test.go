package service_test

import (
	"testing"

	"github.com/on-the-ground/effect_ive_store/internal/helper"
	"github.com/on-the-ground/effect_ive_store/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter interface{ Greet() string }

type english struct{}

func (english) Greet() string { return "hello" }

func TestInterner_SameNameSameToken(t *testing.T) {
	in := service.NewInterner()
	a := service.TagIn[greeter](in, "Greeter")
	b := service.TagIn[string](in, "Greeter")
	c := service.TagIn[greeter](in, "Other")

	assert.Equal(t, a.Token(), b.Token())
	assert.NotEqual(t, a.Token(), c.Token())
	assert.Equal(t, "Greeter", a.Name())
	assert.Equal(t, 2, in.Len())
}

func TestInterner_Isolated(t *testing.T) {
	a := service.TagIn[greeter](service.NewInterner(), "Greeter")
	b := service.TagIn[greeter](service.NewInterner(), "Greeter")
	assert.NotEqual(t, a.Token(), b.Token())
}

func TestNewTag_UsesDefault(t *testing.T) {
	assert.Equal(t,
		service.NewTag[greeter]("service_test.Default").Token(),
		service.Default.Token("service_test.Default"),
	)
}

func TestRegistry_ProvideAndGet(t *testing.T) {
	tag := service.TagIn[greeter](service.NewInterner(), "Greeter")
	r := service.NewRegistry(nil)
	r.Provide(tag, english{})

	g, err := service.Get(r, tag)
	require.NoError(t, err)
	assert.Equal(t, "hello", g.Greet())

	g, ok := service.GetOptional(r, tag)
	assert.True(t, ok)
	assert.NotNil(t, g)
	assert.NotPanics(t, func() { service.MustGet(r, tag) })
}

func TestRegistry_Missing(t *testing.T) {
	tag := service.TagIn[greeter](service.NewInterner(), "Greeter")
	r := service.NewRegistry(nil)

	_, err := service.Get(r, tag)
	assert.ErrorIs(t, err, service.ErrMissingService)
	assert.Contains(t, err.Error(), "Greeter")

	_, ok := service.GetOptional(r, tag)
	assert.False(t, ok)
	assert.Panics(t, func() { service.MustGet(r, tag) })

	_, err = service.None.Service(tag)
	assert.ErrorIs(t, err, service.ErrMissingService)
	_, ok = service.None.ServiceOptional(tag)
	assert.False(t, ok)
}

func TestRegistry_WrongTypeUnderSharedName(t *testing.T) {
	in := service.NewInterner()
	asGreeter := service.TagIn[greeter](in, "Greeter")
	asString := service.TagIn[string](in, "Greeter")

	r := service.NewRegistry(nil)
	r.Provide(asGreeter, english{})

	_, err := service.Get(r, asString)
	assert.ErrorIs(t, err, helper.ErrUnexpectedType)

	_, ok := service.GetOptional(r, asString)
	assert.False(t, ok)
}

func TestRegistry_ChainLookupNeverWritesAncestors(t *testing.T) {
	in := service.NewInterner()
	tag := service.TagIn[string](in, "Name")
	parent := service.NewRegistry(nil)
	child := service.NewRegistry(parent)

	parent.Provide(tag, "parent")
	v, err := service.Get(child, tag)
	require.NoError(t, err)
	assert.Equal(t, "parent", v)

	child.Provide(tag, "child")
	v, _ = service.Get(child, tag)
	assert.Equal(t, "child", v)
	v, _ = service.Get(parent, tag)
	assert.Equal(t, "parent", v)
}

func TestRegistry_Clone(t *testing.T) {
	tag := service.TagIn[string](service.NewInterner(), "Name")
	r := service.NewRegistry(nil)
	r.Provide(tag, "a")

	clone := r.Clone()
	clone.Provide(tag, "b")

	v, _ := service.Get(r, tag)
	assert.Equal(t, "a", v)
	v, _ = service.Get(clone, tag)
	assert.Equal(t, "b", v)
}
