package tagged_test

import (
	"testing"

	"github.com/on-the-ground/effect_ive_store/tagged"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuards_ReadyScenario(t *testing.T) {
	e := tagged.Define("Status", map[string]tagged.Fields{
		"Idle":    nil,
		"Loading": nil,
		"Ready":   {"value": 0},
	})
	state := e.MustConstructor("Ready")(tagged.Fields{"value": 42})

	assert.True(t, tagged.When("Ready")(state))

	tripled, ok := tagged.On("Ready", func(v tagged.Value) int {
		n, _ := tagged.FieldOf[int](v, "value")
		return n * 3
	})(state)
	require.True(t, ok)
	assert.Equal(t, 126, tripled)

	assert.Equal(t, "Ready", tagged.TagOf(state))
}

func TestWhen_MatchesOnlyItsTag(t *testing.T) {
	e := fetchEnum()
	for _, valueTag := range e.Tags() {
		v := e.MustConstructor(valueTag)(nil)
		for _, tag := range append(e.Tags(), "Unknown") {
			assert.Equal(t, tagged.TagOf(v) == tag, tagged.When(tag)(v), "value %s, tag %s", valueTag, tag)
			assert.Equal(t, tagged.TagOf(v) == tag, tagged.HasTag(v, tag))
		}
	}
}

func TestOn_MismatchSkipsFn(t *testing.T) {
	e := fetchEnum()
	called := 0
	fn := tagged.On("Ready", func(v tagged.Value) string {
		called++
		return v.Tag()
	})

	res, ok := fn(e.MustConstructor("Idle")(nil))
	assert.False(t, ok)
	assert.Empty(t, res)
	assert.Zero(t, called)

	res, ok = tagged.WithState(e.MustConstructor("Ready")(nil), "Ready", func(v tagged.Value) string { return v.Tag() })
	assert.True(t, ok)
	assert.Equal(t, "Ready", res)
}

func TestAsVariant(t *testing.T) {
	e := fetchEnum()
	ready := e.MustConstructor("Ready")(nil)

	v, ok := tagged.AsVariant(ready, "Ready")
	assert.True(t, ok)
	assert.True(t, v.Equal(ready))

	_, ok = tagged.AsVariant(ready, "Idle")
	assert.False(t, ok)
}

func TestTagOf_Nil(t *testing.T) {
	assert.Equal(t, "", tagged.TagOf(nil))
	assert.False(t, tagged.HasTag(nil, ""))
}

type light interface{ tagged.Tagged }

type red struct{ Seconds int }

func (red) Tag() string { return "Red" }

type green struct{}

func (green) Tag() string { return "Green" }

func TestNarrow_ConcreteVariantTypes(t *testing.T) {
	var l light = red{Seconds: 30}

	r, ok := tagged.Narrow[red](l, "Red")
	require.True(t, ok)
	assert.Equal(t, 30, r.Seconds)

	_, ok = tagged.Narrow[green](l, "Green")
	assert.False(t, ok)

	_, ok = tagged.Narrow[green](l, "Red")
	assert.False(t, ok)
}

func TestMatch(t *testing.T) {
	e := fetchEnum()
	cases := tagged.Cases[tagged.Value, string]{
		"Idle":  func(tagged.Value) string { return "nothing yet" },
		"Ready": func(v tagged.Value) string { return v.String() },
	}

	out, err := tagged.Match(e.MustConstructor("Idle")(nil), cases)
	require.NoError(t, err)
	assert.Equal(t, "nothing yet", out)

	_, err = tagged.Match(e.MustConstructor("Loading")(nil), cases)
	assert.ErrorIs(t, err, tagged.ErrUnhandledVariant)

	err = tagged.Exhaustive(e, cases)
	assert.ErrorIs(t, err, tagged.ErrUnhandledVariant)
	assert.Contains(t, err.Error(), "Loading")

	cases["Loading"] = func(tagged.Value) string { return "busy" }
	assert.NoError(t, tagged.Exhaustive(e, cases))
}
