package kw

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsHas(t *testing.T) {
	p := Params{"a": 1, "nil-value": nil}

	assert.True(t, p.Has("a"))
	assert.True(t, p.Has("nil-value"), "presence drives dispatch, not nil-ness")
	assert.False(t, p.Has("b"))

	assert.True(t, p.HasAll("a", "nil-value"))
	assert.False(t, p.HasAll("a", "b"))
	assert.True(t, p.HasAll())
}

func TestParamsTypedGetters(t *testing.T) {
	p := Params{"n": 3, "flag": true, "lr": 0.5, "name": "strata"}

	n, err := p.Int("n")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	flag, err := p.Bool("flag")
	require.NoError(t, err)
	assert.True(t, flag)

	lr, err := p.Float64("lr")
	require.NoError(t, err)
	assert.Equal(t, 0.5, lr)

	// Ints widen to float64.
	asFloat, err := p.Float64("n")
	require.NoError(t, err)
	assert.Equal(t, 3.0, asFloat)

	name, err := p.String("name")
	require.NoError(t, err)
	assert.Equal(t, "strata", name)
}

func TestParamsTypedGetterErrors(t *testing.T) {
	p := Params{"n": "not an int"}

	_, err := p.Int("n")
	assert.ErrorContains(t, err, "expected int")

	_, err = p.Int("missing")
	assert.ErrorContains(t, err, "missing parameter")

	_, err = p.Bool("n")
	assert.Error(t, err)

	_, err = p.Float64("n")
	assert.Error(t, err)

	_, err = p.String("missing")
	assert.Error(t, err)
}

func TestDispatchFirstMatchWins(t *testing.T) {
	calls := []string{}
	pattern := func(name string, keys ...string) Pattern {
		return Pattern{Keys: keys, Call: func(Params) (any, error) {
			calls = append(calls, name)
			return name, nil
		}}
	}
	patterns := []Pattern{
		pattern("specific", "a", "b"),
		pattern("general", "a"),
	}

	got, err := Dispatch("op", Params{"a": 1, "b": 2}, patterns, "fail")
	require.NoError(t, err)
	assert.Equal(t, "specific", got)

	got, err = Dispatch("op", Params{"a": 1}, patterns, "fail")
	require.NoError(t, err)
	assert.Equal(t, "general", got)

	assert.Equal(t, []string{"specific", "general"}, calls)
}

func TestDispatchEarlierPatternWinsOverLaterSpecific(t *testing.T) {
	patterns := []Pattern{
		{Keys: []string{"a"}, Call: func(Params) (any, error) { return "first", nil }},
		{Keys: []string{"a", "b"}, Call: func(Params) (any, error) { return "second", nil }},
	}

	// Priority is list order, not specificity.
	got, err := Dispatch("op", Params{"a": 1, "b": 2}, patterns, "fail")
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestDispatchSupersetOfKeysStillMatches(t *testing.T) {
	patterns := []Pattern{
		{Keys: []string{"a"}, Call: func(Params) (any, error) { return "hit", nil }},
	}

	got, err := Dispatch("op", Params{"a": 1, "unrelated": true}, patterns, "fail")
	require.NoError(t, err)
	assert.Equal(t, "hit", got)
}

func TestDispatchGuard(t *testing.T) {
	patterns := []Pattern{
		{
			Keys:  []string{"top-n"},
			Guard: func(p Params) bool { n, err := p.Int("top-n"); return err == nil && n > 0 },
			Call:  func(Params) (any, error) { return "guarded", nil },
		},
		{Keys: nil, Call: func(Params) (any, error) { return "fallback", nil }},
	}

	got, err := Dispatch("op", Params{"top-n": 3}, patterns, "fail")
	require.NoError(t, err)
	assert.Equal(t, "guarded", got)

	// A failing guard falls through to the next pattern.
	got, err = Dispatch("op", Params{"top-n": 0}, patterns, "fail")
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
}

func TestDispatchNoMatch(t *testing.T) {
	patterns := []Pattern{
		{Keys: []string{"a"}, Call: func(Params) (any, error) { return nil, nil }},
	}

	_, err := Dispatch("evaluate", Params{"b": 1}, patterns, "requires a network handle and a dataset iterator")
	require.Error(t, err)

	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, "evaluate", noMatch.Op)
	assert.Equal(t, "requires a network handle and a dataset iterator", noMatch.Message)
	assert.Equal(t, "evaluate: requires a network handle and a dataset iterator", err.Error())
}

func TestDispatchPropagatesActionError(t *testing.T) {
	boom := errors.New("boom")
	patterns := []Pattern{
		{Keys: nil, Call: func(Params) (any, error) { return nil, fmt.Errorf("fit: %w", boom) }},
	}

	_, err := Dispatch("fit", Params{}, patterns, "fail")
	assert.ErrorIs(t, err, boom)
}
