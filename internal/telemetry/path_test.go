package telemetry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	data := Payload{
		"gameData": map[string]any{
			"score": 42.5,
			"path": map[string]any{
				"idealTime": []any{map[string]any{"timeTaken": 10.0}},
			},
		},
	}

	t.Run("nested value", func(t *testing.T) {
		v, ok := Lookup(data, "gameData.score")
		require.True(t, ok)
		assert.Equal(t, 42.5, v)
	})

	t.Run("absent leaf", func(t *testing.T) {
		_, ok := Lookup(data, "gameData.missing")
		assert.False(t, ok)
	})

	t.Run("absent parent", func(t *testing.T) {
		_, ok := Lookup(data, "nothing.here.at.all")
		assert.False(t, ok)
	})

	t.Run("non-map segment stops the walk", func(t *testing.T) {
		_, ok := Lookup(data, "gameData.score.deeper")
		assert.False(t, ok)
	})
}

func TestCollection(t *testing.T) {
	data := Payload{
		"gameData": map[string]any{
			"mistakes": []any{
				map[string]any{"name": "stacking error", "count": 2.0},
				map[string]any{"name": "engagement error", "count": 1.0},
			},
		},
	}

	t.Run("returns records and leaf", func(t *testing.T) {
		records, leaf, ok := Collection(data, "gameData.mistakes.name")
		require.True(t, ok)
		assert.Equal(t, "name", leaf)
		require.Len(t, records, 2)
		assert.Equal(t, "stacking error", records[0]["name"])
	})

	t.Run("absent parent", func(t *testing.T) {
		_, _, ok := Collection(data, "gameData.nothing.name")
		assert.False(t, ok)
	})
}

func TestNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{float64(3.5), 3.5, true},
		{int(7), 7, true},
		{int64(9), 9, true},
		{json.Number("12.25"), 12.25, true},
		{"42.5", 42.5, true},
		{" 7 ", 7, true},
		{"not a number", 0, false},
		{"", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := Number(tc.in)
		assert.Equal(t, tc.ok, ok)
		if tc.ok {
			assert.Equal(t, tc.want, got)
		}
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 50.0, Round2(50))
}
