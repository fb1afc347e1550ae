package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewROAS(t *testing.T) {
	assert.Equal(t, ROAS(3), NewROAS(150, 50))
	assert.True(t, NewROAS(150, 0).IsInfinite())
	assert.True(t, NewROAS(0, 0).IsInfinite(), "0/0 is the sentinel, not NaN")
	assert.True(t, NewROAS(10, -5).IsInfinite())
	assert.False(t, NewROAS(0, 10).IsInfinite())
}

func TestROASText(t *testing.T) {
	assert.Equal(t, "Infinity", InfiniteROAS.String())
	assert.Equal(t, "0.25", ROAS(0.25).String())

	r, err := ParseROAS("Infinity")
	require.NoError(t, err)
	assert.True(t, r.IsInfinite())

	r, err = ParseROAS("1.125")
	require.NoError(t, err)
	assert.Equal(t, ROAS(1.125), r)

	_, err = ParseROAS("abc")
	assert.Error(t, err)
}

func TestROASJSON(t *testing.T) {
	b, err := json.Marshal([]ROAS{InfiniteROAS, 2.5})
	require.NoError(t, err)
	assert.JSONEq(t, `["Infinity", 2.5]`, string(b))

	var back []ROAS
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, math.IsInf(back[0].Float64(), 1))
	assert.Equal(t, ROAS(2.5), back[1])
}

func TestSet(t *testing.T) {
	s := NewSet(" b", "a ", "b")
	assert.Equal(t, []string{"a", "b"}, s.Values())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))

	var none Set
	assert.False(t, none.Has("a"))
}

func TestNoActivity(t *testing.T) {
	assert.True(t, InfluencerMetrics{ROAS: InfiniteROAS}.NoActivity())
	assert.False(t, InfluencerMetrics{Revenue: 5, ROAS: InfiniteROAS}.NoActivity())
}
