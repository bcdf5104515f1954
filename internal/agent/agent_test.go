package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_JSON(t *testing.T) {
	data, err := json.Marshal(ContextStep())
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"context","round":0}`, string(data))

	data, err = json.Marshal(RoundStep(4))
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"round","round":4}`, string(data))

	var step Step
	require.NoError(t, json.Unmarshal([]byte(`{"phase":"round","round":2}`), &step))
	assert.Equal(t, RoundStep(2), step)

	require.Error(t, json.Unmarshal([]byte(`{"phase":"warmup"}`), &step))
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "context", ContextStep().String())
	assert.Equal(t, "round 3", RoundStep(3).String())
	assert.Equal(t, "phase(7)", Phase(7).String())
}

func TestDecoded_Validate(t *testing.T) {
	var nilDecoded *Decoded
	require.Error(t, nilDecoded.Validate(1))

	d := &Decoded{Tokens: [][]int{{1}, {2}}, Lengths: []int{1, 1}}
	require.NoError(t, d.Validate(2))
	require.Error(t, d.Validate(3))

	d.Lengths = d.Lengths[:1]
	require.Error(t, d.Validate(2))
}
