package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulator_ReassemblesSplitArguments(t *testing.T) {
	acc := newToolCallAccumulator()

	acc.Merge(ToolCallFragment{Index: 0, Name: "check_availability", Arguments: `{"check`})
	acc.Merge(ToolCallFragment{Index: 0, Arguments: `_in":"2025-01-01"}`})

	calls := acc.Drain()
	require.Len(t, calls, 1)
	assert.Equal(t, "check_availability", calls[0].Name)

	var args map[string]string
	require.NoError(t, json.Unmarshal([]byte(calls[0].Arguments), &args))
	assert.Equal(t, "2025-01-01", args["check_in"])
}

func TestAccumulator_InterleavedParallelCalls(t *testing.T) {
	acc := newToolCallAccumulator()

	acc.Merge(ToolCallFragment{Index: 1, ID: "b", Name: "estimate_profit", Arguments: `{"area`})
	acc.Merge(ToolCallFragment{Index: 0, ID: "a", Name: "check_availability", Arguments: `{}`})
	acc.Merge(ToolCallFragment{Index: 1, Arguments: `_sqm":50}`})

	calls := acc.Drain()
	require.Len(t, calls, 2)
	// Ordered by index, not arrival.
	assert.Equal(t, "a", calls[0].ID)
	assert.Equal(t, "b", calls[1].ID)
	assert.Equal(t, `{"area_sqm":50}`, calls[1].Arguments)
}

func TestAccumulator_NameNeverClobberedByEmpty(t *testing.T) {
	acc := newToolCallAccumulator()

	acc.Merge(ToolCallFragment{Index: 0, ID: "x", Name: "estimate_pricing"})
	acc.Merge(ToolCallFragment{Index: 0, Name: "", Arguments: `{"area_sqm":40}`})

	calls := acc.Drain()
	require.Len(t, calls, 1)
	assert.Equal(t, "estimate_pricing", calls[0].Name)
	assert.Equal(t, "x", calls[0].ID)
}

func TestAccumulator_DrainResets(t *testing.T) {
	acc := newToolCallAccumulator()
	acc.Merge(ToolCallFragment{Index: 0, Name: "estimate_pricing"})

	assert.Len(t, acc.Drain(), 1)
	assert.Equal(t, 0, acc.Len())
	assert.Empty(t, acc.Drain())
}
