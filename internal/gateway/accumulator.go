// Tool-call accumulation across stream fragments.
//
// DESIGN: Tool argument JSON is emitted token-by-token and possibly
// interleaved across several parallel calls, keyed by array index. Fragments
// for one index are concatenated in arrival order; name and id are set once
// and never overwritten by empty continuation values. A call is complete
// only when the upstream stream ends, never on an interior heuristic.
package gateway

import "sort"

// ToolCall is a fully reassembled tool invocation.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

type toolCallAccumulator struct {
	entries map[int]*ToolCall
}

func newToolCallAccumulator() *toolCallAccumulator {
	return &toolCallAccumulator{entries: make(map[int]*ToolCall)}
}

// Merge folds one fragment into the entry at its index, creating the entry
// lazily on first sight.
func (a *toolCallAccumulator) Merge(frag ToolCallFragment) {
	e, ok := a.entries[frag.Index]
	if !ok {
		e = &ToolCall{}
		a.entries[frag.Index] = e
	}
	if frag.ID != "" {
		e.ID = frag.ID
	}
	if frag.Name != "" {
		e.Name = frag.Name
	}
	e.Arguments += frag.Arguments
}

// Len returns the number of calls accumulated so far.
func (a *toolCallAccumulator) Len() int { return len(a.entries) }

// Drain returns the accumulated calls ordered by index.
//
// Precondition: the upstream stream has ended. Argument JSON is only
// guaranteed complete at end of stream, so draining earlier is a programming
// error.
func (a *toolCallAccumulator) Drain() []ToolCall {
	indexes := make([]int, 0, len(a.entries))
	for idx := range a.entries {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	out := make([]ToolCall, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, *a.entries[idx])
	}
	a.entries = make(map[int]*ToolCall)
	return out
}
