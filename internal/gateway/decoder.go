// Upstream SSE decoding for OpenAI-style chat completion streams.
//
// DESIGN: The upstream ships "data: {json}\n\n" frames that arrive split
// across arbitrary read boundaries. The decoder keeps the trailing partial
// line in a carry buffer and only treats newline-terminated lines as
// complete. Malformed frames are skipped, not fatal: one unparsable
// keep-alive among thousands of frames must not kill a healthy stream. Skips
// are counted by the caller so upstream format drift stays observable.
package gateway

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ToolCallFragment is one slice of a streamed tool call. Name and ID may be
// absent on continuation fragments; Arguments carries a partial JSON string.
type ToolCallFragment struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// StreamDelta is the decoded payload of one upstream frame.
type StreamDelta struct {
	Content   string
	Fragments []ToolCallFragment
	// Skipped marks a frame that carried a data line the decoder could not
	// parse as a delta chunk.
	Skipped bool
}

const sseDataPrefix = "data: "

// streamDecoder reassembles line-delimited SSE frames from raw chunks.
type streamDecoder struct {
	carry string
	done  bool
}

func newStreamDecoder() *streamDecoder {
	return &streamDecoder{}
}

// Done reports whether the upstream signaled its [DONE] terminator.
func (d *streamDecoder) Done() bool { return d.done }

// Feed consumes one raw chunk and returns the deltas completed by it.
// Returns nil once the terminator has been seen.
func (d *streamDecoder) Feed(chunk []byte) []StreamDelta {
	if d.done {
		return nil
	}

	buf := d.carry + string(chunk)
	lines := strings.Split(buf, "\n")
	// The last element is either "" (chunk ended on a newline) or a partial
	// line to retain for the next read.
	d.carry = lines[len(lines)-1]
	lines = lines[:len(lines)-1]

	var deltas []StreamDelta
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, sseDataPrefix) {
			continue
		}
		payload := strings.TrimSpace(line[len(sseDataPrefix):])
		if payload == "" {
			continue
		}
		if payload == "[DONE]" {
			d.done = true
			return deltas
		}

		delta, ok := decodeDeltaPayload(payload)
		if !ok {
			deltas = append(deltas, StreamDelta{Skipped: true})
			continue
		}
		if delta.Content != "" || len(delta.Fragments) > 0 {
			deltas = append(deltas, delta)
		}
	}
	return deltas
}

// decodeDeltaPayload extracts content and tool-call fragments from one frame
// body. ok=false means the payload was not valid JSON.
func decodeDeltaPayload(payload string) (StreamDelta, bool) {
	if !gjson.Valid(payload) {
		return StreamDelta{}, false
	}

	delta := gjson.Get(payload, "choices.0.delta")
	out := StreamDelta{Content: delta.Get("content").String()}

	delta.Get("tool_calls").ForEach(func(_, tc gjson.Result) bool {
		frag := ToolCallFragment{
			ID:        tc.Get("id").String(),
			Name:      tc.Get("function.name").String(),
			Arguments: tc.Get("function.arguments").String(),
		}
		// Some upstreams omit the index for a single tool call; it defaults
		// to slot 0.
		if idx := tc.Get("index"); idx.Exists() {
			frag.Index = int(idx.Int())
		}
		out.Fragments = append(out.Fragments, frag)
		return true
	})

	return out, true
}
