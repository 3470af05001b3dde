// Downstream stream encoding.
//
// DESIGN: The encoder serializes relay events into the widget's frame
// protocol and guards the terminal invariant: exactly one terminator
// ([DONE] or nothing after a fatal error frame) per request, with no frames
// after it. Tool results are flushed in small slices with a short delay so
// the client keeps its token-by-token rendering cadence; that is a UX
// choice, not a transport need.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// FrameWriter delivers one encoded frame payload to the client. The SSE and
// websocket transports both implement it.
type FrameWriter interface {
	WriteFrame(payload []byte) error
}

// sseFrameWriter writes "data: <payload>\n\n" frames with an immediate flush.
type sseFrameWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEFrameWriter(w http.ResponseWriter) *sseFrameWriter {
	flusher, _ := w.(http.Flusher)
	return &sseFrameWriter{w: w, flusher: flusher}
}

func (s *sseFrameWriter) WriteFrame(payload []byte) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

type deltaFrame struct {
	Delta string `json:"delta"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// streamEncoder emits relay events through a FrameWriter.
type streamEncoder struct {
	fw         FrameWriter
	chunkSize  int
	chunkDelay time.Duration
	closed     bool
}

func newStreamEncoder(fw FrameWriter, chunkSize int, chunkDelay time.Duration) *streamEncoder {
	return &streamEncoder{fw: fw, chunkSize: chunkSize, chunkDelay: chunkDelay}
}

// EmitContent forwards one content delta.
func (e *streamEncoder) EmitContent(text string) error {
	if e.closed || text == "" {
		return nil
	}
	payload, _ := json.Marshal(deltaFrame{Delta: text})
	return e.fw.WriteFrame(payload)
}

// EmitToolResult writes text as a sequence of small delta frames, pausing
// between slices. Returns early on context cancellation so a disconnected
// client does not pin the goroutine for the full flush.
func (e *streamEncoder) EmitToolResult(ctx context.Context, text string) error {
	if e.closed {
		return nil
	}
	// Slice on runes so multi-byte characters never straddle two frames.
	runes := []rune(text)
	for start := 0; start < len(runes); start += e.chunkSize {
		end := start + e.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if err := e.EmitContent(string(runes[start:end])); err != nil {
			return err
		}
		if end < len(runes) && e.chunkDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.chunkDelay):
			}
		}
	}
	return nil
}

// EmitError writes an error frame. The stream stays open; callers follow up
// with EmitDone so the client reader always sees a terminator.
func (e *streamEncoder) EmitError(kind string) error {
	if e.closed {
		return nil
	}
	payload, _ := json.Marshal(errorFrame{Error: kind})
	return e.fw.WriteFrame(payload)
}

// EmitDone writes the terminal sentinel and seals the encoder; any later
// emit is a silent no-op, which keeps the one-terminator invariant even on
// messy error paths.
func (e *streamEncoder) EmitDone() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.fw.WriteFrame([]byte("[DONE]"))
}
