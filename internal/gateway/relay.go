// Relay orchestration - the per-request state machine.
//
// DESIGN: One request drives one linear traversal:
//
//	Admitting -> UpstreamRequesting -> Transcoding -> ToolDispatching -> Closing
//
// Admitting and body validation live in the transport handler. The handler
// then opens the upstream stream (so upstream failures can still pick the
// downstream HTTP status) and hands the open body to transcode, which
// forwards content deltas as they decode, merges tool-call fragments, and
// only after the upstream terminator dispatches the reassembled calls and
// splices their results into the same stream. Any failure falls through to
// Closing: a best-effort error frame, then the sentinel. An unterminated
// stream is the one unacceptable outcome.
package gateway

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/mareluna/concierge-gateway/internal/config"
	"github.com/mareluna/concierge-gateway/internal/tools"
)

// Downstream error kinds. These are part of the widget contract.
const (
	errKindRateLimit      = "rate_limit"
	errKindInvalidMessage = "invalid_message"
	errKindUpstream       = "upstream_error"
	errKindAIRateLimit    = "ai_rate_limit"
	errKindStream         = "stream_error"
)

// relayOutcome summarizes a finished traversal for logging and metrics.
type relayOutcome struct {
	Status    string
	ToolCalls int
}

// openUpstream runs the UpstreamRequesting state: build the payload and open
// the completion stream. On failure it returns the error kind to surface
// downstream; ai_rate_limit distinguishes the upstream throttling us from us
// throttling the client.
func (g *Gateway) openUpstream(ctx context.Context, req *chatRequest, requestID string) (io.ReadCloser, string, error) {
	payload, err := buildUpstreamPayload(g.cfg.Upstream, req.Message, req.Language, req.ConversationHistory)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("payload build failed")
		return nil, errKindStream, err
	}

	body, err := g.upstream.Stream(ctx, payload)
	if err != nil {
		kind := errKindUpstream
		if errors.Is(err, errUpstreamRateLimited) {
			kind = errKindAIRateLimit
		}
		log.Warn().Err(err).Str("request_id", requestID).Msg("upstream stream failed")
		return nil, kind, err
	}
	return body, "", nil
}

// transcode runs Transcoding, ToolDispatching and Closing over an open
// upstream body. enc must be fresh; exactly one terminal frame is emitted on
// every path, including panics escaping a tool handler.
func (g *Gateway) transcode(ctx context.Context, enc *streamEncoder, body io.ReadCloser, req *chatRequest, requestID string) (outcome relayOutcome) {
	outcome.Status = "ok"

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("request_id", requestID).Msg("relay panicked")
			outcome.Status = errKindStream
			_ = enc.EmitError(errKindStream)
		}
		_ = enc.EmitDone()
		_ = body.Close()
	}()

	decoder := newStreamDecoder()
	acc := newToolCallAccumulator()
	buf := make([]byte, config.DefaultBufferSize)

	for !decoder.Done() {
		n, readErr := body.Read(buf)
		if n > 0 {
			for _, delta := range decoder.Feed(buf[:n]) {
				if delta.Skipped {
					g.metrics.FramesSkipped.Inc()
					continue
				}
				for _, frag := range delta.Fragments {
					acc.Merge(frag)
				}
				if err := enc.EmitContent(delta.Content); err != nil {
					// Client gone; abandon the upstream read and any
					// partially accumulated tool calls.
					log.Debug().Err(err).Str("request_id", requestID).Msg("client disconnected")
					outcome.Status = "client_gone"
					return outcome
				}
			}
		}
		if readErr != nil {
			// EOF without [DONE] still dispatches whatever assembled fully;
			// an interrupted upstream must not hang the widget.
			break
		}
	}

	// ToolDispatching: argument JSON is complete only now that the upstream
	// stream has ended.
	calls := acc.Drain()
	outcome.ToolCalls = len(calls)
	lang := tools.Language(req.Language)

	for _, call := range calls {
		g.metrics.ToolCalls.Inc()
		args := call.Arguments
		if args == "" {
			// Missing arguments degrade to an empty object rather than
			// aborting the stream.
			args = "{}"
		}

		result, execErr := g.tools.Execute(ctx, call.Name, args, lang)
		if execErr != nil {
			// A failing tool degrades the answer, not the transport: skip
			// the result and keep the stream on its way to the terminator.
			g.metrics.ToolErrors.Inc()
			log.Error().Err(execErr).
				Str("request_id", requestID).
				Str("tool", call.Name).
				Str("call_id", call.ID).
				Msg("tool execution failed, skipping result")
			continue
		}

		if err := enc.EmitToolResult(ctx, result); err != nil {
			log.Debug().Err(err).Str("request_id", requestID).Msg("client disconnected during tool flush")
			outcome.Status = "client_gone"
			return outcome
		}
	}

	// Closing happens in the deferred EmitDone.
	return outcome
}
