// HTTP transport for the chat relay.
//
// DESIGN: Every outcome - including admission rejection and validation
// failure - is delivered as a well-formed event stream ending in the
// sentinel, so the widget keeps a single stream-reader code path. Only the
// HTTP status differs (200 / 400 / 429).
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mareluna/concierge-gateway/internal/config"
	"github.com/mareluna/concierge-gateway/internal/store"
)

// chatRequest is the inbound body of POST /v1/chat.
type chatRequest struct {
	Message             string        `json:"message"`
	Language            string        `json:"language"`
	ConversationHistory []HistoryTurn `json:"conversationHistory"`
}

// normalize applies defaults and reports whether the request is acceptable.
func (r *chatRequest) normalize() bool {
	if r.Language != "en" {
		r.Language = config.DefaultLanguage
	}
	if r.Message == "" {
		return false
	}
	return utf8.RuneCountInString(r.Message) <= config.MaxMessageLength
}

// handleChat is the relay entry point (Admitting state).
func (g *Gateway) handleChat(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	requestID := uuid.New().String()
	clientID := resolveClientID(r.Header)

	g.setCORSHeaders(w)
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	var req chatRequest
	bodyErr := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024)).Decode(&req)

	admission := g.limiter.Check(clientID)
	if !admission.Allowed {
		g.metrics.RateLimited.Inc()
		h.Set("Retry-After", strconv.Itoa(admission.RetryAfter(time.Now())))
		w.WriteHeader(http.StatusTooManyRequests)

		enc := newStreamEncoder(newSSEFrameWriter(w), config.ToolResultChunkSize, config.ToolResultChunkDelay)
		_ = enc.EmitError(errKindRateLimit)
		_ = enc.EmitDone()

		g.finish(r, clientID, &req, errKindRateLimit, 0, started)
		return
	}

	if bodyErr != nil || !req.normalize() {
		w.WriteHeader(http.StatusBadRequest)

		enc := newStreamEncoder(newSSEFrameWriter(w), config.ToolResultChunkSize, config.ToolResultChunkDelay)
		_ = enc.EmitError(errKindInvalidMessage)
		_ = enc.EmitDone()

		g.finish(r, clientID, &req, errKindInvalidMessage, 0, started)
		return
	}

	log.Info().
		Str("request_id", requestID).
		Str("client_id", clientID).
		Str("language", req.Language).
		Int("remaining", admission.Remaining).
		Msg("relay start")

	enc := newStreamEncoder(newSSEFrameWriter(w), config.ToolResultChunkSize, config.ToolResultChunkDelay)

	body, kind, err := g.openUpstream(r.Context(), &req, requestID)
	if err != nil {
		status := http.StatusBadGateway
		if kind == errKindAIRateLimit {
			// Upstream throttling propagates as 429 so callers back off.
			status = http.StatusTooManyRequests
		}
		w.WriteHeader(status)
		_ = enc.EmitError(kind)
		_ = enc.EmitDone()
		g.finish(r, clientID, &req, kind, 0, started)
		return
	}

	w.WriteHeader(http.StatusOK)
	outcome := g.transcode(r.Context(), enc, body, &req, requestID)

	log.Info().
		Str("request_id", requestID).
		Str("status", outcome.Status).
		Int("tool_calls", outcome.ToolCalls).
		Dur("duration", time.Since(started)).
		Msg("relay done")

	g.finish(r, clientID, &req, outcome.Status, outcome.ToolCalls, started)
}

// finish records metrics and the request log for any terminal path.
func (g *Gateway) finish(_ *http.Request, clientID string, req *chatRequest, status string, toolCalls int, started time.Time) {
	g.metrics.Requests.WithLabelValues(status).Inc()
	if g.db == nil {
		return
	}
	// The request context may already be canceled by a disconnect; the log
	// insert uses a fresh one.
	g.db.LogChatRequest(context.Background(), store.ChatRequestLog{
		ClientID:   clientID,
		Language:   req.Language,
		MessageLen: len(req.Message),
		Status:     status,
		ToolCalls:  toolCalls,
		Duration:   time.Since(started),
	})
}
