// Websocket transport for the chat relay.
//
// DESIGN: Some embedders cannot consume SSE (legacy webview wrappers of the
// booking widget), so the same relay is reachable over one websocket: the
// client sends a single chat request message, receives the identical frame
// payloads as text messages, and the connection closes after the sentinel.
// The relay itself is transport-agnostic through FrameWriter.
package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mareluna/concierge-gateway/internal/config"
)

// wsFrameWriter emits relay frames as websocket text messages.
type wsFrameWriter struct {
	conn *websocket.Conn
	r    *http.Request
}

func (w *wsFrameWriter) WriteFrame(payload []byte) error {
	return w.conn.Write(w.r.Context(), websocket.MessageText, payload)
}

// handleChatWS runs one relay lifecycle over a websocket connection.
func (g *Gateway) handleChatWS(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	requestID := uuid.New().String()
	clientID := resolveClientID(r.Header)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Debug().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "relay closed")

	enc := newStreamEncoder(&wsFrameWriter{conn: conn, r: r}, config.ToolResultChunkSize, config.ToolResultChunkDelay)

	admission := g.limiter.Check(clientID)
	if !admission.Allowed {
		g.metrics.RateLimited.Inc()
		_ = enc.EmitError(errKindRateLimit)
		_ = enc.EmitDone()
		g.finish(r, clientID, &chatRequest{}, errKindRateLimit, 0, started)
		conn.Close(websocket.StatusPolicyViolation, "rate limited")
		return
	}

	var req chatRequest
	if err := readWSRequest(r, conn, &req); err != nil || !req.normalize() {
		_ = enc.EmitError(errKindInvalidMessage)
		_ = enc.EmitDone()
		g.finish(r, clientID, &req, errKindInvalidMessage, 0, started)
		conn.Close(websocket.StatusUnsupportedData, "invalid message")
		return
	}

	log.Info().
		Str("request_id", requestID).
		Str("client_id", clientID).
		Str("transport", "websocket").
		Msg("relay start")

	body, kind, err := g.openUpstream(r.Context(), &req, requestID)
	if err != nil {
		_ = enc.EmitError(kind)
		_ = enc.EmitDone()
		g.finish(r, clientID, &req, kind, 0, started)
		conn.Close(websocket.StatusTryAgainLater, kind)
		return
	}

	outcome := g.transcode(r.Context(), enc, body, &req, requestID)
	g.finish(r, clientID, &req, outcome.Status, outcome.ToolCalls, started)

	conn.Close(websocket.StatusNormalClosure, "done")
}

func readWSRequest(r *http.Request, conn *websocket.Conn, req *chatRequest) error {
	_, data, err := conn.Read(r.Context())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, req)
}
