// Upstream model-gateway client.
//
// DESIGN: One bearer-authenticated streamed POST per relay request, bounded
// by an explicit timeout (the transport default is no ceiling, which is not
// acceptable for a user-facing stream). The tool schema is stored as raw
// JSON and injected verbatim; only the message array is built per request.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/sjson"

	"github.com/mareluna/concierge-gateway/internal/config"
	"github.com/mareluna/concierge-gateway/internal/tools"
	"github.com/mareluna/concierge-gateway/internal/utils"
)

const systemPromptRO = `Esti asistentul virtual al MareLuna, agentie de inchirieri in regim hotelier pe litoral. Raspunde concis si prietenos in limba romana. Foloseste functiile disponibile pentru disponibilitate, tarife si estimari de profit; nu inventa date.`

const systemPromptEN = `You are the virtual assistant of MareLuna, a seaside short-term rental agency. Answer concisely and warmly in English. Use the available functions for availability, rates and profit estimates; never invent data.`

// HistoryTurn is one prior conversation turn from the widget.
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type upstreamMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// buildUpstreamPayload assembles the chat-completions request body: system
// prompt by language, the trimmed history suffix, the user message, and the
// raw tool schema.
func buildUpstreamPayload(cfg config.UpstreamConfig, message string, language string, history []HistoryTurn) ([]byte, error) {
	system := systemPromptRO
	if language == "en" {
		system = systemPromptEN
	}

	if len(history) > config.MaxHistoryTurns {
		history = history[len(history)-config.MaxHistoryTurns:]
	}

	messages := make([]upstreamMessage, 0, len(history)+2)
	messages = append(messages, upstreamMessage{Role: "system", Content: system})
	for _, turn := range history {
		role := turn.Role
		if role != "assistant" {
			role = "user"
		}
		messages = append(messages, upstreamMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, upstreamMessage{Role: "user", Content: message})

	payload, err := json.Marshal(map[string]any{
		"model":       cfg.Model,
		"messages":    messages,
		"tool_choice": "auto",
		"stream":      true,
		"max_tokens":  cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal upstream payload: %w", err)
	}

	payload, err = sjson.SetRawBytes(payload, "tools", []byte(tools.SchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("inject tool schema: %w", err)
	}
	return payload, nil
}

// upstreamClient issues streamed completion requests.
type upstreamClient struct {
	cfg    config.UpstreamConfig
	client *http.Client
}

func newUpstreamClient(cfg config.UpstreamConfig) *upstreamClient {
	return &upstreamClient{
		cfg: cfg,
		// Timeout covers the whole exchange including the streamed body.
		client: &http.Client{Timeout: cfg.Timeout.Std()},
	}
}

// errUpstreamRateLimited distinguishes upstream 429s so the relay can emit
// ai_rate_limit instead of the generic upstream error.
var errUpstreamRateLimited = fmt.Errorf("upstream rate limited")

// Stream opens the completion stream. On non-2xx the response body is
// drained for the log and a typed error is returned; on success the caller
// owns closing the body.
func (u *upstreamClient) Stream(ctx context.Context, payload []byte) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+u.cfg.APIKey)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		_ = resp.Body.Close()
		log.Error().
			Int("status", resp.StatusCode).
			Str("api_key", utils.MaskKey(u.cfg.APIKey)).
			Str("response", utils.Truncate(string(body), 500)).
			Msg("upstream error response")
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errUpstreamRateLimited
		}
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	return resp.Body, nil
}
