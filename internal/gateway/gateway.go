// Package gateway implements the streaming chat relay: admission, upstream
// transcoding, tool-call resolution and downstream frame encoding.
package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mareluna/concierge-gateway/internal/config"
	"github.com/mareluna/concierge-gateway/internal/monitoring"
	"github.com/mareluna/concierge-gateway/internal/ratelimit"
	"github.com/mareluna/concierge-gateway/internal/store"
	"github.com/mareluna/concierge-gateway/internal/tools"
)

// Gateway owns the relay's collaborators. All shared mutable state lives in
// the injected limiter; everything else is per-request.
type Gateway struct {
	cfg      *config.Config
	limiter  *ratelimit.Limiter
	tools    *tools.Registry
	db       *store.DB
	metrics  *monitoring.Metrics
	upstream *upstreamClient
}

// New wires a gateway from its injected dependencies.
func New(cfg *config.Config, limiter *ratelimit.Limiter, registry *tools.Registry, db *store.DB, metrics *monitoring.Metrics) *Gateway {
	return &Gateway{
		cfg:      cfg,
		limiter:  limiter,
		tools:    registry,
		db:       db,
		metrics:  metrics,
		upstream: newUpstreamClient(cfg.Upstream),
	}
}

// Routes mounts the chat endpoints.
func (g *Gateway) Routes() chi.Router {
	r := chi.NewRouter()
	r.Options("/v1/chat", g.handlePreflight)
	r.Post("/v1/chat", g.handleChat)
	r.Get("/v1/chat/ws", g.handleChatWS)
	r.Get("/healthz", g.handleHealth)
	return r
}

// handlePreflight answers the widget's CORS preflight.
func (g *Gateway) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	g.setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", g.cfg.Server.AllowedOrigin)
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, X-Api-Key")
}

// handleHealth reports liveness with a database ping.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := g.db.PingContext(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"degraded"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
