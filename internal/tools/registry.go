// Package tools maps model-requested tool calls to bounded, read-only
// database lookups that return stream-ready text.
//
// DESIGN: Tool arguments originate from model-generated JSON and are never
// trusted: every handler validates and clamps its own inputs. Handlers return
// pre-formatted human-readable strings (not structured data) because their
// output is spliced directly into the text-bearing chat stream. Dispatch
// fails closed: an unknown tool name yields a safe string rather than an
// error, so one bad call never aborts the stream.
package tools

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/mareluna/concierge-gateway/internal/store"
)

// Language selects the output locale of tool results.
type Language string

const (
	LangRO Language = "ro"
	LangEN Language = "en"
)

type handlerFunc func(ctx context.Context, args gjson.Result, lang Language) (string, error)

// Registry dispatches tool calls against the property/booking store.
// All handlers are strictly read-only; a model-initiated call must never
// mutate business records.
type Registry struct {
	db       *store.DB
	handlers map[string]handlerFunc
}

// NewRegistry builds the registry with the built-in tool set.
func NewRegistry(db *store.DB) *Registry {
	r := &Registry{db: db}
	r.handlers = map[string]handlerFunc{
		"check_availability": r.checkAvailability,
		"estimate_pricing":   r.estimatePricing,
		"estimate_profit":    r.estimateProfit,
	}
	return r
}

// Execute runs the named tool with raw JSON arguments and returns formatted
// text. Unknown names return a safe fallback string with a nil error; only a
// genuine execution failure returns an error, which the caller logs and
// skips.
func (r *Registry) Execute(ctx context.Context, name string, argsJSON string, lang Language) (string, error) {
	h, ok := r.handlers[name]
	if !ok {
		if lang == LangEN {
			return fmt.Sprintf("Unknown function: %s", name), nil
		}
		return fmt.Sprintf("Functie necunoscuta: %s", name), nil
	}

	args := gjson.Parse(argsJSON)
	return h(ctx, args, lang)
}

// Names returns the registered tool names. Used by tests and logging.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	return out
}

// clampFloat coerces v into [lo, hi], substituting def when v is not positive.
func clampFloat(v, def, lo, hi float64) float64 {
	if v <= 0 {
		v = def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, def, lo, hi int) int {
	if v <= 0 {
		v = def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
