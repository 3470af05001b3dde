// Package config - defaults.go centralizes magic numbers and default values.
//
// DESIGN: All default values that appear in multiple places should be defined here.
// This makes configuration more maintainable and auditable.
package config

import "time"

// =============================================================================
// CHAT REQUEST LIMITS
// =============================================================================

// MaxMessageLength is the maximum accepted chat message length in characters.
const MaxMessageLength = 2000

// MaxHistoryTurns is how many trailing conversation turns are forwarded upstream.
const MaxHistoryTurns = 8

// DefaultLanguage is used when the request omits a language.
const DefaultLanguage = "ro"

// =============================================================================
// RATE LIMITING
// =============================================================================

// DefaultRateLimitMax is the number of requests admitted per window per client.
const DefaultRateLimitMax = 15

// DefaultRateLimitWindow is the fixed admission window.
const DefaultRateLimitWindow = time.Minute

// =============================================================================
// UPSTREAM GATEWAY
// =============================================================================

// DefaultUpstreamTimeout bounds the whole upstream request including streaming.
const DefaultUpstreamTimeout = 60 * time.Second

// DefaultUpstreamModel is the chat-completions model requested upstream.
const DefaultUpstreamModel = "gpt-4o-mini"

// DefaultMaxTokens caps the upstream completion length.
const DefaultMaxTokens = 1024

// =============================================================================
// STREAMING
// =============================================================================

// DefaultBufferSize is the standard I/O buffer size for stream reads.
const DefaultBufferSize = 4096

// ToolResultChunkSize is the slice size used when flushing tool results.
// Small slices preserve the token-by-token rendering cadence the chat
// widget expects from model output.
const ToolResultChunkSize = 50

// ToolResultChunkDelay is the pause between tool-result slices.
const ToolResultChunkDelay = 30 * time.Millisecond

// =============================================================================
// HTTP SERVER
// =============================================================================

// DefaultListenAddr is the server bind address.
const DefaultListenAddr = ":8787"

// DefaultServerReadTimeout for inbound request reads.
const DefaultServerReadTimeout = 30 * time.Second

// DefaultServerWriteTimeout for HTTP server (safe for streaming).
const DefaultServerWriteTimeout = 10 * time.Minute

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// =============================================================================
// STORAGE
// =============================================================================

// DefaultDatabasePath is the sqlite database location.
const DefaultDatabasePath = "concierge.db"
