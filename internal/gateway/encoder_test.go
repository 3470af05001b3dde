package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectWriter records frame payloads in order.
type collectWriter struct {
	frames []string
}

func (c *collectWriter) WriteFrame(payload []byte) error {
	c.frames = append(c.frames, string(payload))
	return nil
}

func TestEncoder_ContentAndDone(t *testing.T) {
	fw := &collectWriter{}
	enc := newStreamEncoder(fw, 50, 0)

	require.NoError(t, enc.EmitContent("hello"))
	require.NoError(t, enc.EmitDone())

	assert.Equal(t, []string{`{"delta":"hello"}`, "[DONE]"}, fw.frames)
}

func TestEncoder_ToolResultChunking(t *testing.T) {
	fw := &collectWriter{}
	enc := newStreamEncoder(fw, 4, 0)

	require.NoError(t, enc.EmitToolResult(context.Background(), "abcdefghij"))

	assert.Equal(t, []string{
		`{"delta":"abcd"}`,
		`{"delta":"efgh"}`,
		`{"delta":"ij"}`,
	}, fw.frames)
}

func TestEncoder_ExactlyOneTerminator(t *testing.T) {
	fw := &collectWriter{}
	enc := newStreamEncoder(fw, 50, 0)

	require.NoError(t, enc.EmitDone())
	require.NoError(t, enc.EmitDone())
	require.NoError(t, enc.EmitContent("late"))
	require.NoError(t, enc.EmitError("whatever"))

	// One [DONE], nothing after it.
	assert.Equal(t, []string{"[DONE]"}, fw.frames)
}

func TestEncoder_ErrorThenDone(t *testing.T) {
	fw := &collectWriter{}
	enc := newStreamEncoder(fw, 50, 0)

	require.NoError(t, enc.EmitError("upstream_error"))
	require.NoError(t, enc.EmitDone())

	assert.Equal(t, []string{`{"error":"upstream_error"}`, "[DONE]"}, fw.frames)
}

func TestEncoder_ToolResultCanceledContext(t *testing.T) {
	fw := &collectWriter{}
	enc := newStreamEncoder(fw, 2, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := enc.EmitToolResult(ctx, "abcdef")
	assert.Error(t, err)
	// The first slice may have gone out before the delay; no more after.
	assert.LessOrEqual(t, len(fw.frames), 1)
}

func TestEncoder_EmptyContentSkipped(t *testing.T) {
	fw := &collectWriter{}
	enc := newStreamEncoder(fw, 50, 0)

	require.NoError(t, enc.EmitContent(""))
	assert.Empty(t, fw.frames)
}

func TestEncoder_ToolResultMultibyteChunking(t *testing.T) {
	fw := &collectWriter{}
	enc := newStreamEncoder(fw, 3, 0)

	require.NoError(t, enc.EmitToolResult(context.Background(), "căsuță"))

	assert.Equal(t, []string{
		`{"delta":"căs"}`,
		`{"delta":"uță"}`,
	}, fw.frames)
}
