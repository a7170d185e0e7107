package main

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, time.Second, time.Second, true))

	dot := buf.String()
	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, `"adder"`)
	assert.Contains(t, dot, `"streamer"`)
}

func TestRunGreets(t *testing.T) {
	out := &lockedWriter{}
	require.NoError(t, run(out, 20*time.Millisecond, 200*time.Millisecond, false))
	assert.Contains(t, out.String(), "Hello, world!")
}

// lockedWriter keeps the streamer node and the test from racing on the
// buffer.
type lockedWriter struct {
	mu  sync.Mutex
	buf strings.Builder
}

var _ io.Writer = (*lockedWriter)(nil)

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *lockedWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}
