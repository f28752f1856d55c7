// Package telemetry provides tracing adapters for the pass pipeline.
package telemetry

import (
	"bytes"
	"sync"

	"go.trai.ch/zerr"
)

// DefaultFlushSize is the number of buffered bytes that forces a flush of
// a partial line.
const DefaultFlushSize = 4096

var errBufferClosed = zerr.New("span log is closed")

// lineBuffer splits writes into lines. Complete lines are emitted
// immediately; a trailing partial line is held until it grows past the
// flush size or the buffer is closed. It is safe for concurrent use.
type lineBuffer struct {
	size int
	emit func(string)

	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

func newLineBuffer(size int, emit func(string)) *lineBuffer {
	if size <= 0 {
		size = DefaultFlushSize
	}
	return &lineBuffer{size: size, emit: emit}
}

func (b *lineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, errBufferClosed
	}

	b.buf.Write(p)
	for {
		i := bytes.IndexByte(b.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(b.buf.Next(i + 1))
		b.emitLocked(line[:len(line)-1])
	}
	if b.buf.Len() >= b.size {
		b.emitLocked(b.buf.String())
		b.buf.Reset()
	}
	return len(p), nil
}

// Close emits any partial line. Later writes fail.
func (b *lineBuffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.buf.Len() > 0 {
		b.emitLocked(b.buf.String())
		b.buf.Reset()
	}
}

func (b *lineBuffer) emitLocked(line string) {
	if line == "" || b.emit == nil {
		return
	}
	b.emit(line)
}
