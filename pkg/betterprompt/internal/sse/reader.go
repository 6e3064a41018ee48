// ABOUTME: Incremental SSE reader: appends each transport read to a pending buffer
// ABOUTME: Parses only once a read completes a block, queues blocks, flushes the tail at EOF

package sse

import (
	"errors"
	"io"
	"strings"
	"sync"
)

const (
	readSize = 32 * 1024

	// DefaultMaxPending bounds the bytes held for one incomplete block.
	DefaultMaxPending = 4 * 1024 * 1024
)

var (
	// ErrBufferOverflow is returned when an incomplete block outgrows MaxPending.
	ErrBufferOverflow = errors.New("sse: pending event exceeds buffer limit")

	// ErrClosed is returned by Next after Close.
	ErrClosed = errors.New("sse: reader closed")
)

var readBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, readSize)
		return &b
	},
}

// Reader parses Server-Sent Events from an io.Reader one read at a time.
type Reader struct {
	src        io.Reader
	buf        *[]byte
	pending    strings.Builder
	queue      []Block
	err        error
	maxPending int
}

// NewReader creates a new SSE reader from the given io.Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		src:        r,
		buf:        readBufPool.Get().(*[]byte),
		maxPending: DefaultMaxPending,
	}
}

// SetMaxPending overrides the incomplete-block limit. Non-positive values are ignored.
func (r *Reader) SetMaxPending(n int) {
	if n > 0 {
		r.maxPending = n
	}
}

// Next returns the next complete block. Blocks already parsed are returned
// before any read error; io.EOF is returned once the stream is drained.
func (r *Reader) Next() (Block, error) {
	for len(r.queue) == 0 {
		if r.err != nil {
			return Block{}, r.err
		}
		r.fill()
	}
	b := r.queue[0]
	r.queue = r.queue[1:]
	return b, nil
}

// Pending returns the buffered text that has not formed a complete block yet.
func (r *Reader) Pending() string {
	return r.pending.String()
}

// Close releases the read buffer. It does not close the underlying reader.
func (r *Reader) Close() {
	if r.buf == nil {
		return
	}
	readBufPool.Put(r.buf)
	r.buf = nil
	if r.err == nil {
		r.err = ErrClosed
	}
}

// fill performs one read and parses whatever it completes.
func (r *Reader) fill() {
	if r.buf == nil {
		r.err = ErrClosed
		return
	}

	n, err := r.src.Read(*r.buf)
	if n > 0 {
		// pending never holds a delimiter, so only the bytes around the
		// new read can complete a block.
		from := max(0, r.pending.Len()-2)
		r.pending.Write((*r.buf)[:n])
		if buf := r.pending.String(); hasDelimiter(buf[from:]) {
			blocks, rest := Parse(buf)
			r.queue = append(r.queue, blocks...)
			r.pending.Reset()
			r.pending.WriteString(rest)
		}
		if r.pending.Len() > r.maxPending {
			r.err = ErrBufferOverflow
			return
		}
	}

	if err == nil {
		return
	}
	if errors.Is(err, io.EOF) {
		// The server may close without the final blank line.
		if b, ok := parseBlock(strings.ReplaceAll(r.pending.String(), "\r\n", "\n")); ok {
			r.queue = append(r.queue, b)
		}
		r.pending.Reset()
		err = io.EOF
	}
	r.err = err
}

// hasDelimiter reports whether s contains a blank line in LF or CRLF form.
func hasDelimiter(s string) bool {
	return strings.Contains(s, "\n\n") || strings.Contains(s, "\n\r\n")
}
