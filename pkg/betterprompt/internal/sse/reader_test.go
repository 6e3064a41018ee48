// ABOUTME: Tests for the incremental SSE reader across arbitrary read boundaries
// ABOUTME: Covers one-byte reads, EOF flush, read errors, overflow, and Close

package sse

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func readAll(t *testing.T, r *Reader) []Block {
	t.Helper()
	var got []Block
	for {
		b, err := r.Next()
		if err == io.EOF {
			return got
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, b)
	}
}

const sampleStream = "event: connected\ndata: \n\n" +
	"event: chunk\ndata: Hello\n\n" +
	"event: chunk\ndata:  world\n\n" +
	"event: done\ndata: {\"response\":\"Hello world\"}\n\n"

var sampleBlocks = []Block{
	{Event: "connected", Data: ""},
	{Event: "chunk", Data: "Hello"},
	{Event: "chunk", Data: " world"},
	{Event: "done", Data: `{"response":"Hello world"}`},
}

func TestReaderNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source func() io.Reader
	}{
		{"single read", func() io.Reader { return strings.NewReader(sampleStream) }},
		{"one byte reads", func() io.Reader { return iotest.OneByteReader(strings.NewReader(sampleStream)) }},
		{"half reads", func() io.Reader { return iotest.HalfReader(strings.NewReader(sampleStream)) }},
		{"data with eof", func() io.Reader { return iotest.DataErrReader(strings.NewReader(sampleStream)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewReader(tt.source())
			defer r.Close()

			got := readAll(t, r)
			if !reflect.DeepEqual(got, sampleBlocks) {
				t.Errorf("blocks = %#v, want %#v", got, sampleBlocks)
			}
		})
	}
}

func TestReaderFlushesTailAtEOF(t *testing.T) {
	t.Parallel()

	r := NewReader(strings.NewReader("event: chunk\ndata: A\n\nevent: done\ndata: tail"))
	defer r.Close()

	got := readAll(t, r)
	want := []Block{
		{Event: "chunk", Data: "A"},
		{Event: "done", Data: "tail"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("blocks = %#v, want %#v", got, want)
	}
}

func TestReaderLargeData(t *testing.T) {
	t.Parallel()

	bigData := strings.Repeat("x", 512*1024)
	r := NewReader(strings.NewReader("event: chunk\ndata: " + bigData + "\n\n"))
	defer r.Close()

	b, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Data != bigData {
		t.Errorf("data length = %d, want %d", len(b.Data), len(bigData))
	}
}

func TestReaderLargeBlockOneByteReads(t *testing.T) {
	t.Parallel()

	bigData := strings.Repeat("z", 256*1024)
	stream := "event: chunk\r\ndata: " + bigData + "\r\n\r\nevent: done\ndata: {}\n\n"
	r := NewReader(iotest.OneByteReader(strings.NewReader(stream)))
	defer r.Close()

	got := readAll(t, r)
	if len(got) != 2 {
		t.Fatalf("got %d blocks, want 2", len(got))
	}
	if got[0].Event != "chunk" || got[0].Data != bigData {
		t.Errorf("first block = %q with %d data bytes", got[0].Event, len(got[0].Data))
	}
	if got[1] != (Block{Event: "done", Data: "{}"}) {
		t.Errorf("second block = %+v", got[1])
	}
}

func TestReaderDelimiterAcrossReads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		pieces []string
	}{
		{"lf split", []string{"data: A\n", "\ndata: B\n\n"}},
		{"crlf split after cr", []string{"data: A\r", "\n\r\ndata: B\r\n\r\n"}},
		{"crlf split mid blank line", []string{"data: A\r\n\r", "\ndata: B\r\n\r\n"}},
		{"mixed endings", []string{"data: A\n", "\r\n", "data: B\r\n", "\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewReader(&chunkedReader{data: strings.Join(tt.pieces, ""), sizes: pieceSizes(tt.pieces)})
			defer r.Close()

			want := []Block{{Event: DefaultEvent, Data: "A"}, {Event: DefaultEvent, Data: "B"}}
			if got := readAll(t, r); !reflect.DeepEqual(got, want) {
				t.Errorf("blocks = %+v, want %+v", got, want)
			}
		})
	}
}

func pieceSizes(pieces []string) []int {
	sizes := make([]int, len(pieces))
	for i, p := range pieces {
		sizes[i] = len(p)
	}
	return sizes
}

func TestReaderOverflowOneByteReads(t *testing.T) {
	t.Parallel()

	r := NewReader(iotest.OneByteReader(strings.NewReader("data: ok\n\ndata: " + strings.Repeat("y", 1024))))
	r.SetMaxPending(128)
	defer r.Close()

	b, err := r.Next()
	if err != nil || b.Data != "ok" {
		t.Fatalf("first Next = %+v, %v; want data ok", b, err)
	}
	if _, err := r.Next(); !errors.Is(err, ErrBufferOverflow) {
		t.Errorf("Next error = %v, want ErrBufferOverflow", err)
	}
	if n := len(r.Pending()); n != 129 {
		t.Errorf("pending at overflow = %d bytes, want 129", n)
	}
}

func TestReaderReturnsQueuedBlocksBeforeError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	src := io.MultiReader(
		strings.NewReader("event: chunk\ndata: A\n\n"),
		iotest.ErrReader(boom),
	)
	r := NewReader(src)
	defer r.Close()

	b, err := r.Next()
	if err != nil {
		t.Fatalf("first Next error: %v", err)
	}
	if b.Data != "A" {
		t.Errorf("data = %q, want %q", b.Data, "A")
	}

	if _, err := r.Next(); !errors.Is(err, boom) {
		t.Errorf("second Next error = %v, want %v", err, boom)
	}
}

func TestReaderOverflow(t *testing.T) {
	t.Parallel()

	r := NewReader(strings.NewReader("data: " + strings.Repeat("y", 1024)))
	r.SetMaxPending(128)
	defer r.Close()

	if _, err := r.Next(); !errors.Is(err, ErrBufferOverflow) {
		t.Errorf("Next error = %v, want ErrBufferOverflow", err)
	}
}

func TestReaderPending(t *testing.T) {
	t.Parallel()

	r := NewReader(strings.NewReader("event: chunk\ndata: A\n\nevent: ch"))
	defer r.Close()

	if _, err := r.Next(); err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if got := r.Pending(); got != "event: ch" {
		t.Errorf("Pending() = %q, want %q", got, "event: ch")
	}

	b, err := r.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if b.Event != "ch" {
		t.Errorf("flushed event = %q, want %q", b.Event, "ch")
	}
	if r.Pending() != "" {
		t.Errorf("Pending() after EOF = %q, want empty", r.Pending())
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next error = %v, want io.EOF", err)
	}
}

func TestReaderDoubleClose(t *testing.T) {
	t.Parallel()

	r := NewReader(strings.NewReader("data: test\n\n"))
	r.Close()
	r.Close()

	if _, err := r.Next(); !errors.Is(err, ErrClosed) {
		t.Errorf("Next after Close = %v, want ErrClosed", err)
	}
}

func BenchmarkReaderNext(b *testing.B) {
	var sb strings.Builder
	for range 50 {
		sb.WriteString("event: chunk\ndata: some payload data for benchmarking\n\n")
	}
	payload := sb.String()

	for b.Loop() {
		r := NewReader(strings.NewReader(payload))
		for {
			if _, err := r.Next(); err != nil {
				break
			}
		}
		r.Close()
	}
}
