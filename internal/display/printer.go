// ABOUTME: Printer writes streamed responses to a writer as callbacks fire
// ABOUTME: Plain mode echoes chunks live; markdown mode renders the final response with glamour

package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mauromedda/betterprompt-go/pkg/betterprompt"
)

// PrinterConfig configures a Printer.
type PrinterConfig struct {
	// Markdown renders the complete response instead of echoing chunks.
	Markdown bool
	// MarkdownStyle is passed to NewMarkdownRenderer.
	MarkdownStyle string
	// Width wraps rendered markdown; zero means DefaultWidth.
	Width  int
	Styles Styles
}

// Printer renders one call's output. Its methods are safe for concurrent use.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	cfg    PrinterConfig
	md     *MarkdownRenderer

	mu       sync.Mutex
	lastByte byte
}

// NewPrinter creates a Printer writing responses to out and errors to errOut.
func NewPrinter(out, errOut io.Writer, cfg PrinterConfig) *Printer {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	p := &Printer{out: out, errOut: errOut, cfg: cfg, lastByte: '\n'}
	if cfg.Markdown {
		p.md = NewMarkdownRenderer(cfg.MarkdownStyle)
	}
	return p
}

// Callbacks wires the printer to a streaming call.
func (p *Printer) Callbacks() betterprompt.Callbacks {
	return betterprompt.Callbacks{
		OnChunk: p.Chunk,
		OnDone:  p.Done,
		OnError: func(err *betterprompt.APIError) { p.Error(err) },
	}
}

// Chunk echoes a fragment in plain mode.
func (p *Printer) Chunk(text string) {
	if p.md != nil || text == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.write(text)
}

// Done finishes the output. In plain mode the chunks are already on screen,
// so only a trailing newline is added.
func (p *Printer) Done(response string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.md != nil {
		p.write(p.md.Render(response, p.cfg.Width))
	}
	if p.lastByte != '\n' {
		p.write("\n")
	}
}

// Result prints a complete response, as returned by Invoke.
func (p *Printer) Result(response string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.md != nil {
		response = p.md.Render(response, p.cfg.Width)
	}
	p.write(response)
	if p.lastByte != '\n' {
		p.write("\n")
	}
}

// Error reports a failure on the error writer.
func (p *Printer) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastByte != '\n' {
		p.write("\n")
	}
	fmt.Fprintln(p.errOut, p.cfg.Styles.Error.Render("✗ "+strings.TrimPrefix(err.Error(), "betterprompt: ")))
}

func (p *Printer) write(s string) {
	if s == "" {
		return
	}
	_, _ = io.WriteString(p.out, s)
	p.lastByte = s[len(s)-1]
}
