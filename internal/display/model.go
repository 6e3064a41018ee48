// ABOUTME: StreamModel is a Bubble Tea view of one streaming call for TTY output
// ABOUTME: Callbacks feed it through Program.Send; it quits when the call ends

package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/betterprompt-go/pkg/betterprompt"
)

// Messages sent from stream callbacks into the program.
type (
	ConnectedMsg struct{}
	ChunkMsg     struct{ Text string }
	DoneMsg      struct{ Response string }
	ErrorMsg     struct{ Err *betterprompt.APIError }
)

// StreamModel shows a status line above the text streamed so far. When the
// call completes the final response replaces the streamed text, rendered as
// markdown if a renderer is set.
type StreamModel struct {
	slug     string
	status   string
	text     strings.Builder
	final    string
	err      *betterprompt.APIError
	done     bool
	chunks   int
	width    int
	styles   Styles
	md       *MarkdownRenderer
	onCancel func()
}

// NewStreamModel creates a model for the call to slug. onCancel runs when the
// user presses ctrl+c or esc; md may be nil for plain text.
func NewStreamModel(slug string, md *MarkdownRenderer, st Styles, onCancel func()) *StreamModel {
	return &StreamModel{
		slug:     slug,
		status:   "connecting",
		width:    DefaultWidth,
		styles:   st,
		md:       md,
		onCancel: onCancel,
	}
}

// StreamCallbacks forwards stream events to p.
func StreamCallbacks(p *tea.Program) betterprompt.Callbacks {
	return betterprompt.Callbacks{
		OnConnected: func() { p.Send(ConnectedMsg{}) },
		OnChunk:     func(s string) { p.Send(ChunkMsg{Text: s}) },
		OnDone:      func(s string) { p.Send(DoneMsg{Response: s}) },
		OnError:     func(err *betterprompt.APIError) { p.Send(ErrorMsg{Err: err}) },
	}
}

// Init returns nil; the model waits for callbacks.
func (m *StreamModel) Init() tea.Cmd {
	return nil
}

// Update applies stream events, window resizes, and cancel keys.
func (m *StreamModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	switch msg := msg.(type) {
	case ConnectedMsg:
		m.status = "streaming"
	case ChunkMsg:
		m.status = "streaming"
		m.chunks++
		m.text.WriteString(msg.Text)
	case DoneMsg:
		m.status = "done"
		m.final = msg.Response
		m.done = true
		return m, tea.Quit
	case ErrorMsg:
		m.status = "failed"
		m.err = msg.Err
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.status = "cancelled"
			m.done = true
			if m.onCancel != nil {
				m.onCancel()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// View renders the status line and the response.
func (m *StreamModel) View() string {
	var b strings.Builder

	status := fmt.Sprintf("%s · %s · %d chunks", m.slug, m.status, m.chunks)
	b.WriteString(m.styles.Status.Render(Truncate(status, m.width)))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		if m.text.Len() > 0 {
			b.WriteString(m.text.String())
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Error.Render("✗ " + strings.TrimPrefix(m.err.Error(), "betterprompt: ")))
	case m.done && m.status == "done":
		if m.md != nil {
			b.WriteString(m.md.Render(m.final, m.width))
		} else {
			b.WriteString(m.final)
		}
	default:
		b.WriteString(m.text.String())
	}
	b.WriteString("\n")
	return b.String()
}

// Status returns the current status word.
func (m *StreamModel) Status() string {
	return m.status
}

// Err returns the failure reported by the stream, if any.
func (m *StreamModel) Err() *betterprompt.APIError {
	return m.err
}
