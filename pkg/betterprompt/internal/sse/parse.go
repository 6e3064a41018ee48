// ABOUTME: Buffer-level Server-Sent Events framing: splits on blank lines, keeps the tail
// ABOUTME: Parse returns complete blocks plus the incomplete remainder for the next read

package sse

import "strings"

const (
	// Delimiter separates two event blocks.
	Delimiter = "\n\n"

	// DefaultEvent is the event type of a block without an "event:" line.
	DefaultEvent = "message"
)

// Block is one complete event block extracted from the stream.
type Block struct {
	Event string
	Data  string
}

// Parse extracts every complete block from buf. Data after the last delimiter
// is returned as remainder so the caller can prepend it to the next read.
// Fragments that carry neither an event nor a data field produce no block.
func Parse(buf string) ([]Block, string) {
	if buf == "" {
		return nil, ""
	}
	buf = strings.ReplaceAll(buf, "\r\n", "\n")

	fragments := strings.Split(buf, Delimiter)
	var remainder string
	if !strings.HasSuffix(buf, Delimiter) {
		remainder = fragments[len(fragments)-1]
		fragments = fragments[:len(fragments)-1]
	}

	var blocks []Block
	for _, frag := range fragments {
		if b, ok := parseBlock(frag); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks, remainder
}

// parseBlock turns the lines of one fragment into a Block.
func parseBlock(frag string) (Block, bool) {
	var (
		event     string
		dataLines []string
		seen      bool
	)

	for _, line := range strings.Split(frag, "\n") {
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		field, value := parseLine(line)
		switch field {
		case "event":
			event = strings.TrimSpace(value)
			seen = true
		case "data":
			dataLines = append(dataLines, value)
			seen = true
		}
	}

	if !seen {
		return Block{}, false
	}
	if event == "" {
		event = DefaultEvent
	}
	return Block{Event: event, Data: strings.Join(dataLines, "\n")}, true
}

// parseLine splits an SSE line into field name and value.
func parseLine(line string) (string, string) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return line, ""
	}

	field := line[:idx]
	value := line[idx+1:]

	// Strip optional leading space after colon.
	if len(value) > 0 && value[0] == ' ' {
		value = value[1:]
	}

	return field, value
}
