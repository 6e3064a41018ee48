// ABOUTME: Settles the terminal background guess before bubbletea or glamour can query it
// ABOUTME: Reads COLORFGBG instead of sending OSC 11; import with _ ahead of display code

package termfix

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func init() {
	// Once the background is set explicitly lipgloss skips the OSC 10/11
	// query whose late reply would otherwise leak into the stream view.
	// This package must not import bubbletea so this init runs first.
	lipgloss.SetHasDarkBackground(darkBackground(os.Getenv("COLORFGBG")))
}

// darkBackground interprets COLORFGBG ("fg;bg" or "fg;default;bg").
// Missing or unparsable values count as dark.
func darkBackground(colorfgbg string) bool {
	parts := strings.Split(colorfgbg, ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return true
	}
	// ANSI 7 and the bright colors other than 8 (bright black) are light.
	return bg < 7 || bg == 8
}
