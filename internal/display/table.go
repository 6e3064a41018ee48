// ABOUTME: Prompt listing table with width-aware column truncation
// ABOUTME: The description column absorbs whatever width the fixed columns leave

package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/mauromedda/betterprompt-go/pkg/betterprompt"
)

const (
	columnGap      = 2
	minDescription = 10
	maxSlugWidth   = 40
)

// Table writes prompts as aligned columns fitted to width cells.
func Table(w io.Writer, prompts []betterprompt.PromptSchema, width int, st Styles) error {
	headers := []string{"SLUG", "NAME", "REQUIRED", "DESCRIPTION"}
	rows := make([][]string, len(prompts))
	for i, p := range prompts {
		rows[i] = []string{p.Slug, p.Name, variableNames(p.RequiredContextVariables), oneLine(p.Description)}
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = VisibleWidth(h)
	}
	for _, row := range rows {
		for i := range 3 {
			widths[i] = max(widths[i], VisibleWidth(row[i]))
		}
	}
	widths[0] = min(widths[0], maxSlugWidth)
	widths[1] = min(widths[1], maxSlugWidth)

	fixed := widths[0] + widths[1] + widths[2] + 3*columnGap
	widths[3] = max(width-fixed, minDescription)

	if _, err := fmt.Fprintln(w, st.Header.Render(formatRow(headers, widths))); err != nil {
		return err
	}
	for _, row := range rows {
		row[0] = st.Accent.Render(PadRight(Truncate(row[0], widths[0]), widths[0]))
		if _, err := fmt.Fprintln(w, formatRow(row, widths)); err != nil {
			return err
		}
	}
	return nil
}

// formatRow pads and truncates cells to widths. Cells already padded to
// their width pass through unchanged.
func formatRow(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", columnGap))
		}
		cell = Truncate(cell, widths[i])
		if i < len(cells)-1 {
			cell = PadRight(cell, widths[i])
		}
		b.WriteString(cell)
	}
	return strings.TrimRight(b.String(), " ")
}

func variableNames(vars []betterprompt.Variable) string {
	if len(vars) == 0 {
		return "-"
	}
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return strings.Join(names, ",")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
