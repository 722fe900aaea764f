package mucom

import (
	"strings"

	"github.com/QEStudios/ys12muc/parser/ys1"
)

// FormatEventTable formats decoded events into a table with one column per channel.
// events: one slice per channel
// headerNames: optional names for each channel (if nil or empty entry, "Channel i" is used).
// indent: number of spaces to indent the table
func FormatEventTable(events [][]ys1.Event, headerNames []string, indent int) string {
	numChannels := len(events)
	if numChannels == 0 {
		return ""
	}

	header := func(i int) string {
		if i < len(headerNames) && headerNames[i] != "" {
			return headerNames[i]
		}
		return "Channel " + string(rune('A'+i))
	}

	// Find max rows
	maxRows := 0
	for _, col := range events {
		maxRows = max(maxRows, len(col))
	}

	// Calculate column widths
	widths := make([]int, numChannels)
	cells := make([][]string, numChannels)
	for i, col := range events {
		widths[i] = len(header(i))
		cells[i] = make([]string, len(col))
		for row, ev := range col {
			cells[i][row] = ev.String()
			widths[i] = max(widths[i], len(cells[i][row]))
		}

		// Set a minimum width for nicer output
		widths[i] = max(widths[i], 18)
	}

	padRight := func(s string, w int) string {
		if len(s) >= w {
			return s
		}
		return s + strings.Repeat(" ", w-len(s))
	}

	var b strings.Builder
	separator := func() {
		b.WriteString(strings.Repeat(" ", indent))
		for i := range numChannels {
			b.WriteString("+")
			b.WriteString(strings.Repeat("-", widths[i]+2)) // +2 for the space padding either side
		}
		b.WriteString("+\n")
	}

	separator()
	b.WriteString(strings.Repeat(" ", indent))
	for i := range numChannels {
		b.WriteString("| ")
		b.WriteString(padRight(header(i), widths[i]))
		b.WriteString(" ")
	}
	b.WriteString("|\n")
	separator()

	for row := range maxRows {
		b.WriteString(strings.Repeat(" ", indent))
		for i := range numChannels {
			cell := ""
			if row < len(cells[i]) {
				cell = cells[i][row]
			}
			b.WriteString("| ")
			b.WriteString(padRight(cell, widths[i]))
			b.WriteString(" ")
		}
		b.WriteString("|\n")
	}
	separator()

	return b.String()
}
