package mucom

import (
	"strconv"

	"github.com/QEStudios/ys12muc/parser/ys1"
)

// FormatLength writes a length in ticks as an MML note value.
// Returns an empty string when the length is the default length.
func FormatLength(length int, m ys1.ClockModel) string {
	if length <= 0 {
		// Can't be a note value. Some tracks do contain zero-length notes.
		return "%" + strconv.Itoa(length)
	}

	if m.Clock%length == 0 {
		d := m.Clock / length
		if d == m.DefaultLength {
			return ""
		}
		return strconv.Itoa(d)
	}

	// Dotted note values are 1.5 times the undotted length.
	if length%3 == 0 && m.Clock%(length/3*2) == 0 {
		d := m.Clock / (length / 3 * 2)
		if d == m.DefaultLength {
			return "."
		}
		return strconv.Itoa(d) + "."
	}

	// Absolute ticks (requires MUCOM88 1.7 or later).
	return "%" + strconv.Itoa(length)
}

// TempoValue scales a timer B tempo by the divisor.
func TempoValue(tempo, divisor int) int {
	return 256 - (256-tempo)*divisor
}
