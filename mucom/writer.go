package mucom

import "io"

// LineBudget is the number of characters written on a line before wrapping.
const LineBudget = 70

// lineWriter writes the tokens of one channel block, wrapping lines once the budget runs out.
// Every line starts with the channel name. Write errors are sticky.
type lineWriter struct {
	w      io.Writer
	prefix string
	budget int
	empty  bool // No token on the current line yet.
	err    error
}

func newLineWriter(w io.Writer, name string) *lineWriter {
	return &lineWriter{w: w, prefix: name + " "}
}

func (lw *lineWriter) write(s string) {
	if lw.err != nil {
		return
	}
	_, lw.err = io.WriteString(lw.w, s)
}

// newline starts a new line and resets the budget.
func (lw *lineWriter) newline() {
	lw.write("\n")
	lw.write(lw.prefix)
	lw.budget = LineBudget - len(lw.prefix)
	lw.empty = true
}

// begin opens the block with the first line and its header token, which is never wrapped.
func (lw *lineWriter) begin(header string) {
	lw.newline()
	lw.write(header)
	lw.budget -= len(header)
	lw.empty = false
}

// token writes s, wrapping first if it doesn't fit in the budget left.
// Tokens are never split across lines, so a token wider than a whole line
// gets a line of its own.
func (lw *lineWriter) token(s string) {
	if s == "" {
		return
	}
	if len(s) > lw.budget && !lw.empty {
		lw.newline()
	}
	lw.write(s)
	lw.budget -= len(s)
	lw.empty = false
}

// end terminates the last line and returns the first write error.
func (lw *lineWriter) end() error {
	lw.write("\n")
	return lw.err
}
