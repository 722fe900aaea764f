// Package mucom writes decoded Ys driver tracks as MUCOM88 MML.
package mucom

import (
	"bufio"
	"fmt"
	"io"
	"log"

	"github.com/QEStudios/ys12muc/parser/ys1"
)

// Tag values written at the top of the MML file. Empty tags are left out.
type Tags struct {
	Version  string `toml:"mucom88"` // MUCOM88 version; 1.7 is needed for absolute lengths.
	Title    string `toml:"title"`
	Author   string `toml:"author"`
	Composer string `toml:"composer"`
	Date     string `toml:"date"`
	Comment  string `toml:"comment"`
}

// Options configures the MML output.
type Options struct {
	TempoDivisor int // Scales tempo values, 1 if unset.
	Tags         Tags

	Logger  *log.Logger // Opcode trace when Verbose is set. Defaults to log.Default().
	Verbose bool
}

func (o Options) withDefaults() Options {
	if o.TempoDivisor == 0 {
		o.TempoDivisor = 1
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Write converts a decoded song to MML: tags, instruments, then channels A to F.
func Write(w io.Writer, song *ys1.Song, opts Options) error {
	opts = opts.withDefaults()
	bw := bufio.NewWriter(w)

	if err := WriteTags(bw, opts.Tags); err != nil {
		return fmt.Errorf("error writing tags: %w", err)
	}
	if err := WriteInstruments(bw, song.Instruments); err != nil {
		return fmt.Errorf("error writing instruments: %w", err)
	}
	for _, ch := range song.Track.Channels {
		if err := WriteChannel(bw, ch, song.Clocks[ch.ID], song.Track.Tempo, opts); err != nil {
			return fmt.Errorf("error writing channel %s: %w", ch.Name, err)
		}
	}
	return bw.Flush()
}

// WriteTags writes one "#tag value" line per non-empty tag, then a blank line.
func WriteTags(w io.Writer, tags Tags) error {
	lines := []struct{ name, value string }{
		{"mucom88", tags.Version},
		{"title", tags.Title},
		{"author", tags.Author},
		{"composer", tags.Composer},
		{"date", tags.Date},
		{"comment", tags.Comment},
	}
	for _, l := range lines {
		if l.value == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "#%s %s\n", l.name, l.value); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteInstruments writes every instrument as a register-level voice definition.
func WriteInstruments(w io.Writer, instruments []ys1.Instrument) error {
	for _, inst := range instruments {
		if err := writeInstrument(w, inst); err != nil {
			return err
		}
	}
	return nil
}

func writeInstrument(w io.Writer, inst ys1.Instrument) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "  @%%%03d\n", inst.Number)

	// 6 rows of 4 operator registers: DT/ML, TL, KS/AR, DR, SR, SL/RR.
	p := inst.Params
	for row := 0; row < 24; row += 4 {
		fmt.Fprintf(bw, "  $%03X,$%03X,$%03X,$%03X\n", p[row], p[row+1], p[row+2], p[row+3])
	}
	fmt.Fprintf(bw, "  $%03X\n", p[24]) // FB/AL
	bw.WriteString("\n")
	return bw.Flush()
}
