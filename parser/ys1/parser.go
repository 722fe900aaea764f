// Package ys1 decodes the music data of the PC-88 Ys sound driver.
package ys1

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// A decoded track, ready to be converted to MML.
type Song struct {
	Image       *Image
	Track       *Track
	Instruments []Instrument

	// The time base detected for each channel by the measurement pass.
	Clocks [NumChannels]ClockModel

	// Warnings produced while decoding, if they were ignored.
	Warnings []DecodeWarning
}

type Parser struct {
	r      io.Reader
	logger *log.Logger
	opts   Options

	warnings []DecodeWarning

	// Parsing can only be done once per Parser.
	used bool
}

// NewParser creates a new parser reading a driver image from r.
func NewParser(r io.Reader, logger *log.Logger, opts Options) *Parser {
	if logger == nil {
		logger = log.Default()
	}
	return &Parser{
		r:      r,
		logger: logger,
		opts:   opts,
	}
}

func (p *Parser) debugf(format string, args ...any) {
	if p.opts.Verbose {
		p.logger.Printf(format, args...)
	}
}

// Parse loads the image and runs the measurement pass over every channel of the given track.
func (p *Parser) Parse(trackIndex int) (*Song, error) {
	if p.used {
		return nil, ErrParserUsed
	}
	p.used = true

	im, err := LoadImage(p.r)
	if err != nil {
		return nil, err
	}
	p.debugf("Loaded %d bytes, base address $%04X, track table at $%04X", im.Len(), im.BaseAddr, im.TableAddr)

	instruments, err := im.Instruments()
	if err != nil {
		return nil, err
	}
	p.debugf("Found %d instruments", len(instruments))

	track, err := im.Track(trackIndex, p.opts)
	if err != nil {
		return nil, err
	}
	p.debugf("Track %d header at $%04X, tempo %d", track.Index, track.Offset, track.Tempo)

	song := &Song{
		Image:       im,
		Track:       track,
		Instruments: instruments,
	}
	for _, ch := range track.Channels {
		hist, warnings, err := ch.Measure()
		if err != nil {
			return nil, fmt.Errorf("measuring channel %s: %w", ch.Name, err)
		}
		p.warnings = append(p.warnings, warnings...)

		song.Clocks[ch.ID] = DetectClock(hist)
		if p.opts.Verbose {
			p.logger.Printf("Channel %s (%s) starts at $%04X, loops at $%04X", ch.Name, ch.Sound, ch.Start, ch.Loop)
			p.logger.Printf("Length histogram of channel %s:\n%s", ch.Name, hist)
			spew.Fdump(p.logger.Writer(), song.Clocks[ch.ID])
		}
	}

	if len(p.warnings) > 0 {
		p.logger.Println("Warnings produced while decoding:")
		for _, w := range p.warnings {
			p.logger.Printf("  %v", w)
		}
	}
	song.Warnings = p.warnings
	return song, nil
}

// Pretty-print
func (s *Song) String() string {
	var b strings.Builder
	b.WriteString("Ys Song:\n")
	fmt.Fprintf(&b, "- Base address: $%04X\n", s.Image.BaseAddr)
	fmt.Fprintf(&b, "- Track: %d (header at $%04X)\n", s.Track.Index, s.Track.Offset)
	fmt.Fprintf(&b, "- Initial tempo: %d\n", s.Track.Tempo)
	fmt.Fprintf(&b, "- Instruments: %d\n", len(s.Instruments))
	b.WriteString("- Channels:\n")
	for _, ch := range s.Track.Channels {
		m := s.Clocks[ch.ID]
		fmt.Fprintf(&b, "  - %s (%s): start $%04X, loop $%04X, clock %d, default length %d\n",
			ch.Name, ch.Sound, ch.Start, ch.Loop, m.Clock, m.DefaultLength)
	}
	if len(s.Warnings) > 0 {
		fmt.Fprintf(&b, "[%d warning", len(s.Warnings))
		if len(s.Warnings) != 1 {
			b.WriteString("s") // Pluralise the word "warning" if needed.
		}
		b.WriteString("]\n")
	}
	return b.String()
}
