package ys1

import (
	"fmt"
	"strings"
)

// Histogram counts how often each length in ticks occurs in a channel.
type Histogram [256]int

// ClockModel is the time base used to write lengths as note values.
type ClockModel struct {
	Clock         int // Ticks in a whole note.
	DefaultLength int // Note value written without a length, e.g. 4 for quarter notes.
}

// Candidate clocks, in order of preference when scores tie.
var Clocks = []int{192, 144, 128, 112}

const maxDivisorShift = 6 // Note values up to 64ths.

// Score returns how many lengths in h are a whole note of clock divided by a power of two.
func (h *Histogram) Score(clock int) int {
	score := 0
	for k := 0; k <= maxDivisorShift; k++ {
		if clock%(1<<k) == 0 {
			score += h[clock>>k]
		}
	}
	return score
}

// DetectClock guesses the clock and default length from the lengths in h.
func DetectClock(h *Histogram) ClockModel {
	clock := Clocks[0]
	best := h.Score(clock)
	for _, c := range Clocks[1:] {
		if score := h.Score(c); score > best {
			clock, best = c, score
		}
	}

	// Bucket indices truncate, so clocks 144 and 112 can still end up with l32 or l64.
	defaultLength := 1
	for k := 1; k <= maxDivisorShift; k++ {
		divisor := 1 << k
		if h[clock/divisor] > h[clock/defaultLength] {
			defaultLength = divisor
		}
	}

	return ClockModel{Clock: clock, DefaultLength: defaultLength}
}

// Measure runs the measurement pass over the channel.
func (ch *Channel) Measure() (*Histogram, []DecodeWarning, error) {
	var h Histogram
	s := ch.Stream(MeasurePass)
	for {
		ev, err := s.Next()
		if err != nil {
			return nil, nil, err
		}
		switch ev.Kind {
		case EventNote, EventRest:
			h[ev.Length]++
		case EventEnd:
			return &h, s.Warnings(), nil
		}
	}
}

// String prints the candidate scores and the first 200 buckets, ten to a row.
func (h *Histogram) String() string {
	var b strings.Builder
	for _, c := range Clocks {
		fmt.Fprintf(&b, "%3d: %4d\n", c, h.Score(c))
	}
	b.WriteString("--------\n")
	for row := range 20 {
		fmt.Fprintf(&b, "%3d:", row*10)
		for col := range 10 {
			fmt.Fprintf(&b, " %4d", h[row*10+col])
		}
		b.WriteString("\n")
	}
	return b.String()
}
