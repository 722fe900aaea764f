package ys1

import (
	"fmt"
	"strings"
)

type EventKind int

const (
	EventEnd              EventKind = iota // End of the channel.
	EventNop                               // $F0, does nothing.
	EventNote                              // Length, Octave and Pitch are set.
	EventRest                              // Length is set.
	EventTie                               // Ties the previous note to the next one.
	EventRepeatStart                       // Args[0] is the repeat count, Target the offset where the block ends.
	EventEnvelopeReset                     // Resets the software envelope.
	EventEnvelopeSet                       // Args holds the 4 software envelope parameters.
	EventPitchModOff                       // Disables pitch modulation.
	EventPortamento                        // Args holds the pitch modulation parameters (FM: 4 or 5, SSG: 3).
	EventSlowDown                          // Starts the slow-down ramp for the rest of the channel.
	EventWait                              // Args[0] is the wait parameter, 0xFF meaning unchanged.
	EventPan                               // Args[0] is the MUCOM88 pan value.
	EventHardwareEnvelope                  // Args holds the 6 SSG hardware envelope parameters.
	EventDetune                            // Args[0] is the signed detune as stored.
	EventVolume                            // Args[0] is the volume.
	EventInstrument                        // Args[0] is the instrument number.
)

var eventKindNames = map[EventKind]string{
	EventEnd:              "end",
	EventNop:              "nop",
	EventNote:             "note",
	EventRest:             "rest",
	EventTie:              "tie",
	EventRepeatStart:      "repeat",
	EventEnvelopeReset:    "env reset",
	EventEnvelopeSet:      "env",
	EventPitchModOff:      "pitch mod off",
	EventPortamento:       "pitch mod",
	EventSlowDown:         "slow down",
	EventWait:             "wait",
	EventPan:              "pan",
	EventHardwareEnvelope: "hw env",
	EventDetune:           "detune",
	EventVolume:           "volume",
	EventInstrument:       "instrument",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// A single decoded opcode.
type Event struct {
	Kind   EventKind
	Tag    byte // The opcode byte.
	Offset int  // Image offset of the opcode byte.
	Next   int  // Image offset right after the operands.

	Length int // For Kinds Note, Rest: the length in ticks (0-255).
	Octave int // For Kind Note: 1-8.
	Pitch  int // For Kind Note: pitch class 0-15, see PitchName.
	Target int // For Kind RepeatStart: image offset where the repeat block ends.

	Args []int // Operands of control opcodes, in stored order.
}

func (e Event) String() string {
	switch e.Kind {
	case EventNote:
		return fmt.Sprintf("%04X %s o%d%s %d", e.Offset, e.Kind, e.Octave, PitchName(e.Pitch), e.Length)
	case EventRest:
		return fmt.Sprintf("%04X %s %d", e.Offset, e.Kind, e.Length)
	case EventRepeatStart:
		return fmt.Sprintf("%04X %s x%d ->%04X", e.Offset, e.Kind, e.Args[0], e.Target)
	}
	if len(e.Args) == 0 {
		return fmt.Sprintf("%04X %s", e.Offset, e.Kind)
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = fmt.Sprint(a)
	}
	return fmt.Sprintf("%04X %s %s", e.Offset, e.Kind, strings.Join(args, ","))
}

// Pitch class names in MUCOM88 notation. The driver's note table has holes at 5 and 13-15.
var pitchNames = [16]string{
	"c", "c+", "d", "d+", "e", "?", "f", "f+", "g", "g+", "a", "a+", "b", "?", "?", "?",
}

// PitchName returns the MML name of a pitch class, or "?" for the reserved slots.
func PitchName(pitch int) string {
	if pitch < 0 || pitch >= len(pitchNames) {
		return "?"
	}
	return pitchNames[pitch]
}

// ValidPitch reports whether pitch names a real note.
func ValidPitch(pitch int) bool {
	return PitchName(pitch) != "?"
}
