package ys1

import (
	"fmt"
	"io"
)

// Pass selects which of the two decoding passes a Stream serves.
// It only matters when Options.Compat is set.
type Pass int

const (
	MeasurePass Pass = iota // Collects note lengths for clock detection.
	EmitPass                // Produces the MML text.
)

// Opcode tags. Tags 0x01-0x7F are notes and 0x80-0xEE are short rests.
const (
	opEnd              = 0x00
	opShortRest        = 0x80
	opUndefined        = 0xef
	opNop              = 0xf0
	opSlowDown         = 0xf1
	opEnvelopeReset    = 0xf2
	opEnvelopeSet      = 0xf3
	opPitchModOff      = 0xf4
	opPortamento       = 0xf5
	opRepeatStart      = 0xf6
	opWait             = 0xf7
	opPan              = 0xf8
	opTie              = 0xf9
	opRest             = 0xfa
	opNote             = 0xfb
	opHardwareEnvelope = 0xfc
	opDetune           = 0xfd
	opVolume           = 0xfe
	opInstrument       = 0xff
)

// Stream is a lazy sequence of events decoded from one channel.
// Both passes walk the same opcode boundaries, so a histogram collected by one
// stream lines up with the durations emitted by another.
type Stream struct {
	ch   *Channel
	pass Pass
	pos  int
	done bool

	warnings []DecodeWarning
}

// Reset rewinds the stream to the start of the channel.
func (s *Stream) Reset() {
	s.pos = s.ch.Start
	s.done = false
	s.warnings = nil
}

// Offset returns the offset of the next opcode.
func (s *Stream) Offset() int {
	return s.pos
}

// Warnings returns the warnings collected so far. Only populated when warnings are ignored.
func (s *Stream) Warnings() []DecodeWarning {
	return s.warnings
}

// Next decodes one opcode and its operands. After the End event it returns io.EOF.
func (s *Stream) Next() (Event, error) {
	if s.done {
		return Event{}, io.EOF
	}

	ev := Event{Offset: s.pos}
	tag, err := s.byte()
	if err != nil {
		return Event{}, err
	}
	ev.Tag = tag

	switch {
	case tag == opEnd:
		ev.Kind = EventEnd
		s.done = true

	case tag >= opShortRest && tag < opUndefined:
		ev.Kind = EventRest
		ev.Length = int(tag & 0x7f)

	case tag < opShortRest:
		ev.Length = int(tag)
		err = s.note(&ev)

	case tag == opUndefined:
		if err := s.warn(ev.Offset, "undefined opcode $%02X, decoding it as a note", tag); err != nil {
			return Event{}, err
		}
		ev.Length = int(tag)
		err = s.note(&ev)

	default:
		err = s.control(&ev)
	}
	if err != nil {
		return Event{}, err
	}

	ev.Next = s.pos
	return ev, nil
}

// control decodes the opcodes in the range $F0-$FF.
func (s *Stream) control(ev *Event) error {
	var err error
	switch ev.Tag {
	case opNop:
		ev.Kind = EventNop
	case opSlowDown:
		ev.Kind = EventSlowDown
	case opEnvelopeReset:
		ev.Kind = EventEnvelopeReset
	case opEnvelopeSet:
		ev.Kind = EventEnvelopeSet
		ev.Args, err = s.bytes(4)
	case opPitchModOff:
		ev.Kind = EventPitchModOff
	case opPortamento:
		ev.Kind = EventPortamento
		ev.Args, err = s.bytes(s.portamentoWidth())
		if err == nil && len(ev.Args) > 2 {
			ev.Args[2] = int(int8(ev.Args[2]))
		}
	case opRepeatStart:
		ev.Kind = EventRepeatStart
		err = s.repeatStart(ev)
	case opWait:
		ev.Kind = EventWait
		ev.Args, err = s.bytes(1)
	case opPan:
		ev.Kind = EventPan
		var raw byte
		raw, err = s.byte()
		ev.Args = []int{int((raw<<1)&2 | (raw>>3)&1)}
	case opTie:
		ev.Kind = EventTie
	case opRest:
		ev.Kind = EventRest
		var length byte
		length, err = s.byte()
		ev.Length = int(length)
	case opNote:
		var length byte
		length, err = s.byte()
		if err == nil {
			ev.Length = int(length)
			err = s.note(ev)
		}
	case opHardwareEnvelope:
		ev.Kind = EventHardwareEnvelope
		ev.Args, err = s.bytes(6)
	case opDetune:
		ev.Kind = EventDetune
		var w int
		w, err = s.ch.image.WordBE(s.pos)
		s.pos += 2
		ev.Args = []int{int(int16(uint16(w)))}
	case opVolume:
		ev.Kind = EventVolume
		ev.Args, err = s.bytes(1)
	case opInstrument:
		ev.Kind = EventInstrument
		ev.Args, err = s.bytes(1)
	default:
		panic(fmt.Sprintf("unhandled control opcode $%02X", ev.Tag))
	}
	if err != nil {
		return s.wrap(err)
	}
	return nil
}

// note reads the pitch byte of a note whose length has already been set.
func (s *Stream) note(ev *Event) error {
	ev.Kind = EventNote
	pitch, err := s.byte()
	if err != nil {
		return err
	}
	ev.Octave = int((pitch>>4)&0x07) + 1
	ev.Pitch = int(pitch & 0x0f)
	if !ValidPitch(ev.Pitch) {
		return s.warn(ev.Offset, "reserved pitch class %d", ev.Pitch)
	}
	return nil
}

// repeatStart reads the repeat count and the big-endian distance to the end of the block.
func (s *Stream) repeatStart(ev *Event) error {
	count, err := s.byte()
	if err != nil {
		return err
	}
	delta, err := s.ch.image.WordBE(s.pos)
	if err != nil {
		return err
	}
	s.pos += 2
	ev.Args = []int{int(count)}
	ev.Target = s.pos + delta

	if s.ch.opts.Compat && s.pass == MeasurePass {
		// The legacy measurement pass skips two bytes too many here.
		s.pos += 2
	}
	return nil
}

// portamentoWidth returns the number of operand bytes of a $F5 opcode.
func (s *Stream) portamentoWidth() int {
	fm := s.ch.Sound == SoundFM
	if s.ch.opts.Compat {
		switch s.pass {
		case MeasurePass:
			if fm || s.ch.ID == 2 {
				return 4
			}
			return 3
		case EmitPass:
			if !fm {
				return 0
			}
		}
	}
	if !fm {
		return 3
	}
	if s.ch.ID == 2 {
		return 5
	}
	return 4
}

func (s *Stream) byte() (byte, error) {
	b, err := s.ch.image.Byte(s.pos)
	if err != nil {
		return 0, s.wrap(err)
	}
	s.pos++
	return b, nil
}

func (s *Stream) bytes(n int) ([]int, error) {
	b, err := s.ch.image.Bytes(s.pos, n)
	if err != nil {
		return nil, s.wrap(err)
	}
	s.pos += n
	values := make([]int, n)
	for i, v := range b {
		values[i] = int(v)
	}
	return values, nil
}

// wrap attaches the channel to image errors.
func (s *Stream) wrap(err error) error {
	if de, ok := err.(*DecodeError); ok && de.Channel < 0 {
		return &DecodeError{Channel: s.ch.ID, Offset: de.Offset, Err: de.Err}
	}
	return err
}

// warn records a warning, or returns it if warnings aren't ignored.
func (s *Stream) warn(offset int, format string, args ...any) error {
	w := DecodeWarning{
		Channel: s.ch.ID,
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
	}
	if !s.ch.opts.IgnoreWarnings {
		return &w
	}
	s.warnings = append(s.warnings, w)
	return nil
}
