package mucom

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/QEStudios/ys12muc/parser/ys1"
)

// Ticks played at each tempo step of the slow-down ramp.
const slowDownStep = 12

// Wait parameter value meaning "leave unchanged".
const waitUnchanged = 0xff

// channelWriter holds the state of the emission pass over one channel.
type channelWriter struct {
	lw    *lineWriter
	ch    *ys1.Channel
	model ys1.ClockModel
	opts  Options

	tempo  int
	octave int // 0 until the first note.

	slowDown      bool
	slowDownCount int // Ticks left at the current tempo step.

	repeatOffset int // -1 until a repeat block is opened.
	repeatCount  int

	tempoClamped bool
}

// WriteChannel runs the emission pass over ch and writes its MML block to w.
// tempo is the starting tempo of the track.
func WriteChannel(w io.Writer, ch *ys1.Channel, model ys1.ClockModel, tempo int, opts Options) error {
	opts = opts.withDefaults()

	// The tempo is global, so it is only set once, on the first channel.
	if ch.ID == 0 {
		if _, err := fmt.Fprintf(w, "%s t%d\n", ch.Name, TempoValue(tempo, opts.TempoDivisor)); err != nil {
			return err
		}
	}

	cw := &channelWriter{
		lw:            newLineWriter(w, ch.Name),
		ch:            ch,
		model:         model,
		opts:          opts,
		tempo:         tempo,
		slowDownCount: slowDownStep,
		repeatOffset:  -1,
	}
	cw.lw.begin(fmt.Sprintf("C%dl%d", model.Clock, model.DefaultLength))

	s := ch.Stream(ys1.EmitPass)
	for {
		ev, err := s.Next()
		if err != nil {
			return err
		}
		if opts.Verbose {
			opts.Logger.Printf("[%04x]: %02x", ev.Offset, ev.Tag)
		}
		if err := cw.event(ev); err != nil {
			return err
		}
		if ev.Kind == ys1.EventEnd {
			break
		}
	}
	return cw.lw.end()
}

func (cw *channelWriter) event(ev ys1.Event) error {
	// Repeat ends and the loop point aren't opcodes, the driver keeps their offsets.
	if ev.Offset == cw.repeatOffset {
		cw.lw.token("]" + strconv.Itoa(cw.repeatCount))
	}
	if ev.Offset == cw.ch.Loop {
		cw.lw.token(" L ")
	}

	fm := cw.ch.Sound == ys1.SoundFM
	switch ev.Kind {
	case ys1.EventEnd, ys1.EventNop:
		// Nothing to write.
	case ys1.EventNote:
		cw.octaveChange(ev.Octave)
		return cw.length(ev, ys1.PitchName(ev.Pitch), true)
	case ys1.EventRest:
		return cw.length(ev, "r", false)
	case ys1.EventTie:
		cw.lw.token("&")
	case ys1.EventSlowDown:
		cw.slowDown = true
	case ys1.EventRepeatStart:
		cw.repeatCount = ev.Args[0]
		cw.repeatOffset = ev.Target
		cw.lw.token("[")
	case ys1.EventEnvelopeReset:
		cw.lw.token("S0,0,0,0")
	case ys1.EventEnvelopeSet:
		cw.lw.token("S" + joinArgs(ev.Args))
	case ys1.EventPitchModOff:
		cw.lw.token("MF0")
	case ys1.EventPortamento:
		// SSG pitch modulation parameters have no MUCOM88 equivalent.
		if fm {
			cw.lw.token("M" + joinArgs(ev.Args[:4]))
		}
	case ys1.EventWait:
		if ev.Args[0] != waitUnchanged {
			cw.lw.token("w" + strconv.Itoa(ev.Args[0]))
		}
	case ys1.EventPan:
		cw.lw.token("P" + strconv.Itoa(ev.Args[0]))
	case ys1.EventHardwareEnvelope:
		cw.lw.token("E" + joinArgs(ev.Args))
	case ys1.EventDetune:
		// SSG detune goes the other way, it is added to the tone period.
		detune := ev.Args[0]
		if !fm {
			detune = -detune
		}
		cw.lw.token("D" + strconv.Itoa(detune))
	case ys1.EventVolume:
		cw.lw.token("v" + strconv.Itoa(ev.Args[0]))
	case ys1.EventInstrument:
		if fm {
			cw.lw.token("@" + strconv.Itoa(ev.Args[0]))
		}
	default:
		panic(fmt.Sprintf("unhandled event kind %v", ev.Kind))
	}
	return nil
}

// octaveChange writes the octave of the next note, relative when it is one step away.
func (cw *channelWriter) octaveChange(octave int) {
	switch {
	case octave == cw.octave:
		return
	case cw.octave != 0 && octave == cw.octave+1:
		cw.lw.token(">")
	case cw.octave != 0 && octave == cw.octave-1:
		cw.lw.token("<")
	default:
		cw.lw.token("o" + strconv.Itoa(octave))
	}
	cw.octave = octave
}

// length writes a note or rest. Once the slow-down ramp is on, it is cut into
// fragments and the tempo drops by one after each full step.
func (cw *channelWriter) length(ev ys1.Event, name string, tie bool) error {
	length := ev.Length
	if !cw.slowDown {
		cw.lw.token(name + FormatLength(length, cw.model))
		return nil
	}

	for length >= cw.slowDownCount {
		cw.lw.token(name + FormatLength(cw.slowDownCount, cw.model))
		length -= cw.slowDownCount
		cw.slowDownCount = slowDownStep
		if tie && length > 0 {
			cw.lw.token("&")
		}
		if err := cw.slowDownTempo(ev.Offset); err != nil {
			return err
		}
	}
	if length > 0 {
		cw.lw.token(name + FormatLength(length, cw.model))
		cw.slowDownCount -= length
	}
	return nil
}

// slowDownTempo drops the tempo by one step. A step that would take the tempo
// below 0 is dropped and reported as a warning, once per channel.
func (cw *channelWriter) slowDownTempo(offset int) error {
	value := TempoValue(cw.tempo-1, cw.opts.TempoDivisor)
	if value >= 0 {
		cw.tempo--
		cw.lw.token("t" + strconv.Itoa(value))
		return nil
	}
	if cw.tempoClamped {
		return nil
	}
	cw.tempoClamped = true

	w := ys1.DecodeWarning{
		Channel: cw.ch.ID,
		Offset:  offset,
		Message: "slow-down ramp drops the tempo below 0, holding it at the last value",
	}
	if !cw.ch.Options().IgnoreWarnings {
		return &w
	}
	cw.opts.Logger.Printf("  %v", w)
	return nil
}

func joinArgs(args []int) string {
	s := make([]string, len(args))
	for i, a := range args {
		s[i] = strconv.Itoa(a)
	}
	return strings.Join(s, ",")
}
