package ys1

import "fmt"

// NumChannels is the number of channels in every track: 3 FM followed by 3 SSG.
const NumChannels = 6

// TrackStride is the distance between consecutive entries of the track pointer table.
const TrackStride = 0x19

var channelNames = [NumChannels]string{"A", "B", "C", "D", "E", "F"}

// SoundType is the sound generator a channel is played on.
type SoundType int

const (
	SoundFM SoundType = iota
	SoundSSG
)

func (t SoundType) String() string {
	switch t {
	case SoundFM:
		return "FM"
	case SoundSSG:
		return "SSG"
	default:
		return fmt.Sprintf("SoundType(%d)", int(t))
	}
}

// Options configures decoding. It is copied into every channel and never modified.
type Options struct {
	// IgnoreWarnings turns DecodeWarnings into collected, non-fatal messages.
	IgnoreWarnings bool

	// Compat reproduces the operand widths of the tool this format was first decoded with,
	// which disagree between the measurement and emission passes for opcodes $F5 and $F6.
	Compat bool

	// Verbose enables debug logging.
	Verbose bool
}

// A single track (BGM) inside the image.
type Track struct {
	Index  int
	Offset int // Image offset of the track header.
	Tempo  int // Starting tempo (timer B value).

	Channels [NumChannels]*Channel
}

// A single channel of a track.
type Channel struct {
	ID    int
	Name  string
	Sound SoundType
	Start int // Image offset of the first opcode.
	Loop  int // Image offset the driver loops back to. Doesn't have to be inside the image.

	image *Image
	opts  Options
}

// Track reads the header of the track with the given index.
func (im *Image) Track(index int, opts Options) (*Track, error) {
	if index < 0 {
		return nil, fmt.Errorf("invalid track index %d", index)
	}
	header := im.TableAddr + TrackStride*index - im.BaseAddr
	tempo, err := im.Byte(header)
	if err != nil {
		return nil, fmt.Errorf("error reading header of track %d: %w", index, err)
	}

	t := &Track{Index: index, Offset: header, Tempo: int(tempo)}
	for ch := range NumChannels {
		record := header + 1 + ch*4
		start, err := im.Pointer(record)
		if err != nil {
			return nil, fmt.Errorf("error reading channel %s of track %d: %w", channelNames[ch], index, err)
		}
		loop, err := im.Pointer(record + 2)
		if err != nil {
			return nil, fmt.Errorf("error reading channel %s of track %d: %w", channelNames[ch], index, err)
		}

		sound := SoundFM
		if ch >= 3 {
			sound = SoundSSG
		}
		t.Channels[ch] = &Channel{
			ID:    ch,
			Name:  channelNames[ch],
			Sound: sound,
			Start: start,
			Loop:  loop,
			image: im,
			opts:  opts,
		}
	}
	return t, nil
}

// Options returns the decoding options the channel was read with.
func (ch *Channel) Options() Options {
	return ch.opts
}

// Stream returns a new event stream over the channel for the given pass.
func (ch *Channel) Stream(pass Pass) *Stream {
	return &Stream{ch: ch, pass: pass, pos: ch.Start}
}

// Events decodes the whole channel and returns its events, End included.
func (ch *Channel) Events(pass Pass) ([]Event, error) {
	var events []Event
	s := ch.Stream(pass)
	for {
		ev, err := s.Next()
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
		if ev.Kind == EventEnd {
			return events, nil
		}
	}
}
