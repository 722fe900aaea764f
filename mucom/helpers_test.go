package mucom

import (
	"bytes"
	"io"
	"log"
	"regexp"
	"strings"
	"testing"

	"github.com/QEStudios/ys12muc/parser/ys1"
)

// Images built here are linked at $6000, with the track table at $0100
// and $100 bytes per channel from $0200.
const (
	testBaseAddr    = 0x6000
	testTableOffset = 0x100
	testStreamStart = 0x200
	testStreamSize  = 0x100
)

var quiet = log.New(io.Discard, "", 0)

func testChannelStart(ch int) int {
	return testStreamStart + testStreamSize*ch
}

func putWord(data []byte, offset, value int) {
	data[offset] = byte(value)
	data[offset+1] = byte(value >> 8)
}

// buildImage lays out a single track. loops holds image offsets, 0 meaning no loop point.
func buildImage(t *testing.T, tempo byte, streams [ys1.NumChannels][]byte, loops [ys1.NumChannels]int) []byte {
	t.Helper()
	data := make([]byte, testStreamStart+testStreamSize*ys1.NumChannels)
	putWord(data, 0, testBaseAddr+testTableOffset)
	putWord(data, 6, testBaseAddr+5)

	data[testTableOffset] = tempo
	for ch, stream := range streams {
		if len(stream) > testStreamSize {
			t.Fatalf("stream of channel %d too long", ch)
		}
		record := testTableOffset + 1 + ch*4
		putWord(data, record, testBaseAddr+testChannelStart(ch))
		if loops[ch] != 0 {
			putWord(data, record+2, testBaseAddr+loops[ch])
		}
		copy(data[testChannelStart(ch):], stream)
	}
	return data
}

func testTrack(t *testing.T, tempo byte, streams [ys1.NumChannels][]byte, loops [ys1.NumChannels]int, opts ys1.Options) *ys1.Track {
	t.Helper()
	im, err := ys1.NewImage(buildImage(t, tempo, streams, loops))
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	track, err := im.Track(0, opts)
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	return track
}

// channelMML builds a track with stream on channel ch and returns the MML block the channel writes.
// loop is an offset relative to the channel start, or -1.
func channelMML(t *testing.T, ch int, stream []byte, loop int, model ys1.ClockModel, opts Options) string {
	t.Helper()
	var streams [ys1.NumChannels][]byte
	var loops [ys1.NumChannels]int
	streams[ch] = stream
	if loop >= 0 {
		loops[ch] = testChannelStart(ch) + loop
	}
	track := testTrack(t, 200, streams, loops, ys1.Options{})

	opts.Logger = quiet
	var b bytes.Buffer
	if err := WriteChannel(&b, track.Channels[ch], model, track.Tempo, opts); err != nil {
		t.Fatalf("WriteChannel failed: %v", err)
	}
	return b.String()
}

var headerPattern = regexp.MustCompile(`^C\d+l\d+`)

// body strips the tempo line, channel prefixes and clock header from a channel block, leaving the tokens.
func body(block, name string) string {
	if !strings.HasPrefix(block, "\n") {
		// Channel A starts with the tempo line.
		block = block[strings.Index(block, "\n"):]
	}
	var b strings.Builder
	for _, line := range strings.Split(block, "\n") {
		b.WriteString(strings.TrimPrefix(line, name+" "))
	}
	return headerPattern.ReplaceAllString(b.String(), "")
}
