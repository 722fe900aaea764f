package ys1

import "testing"

// Layout of the images built by buildImage. The image is linked at $6000,
// the track table sits at $0100 and each channel gets $100 bytes from $0200.
const (
	testBaseAddr    = 0x6000
	testTableOffset = 0x100
	testStreamStart = 0x200
	testStreamSize  = 0x100
	testImageSize   = testStreamStart + testStreamSize*NumChannels
)

func testChannelStart(ch int) int {
	return testStreamStart + testStreamSize*ch
}

type testTrack struct {
	tempo   byte
	streams [NumChannels][]byte
	loops   [NumChannels]int // Image offsets, 0 for no loop point.
}

func putWord(data []byte, offset, value int) {
	data[offset] = byte(value)
	data[offset+1] = byte(value >> 8)
}

// buildImage returns the raw bytes of an image holding a single track and no instruments.
// Channels without a stream get a lone terminator.
func buildImage(t *testing.T, tr testTrack) []byte {
	t.Helper()
	data := make([]byte, testImageSize)
	putWord(data, 0, testBaseAddr+testTableOffset)
	putWord(data, 6, testBaseAddr+instrumentTableOffset) // Empty instrument table.

	data[testTableOffset] = tr.tempo
	for ch := range NumChannels {
		if len(tr.streams[ch]) > testStreamSize {
			t.Fatalf("stream of channel %d is %d bytes long, only %d fit", ch, len(tr.streams[ch]), testStreamSize)
		}
		record := testTableOffset + 1 + ch*4
		putWord(data, record, testBaseAddr+testChannelStart(ch))
		if tr.loops[ch] != 0 {
			putWord(data, record+2, testBaseAddr+tr.loops[ch])
		}
		copy(data[testChannelStart(ch):], tr.streams[ch])
	}
	return data
}

// testChannel builds an image with a single stream on channel ch and returns that channel.
func testChannel(t *testing.T, ch int, stream []byte, opts Options) *Channel {
	t.Helper()
	var tr testTrack
	tr.streams[ch] = stream
	im, err := NewImage(buildImage(t, tr))
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	track, err := im.Track(0, opts)
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	return track.Channels[ch]
}
