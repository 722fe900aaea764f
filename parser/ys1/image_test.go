package ys1

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewImageBaseAddr(t *testing.T) {
	tests := []struct {
		tableAddr int
		want      int
	}{
		{0x4123, BaseAddr4D00},
		{0x4d80, BaseAddr4D00},
		{0x6100, BaseAddr6000},
		{0x8100, 0x8000},
		{0x0010, 0x0000},
	}
	for _, tt := range tests {
		data := make([]byte, 16)
		putWord(data, 0, tt.tableAddr)
		im, err := NewImage(data)
		if err != nil {
			t.Fatalf("NewImage(%04X) failed: %v", tt.tableAddr, err)
		}
		if im.BaseAddr != tt.want {
			t.Errorf("table address $%04X: base = $%04X, want $%04X", tt.tableAddr, im.BaseAddr, tt.want)
		}
		if im.TableAddr != tt.tableAddr {
			t.Errorf("table address = $%04X, want $%04X", im.TableAddr, tt.tableAddr)
		}
	}
}

func TestNewImageTooShort(t *testing.T) {
	_, err := NewImage([]byte{0x00})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
}

func TestLoadImageTruncates(t *testing.T) {
	data := make([]byte, MaxImageSize+100)
	putWord(data, 0, 0x6100)
	im, err := LoadImage(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if im.Len() != MaxImageSize {
		t.Errorf("Len = %d, want %d", im.Len(), MaxImageSize)
	}
}

func TestImageReads(t *testing.T) {
	im, err := NewImage([]byte{0x00, 0x61, 0x12, 0x34})
	if err != nil {
		t.Fatal(err)
	}
	if w, _ := im.Word(2); w != 0x3412 {
		t.Errorf("Word = $%04X, want $3412", w)
	}
	if w, _ := im.WordBE(2); w != 0x1234 {
		t.Errorf("WordBE = $%04X, want $1234", w)
	}
	if p, _ := im.Pointer(0); p != 0x0100 {
		t.Errorf("Pointer = $%04X, want $0100", p)
	}

	for _, offset := range []int{-1, 3, 4, 100} {
		if _, err := im.Word(offset); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Word(%d) err = %v, want ErrOutOfRange", offset, err)
		}
	}
	if _, err := im.Byte(4); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Byte(4) err = %v, want ErrOutOfRange", err)
	}
	var de *DecodeError
	if _, err := im.Bytes(2, 3); !errors.As(err, &de) || de.Offset != 2 {
		t.Errorf("Bytes(2, 3) err = %v, want DecodeError at offset 2", err)
	}
}

func TestTrack(t *testing.T) {
	var tr testTrack
	tr.tempo = 200
	tr.loops[1] = testChannelStart(1) + 4
	im, err := NewImage(buildImage(t, tr))
	if err != nil {
		t.Fatal(err)
	}

	track, err := im.Track(0, Options{})
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if track.Tempo != 200 {
		t.Errorf("tempo = %d, want 200", track.Tempo)
	}
	if track.Offset != testTableOffset {
		t.Errorf("header offset = $%04X, want $%04X", track.Offset, testTableOffset)
	}

	for i, ch := range track.Channels {
		if ch.ID != i || ch.Name != channelNames[i] {
			t.Errorf("channel %d: ID %d name %q", i, ch.ID, ch.Name)
		}
		wantSound := SoundFM
		if i >= 3 {
			wantSound = SoundSSG
		}
		if ch.Sound != wantSound {
			t.Errorf("channel %d: sound = %v, want %v", i, ch.Sound, wantSound)
		}
		if ch.Start != testChannelStart(i) {
			t.Errorf("channel %d: start = $%04X, want $%04X", i, ch.Start, testChannelStart(i))
		}
	}
	if track.Channels[1].Loop != testChannelStart(1)+4 {
		t.Errorf("loop = $%04X, want $%04X", track.Channels[1].Loop, testChannelStart(1)+4)
	}
	if track.Channels[0].Loop >= 0 {
		t.Errorf("channel without a loop point has loop offset $%04X", track.Channels[0].Loop)
	}
}

func TestTrackStride(t *testing.T) {
	data := buildImage(t, testTrack{})
	data[testTableOffset+TrackStride] = 150
	im, err := NewImage(data)
	if err != nil {
		t.Fatal(err)
	}
	track, err := im.Track(1, Options{})
	if err != nil {
		t.Fatalf("Track(1) failed: %v", err)
	}
	if track.Offset != testTableOffset+TrackStride || track.Tempo != 150 {
		t.Errorf("track 1: offset $%04X tempo %d", track.Offset, track.Tempo)
	}

	if _, err := im.Track(1000, Options{}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Track(1000) err = %v, want ErrOutOfRange", err)
	}
	if _, err := im.Track(-1, Options{}); err == nil {
		t.Error("Track(-1) succeeded")
	}
}

func TestInstruments(t *testing.T) {
	data := buildImage(t, testTrack{})

	// Three entries end the table at offset 14, where the first instrument starts.
	const first = instrumentTableOffset + 3*instrumentEntrySize
	for i := range 3 {
		entry := instrumentTableOffset + i*instrumentEntrySize
		data[entry] = byte(10 + i)
		putWord(data, entry+1, testBaseAddr+first+i*InstrumentSize)
		for j := range InstrumentSize {
			data[first+i*InstrumentSize+j] = byte(i*InstrumentSize + j)
		}
	}
	im, err := NewImage(data)
	if err != nil {
		t.Fatal(err)
	}

	instruments, err := im.Instruments()
	if err != nil {
		t.Fatalf("Instruments failed: %v", err)
	}
	if len(instruments) != 3 {
		t.Fatalf("got %d instruments, want 3", len(instruments))
	}
	for i, inst := range instruments {
		if inst.Number != 10+i {
			t.Errorf("instrument %d: number = %d, want %d", i, inst.Number, 10+i)
		}
		if inst.Offset != first+i*InstrumentSize {
			t.Errorf("instrument %d: offset = %d, want %d", i, inst.Offset, first+i*InstrumentSize)
		}
		if inst.Params[0] != byte(i*InstrumentSize) || inst.Params[24] != byte(i*InstrumentSize+24) {
			t.Errorf("instrument %d: params = %v", i, inst.Params)
		}
	}
}

func TestInstrumentsEmpty(t *testing.T) {
	im, err := NewImage(buildImage(t, testTrack{}))
	if err != nil {
		t.Fatal(err)
	}
	instruments, err := im.Instruments()
	if err != nil || len(instruments) != 0 {
		t.Errorf("Instruments = %v, %v; want none", instruments, err)
	}
}

func TestInstrumentsOutOfRange(t *testing.T) {
	data := buildImage(t, testTrack{})
	// The first entry points 10 bytes before the end, too few for its parameters.
	putWord(data, 6, testBaseAddr+len(data)-10)
	im, err := NewImage(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := im.Instruments(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
}
