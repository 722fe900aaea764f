package ys1

import "fmt"

const (
	instrumentTableOffset = 5 // The instrument table follows the first few header bytes.
	instrumentEntrySize   = 3 // 1 byte number, 2 byte pointer.

	// InstrumentSize is the number of FM parameter bytes in each instrument.
	InstrumentSize = 25
)

// An FM instrument (voice) definition.
type Instrument struct {
	Number int // Number the tracks select the instrument with.
	Offset int // Image offset of the parameters.

	// Register values: DT/ML, TL, KS/AR, DR, SR, SL/RR for the 4 operators each, then FB/AL.
	Params [InstrumentSize]byte
}

// Instruments reads the instrument table.
// The table has no length field; it ends where the first instrument's parameters begin.
func (im *Image) Instruments() ([]Instrument, error) {
	end, err := im.Pointer(instrumentTableOffset + 1)
	if err != nil {
		return nil, fmt.Errorf("error reading instrument table: %w", err)
	}
	if end < instrumentTableOffset {
		return nil, nil
	}

	n := (end - instrumentTableOffset) / instrumentEntrySize
	instruments := make([]Instrument, 0, n)
	for i := range n {
		entry := instrumentTableOffset + i*instrumentEntrySize
		number, err := im.Byte(entry)
		if err != nil {
			return nil, fmt.Errorf("error reading instrument entry %d: %w", i, err)
		}
		offset, err := im.Pointer(entry + 1)
		if err != nil {
			return nil, fmt.Errorf("error reading instrument entry %d: %w", i, err)
		}
		params, err := im.Bytes(offset, InstrumentSize)
		if err != nil {
			return nil, fmt.Errorf("error reading instrument %d: %w", number, err)
		}

		inst := Instrument{Number: int(number), Offset: offset}
		copy(inst.Params[:], params)
		instruments = append(instruments, inst)
	}
	return instruments, nil
}
