package ys1

import (
	"fmt"
	"io"
)

// MaxImageSize is the size of the Z80 address space the driver image is loaded into.
// Anything past this in the input file is ignored.
const MaxImageSize = 0x10000

// Base address remaps. The driver of each title is linked at a fixed location
// which can't be recovered from the pointer table alone, so these are hard-coded.
const (
	baseAddrMask = 0xf000

	RawBaseAddr4000 = 0x4000 // Masked table address of images linked at $4D00.
	BaseAddr4D00    = 0x4d00
	RawBaseAddr6000 = 0x6000
	BaseAddr6000    = 0x6000
)

var baseAddrRemap = map[int]int{
	RawBaseAddr4000: BaseAddr4D00,
	RawBaseAddr6000: BaseAddr6000,
}

// Image is a read-only copy of a sound driver data file.
type Image struct {
	data []byte

	BaseAddr  int // Load address of the first byte of data.
	TableAddr int // Address of the track pointer table (the first stored word).
}

// LoadImage reads a driver data file from r.
func LoadImage(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize))
	if err != nil {
		return nil, fmt.Errorf("error reading image: %w", err)
	}
	return NewImage(data)
}

// NewImage creates an Image from raw bytes. The slice is copied, and truncated to MaxImageSize.
func NewImage(data []byte) (*Image, error) {
	if len(data) > MaxImageSize {
		data = data[:MaxImageSize]
	}
	im := &Image{data: append([]byte(nil), data...)}

	tableAddr, err := im.Word(0)
	if err != nil {
		return nil, fmt.Errorf("image too short for a pointer table: %w", err)
	}
	im.TableAddr = tableAddr
	im.BaseAddr = tableAddr & baseAddrMask
	if remapped, ok := baseAddrRemap[im.BaseAddr]; ok {
		im.BaseAddr = remapped
	}
	return im, nil
}

// Len returns the number of bytes in the image.
func (im *Image) Len() int {
	return len(im.data)
}

// Byte returns the byte at offset.
func (im *Image) Byte(offset int) (byte, error) {
	if offset < 0 || offset >= len(im.data) {
		return 0, &DecodeError{Channel: -1, Offset: offset, Err: ErrOutOfRange}
	}
	return im.data[offset], nil
}

// Bytes returns a copy of the n bytes starting at offset.
func (im *Image) Bytes(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > len(im.data) {
		return nil, &DecodeError{Channel: -1, Offset: offset, Err: ErrOutOfRange}
	}
	return append([]byte(nil), im.data[offset:offset+n]...), nil
}

// Word returns the little-endian 16-bit word at offset.
func (im *Image) Word(offset int) (int, error) {
	b, err := im.Bytes(offset, 2)
	if err != nil {
		return 0, err
	}
	return int(b[0]) | int(b[1])<<8, nil
}

// WordBE returns the big-endian 16-bit word at offset.
// Only the repeat and detune opcodes store words this way.
func (im *Image) WordBE(offset int) (int, error) {
	b, err := im.Bytes(offset, 2)
	if err != nil {
		return 0, err
	}
	return int(b[0])<<8 | int(b[1]), nil
}

// Pointer reads the little-endian address at offset and converts it to an image offset.
// The result may be negative or past the end; it is only checked when dereferenced.
func (im *Image) Pointer(offset int) (int, error) {
	addr, err := im.Word(offset)
	if err != nil {
		return 0, err
	}
	return addr - im.BaseAddr, nil
}
