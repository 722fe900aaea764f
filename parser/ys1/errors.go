package ys1

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is wrapped by a DecodeError when a read falls outside the image.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrParserUsed is returned when Parse is called twice on the same Parser.
	ErrParserUsed = errors.New("parser already used")
)

// DecodeError reports a fault that makes it impossible to keep decoding.
type DecodeError struct {
	Channel int // -1 when the fault isn't inside a channel stream.
	Offset  int
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Channel < 0 {
		return fmt.Sprintf("offset $%04X: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("channel %s, offset $%04X: %v", channelNames[e.Channel], e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeWarning is raised for input that decodes, but probably not into what the driver plays.
// Unless warnings are ignored it is returned as an error and ends the run.
type DecodeWarning struct {
	Channel int
	Offset  int
	Message string
}

func (w DecodeWarning) String() string {
	return fmt.Sprintf("channel %s, offset $%04X: %s", channelNames[w.Channel], w.Offset, w.Message)
}

func (w *DecodeWarning) Error() string {
	return w.String()
}
