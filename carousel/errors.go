package carousel

import (
	"errors"
	"strconv"
)

// ErrClosed is returned by a Player once it has been torn down.
var ErrClosed = errors.New("carousel: player closed")

type ErrIndexOutOfRange struct{ Index, Total int }

func (e ErrIndexOutOfRange) Error() string {
	return "carousel: index " + strconv.Itoa(e.Index) + " out of range [0," + strconv.Itoa(e.Total) + ")"
}

type ErrInvalidConfig struct{ Field, Reason string }

func (e ErrInvalidConfig) Error() string {
	return "carousel: invalid " + e.Field + ": " + e.Reason
}
