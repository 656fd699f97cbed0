package playlist

import "github.com/cockroachdb/errors"

// Errors
var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidState    = errors.New("invalid state")
)

func indexOutOfRange(index, length int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "index %d (length %d)", index, length)
}

func rangeOutOfRange(start, end, length int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "range [%d, %d) (length %d)", start, end, length)
}
