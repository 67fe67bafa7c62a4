package memory

import (
	"errors"

	"github.com/ezrec/pemu/translate"
)

var f = translate.From

var (
	ErrUnsupportedWidth = errors.New(f("unsupported word width"))
	ErrOutOfBounds      = errors.New(f("address out of bounds"))
	ErrNotFound         = errors.New(f("name not found"))
	ErrDuplicateName    = errors.New(f("duplicate name"))
	ErrBitInvalid       = errors.New(f("bit index invalid"))
)

// ErrWidth reports the requested bit width that has no matching Word.
type ErrWidth int

func (err ErrWidth) Error() string {
	return f("no word holds %d bits", int(err))
}

func (err ErrWidth) Unwrap() error {
	return ErrUnsupportedWidth
}

// ErrAddress reports an access outside of [0, Size).
type ErrAddress struct {
	Address int
	Count   int
	Size    int
}

func (err *ErrAddress) Error() string {
	if err.Count > 1 {
		return f("address range %d+%d outside memory of %d words", err.Address, err.Count, err.Size)
	}
	return f("address %d outside memory of %d words", err.Address, err.Size)
}

func (err *ErrAddress) Unwrap() error {
	return ErrOutOfBounds
}

// ErrNameMissing reports a register or flag lookup miss.
type ErrNameMissing string

func (err ErrNameMissing) Error() string {
	return f("'%v' not found", string(err))
}

func (err ErrNameMissing) Unwrap() error {
	return ErrNotFound
}
