package instruction

import (
	"errors"

	"github.com/ezrec/pemu/translate"
)

var f = translate.From

var (
	ErrStackFull        = errors.New(f("stack full"))
	ErrStackEmpty       = errors.New(f("stack empty"))
	ErrArguments        = errors.New(f("argument count mismatch"))
	ErrKeywordDuplicate = errors.New(f("keyword duplicated"))
	ErrKeywordEmpty     = errors.New(f("keyword empty"))
)

// ErrKeyword reports the offending keyword of an instruction table.
type ErrKeyword struct {
	Keyword string
	Err     error
}

func (err *ErrKeyword) Error() string {
	return f("instruction '%v' %v", err.Keyword, err.Err)
}

func (err *ErrKeyword) Unwrap() error {
	return err.Err
}
