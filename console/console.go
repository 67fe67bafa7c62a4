// Package console feeds host keyboard input to a processor.
package console

import (
	"bufio"
	"errors"
	"io"
	"iter"
)

// KeySink receives key events from the host.
type KeySink interface {
	SetKeyPressed(key int)
	SetCharPressed(char rune)
}

// Console reads runes from Input and reports each as a key press.
type Console struct {
	Input     io.Reader
	Sink      KeySink
	LastInput rune // Last rune read.
	ReadCount int  // Runes read so far.

	reader *bufio.Reader
}

// Receive iterates the runes of Input until it is exhausted or fails.
func (con *Console) Receive() iter.Seq[rune] {
	return func(yield func(r rune) bool) {
		if con.reader == nil {
			con.reader = bufio.NewReader(con.Input)
		}
		for {
			r, _, err := con.reader.ReadRune()
			if err != nil {
				return
			}
			con.LastInput = r
			con.ReadCount++
			if !yield(r) {
				return
			}
		}
	}
}

// Feed reports every rune of Input to Sink. The key code of a rune is its
// code point.
func (con *Console) Feed() (err error) {
	if con.Sink == nil {
		err = errors.New(f("console has no key sink"))
		return
	}

	for r := range con.Receive() {
		con.Sink.SetCharPressed(r)
		con.Sink.SetKeyPressed(int(r))
	}

	return
}
