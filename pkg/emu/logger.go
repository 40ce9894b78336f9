package emu

import (
	"fmt"
	"io"
)

// Logger receives traces from the stubbed instructions (INT, IN, OUT,
// WAIT, LOCK, ESC) so their simulated effect is observable.
type Logger interface {
	Log(msg string)
}

type nopLogger struct{}

func (nopLogger) Log(string) {}

// WriterLogger logs each message as one line to an io.Writer.
type WriterLogger struct {
	W io.Writer
}

func (l WriterLogger) Log(msg string) {
	fmt.Fprintln(l.W, msg)
}
