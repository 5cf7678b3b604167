// Package cmdutil holds error values shared between commands and the
// entry point.
package cmdutil

import (
	"errors"
	"fmt"
)

// SilentError signals a failure exit without any message. Used where
// printing would corrupt a wire protocol, such as the git credential
// helper.
var SilentError = errors.New("SilentError")

// FlagErrorf returns an error that the entry point follows with the
// command's usage string.
func FlagErrorf(format string, args ...interface{}) error {
	return &FlagError{err: fmt.Errorf(format, args...)}
}

// FlagError wraps an argument or flag validation failure.
type FlagError struct {
	err error
}

func (e *FlagError) Error() string { return e.err.Error() }
func (e *FlagError) Unwrap() error { return e.err }
