// Package apperr defines the error taxonomy for the whole tool. Every
// failure that reaches the command boundary is one of these kinds, and
// each kind maps to a fixed process exit code.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Exit codes, matched by ExitCode.
const (
	CodeOK             = 0
	CodeInternal       = 1
	CodeInvalidOption  = 2
	CodeUnrecognized   = 3
	CodeMissingCommand = 4
	CodeFailure        = 255
)

// ErrAborted signals that the user cancelled interactively. It is benign:
// the process exits 0 without printing an error.
var ErrAborted = errors.New("aborted by user")

// InvalidOptionError reports an option whose value cannot be used.
type InvalidOptionError struct {
	Option string
	Value  string
	Reason string
}

func (e *InvalidOptionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid value %q for option --%s: %s", e.Value, e.Option, e.Reason)
	}
	return fmt.Sprintf("invalid value %q for option --%s", e.Value, e.Option)
}

// InvalidOption builds an InvalidOptionError.
func InvalidOption(option, value, reason string) error {
	return &InvalidOptionError{Option: option, Value: value, Reason: reason}
}

// UnrecognizedOptionsError reports option keys that no stage consumed.
type UnrecognizedOptionsError struct {
	Keys []string
}

func (e *UnrecognizedOptionsError) Error() string {
	keys := append([]string(nil), e.Keys...)
	sort.Strings(keys)
	return fmt.Sprintf("unrecognized options: --%s", strings.Join(keys, ", --"))
}

// Unrecognized builds an UnrecognizedOptionsError.
func Unrecognized(keys []string) error {
	return &UnrecognizedOptionsError{Keys: keys}
}

// MissingCommandError reports an external executable that could not be
// found on the PATH, with remediation instructions for the platform.
type MissingCommandError struct {
	Command string
	Remedy  string
}

func (e *MissingCommandError) Error() string {
	msg := fmt.Sprintf("required command %q was not found", e.Command)
	if e.Remedy != "" {
		msg += "\n" + e.Remedy
	}
	return msg
}

// MissingCommand builds a MissingCommandError.
func MissingCommand(command, remedy string) error {
	return &MissingCommandError{Command: command, Remedy: remedy}
}

// FailureError wraps any external process failure, I/O error or other
// runtime fault. Output carries the failing process's combined output
// when it was captured.
type FailureError struct {
	Msg    string
	Output string
	Err    error
}

func (e *FailureError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *FailureError) Unwrap() error { return e.Err }

// Failf builds a FailureError from a format string.
func Failf(format string, args ...interface{}) error {
	return &FailureError{Msg: fmt.Sprintf(format, args...)}
}

// WrapProcess wraps a subprocess error together with its captured output.
func WrapProcess(msg string, err error, output string) error {
	return &FailureError{Msg: msg, Err: err, Output: output}
}

// ExitCode maps an error to the process exit code it should produce.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, ErrAborted) {
		return CodeOK
	}
	var (
		invalid *InvalidOptionError
		unrec   *UnrecognizedOptionsError
		missing *MissingCommandError
		failure *FailureError
	)
	switch {
	case errors.As(err, &invalid):
		return CodeInvalidOption
	case errors.As(err, &unrec):
		return CodeUnrecognized
	case errors.As(err, &missing):
		return CodeMissingCommand
	case errors.As(err, &failure):
		return CodeFailure
	}
	return CodeInternal
}
