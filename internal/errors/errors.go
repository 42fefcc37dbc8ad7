// Package errors turns command failures into the message and exit status
// the user sees.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/unidash/internal/dashboard"
	"github.com/julianstephens/unidash/internal/logger"
)

// Exit codes.
const (
	ExitFailure     = 1
	ExitInvalid     = 2
	ExitNotFound    = 3
	ExitInterrupted = 130
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	case stderrors.Is(err, dashboard.ErrTaskNotFound):
		return ExitNotFound
	case stderrors.Is(err, dashboard.ErrInvalidTask), stderrors.Is(err, dashboard.ErrInvalidInput):
		return ExitInvalid
	default:
		return ExitFailure
	}
}

// Hint suggests what to do next, or returns "".
func Hint(err error) string {
	switch {
	case stderrors.Is(err, dashboard.ErrTaskNotFound):
		return "run 'unidash task list' to see task IDs"
	case stderrors.Is(err, dashboard.ErrInvalidTask):
		return "tasks need a title and a due date in YYYY-MM-DD form"
	case stderrors.Is(err, dashboard.ErrNothingStaged):
		return "copy some text while 'unidash clip watch' or 'unidash daemon' is running"
	}
	return ""
}

// Format renders err with an "Error: " prefix and, when one applies, a hint line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Fatal logs err, prints it and exits with ExitCode(err). A nil err is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	code := ExitCode(err)
	if code == ExitInterrupted {
		logger.Info("Command interrupted")
	} else {
		logger.Error("Command execution failed", "error", err, "exit", code)
	}
	fmt.Fprintln(stderr, Format(err))
	exit(code)
}

func Fatalf(format string, args ...any) {
	Fatal(fmt.Errorf(format, args...))
}
