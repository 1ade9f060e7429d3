package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/relgraph/relgraph/schema"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitConfig  = 2
	ExitSchema  = 3
	ExitDB      = 4
)

// ExitError an error carrying the process exit code
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ConnectError classify an error returned by Connect
func ConnectError(err error) *ExitError {
	switch {
	case errors.Is(err, ErrMissingSetting), errors.Is(err, ErrUnknownDriver), errors.Is(err, ErrUnknownLogger), errors.Is(err, fs.ErrNotExist):
		return &ExitError{Code: ExitConfig, Message: "configuration", Err: err}
	case errors.Is(err, schema.ErrInvalidSchema):
		return &ExitError{Code: ExitSchema, Message: "loading schema", Err: err}
	}
	return &ExitError{Code: ExitDB, Message: "opening database", Err: err}
}

// ExitCode print err to w and return the code the process should exit with
func ExitCode(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(w, "Error:", err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitGeneral
}
