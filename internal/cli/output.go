package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // verification mismatch
	ExitCommandError = 2 // unreadable files, invalid input, bad flags
)

// ExitError carries the process exit code for a failed command.
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

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// response is the JSON envelope for --format json.
type response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

// writeJSON emits data in the standard envelope.
func writeJSON(w io.Writer, status string, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(response{Status: status, Data: data})
}

// writeResultText renders a result for humans.
func writeResultText(w io.Writer, r *adjudicator.Result) {
	fmt.Fprintf(w, "Session:           %s\n", r.SessionID)
	fmt.Fprintf(w, "Algorithm version: %s\n", r.AlgorithmVersion)
	if r.PublicSeed != nil {
		fmt.Fprintf(w, "Public seed:       %s\n", *r.PublicSeed)
	}
	fmt.Fprintf(w, "Winner:            %s (ticket %d, index %d)\n", r.WinnerParticipantID, r.WinnerTicketNumber, r.WinnerIndex)
	fmt.Fprintf(w, "Result hash:       %s\n", r.ResultHash)
	fmt.Fprintln(w, "Trace:")
	fmt.Fprint(w, adjudicator.FormatTrace(r.Trace))
}

// readJSONFile decodes path, or stdin when path is "-".
func readJSONFile(path string, stdin io.Reader, v interface{}) error {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
