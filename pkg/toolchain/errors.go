package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolNotFound is matched by every *ToolNotFoundError.
	ErrToolNotFound = errors.New("tool not found")
	// ErrValidationFailed is matched by every *ValidationError.
	ErrValidationFailed = errors.New("tool validation failed")
)

// ToolNotFoundError is returned when none of the candidate names of a role
// is an executable in any of the searched directories.
type ToolNotFoundError struct {
	// Role is the Env key that was being resolved.
	Role string
	// Names are the candidate names tried, in order.
	Names []string
	// Dirs are the directories searched, in order.
	Dirs []string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("toolchain: %s: none of [%s] was found in [%s]",
		e.Role, strings.Join(e.Names, ", "), strings.Join(e.Dirs, ", "))
}

func (e *ToolNotFoundError) Is(target error) bool {
	return target == ErrToolNotFound
}

// ValidationError is returned when a found program fails its version probe.
// A non-nil Err means the probe could not be executed at all; otherwise
// the program ran but its output lacked Marker.
type ValidationError struct {
	Role   string
	Path   string
	Args   []string
	Marker string
	// Output is the combined output of the probe, if any was captured.
	Output string
	Err    error
}

func (e *ValidationError) Error() string {
	cmdline := strings.TrimSpace(e.Path + " " + strings.Join(e.Args, " "))
	if e.Err != nil {
		return fmt.Sprintf("toolchain: %s: %q could not be executed: %v", e.Role, cmdline, e.Err)
	}
	return fmt.Sprintf("toolchain: %s: %s is not the expected program, %q not found in the output of %q",
		e.Role, e.Path, e.Marker, cmdline)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
