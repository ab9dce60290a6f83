package toolchain

import (
	"fmt"
	"strings"
)

// DefaultVersionArgs are the arguments a Validator passes to the program
// when it has no Args of its own.
var DefaultVersionArgs = []string{"--version"}

// ToolSpec describes the lookup of one toolchain program.
type ToolSpec struct {
	// Role is the Env key the program is recorded under.
	Role string
	// Aliases are additional Env keys that receive the same value.
	Aliases []string
	// Names are the candidate executable names, in priority order.
	Names []string
	// Dirs are the directories searched, in order. When empty, the
	// directories of the process PATH are searched instead.
	Dirs []string
	// Validator, if not nil, is run on the found program before it is recorded.
	Validator *Validator
}

// Keys returns the role followed by its aliases.
func (s ToolSpec) Keys() []string {
	return append([]string{s.Role}, s.Aliases...)
}

func (s ToolSpec) validate() error {
	if s.Role == "" {
		return fmt.Errorf("toolchain: tool spec has no role")
	}
	if len(s.Names) == 0 {
		return fmt.Errorf("toolchain: tool spec for %s has no candidate names", s.Role)
	}
	for _, name := range s.Names {
		if !isValidImplementationName(name) {
			return fmt.Errorf("toolchain: candidate name %q for %s is not a base name", name, s.Role)
		}
	}
	return nil
}

// Validator checks the identity of a program by looking for Marker in the
// output it prints when run with Args.
type Validator struct {
	// Marker is the substring expected anywhere in the output. If empty,
	// the candidate name that matched during the lookup is expected instead.
	Marker string
	// Args default to DefaultVersionArgs.
	Args []string
}

func (v *Validator) args() []string {
	if len(v.Args) == 0 {
		return DefaultVersionArgs
	}
	return v.Args
}

func (v *Validator) marker(matched string) string {
	if v.Marker == "" {
		return matched
	}
	return v.Marker
}

// Accepts reports whether the probe output identifies the expected program.
func (v *Validator) Accepts(output, matched string) bool {
	return strings.Contains(output, v.marker(matched))
}
