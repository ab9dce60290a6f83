package toolchain

import (
	"context"
	"regexp"
	"strings"
)

var (
	dumpVersionArgs = []string{"-dumpversion"}
	versionPattern  = regexp.MustCompile(`\d+(\.\d+)*`)
)

// DumpVersion asks a GCC compatible compiler for its version and returns it
// split into its dot separated components, so "4.3.2" becomes ["4", "3", "2"].
// The first version number found in the output is used; if there is none,
// DumpVersion returns a nil Value and no error. A program that cannot be run
// yields a *ValidationError.
func (r *Resolver) DumpVersion(ctx context.Context, role string, compiler Value) (Value, error) {
	output, err := r.run(ctx, compiler, dumpVersionArgs)
	if err != nil {
		return nil, &ValidationError{
			Role:   role,
			Path:   compiler.String(),
			Args:   dumpVersionArgs,
			Output: output,
			Err:    err,
		}
	}

	version := versionPattern.FindString(output)
	if version == "" {
		r.logger().Warn("checking for compiler version", "role", role, "version", "unknown", "output", FirstLine(output))
		return nil, nil
	}

	r.logger().Info("checking for compiler version", "role", role, "version", version)
	return Value(strings.Split(version, ".")), nil
}

// FirstLine returns the first line of a program's output without surrounding
// whitespace, which for most tools is the version banner.
func FirstLine(output string) string {
	output = strings.TrimSpace(output)
	if i := strings.IndexAny(output, "\r\n"); i != -1 {
		output = output[:i]
	}
	return strings.TrimSpace(output)
}
