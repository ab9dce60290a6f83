/*
Package toolchaintest provides fake toolchain programs for tests.

The fakes are POSIX shell scripts, so tests using them should call
SkipUnlessPOSIX first.
*/
package toolchaintest

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// SkipUnlessPOSIX skips the test on hosts that cannot run shell scripts.
func SkipUnlessPOSIX(tb testing.TB) {
	tb.Helper()

	if runtime.GOOS == "windows" {
		tb.Skip("fake tools are shell scripts")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		tb.Skip("/bin/sh is not available")
	}
}

// WriteScript writes an executable shell script with the given body into dir
// and returns its path.
func WriteScript(tb testing.TB, dir, name, body string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		tb.Fatalf("toolchaintest: failed to write %s: %v", path, err)
	}

	return path
}

// WriteTool writes a program that prints output, whatever its arguments.
func WriteTool(tb testing.TB, dir, name, output string) string {
	tb.Helper()

	return WriteScript(tb, dir, name, "cat <<'EOF'\n"+output+"\nEOF")
}

// WriteCompiler writes a GCC look-alike: it prints banner when called with
// --version and version when called with -dumpversion.
func WriteCompiler(tb testing.TB, dir, name, banner, version string) string {
	tb.Helper()

	body := strings.Join([]string{
		`for arg in "$@"; do`,
		`  case "$arg" in`,
		`    --version) cat <<'EOF'`,
		banner,
		`EOF`,
		`      exit 0 ;;`,
		`    -dumpversion) echo '` + version + `'; exit 0 ;;`,
		`  esac`,
		`done`,
		`echo "` + name + `: no input files" >&2`,
		`exit 1`,
	}, "\n")

	return WriteScript(tb, dir, name, body)
}

// WriteFile writes a non executable file, which lookups must ignore.
func WriteFile(tb testing.TB, dir, name string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("not a program\n"), 0o644); err != nil {
		tb.Fatalf("toolchaintest: failed to write %s: %v", path, err)
	}

	return path
}

// GCCBanner returns a --version banner like the one printed by a cross GCC
// installed under the given name.
func GCCBanner(name, version string) string {
	return name + " (GCC) " + version + "\n" +
		"Copyright (C) 2008 Free Software Foundation, Inc.\n" +
		"This is free software; see the source for copying conditions."
}
