/*
Package toolchain locates the programs of a C/C++ toolchain on the host,
validates them by inspecting their self-reported version and records them
into an Env, the configuration map a build system reads after the
configuration phase.

Lookups are described by ToolSpec values and performed by a Resolver.
Probes group the lookups of a toolchain family and are run in order by Detect.
*/
package toolchain

import (
	"os"
	"strings"
)

// Role keys written into an Env by the toolchain probes.
const (
	KeyCC          = "CC"
	KeyLinkCC      = "LINK_CC"
	KeyCCName      = "CC_NAME"
	KeyCCVersion   = "CC_VERSION"
	KeyAR          = "AR"
	KeyRanlib      = "RANLIB"
	KeyCXX         = "CXX"
	KeyLinkCXX     = "LINK_CXX"
	KeyCompilerCXX = "COMPILER_CXX"
	KeyCPP         = "CPP"
	KeyLinkCPP     = "LINK_CPP"
	KeyCXXName     = "CXX_NAME"
)

func isValidImplementationName(name string) bool {
	return name != "" && !strings.ContainsAny(name, string([]rune{os.PathSeparator, '/', os.PathListSeparator}))
}
