package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"
)

// DefaultTimeout bounds every program the Resolver runs.
const DefaultTimeout = 5 * time.Second

// waitDelay bounds how long a timed out program's children may keep its
// output open.
const waitDelay = 500 * time.Millisecond

// Tool is a resolved program.
type Tool struct {
	// Role the program was resolved for.
	Role string
	// Value recorded in the Env. The first token is the absolute path of the program.
	Value Value
	// Name is the candidate name that matched.
	Name string
}

// A Resolver finds toolchain programs, validates them and records them into an Env.
// The zero value is ready to use: it searches the process PATH for specs
// without directories, ignores environment overrides and uses DefaultTimeout.
type Resolver struct {
	// PathDirs are searched for specs that have no Dirs. Defaults to the
	// directories listed in the PATH environment variable.
	PathDirs []string
	// HonorEnv makes an environment variable named like the role (CC, AR...)
	// take precedence over the search. Its value is split into shell words;
	// the first one names the program, the rest are kept as leading arguments.
	// A bare program name is looked up in the spec's directories, then on PATH.
	HonorEnv bool
	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
	// Timeout bounds each program run. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Logger receives a line for every lookup. Defaults to a discarding logger.
	Logger *log.Logger
}

// NewResolver returns a Resolver that honors environment overrides.
func NewResolver(logger *log.Logger) *Resolver {
	return &Resolver{
		HonorEnv: true,
		Timeout:  DefaultTimeout,
		Logger:   logger,
	}
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}

func (r *Resolver) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}

func (r *Resolver) lookupEnv(key string) (string, bool) {
	if r.LookupEnv == nil {
		return os.LookupEnv(key)
	}
	return r.LookupEnv(key)
}

func (r *Resolver) searchDirs(spec ToolSpec) []string {
	if len(spec.Dirs) != 0 {
		return spec.Dirs
	}
	return r.pathDirs()
}

func (r *Resolver) pathDirs() []string {
	if r.PathDirs != nil {
		return r.PathDirs
	}
	path, _ := r.lookupEnv("PATH")
	return filepath.SplitList(path)
}

// Resolve finds the program described by spec, validates it and records it
// under its role and every alias. On failure the Env is not modified
// and the error is a *ToolNotFoundError or a *ValidationError.
func (r *Resolver) Resolve(ctx context.Context, env *Env, spec ToolSpec) (Value, error) {
	tool, err := r.ResolveTool(ctx, env, spec)
	if err != nil {
		return nil, err
	}
	return tool.Value, nil
}

// ResolveTool is like Resolve, but it also reports which candidate name matched.
func (r *Resolver) ResolveTool(ctx context.Context, env *Env, spec ToolSpec) (Tool, error) {
	tool, err := r.Find(spec)
	if err != nil {
		return Tool{}, err
	}

	if err := r.Check(ctx, spec, tool); err != nil {
		return Tool{}, err
	}

	updates := make(map[string]Value, len(spec.Aliases)+1)
	for _, key := range spec.Keys() {
		updates[key] = tool.Value
	}
	env.Update(updates)

	return tool, nil
}

// Find looks up the program described by spec without running it.
// Directories are searched one after the other; inside a directory the
// candidate names are tried in order. The first executable found wins.
func (r *Resolver) Find(spec ToolSpec) (Tool, error) {
	if err := spec.validate(); err != nil {
		return Tool{}, err
	}

	dirs := r.searchDirs(spec)
	logger := r.logger().With("role", spec.Role)

	if r.HonorEnv {
		if raw, ok := r.lookupEnv(spec.Role); ok && strings.TrimSpace(raw) != "" {
			tool, err := r.findOverride(spec, dirs, raw)
			if err != nil {
				logger.Error("checking for program", "override", raw, "err", err)
				return Tool{}, err
			}
			logger.Info("checking for program", "override", raw, "path", tool.Value)
			return tool, nil
		}
	}

	for _, dir := range dirs {
		for _, name := range spec.Names {
			path, ok := findInDir(dir, name)
			if !ok {
				continue
			}

			logger.Info("checking for program", "names", spec.Names, "path", path)
			return Tool{Role: spec.Role, Value: Value{path}, Name: name}, nil
		}
	}

	logger.Error("checking for program", "names", spec.Names, "dirs", dirs, "path", "not found")
	return Tool{}, &ToolNotFoundError{
		Role:  spec.Role,
		Names: append([]string(nil), spec.Names...),
		Dirs:  append([]string(nil), dirs...),
	}
}

func (r *Resolver) findOverride(spec ToolSpec, dirs []string, raw string) (Tool, error) {
	words, err := shell.Fields(raw, func(name string) string {
		v, _ := r.lookupEnv(name)
		return v
	})
	if err != nil {
		return Tool{}, fmt.Errorf("toolchain: %s: failed to parse %q: %w", spec.Role, raw, err)
	}
	if len(words) == 0 {
		return Tool{}, &ToolNotFoundError{Role: spec.Role, Names: []string{raw}, Dirs: dirs}
	}

	program := words[0]
	var path string
	if strings.ContainsAny(program, `/\`) {
		if abs, err := filepath.Abs(program); err == nil && isExecutable(abs) {
			path = abs
		}
	} else {
		// Wrappers such as ccache usually live on PATH, not in the toolchain directories.
		if len(spec.Dirs) != 0 {
			dirs = append(append([]string(nil), dirs...), r.pathDirs()...)
		}
		for _, dir := range dirs {
			if found, ok := findInDir(dir, program); ok {
				path = found
				break
			}
		}
	}
	if path == "" {
		return Tool{}, &ToolNotFoundError{Role: spec.Role, Names: []string{program}, Dirs: dirs}
	}

	// A wrapper such as "ccache arm-linux-gcc" is identified by the wrapped name.
	matched := spec.Names[0]
	for _, w := range words {
		if base := filepath.Base(w); contains(spec.Names, base) {
			matched = base
			break
		}
	}

	return Tool{Role: spec.Role, Value: append(Value{path}, words[1:]...), Name: matched}, nil
}

// Check runs the validator of spec, if any, on a found program.
func (r *Resolver) Check(ctx context.Context, spec ToolSpec, tool Tool) error {
	v := spec.Validator
	if v == nil {
		return nil
	}

	args := v.args()
	output, err := r.run(ctx, tool.Value, args)
	if err != nil {
		return &ValidationError{
			Role:   spec.Role,
			Path:   tool.Value.String(),
			Args:   args,
			Marker: v.marker(tool.Name),
			Output: output,
			Err:    err,
		}
	}

	if !v.Accepts(output, tool.Name) {
		return &ValidationError{
			Role:   spec.Role,
			Path:   tool.Value.String(),
			Args:   args,
			Marker: v.marker(tool.Name),
			Output: output,
		}
	}

	r.logger().Debug("program validated", "role", spec.Role, "marker", v.marker(tool.Name))
	return nil
}

// run executes the program with its leading arguments followed by args and
// returns its combined output.
func (r *Resolver) run(ctx context.Context, program Value, args []string) (string, error) {
	timeout := r.timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmdArgs := append(append([]string(nil), program[1:]...), args...)
	cmd := exec.CommandContext(ctx, program.Path(), cmdArgs...)
	cmd.WaitDelay = waitDelay
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return string(out), fmt.Errorf("timed out after %s", timeout)
		}
		return string(out), err
	}

	return string(out), nil
}

func findInDir(dir, name string) (string, bool) {
	if dir == "" {
		dir = "."
	}

	for _, file := range executableNames(name) {
		path, err := filepath.Abs(filepath.Join(dir, file))
		if err != nil {
			continue
		}
		if isExecutable(path) {
			return path, true
		}
	}

	return "", false
}

func executableNames(name string) []string {
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		return []string{name + ".exe", name}
	}
	return []string{name}
}

func isExecutable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return false
	}
	return runtime.GOOS == "windows" || fi.Mode().Perm()&0o111 != 0
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
