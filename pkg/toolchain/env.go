package toolchain

import (
	"sort"
	"strings"
)

// Value is the content of an Env entry: an ordered list of tokens.
// A plain path is a single token; a command that needs leading
// arguments (a wrapper such as ccache, for example) has several.
type Value []string

// String joins the tokens with spaces.
func (v Value) String() string {
	return strings.Join(v, " ")
}

// Path returns the first token, which for programs is the executable path.
func (v Value) Path() string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func (v Value) clone() Value {
	if v == nil {
		return nil
	}
	return append(Value(nil), v...)
}

func (v Value) equal(o Value) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// Env is the configuration map filled during the configuration phase.
// Keys are role names such as CC or AR.
//
// An Env is not safe for concurrent use. A configuration run owns its Env
// for the whole duration of the run.
type Env struct {
	values map[string]Value
}

// NewEnv returns an empty Env.
func NewEnv() *Env {
	return &Env{values: map[string]Value{}}
}

// Get returns the value stored under key, or nil.
func (e *Env) Get(key string) Value {
	return e.values[key].clone()
}

// GetString returns the value stored under key joined with spaces.
func (e *Env) GetString(key string) string {
	return e.values[key].String()
}

// Has reports whether the key is set.
func (e *Env) Has(key string) bool {
	_, ok := e.values[key]
	return ok
}

// Set stores the value under key, replacing any previous one.
func (e *Env) Set(key string, value Value) {
	if e.values == nil {
		e.values = map[string]Value{}
	}
	e.values[key] = value.clone()
}

// SetString stores a single token value.
func (e *Env) SetString(key, value string) {
	e.Set(key, Value{value})
}

// Delete removes the key.
func (e *Env) Delete(key string) {
	delete(e.values, key)
}

// Update stores all the given values at once.
func (e *Env) Update(values map[string]Value) {
	for k, v := range values {
		e.Set(k, v)
	}
}

// Merge stores every value of o, replacing the ones already set.
func (e *Env) Merge(o *Env) {
	e.Update(o.values)
}

// Keys returns the set keys in lexical order.
func (e *Env) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of set keys.
func (e *Env) Len() int {
	return len(e.values)
}

// Clone returns a deep copy of the Env.
func (e *Env) Clone() *Env {
	c := NewEnv()
	for k, v := range e.values {
		c.values[k] = v.clone()
	}
	return c
}

// Equal reports whether both environments hold the same keys and values.
func (e *Env) Equal(o *Env) bool {
	if e.Len() != o.Len() {
		return false
	}
	for k, v := range e.values {
		ov, ok := o.values[k]
		if !ok || !v.equal(ov) {
			return false
		}
	}
	return true
}

// replaceWith makes e hold exactly the content of o.
func (e *Env) replaceWith(o *Env) {
	e.values = o.Clone().values
}
