package toolchain

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding used by Env.Encode.
type Format string

const (
	// FormatText is the line based "KEY = value" format of build system caches.
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}

// ParseFormat returns the format with the given name, ignoring case.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}

	return "", fmt.Errorf("toolchain: unknown format %q", name)
}

// export converts the env to plain values: one token values become strings,
// everything else a list of strings.
func (e *Env) export() map[string]interface{} {
	out := make(map[string]interface{}, len(e.values))
	for k, v := range e.values {
		if len(v) == 1 {
			out[k] = v[0]
		} else {
			out[k] = []string(v.clone())
		}
	}
	return out
}

// Encode writes the env to w in the given format. Keys are always written in
// lexical order.
func (e *Env) Encode(w io.Writer, format Format) error {
	var err error

	switch format {
	case FormatText, "":
		err = e.encodeText(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(e.export())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(e.export()); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(e.export())
	default:
		return fmt.Errorf("toolchain: unknown format %q", format)
	}

	if err != nil {
		return fmt.Errorf("toolchain: failed to encode env as %s: %w", format, err)
	}

	return nil
}

func (e *Env) encodeText(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, k := range e.Keys() {
		v := e.values[k]
		if len(v) == 1 {
			fmt.Fprintf(bw, "%s = %s\n", k, quote(v[0]))
			continue
		}

		quoted := make([]string, len(v))
		for i, token := range v {
			quoted[i] = quote(token)
		}
		fmt.Fprintf(bw, "%s = [%s]\n", k, strings.Join(quoted, ", "))
	}

	return bw.Flush()
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
