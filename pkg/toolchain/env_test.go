package toolchain_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmaxmax/crossprobe/pkg/toolchain"
)

func TestEnv(t *testing.T) {
	env := toolchain.NewEnv()
	require.False(t, env.Has("CC"))
	require.Nil(t, env.Get("CC"))
	require.Equal(t, "", env.GetString("CC"))

	cc := toolchain.Value{"/usr/arm/bin/arm-linux-gcc"}
	env.Set("CC", cc)
	env.SetString("CC_NAME", "gcc")
	env.Update(map[string]toolchain.Value{
		"CC_VERSION": {"4", "3", "2"},
		"LINK_CC":    cc,
	})

	cc[0] = "mutated"
	require.Equal(t, "/usr/arm/bin/arm-linux-gcc", env.GetString("CC"), "Env must not alias the caller's slice")

	got := env.Get("CC_VERSION")
	got[0] = "9"
	require.Equal(t, "4 3 2", env.GetString("CC_VERSION"), "Env must not hand out its own slices")

	require.Equal(t, []string{"CC", "CC_NAME", "CC_VERSION", "LINK_CC"}, env.Keys())
	require.Equal(t, 4, env.Len())

	clone := env.Clone()
	require.True(t, clone.Equal(env))

	clone.Delete("LINK_CC")
	require.False(t, clone.Equal(env))
	require.True(t, env.Has("LINK_CC"))

	clone.SetString("LINK_CC", "/usr/bin/gcc")
	require.False(t, clone.Equal(env))

	merged := toolchain.NewEnv()
	merged.SetString("CC", "/usr/bin/gcc")
	merged.SetString("CFLAGS", "-O2")
	merged.Merge(env)
	require.Equal(t, []string{"CC", "CC_NAME", "CC_VERSION", "CFLAGS", "LINK_CC"}, merged.Keys())
	require.Equal(t, "/usr/arm/bin/arm-linux-gcc", merged.GetString("CC"))
}

func TestValue(t *testing.T) {
	require.Equal(t, "", toolchain.Value(nil).Path())
	require.Equal(t, "/usr/bin/ccache", toolchain.Value{"/usr/bin/ccache", "arm-linux-gcc"}.Path())
	require.Equal(t, "/usr/bin/ccache arm-linux-gcc", toolchain.Value{"/usr/bin/ccache", "arm-linux-gcc"}.String())
}

func newEncodeEnv() *toolchain.Env {
	env := toolchain.NewEnv()
	env.SetString("CC", "/usr/arm/bin/arm-linux-gcc")
	env.SetString("CC_NAME", "gcc")
	env.Set("CC_VERSION", toolchain.Value{"4", "3", "2"})
	return env
}

func TestEnv_Encode(t *testing.T) {
	type test struct {
		name   string
		format toolchain.Format
		expect string
	}

	tests := []test{
		{
			name:   "Text",
			format: toolchain.FormatText,
			expect: "CC = '/usr/arm/bin/arm-linux-gcc'\n" +
				"CC_NAME = 'gcc'\n" +
				"CC_VERSION = ['4', '3', '2']\n",
		},
		{
			name:   "JSON",
			format: toolchain.FormatJSON,
			expect: "{\n" +
				"  \"CC\": \"/usr/arm/bin/arm-linux-gcc\",\n" +
				"  \"CC_NAME\": \"gcc\",\n" +
				"  \"CC_VERSION\": [\n" +
				"    \"4\",\n" +
				"    \"3\",\n" +
				"    \"2\"\n" +
				"  ]\n" +
				"}\n",
		},
		{
			name:   "YAML",
			format: toolchain.FormatYAML,
			expect: "CC: /usr/arm/bin/arm-linux-gcc\n" +
				"CC_NAME: gcc\n" +
				"CC_VERSION:\n" +
				"  - \"4\"\n" +
				"  - \"3\"\n" +
				"  - \"2\"\n",
		},
	}

	env := newEncodeEnv()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, env.Encode(&buf, tt.format))
			require.Equal(t, tt.expect, buf.String())
		})
	}

	t.Run("TOML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, env.Encode(&buf, toolchain.FormatTOML))

		out := buf.String()
		require.Contains(t, out, "CC = '/usr/arm/bin/arm-linux-gcc'")
		require.Contains(t, out, "CC_NAME = 'gcc'")
		require.Contains(t, out, "CC_VERSION = ['4', '3', '2']")
	})

	t.Run("Unknown", func(t *testing.T) {
		require.Error(t, env.Encode(&bytes.Buffer{}, toolchain.Format("xml")))
	})
}

func TestEnv_EncodeTextQuoting(t *testing.T) {
	env := toolchain.NewEnv()
	env.SetString("CC", `/opt/it's here\bin/gcc`)

	var buf bytes.Buffer
	require.NoError(t, env.Encode(&buf, toolchain.FormatText))
	require.Equal(t, `CC = '/opt/it\'s here\\bin/gcc'`+"\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	for _, f := range toolchain.Formats {
		got, err := toolchain.ParseFormat(" " + string(f) + " ")
		require.NoError(t, err)
		require.Equal(t, f, got)
	}

	got, err := toolchain.ParseFormat("YAML")
	require.NoError(t, err)
	require.Equal(t, toolchain.FormatYAML, got)

	_, err = toolchain.ParseFormat("ini")
	require.Error(t, err)
}
