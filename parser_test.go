// File: lixenwraith/tagcli/parser_test.go
package tagcli

import (
	"io"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parserConf struct {
	Yes    bool           `cli:"yes"`
	No     bool           `cli:"no"`
	Inum   int            `cli:"inum"`
	Unum   uint           `cli:"unum"`
	Fnum   float64        `cli:"fnum"`
	Str    string         `cli:"string"`
	Choice string         `cli:"choice,oneof=a|b|c"`
	Wait   time.Duration  `cli:"wait"`
	Dict   map[string]int `cli:"dict"`
	List   []int          `cli:"list"`
}

func newTestParser(t *testing.T, prototype any) *parser {
	t.Helper()
	s, err := ParseSchema(prototype)
	require.NoError(t, err)
	p := newParser("test", s)
	p.fs.SetOutput(io.Discard)
	return p
}

func TestParseTypedFlags(t *testing.T) {
	p := newTestParser(t, &parserConf{No: true, Choice: "a"})
	kwds, err := p.parse([]string{
		"--inum", "2",
		"--unum", "3",
		"--fnum", "0.2",
		"--string", "some string",
		"--choice", "b",
		"--wait", "1500ms",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"inum":   int64(2),
		"unum":   uint64(3),
		"fnum":   0.2,
		"string": "some string",
		"choice": "b",
		"wait":   1500 * time.Millisecond,
	}, kwds)
}

func TestParseCollectsOnlyChangedFlags(t *testing.T) {
	p := newTestParser(t, &parserConf{No: true, Choice: "a"})
	kwds, err := p.parse([]string{"--inum", "2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"inum": int64(2)}, kwds)
}

func TestParseBoolToggle(t *testing.T) {
	t.Run("FalseDefaultTogglesTrue", func(t *testing.T) {
		p := newTestParser(t, &parserConf{No: true, Choice: "a"})
		kwds, err := p.parse([]string{"--yes"})
		require.NoError(t, err)
		assert.Equal(t, true, kwds["yes"])
	})

	t.Run("TrueDefaultTogglesFalse", func(t *testing.T) {
		p := newTestParser(t, &parserConf{No: true, Choice: "a"})
		kwds, err := p.parse([]string{"--no"})
		require.NoError(t, err)
		assert.Equal(t, false, kwds["no"])
	})

	t.Run("ExplicitValueHonored", func(t *testing.T) {
		p := newTestParser(t, &parserConf{No: true, Choice: "a"})
		kwds, err := p.parse([]string{"--yes=false", "--no=true"})
		require.NoError(t, err)
		assert.Equal(t, false, kwds["yes"])
		assert.Equal(t, true, kwds["no"])
	})
}

func TestParseExpressionFlagsStayRaw(t *testing.T) {
	p := newTestParser(t, &parserConf{})
	kwds, err := p.parse([]string{"--dict", "{'a': 1}", "--list", "[1, 2]"})
	require.NoError(t, err)
	assert.Equal(t, rawExpr("{'a': 1}"), kwds["dict"])
	assert.Equal(t, rawExpr("[1, 2]"), kwds["list"])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"InvalidInt", []string{"--inum", "x"}},
		{"InvalidFloat", []string{"--fnum", "x"}},
		{"InvalidDuration", []string{"--wait", "x"}},
		{"UnknownFlag", []string{"--invalid", "x"}},
		{"UnknownFlagWithValidOnes", []string{"--inum", "1", "--invalid", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(t, &parserConf{})
			_, err := p.parse(tt.args)
			require.Error(t, err)
		})
	}
}

func TestParseChoiceViolation(t *testing.T) {
	p := newTestParser(t, &parserConf{})
	_, err := p.parse([]string{"--choice", "x"})
	require.ErrorIs(t, err, ErrChoice)
	assert.Contains(t, err.Error(), "a, b, c")
}

func TestParseHelp(t *testing.T) {
	p := newTestParser(t, &parserConf{})
	_, err := p.parse([]string{"--help"})
	require.ErrorIs(t, err, pflag.ErrHelp)
}

func TestParseMetadata(t *testing.T) {
	type metaConf struct {
		A int `cli:"a"`
		B int `cli:"b,positional"`
		C int `cli:"c,required"`
		D int `cli:"d,metavar=X"`
	}

	t.Run("MinimalArgs", func(t *testing.T) {
		p := newTestParser(t, &metaConf{})
		kwds, err := p.parse([]string{"1", "--c", "2"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), kwds["b"])
		assert.Equal(t, int64(2), kwds["c"])
		assert.NotContains(t, kwds, "a")
	})

	t.Run("MissingPositional", func(t *testing.T) {
		p := newTestParser(t, &metaConf{})
		_, err := p.parse([]string{"--c", "2"})
		require.ErrorIs(t, err, ErrMissingRequired)
	})

	t.Run("MissingRequiredFlag", func(t *testing.T) {
		p := newTestParser(t, &metaConf{})
		_, err := p.parse([]string{"1"})
		require.ErrorIs(t, err, ErrMissingRequired)
	})

	t.Run("SurplusPositionals", func(t *testing.T) {
		p := newTestParser(t, &metaConf{})
		_, err := p.parse([]string{"1", "2", "--c", "3"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected arguments")
	})
}

func TestParsePositionalBool(t *testing.T) {
	type boolConf struct {
		A bool `cli:"a,positional"`
	}

	for _, tok := range []string{"True", "true", "1"} {
		p := newTestParser(t, &boolConf{})
		kwds, err := p.parse([]string{tok})
		require.NoError(t, err, tok)
		assert.Equal(t, true, kwds["a"], tok)
	}

	p := newTestParser(t, &boolConf{})
	kwds, err := p.parse([]string{"False"})
	require.NoError(t, err)
	assert.Equal(t, false, kwds["a"])

	p = newTestParser(t, &boolConf{})
	_, err = p.parse([]string{"notabool"})
	require.Error(t, err)
}
