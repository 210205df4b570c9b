// File: lixenwraith/tagcli/dictopt_test.go
package tagcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDictArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		opts []DictOpt
		rest []string
	}{
		{
			"NoDictOptions",
			[]string{"--flag", "value", "pos"},
			nil,
			[]string{"--flag", "value", "pos"},
		},
		{
			"EqualsForm",
			[]string{"--dict['a']=1"},
			[]DictOpt{{Subscript: "dict['a']", Value: "1"}},
			[]string{},
		},
		{
			"SpaceForm",
			[]string{"--dict['a']", "text"},
			[]DictOpt{{Subscript: "dict['a']", Value: "text"}},
			[]string{},
		},
		{
			"MixedPreservesOrder",
			[]string{"--int", "1", "--dict['a']=2", "pos1", "--list[0]", "3", "pos2"},
			[]DictOpt{
				{Subscript: "dict['a']", Value: "2"},
				{Subscript: "list[0]", Value: "3"},
			},
			[]string{"--int", "1", "pos1", "pos2"},
		},
		{
			"NestedDottedName",
			[]string{"--sub.map[\"k\"]=5"},
			[]DictOpt{{Subscript: "sub.map[\"k\"]", Value: "5"}},
			[]string{},
		},
		{
			"ThirdByteMustBeAlphabetic",
			[]string{"--1x[a]=1"},
			nil,
			[]string{"--1x[a]=1"},
		},
		{
			"BracketRequired",
			[]string{"--dict=1"},
			nil,
			[]string{"--dict=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, rest, err := splitDictArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.opts, opts)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestSplitDictArgsDanglingKey(t *testing.T) {
	_, _, err := splitDictArgs([]string{"--int", "1", "--dict['a']"})
	require.ErrorIs(t, err, ErrDanglingOption)
	assert.Contains(t, err.Error(), "--dict['a']")
}

func TestParseSubscript(t *testing.T) {
	tests := []struct {
		name string
		sub  string
		root string
		keys []any
	}{
		{"StringKey", "dict['a']", "dict", []any{"a"}},
		{"IntKey", "list[1]", "list", []any{int64(1)}},
		{"ChainedKeys", "dict[\"k\"][0]", "dict", []any{"k", int64(0)}},
		{"DottedRoot", "sub.map['x']", "sub.map", []any{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, keys, err := parseSubscript(tt.sub, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.root, root)
			assert.Equal(t, tt.keys, keys)
		})
	}

	t.Run("MissingSubscript", func(t *testing.T) {
		_, _, err := parseSubscript("dict", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing subscript")
	})

	t.Run("UnterminatedKey", func(t *testing.T) {
		_, _, err := parseSubscript("dict['a'", nil)
		require.Error(t, err)
	})
}
