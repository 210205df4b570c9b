// File: lixenwraith/tagcli/literal_test.go
package tagcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalLiteral(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want any
	}{
		{"Int", "1", int64(1)},
		{"NegativeInt", "-42", int64(-42)},
		{"Float", "0.2", 0.2},
		{"Exponent", "1e3", 1000.0},
		{"SingleQuoted", "'text'", "text"},
		{"DoubleQuoted", `"some string"`, "some string"},
		{"Escape", `'a\'b'`, "a'b"},
		{"True", "true", true},
		{"PythonTrue", "True", true},
		{"False", "false", false},
		{"PythonFalse", "False", false},
		{"Nil", "nil", nil},
		{"PythonNone", "None", nil},
		{"EmptyList", "[]", []any{}},
		{"List", "[1, 2, 3]", []any{int64(1), int64(2), int64(3)}},
		{"EmptyMap", "{}", map[any]any{}},
		{"Map", "{'a': 1, 'b': 2}", map[any]any{"a": int64(1), "b": int64(2)}},
		{"NestedContainers", "{'xs': [1, 'two']}", map[any]any{"xs": []any{int64(1), "two"}}},
		{"TrailingComma", "[1, 2,]", []any{int64(1), int64(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalLiteral(tt.expr, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalLiteralNamespace(t *testing.T) {
	ns := map[string]any{
		"inum":    7,
		"m":       map[string]int{"a": 5},
		"xs":      []string{"zero", "one"},
		"sub.int": 9,
	}

	t.Run("Identifier", func(t *testing.T) {
		got, err := evalLiteral("inum", ns)
		require.NoError(t, err)
		assert.Equal(t, 7, got)
	})

	t.Run("DottedIdentifier", func(t *testing.T) {
		got, err := evalLiteral("sub.int", ns)
		require.NoError(t, err)
		assert.Equal(t, 9, got)
	})

	t.Run("MapSubscript", func(t *testing.T) {
		got, err := evalLiteral("m['a']", ns)
		require.NoError(t, err)
		assert.Equal(t, 5, got)
	})

	t.Run("SliceSubscript", func(t *testing.T) {
		got, err := evalLiteral("xs[1]", ns)
		require.NoError(t, err)
		assert.Equal(t, "one", got)
	})

	t.Run("IdentifierInList", func(t *testing.T) {
		got, err := evalLiteral("[inum, 2]", ns)
		require.NoError(t, err)
		assert.Equal(t, []any{7, int64(2)}, got)
	})
}

func TestEvalLiteralErrors(t *testing.T) {
	ns := map[string]any{"xs": []int{1, 2}}

	tests := []struct {
		name string
		expr string
	}{
		{"UndefinedName", "missing"},
		{"Call", "f(1)"},
		{"Operator", "1 + 2"},
		{"UnterminatedString", "'abc"},
		{"UnterminatedList", "[1, 2"},
		{"MissingMapColon", "{'a' 1}"},
		{"IndexOutOfRange", "xs[5]"},
		{"NonIntegerIndex", "xs['a']"},
		{"SubscriptNonContainer", "xs[0][0]"},
		{"Empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evalLiteral(tt.expr, ns)
			require.Error(t, err)
			var ee *EvalError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, tt.expr, ee.Expr)
		})
	}
}
