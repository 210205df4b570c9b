// File: lixenwraith/tagcli/path_test.go
package tagcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pathSub struct {
	Int  int    `cli:"int"`
	Name string `cli:"name"`
}

type pathRoot struct {
	Int      int      `cli:"int"`
	Sub      pathSub  `cli:"sub"`
	PtrSub   *pathSub `cli:"psub"`
	Untagged string
}

func TestGet(t *testing.T) {
	node := &pathRoot{
		Int:      1,
		Sub:      pathSub{Int: 2, Name: "inner"},
		PtrSub:   &pathSub{Int: 3},
		Untagged: "plain",
	}

	tests := []struct {
		path string
		want any
	}{
		{"int", 1},
		{"sub.int", 2},
		{"sub.name", "inner"},
		{"psub.int", 3},
		{"untagged", "plain"}, // lower-cased field name when no tag
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Get(node, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetErrors(t *testing.T) {
	node := &pathRoot{PtrSub: &pathSub{}}

	t.Run("MissingSegment", func(t *testing.T) {
		_, err := Get(node, "nosuch")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"nosuch"`)
		assert.Contains(t, err.Error(), "pathRoot")
	})

	t.Run("MissingNestedSegment", func(t *testing.T) {
		_, err := Get(node, "sub.nosuch")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"nosuch"`)
		assert.Contains(t, err.Error(), "pathSub")
	})

	t.Run("LeafUsedAsNode", func(t *testing.T) {
		_, err := Get(node, "int.deeper")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a nested node")
	})

	t.Run("NilNestedNode", func(t *testing.T) {
		_, err := Get(&pathRoot{}, "psub.int")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil")
	})
}

func TestSet(t *testing.T) {
	t.Run("TopLevel", func(t *testing.T) {
		node := &pathRoot{}
		require.NoError(t, Set(node, "int", 5))
		assert.Equal(t, 5, node.Int)
	})

	t.Run("Nested", func(t *testing.T) {
		node := &pathRoot{}
		require.NoError(t, Set(node, "sub.int", 2))
		assert.Equal(t, 2, node.Sub.Int)
		assert.Zero(t, node.Int) // siblings untouched
	})

	t.Run("ThroughPointer", func(t *testing.T) {
		node := &pathRoot{PtrSub: &pathSub{}}
		require.NoError(t, Set(node, "psub.name", "x"))
		assert.Equal(t, "x", node.PtrSub.Name)
	})

	t.Run("WeakCoercion", func(t *testing.T) {
		node := &pathRoot{}
		require.NoError(t, Set(node, "int", "7"))
		assert.Equal(t, 7, node.Int)
		require.NoError(t, Set(node, "sub.int", int64(9)))
		assert.Equal(t, 9, node.Sub.Int)
	})

	t.Run("NoImplicitNodeCreation", func(t *testing.T) {
		err := Set(&pathRoot{}, "psub.int", 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil")
	})

	t.Run("NonPointerNode", func(t *testing.T) {
		err := Set(pathRoot{}, "int", 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "struct pointer")
	})

	t.Run("BadValue", func(t *testing.T) {
		err := Set(&pathRoot{}, "int", "not-a-number")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"int"`)
	})
}
