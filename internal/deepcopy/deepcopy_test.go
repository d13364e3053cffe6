package deepcopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	Name     string
	Tags     []string
	Attrs    map[string]any
	Next     *node
	internal int
}

func TestCopy_MapRecordIsIndependent(t *testing.T) {
	// Given: a nested map record
	orig := map[string]any{
		"name":    "Anna",
		"address": map[string]any{"city": "Oslo"},
		"tags":    []any{"a", "b"},
	}

	// When: deep-copying and mutating the copy
	cp := Copy(orig)
	cp["address"].(map[string]any)["city"] = "Bergen"
	cp["tags"].([]any)[0] = "z"

	// Then: the original is untouched
	assert.Equal(t, "Oslo", orig["address"].(map[string]any)["city"])
	assert.Equal(t, "a", orig["tags"].([]any)[0])
}

func TestCopy_StructPointer(t *testing.T) {
	orig := &node{Name: "root", Tags: []string{"x"}, Attrs: map[string]any{"k": 1}, internal: 7}

	cp := Copy(orig)

	require.NotSame(t, orig, cp)
	assert.Equal(t, orig.Name, cp.Name)
	assert.Equal(t, 7, cp.internal)
	cp.Tags[0] = "y"
	cp.Attrs["k"] = 2
	assert.Equal(t, "x", orig.Tags[0])
	assert.Equal(t, 1, orig.Attrs["k"])
}

func TestCopy_PreservesCycles(t *testing.T) {
	a := &node{Name: "a"}
	a.Next = a

	cp := Copy(a)

	require.NotSame(t, a, cp)
	assert.Same(t, cp, cp.Next)
}

func TestAny_Nil(t *testing.T) {
	assert.Nil(t, Any(nil))
	assert.Equal(t, 3, Any(3))
}
