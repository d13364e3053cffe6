package keyfield

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `json:"city"`
	Zip  int
}

type person struct {
	Name    string `json:"name"`
	Age     int    `json:"age,omitempty"`
	Address *address
	hidden  string
}

func TestParse_AcceptsNamesAndPaths(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		expect []string
	}{
		{name: "single name", input: "name", expect: []string{"name"}},
		{name: "string path", input: []string{"address", "city"}, expect: []string{"address", "city"}},
		{name: "yaml path", input: []any{"address", "city"}, expect: []string{"address", "city"}},
		{name: "keyfield passthrough", input: Path("a", "b"), expect: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kf, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, kf.Segments())
		})
	}
}

func TestParse_RejectsMalformedKeyFields(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "number", input: 42},
		{name: "empty name", input: ""},
		{name: "empty path", input: []string{}},
		{name: "non-string segment", input: []any{"a", 1}},
		{name: "zero value", input: KeyField{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestParseAll_ReportsFailingIndex(t *testing.T) {
	_, err := ParseAll("name", 3.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)

	fields, err := ParseAll("name", []string{"address", "city"})
	require.NoError(t, err)
	assert.Len(t, fields, 2)
	assert.True(t, fields[1].IsPath())
}

func TestParseDotted(t *testing.T) {
	kf, err := ParseDotted("address.city")
	require.NoError(t, err)
	assert.Equal(t, "address.city", kf.String())
	assert.True(t, kf.Equal(Path("address", "city")))

	_, err = ParseDotted("")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestResolve_Map(t *testing.T) {
	rec := map[string]any{
		"name": "Anna",
		"address": map[string]any{
			"city": "Oslo",
		},
		"nothing": nil,
	}

	v, ok, err := Resolve(rec, Name("name"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Anna", v)

	v, ok, err = Resolve(rec, Path("address", "city"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Oslo", v)

	_, ok, err = Resolve(rec, Name("missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = Resolve(rec, Name("nothing"))
	require.NoError(t, err)
	assert.False(t, ok, "nil values are absent")
}

func TestResolve_StructByFieldNameAndJSONTag(t *testing.T) {
	rec := &person{Name: "Anne", Address: &address{City: "Bergen", Zip: 5003}, hidden: "x"}

	v, ok, err := Resolve(rec, Name("Name"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Anne", v)

	v, ok, _ = Resolve(rec, Name("name"))
	assert.True(t, ok)
	assert.Equal(t, "Anne", v)

	v, ok, _ = Resolve(rec, Path("Address", "city"))
	assert.True(t, ok)
	assert.Equal(t, "Bergen", v)

	v, ok, _ = Resolve(*rec, Path("Address", "Zip"))
	assert.True(t, ok)
	assert.Equal(t, 5003, v)

	_, ok, _ = Resolve(rec, Name("hidden"))
	assert.False(t, ok, "unexported fields are not addressable keys")
}

func TestResolve_AbsentOnMalformedIntermediate(t *testing.T) {
	tests := []struct {
		name string
		rec  any
		kf   KeyField
	}{
		{name: "intermediate scalar", rec: map[string]any{"a": 1}, kf: Path("a", "b")},
		{name: "nil pointer", rec: &person{}, kf: Path("Address", "City")},
		{name: "empty segment", rec: map[string]any{"a": map[string]any{"": 1}}, kf: Path("a", "")},
		{name: "empty path", rec: map[string]any{"a": 1}, kf: KeyField{}},
		{name: "int keyed intermediate", rec: map[string]any{"a": map[int]string{1: "x"}}, kf: Path("a", "1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := Resolve(tt.rec, tt.kf)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestResolve_TopLevelNonRecordIsContractViolation(t *testing.T) {
	for _, rec := range []any{nil, 42, "str", []string{"a"}, map[int]string{}, (*person)(nil)} {
		_, _, err := Resolve(rec, Name("name"))
		assert.ErrorIs(t, err, ErrNotRecord, "%T", rec)
		assert.False(t, IsRecord(rec))
	}
	assert.True(t, IsRecord(map[string]string{}))
	assert.True(t, IsRecord(person{}))
}

type code string

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestString_RendersKeyValues(t *testing.T) {
	tests := []struct {
		in     any
		expect string
	}{
		{"x", "x"},
		{42, "42"},
		{int64(-7), "-7"},
		{int8(3), "3"},
		{uint16(9), "9"},
		{1.5, "1.5"},
		{float32(2.25), "2.25"},
		{true, "true"},
		{code("go"), "go"},
		{stringer{}, "stringer"},
		{[]int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		s, ok := String(tt.in)
		assert.True(t, ok)
		assert.Equal(t, tt.expect, s)
	}

	_, ok := String(nil)
	assert.False(t, ok)
}

func TestResolveString(t *testing.T) {
	s, ok, err := ResolveString(map[string]any{"id": 1}, Name("id"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", s)
}

func TestCloneAll_IsIndependent(t *testing.T) {
	orig := []KeyField{Path("a", "b")}
	cloned := CloneAll(orig)
	cloned[0].path[0] = "z"
	assert.Equal(t, "a.b", orig[0].String())
}
