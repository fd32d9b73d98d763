package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackalchenxu/parse-idl/internal/idl"
)

func TestMapPrimitive(t *testing.T) {
	tests := []struct {
		kind     idl.Primitive
		expected string
	}{
		{idl.Bool, "bool"},
		{idl.U8, "uint8"},
		{idl.I8, "int8"},
		{idl.U16, "uint16"},
		{idl.I16, "int16"},
		{idl.U32, "uint32"},
		{idl.I32, "int32"},
		{idl.U64, "uint64"},
		{idl.I64, "int64"},
		{idl.F32, "float32"},
		{idl.F64, "float64"},
		{idl.Bytes, "[]byte"},
		{idl.String, "string"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, MapPrimitive(tt.kind).GoString())
		})
	}
}

func TestMapPrimitive_Qualified(t *testing.T) {
	assert.Contains(t, MapPrimitive(idl.U128).GoString(), "Uint128")
	assert.Contains(t, MapPrimitive(idl.I128).GoString(), "Int128")
	assert.Contains(t, MapPrimitive(idl.PublicKey).GoString(), "PublicKey")
}

func TestMapPrimitive_Injective(t *testing.T) {
	seen := make(map[string]idl.Primitive, len(idl.Primitives))
	for _, p := range idl.Primitives {
		got := MapPrimitive(p).GoString()
		assert.NotEqual(t, "interface{}", got, "%s has no mapping", p)
		if prev, dup := seen[got]; dup {
			t.Errorf("%s and %s both map to %s", prev, p, got)
		}
		seen[got] = p
	}
	assert.Len(t, seen, len(idl.Primitives))
}

func TestMapType_Composite(t *testing.T) {
	tests := []struct {
		name     string
		expr     idl.TypeExpr
		expected string
	}{
		{"option", idl.Option{Inner: idl.U64}, "*uint64"},
		{"vec", idl.Vec{Inner: idl.I16}, "[]int16"},
		{"array keeps length", idl.Array{Inner: idl.U8, Len: 32}, "[32]uint8"},
		{"vec of arrays", idl.Vec{Inner: idl.Array{Inner: idl.Bool, Len: 3}}, "[][3]bool"},
		{"option of vec", idl.Option{Inner: idl.Vec{Inner: idl.U8}}, "*[]uint8"},
		{"bytes differs from vec u8", idl.Bytes, "[]byte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unresolved := NewUnresolvedSet()
			assert.Equal(t, tt.expected, MapType(tt.expr, unresolved).GoString())
			assert.Zero(t, unresolved.Len())
		})
	}
}

func TestMapType_DefinedRegistersUnresolved(t *testing.T) {
	unresolved := NewUnresolvedSet()

	got := MapType(idl.Vec{Inner: idl.Option{Inner: idl.Defined{Name: "pool_state"}}}, unresolved)

	assert.Equal(t, "[]*pool_state", got.GoString(), "defined names are kept verbatim")
	assert.True(t, unresolved.Contains("pool_state"))
	assert.Equal(t, 1, unresolved.Len())
}

func TestMapType_SelfReferenceTerminates(t *testing.T) {
	unresolved := NewUnresolvedSet()

	got := MapType(idl.Option{Inner: idl.Defined{Name: "Node"}}, unresolved)

	require.NotNil(t, got)
	assert.Equal(t, []string{"Node"}, unresolved.Names())
}

func TestUnresolvedSet(t *testing.T) {
	s := NewUnresolvedSet()
	s.Add("Zeta")
	s.Add("Alpha")
	s.Add("Alpha")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"Alpha", "Zeta"}, s.Names())

	s.Remove("Alpha")
	s.Remove("missing")
	assert.False(t, s.Contains("Alpha"))
	assert.Equal(t, []string{"Zeta"}, s.Names())
}
