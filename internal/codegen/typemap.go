package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/jackalchenxu/parse-idl/internal/idl"
)

// Import paths referenced by generated code.
const (
	SolanaPath = "github.com/gagliardetto/solana-go"
	BinaryPath = "github.com/gagliardetto/binary"
)

// MapType translates an IDL type expression into a Go type expression.
//
// Defined references are emitted verbatim and their names recorded in
// unresolved; the referenced definition itself is not inspected, so
// recursive and cyclic types need no special handling here.
func MapType(expr idl.TypeExpr, unresolved UnresolvedSet) *jen.Statement {
	switch t := expr.(type) {
	case idl.Primitive:
		return MapPrimitive(t)

	case idl.Option:
		return jen.Op("*").Add(MapType(t.Inner, unresolved))

	case idl.Vec:
		return jen.Index().Add(MapType(t.Inner, unresolved))

	case idl.Array:
		return jen.Index(jen.Lit(t.Len)).Add(MapType(t.Inner, unresolved))

	case idl.Defined:
		unresolved.Add(t.Name)
		return jen.Id(t.Name)
	}

	// The parser rejects anything else.
	return jen.Interface()
}

// CollectDefined records every defined name referenced by expr, the same
// names MapType would record.
func CollectDefined(expr idl.TypeExpr, into UnresolvedSet) {
	switch t := expr.(type) {
	case idl.Option:
		CollectDefined(t.Inner, into)
	case idl.Vec:
		CollectDefined(t.Inner, into)
	case idl.Array:
		CollectDefined(t.Inner, into)
	case idl.Defined:
		into.Add(t.Name)
	}
}

// MapPrimitive converts a primitive IDL type to its Go type. Widths and
// signedness are kept exactly; 128-bit integers use the Borsh-aware types
// from gagliardetto/binary.
func MapPrimitive(p idl.Primitive) *jen.Statement {
	switch p {
	case idl.Bool:
		return jen.Bool()

	// Unsigned integers
	case idl.U8:
		return jen.Uint8()
	case idl.U16:
		return jen.Uint16()
	case idl.U32:
		return jen.Uint32()
	case idl.U64:
		return jen.Uint64()
	case idl.U128:
		return jen.Qual(BinaryPath, "Uint128")

	// Signed integers
	case idl.I8:
		return jen.Int8()
	case idl.I16:
		return jen.Int16()
	case idl.I32:
		return jen.Int32()
	case idl.I64:
		return jen.Int64()
	case idl.I128:
		return jen.Qual(BinaryPath, "Int128")

	// Floats
	case idl.F32:
		return jen.Float32()
	case idl.F64:
		return jen.Float64()

	case idl.Bytes:
		return jen.Index().Byte()
	case idl.String:
		return jen.String()
	case idl.PublicKey:
		return jen.Qual(SolanaPath, "PublicKey")
	}

	return jen.Interface()
}
