package idl

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jackalchenxu/parse-idl/internal/errors"
)

// TypeExpr is an IDL type expression. The concrete variants are Primitive,
// Option, Vec, Array and Defined.
type TypeExpr interface {
	isTypeExpr()
	String() string
}

// Primitive is a scalar IDL type.
type Primitive string

// Primitive kinds.
const (
	Bool      Primitive = "bool"
	U8        Primitive = "u8"
	I8        Primitive = "i8"
	U16       Primitive = "u16"
	I16       Primitive = "i16"
	U32       Primitive = "u32"
	I32       Primitive = "i32"
	U64       Primitive = "u64"
	I64       Primitive = "i64"
	U128      Primitive = "u128"
	I128      Primitive = "i128"
	F32       Primitive = "f32"
	F64       Primitive = "f64"
	Bytes     Primitive = "bytes"
	String    Primitive = "string"
	PublicKey Primitive = "publicKey"
)

// Primitives lists every primitive kind.
var Primitives = []Primitive{
	Bool, U8, I8, U16, I16, U32, I32, U64, I64, U128, I128, F32, F64, Bytes, String, PublicKey,
}

var primitiveByName = func() map[string]Primitive {
	m := make(map[string]Primitive, len(Primitives)+1)
	for _, p := range Primitives {
		m[string(p)] = p
	}
	m["pubkey"] = PublicKey
	return m
}()

// Option is an optional value of the inner type.
type Option struct {
	Inner TypeExpr
}

// Vec is a variable-length sequence of the inner type.
type Vec struct {
	Inner TypeExpr
}

// Array is a fixed-length array of the inner type.
type Array struct {
	Inner TypeExpr
	Len   int
}

// Defined references a user-defined type by name.
type Defined struct {
	Name string
}

func (Primitive) isTypeExpr() {}
func (Option) isTypeExpr()    {}
func (Vec) isTypeExpr()       {}
func (Array) isTypeExpr()     {}
func (Defined) isTypeExpr()   {}

func (p Primitive) String() string { return string(p) }
func (o Option) String() string    { return fmt.Sprintf("option<%s>", o.Inner) }
func (v Vec) String() string       { return fmt.Sprintf("vec<%s>", v.Inner) }
func (a Array) String() string     { return fmt.Sprintf("[%s; %d]", a.Inner, a.Len) }
func (d Defined) String() string   { return d.Name }

// ParseTypeExpr parses the JSON encoding of a type expression:
//
//	"u64"                        primitive
//	{"option": T}, {"coption": T}
//	{"vec": T}
//	{"array": [T, 32]}
//	{"defined": "Name"}, {"defined": {"name": "Name"}}
func ParseTypeExpr(data []byte) (TypeExpr, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.UnsupportedType("<empty>")
	}

	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return nil, errors.ParseFailed("type name", err)
		}
		p, ok := primitiveByName[name]
		if !ok {
			return nil, errors.UnsupportedType(fmt.Sprintf("%q", name))
		}
		return p, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, errors.ParseFailed("type expression", err)
	}
	if len(obj) != 1 {
		return nil, errors.UnsupportedType(string(data))
	}

	for key, raw := range obj {
		switch key {
		case "option", "coption":
			inner, err := ParseTypeExpr(raw)
			if err != nil {
				return nil, err
			}
			return Option{Inner: inner}, nil

		case "vec":
			inner, err := ParseTypeExpr(raw)
			if err != nil {
				return nil, err
			}
			return Vec{Inner: inner}, nil

		case "array":
			return parseArray(raw)

		case "defined":
			return parseDefined(raw)
		}
	}

	return nil, errors.UnsupportedType(string(data))
}

func parseArray(raw json.RawMessage) (TypeExpr, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, errors.ParseFailed("array type", err)
	}
	if len(parts) != 2 {
		return nil, errors.UnsupportedType(fmt.Sprintf("array %s", raw))
	}

	inner, err := ParseTypeExpr(parts[0])
	if err != nil {
		return nil, err
	}

	var n int
	if err := json.Unmarshal(parts[1], &n); err != nil {
		return nil, errors.UnsupportedType(fmt.Sprintf("array length %s", parts[1]))
	}
	if n < 0 {
		return nil, errors.UnsupportedType(fmt.Sprintf("array length %d", n))
	}

	return Array{Inner: inner, Len: n}, nil
}

func parseDefined(raw json.RawMessage) (TypeExpr, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if name == "" {
			return nil, errors.UnsupportedType("defined type with empty name")
		}
		return Defined{Name: name}, nil
	}

	var ref struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &ref); err != nil || ref.Name == "" {
		return nil, errors.UnsupportedType(fmt.Sprintf("defined %s", raw))
	}
	return Defined{Name: ref.Name}, nil
}

// UnmarshalJSON decodes a field and its type expression.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string          `json:"name"`
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Type) == 0 {
		return errors.ParseFailed(fmt.Sprintf("field %q", raw.Name), errors.Custom("missing type"))
	}

	t, err := ParseTypeExpr(raw.Type)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("field %q", raw.Name))
	}

	f.Name = raw.Name
	f.Type = t
	return nil
}

// UnmarshalJSON decodes an enum variant. Payload members are either named
// fields ({"name", "type"}) or bare type expressions for tuple variants.
func (v *EnumVariant) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   string            `json:"name"`
		Fields []json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := make([]Field, 0, len(raw.Fields))
	for _, member := range raw.Fields {
		var probe map[string]json.RawMessage
		if json.Unmarshal(member, &probe) == nil {
			if _, named := probe["name"]; named {
				var f Field
				if err := json.Unmarshal(member, &f); err != nil {
					return errors.Wrap(err, fmt.Sprintf("variant %q", raw.Name))
				}
				fields = append(fields, f)
				continue
			}
		}

		t, err := ParseTypeExpr(member)
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("variant %q", raw.Name))
		}
		fields = append(fields, Field{Type: t})
	}

	v.Name = raw.Name
	if len(fields) > 0 {
		v.Fields = fields
	}
	return nil
}

// UnmarshalJSON decodes a type definition body and rejects kinds other
// than struct and enum.
func (b *TypeDefBody) UnmarshalJSON(data []byte) error {
	type body TypeDefBody
	var raw body
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Kind != KindStruct && raw.Kind != KindEnum {
		return errors.UnsupportedType(fmt.Sprintf("definition kind %q", raw.Kind))
	}
	*b = TypeDefBody(raw)
	return nil
}
