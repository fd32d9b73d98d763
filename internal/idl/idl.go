// Package idl models Anchor IDL (Interface Definition Language) documents.
// It covers the subset the binding generator consumes: instructions with
// their arguments, account and auxiliary type definitions, and metadata.
package idl

import (
	"github.com/jackalchenxu/parse-idl/internal/errors"
)

// IDL represents a parsed IDL document.
type IDL struct {
	Version      string         `json:"version"`
	Name         string         `json:"name"`
	Instructions []Instruction  `json:"instructions"`
	Accounts     []TypeDef      `json:"accounts"`
	Types        []TypeDef      `json:"types"`
	Metadata     map[string]any `json:"metadata"`
}

// Instruction represents a program instruction. Only the name and the
// argument list matter for binding generation.
type Instruction struct {
	Name string  `json:"name"`
	Args []Field `json:"args"`
}

// Field is a named, typed member of an instruction, struct or enum variant.
// Tuple variant members have an empty Name.
type Field struct {
	Name string   `json:"name"`
	Type TypeExpr `json:"-"`
}

// TypeDef is a named struct or enum definition.
type TypeDef struct {
	Name string      `json:"name"`
	Type TypeDefBody `json:"type"`
}

// Type definition kinds.
const (
	KindStruct = "struct"
	KindEnum   = "enum"
)

// TypeDefBody is the body of a type definition. Fields is set for structs,
// Variants for enums.
type TypeDefBody struct {
	Kind     string        `json:"kind"`
	Fields   []Field       `json:"fields,omitempty"`
	Variants []EnumVariant `json:"variants,omitempty"`
}

// IsStruct reports whether the body describes a struct.
func (b TypeDefBody) IsStruct() bool { return b.Kind == KindStruct }

// IsEnum reports whether the body describes an enum.
func (b TypeDefBody) IsEnum() bool { return b.Kind == KindEnum }

// EnumVariant is an enum variant. Variants with no fields are unit variants.
type EnumVariant struct {
	Name   string  `json:"name"`
	Fields []Field `json:"-"`
}

// HasFields reports whether the variant carries a payload.
func (v EnumVariant) HasFields() bool { return len(v.Fields) > 0 }

// HasPayloadVariants reports whether any variant of an enum carries data.
func (b TypeDefBody) HasPayloadVariants() bool {
	for _, v := range b.Variants {
		if v.HasFields() {
			return true
		}
	}
	return false
}

// ProgramAddress returns metadata.address. A document without metadata, or
// whose metadata has no string address, is not a usable IDL.
func (d *IDL) ProgramAddress() (string, error) {
	if d.Metadata == nil {
		return "", errors.ErrMissingMetadata
	}
	raw, ok := d.Metadata["address"]
	if !ok {
		return "", errors.ErrMissingAddress
	}
	address, ok := raw.(string)
	if !ok {
		return "", errors.InvalidAddress(raw)
	}
	return address, nil
}

// Definitions returns every type definition, accounts first.
func (d *IDL) Definitions() []TypeDef {
	defs := make([]TypeDef, 0, len(d.Accounts)+len(d.Types))
	defs = append(defs, d.Accounts...)
	return append(defs, d.Types...)
}
