package codegen

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/jackalchenxu/parse-idl/internal/common"
	"github.com/jackalchenxu/parse-idl/internal/idl"
	"github.com/jackalchenxu/parse-idl/pkg/utils"
)

// Identifiers declared by every generated file.
const (
	ProgramIDConst       = "ID"
	ProgramKeyVar        = "ProgramID"
	DiscriminatorType    = "Discriminator"
	NewDiscriminatorFunc = "NewDiscriminator"
)

// HeaderComment marks generated files.
const HeaderComment = "Code generated by parse-idl. DO NOT EDIT."

// DeclNames holds the identifiers of the declarations every generated file
// starts with. They only differ from the defaults when a definition of the
// document already uses one of them.
type DeclNames struct {
	ProgramID        string
	ProgramKey       string
	Discriminator    string
	NewDiscriminator string
}

// DefaultDeclNames returns ID, ProgramID, Discriminator and NewDiscriminator.
func DefaultDeclNames() DeclNames {
	return DeclNames{
		ProgramID:        ProgramIDConst,
		ProgramKey:       ProgramKeyVar,
		Discriminator:    DiscriminatorType,
		NewDiscriminator: NewDiscriminatorFunc,
	}
}

// Emitter writes Go declarations into a jennifer file.
type Emitter struct {
	common.LoggerMixin
	File  *jen.File
	Decls DeclNames
}

// NewEmitter creates an emitter for a new file in package packageName.
func NewEmitter(packageName string) *Emitter {
	file := jen.NewFile(packageName)
	file.HeaderComment(HeaderComment)
	file.ImportAlias(BinaryPath, "bin")
	file.ImportName(SolanaPath, "solana")

	return &Emitter{
		LoggerMixin: common.NewLoggerMixin(),
		File:        file,
		Decls:       DefaultDeclNames(),
	}
}

// EmitProgramID declares the program address verbatim, plus a decoded
// solana.PublicKey when the address is valid base58.
func (e *Emitter) EmitProgramID(address string, validKey bool) {
	e.File.Comment(e.Decls.ProgramID + " is the program address.")
	e.File.Const().Id(e.Decls.ProgramID).Op("=").Lit(address)

	if validKey {
		e.File.Line()
		e.File.Var().Id(e.Decls.ProgramKey).Op("=").Qual(SolanaPath, "MustPublicKeyFromBase58").Call(jen.Id(e.Decls.ProgramID))
	}
	e.File.Line()
}

// EmitDiscriminatorTable declares the Discriminator map type and its
// constructor with one entry per table row, in table order.
func (e *Emitter) EmitDiscriminatorTable(table DiscriminatorTable) {
	key := jen.Index(jen.Lit(8)).Byte()
	typ := e.Decls.Discriminator

	e.File.Comment(typ + " maps instruction discriminators to instruction names.")
	e.File.Type().Id(typ).Map(key.Clone()).String()
	e.File.Line()

	body := []jen.Code{
		jen.Id("h").Op(":=").Make(jen.Id(typ), jen.Lit(len(table))),
	}
	for _, entry := range table {
		values := make([]jen.Code, len(entry.Discriminator))
		for i, b := range entry.Discriminator {
			values[i] = jen.Lit(int(b))
		}
		body = append(body,
			jen.Id("h").Index(key.Clone().Values(values...)).Op("=").Lit(entry.Name),
		)
	}
	body = append(body, jen.Return(jen.Id("h")))

	e.File.Func().Id(e.Decls.NewDiscriminator).Params().Id(typ).Block(body...)
	e.File.Line()
}

// EmitDefinition emits a struct or enum definition under its IDL name.
func (e *Emitter) EmitDefinition(def idl.TypeDef, unresolved UnresolvedSet) {
	switch {
	case def.Type.IsStruct():
		e.EmitStruct(def.Name, def.Type.Fields, unresolved)
	case def.Type.IsEnum():
		e.EmitEnum(def.Name, def.Type.Variants, unresolved)
	}
}

// EmitStruct emits a struct with one field per IDL field, in IDL order.
func (e *Emitter) EmitStruct(name string, fields []idl.Field, unresolved UnresolvedSet) {
	e.File.Type().Id(name).Struct(structFields(fields, unresolved)...)
	e.File.Line()
}

// EmitEnum emits an enum. Unit-only enums become uint8 constants;
// enums with payload variants become an interface with one struct per
// variant.
func (e *Emitter) EmitEnum(name string, variants []idl.EnumVariant, unresolved UnresolvedSet) {
	if hasPayload(variants) {
		e.GetLogger().Debug("emitting enum as tagged union", "enum", name)
		e.emitComplexEnum(name, variants, unresolved)
		return
	}
	e.emitSimpleEnum(name, variants)
}

func hasPayload(variants []idl.EnumVariant) bool {
	for _, v := range variants {
		if v.HasFields() {
			return true
		}
	}
	return false
}

// DeclaredIdentifiers returns the package-level identifiers EmitDefinition
// declares for def.
func DeclaredIdentifiers(def idl.TypeDef) []string {
	idents := []string{def.Name}
	if !def.Type.IsEnum() {
		return idents
	}
	for _, v := range def.Type.Variants {
		idents = append(idents, VariantName(def.Name, v.Name))
	}
	if hasPayload(def.Type.Variants) {
		idents = append(idents, DecodeFuncName(def.Name), EncodeFuncName(def.Name))
	}
	return idents
}

// emitSimpleEnum generates a simple enum (no variant fields).
// Example:
//
//	type Status uint8
//	const (
//	    StatusPending Status = 0
//	    StatusActive  Status = 1
//	)
func (e *Emitter) emitSimpleEnum(name string, variants []idl.EnumVariant) {
	e.File.Type().Id(name).Uint8()
	e.File.Line()

	if len(variants) > 0 {
		defs := make([]jen.Code, 0, len(variants))
		for i, v := range variants {
			defs = append(defs, jen.Id(VariantName(name, v.Name)).Id(name).Op("=").Lit(i))
		}
		e.File.Const().Defs(defs...)
		e.File.Line()
	}

	cases := make([]jen.Code, 0, len(variants)+1)
	for _, v := range variants {
		cases = append(cases, jen.Case(jen.Id(VariantName(name, v.Name))).Block(
			jen.Return(jen.Lit(v.Name)),
		))
	}
	cases = append(cases, jen.Default().Block(
		jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit(name+"(%d)"), jen.Id("uint8").Call(jen.Id("e")))),
	))

	e.File.Func().Params(jen.Id("e").Id(name)).Id("String").Params().String().Block(
		jen.Switch(jen.Id("e")).Block(cases...),
	)
	e.File.Line()
}

// emitComplexEnum generates a tagged union.
// Example:
//
//	type Action interface {
//	    isAction()
//	}
//
//	type ActionTransfer struct {
//	    Amount uint64
//	}
//	func (*ActionTransfer) isAction() {}
//
// The binary decoder skips interface values, so DecodeAction and
// EncodeAction read and write the u8 variant index followed by the
// variant fields.
func (e *Emitter) emitComplexEnum(name string, variants []idl.EnumVariant, unresolved UnresolvedSet) {
	marker := "is" + name

	e.File.Type().Id(name).Interface(jen.Id(marker).Params())
	e.File.Line()

	for _, v := range variants {
		variantType := VariantName(name, v.Name)
		e.File.Type().Id(variantType).Struct(structFields(v.Fields, unresolved)...)
		e.File.Line()
		e.File.Func().Params(jen.Op("*").Id(variantType)).Id(marker).Params().Block()
		e.File.Line()
	}

	e.emitUnionDecoder(name, variants)
	e.emitUnionEncoder(name, variants)
}

func (e *Emitter) emitUnionDecoder(name string, variants []idl.EnumVariant) {
	cases := make([]jen.Code, 0, len(variants)+1)
	for i, v := range variants {
		cases = append(cases, jen.Case(jen.Lit(i)).Block(
			jen.Id("v").Op("=").New(jen.Id(VariantName(name, v.Name))),
		))
	}
	cases = append(cases, jen.Default().Block(
		jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(jen.Lit("unknown "+name+" variant %d"), jen.Id("tag"))),
	))

	fn := DecodeFuncName(name)
	e.File.Comment(fn + " reads a " + name + " variant index followed by its fields.")
	e.File.Func().Id(fn).Params(jen.Id("dec").Op("*").Qual(BinaryPath, "Decoder")).Params(jen.Id(name), jen.Error()).Block(
		jen.List(jen.Id("tag"), jen.Err()).Op(":=").Id("dec").Dot("ReadUint8").Call(),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Var().Id("v").Id(name),
		jen.Switch(jen.Id("tag")).Block(cases...),
		jen.If(jen.Err().Op(":=").Id("dec").Dot("Decode").Call(jen.Id("v")), jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Id("v"), jen.Nil()),
	)
	e.File.Line()
}

func (e *Emitter) emitUnionEncoder(name string, variants []idl.EnumVariant) {
	cases := make([]jen.Code, 0, len(variants)+1)
	for i, v := range variants {
		cases = append(cases, jen.Case(jen.Op("*").Id(VariantName(name, v.Name))).Block(
			jen.Id("tag").Op("=").Lit(i),
		))
	}
	cases = append(cases, jen.Default().Block(
		jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("unknown "+name+" variant %T"), jen.Id("v"))),
	))

	fn := EncodeFuncName(name)
	e.File.Comment(fn + " writes the variant index of v followed by its fields.")
	e.File.Func().Id(fn).Params(jen.Id("enc").Op("*").Qual(BinaryPath, "Encoder"), jen.Id("v").Id(name)).Error().Block(
		jen.Var().Id("tag").Uint8(),
		jen.Switch(jen.Id("v").Assert(jen.Type())).Block(cases...),
		jen.If(jen.Err().Op(":=").Id("enc").Dot("WriteUint8").Call(jen.Id("tag")), jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Err()),
		),
		jen.Return(jen.Id("enc").Dot("Encode").Call(jen.Id("v"))),
	)
	e.File.Line()
}

// DecodeFuncName returns the name of the decoder generated for a tagged union.
func DecodeFuncName(enumName string) string { return "Decode" + enumName }

// EncodeFuncName returns the name of the encoder generated for a tagged union.
func EncodeFuncName(enumName string) string { return "Encode" + enumName }

// VariantName formats an enum variant identifier.
// Examples:
//   - Status + pending -> StatusPending
//   - Action + Transfer -> ActionTransfer
func VariantName(enumName, variantName string) string {
	return enumName + utils.ToPascalCase(variantName)
}

// structFields maps IDL fields to struct fields. Identifiers are exported
// PascalCase; the snake_case IDL name is the wire name in the tags. Tuple
// members are named T0, T1, ... Identifiers and wire names that collide
// get a numeric suffix.
func structFields(fields []idl.Field, unresolved UnresolvedSet) []jen.Code {
	used := make(map[string]bool, len(fields))
	usedWire := make(map[string]bool, len(fields))
	out := make([]jen.Code, 0, len(fields))

	for i, field := range fields {
		ident := FieldName(field.Name, i)
		for n := 2; used[ident]; n++ {
			ident = FieldName(field.Name, i) + strconv.Itoa(n)
		}
		used[ident] = true

		base := utils.ToSnakeCase(field.Name)
		if base == "" {
			base = utils.ToSnakeCase(ident)
		}
		wire := base
		for n := 2; usedWire[wire]; n++ {
			wire = base + strconv.Itoa(n)
		}
		usedWire[wire] = true

		out = append(out, jen.Id(ident).Add(MapType(field.Type, unresolved)).Tag(FieldTags(wire, field.Type)))
	}
	return out
}

// FieldName returns the Go identifier for the field at index.
func FieldName(name string, index int) string {
	ident := utils.ToPascalCase(name)
	if ident == "" {
		return fmt.Sprintf("T%d", index)
	}
	if !unicode.IsLetter([]rune(ident)[0]) {
		return "F" + ident
	}
	return ident
}

// FieldTags returns the struct tags for a field with wire name wire.
func FieldTags(wire string, t idl.TypeExpr) map[string]string {
	tags := map[string]string{
		"json":  wire,
		"borsh": wire,
	}
	if _, ok := t.(idl.Option); ok {
		tags["bin"] = "optional"
	}
	return tags
}
