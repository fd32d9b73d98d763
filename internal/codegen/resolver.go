// Package codegen translates IDL documents into Go declarations.
//
// A translation emits, in order: the program address, the instruction
// discriminator table, one argument struct per instruction that takes
// arguments, and the definitions those structs reach. Definitions are
// emitted only when referenced, and resolution makes a single pass over
// the account definitions followed by a single pass over the auxiliary
// type definitions.
package codegen

import (
	"log/slog"

	"github.com/dave/jennifer/jen"
	"github.com/gagliardetto/solana-go"

	"github.com/jackalchenxu/parse-idl/internal/common"
	"github.com/jackalchenxu/parse-idl/internal/idl"
	"github.com/jackalchenxu/parse-idl/pkg/utils"
)

// Phase is a state of the resolution driver.
type Phase int

const (
	PhaseInstructions Phase = iota
	PhaseAccounts
	PhaseTypes
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInstructions:
		return "instructions"
	case PhaseAccounts:
		return "accounts"
	case PhaseTypes:
		return "types"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Options configures a translation.
type Options struct {
	// PackageName is the package clause of the generated file.
	PackageName string

	// Source names the document in log records.
	Source string

	Logger *slog.Logger
}

// Result is the outcome of translating one document.
type Result struct {
	Source      string
	PackageName string

	// Address is metadata.address, verbatim.
	Address string

	// ProgramKeyValid reports whether Address decodes as a public key.
	ProgramKeyValid bool

	// Decls names the preamble declarations of the file.
	Decls DeclNames

	Table DiscriminatorTable

	// ArgStructs lists argument struct names in instruction order.
	ArgStructs []string

	// Emitted lists resolved definition names in emission order.
	Emitted []string

	// Unresolved lists names still unresolved after the last phase, sorted.
	Unresolved []string

	File *jen.File
}

// Resolver drives the translation of one document through its phases.
type Resolver struct {
	common.LoggerMixin

	doc        *idl.IDL
	emitter    *Emitter
	unresolved UnresolvedSet
	phase      Phase
	taken      map[string]bool
	result     *Result
}

// NewResolver validates the document metadata and emits the file preamble:
// program address and discriminator table. A document without a string
// metadata.address is rejected before anything is emitted.
func NewResolver(doc *idl.IDL, opts Options) (*Resolver, error) {
	address, err := doc.ProgramAddress()
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		LoggerMixin: common.NewLoggerMixin(),
		doc:         doc,
		emitter:     NewEmitter(opts.PackageName),
		unresolved:  NewUnresolvedSet(),
		phase:       PhaseInstructions,
	}
	r.SetLogger(opts.Logger)
	r.emitter.SetLogger(opts.Logger)
	r.reserveNames(opts.Source)

	_, keyErr := solana.PublicKeyFromBase58(address)
	if keyErr != nil {
		r.GetLogger().Warn("program address is not a valid public key",
			"document", opts.Source, "address", address, "error", keyErr)
	}

	table := BuildDiscriminatorTable(doc.Instructions)

	r.result = &Result{
		Source:          opts.Source,
		PackageName:     opts.PackageName,
		Address:         address,
		ProgramKeyValid: keyErr == nil,
		Decls:           r.emitter.Decls,
		Table:           table,
		File:            r.emitter.File,
	}

	r.emitter.EmitProgramID(address, keyErr == nil)
	r.emitter.EmitDiscriminatorTable(table)

	return r, nil
}

// Translate runs every phase over doc.
func Translate(doc *idl.IDL, opts Options) (*Result, error) {
	r, err := NewResolver(doc, opts)
	if err != nil {
		return nil, err
	}
	return r.Run(), nil
}

// Phase returns the phase the next Step will run.
func (r *Resolver) Phase() Phase {
	return r.phase
}

// Unresolved returns the live set of unresolved names.
func (r *Resolver) Unresolved() UnresolvedSet {
	return r.unresolved
}

// Step runs the current phase and returns the next one. Stepping a
// finished resolver does nothing.
func (r *Resolver) Step() Phase {
	switch r.phase {
	case PhaseInstructions:
		r.scanInstructions()
	case PhaseAccounts:
		r.scanDefinitions(r.doc.Accounts)
	case PhaseTypes:
		r.scanDefinitions(r.doc.Types)
	case PhaseDone:
		return r.phase
	}

	r.phase++
	if r.phase == PhaseDone {
		r.finish()
	}
	return r.phase
}

// Run steps until PhaseDone and returns the result.
func (r *Resolver) Run() *Result {
	for r.phase != PhaseDone {
		r.Step()
	}
	return r.result
}

// scanInstructions emits one argument struct per instruction with
// arguments. These structs are the roots of every reference.
func (r *Resolver) scanInstructions() {
	for _, ix := range r.doc.Instructions {
		if len(ix.Args) == 0 {
			continue
		}

		name := r.argStructName(ix.Name)
		r.emitter.EmitStruct(name, ix.Args, r.unresolved)
		r.result.ArgStructs = append(r.result.ArgStructs, name)
	}
}

// scanDefinitions emits each definition whose name is currently
// unresolved, in document order. Names added while scanning are not
// revisited, so a definition that is only referenced by a later entry of
// the same collection stays unresolved.
func (r *Resolver) scanDefinitions(defs []idl.TypeDef) {
	for _, def := range defs {
		if !r.unresolved.Contains(def.Name) {
			continue
		}

		r.GetLogger().Debug("emitting definition", "phase", r.phase.String(), "type", def.Name)
		r.emitter.EmitDefinition(def, r.unresolved)
		r.unresolved.Remove(def.Name)
		r.result.Emitted = append(r.result.Emitted, def.Name)
	}
}

func (r *Resolver) finish() {
	r.result.Unresolved = r.unresolved.Names()
	for _, name := range r.result.Unresolved {
		r.GetLogger().Warn("unresolved type", "type", name, "document", r.result.Source)
	}
}

// argStructName returns PascalCase(name), suffixed with "Args" until it
// no longer clashes with an emitted definition, a generated identifier, or
// an earlier argument struct.
func (r *Resolver) argStructName(ixName string) string {
	name := utils.ToPascalCase(ixName)
	if name == "" {
		name = "Instruction"
	}
	for r.taken[name] {
		name += "Args"
	}
	r.taken[name] = true
	return name
}

// reserveNames records every package-level identifier the definitions
// will declare, then renames preamble declarations that collide with them
// by appending "_".
func (r *Resolver) reserveNames(source string) {
	r.taken = make(map[string]bool)
	for _, def := range PlanDefinitions(r.doc) {
		for _, ident := range DeclaredIdentifiers(def) {
			if r.taken[ident] {
				r.GetLogger().Warn("identifier declared twice", "document", source, "identifier", ident, "type", def.Name)
			}
			r.taken[ident] = true
		}
	}

	decls := &r.emitter.Decls
	for _, ident := range []*string{&decls.ProgramID, &decls.ProgramKey, &decls.Discriminator, &decls.NewDiscriminator} {
		original := *ident
		for r.taken[*ident] {
			*ident += "_"
		}
		if *ident != original {
			r.GetLogger().Warn("definition shadows a generated declaration",
				"document", source, "identifier", original, "renamed", *ident)
		}
		r.taken[*ident] = true
	}
}

// PlanDefinitions returns the definitions a translation of doc emits, in
// emission order, without emitting anything. It follows the same single
// pass over accounts and then types as the resolver.
func PlanDefinitions(doc *idl.IDL) []idl.TypeDef {
	pending := NewUnresolvedSet()
	for _, ix := range doc.Instructions {
		for _, arg := range ix.Args {
			CollectDefined(arg.Type, pending)
		}
	}

	var planned []idl.TypeDef
	for _, defs := range [][]idl.TypeDef{doc.Accounts, doc.Types} {
		for _, def := range defs {
			if !pending.Contains(def.Name) {
				continue
			}
			for _, f := range definitionFields(def) {
				CollectDefined(f.Type, pending)
			}
			pending.Remove(def.Name)
			planned = append(planned, def)
		}
	}
	return planned
}

func definitionFields(def idl.TypeDef) []idl.Field {
	switch {
	case def.Type.IsStruct():
		return def.Type.Fields
	case def.Type.IsEnum():
		var fields []idl.Field
		for _, v := range def.Type.Variants {
			fields = append(fields, v.Fields...)
		}
		return fields
	}
	return nil
}
