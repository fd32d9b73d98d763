package codegen

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/jackalchenxu/parse-idl/internal/idl"
	"github.com/jackalchenxu/parse-idl/pkg/utils"
)

// GlobalNamespace is the sighash namespace Anchor uses for instructions.
const GlobalNamespace = "global"

// Discriminator is the 8-byte identifier of an instruction.
type Discriminator [8]byte

// String returns the discriminator as lowercase hex.
func (d Discriminator) String() string {
	return hex.EncodeToString(d[:])
}

// InstructionDiscriminator returns the first 8 bytes of
// sha256("global:" + snake_case(name)).
func InstructionDiscriminator(name string) Discriminator {
	preimage := GlobalNamespace + ":" + utils.ToSnakeCase(name)
	hash := sha256.Sum256([]byte(preimage))

	var disc Discriminator
	copy(disc[:], hash[:8])
	return disc
}

// DiscriminatorEntry maps one discriminator to a snake_case instruction name.
type DiscriminatorEntry struct {
	Discriminator Discriminator
	Name          string
}

// DiscriminatorTable lists instruction discriminators in document order.
type DiscriminatorTable []DiscriminatorEntry

// BuildDiscriminatorTable builds one entry per instruction. Collisions are
// not detected here.
func BuildDiscriminatorTable(instructions []idl.Instruction) DiscriminatorTable {
	table := make(DiscriminatorTable, 0, len(instructions))
	for _, ix := range instructions {
		table = append(table, DiscriminatorEntry{
			Discriminator: InstructionDiscriminator(ix.Name),
			Name:          utils.ToSnakeCase(ix.Name),
		})
	}
	return table
}

// Lookup returns the instruction name for a discriminator.
func (t DiscriminatorTable) Lookup(disc Discriminator) (string, bool) {
	for _, entry := range t {
		if entry.Discriminator == disc {
			return entry.Name, true
		}
	}
	return "", false
}

// Map returns the table as a map, the shape the generated code exposes.
func (t DiscriminatorTable) Map() map[Discriminator]string {
	m := make(map[Discriminator]string, len(t))
	for _, entry := range t {
		m[entry.Discriminator] = entry.Name
	}
	return m
}

// Identify returns the instruction whose discriminator prefixes data.
// Instruction data shorter than 8 bytes never matches.
func (t DiscriminatorTable) Identify(data []byte) (string, bool) {
	if len(data) < len(Discriminator{}) {
		return "", false
	}
	var disc Discriminator
	copy(disc[:], data)
	return t.Lookup(disc)
}
