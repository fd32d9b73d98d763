package pipeline

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jackalchenxu/parse-idl/internal/errors"
)

// Manifest describes the files produced by one run.
type Manifest struct {
	RunID     string             `yaml:"run_id"`
	Documents []ManifestDocument `yaml:"documents"`
}

// ManifestDocument describes one generated file.
type ManifestDocument struct {
	Source          string                `yaml:"source"`
	Output          string                `yaml:"output"`
	Package         string                `yaml:"package"`
	Version         string                `yaml:"version,omitempty"`
	ProgramID       string                `yaml:"program_id"`
	ValidProgramKey bool                  `yaml:"valid_program_key"`
	Instructions    []ManifestInstruction `yaml:"instructions"`
	ArgStructs      []string              `yaml:"arg_structs,omitempty"`
	Types           []string              `yaml:"types,omitempty"`
	Unresolved      []string              `yaml:"unresolved,omitempty"`
}

// ManifestInstruction pairs an instruction name with its hex discriminator.
type ManifestInstruction struct {
	Name          string `yaml:"name"`
	Discriminator string `yaml:"discriminator"`
}

// BuildManifest summarizes docs in the given order.
func BuildManifest(runID string, docs []*Document) *Manifest {
	m := &Manifest{
		RunID:     runID,
		Documents: make([]ManifestDocument, 0, len(docs)),
	}

	for _, doc := range docs {
		res := doc.Result
		instructions := make([]ManifestInstruction, 0, len(res.Table))
		for _, entry := range res.Table {
			instructions = append(instructions, ManifestInstruction{
				Name:          entry.Name,
				Discriminator: entry.Discriminator.String(),
			})
		}

		m.Documents = append(m.Documents, ManifestDocument{
			Source:          doc.Path,
			Output:          doc.OutPath,
			Package:         doc.Package,
			Version:         doc.Version,
			ProgramID:       res.Address,
			ValidProgramKey: res.ProgramKeyValid,
			Instructions:    instructions,
			ArgStructs:      res.ArgStructs,
			Types:           res.Emitted,
			Unresolved:      res.Unresolved,
		})
	}
	return m
}

// WriteManifest encodes m as YAML at path.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.WriteFailed(path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WriteFailed(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WriteFailed(path, err)
	}
	return nil
}

// ReadManifest decodes a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.ParseFailed(path, err)
	}
	return &m, nil
}
