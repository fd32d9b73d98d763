package codegen

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/jackalchenxu/parse-idl/internal/errors"
)

// Render renders the generated file as gofmt'd source.
func (r *Result) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.File.Render(&buf); err != nil {
		return nil, errors.Wrap(err, "render "+r.Source)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the file and writes it to path, creating parent
// directories. Rendering completes before the file is created, so a render
// failure leaves nothing on disk.
func (r *Result) WriteFile(path string) error {
	data, err := r.Render()
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
