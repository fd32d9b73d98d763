package idl

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackalchenxu/parse-idl/internal/errors"
)

// ParseIDLFile reads and parses an IDL document from disk.
func ParseIDLFile(filePath string) (*IDL, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.ParseFailed(filePath, err)
	}

	idl, err := ParseIDL(data)
	if err != nil {
		return nil, errors.Wrap(err, filePath)
	}
	return idl, nil
}

// ParseIDL parses an IDL document. Only structure is checked here; metadata
// is validated when the document is translated.
func ParseIDL(data []byte) (*IDL, error) {
	var idl IDL
	if err := json.Unmarshal(data, &idl); err != nil {
		if errors.Is(err, errors.ErrUnsupportedType) || errors.Is(err, errors.ErrParseFailed) {
			return nil, err
		}
		return nil, errors.ParseFailed("IDL JSON", err)
	}

	return &idl, nil
}

// FindIDLFiles returns the regular files with a .json extension directly
// inside dir, sorted by path. Subdirectories are not searched.
func FindIDLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.DiscoveryFailed(dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	return files, nil
}

// Stem returns the file name of path without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
