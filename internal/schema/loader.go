package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LoadFile reads and parses one JSON schema document.
func LoadFile(path string) (*ResourceSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema document %s: %w", path, err)
	}
	s, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadDirectory parses every .json schema document directly under dir, in
// name order so registration is deterministic.
func LoadDirectory(dir string) ([]*ResourceSchema, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	schemas := make([]*ResourceSchema, 0, len(paths))
	for _, path := range paths {
		s, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}
