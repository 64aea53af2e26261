package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSON-backed file storage. Single file per value, human-readable.
// No locking; callers are a single local user.

// Load decodes the file at path into a T. A missing file yields found=false
// and no error.
func Load[T any](path string) (v T, found bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return v, false, nil
		}
		return v, false, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, false, fmt.Errorf("json unmarshal: %w", err)
	}
	return v, true, nil
}

// Save writes v as indented JSON, creating the parent directory with dirPerm.
func Save[T any](path string, v T, dirPerm, filePerm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(path, b, filePerm); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Remove deletes the file at path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
