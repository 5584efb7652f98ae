package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator confines local document paths to a configured directory
type PathValidator struct {
	documentDirectory string
}

// NewPathValidator creates a validator rooted at documentDirectory
func NewPathValidator(documentDirectory string) (*PathValidator, error) {
	if documentDirectory == "" {
		return nil, fmt.Errorf("document directory cannot be empty")
	}

	return &PathValidator{
		documentDirectory: documentDirectory,
	}, nil
}

// DocumentDirectory returns the directory documents are confined to
func (v *PathValidator) DocumentDirectory() string {
	return v.documentDirectory
}

// ValidatePath checks that path resolves inside the document directory
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return fmt.Errorf("path contains a null byte")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	within, err := v.IsWithinDirectory(absPath)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return fmt.Errorf("path is outside document directory: %s", path)
	}

	return nil
}

// IsWithinDirectory reports whether path, and its symlink target if any, lie
// inside the document directory
func (v *PathValidator) IsWithinDirectory(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	absDir, err := filepath.Abs(v.documentDirectory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve document directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(absDir)

	realPath := cleanPath
	if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
		realPath = resolved
	}
	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	within := func(p string) bool {
		return isUnder(p, cleanDir) || isUnder(p, realDir)
	}

	return within(cleanPath) && within(realPath), nil
}

// NormalizePath resolves a relative path against the document directory and validates it
func (v *PathValidator) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.documentDirectory, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if err := v.ValidatePath(absPath); err != nil {
		return "", err
	}

	return absPath, nil
}

func isUnder(path, dir string) bool {
	if path == dir {
		return true
	}
	withSep := dir
	if !strings.HasSuffix(withSep, string(filepath.Separator)) {
		withSep += string(filepath.Separator)
	}
	return strings.HasPrefix(path, withSep)
}

// ReadDocumentFile reads a validated document file, refusing files larger than maxSize
func (v *PathValidator) ReadDocumentFile(path string, maxSize int64) ([]byte, error) {
	normalized, err := v.NormalizePath(path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	info, err := os.Stat(normalized)
	if err != nil {
		return nil, fmt.Errorf("cannot access document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory: %s", path)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("document too large: %d bytes (max: %d bytes)", info.Size(), maxSize)
	}

	data, err := os.ReadFile(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}
