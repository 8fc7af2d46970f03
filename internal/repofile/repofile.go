// Package repofile manages .todo-list link files, which point a directory
// tree at a task list stored elsewhere.
package repofile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const FileName = ".todo-list"

// Find walks up from startDir looking for a .todo-list file and returns the
// data dir it names, resolved against the directory holding the file.
// Returns ("", "", nil) if not found.
func Find(startDir string) (dataDir, dir string, err error) {
	dir = startDir
	for {
		target, err := Read(dir)
		if err != nil {
			return "", "", err
		}
		if target != "" {
			return Resolve(dir, target), dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", nil
		}
		dir = parent
	}
}

// Resolve makes a link target absolute relative to the directory of the link.
func Resolve(dir, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(dir, target)
}

// Write writes dataDir to dir/.todo-list.
func Write(dir, dataDir string) error {
	if strings.TrimSpace(dataDir) == "" {
		return fmt.Errorf("data dir is required")
	}
	return os.WriteFile(filepath.Join(dir, FileName), []byte(dataDir+"\n"), 0644)
}

// Read reads and trims the .todo-list file in dir.
// Returns ("", nil) if the file does not exist.
func Read(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Remove deletes dir/.todo-list. It reports whether a file was removed.
func Remove(dir string) (bool, error) {
	err := os.Remove(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
