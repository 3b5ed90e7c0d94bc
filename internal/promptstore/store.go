// Package promptstore persists saved prompts as text files in a directory
package promptstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Store reads and writes named prompts under a single directory
type Store struct {
	dir string
}

// New creates a Store rooted at dir
func New(dir string) *Store {
	return &Store{dir: dir}
}

// validateName rejects names that would escape the prompt directory
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("prompt name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid prompt name: %s", name)
	}
	return nil
}

// List returns the sorted names of all saved prompts
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading prompt directory %s", s.dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".txt"))
	}
	sort.Strings(names)

	return names, nil
}

// Get returns the content of a saved prompt
func (s *Store) Get(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", errors.Wrapf(err, "reading prompt %s", name)
	}

	return string(data), nil
}

// Save writes a prompt, creating the directory on first use
func (s *Store) Save(name, content string) error {
	if err := validateName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating prompt directory %s", s.dir)
	}

	path := filepath.Join(s.dir, name+".txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "writing prompt %s", name)
	}

	return nil
}
