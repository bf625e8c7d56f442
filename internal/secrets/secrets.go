// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text files.
// Each file holds one secret: the filename is the key and the trimmed file
// contents are the value.
//
// Recognised keys: ncbi-api-key, ncbi-email.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDir is where the CLI looks for secret files.
const DefaultDir = ".secrets/"

// KeyNCBIAPIKey names the file holding the E-utilities API key.
const KeyNCBIAPIKey = "ncbi-api-key"

// KeyNCBIEmail names the file holding the contact address NCBI asks heavy
// users to identify themselves with.
const KeyNCBIEmail = "ncbi-email"

// Store maps secret names to values.
type Store map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error and yields an empty Store. Unreadable files are reported to
// warn and skipped.
func Load(dir string, warn io.Writer) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Store)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Resolve returns explicit when it is set, otherwise the stored value for key.
// Explicit values come from flags, config or the environment and always win.
func (s Store) Resolve(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return s[key]
}

// Keys returns the loaded secret names in sorted order. Values are never
// exposed for display.
func (s Store) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
