// Package config implements pit's process-wide settings store: a sectioned
// TOML file under the platform data directory, with dotted keys mapping to
// section/key pairs and environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iaptsiauri/pit/internal/util"
)

// FileName is the name of the config file under the data directory.
const FileName = "config.toml"

// Store is a dotted-key settings store backed by a sectioned TOML file.
type Store struct {
	path string
}

// New returns a Store rooted at dataDir/config.toml.
func New(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, FileName)}
}

// Open discovers the platform data directory and returns a Store for it.
func Open() (*Store, error) {
	dataDir, err := util.DataDir()
	if err != nil {
		return nil, err
	}
	return New(dataDir), nil
}

// Path returns the config file's location.
func (s *Store) Path() string {
	return s.path
}

// DataDir returns the directory containing the config file.
func (s *Store) DataDir() string {
	return filepath.Dir(s.path)
}

// envKey turns a dotted key like "github.token" into GITHUB_TOKEN.
func envKey(key string) string {
	b := []byte(key)
	for i, c := range b {
		switch {
		case c == '.':
			b[i] = '_'
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// splitKey splits a dotted key into its section and leaf name. A key with
// no dot lives in the unnamed top-level section.
func splitKey(key string) (section, leaf string) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '.' {
			return key[:i], key[i+1:]
		}
	}
	return "", key
}

// document is the raw decoded TOML tree: each value is either a bare
// top-level string (a sectionless key) or a nested table decoded as
// map[string]any (a section). Using interface{} values here, rather than a
// fixed map[string]map[string]string, lets BurntSushi/toml encode bare
// top-level keys as plain "key = value" lines instead of forcing every key
// into a table — including one named after the empty string, which isn't
// what spec.md's "top-level keys have no section" format means.
type document map[string]any

// Get resolves key, consulting the environment override first. An empty
// environment value is treated as unset. Returns ok=false if the key is
// set nowhere.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	if v := os.Getenv(envKey(key)); v != "" {
		return v, true, nil
	}

	doc, err := s.load()
	if err != nil {
		return "", false, err
	}
	section, leaf := splitKey(key)
	if section == "" {
		v, ok := doc[leaf].(string)
		return v, ok, nil
	}
	sec, ok := doc[section].(map[string]any)
	if !ok {
		return "", false, nil
	}
	v, ok := sec[leaf].(string)
	return v, ok, nil
}

// Set writes key=value to the file, preserving sectioning and sorted keys.
func (s *Store) Set(key, value string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	section, leaf := splitKey(key)
	if section == "" {
		doc[leaf] = value
	} else {
		sec, ok := doc[section].(map[string]any)
		if !ok {
			sec = map[string]any{}
		}
		sec[leaf] = value
		doc[section] = sec
	}
	return s.save(doc)
}

// Unset removes key from the file. Removing an absent key is not an error.
func (s *Store) Unset(key string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	section, leaf := splitKey(key)
	if section == "" {
		delete(doc, leaf)
		return s.save(doc)
	}
	if sec, ok := doc[section].(map[string]any); ok {
		delete(sec, leaf)
		if len(sec) == 0 {
			delete(doc, section)
		} else {
			doc[section] = sec
		}
	}
	return s.save(doc)
}

// List returns every recognized key in the file, as dotted keys, mapped to
// their value. Environment overrides are not reflected here; List is a
// file-contents query.
func (s *Store) List() (map[string]string, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for key, v := range doc {
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			for leaf, vv := range val {
				if s, ok := vv.(string); ok {
					out[key+"."+leaf] = s
				}
			}
		}
	}
	return out, nil
}

func (s *Store) load() (document, error) {
	doc := document{}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return doc, nil
	}

	if _, err := toml.DecodeFile(s.path, &doc); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return doc, nil
}

func (s *Store) save(doc document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(doc)
}
