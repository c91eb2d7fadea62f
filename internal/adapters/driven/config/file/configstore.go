package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Keys the engine reads. "config set" accepts only these.
const (
	// KeyDataDir is the directory holding the SQLite metadata database.
	KeyDataDir = "storage.data_dir"

	// KeyBlobDir is the root directory for payloads and page artifacts.
	KeyBlobDir = "storage.blob_dir"
)

// Keys returns the known configuration keys.
func Keys() []string {
	return []string{KeyDataDir, KeyBlobDir}
}

// ConfigStore keeps pagevault settings in a TOML file, by default
// ~/.pagevault/config.toml. A dotted key addresses a value inside nested
// TOML tables: "storage.data_dir" reads data_dir from the [storage] table.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	tree     map[string]any
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.pagevault/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".pagevault")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		tree:     make(map[string]any),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves a configuration value by dotted key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node := any(s.tree)
	for _, part := range strings.Split(key, ".") {
		table, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		if node, ok = table[part]; !ok {
			return nil, false
		}
	}
	return node, true
}

// GetString retrieves a string configuration value. Missing keys and
// non-string values read as "".
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// Set stores a configuration value under a dotted key, creating intermediate
// tables as needed, and persists immediately. Setting a key through an
// existing non-table value is an error.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.Split(key, ".")
	table := s.tree
	for _, part := range parts[:len(parts)-1] {
		child, ok := table[part]
		if !ok {
			next := make(map[string]any)
			table[part] = next
			table = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("config key %q: %q is not a table", key, part)
		}
		table = next
	}
	table[parts[len(parts)-1]] = value

	return s.save()
}

// save writes the tree to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.tree)
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// load reads the TOML file into the tree. A missing file starts empty.
func (s *ConfigStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.tree = make(map[string]any)
			return nil
		}
		return err
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return err
	}
	if tree == nil {
		tree = make(map[string]any)
	}
	s.tree = tree
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
