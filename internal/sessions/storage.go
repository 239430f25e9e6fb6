package sessions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const storageVersion = "1.0"

// Storage is the durable key-value backing of a Store.
type Storage interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key string, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}

// storageDocument is the on-disk layout of a FileStorage.
type storageDocument struct {
	Version   string            `yaml:"version"`
	Timestamp time.Time         `yaml:"timestamp"`
	Values    map[string]string `yaml:"values"`
}

// FileStorage keeps values in a YAML file, one file per backend host.
type FileStorage struct {
	path string
}

// NewFileStorage returns storage backed by <dir>/<host>.yaml. The directory
// is created on first write.
func NewFileStorage(dir string, host string) *FileStorage {
	host = strings.NewReplacer(":", "_", "/", "_").Replace(host)
	if len(host) == 0 {
		host = "default"
	}
	return &FileStorage{
		path: filepath.Join(expandHome(dir), fmt.Sprintf("%s.yaml", host)),
	}
}

// Path returns the file backing this storage.
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Get(key string) (string, bool, error) {
	doc, err := f.read()
	if err != nil {
		return "", false, err
	}
	value, ok := doc.Values[key]
	return value, ok, nil
}

func (f *FileStorage) Set(key string, value string) error {
	doc, err := f.read()
	if err != nil {
		// A corrupt file is replaced rather than blocking a write.
		logrus.WithError(err).WithField("path", f.path).
			Warnln("Discarding unreadable session file")
		doc = newStorageDocument()
	}
	doc.Values[key] = value
	return f.write(doc)
}

func (f *FileStorage) Remove(key string) error {
	doc, err := f.read()
	if err != nil {
		logrus.WithError(err).WithField("path", f.path).
			Warnln("Discarding unreadable session file")
		doc = newStorageDocument()
	} else if _, ok := doc.Values[key]; !ok {
		return nil
	}
	delete(doc.Values, key)
	return f.write(doc)
}

func (f *FileStorage) read() (*storageDocument, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return newStorageDocument(), nil
	}
	if err != nil {
		return nil, err
	}

	doc := newStorageDocument()
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", f.path, err)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}
	return doc, nil
}

// write replaces the file atomically so readers never observe a partial
// document.
func (f *FileStorage) write(doc *storageDocument) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	doc.Version = storageVersion
	doc.Timestamp = time.Now().UTC()

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set session file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return os.Rename(tmp.Name(), f.path)
}

func newStorageDocument() *storageDocument {
	return &storageDocument{
		Version: storageVersion,
		Values:  make(map[string]string),
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// MemoryStorage is a Storage that lives only as long as the process.
type MemoryStorage struct {
	lock   sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryStorage) Set(key string, value string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.values, key)
	return nil
}
