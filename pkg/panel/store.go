package panel

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/roffe/gaugepanel/pkg/widgets"
)

// Document is the saved dashboard.
type Document struct {
	Widgets []CellDocument `json:"widgets" yaml:"widgets"`
}

type CellDocument struct {
	Type    string           `json:"type" yaml:"type"`
	Options *widgets.Options `json:"options" yaml:"options"`
}

type Store interface {
	Load() (*Document, error)
	Save(*Document) error
}

// FileStore keeps the document in a single file. The format follows the
// extension: .json is JSON, anything else YAML.
type FileStore struct {
	Path string
}

func (f *FileStore) isJSON() bool {
	return strings.EqualFold(filepath.Ext(f.Path), ".json")
}

// Load returns an empty document when the file does not exist yet.
func (f *FileStore) Load() (*Document, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Document{}, nil
		}
		return nil, err
	}
	doc := &Document{}
	if f.isJSON() {
		err = json.Unmarshal(data, doc)
	} else {
		err = yaml.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.Path, err)
	}
	return doc, nil
}

func (f *FileStore) Save(doc *Document) error {
	var data []byte
	var err error
	if f.isJSON() {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

// MemoryStore keeps the last saved document, for tests and ephemeral dashboards.
type MemoryStore struct {
	Doc   *Document
	Saves int
	Err   error

	mu sync.Mutex
}

func (m *MemoryStore) Load() (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Doc == nil {
		return &Document{}, nil
	}
	return m.Doc, nil
}

func (m *MemoryStore) Save(doc *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Doc = doc
	m.Saves++
	return nil
}
