package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"kidtodo/internal/clock"
	"kidtodo/internal/model"
)

const (
	// StorageKey is the record key kept compatible with earlier app versions.
	StorageKey = "kids_todos_v2"
	// ExportFileName is the suggested name of a manual backup.
	ExportFileName = "kids-todo-backup.json"
)

// Codec reads and writes the whole collection as one record.
type Codec struct {
	backend Backend
	key     string
	clock   clock.Clock
	ids     clock.IDSource
}

// Option customizes a Codec.
type Option func(*Codec)

// WithKey overrides StorageKey.
func WithKey(key string) Option {
	return func(c *Codec) {
		if key != "" {
			c.key = key
		}
	}
}

// WithClock sets the clock used to default missing creation times.
func WithClock(clk clock.Clock) Option {
	return func(c *Codec) { c.clock = clk }
}

// WithIDs sets the source used to mint ids for records that lack one.
func WithIDs(ids clock.IDSource) Option {
	return func(c *Codec) { c.ids = ids }
}

func NewCodec(backend Backend, opts ...Option) *Codec {
	c := &Codec{
		backend: backend,
		key:     StorageKey,
		clock:   clock.System(),
		ids:     clock.UUIDs(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the stored collection. A missing, unreadable or malformed
// record yields the default projects and no tasks; Load never fails.
func (c *Codec) Load() model.Snapshot {
	raw, err := c.backend.Get(c.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("persist: could not read %q, starting fresh: %v", c.key, err)
		}
		return defaultSnapshot()
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Printf("persist: record %q is not valid JSON, starting fresh: %v", c.key, err)
		return defaultSnapshot()
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		log.Printf("persist: record %q is not an object, starting fresh", c.key)
		return defaultSnapshot()
	}
	return c.normalize(obj)
}

// Save overwrites the record with snap in a single write.
func (c *Codec) Save(snap model.Snapshot) error {
	if snap.Projects == nil {
		snap.Projects = []string{}
	}
	if snap.Todos == nil {
		snap.Todos = []model.Task{}
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := c.backend.Put(c.key, b); err != nil {
		return fmt.Errorf("write record %q: %w", c.key, err)
	}
	return nil
}

// Export writes snap as an indented JSON document with the record's shape.
func Export(w io.Writer, snap model.Snapshot) error {
	if snap.Todos == nil {
		snap.Todos = []model.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// ExportFile writes a backup to path, replacing any existing file.
func ExportFile(path string, snap model.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()
	return Export(f, snap)
}

func defaultSnapshot() model.Snapshot {
	return model.Snapshot{Projects: model.DefaultProjects(), Todos: []model.Task{}}
}
