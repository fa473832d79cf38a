// Package catalog persists finished materials. The resolver talks to a
// narrow Store interface keyed by material name; the canonical JSON form
// of package matdb is the stored blob.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cfdkit/matdb"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'matdb.catalog'.
func tracer() tracing.Trace {
	return tracing.Select("matdb.catalog")
}

// Store errors.
var (
	ErrDuplicateName = errors.New("material name already stored")
	ErrNotFound      = errors.New("material not found")
)

// Store is a key-value table of serialized materials, keyed by material
// name. Stores enforce uniqueness of names.
type Store interface {
	Put(name string, blob []byte) error
	Get(name string) ([]byte, error)
	Update(name string, blob []byte) error
	Delete(name string) error
	Names() ([]string, error)
	Close() error
}

// --- In-memory store -------------------------------------------------------

// MemStore is an in-memory Store, keeping insertion order of names.
type MemStore struct {
	blobs *linkedhashmap.Map
}

var _ Store = &MemStore{}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{blobs: linkedhashmap.New()}
}

// Put stores a new blob. Duplicate names are rejected.
func (ms *MemStore) Put(name string, blob []byte) error {
	if _, ok := ms.blobs.Get(name); ok {
		return fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	ms.blobs.Put(name, blob)
	return nil
}

// Get returns the blob for a name.
func (ms *MemStore) Get(name string) ([]byte, error) {
	blob, ok := ms.blobs.Get(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return blob.([]byte), nil
}

// Update replaces the blob for an existing name.
func (ms *MemStore) Update(name string, blob []byte) error {
	if _, ok := ms.blobs.Get(name); !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	ms.blobs.Put(name, blob)
	return nil
}

// Delete removes a name from the store.
func (ms *MemStore) Delete(name string) error {
	if _, ok := ms.blobs.Get(name); !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	ms.blobs.Remove(name)
	return nil
}

// Names lists all stored names in insertion order.
func (ms *MemStore) Names() ([]string, error) {
	keys := ms.blobs.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names, nil
}

// Close is a no-op for the in-memory store.
func (ms *MemStore) Close() error {
	return nil
}

// --- Catalog ---------------------------------------------------------------

// Catalog binds a store to the typed material model.
type Catalog struct {
	store Store
}

// New creates a catalog over a store.
func New(store Store) *Catalog {
	return &Catalog{store: store}
}

// Save serializes a material and stores it under its name.
func (c *Catalog) Save(m *matdb.Material) error {
	blob, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("cannot serialize material %q: %w", m.Name, err)
	}
	if err := c.store.Put(m.Name, blob); err != nil {
		return err
	}
	tracer().Debugf("stored material %q (%d bytes)", m.Name, len(blob))
	return nil
}

// SaveAll stores a list of materials, stopping at the first failure.
func (c *Catalog) SaveAll(materials []*matdb.Material) error {
	for _, m := range materials {
		if err := c.Save(m); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a material back from the store.
func (c *Catalog) Load(name string) (*matdb.Material, error) {
	blob, err := c.store.Get(name)
	if err != nil {
		return nil, err
	}
	m := matdb.NewMaterial(name)
	if err := json.Unmarshal(blob, m); err != nil {
		return nil, fmt.Errorf("cannot deserialize material %q: %w", name, err)
	}
	return m, nil
}

// Names lists all stored material names.
func (c *Catalog) Names() ([]string, error) {
	return c.store.Names()
}

// Close closes the underlying store.
func (c *Catalog) Close() error {
	return c.store.Close()
}
