package glyph

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
)

var (
	// ErrEmptyCatalog is returned when a catalog would contain no items.
	ErrEmptyCatalog = errors.New("glyph catalog is empty")

	// ErrDuplicateItem is returned when two entries share an identifier.
	ErrDuplicateItem = errors.New("duplicate glyph id")
)

// Catalog is an immutable, indexed set of item metadata.
type Catalog struct {
	entries []Metadata
	byID    map[string]int
}

// NewCatalog builds a catalog from entries, preserving their order.
func NewCatalog(entries []Metadata) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		entries: make([]Metadata, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("glyph entry %d has no id", len(c.entries))
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateItem, e.ID)
		}
		c.byID[e.ID] = len(c.entries)
		c.entries = append(c.entries, cloneMetadata(e))
	}
	return c, nil
}

// Lookup returns the metadata for id, or the placeholder when id is unknown.
func (c *Catalog) Lookup(id string) Metadata {
	if i, ok := c.byID[id]; ok {
		return cloneMetadata(c.entries[i])
	}
	return Placeholder(id)
}

// Has reports whether id is catalogued.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Len returns the number of catalogued items.
func (c *Catalog) Len() int { return len(c.entries) }

// IDs returns every identifier in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.ID
	}
	return ids
}

// ByTier returns the identifiers in the given tier, in catalog order.
func (c *Catalog) ByTier(t Tier) []string {
	var ids []string
	for _, e := range c.entries {
		if e.Tier == t {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// DefaultItems returns the fallback practice list used when the caller
// supplies no usable items.
func (c *Catalog) DefaultItems() []string {
	if ids := c.ByTier(TierBeginner); len(ids) > 0 {
		return ids
	}
	return c.IDs()
}

// Merge returns a new catalog containing c's entries followed by extra.
// Entries in extra replace existing entries with the same id.
func (c *Catalog) Merge(extra []Metadata) (*Catalog, error) {
	merged := slices.Clone(c.entries)
	index := make(map[string]int, len(c.byID))
	for k, v := range c.byID {
		index[k] = v
	}
	for _, e := range extra {
		if i, ok := index[e.ID]; ok {
			merged[i] = e
			continue
		}
		index[e.ID] = len(merged)
		merged = append(merged, e)
	}
	return NewCatalog(merged)
}

type catalogFile struct {
	Glyphs []Metadata `toml:"glyph"`
}

// LoadFile merges entries from a TOML file into c. A missing file returns
// c unchanged.
func (c *Catalog) LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return c, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c, nil
	}

	var f catalogFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("parse glyph file %s: %w", path, err)
	}
	return c.Merge(f.Glyphs)
}

func cloneMetadata(m Metadata) Metadata {
	m.Components = slices.Clone(m.Components)
	m.Examples = slices.Clone(m.Examples)
	return m
}
