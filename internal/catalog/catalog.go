package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"mecatech/parts-ledger/internal/models"
)

// Catalog is the in-memory parts catalog: a code-keyed collection that
// remembers insertion order, so listings and searches iterate the same way
// before and after a persistence round trip.
type Catalog struct {
	codes   []string
	entries map[string]models.CatalogEntry
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]models.CatalogEntry)}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.codes)
}

// Has reports whether a code exists.
func (c *Catalog) Has(code string) bool {
	_, ok := c.entries[code]
	return ok
}

// Get returns the entry for a code.
func (c *Catalog) Get(code string) (models.CatalogEntry, bool) {
	entry, ok := c.entries[code]
	return entry, ok
}

// Set inserts or replaces an entry. A replaced entry keeps its original
// position; a new code is appended.
func (c *Catalog) Set(code string, entry models.CatalogEntry) {
	if _, ok := c.entries[code]; !ok {
		c.codes = append(c.codes, code)
	}
	c.entries[code] = entry
}

// Delete removes an entry, reporting whether it existed.
func (c *Catalog) Delete(code string) bool {
	if _, ok := c.entries[code]; !ok {
		return false
	}
	delete(c.entries, code)
	for i, existing := range c.codes {
		if existing == code {
			c.codes = append(c.codes[:i], c.codes[i+1:]...)
			break
		}
	}
	return true
}

// Codes returns the codes in iteration order.
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

// MarshalJSON encodes the catalog as a single JSON object keyed by code,
// emitting keys in iteration order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, code := range c.codes {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(code)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(c.entries[code])
		if err != nil {
			return nil, fmt.Errorf("error encoding entry '%s': %w", code, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a code-keyed JSON object, preserving the key order
// of the document as the catalog's iteration order.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog document must be a JSON object")
	}

	c.codes = nil
	c.entries = make(map[string]models.CatalogEntry)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		code, ok := tok.(string)
		if !ok {
			return fmt.Errorf("catalog key is not a string")
		}

		var entry models.CatalogEntry
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("error decoding entry '%s': %w", code, err)
		}
		c.Set(code, entry)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
