package catalog

import (
	"golang.org/x/text/unicode/norm"
)

// Catalog holds movie records in listing order, keyed by name.
// Adding a name that is already present replaces the stored record but
// keeps its original position.
type Catalog struct {
	records []MovieRecord
	index   map[string]int
}

func NewCatalog() *Catalog {
	return &Catalog{
		index: make(map[string]int),
	}
}

func (c *Catalog) Add(record MovieRecord) {
	key := normalizeName(record.Name)
	if i, ok := c.index[key]; ok {
		c.records[i] = record
		return
	}
	c.index[key] = len(c.records)
	c.records = append(c.records, record)
}

// Lookup matches name exactly after NFC normalization.
func (c *Catalog) Lookup(name string) (MovieRecord, bool) {
	i, ok := c.index[normalizeName(name)]
	if !ok {
		return MovieRecord{}, false
	}
	return c.records[i], true
}

// Movies returns a copy of the records in listing order.
func (c *Catalog) Movies() []MovieRecord {
	out := make([]MovieRecord, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Catalog) Len() int {
	return len(c.records)
}

func normalizeName(name string) string {
	return norm.NFC.String(name)
}
