package achievements

import (
	"fmt"
	"strings"
)

// Definition is a one-time unlockable milestone.
type Definition struct {
	ID          string
	Name        string
	Description string
	Bonus       int
}

// Catalog is the ordered, read-only set of known achievements.
type Catalog struct {
	defs []Definition
	byID map[string]int
}

// NewCatalog builds a catalog from defs, rejecting empty or duplicate ids
// and negative bonuses.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{
		defs: make([]Definition, 0, len(defs)),
		byID: make(map[string]int, len(defs)),
	}

	var errs []string
	for i, d := range defs {
		switch {
		case d.ID == "":
			errs = append(errs, fmt.Sprintf("entry %d: empty id", i))
			continue
		case d.Bonus < 0:
			errs = append(errs, fmt.Sprintf("%s: negative bonus %d", d.ID, d.Bonus))
			continue
		}
		if _, dup := c.byID[d.ID]; dup {
			errs = append(errs, fmt.Sprintf("%s: duplicate id", d.ID))
			continue
		}
		c.byID[d.ID] = len(c.defs)
		c.defs = append(c.defs, d)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("achievement catalog invalid:\n  %s", strings.Join(errs, "\n  "))
	}
	return c, nil
}

// Lookup returns the definition for id.
func (c *Catalog) Lookup(id string) (Definition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

// Has reports whether id is a known achievement.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns every definition in catalog order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Len returns the number of achievements.
func (c *Catalog) Len() int {
	return len(c.defs)
}
