// internal/content/catalog.go

package content

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicatePath is returned when two paths resolve to the same ID.
var ErrDuplicatePath = errors.New("content: duplicate path id")

// Catalog is the read-only, ordered collection of paths a session plays.
// It is built once at startup and passed to whoever needs it.
type Catalog struct {
	paths []Path
	index map[string]int
}

// NewCatalog normalizes and validates paths, keeping their declared order.
func NewCatalog(paths ...Path) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(paths))}
	for _, p := range paths {
		if err := c.add(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(p Path) error {
	normalized := p.Normalized()
	if err := normalized.Validate(); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if normalized.ID == "" {
		return fmt.Errorf("content: path %q has no usable id", normalized.Name)
	}
	if _, exists := c.index[normalized.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, normalized.ID)
	}
	c.index[normalized.ID] = len(c.paths)
	c.paths = append(c.paths, normalized)
	return nil
}

// Len reports how many paths are available.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.paths)
}

// Paths returns deep copies of the paths in declared order.
func (c *Catalog) Paths() []Path {
	if c == nil {
		return nil
	}
	out := make([]Path, len(c.paths))
	for i, p := range c.paths {
		out[i] = p.Clone()
	}
	return out
}

// Path looks a path up by ID. Lookups ignore case and accents.
func (c *Catalog) Path(id string) (Path, bool) {
	if c == nil {
		return Path{}, false
	}
	idx, ok := c.index[Slug(strings.TrimSpace(id))]
	if !ok {
		return Path{}, false
	}
	return c.paths[idx].Clone(), true
}
