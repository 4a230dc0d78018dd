package link

import (
	"fmt"

	"github.com/napolitain/idlelink/internal/models"
)

// Index aggregates every registered link for lookup by source or target.
// It is rebuilt from scratch, never patched.
type Index struct {
	byKey  map[Key]*Link
	byFrom map[models.PropertyRef][]*Link
	byTo   map[models.PropertyRef][]*Link
	order  []*Link
}

// BuildIndex indexes links, failing on the first pair sharing both endpoints
func BuildIndex(links []*Link) (*Index, error) {
	idx := &Index{
		byKey:  make(map[Key]*Link, len(links)),
		byFrom: make(map[models.PropertyRef][]*Link),
		byTo:   make(map[models.PropertyRef][]*Link),
		order:  make([]*Link, 0, len(links)),
	}

	for _, l := range links {
		key := l.Key()
		if existing, ok := idx.byKey[key]; ok {
			return nil, fmt.Errorf("%w: %s (already registered as %s)", models.ErrDuplicateLink, l, existing)
		}
		idx.byKey[key] = l
		idx.byFrom[l.from] = append(idx.byFrom[l.from], l)
		idx.byTo[l.to] = append(idx.byTo[l.to], l)
		idx.order = append(idx.order, l)
	}

	return idx, nil
}

// LinksTargeting returns all links whose target is ref
func (idx *Index) LinksTargeting(ref models.PropertyRef) []*Link {
	return idx.byTo[ref]
}

// LinksFrom returns all links whose source is ref
func (idx *Index) LinksFrom(ref models.PropertyRef) []*Link {
	return idx.byFrom[ref]
}

// Lookup returns the link registered for a (from, to) pair
func (idx *Index) Lookup(from, to models.PropertyRef) (*Link, bool) {
	l, ok := idx.byKey[Key{From: from, To: to}]
	return l, ok
}

// Len returns the number of indexed links
func (idx *Index) Len() int {
	return len(idx.order)
}

// All returns every link in registration order
func (idx *Index) All() []*Link {
	out := make([]*Link, len(idx.order))
	copy(out, idx.order)
	return out
}
