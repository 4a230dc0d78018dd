// Package world holds the registries of game objects and computes their derived values.
//
// A World is single-writer: registration, purchases, and ticks must not run
// concurrently with each other or with reads. Derived values are pulled on read
// and memoized until the next mutation bumps the revision.
package world

import (
	"fmt"

	"github.com/napolitain/idlelink/internal/link"
	"github.com/napolitain/idlelink/internal/models"
)

type memoEntry struct {
	revision uint64
	value    models.LinkedPropertyValue
}

// World is the registry of locations, buildings, and resources
type World struct {
	locations map[string]*Location
	buildings map[string]*Building
	resources map[string]*Resource

	// Registration order, for deterministic iteration
	locationOrder []*Location
	buildingOrder []*Building
	resourceOrder []*Resource
	objects       []*Object

	revision   uint64
	index      *link.Index
	indexValid bool
	memo       map[models.PropertyRef]memoEntry
}

// New creates an empty world
func New() *World {
	return &World{
		locations: make(map[string]*Location),
		buildings: make(map[string]*Building),
		resources: make(map[string]*Resource),
		memo:      make(map[models.PropertyRef]memoEntry),
	}
}

// Revision increases on every mutation that can change a derived value
func (w *World) Revision() uint64 {
	return w.revision
}

// touch invalidates every memoized derived value
func (w *World) touch() {
	w.revision++
}

// AddLocation registers a location
func (w *World) AddLocation(cfg LocationConfig) (*Location, error) {
	if _, ok := w.locations[cfg.Name]; ok {
		return nil, fmt.Errorf("%w: location %q already exists", models.ErrDuplicateName, cfg.Name)
	}
	loc := &Location{Name: cfg.Name, Unlocked: cfg.Unlocked}
	w.locations[cfg.Name] = loc
	w.locationOrder = append(w.locationOrder, loc)
	return loc, nil
}

// AddBuilding registers a building and appends it to its location
func (w *World) AddBuilding(cfg BuildingConfig) (*Building, error) {
	if _, ok := w.buildings[cfg.Name]; ok {
		return nil, fmt.Errorf("%w: building %q already exists", models.ErrDuplicateName, cfg.Name)
	}
	loc, ok := w.locations[cfg.Location]
	if !ok {
		return nil, fmt.Errorf("%w: building %q references location %q", models.ErrUnknownLocation, cfg.Name, cfg.Location)
	}

	b, err := newBuilding(w, cfg)
	if err != nil {
		return nil, err
	}

	w.buildings[b.name] = b
	w.buildingOrder = append(w.buildingOrder, b)
	w.register(&b.Object)
	loc.Buildings = append(loc.Buildings, b)
	return b, nil
}

// AddResource registers a resource
func (w *World) AddResource(cfg ResourceConfig) (*Resource, error) {
	if _, ok := w.resources[cfg.Name]; ok {
		return nil, fmt.Errorf("%w: resource %q already exists", models.ErrDuplicateName, cfg.Name)
	}

	r, err := newResource(w, cfg)
	if err != nil {
		return nil, err
	}

	w.resources[r.name] = r
	w.resourceOrder = append(w.resourceOrder, r)
	w.register(&r.Object)
	return r, nil
}

func (w *World) register(o *Object) {
	w.objects = append(w.objects, o)
	if len(o.links) > 0 {
		w.indexValid = false
	}
	w.touch()
}

func (w *World) Location(name string) (*Location, bool) {
	l, ok := w.locations[name]
	return l, ok
}

func (w *World) Building(name string) (*Building, bool) {
	b, ok := w.buildings[name]
	return b, ok
}

func (w *World) Resource(name string) (*Resource, bool) {
	r, ok := w.resources[name]
	return r, ok
}

// Locations returns all locations in registration order
func (w *World) Locations() []*Location {
	return append([]*Location(nil), w.locationOrder...)
}

// Buildings returns all buildings in registration order
func (w *World) Buildings() []*Building {
	return append([]*Building(nil), w.buildingOrder...)
}

// Resources returns all resources in registration order
func (w *World) Resources() []*Resource {
	return append([]*Resource(nil), w.resourceOrder...)
}

// Index returns the link index, rebuilding it if objects with links were registered since the last build
func (w *World) Index() (*link.Index, error) {
	if w.indexValid {
		return w.index, nil
	}

	var all []*link.Link
	for _, o := range w.objects {
		all = append(all, o.links...)
	}
	idx, err := link.BuildIndex(all)
	if err != nil {
		return nil, err
	}
	w.index = idx
	w.indexValid = true
	return idx, nil
}

// object finds the registered object addressed by ref
func (w *World) object(ref models.PropertyRef) (*Object, func(string) (float64, bool), error) {
	switch ref.Kind {
	case models.KindBuilding:
		if b, ok := w.buildings[ref.Name]; ok {
			return &b.Object, b.property, nil
		}
	case models.KindResource:
		if r, ok := w.resources[ref.Name]; ok {
			return &r.Object, r.property, nil
		}
	default:
		return nil, nil, fmt.Errorf("%w: %q", models.ErrUnknownKind, ref.Kind)
	}
	return nil, nil, fmt.Errorf("%w: no %s named %q", models.ErrNotFound, ref.Kind, ref.Name)
}

// Value returns the live value of any readable property. Implements link.PropertyReader.
func (w *World) Value(ref models.PropertyRef) (float64, error) {
	o, plain, err := w.object(ref)
	if err != nil {
		return 0, err
	}
	if o.IsLinkable(ref.Property) {
		v, err := w.Linked(ref)
		if err != nil {
			return 0, err
		}
		return v.Value(), nil
	}
	if v, ok := plain(ref.Property); ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s", models.ErrNotFound, ref)
}

// Linked returns the base value of a linkable property merged with its resolved links.
// Results are memoized until the next mutation.
func (w *World) Linked(ref models.PropertyRef) (models.LinkedPropertyValue, error) {
	if e, ok := w.memo[ref]; ok && e.revision == w.revision {
		return e.value, nil
	}

	o, _, err := w.object(ref)
	if err != nil {
		return models.LinkedPropertyValue{}, err
	}
	base, ok := o.BaseValue(ref.Property)
	if !ok {
		return models.LinkedPropertyValue{}, fmt.Errorf("%w: %s is not linkable", models.ErrNotFound, ref)
	}

	idx, err := w.Index()
	if err != nil {
		return models.LinkedPropertyValue{}, err
	}
	resolved, err := link.Resolve(idx, w, ref)
	if err != nil {
		return models.LinkedPropertyValue{}, err
	}

	v := models.Merge(base, resolved)
	w.memo[ref] = memoEntry{revision: w.revision, value: v}
	return v, nil
}

// Validate checks the whole link graph: no duplicate links, every source readable,
// and every target a linkable property of a registered object.
func (w *World) Validate() error {
	idx, err := w.Index()
	if err != nil {
		return err
	}
	for _, l := range idx.All() {
		if _, err := w.Value(l.From()); err != nil {
			return err
		}
		to := l.To()
		o, _, err := w.object(to)
		if err != nil {
			return fmt.Errorf("link %s: %w", l, err)
		}
		if !o.IsLinkable(to.Property) {
			return fmt.Errorf("link %s: %w: %s is not linkable", l, models.ErrNotFound, to)
		}
	}
	return nil
}

// covers reports whether every priced resource is registered and holds at least its cost
func (w *World) covers(price map[string]float64) bool {
	for name, cost := range price {
		r, ok := w.resources[name]
		if !ok || r.amount < cost {
			return false
		}
	}
	return true
}

// TryPurchase buys one building if every priced resource can pay for it.
// Returns false without touching any state when it cannot.
func (w *World) TryPurchase(b *Building) (bool, error) {
	price, err := b.Price()
	if err != nil {
		return false, err
	}
	if !w.covers(price) {
		return false, nil
	}

	for name, cost := range price {
		r := w.resources[name]
		r.amount -= cost
	}
	b.owned++
	w.touch()
	return true, nil
}
