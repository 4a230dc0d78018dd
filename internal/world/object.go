package world

import (
	"fmt"

	"github.com/napolitain/idlelink/internal/link"
	"github.com/napolitain/idlelink/internal/models"
)

// Object is the part shared by every game object that takes part in the link graph.
// Name is the identity key and never changes; use DisplayName for presentation.
type Object struct {
	kind models.Kind
	name string

	DisplayName string
	Description string

	// Links this object declares. Owned here, indexed by the World.
	links []*link.Link

	// Base values of linkable properties, in declaration order
	linkables []string
	base      map[string]models.LinkedPropertyValue

	world *World
}

func newObject(w *World, kind models.Kind, name, displayName, description string, linkables []string) Object {
	if displayName == "" {
		displayName = name
	}
	o := Object{
		kind:        kind,
		name:        name,
		DisplayName: displayName,
		Description: description,
		linkables:   linkables,
		base:        make(map[string]models.LinkedPropertyValue, len(linkables)),
		world:       w,
	}
	for _, prop := range linkables {
		o.base[prop] = models.NeutralValue()
	}
	return o
}

// declareLinks parses the object's link specs; called once while constructing
func (o *Object) declareLinks(specs []LinkSpec) error {
	links := make([]*link.Link, 0, len(specs))
	for _, s := range specs {
		l, err := link.Parse(s.From, s.To, s.Config)
		if err != nil {
			return fmt.Errorf("%s %q: %w", o.kind, o.name, err)
		}
		links = append(links, l)
	}
	o.links = links
	return nil
}

// overrideBase applies configured base values; only linkable properties accept one
func (o *Object) overrideBase(overrides map[string]models.LinkedPropertyValue) error {
	for prop, v := range overrides {
		if _, ok := o.base[prop]; !ok {
			return fmt.Errorf("%s %q: %q is not a linkable property", o.kind, o.name, prop)
		}
		o.base[prop] = v
	}
	return nil
}

func (o *Object) Name() string        { return o.name }
func (o *Object) Kind() models.Kind   { return o.kind }
func (o *Object) Links() []*link.Link { return o.links }

// Linkables returns the names of properties that links may target
func (o *Object) Linkables() []string {
	out := make([]string, len(o.linkables))
	copy(out, o.linkables)
	return out
}

// IsLinkable reports whether prop can be targeted by links
func (o *Object) IsLinkable(prop string) bool {
	_, ok := o.base[prop]
	return ok
}

// Ref addresses one of this object's properties
func (o *Object) Ref(prop string) models.PropertyRef {
	return models.Ref(o.kind, o.name, prop)
}

// BaseValue returns the base {flat, ratio} of a linkable property
func (o *Object) BaseValue(prop string) (models.LinkedPropertyValue, bool) {
	v, ok := o.base[prop]
	return v, ok
}

// SetBaseValue replaces the base {flat, ratio} of a linkable property
func (o *Object) SetBaseValue(prop string, v models.LinkedPropertyValue) error {
	if _, ok := o.base[prop]; !ok {
		return fmt.Errorf("%w: %s is not linkable", models.ErrNotFound, o.Ref(prop))
	}
	o.base[prop] = v
	o.world.touch()
	return nil
}

// Linked returns the base value of prop merged with every link targeting it
func (o *Object) Linked(prop string) (models.LinkedPropertyValue, error) {
	return o.world.Linked(o.Ref(prop))
}

// Final returns the computed value of a linkable property
func (o *Object) Final(prop string) (float64, error) {
	v, err := o.Linked(prop)
	if err != nil {
		return 0, err
	}
	return v.Value(), nil
}

// IncomingLinks returns every registered link that targets one of this object's properties
func (o *Object) IncomingLinks() ([]*link.Link, error) {
	idx, err := o.world.Index()
	if err != nil {
		return nil, err
	}
	var out []*link.Link
	for _, prop := range o.linkables {
		out = append(out, idx.LinksTargeting(o.Ref(prop))...)
	}
	return out, nil
}

// OutgoingLinks returns every registered link whose source is one of this object's properties
func (o *Object) OutgoingLinks() ([]*link.Link, error) {
	idx, err := o.world.Index()
	if err != nil {
		return nil, err
	}
	var out []*link.Link
	for _, l := range idx.All() {
		from := l.From()
		if from.Kind == o.kind && from.Name == o.name {
			out = append(out, l)
		}
	}
	return out, nil
}
