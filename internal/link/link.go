// Package link connects a numeric property of one game object to a property
// of another, and folds those connections into resolved values.
package link

import (
	"fmt"

	"github.com/napolitain/idlelink/internal/models"
)

// PropertyReader looks up the live value of an addressed property
type PropertyReader interface {
	Value(ref models.PropertyRef) (float64, error)
}

// Key identifies a link by its endpoints
type Key struct {
	From models.PropertyRef
	To   models.PropertyRef
}

// Link is a directed edge: From -> Operation -> To.
// It is immutable; only its value changes, following its source.
type Link struct {
	from   models.PropertyRef
	to     models.PropertyRef
	config models.LinkConfig
}

// New creates a link between two addresses
func New(from, to models.PropertyRef, config models.LinkConfig) *Link {
	if config.Mode == "" {
		config.Mode = models.ModeAdditive
	}
	return &Link{from: from, to: to, config: config}
}

// Parse creates a link from two canonical address strings
func Parse(from, to string, config models.LinkConfig) (*Link, error) {
	fromRef, err := models.ParsePropertyRef(from)
	if err != nil {
		return nil, fmt.Errorf("link source: %w", err)
	}
	toRef, err := models.ParsePropertyRef(to)
	if err != nil {
		return nil, fmt.Errorf("link target: %w", err)
	}
	if !config.Operation.Operator.IsValid() {
		return nil, fmt.Errorf("link %s -> %s: unknown operator %q", from, to, config.Operation.Operator)
	}
	if !config.Mode.IsValid() {
		return nil, fmt.Errorf("link %s -> %s: unknown composition mode %q", from, to, config.Mode)
	}
	return New(fromRef, toRef, config), nil
}

func (l *Link) From() models.PropertyRef     { return l.from }
func (l *Link) To() models.PropertyRef       { return l.to }
func (l *Link) Config() models.LinkConfig    { return l.config }
func (l *Link) Mode() models.CompositionMode { return l.config.Mode }

// Key returns the (from, to) pair used for duplicate detection
func (l *Link) Key() Key {
	return Key{From: l.from, To: l.to}
}

// Value applies the link's operation to the current value of its source
func (l *Link) Value(r PropertyReader) (float64, error) {
	x, err := r.Value(l.from)
	if err != nil {
		return 0, fmt.Errorf("link %s: %w", l, err)
	}
	return l.config.Operation.Apply(x), nil
}

// String describes both endpoints, e.g. "Building.Burrow.owned -> Resource.Grain.production"
func (l *Link) String() string {
	return l.from.String() + " -> " + l.to.String()
}
