package models

import (
	"fmt"
	"strings"
)

// PropertySeparator splits the three parts of a property address
const PropertySeparator = "."

// PropertyRef addresses one property of one named game object,
// e.g. Building.Burrow.owned
type PropertyRef struct {
	Kind     Kind
	Name     string
	Property string
}

// Ref is a shorthand constructor for PropertyRef
func Ref(kind Kind, name, property string) PropertyRef {
	return PropertyRef{Kind: kind, Name: name, Property: property}
}

// String returns the canonical "<Kind>.<Name>.<Property>" form
func (r PropertyRef) String() string {
	return string(r.Kind) + PropertySeparator + r.Name + PropertySeparator + r.Property
}

// ParsePropertyRef parses the canonical form produced by String
func ParsePropertyRef(s string) (PropertyRef, error) {
	parts := strings.Split(s, PropertySeparator)
	if len(parts) != 3 {
		return PropertyRef{}, fmt.Errorf("%w: %q must be <kind>.<name>.<property>, e.g. 'Building.Burrow.owned'", ErrParse, s)
	}
	if parts[1] == "" || parts[2] == "" {
		return PropertyRef{}, fmt.Errorf("%w: %q has an empty name or property", ErrParse, s)
	}

	kind := Kind(parts[0])
	if !kind.IsValid() {
		return PropertyRef{}, fmt.Errorf("%w: %q in %q", ErrUnknownKind, parts[0], s)
	}

	return PropertyRef{Kind: kind, Name: parts[1], Property: parts[2]}, nil
}

// MustParsePropertyRef is like ParsePropertyRef but panics on error.
// Intended for tests and hard-coded addresses.
func MustParsePropertyRef(s string) PropertyRef {
	ref, err := ParsePropertyRef(s)
	if err != nil {
		panic(err)
	}
	return ref
}
