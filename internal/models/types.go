package models

// Kind is the class of a game object that can own or receive links
type Kind string

const (
	KindBuilding Kind = "Building"
	KindResource Kind = "Resource"
)

// AllKinds returns all game object kinds in deterministic order
func AllKinds() []Kind {
	return []Kind{KindBuilding, KindResource}
}

// IsValid reports whether k is one of the known kinds
func (k Kind) IsValid() bool {
	switch k {
	case KindBuilding, KindResource:
		return true
	}
	return false
}

// Property names understood by buildings and resources
const (
	PropOwned      = "owned"
	PropSpace      = "space"
	PropPriceRatio = "priceRatio"

	PropAmount     = "amount"
	PropMaxAmount  = "maxAmount"
	PropProduction = "production"
)

// Operator selects the numeric transform of an Operation
type Operator string

const (
	OpMultiply Operator = "multiply"
	OpAdd      Operator = "add"
)

// IsValid reports whether o is a supported operator
func (o Operator) IsValid() bool {
	return o == OpMultiply || o == OpAdd
}

// Operation is a pure transform applied to a link's source value
type Operation struct {
	Operator Operator
	Argument float64
}

// Multiply returns an operation computing x*arg
func Multiply(arg float64) Operation {
	return Operation{Operator: OpMultiply, Argument: arg}
}

// Add returns an operation computing x+arg
func Add(arg float64) Operation {
	return Operation{Operator: OpAdd, Argument: arg}
}

// Apply runs the operation on x. Unknown operators are a programming error.
func (o Operation) Apply(x float64) float64 {
	switch o.Operator {
	case OpMultiply:
		return x * o.Argument
	case OpAdd:
		return x + o.Argument
	}
	panic("models: unknown operator " + string(o.Operator))
}

// CompositionMode decides which accumulator a link's value is folded into
type CompositionMode string

const (
	ModeAdditive CompositionMode = "additive"
	ModeRatio    CompositionMode = "ratio"
)

// IsValid reports whether m is a known mode. The empty mode means additive.
func (m CompositionMode) IsValid() bool {
	switch m {
	case "", ModeAdditive, ModeRatio:
		return true
	}
	return false
}

// LinkConfig describes how a link transforms and folds its source value
type LinkConfig struct {
	Operation Operation
	Mode      CompositionMode // empty = additive

	// Cap is reserved. Nothing reads it yet.
	Cap *float64
}

// IsRatio reports whether the link folds into the ratio accumulator
func (c LinkConfig) IsRatio() bool {
	return c.Mode == ModeRatio
}

// LinkedPropertyValue accumulates link contributions for one property.
// Flat starts at 0, Ratio starts at 1; both are summed.
type LinkedPropertyValue struct {
	Flat  float64
	Ratio float64
}

// NeutralValue is the accumulator before any link is folded in
func NeutralValue() LinkedPropertyValue {
	return LinkedPropertyValue{Flat: 0, Ratio: 1}
}

// Merge layers resolved link contributions on top of a base value.
// Resolved ratios start at 1, so only the part above 1 is added to the base ratio.
func Merge(base, resolved LinkedPropertyValue) LinkedPropertyValue {
	return LinkedPropertyValue{
		Flat:  base.Flat + resolved.Flat,
		Ratio: base.Ratio + resolved.Ratio - 1,
	}
}

// Value returns Flat scaled by Ratio
func (v LinkedPropertyValue) Value() float64 {
	return v.Flat * v.Ratio
}

// Rarity classifies resources for display
type Rarity struct {
	Name  string
	Color string
}

var (
	RarityCommon   = Rarity{Name: "Common", Color: "white"}
	RarityUncommon = Rarity{Name: "Uncommon", Color: "green"}
)

// AllRarities returns the known rarities in deterministic order
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon}
}

// RarityByName looks up a rarity by its name
func RarityByName(name string) (Rarity, bool) {
	for _, r := range AllRarities() {
		if r.Name == name {
			return r, true
		}
	}
	return Rarity{}, false
}

// Category groups resources in the UI
type Category struct {
	Name string
	Open bool
}
