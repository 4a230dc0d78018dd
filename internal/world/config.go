package world

import "github.com/napolitain/idlelink/internal/models"

// Defaults applied to base values that content does not override
const (
	DefaultSpace      = 1
	DefaultPriceRatio = 1.15
	DefaultMaxAmount  = 100
)

// LinkSpec declares a link by its two canonical addresses
type LinkSpec struct {
	From   string
	To     string
	Config models.LinkConfig
}

// LocationConfig is the input to AddLocation
type LocationConfig struct {
	Name     string
	Unlocked bool
}

// BuildingConfig is the input to AddBuilding
type BuildingConfig struct {
	Name        string
	DisplayName string
	Description string
	Location    string
	Owned       int
	BasePrice   map[string]float64 // resource name -> cost of the first purchase

	// Base overrides for linkable properties (space, priceRatio)
	Base  map[string]models.LinkedPropertyValue
	Links []LinkSpec
}

// ResourceConfig is the input to AddResource
type ResourceConfig struct {
	Name        string
	DisplayName string
	Description string
	Rarity      models.Rarity
	Category    *models.Category
	Amount      float64

	// Base overrides for linkable properties (maxAmount, production)
	Base  map[string]models.LinkedPropertyValue
	Links []LinkSpec
}
