package world

import (
	"fmt"

	"github.com/napolitain/idlelink/internal/models"
)

// Building is a purchasable game object. Every purchase raises its price by priceRatio.
type Building struct {
	Object

	location  string
	owned     int
	basePrice map[string]float64
}

func newBuilding(w *World, cfg BuildingConfig) (*Building, error) {
	if cfg.Owned < 0 {
		return nil, fmt.Errorf("building %q: owned must be >= 0, got %d", cfg.Name, cfg.Owned)
	}

	b := &Building{
		Object:    newObject(w, models.KindBuilding, cfg.Name, cfg.DisplayName, cfg.Description, []string{models.PropSpace, models.PropPriceRatio}),
		location:  cfg.Location,
		owned:     cfg.Owned,
		basePrice: make(map[string]float64, len(cfg.BasePrice)),
	}
	for res, cost := range cfg.BasePrice {
		if cost < 0 {
			return nil, fmt.Errorf("building %q: negative price for %q", cfg.Name, res)
		}
		b.basePrice[res] = cost
	}

	b.base[models.PropSpace] = models.LinkedPropertyValue{Flat: DefaultSpace, Ratio: 1}
	b.base[models.PropPriceRatio] = models.LinkedPropertyValue{Flat: DefaultPriceRatio, Ratio: 1}
	if err := b.overrideBase(cfg.Base); err != nil {
		return nil, err
	}
	if err := b.declareLinks(cfg.Links); err != nil {
		return nil, err
	}
	return b, nil
}

// Location returns the name of the location the building belongs to
func (b *Building) Location() string { return b.location }

// Owned returns how many of this building have been purchased
func (b *Building) Owned() int { return b.owned }

// SetOwned overwrites the owned count
func (b *Building) SetOwned(n int) error {
	if n < 0 {
		return fmt.Errorf("building %q: owned must be >= 0, got %d", b.name, n)
	}
	b.owned = n
	b.world.touch()
	return nil
}

// BasePrice returns a copy of the price of the first purchase
func (b *Building) BasePrice() map[string]float64 {
	out := make(map[string]float64, len(b.basePrice))
	for res, cost := range b.basePrice {
		out[res] = cost
	}
	return out
}

// Space returns the final value of the space property
func (b *Building) Space() (float64, error) {
	return b.Final(models.PropSpace)
}

// PriceRatio returns the final value of the priceRatio property
func (b *Building) PriceRatio() (float64, error) {
	return b.Final(models.PropPriceRatio)
}

// Price returns the cost of the next purchase: basePrice scaled by priceRatio once per owned building
func (b *Building) Price() (map[string]float64, error) {
	ratio, err := b.PriceRatio()
	if err != nil {
		return nil, err
	}

	price := b.BasePrice()
	for res := range price {
		for i := 0; i < b.owned; i++ {
			price[res] *= ratio
		}
	}
	return price, nil
}

// CanAfford reports whether every priced resource holds at least its price
func (b *Building) CanAfford() (bool, error) {
	price, err := b.Price()
	if err != nil {
		return false, err
	}
	return b.world.covers(price), nil
}

// property returns non-linkable readable properties
func (b *Building) property(name string) (float64, bool) {
	switch name {
	case models.PropOwned:
		return float64(b.owned), true
	}
	return 0, false
}
