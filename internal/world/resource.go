package world

import (
	"fmt"
	"math"

	"github.com/napolitain/idlelink/internal/models"
)

// Resource is an accumulating amount bounded by maxAmount and grown by production (per second)
type Resource struct {
	Object

	Rarity   models.Rarity
	Category *models.Category

	amount float64
}

func newResource(w *World, cfg ResourceConfig) (*Resource, error) {
	if cfg.Amount < 0 {
		return nil, fmt.Errorf("resource %q: amount must be >= 0, got %v", cfg.Name, cfg.Amount)
	}

	rarity := cfg.Rarity
	if rarity.Name == "" {
		rarity = models.RarityCommon
	}

	r := &Resource{
		Object:   newObject(w, models.KindResource, cfg.Name, cfg.DisplayName, cfg.Description, []string{models.PropMaxAmount, models.PropProduction}),
		Rarity:   rarity,
		Category: cfg.Category,
		amount:   cfg.Amount,
	}

	r.base[models.PropMaxAmount] = models.LinkedPropertyValue{Flat: DefaultMaxAmount, Ratio: 1}
	if err := r.overrideBase(cfg.Base); err != nil {
		return nil, err
	}
	if err := r.declareLinks(cfg.Links); err != nil {
		return nil, err
	}
	return r, nil
}

// Amount returns the currently held amount
func (r *Resource) Amount() float64 { return r.amount }

// SetAmount overwrites the held amount. Negative values are clamped to 0.
func (r *Resource) SetAmount(v float64) {
	r.amount = math.Max(0, v)
	r.world.touch()
}

// MaxAmount returns the final value of the maxAmount property
func (r *Resource) MaxAmount() (float64, error) {
	return r.Final(models.PropMaxAmount)
}

// Production returns the final value of the production property, per second
func (r *Resource) Production() (float64, error) {
	return r.Final(models.PropProduction)
}

// TimeToFull returns the seconds until the resource reaches maxAmount at the current production.
// It is +Inf when the resource is not growing and 0 when already full.
func (r *Resource) TimeToFull() (float64, error) {
	limit, err := r.MaxAmount()
	if err != nil {
		return 0, err
	}
	if r.amount >= limit {
		return 0, nil
	}
	prod, err := r.Production()
	if err != nil {
		return 0, err
	}
	if prod <= 0 {
		return math.Inf(1), nil
	}
	return (limit - r.amount) / prod, nil
}

func (r *Resource) property(name string) (float64, bool) {
	switch name {
	case models.PropAmount:
		return r.amount, true
	}
	return 0, false
}
