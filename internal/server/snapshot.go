package server

import (
	"fmt"
	"math"

	"github.com/napolitain/idlelink/internal/world"
)

// ResourceState is the wire form of one resource
type ResourceState struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Rarity      string   `json:"rarity"`
	Color       string   `json:"color"`
	Category    string   `json:"category,omitempty"`
	Amount      float64  `json:"amount"`
	MaxAmount   float64  `json:"max_amount"`
	Production  float64  `json:"production"`
	TimeToFull  *float64 `json:"time_to_full,omitempty"` // absent when not growing
}

// BuildingState is the wire form of one building
type BuildingState struct {
	Name        string             `json:"name"`
	DisplayName string             `json:"display_name"`
	Description string             `json:"description,omitempty"`
	Location    string             `json:"location"`
	Owned       int                `json:"owned"`
	Space       float64            `json:"space"`
	Price       map[string]float64 `json:"price"`
	CanAfford   bool               `json:"can_afford"`
}

// Snapshot is everything a remote client needs to draw the game
type Snapshot struct {
	Tick      uint64          `json:"tick"`
	Resources []ResourceState `json:"resources"`
	Buildings []BuildingState `json:"buildings"`
}

// BuildSnapshot reads the world. Call it on the goroutine that owns w.
// Buildings in locked locations are left out.
func BuildSnapshot(w *world.World, tick uint64) (Snapshot, error) {
	snap := Snapshot{Tick: tick}

	for _, r := range w.Resources() {
		state, err := resourceState(r)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Resources = append(snap.Resources, state)
	}

	for _, loc := range w.Locations() {
		if !loc.Unlocked {
			continue
		}
		for _, b := range loc.Buildings {
			state, err := buildingState(b)
			if err != nil {
				return Snapshot{}, err
			}
			snap.Buildings = append(snap.Buildings, state)
		}
	}
	return snap, nil
}

func resourceState(r *world.Resource) (ResourceState, error) {
	limit, err := r.MaxAmount()
	if err != nil {
		return ResourceState{}, fmt.Errorf("failed to snapshot %s: %w", r.Name(), err)
	}
	prod, err := r.Production()
	if err != nil {
		return ResourceState{}, fmt.Errorf("failed to snapshot %s: %w", r.Name(), err)
	}
	ttf, err := r.TimeToFull()
	if err != nil {
		return ResourceState{}, fmt.Errorf("failed to snapshot %s: %w", r.Name(), err)
	}

	state := ResourceState{
		Name:        r.Name(),
		DisplayName: r.DisplayName,
		Rarity:      r.Rarity.Name,
		Color:       r.Rarity.Color,
		Amount:      r.Amount(),
		MaxAmount:   limit,
		Production:  prod,
	}
	if r.Category != nil {
		state.Category = r.Category.Name
	}
	if !math.IsInf(ttf, 0) {
		state.TimeToFull = &ttf
	}
	return state, nil
}

func buildingState(b *world.Building) (BuildingState, error) {
	space, err := b.Space()
	if err != nil {
		return BuildingState{}, fmt.Errorf("failed to snapshot %s: %w", b.Name(), err)
	}
	price, err := b.Price()
	if err != nil {
		return BuildingState{}, fmt.Errorf("failed to snapshot %s: %w", b.Name(), err)
	}
	afford, err := b.CanAfford()
	if err != nil {
		return BuildingState{}, fmt.Errorf("failed to snapshot %s: %w", b.Name(), err)
	}
	return BuildingState{
		Name:        b.Name(),
		DisplayName: b.DisplayName,
		Description: b.Description,
		Location:    b.Location(),
		Owned:       b.Owned(),
		Space:       space,
		Price:       price,
		CanAfford:   afford,
	}, nil
}
