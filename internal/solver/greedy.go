// Package solver picks building purchases by return on investment.
package solver

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/napolitain/idlelink/internal/world"
)

// ROIMetric represents the components of an ROI calculation
type ROIMetric struct {
	GainPerSecond float64 // total production added by one more building
	TotalCost     float64 // sum of the next price over all resources
}

// Calculate computes the final ROI value
func (m ROIMetric) Calculate() float64 {
	if m.TotalCost <= 0 {
		return m.GainPerSecond * 1000 // Very high ROI if free
	}
	return m.GainPerSecond / m.TotalCost
}

// Candidate is one building the player could buy next
type Candidate struct {
	Building   *world.Building
	Metric     ROIMetric
	Affordable bool
	Reachable  bool // every price fits under the resource's maxAmount
}

// Purchase records one bought building
type Purchase struct {
	Tick     uint64
	Building string
	Owned    int
	Cost     map[string]float64
}

// totalProduction sums the production of every resource
func totalProduction(w *world.World) (float64, error) {
	total := 0.0
	for _, r := range w.Resources() {
		p, err := r.Production()
		if err != nil {
			return 0, err
		}
		total += p
	}
	return total, nil
}

// marginalGain measures the production added by one more b. It briefly raises
// the owned count, so it must run on the goroutine that owns w.
func marginalGain(w *world.World, b *world.Building) (float64, error) {
	before, err := totalProduction(w)
	if err != nil {
		return 0, err
	}

	owned := b.Owned()
	if err := b.SetOwned(owned + 1); err != nil {
		return 0, err
	}
	after, err := totalProduction(w)
	if restoreErr := b.SetOwned(owned); restoreErr != nil {
		return 0, restoreErr
	}
	if err != nil {
		return 0, err
	}
	return after - before, nil
}

func reachable(w *world.World, price map[string]float64) (bool, error) {
	for name, cost := range price {
		r, ok := w.Resource(name)
		if !ok {
			return false, nil
		}
		limit, err := r.MaxAmount()
		if err != nil {
			return false, err
		}
		if cost > limit {
			return false, nil
		}
	}
	return true, nil
}

// Candidates evaluates every building of an unlocked location, best ROI first.
// Ties keep registration order.
func Candidates(w *world.World) ([]Candidate, error) {
	var out []Candidate
	for _, loc := range w.Locations() {
		if !loc.Unlocked {
			continue
		}
		for _, b := range loc.Buildings {
			c, err := evaluate(w, b)
			if err != nil {
				return nil, fmt.Errorf("failed to evaluate %s: %w", b.Name(), err)
			}
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Metric.Calculate() > out[j].Metric.Calculate()
	})
	return out, nil
}

func evaluate(w *world.World, b *world.Building) (Candidate, error) {
	gain, err := marginalGain(w, b)
	if err != nil {
		return Candidate{}, err
	}
	price, err := b.Price()
	if err != nil {
		return Candidate{}, err
	}
	afford, err := b.CanAfford()
	if err != nil {
		return Candidate{}, err
	}
	ok, err := reachable(w, price)
	if err != nil {
		return Candidate{}, err
	}

	total := 0.0
	for _, cost := range price {
		total += cost
	}
	return Candidate{
		Building:   b,
		Metric:     ROIMetric{GainPerSecond: gain, TotalCost: total},
		Affordable: afford,
		Reachable:  ok,
	}, nil
}

// Greedy buys the reachable building with the best ROI, waiting for it when it
// is not yet affordable.
type Greedy struct {
	Purchases []Purchase
	logger    *slog.Logger
}

// NewGreedy creates a greedy purchaser
func NewGreedy(logger *slog.Logger) *Greedy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Greedy{logger: logger}
}

// Act makes at most one purchase. It returns whether a building was bought.
func (g *Greedy) Act(w *world.World, tick uint64) (bool, error) {
	candidates, err := Candidates(w)
	if err != nil {
		return false, err
	}

	for _, c := range candidates {
		if !c.Reachable || c.Metric.GainPerSecond <= 0 {
			continue
		}
		if !c.Affordable {
			// Wait for the best one rather than spending on a worse one
			return false, nil
		}

		price, err := c.Building.Price()
		if err != nil {
			return false, err
		}
		bought, err := w.TryPurchase(c.Building)
		if err != nil || !bought {
			return false, err
		}

		g.Purchases = append(g.Purchases, Purchase{
			Tick:     tick,
			Building: c.Building.Name(),
			Owned:    c.Building.Owned(),
			Cost:     price,
		})
		g.logger.Debug("bought building",
			"building", c.Building.Name(),
			"owned", c.Building.Owned(),
			"roi", c.Metric.Calculate(),
			"tick", tick)
		return true, nil
	}
	return false, nil
}
