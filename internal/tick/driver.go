// Package tick advances resource amounts on a fixed period.
package tick

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/napolitain/idlelink/internal/world"
)

// DefaultTicksPerSecond is used when the caller passes a non-positive rate
const DefaultTicksPerSecond = 5

// Action mutates the world on the tick goroutine
type Action func(w *world.World)

// Driver owns the world while running: steps and submitted actions execute on one goroutine.
type Driver struct {
	world          *world.World
	ticksPerSecond int
	logger         *slog.Logger

	actions chan Action
	ticks   uint64

	// OnTick runs on the tick goroutine after every step. Set before Run.
	OnTick func(w *world.World, tick uint64)

	stopChan chan struct{}
	stopOnce sync.Once
}

// New creates a driver. Production is per second, so each step adds production/ticksPerSecond.
func New(w *world.World, ticksPerSecond int, logger *slog.Logger) *Driver {
	if ticksPerSecond <= 0 {
		ticksPerSecond = DefaultTicksPerSecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		world:          w,
		ticksPerSecond: ticksPerSecond,
		logger:         logger,
		actions:        make(chan Action, 64),
		stopChan:       make(chan struct{}),
	}
}

func (d *Driver) TicksPerSecond() int { return d.ticksPerSecond }

// Interval is the period between two steps
func (d *Driver) Interval() time.Duration {
	return time.Second / time.Duration(d.ticksPerSecond)
}

// Ticks returns the number of completed steps
func (d *Driver) Ticks() uint64 { return d.ticks }

type update struct {
	resource *world.Resource
	amount   float64
}

// Step advances every resource by one tick, clamped to [0, maxAmount].
// All derived values are read before the first write.
func (d *Driver) Step() error {
	resources := d.world.Resources()
	updates := make([]update, 0, len(resources))

	for _, r := range resources {
		prod, err := r.Production()
		if err != nil {
			return fmt.Errorf("failed to read production of %s: %w", r.Name(), err)
		}
		limit, err := r.MaxAmount()
		if err != nil {
			return fmt.Errorf("failed to read max amount of %s: %w", r.Name(), err)
		}

		next := r.Amount() + prod/float64(d.ticksPerSecond)
		next = math.Min(next, limit)
		next = math.Max(next, 0)
		updates = append(updates, update{resource: r, amount: next})
	}

	for _, u := range updates {
		u.resource.SetAmount(u.amount)
	}
	d.ticks++
	return nil
}

// Submit queues an action for the tick goroutine. It blocks while the queue is full
// and returns the context error if ctx ends first.
func (d *Driver) Submit(ctx context.Context, action Action) error {
	select {
	case d.actions <- action:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopChan:
		return ErrStopped
	}
}

// Run steps the world until ctx is cancelled or Stop is called.
// Queued actions run between steps.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.Interval())
	defer ticker.Stop()

	d.logger.Info("tick driver started", "ticks_per_second", d.ticksPerSecond)
	defer d.logger.Info("tick driver stopped", "ticks", d.ticks)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.stopChan:
			return nil
		case action := <-d.actions:
			action(d.world)
		case <-ticker.C:
			if err := d.Step(); err != nil {
				d.logger.Error("tick failed", "tick", d.ticks, "error", err)
				return err
			}
			if d.OnTick != nil {
				d.OnTick(d.world, d.ticks)
			}
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopChan)
	})
}
