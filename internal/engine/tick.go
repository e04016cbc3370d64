// Package engine generates worlds and drives their simulation: the weekly
// economy pass, caravan traffic and the tick loop.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Step advances the world by one tick: the day moves on, the economy is
// resolved when the day wraps to 0, one caravan may set out and every
// caravan moves.
func (w *World) Step() {
	w.Tick++
	w.Day = (w.Day + 1) % w.Config.DaysPerWeek
	if w.Day == 0 {
		w.Week++
		w.UpdateCities()
		w.logWeek()
	}
	w.SpawnCaravan()
	w.MoveCaravans()
}

// SimTime renders the clock as a human-readable string.
func SimTime(tick uint64, daysPerWeek int) string {
	if daysPerWeek < 1 {
		daysPerWeek = 1
	}
	week := tick/uint64(daysPerWeek) + 1
	day := tick%uint64(daysPerWeek) + 1
	return fmt.Sprintf("Week %d Day %d", week, day)
}

// Engine drives a world forward on a wall-clock interval.
type Engine struct {
	World    *World
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused; guarded by Lock
	Interval time.Duration // Base tick interval

	// Lock guards World. Hosts reading the world concurrently share it.
	Lock *sync.Mutex

	// Callbacks, invoked with the lock held.
	OnTick func(w *World)
	OnWeek func(w *World)
}

// NewEngine creates an engine for w with default settings.
func NewEngine(w *World) *Engine {
	return &Engine{
		World:    w,
		Speed:    1.0,
		Interval: time.Second,
		Lock:     &sync.Mutex{},
	}
}

// Run steps the world until ctx is cancelled or maxTicks ticks have run
// (0 = unbounded). Speed and World are read under Lock, so hosts may change
// them while the loop runs.
func (e *Engine) Run(ctx context.Context, maxTicks uint64) error {
	speed, tick := e.state()
	slog.Info("simulation engine started", "tick", tick, "speed", speed)
	defer func() {
		_, tick := e.state()
		slog.Info("simulation engine stopped", "tick", tick)
	}()

	var ran uint64
	for maxTicks == 0 || ran < maxTicks {
		speed, _ := e.state()
		if speed <= 0 {
			// Paused.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}

		start := time.Now()
		e.step()
		ran++

		target := time.Duration(float64(e.Interval) / speed)
		wait := target - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil
}

func (e *Engine) state() (speed float64, tick uint64) {
	e.Lock.Lock()
	defer e.Lock.Unlock()
	return e.Speed, e.World.Tick
}

func (e *Engine) step() {
	e.Lock.Lock()
	defer e.Lock.Unlock()

	week := e.World.Week
	e.World.Step()
	if e.OnTick != nil {
		e.OnTick(e.World)
	}
	if e.World.Week != week && e.OnWeek != nil {
		e.OnWeek(e.World)
	}
}
