// Package deriver turns full solved grids into partially-blanked benchmark
// instances and drives the solve-then-punch generation pipeline.
package deriver

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"svw.info/gridgen/internal/domain"
	"svw.info/gridgen/internal/model"
	"svw.info/gridgen/internal/ports"
)

// Derive blanks floor(n²·(1−density)) cells of a copy of g, chosen
// uniformly without replacement. The source grid is never mutated, and
// every remaining cell keeps its value from g, so the full grid stays a
// valid witness solution for the instance.
func Derive(g *domain.Grid, density float64, rng *rand.Rand) (*domain.Grid, error) {
	if !(density > 0 && density <= 1) { // also rejects NaN
		return nil, fmt.Errorf("density %v: %w", density, domain.ErrInvalidDensity)
	}
	out := g.Clone()
	total := len(out.Cells)
	toRemove := int(float64(total) * (1 - density))

	positions := rng.Perm(total)
	for _, idx := range positions[:toRemove] {
		out.Cells[idx] = 0
	}
	return out, nil
}

// DefaultMaxRetries bounds how often a generation re-seeds the solver
// after an exhausted search. Exhaustion should not happen for a sound
// model; hitting the bound repeatedly indicates a genuine defect, so it
// is surfaced instead of looping forever.
const DefaultMaxRetries = 10

// Generator is the full pipeline for one constraint model: produce a
// fresh random full grid, then punch it down to a target density.
type Generator struct {
	Model      *model.Model
	Solver     ports.Solver
	MaxRetries int
}

// NewGenerator wires a generation pipeline over a shared read-only model.
func NewGenerator(m *model.Model, s ports.Solver) *Generator {
	return &Generator{Model: m, Solver: s, MaxRetries: DefaultMaxRetries}
}

// Generate produces one instance. The seed determines both the solver's
// search order and the punched positions, so a (seed, density) pair is
// reproducible. Retries on ErrSearchExhausted draw follow-up seeds from
// the same stream and are counted in the returned stats.
func (g *Generator) Generate(ctx context.Context, seed int64, density float64) (*domain.Instance, ports.Stats, error) {
	if !(density > 0 && density <= 1) {
		return nil, ports.Stats{}, fmt.Errorf("density %v: %w", density, domain.ErrInvalidDensity)
	}
	start := time.Now()
	rng := rand.New(rand.NewSource(seed))
	retries := g.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}

	var total ports.Stats
	var full *domain.Grid
	for attempt := 0; attempt < retries; attempt++ {
		grid, st, err := g.Solver.Solve(ctx, g.Model, rng.Int63())
		total.Add(st)
		if err == nil {
			full = grid
			break
		}
		if !errors.Is(err, domain.ErrSearchExhausted) {
			total.Duration = time.Since(start)
			return nil, total, err
		}
		total.Retries++
	}
	if full == nil {
		total.Duration = time.Since(start)
		return nil, total, fmt.Errorf("no full grid after %d attempts: %w", retries, domain.ErrSearchExhausted)
	}

	punched, err := Derive(full, density, rng)
	if err != nil {
		total.Duration = time.Since(start)
		return nil, total, err
	}
	total.Duration = time.Since(start)
	inst := &domain.Instance{
		BlockSize: g.Model.BlockSize,
		Density:   density,
		Seed:      seed,
		Grid:      *punched,
	}
	return inst, total, nil
}
