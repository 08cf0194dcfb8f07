// Package solver implements randomized backtracking search with forward
// pruning over the distinctness groups of a constraint model.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"math/rand"
	"time"

	"svw.info/gridgen/internal/domain"
	"svw.info/gridgen/internal/model"
	"svw.info/gridgen/internal/ports"
)

// Backtracking searches cell by cell, pruning candidate values through
// per-group used-value sets. Heuristic governs cell selection when
// completing partial grids; full-grid generation always uses MRV with
// randomized tie-breaking.
type Backtracking struct {
	Heuristic Heuristic
}

func NewBacktracking() *Backtracking { return &Backtracking{Heuristic: HeuristicHybrid} }

// searchState is the mutable per-invocation state. Each call owns its own
// instance, so concurrent searches over a shared Model never interfere.
type searchState struct {
	m        *model.Model
	cells    []uint16
	used     []model.ValueSet // per group: values already placed in it
	unfilled int
	rng      *rand.Rand // nil for deterministic completion
	scratch  [][]uint16 // per-depth candidate buffers

	nodes      int
	backtracks int
}

func newSearchState(m *model.Model) *searchState {
	s := &searchState{
		m:        m,
		cells:    make([]uint16, m.NumCells()),
		used:     make([]model.ValueSet, len(m.Groups)),
		unfilled: m.NumCells(),
		scratch:  make([][]uint16, m.NumCells()),
	}
	for i := range s.used {
		s.used[i] = model.NewValueSet(m.Size)
	}
	return s
}

func (s *searchState) assign(idx int, v uint16) {
	s.cells[idx] = v
	for _, gi := range s.m.CellGroups[idx] {
		s.used[gi].Add(v)
	}
	s.unfilled--
}

func (s *searchState) unassign(idx int, v uint16) {
	s.cells[idx] = 0
	for _, gi := range s.m.CellGroups[idx] {
		s.used[gi].Del(v)
	}
	s.unfilled++
}

// loadClues seeds the state from a partial grid, rejecting out-of-range
// values and clues that already violate a group.
func (s *searchState) loadClues(g *domain.Grid) error {
	n := s.m.Size
	if g.Size != n || len(g.Cells) != n*n {
		return fmt.Errorf("grid is %dx%d, model wants %dx%d", g.Size, g.Size, n, n)
	}
	for idx, v := range g.Cells {
		if v == 0 {
			continue
		}
		if int(v) > n {
			return fmt.Errorf("cell (%d,%d): value %d out of range 1..%d", idx/n, idx%n, v, n)
		}
		for _, gi := range s.m.CellGroups[idx] {
			if s.used[gi].Has(v) {
				return fmt.Errorf("cell (%d,%d): clue %d repeats in its group: %w",
					idx/n, idx%n, v, domain.ErrSearchExhausted)
			}
		}
		s.assign(idx, v)
	}
	return nil
}

// candidates appends the values still allowed at idx to dst: everything in
// 1..n not used by the cell's row, column or block group.
func (s *searchState) candidates(idx int, dst []uint16) []uint16 {
	g := s.m.CellGroups[idx]
	a, b, c := s.used[g[0]], s.used[g[1]], s.used[g[2]]
	n := uint16(s.m.Size)
	for w := range a {
		free := ^(a[w] | b[w] | c[w])
		for free != 0 {
			bit := bits.TrailingZeros64(free)
			v := uint16(w*64+bit) + 1
			if v > n {
				return dst
			}
			dst = append(dst, v)
			free &= free - 1
		}
	}
	return dst
}

func (s *searchState) candidateCount(idx int) int {
	g := s.m.CellGroups[idx]
	a, b, c := s.used[g[0]], s.used[g[1]], s.used[g[2]]
	n := s.m.Size
	count := 0
	for w := range a {
		free := ^(a[w] | b[w] | c[w])
		if rem := n - w*64; rem < 64 {
			free &= (1 << rem) - 1
		}
		count += bits.OnesCount64(free)
	}
	return count
}

// dfs assigns one cell per level and recurses; a false return with nil
// error means the subtree holds no satisfying assignment.
func (s *searchState) dfs(ctx context.Context, h Heuristic, depth int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s.unfilled == 0 {
		return true, nil
	}
	idx := s.next(h)
	if s.scratch[depth] == nil {
		s.scratch[depth] = make([]uint16, 0, s.m.Size)
	}
	cands := s.candidates(idx, s.scratch[depth][:0])
	if s.rng != nil {
		s.rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
	}
	for _, v := range cands {
		s.nodes++
		s.assign(idx, v)
		ok, err := s.dfs(ctx, h, depth+1)
		if ok || err != nil {
			return ok, err
		}
		s.unassign(idx, v)
		s.backtracks++
	}
	s.scratch[depth] = cands[:0]
	return false, nil
}

// Solve produces a full grid for the model from a fresh seeded search.
// Different seeds yield different grids with overwhelming probability.
func (b *Backtracking) Solve(ctx context.Context, m *model.Model, seed int64) (*domain.Grid, ports.Stats, error) {
	start := time.Now()
	s := newSearchState(m)
	s.rng = rand.New(rand.NewSource(seed))
	ok, err := s.dfs(ctx, HeuristicMRV, 0)
	stats := ports.Stats{Nodes: s.nodes, Backtracks: s.backtracks, Duration: time.Since(start)}
	if err != nil {
		return nil, stats, err
	}
	if !ok {
		return nil, stats, fmt.Errorf("seed %d: %w", seed, domain.ErrSearchExhausted)
	}
	return &domain.Grid{Size: m.Size, Cells: s.cells}, stats, nil
}

// Complete extends a partial grid to a full one, leaving the clues in
// place. The configured Heuristic drives cell selection; candidate values
// are tried in ascending order, so the result is deterministic.
func (b *Backtracking) Complete(ctx context.Context, m *model.Model, g *domain.Grid) (*domain.Grid, ports.Stats, error) {
	start := time.Now()
	s := newSearchState(m)
	if err := s.loadClues(g); err != nil {
		return nil, ports.Stats{Duration: time.Since(start)}, err
	}
	ok, err := s.dfs(ctx, b.Heuristic, 0)
	stats := ports.Stats{Nodes: s.nodes, Backtracks: s.backtracks, Duration: time.Since(start)}
	if err != nil {
		return nil, stats, err
	}
	if !ok {
		return nil, stats, domain.ErrSearchExhausted
	}
	return &domain.Grid{Size: m.Size, Cells: s.cells}, stats, nil
}

// Unique counts completions up to 2 and reports whether exactly one
// exists. Conflicting clues simply mean zero completions.
func (b *Backtracking) Unique(ctx context.Context, m *model.Model, g *domain.Grid) (bool, ports.Stats, error) {
	start := time.Now()
	s := newSearchState(m)
	if err := s.loadClues(g); err != nil {
		if errors.Is(err, domain.ErrSearchExhausted) {
			return false, ports.Stats{Duration: time.Since(start)}, nil
		}
		return false, ports.Stats{Duration: time.Since(start)}, err
	}
	count, err := s.countCompletions(ctx, 2, 0)
	stats := ports.Stats{Nodes: s.nodes, Backtracks: s.backtracks, Duration: time.Since(start)}
	if err != nil {
		return false, stats, err
	}
	return count == 1, stats, nil
}

// countCompletions explores the whole subtree, stopping once limit
// solutions are found.
func (s *searchState) countCompletions(ctx context.Context, limit, depth int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.unfilled == 0 {
		return 1, nil
	}
	idx := s.next(HeuristicMRV)
	if s.scratch[depth] == nil {
		s.scratch[depth] = make([]uint16, 0, s.m.Size)
	}
	cands := s.candidates(idx, s.scratch[depth][:0])
	found := 0
	for _, v := range cands {
		s.nodes++
		s.assign(idx, v)
		sub, err := s.countCompletions(ctx, limit-found, depth+1)
		s.unassign(idx, v)
		if err != nil {
			return found, err
		}
		found += sub
		if found >= limit {
			return found, nil
		}
		s.backtracks++
	}
	s.scratch[depth] = cands[:0]
	return found, nil
}
