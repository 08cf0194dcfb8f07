package solver

import (
	"context"
	"errors"
	"testing"
	"time"

	"svw.info/gridgen/internal/domain"
	"svw.info/gridgen/internal/model"
)

// A classic, solvable 9x9 Sudoku (0 = empty).
var sample = [][]uint16{
	{5, 3, 0, 0, 7, 0, 0, 0, 0},
	{6, 0, 0, 1, 9, 5, 0, 0, 0},
	{0, 9, 8, 0, 0, 0, 0, 6, 0},
	{8, 0, 0, 0, 6, 0, 0, 0, 3},
	{4, 0, 0, 8, 0, 3, 0, 0, 1},
	{7, 0, 0, 0, 2, 0, 0, 0, 6},
	{0, 6, 0, 0, 0, 0, 2, 8, 0},
	{0, 0, 0, 4, 1, 9, 0, 0, 5},
	{0, 0, 0, 0, 8, 0, 0, 7, 9},
}

func sampleGrid() *domain.Grid {
	g := domain.NewGrid(9)
	for r, row := range sample {
		for c, v := range row {
			g.Set(r, c, v)
		}
	}
	return g
}

func mustModel(t *testing.T, b int) *model.Model {
	t.Helper()
	m, err := model.Build(b)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// assertAllGroupsDistinct checks every group holds n distinct values 1..n.
func assertAllGroupsDistinct(t *testing.T, m *model.Model, g *domain.Grid) {
	t.Helper()
	for gi, group := range m.Groups {
		seen := model.NewValueSet(m.Size)
		for _, idx := range group {
			v := g.Cells[idx]
			if v == 0 || int(v) > m.Size {
				t.Fatalf("group %d: cell %d holds %d, want 1..%d", gi, idx, v, m.Size)
			}
			if seen.Has(v) {
				t.Fatalf("group %d repeats value %d", gi, v)
			}
			seen.Add(v)
		}
	}
}

func TestSolveProducesValidFullGrids(t *testing.T) {
	for _, b := range []int{2, 3, 4} {
		m := mustModel(t, b)
		s := NewBacktracking()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		g, st, err := s.Solve(ctx, m, 42)
		if err != nil {
			t.Fatalf("Solve(b=%d) failed: %v (nodes=%d)", b, err, st.Nodes)
		}
		if !g.Complete() {
			t.Fatalf("Solve(b=%d) left blanks", b)
		}
		assertAllGroupsDistinct(t, m, g)
	}
}

func TestSolveSeedsDiffer(t *testing.T) {
	m := mustModel(t, 3)
	s := NewBacktracking()
	ctx := context.Background()
	grids := map[string]bool{}
	for seed := int64(1); seed <= 10; seed++ {
		g, _, err := s.Solve(ctx, m, seed)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		key := ""
		for _, v := range g.Cells {
			key += string(rune(v + 'a'))
		}
		grids[key] = true
	}
	if len(grids) < 2 {
		t.Fatalf("10 seeds produced %d distinct grid(s); randomization is broken", len(grids))
	}
}

func TestCompleteSolvesSample(t *testing.T) {
	m := mustModel(t, 3)
	for _, h := range []Heuristic{HeuristicInputOrder, HeuristicMRV, HeuristicDegree, HeuristicHybrid} {
		t.Run(h.String(), func(t *testing.T) {
			s := &Backtracking{Heuristic: h}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			in := sampleGrid()
			out, st, err := s.Complete(ctx, m, in)
			if err != nil {
				t.Fatalf("Complete failed: %v (nodes=%d dur=%v)", err, st.Nodes, st.Duration)
			}
			assertAllGroupsDistinct(t, m, out)
			// clues preserved
			for idx, v := range in.Cells {
				if v != 0 && out.Cells[idx] != v {
					t.Fatalf("clue at cell %d changed: %d -> %d", idx, v, out.Cells[idx])
				}
			}
		})
	}
}

func TestCompleteDeterministic(t *testing.T) {
	m := mustModel(t, 3)
	s := NewBacktracking()
	ctx := context.Background()
	a, _, err := s.Complete(ctx, m, sampleGrid())
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := s.Complete(ctx, m, sampleGrid())
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Cells {
		if a.Cells[i] != b.Cells[i] {
			t.Fatalf("Complete is not deterministic at cell %d", i)
		}
	}
}

func TestCompleteRejectsConflictingClues(t *testing.T) {
	m := mustModel(t, 2)
	g := domain.NewGrid(4)
	g.Set(0, 0, 1)
	g.Set(0, 3, 1) // same row
	s := NewBacktracking()
	_, _, err := s.Complete(context.Background(), m, g)
	if !errors.Is(err, domain.ErrSearchExhausted) {
		t.Fatalf("err = %v, want ErrSearchExhausted", err)
	}
}

func TestCompleteRejectsWrongShape(t *testing.T) {
	m := mustModel(t, 3)
	s := NewBacktracking()
	if _, _, err := s.Complete(context.Background(), m, domain.NewGrid(4)); err == nil {
		t.Fatal("expected shape error for 4x4 grid against 9x9 model")
	}
}

func TestUnique(t *testing.T) {
	m := mustModel(t, 3)
	s := NewBacktracking()
	ctx := context.Background()

	ok, _, err := s.Unique(ctx, m, sampleGrid())
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("classic sample should have a unique completion")
	}

	empty := domain.NewGrid(9)
	ok, _, err = s.Unique(ctx, m, empty)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("empty grid reported unique")
	}
}

func TestSolveHonorsCancellation(t *testing.T) {
	m := mustModel(t, 4)
	s := NewBacktracking()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := s.Solve(ctx, m, 7); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestParseHeuristic(t *testing.T) {
	cases := []struct {
		in   string
		want Heuristic
	}{
		{"mrv", HeuristicMRV},
		{"Degree", HeuristicDegree},
		{"input-order", HeuristicInputOrder},
		{"hybrid", HeuristicHybrid},
		{"", HeuristicHybrid},
	}
	for _, tc := range cases {
		got, err := ParseHeuristic(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseHeuristic(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
	if _, err := ParseHeuristic("bogus"); err == nil {
		t.Fatal("expected error for unknown heuristic")
	}
}
