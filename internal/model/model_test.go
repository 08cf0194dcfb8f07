package model

import (
	"errors"
	"testing"

	"svw.info/gridgen/internal/domain"
)

func TestBuildGroupStructure(t *testing.T) {
	for _, b := range []int{2, 3, 4, 5} {
		t.Run(groupName(b), func(t *testing.T) {
			m, err := Build(b)
			if err != nil {
				t.Fatalf("Build(%d) failed: %v", b, err)
			}
			n := b * b
			if m.Size != n {
				t.Fatalf("Size = %d, want %d", m.Size, n)
			}
			if len(m.Groups) != 3*n {
				t.Fatalf("got %d groups, want %d", len(m.Groups), 3*n)
			}
			membership := make([]int, n*n)
			for gi, g := range m.Groups {
				if len(g) != n {
					t.Fatalf("group %d has %d cells, want %d", gi, len(g), n)
				}
				seen := map[int]bool{}
				for _, idx := range g {
					if idx < 0 || idx >= n*n {
						t.Fatalf("group %d: cell index %d out of range", gi, idx)
					}
					if seen[idx] {
						t.Fatalf("group %d repeats cell %d", gi, idx)
					}
					seen[idx] = true
					membership[idx]++
				}
			}
			for idx, count := range membership {
				if count != 3 {
					t.Fatalf("cell %d belongs to %d groups, want 3", idx, count)
				}
			}
		})
	}
}

func groupName(b int) string {
	return map[int]string{2: "4x4", 3: "9x9", 4: "16x16", 5: "25x25"}[b]
}

func TestBuildCellGroupsConsistent(t *testing.T) {
	m, err := Build(3)
	if err != nil {
		t.Fatal(err)
	}
	for idx, gs := range m.CellGroups {
		for _, gi := range gs {
			found := false
			for _, member := range m.Groups[gi] {
				if member == idx {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("cell %d claims group %d but the group does not contain it", idx, gi)
			}
		}
	}
}

func TestBuildRejectsInvalidBlockSize(t *testing.T) {
	for _, b := range []int{-1, 0, 1, MaxBlockSize + 1} {
		if _, err := Build(b); !errors.Is(err, domain.ErrInvalidModel) {
			t.Fatalf("Build(%d): err = %v, want ErrInvalidModel", b, err)
		}
	}
}

func TestValueSet(t *testing.T) {
	s := NewValueSet(100)
	for _, v := range []uint16{1, 64, 65, 100} {
		if s.Has(v) {
			t.Fatalf("fresh set contains %d", v)
		}
		s.Add(v)
		if !s.Has(v) {
			t.Fatalf("Add(%d) not visible", v)
		}
	}
	if got := s.Count(); got != 4 {
		t.Fatalf("Count = %d, want 4", got)
	}
	s.Del(64)
	if s.Has(64) || s.Count() != 3 {
		t.Fatalf("Del(64) left set in bad state: %v", s)
	}
	s.Reset()
	if s.Count() != 0 {
		t.Fatal("Reset left values behind")
	}
}
