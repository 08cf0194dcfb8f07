package solver

import (
	"fmt"
	"strings"
)

// Heuristic selects which unassigned cell the search branches on next.
type Heuristic int

const (
	// HeuristicInputOrder takes cells in flat grid order. Cheap per node
	// but blind; kept as the naive baseline for benchmarks.
	HeuristicInputOrder Heuristic = iota
	// HeuristicMRV picks the cell with the fewest remaining candidates.
	HeuristicMRV
	// HeuristicDegree picks the cell with the most unassigned peers.
	HeuristicDegree
	// HeuristicHybrid is MRV with degree as the tie-break.
	HeuristicHybrid
)

func (h Heuristic) String() string {
	switch h {
	case HeuristicInputOrder:
		return "input-order"
	case HeuristicMRV:
		return "mrv"
	case HeuristicDegree:
		return "degree"
	case HeuristicHybrid:
		return "hybrid"
	}
	return fmt.Sprintf("heuristic(%d)", int(h))
}

// ParseHeuristic maps a CLI/API name to a Heuristic.
func ParseHeuristic(s string) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "input-order", "inputorder", "naive":
		return HeuristicInputOrder, nil
	case "mrv":
		return HeuristicMRV, nil
	case "degree":
		return HeuristicDegree, nil
	case "hybrid", "":
		return HeuristicHybrid, nil
	}
	return 0, fmt.Errorf("unknown heuristic %q", s)
}

// next returns the cell to branch on, or -1 when all cells are assigned.
func (s *searchState) next(h Heuristic) int {
	switch h {
	case HeuristicInputOrder:
		for idx, v := range s.cells {
			if v == 0 {
				return idx
			}
		}
		return -1
	case HeuristicDegree:
		best, bestDeg := -1, -1
		for idx, v := range s.cells {
			if v != 0 {
				continue
			}
			if d := s.degree(idx); d > bestDeg {
				best, bestDeg = idx, d
			}
		}
		return best
	case HeuristicHybrid:
		return s.nextMRV(true)
	default:
		return s.nextMRV(false)
	}
}

// nextMRV scans for the minimum-remaining-candidates cell. Ties are broken
// by degree when degreeTie is set, and randomly (reservoir style) when the
// state carries a random source, so repeated randomized runs explore
// different assignment orders. A zero-candidate cell wins immediately:
// branching on it fails at once, which is how domain wipeouts surface.
func (s *searchState) nextMRV(degreeTie bool) int {
	best, bestCount, bestDeg := -1, s.m.Size+1, -1
	ties := 0
	for idx, v := range s.cells {
		if v != 0 {
			continue
		}
		count := s.candidateCount(idx)
		if count == 0 {
			return idx
		}
		switch {
		case count < bestCount:
			best, bestCount = idx, count
			ties = 1
			if degreeTie {
				bestDeg = s.degree(idx)
			}
		case count == bestCount && degreeTie:
			if d := s.degree(idx); d > bestDeg {
				best, bestDeg = idx, d
			}
		case count == bestCount && s.rng != nil:
			ties++
			if s.rng.Intn(ties) == 0 {
				best = idx
			}
		}
	}
	return best
}

// degree counts unassigned cells sharing a group with idx.
func (s *searchState) degree(idx int) int {
	d := 0
	for _, gi := range s.m.CellGroups[idx] {
		for _, peer := range s.m.Groups[gi] {
			if peer != idx && s.cells[peer] == 0 {
				d++
			}
		}
	}
	return d
}
