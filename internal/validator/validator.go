package validator

import (
	"context"

	"svw.info/gridgen/internal/domain"
	"svw.info/gridgen/internal/model"
)

// Fast checks distinctness over every group of a model in one pass per
// group, reporting the coordinates of repeated or out-of-range cells.
// Blank cells are ignored, so partial instances validate too.
type Fast struct{}

func New() *Fast { return &Fast{} }

func (v *Fast) Validate(ctx context.Context, m *model.Model, g *domain.Grid) (bool, []domain.CellCoord, error) {
	n := m.Size
	conf := make([]domain.CellCoord, 0, 8)
	seenConf := make(map[int]bool)
	mark := func(idx int) {
		if !seenConf[idx] {
			seenConf[idx] = true
			conf = append(conf, domain.CellCoord{Row: idx / n, Col: idx % n})
		}
	}

	seen := model.NewValueSet(n)
	for _, group := range m.Groups {
		seen.Reset()
		for _, idx := range group {
			val := g.Cells[idx]
			if val == 0 {
				continue
			}
			if int(val) > n {
				mark(idx)
				continue
			}
			if seen.Has(val) {
				mark(idx)
				continue
			}
			seen.Add(val)
		}
	}
	return len(conf) == 0, conf, nil
}
