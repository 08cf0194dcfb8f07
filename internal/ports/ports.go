package ports

import (
	"context"
	"time"

	"svw.info/gridgen/internal/domain"
	"svw.info/gridgen/internal/model"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Nodes      int
	Backtracks int
	Retries    int
	Duration   time.Duration
}

// Add accumulates another operation's stats into s.
func (s *Stats) Add(o Stats) {
	s.Nodes += o.Nodes
	s.Backtracks += o.Backtracks
	s.Retries += o.Retries
	s.Duration += o.Duration
}

// Solver searches for satisfying assignments of a constraint model.
// Solve fills an empty grid from a seeded random search; Complete extends
// the clues of a partial grid; Unique reports whether a partial grid has
// exactly one completion.
type Solver interface {
	Solve(ctx context.Context, m *model.Model, seed int64) (*domain.Grid, Stats, error)
	Complete(ctx context.Context, m *model.Model, g *domain.Grid) (*domain.Grid, Stats, error)
	Unique(ctx context.Context, m *model.Model, g *domain.Grid) (bool, Stats, error)
}

// Generator produces benchmark instances at a target density.
type Generator interface {
	Generate(ctx context.Context, seed int64, density float64) (*domain.Instance, Stats, error)
}

// Validator performs fast distinctness checks over rows, columns and blocks.
type Validator interface {
	Validate(ctx context.Context, m *model.Model, g *domain.Grid) (ok bool, conflicts []domain.CellCoord, err error)
}

// Storage persists and retrieves instances as .dzn files.
type Storage interface {
	Save(ctx context.Context, inst *domain.Instance, replicate int) (string, error)
	Load(ctx context.Context, name string) (*domain.Instance, error)
	List(ctx context.Context) ([]domain.InstanceMeta, error)
}
