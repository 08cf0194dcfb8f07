package usecase

import (
	"context"
	"errors"
	"sync"

	"svw.info/gridgen/internal/deriver"
	"svw.info/gridgen/internal/domain"
	"svw.info/gridgen/internal/model"
	"svw.info/gridgen/internal/ports"
)

// Service wires the engine components behind one facade. Constraint models
// are expensive relative to a single generation, so they are built once
// per block size and cached; a cached model is read-only and safe to share
// across concurrent requests.
type Service struct {
	Solver     ports.Solver
	Validator  ports.Validator
	Storage    ports.Storage
	MaxRetries int

	mu     sync.Mutex
	models map[int]*model.Model
}

func NewService(s ports.Solver, v ports.Validator, st ports.Storage) *Service {
	return &Service{
		Solver:     s,
		Validator:  v,
		Storage:    st,
		MaxRetries: deriver.DefaultMaxRetries,
		models:     make(map[int]*model.Model),
	}
}

var errNotConfigured = errors.New("usecase dependency not configured")

// ModelFor returns the cached constraint model for a block size, building
// it on first use.
func (u *Service) ModelFor(b int) (*model.Model, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if m, ok := u.models[b]; ok {
		return m, nil
	}
	m, err := model.Build(b)
	if err != nil {
		return nil, err
	}
	u.models[b] = m
	return m, nil
}

// Generate produces one instance for the given block size.
func (u *Service) Generate(ctx context.Context, blockSize int, seed int64, density float64) (*domain.Instance, ports.Stats, error) {
	if u.Solver == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	m, err := u.ModelFor(blockSize)
	if err != nil {
		return nil, ports.Stats{}, err
	}
	gen := deriver.NewGenerator(m, u.Solver)
	gen.MaxRetries = u.MaxRetries
	return gen.Generate(ctx, seed, density)
}

// Solve completes a partial instance against its model.
func (u *Service) Solve(ctx context.Context, inst *domain.Instance) (*domain.Grid, ports.Stats, error) {
	if u.Solver == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	m, err := u.ModelFor(inst.BlockSize)
	if err != nil {
		return nil, ports.Stats{}, err
	}
	return u.Solver.Complete(ctx, m, &inst.Grid)
}

// Validate checks an instance's grid for group conflicts.
func (u *Service) Validate(ctx context.Context, inst *domain.Instance) (bool, []domain.CellCoord, error) {
	if u.Validator == nil {
		return false, nil, errNotConfigured
	}
	m, err := u.ModelFor(inst.BlockSize)
	if err != nil {
		return false, nil, err
	}
	return u.Validator.Validate(ctx, m, &inst.Grid)
}

// Unique reports whether a partial instance has exactly one completion.
func (u *Service) Unique(ctx context.Context, inst *domain.Instance) (bool, ports.Stats, error) {
	if u.Solver == nil {
		return false, ports.Stats{}, errNotConfigured
	}
	m, err := u.ModelFor(inst.BlockSize)
	if err != nil {
		return false, ports.Stats{}, err
	}
	return u.Solver.Unique(ctx, m, &inst.Grid)
}

// Persistence
func (u *Service) Save(ctx context.Context, inst *domain.Instance, replicate int) (string, error) {
	if u.Storage == nil {
		return "", errNotConfigured
	}
	return u.Storage.Save(ctx, inst, replicate)
}

func (u *Service) Load(ctx context.Context, name string) (*domain.Instance, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, name)
}

func (u *Service) List(ctx context.Context) ([]domain.InstanceMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}
