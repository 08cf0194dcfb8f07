package deriver

import (
	"context"
	"runtime"
	"sync"

	"svw.info/gridgen/internal/domain"
	"svw.info/gridgen/internal/model"
	"svw.info/gridgen/internal/ports"
)

// BatchSpec enumerates a (block size, density, replicate) product, the way
// benchmark suites are produced in bulk.
type BatchSpec struct {
	BlockSizes []int
	Densities  []float64
	Replicates int
	Seed       int64
	Workers    int // <= 0 means GOMAXPROCS
	MaxRetries int
}

// BatchItem is one generated instance (or the error that stopped it).
type BatchItem struct {
	Inst      *domain.Instance
	Replicate int // 1-based within its (size, density) pair
	Stats     ports.Stats
	Err       error
}

// RunBatch generates every combination in spec, invoking emit for each
// finished item. One model is built per block size and shared read-only by
// all workers; each job owns its private seed and search state, so no
// locking is needed around the engine. emit is serialized by a mutex, so
// callers may write to shared sinks without their own locking.
func RunBatch(ctx context.Context, spec BatchSpec, solver ports.Solver, emit func(BatchItem)) error {
	type job struct {
		gen       *Generator
		seed      int64
		density   float64
		replicate int
	}

	var jobs []job
	seed := spec.Seed
	for _, b := range spec.BlockSizes {
		m, err := model.Build(b)
		if err != nil {
			return err
		}
		gen := NewGenerator(m, solver)
		if spec.MaxRetries > 0 {
			gen.MaxRetries = spec.MaxRetries
		}
		for _, d := range spec.Densities {
			for i := 1; i <= spec.Replicates; i++ {
				jobs = append(jobs, job{gen: gen, seed: seed, density: d, replicate: i})
				seed++
			}
		}
	}

	workers := spec.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobCh := make(chan job)
	var wg sync.WaitGroup
	var emitMu sync.Mutex
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				inst, st, err := j.gen.Generate(ctx, j.seed, j.density)
				emitMu.Lock()
				emit(BatchItem{Inst: inst, Replicate: j.replicate, Stats: st, Err: err})
				emitMu.Unlock()
			}
		}()
	}

	for _, j := range jobs {
		select {
		case jobCh <- j:
		case <-ctx.Done():
			close(jobCh)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(jobCh)
	wg.Wait()
	return nil
}
