package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"svw.info/gridgen/internal/domain"
	"svw.info/gridgen/internal/dzn"
)

// FS persists instances as .dzn files under <dir>/<n>x<n>/, using the
// benchmark naming convention sudoku_<n>x<n>_d<dd>_<replicate>.dzn where
// <dd> encodes the requested density in tenths (0.2 -> d02).
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

// FileName returns the conventional name for an instance replicate.
func FileName(inst *domain.Instance, replicate int) string {
	n := inst.Grid.Size
	return fmt.Sprintf("sudoku_%dx%d_d%02d_%d.dzn", n, n, int(math.Round(inst.Density*10)), replicate)
}

func (s *FS) pathFor(inst *domain.Instance, replicate int) string {
	n := inst.Grid.Size
	return filepath.Join(s.dir, fmt.Sprintf("%dx%d", n, n), FileName(inst, replicate))
}

// Save serializes the instance and writes it in one piece; the file only
// exists once the instance is fully formed. Returns the written path.
func (s *FS) Save(ctx context.Context, inst *domain.Instance, replicate int) (string, error) {
	if inst == nil || inst.Grid.Size == 0 {
		return "", errors.New("invalid instance: empty grid")
	}
	target := s.pathFor(inst, replicate)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(target, dzn.Marshal(inst), 0o644); err != nil {
		return "", err
	}
	return target, nil
}

// Load finds an instance by file name, searching the per-size
// subdirectories and the flat root for legacy layouts.
func (s *FS) Load(ctx context.Context, name string) (*domain.Instance, error) {
	if !strings.HasSuffix(name, ".dzn") {
		name += ".dzn"
	}
	candidates := []string{filepath.Join(s.dir, name)}
	if ents, err := os.ReadDir(s.dir); err == nil {
		for _, e := range ents {
			if e.IsDir() {
				candidates = append(candidates, filepath.Join(s.dir, e.Name(), name))
			}
		}
	}
	for _, path := range candidates {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		inst, perr := dzn.Parse(f)
		f.Close()
		if perr != nil {
			return nil, fmt.Errorf("%s: %w", path, perr)
		}
		return inst, nil
	}
	return nil, os.ErrNotExist
}

// List walks the store and returns a listing entry per .dzn file.
func (s *FS) List(ctx context.Context) ([]domain.InstanceMeta, error) {
	var out []domain.InstanceMeta
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".dzn") {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil // skip unreadable entries
		}
		inst, perr := dzn.Parse(f)
		f.Close()
		if perr != nil {
			return nil // skip malformed entries
		}
		out = append(out, domain.InstanceMeta{
			Name:    d.Name(),
			Size:    inst.Grid.Size,
			Density: inst.Density,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
