// Package model builds the distinctness-group structure of a generalized
// Sudoku grid: block size b gives an n×n grid with n = b², and 3n groups
// (rows, columns, aligned b×b blocks) whose n member cells must take
// pairwise-distinct values from 1..n.
package model

import (
	"fmt"

	"svw.info/gridgen/internal/domain"
)

// Model is the constraint structure for one block size. It is pure data:
// built once, read-only afterwards, and safe to share across concurrent
// solver runs.
type Model struct {
	BlockSize int
	Size      int // n = BlockSize²

	// Groups holds 3n groups of n flat cell indices each:
	// ids 0..n-1 are rows, n..2n-1 columns, 2n..3n-1 blocks.
	Groups [][]int

	// CellGroups maps every flat cell index to its row, column and block
	// group ids, in that order.
	CellGroups [][3]int
}

// MaxBlockSize bounds the block size so that cell values fit in uint16.
const MaxBlockSize = 255

// Build constructs the model for block size b. Only b outside the
// supported range is an error; the group structure itself always exists.
func Build(b int) (*Model, error) {
	if b < 2 {
		return nil, fmt.Errorf("block size %d: %w", b, domain.ErrInvalidModel)
	}
	if b > MaxBlockSize {
		return nil, fmt.Errorf("block size %d exceeds %d: %w", b, MaxBlockSize, domain.ErrInvalidModel)
	}
	n := b * b
	m := &Model{
		BlockSize:  b,
		Size:       n,
		Groups:     make([][]int, 0, 3*n),
		CellGroups: make([][3]int, n*n),
	}

	// rows
	for r := 0; r < n; r++ {
		g := make([]int, n)
		for c := 0; c < n; c++ {
			g[c] = r*n + c
		}
		m.Groups = append(m.Groups, g)
	}
	// columns
	for c := 0; c < n; c++ {
		g := make([]int, n)
		for r := 0; r < n; r++ {
			g[r] = r*n + c
		}
		m.Groups = append(m.Groups, g)
	}
	// blocks
	for br := 0; br < b; br++ {
		for bc := 0; bc < b; bc++ {
			g := make([]int, 0, n)
			for dr := 0; dr < b; dr++ {
				for dc := 0; dc < b; dc++ {
					g = append(g, (br*b+dr)*n+bc*b+dc)
				}
			}
			m.Groups = append(m.Groups, g)
		}
	}

	for idx := range m.CellGroups {
		r, c := idx/n, idx%n
		m.CellGroups[idx] = [3]int{
			r,
			n + c,
			2*n + (r/b)*b + c/b,
		}
	}
	return m, nil
}

// NumCells returns n², the number of cells in the grid.
func (m *Model) NumCells() int { return m.Size * m.Size }

// GroupID helpers for readers of Groups.
func (m *Model) RowGroup(r int) []int   { return m.Groups[r] }
func (m *Model) ColGroup(c int) []int   { return m.Groups[m.Size+c] }
func (m *Model) BlockGroup(i int) []int { return m.Groups[2*m.Size+i] }
