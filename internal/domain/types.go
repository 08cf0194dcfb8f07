package domain

// Grid is a square puzzle grid stored row-major. A full grid holds values
// in 1..Size in every cell; a partial grid uses 0 for blanks.
type Grid struct {
	Size  int      `json:"size"`
	Cells []uint16 `json:"cells"`
}

// NewGrid returns an empty (all-blank) grid of the given dimension.
func NewGrid(size int) *Grid {
	return &Grid{Size: size, Cells: make([]uint16, size*size)}
}

// At returns the value at (row, col).
func (g *Grid) At(row, col int) uint16 { return g.Cells[row*g.Size+col] }

// Set stores v at (row, col).
func (g *Grid) Set(row, col int, v uint16) { g.Cells[row*g.Size+col] = v }

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]uint16, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{Size: g.Size, Cells: cells}
}

// Filled counts the non-blank cells.
func (g *Grid) Filled() int {
	n := 0
	for _, v := range g.Cells {
		if v != 0 {
			n++
		}
	}
	return n
}

// Complete reports whether every cell is filled.
func (g *Grid) Complete() bool { return g.Filled() == len(g.Cells) }

// CellCoord identifies a cell on the grid.
type CellCoord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Instance is a benchmark puzzle: a partial grid plus the provenance it
// was derived with. Density is the requested fill fraction; the actual
// fraction may differ slightly because the blank count is floored.
type Instance struct {
	BlockSize int     `json:"blockSize"`
	Density   float64 `json:"density"`
	Seed      int64   `json:"seed,omitempty"`
	Grid      Grid    `json:"grid"`
}

// FilledFraction returns the actual fraction of non-blank cells.
func (inst *Instance) FilledFraction() float64 {
	total := len(inst.Grid.Cells)
	if total == 0 {
		return 0
	}
	return float64(inst.Grid.Filled()) / float64(total)
}

// InstanceMeta is a lightweight listing entry for persisted instances.
type InstanceMeta struct {
	Name    string  `json:"name"`
	Size    int     `json:"size"`
	Density float64 `json:"density"`
}
