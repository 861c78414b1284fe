package t2048

// Grid is a fixed rows x cols arena of tiles indexed by cell.
// A nil slot is an empty cell.
type Grid struct {
	rows  int
	cols  int
	cells []*Tile
	count int
}

// NewGrid creates an empty grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]*Tile, rows*cols),
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Size returns the number of cells.
func (g *Grid) Size() int { return g.rows * g.cols }

// Count returns the number of occupied cells.
func (g *Grid) Count() int { return g.count }

// Full reports whether every cell is occupied.
func (g *Grid) Full() bool { return g.count >= g.Size() }

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.cols && c.Y >= 0 && c.Y < g.rows
}

// At returns the tile at c, or nil for an empty cell.
func (g *Grid) At(c Cell) (*Tile, error) {
	if !g.InBounds(c) {
		return nil, &InvalidCellError{Cell: c, Rows: g.rows, Cols: g.cols}
	}
	return g.cells[g.index(c)], nil
}

func (g *Grid) index(c Cell) int {
	return c.Y*g.cols + c.X
}

// tile is the unchecked lookup used inside sweeps, where bounds are already known.
func (g *Grid) tile(c Cell) *Tile {
	return g.cells[g.index(c)]
}

// put places t into an empty cell.
func (g *Grid) put(c Cell, t *Tile) {
	i := g.index(c)
	if g.cells[i] == nil {
		g.count++
	}
	g.cells[i] = t
}

// take removes and returns the tile at c.
func (g *Grid) take(c Cell) *Tile {
	i := g.index(c)
	t := g.cells[i]
	if t != nil {
		g.cells[i] = nil
		g.count--
	}
	return t
}

// move relocates the tile at from into the empty cell to.
func (g *Grid) move(from, to Cell) {
	g.cells[g.index(to)] = g.cells[g.index(from)]
	g.cells[g.index(from)] = nil
}

// Clear removes every tile.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = nil
	}
	g.count = 0
}

// Cells returns every cell in row-major order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, g.Size())
	for y := range g.rows {
		for x := range g.cols {
			out = append(out, Cell{x, y})
		}
	}
	return out
}

// EmptyCells returns coordinates of all empty cells.
func (g *Grid) EmptyCells() []Cell {
	var out []Cell
	for y := range g.rows {
		for x := range g.cols {
			if g.cells[y*g.cols+x] == nil {
				out = append(out, Cell{x, y})
			}
		}
	}
	return out
}

// Values returns a [y][x] snapshot of tile values, 0 for empty cells.
func (g *Grid) Values() [][]int {
	out := make([][]int, g.rows)
	for y := range g.rows {
		out[y] = make([]int, g.cols)
		for x := range g.cols {
			if t := g.cells[y*g.cols+x]; t != nil {
				out[y][x] = t.Value
			}
		}
	}
	return out
}

// MaxTile returns the highest tile value on the grid.
func (g *Grid) MaxTile() int {
	maxVal := 0
	for _, t := range g.cells {
		if t != nil && t.Value > maxVal {
			maxVal = t.Value
		}
	}
	return maxVal
}
