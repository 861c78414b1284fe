package t2048

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Letter returns the single-letter code used in move logs.
func (d Direction) Letter() byte {
	switch d {
	case DirUp:
		return 'U'
	case DirDown:
		return 'D'
	case DirLeft:
		return 'L'
	case DirRight:
		return 'R'
	default:
		return '?'
	}
}

// ParseDirection accepts direction names in any case and the log letters U, D, L, R.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	}
	return 0, fmt.Errorf("t2048: unknown direction %q", s)
}

// Cell is a grid coordinate. X is the column, Y the row; row 0 is the top edge.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the neighbouring cell in the given direction.
func (c Cell) Step(dir Direction) Cell {
	switch dir {
	case DirUp:
		return Cell{c.X, c.Y - 1}
	case DirDown:
		return Cell{c.X, c.Y + 1}
	case DirLeft:
		return Cell{c.X - 1, c.Y}
	case DirRight:
		return Cell{c.X + 1, c.Y}
	}
	return c
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Tile is a single numbered tile. Value is always 1<<Power.
type Tile struct {
	Value    int
	Power    int
	Upgraded bool // merged during the current turn
}

// newTile builds a tile from a power-of-two value.
func newTile(value int) *Tile {
	return &Tile{Value: value, Power: powerOf(value)}
}

// upgraded returns the tile produced by merging t with an equal tile.
func (t *Tile) upgraded() *Tile {
	return &Tile{Value: t.Value * 2, Power: t.Power + 1, Upgraded: true}
}

// isPowerOfTwo reports whether v is a power of two greater than one.
func isPowerOfTwo(v int) bool {
	return v > 1 && v&(v-1) == 0
}

func powerOf(v int) int {
	return bits.TrailingZeros(uint(v))
}

var (
	// ErrNotStarted is returned by Turn before Start has spawned the opening tiles.
	ErrNotStarted = errors.New("t2048: game not started")

	// ErrAlreadyStarted is returned by Start outside the loaded phase.
	ErrAlreadyStarted = errors.New("t2048: game already started")

	// ErrGameOver is returned by Turn once no moves remain.
	ErrGameOver = errors.New("t2048: game over")
)

// GridFullError reports a spawn attempt on a grid with no empty cell.
type GridFullError struct {
	Rows, Cols int
}

func (e *GridFullError) Error() string {
	return fmt.Sprintf("t2048: unable to spawn tile, %dx%d grid is full", e.Rows, e.Cols)
}

// InvalidCellError reports a lookup outside the grid bounds.
type InvalidCellError struct {
	Cell       Cell
	Rows, Cols int
}

func (e *InvalidCellError) Error() string {
	return fmt.Sprintf("t2048: cell %s outside %dx%d grid", e.Cell, e.Rows, e.Cols)
}
