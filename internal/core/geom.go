// Package core holds the platform types shared by games and front ends:
// the character screen buffer, input frames and runtime config. It does
// not import Bubble Tea so game logic stays testable on its own.
package core

// Rect is a screen area in cells.
type Rect struct {
	X, Y int
	W, H int
}

// Right is the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.W }

// Bottom is the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// ClampF restricts v to [lo, hi].
func ClampF(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
