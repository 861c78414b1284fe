package t2048

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellW     = 7 // columns per cell, counting its left border
	cellH     = 2 // rows per cell, counting its top border
	hudHeight = 3
)

// junctions holds the box-drawing joins indexed by [row edge][col edge],
// where an edge is 0 for the first line, 1 for inner lines and 2 for the last.
var junctions = [3][3]rune{
	{'┌', '┬', '┐'},
	{'├', '┼', '┤'},
	{'└', '┴', '┘'},
}

func edge(i, last int) int {
	switch i {
	case 0:
		return 0
	case last:
		return 2
	}
	return 1
}

// Rows returns the board height.
func (g *Game) Rows() int {
	if g.resolver == nil {
		return BoardSize
	}
	return g.resolver.Rows()
}

// Cols returns the board width.
func (g *Game) Cols() int {
	if g.resolver == nil {
		return BoardSize
	}
	return g.resolver.Cols()
}

// boardLayout places the grid frame below the HUD, centered horizontally.
type boardLayout struct {
	rows, cols int
	frame      core.Rect
}

func (g *Game) layout() boardLayout {
	rows, cols := g.Rows(), g.Cols()
	w, h := cols*cellW+1, rows*cellH+1
	return boardLayout{
		rows:  rows,
		cols:  cols,
		frame: core.Rect{X: (g.screenW - w) / 2, Y: hudHeight + 1, W: w, H: h},
	}
}

// fits reports whether the board, HUD and a margin fit on a w x h screen.
func (l boardLayout) fits(w, h int) bool {
	return w >= l.frame.W+4 && h >= l.frame.H+hudHeight+2
}

// origin returns the screen cell of a tile's top-left interior corner.
// Fractional positions place tiles that are mid-slide.
func (l boardLayout) origin(fx, fy float64) (int, int) {
	return l.frame.X + 1 + int(math.Round(fx*cellW)),
		l.frame.Y + 1 + int(math.Round(fy*cellH))
}

func (l boardLayout) center() (int, int) {
	return l.frame.X + l.frame.W/2, l.frame.Y + l.frame.H/2
}

// Render draws the HUD, grid, tiles and any overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.tooSmall {
		y := g.screenH / 2
		drawCentered(dst, g.screenW/2, y, "Window too small", core.ColorAccent)
		drawCentered(dst, g.screenW/2, y+1, "Please resize terminal", core.ColorMuted)
		return
	}

	l := g.layout()
	g.renderHUD(dst, l.frame)
	renderGrid(dst, l)
	g.renderTiles(dst, l)
	if lines := g.overlayLines(); lines != nil {
		cx, cy := l.center()
		drawOverlay(dst, cx, cy, lines)
	}
}

func drawCentered(dst *core.Screen, cx, y int, s string, c core.Color) {
	dst.DrawTextColored(cx-len(s)/2, y, s, c)
}

// renderHUD puts the title on the first row and the score with the level
// or max tile below it. On narrow boards the info replaces the mode line.
func (g *Game) renderHUD(dst *core.Screen, frame core.Rect) {
	cx := frame.X + frame.W/2
	drawCentered(dst, cx, 0, "2048", core.ColorTitle)

	score := g.resolver.Score()
	left := fmt.Sprintf("Score: %d  Best: %d", score, max(g.best, score))
	dst.DrawText(frame.X, 1, left)

	right := fmt.Sprintf("Max: %d", g.resolver.MaxTile())
	mode := "Endless"
	if g.mode == ModeCampaign {
		right = fmt.Sprintf("Lv %d/%d  Target: %d", g.levelIndex+1, LevelCount(), g.currentTarget)
		mode = "Campaign"
	}

	if x := frame.Right() - len(right); x > frame.X+len(left) {
		dst.DrawText(x, 1, right)
		drawCentered(dst, cx, 2, mode, core.ColorMuted)
	} else {
		dst.DrawText(frame.X, 2, right)
	}
}

// renderGrid draws the cell borders of the board frame.
func renderGrid(dst *core.Screen, l boardLayout) {
	f := l.frame
	for row := range l.rows + 1 {
		y := f.Y + row*cellH
		for x := f.X; x < f.Right(); x++ {
			r := '─'
			if col := (x - f.X) / cellW; (x-f.X)%cellW == 0 {
				r = junctions[edge(row, l.rows)][edge(col, l.cols)]
			}
			dst.SetColored(x, y, r, core.ColorFrame)
		}
		if row == l.rows {
			break
		}
		for col := range l.cols + 1 {
			for dy := 1; dy < cellH; dy++ {
				dst.SetColored(f.X+col*cellW, y+dy, '│', core.ColorFrame)
			}
		}
	}
}

// renderTiles draws resting tiles, then the tiles still sliding on top.
func (g *Game) renderTiles(dst *core.Screen, l boardLayout) {
	for y, row := range g.resolver.Values() {
		for x, v := range row {
			c := Cell{x, y}
			if v == 0 || g.anim.Hidden(c) {
				continue
			}
			px, py := l.origin(float64(x), float64(y))
			label := strconv.Itoa(v)
			drawTile(dst, px, py, label, v)
			if g.anim.Popping(c) && len(label) <= cellW-3 {
				dst.SetColored(px+cellW-2, py, '*', tileColor(v))
			}
		}
	}

	for _, a := range g.anim.Sliding() {
		px, py := l.origin(a.Position())
		drawTile(dst, px, py, strconv.Itoa(a.Value), a.Value)
	}
}

func tileColor(value int) core.Color {
	return core.TileColor(powerOf(value))
}

// drawTile fills a cell interior in the tile's color and centers the label.
func drawTile(dst *core.Screen, x, y int, label string, value int) {
	c := tileColor(value)
	inner := cellW - 1
	dst.FillRect(core.Rect{X: x, Y: y, W: inner, H: cellH - 1}, c)
	dst.DrawTextColored(x+max((inner-len(label))/2, 0), y, label, c)
}

// overlayLines returns the message boxed over the board, headline first,
// or nil while play is running.
func (g *Game) overlayLines() []string {
	switch {
	case g.paused:
		return []string{"PAUSED", "Press P to resume"}
	case g.levelCleared:
		next := fmt.Sprintf("Next: Level %d", g.levelIndex+2)
		if g.levelIndex >= LevelCount()-1 {
			next = "Final level complete!"
		}
		return []string{fmt.Sprintf("Target %d reached!", g.currentTarget), next}
	case g.won:
		return []string{"CAMPAIGN COMPLETE!", "You are the champion!", "Press R to restart"}
	case g.resolver.Phase() == PhaseGameOver:
		return []string{"GAME OVER", fmt.Sprintf("Max tile: %d", g.resolver.MaxTile()), "Press R to restart"}
	}
	return nil
}

func drawOverlay(dst *core.Screen, cx, cy int, lines []string) {
	w := 0
	for _, s := range lines {
		w = max(w, len(s))
	}
	box := core.Rect{W: w + 4, H: len(lines) + 2}
	box.X, box.Y = cx-box.W/2, cy-box.H/2

	dst.FillRect(box, core.ColorDefault)
	dst.DrawBox(box, core.ColorTitle)
	for i, s := range lines {
		c := core.ColorDefault
		if i == 0 {
			c = core.ColorAccent
		}
		drawCentered(dst, cx, box.Y+1+i, s, c)
	}
}
