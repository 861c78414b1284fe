package t2048

import (
	"testing"
)

func TestGridPutTake(t *testing.T) {
	g := NewGrid(3, 2)
	if g.Size() != 6 || g.Count() != 0 {
		t.Fatalf("new grid size=%d count=%d, want 6 and 0", g.Size(), g.Count())
	}

	g.put(Cell{1, 2}, newTile(8))
	g.put(Cell{0, 0}, newTile(2))
	if g.Count() != 2 {
		t.Errorf("Count() = %d, want 2", g.Count())
	}

	tile, err := g.At(Cell{1, 2})
	if err != nil || tile == nil || tile.Value != 8 || tile.Power != 3 {
		t.Errorf("At(1,2) = %+v, %v; want value 8 power 3", tile, err)
	}

	// Replacing an occupied cell keeps the count
	g.put(Cell{0, 0}, newTile(4))
	if g.Count() != 2 {
		t.Errorf("Count() after overwrite = %d, want 2", g.Count())
	}

	g.move(Cell{1, 2}, Cell{1, 0})
	if g.tile(Cell{1, 2}) != nil || g.tile(Cell{1, 0}).Value != 8 {
		t.Error("move should relocate the tile")
	}

	if took := g.take(Cell{1, 0}); took == nil || took.Value != 8 {
		t.Errorf("take() = %+v, want value 8", took)
	}
	if g.take(Cell{1, 1}) != nil {
		t.Error("take() on empty cell should return nil")
	}
	if g.Count() != 1 {
		t.Errorf("Count() = %d, want 1", g.Count())
	}
}

func TestGridEmptyCellsAndValues(t *testing.T) {
	g := NewGrid(2, 3)
	g.put(Cell{0, 0}, newTile(2))
	g.put(Cell{2, 1}, newTile(64))

	empty := g.EmptyCells()
	if len(empty) != 4 {
		t.Fatalf("EmptyCells() = %v, want 4 cells", empty)
	}
	if empty[0] != (Cell{1, 0}) {
		t.Errorf("first empty cell = %s, want (1,0) in row-major order", empty[0])
	}

	values := g.Values()
	if len(values) != 2 || len(values[0]) != 3 {
		t.Fatalf("Values() shape = %dx%d, want 2x3", len(values), len(values[0]))
	}
	if values[1][2] != 64 || values[0][0] != 2 || values[0][1] != 0 {
		t.Errorf("Values() = %v", values)
	}
	if g.MaxTile() != 64 {
		t.Errorf("MaxTile() = %d, want 64", g.MaxTile())
	}

	g.Clear()
	if g.Count() != 0 || len(g.EmptyCells()) != 6 || g.MaxTile() != 0 {
		t.Error("Clear() should empty the grid")
	}
}

func TestGridFull(t *testing.T) {
	g := NewGrid(2, 2)
	for _, c := range g.Cells() {
		if g.Full() {
			t.Fatal("grid reported full too early")
		}
		g.put(c, newTile(2))
	}
	if !g.Full() {
		t.Error("grid with every cell occupied should be full")
	}
}

func TestCellStep(t *testing.T) {
	c := Cell{2, 2}
	tests := []struct {
		dir  Direction
		want Cell
	}{
		{DirUp, Cell{2, 1}},
		{DirDown, Cell{2, 3}},
		{DirLeft, Cell{1, 2}},
		{DirRight, Cell{3, 2}},
	}
	for _, tt := range tests {
		if got := c.Step(tt.dir); got != tt.want {
			t.Errorf("Step(%s) = %s, want %s", tt.dir, got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"up", DirUp, false},
		{"DOWN", DirDown, false},
		{"L", DirLeft, false},
		{"r", DirRight, false},
		{"sideways", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseDirection(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	// Letters round-trip through the move log encoding
	for _, d := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		back, err := ParseDirection(string(d.Letter()))
		if err != nil || back != d {
			t.Errorf("ParseDirection(%q) = %s, %v; want %s", d.Letter(), back, err, d)
		}
	}
}
