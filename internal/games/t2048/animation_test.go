package t2048

import "testing"

func TestAnimatorSlideThenPop(t *testing.T) {
	a := NewAnimator()
	a.Begin()
	a.OnTileMoved(Cell{1, 0}, Cell{0, 0}, 2)
	a.OnTileSpawned(Cell{3, 1}, 2)
	a.Commit()

	if a.Phase() != AnimSlide {
		t.Fatalf("Phase() = %v, want slide", a.Phase())
	}
	if !a.Hidden(Cell{0, 0}) || !a.Hidden(Cell{3, 1}) {
		t.Error("landing and spawn cells should be hidden while sliding")
	}
	if len(a.Sliding()) != 1 {
		t.Errorf("Sliding() = %d tiles, want 1", len(a.Sliding()))
	}

	for i := 1; i < slideAnimationDuration; i++ {
		if !a.Update() {
			t.Fatalf("slide ended early at tick %d", i)
		}
	}
	// Last slide tick hands over to the pop phase
	if !a.Update() || a.Phase() != AnimPop {
		t.Fatalf("expected pop phase after slide, got %v", a.Phase())
	}
	if !a.Popping(Cell{3, 1}) || a.Hidden(Cell{3, 1}) {
		t.Error("spawned tile should be visible and popping")
	}

	for i := 1; i < popAnimationDuration; i++ {
		a.Update()
	}
	if a.Update() {
		t.Error("pop should finish after its duration")
	}
	if a.Active() {
		t.Error("animator should be idle")
	}
}

func TestAnimatorMergeSlidesBothHalves(t *testing.T) {
	a := NewAnimator()
	a.Begin()
	a.OnTileMerged(Cell{2, 0}, Cell{0, 0}, Cell{0, 0}, 8)
	a.Commit()

	slides := a.Sliding()
	if len(slides) != 2 {
		t.Fatalf("Sliding() = %+v, want both halves", slides)
	}
	for _, s := range slides {
		if s.Value != 4 || s.To != (Cell{0, 0}) {
			t.Errorf("slide %+v, want value 4 into (0,0)", s)
		}
	}
}

func TestAnimatorSpawnOnlyPops(t *testing.T) {
	a := NewAnimator()
	a.Begin()
	a.OnTileSpawned(Cell{0, 0}, 2)
	a.OnTileSpawned(Cell{1, 1}, 4)
	a.Commit()

	if a.Phase() != AnimPop {
		t.Errorf("Phase() = %v, want pop", a.Phase())
	}
	if a.Sliding() != nil {
		t.Error("no tiles should slide")
	}
}

func TestAnimatorBeginSnaps(t *testing.T) {
	a := NewAnimator()
	a.Begin()
	a.OnTileMoved(Cell{0, 1}, Cell{0, 0}, 2)
	a.Commit()
	a.Update()

	a.Begin()
	if a.Active() || a.Hidden(Cell{0, 0}) {
		t.Error("Begin should drop the running animation")
	}

	a.Commit()
	if a.Active() {
		t.Error("committing an empty turn should not animate")
	}
}

func TestTileAnimationPosition(t *testing.T) {
	anim := TileAnimation{From: Cell{0, 0}, To: Cell{3, 2}}

	x, y := anim.Position()
	if x != 0 || y != 0 {
		t.Errorf("Position at 0 = (%v,%v), want (0,0)", x, y)
	}

	anim.Progress = 1
	x, y = anim.Position()
	if x != 3 || y != 2 {
		t.Errorf("Position at 1 = (%v,%v), want (3,2)", x, y)
	}

	anim.Progress = 0.5
	x, _ = anim.Position()
	if x <= 1.5 {
		t.Errorf("eased x at half time = %v, want past midpoint", x)
	}
}
