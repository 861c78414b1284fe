package t2048

import (
	"testing"
)

// scoreWatcher only cares about score updates.
type scoreWatcher struct {
	NopObserver
	scores []int
}

func (w *scoreWatcher) OnScoreChanged(score int) {
	w.scores = append(w.scores, score)
}

func TestMoveAndMergeEvents(t *testing.T) {
	r, rec := loaded(t, [][]int{
		{0, 2, 0, 0},
		{0, 2, 0, 2},
	})

	r.Slide(DirLeft)

	moves := rec.Kind(EventMoved)
	if len(moves) != 2 {
		t.Fatalf("moved events = %+v, want 2", moves)
	}
	if moves[0].From != (Cell{1, 0}) || moves[0].To != (Cell{0, 0}) || moves[0].Value != 2 {
		t.Errorf("first move = %+v, want (1,0)->(0,0) value 2", moves[0])
	}
	if moves[1].From != (Cell{1, 1}) || moves[1].To != (Cell{0, 1}) {
		t.Errorf("second move = %+v, want (1,1)->(0,1)", moves[1])
	}

	merges := rec.Kind(EventMerged)
	if len(merges) != 1 {
		t.Fatalf("merged events = %+v, want 1", merges)
	}
	want := Event{Kind: EventMerged, From: Cell{3, 1}, With: Cell{0, 1}, To: Cell{0, 1}, Value: 4}
	if merges[0] != want {
		t.Errorf("merge = %+v, want %+v", merges[0], want)
	}

	scores := rec.Kind(EventScoreChanged)
	if len(scores) != 1 || scores[0].Score != 4 {
		t.Errorf("score events = %+v, want one with score 4", scores)
	}
}

func TestSubscribeOrderAndPartialObserver(t *testing.T) {
	var order []string
	first := ObserverFunc(func(e Event) { order = append(order, "first:"+string(e.Kind)) })
	second := ObserverFunc(func(e Event) { order = append(order, "second:"+string(e.Kind)) })
	watcher := &scoreWatcher{}

	r := NewTurnResolver(testOptions(2, 2), first)
	r.Subscribe(second)
	r.Subscribe(watcher)

	if err := r.Load([][]int{{2, 2}, {0, 0}}); err != nil {
		t.Fatal(err)
	}
	r.Slide(DirLeft)

	want := []string{
		"first:tile_merged", "second:tile_merged",
		"first:score_changed", "second:score_changed",
	}
	if len(order) != len(want) {
		t.Fatalf("events = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, order[i], want[i])
		}
	}
	if len(watcher.scores) != 1 || watcher.scores[0] != 4 {
		t.Errorf("watcher saw %v, want [4]", watcher.scores)
	}
}

func TestRecorderDrain(t *testing.T) {
	rec := NewRecorder()
	rec.OnTileSpawned(Cell{1, 1}, 2)
	rec.OnGameOver(10)

	got := rec.Drain()
	if len(got) != 2 || got[1].Kind != EventGameOver || got[1].Score != 10 {
		t.Errorf("Drain() = %+v", got)
	}
	if len(rec.Events) != 0 {
		t.Error("Drain() should empty the recorder")
	}
}
