package t2048

import (
	"errors"
	"reflect"
	"testing"
)

// testOptions spawns only low tiles so outcomes are predictable.
func testOptions(rows, cols int) Options {
	return Options{
		Rows:              rows,
		Cols:              cols,
		LowValue:          2,
		HighValue:         4,
		HighTileThreshold: spawnRange,
		Seed:              7,
	}
}

func loaded(t *testing.T, values [][]int) (*TurnResolver, *Recorder) {
	t.Helper()
	rec := NewRecorder()
	r := NewTurnResolver(testOptions(len(values), len(values[0])), rec)
	if err := r.Load(values); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return r, rec
}

func TestSlideRowLeft(t *testing.T) {
	tests := []struct {
		name     string
		input    []int
		expected []int
		score    int
		moved    bool
	}{
		{"simple merge", []int{2, 2, 0, 0}, []int{4, 0, 0, 0}, 4, true},
		{"merge with trailing tile", []int{2, 2, 2, 0}, []int{4, 2, 0, 0}, 4, true},
		{"double merge", []int{2, 2, 2, 2}, []int{4, 4, 0, 0}, 8, true},
		{"merged tile blocks equal follower", []int{2, 2, 4, 0}, []int{4, 4, 0, 0}, 4, true},
		{"no chain merge", []int{4, 4, 8, 0}, []int{8, 8, 0, 0}, 8, true},
		{"four equal", []int{4, 4, 4, 4}, []int{8, 8, 0, 0}, 16, true},
		{"no merge possible", []int{2, 4, 8, 16}, []int{2, 4, 8, 16}, 0, false},
		{"slide with gap", []int{0, 0, 2, 2}, []int{4, 0, 0, 0}, 4, true},
		{"slide with multiple gaps", []int{2, 0, 0, 2}, []int{4, 0, 0, 0}, 4, true},
		{"no change needed", []int{4, 2, 0, 0}, []int{4, 2, 0, 0}, 0, false},
		{"empty row", []int{0, 0, 0, 0}, []int{0, 0, 0, 0}, 0, false},
		{"single tile", []int{0, 4, 0, 0}, []int{4, 0, 0, 0}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := loaded(t, [][]int{tt.input, {0, 0, 0, 0}})

			moved := r.Slide(DirLeft)
			got := r.Values()[0]

			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Slide(%v) = %v, want %v", tt.input, got, tt.expected)
			}
			if r.Score() != tt.score {
				t.Errorf("Slide(%v) score = %d, want %d", tt.input, r.Score(), tt.score)
			}
			if moved != tt.moved {
				t.Errorf("Slide(%v) moved = %v, want %v", tt.input, moved, tt.moved)
			}
		})
	}
}

func TestSlideDirections(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		board    [][]int
		expected [][]int
		score    int
	}{
		{
			name: "left",
			dir:  DirLeft,
			board: [][]int{
				{2, 2, 0, 0},
				{4, 0, 4, 0},
				{2, 2, 2, 2},
				{0, 0, 0, 2},
			},
			expected: [][]int{
				{4, 0, 0, 0},
				{8, 0, 0, 0},
				{4, 4, 0, 0},
				{2, 0, 0, 0},
			},
			score: 20,
		},
		{
			name: "right",
			dir:  DirRight,
			board: [][]int{
				{2, 2, 0, 0},
				{4, 0, 4, 0},
				{2, 2, 2, 2},
				{2, 2, 2, 0},
			},
			expected: [][]int{
				{0, 0, 0, 4},
				{0, 0, 0, 8},
				{0, 0, 4, 4},
				{0, 0, 2, 4},
			},
			score: 24,
		},
		{
			name: "up",
			dir:  DirUp,
			board: [][]int{
				{2, 4, 2, 0},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 2},
			},
			expected: [][]int{
				{4, 8, 4, 2},
				{0, 0, 4, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			score: 20,
		},
		{
			name: "down",
			dir:  DirDown,
			board: [][]int{
				{2, 4, 2, 2},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 0},
			},
			expected: [][]int{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 4, 0},
				{4, 8, 4, 2},
			},
			score: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := loaded(t, tt.board)

			if !r.Slide(tt.dir) {
				t.Fatalf("Slide(%s) should report a change", tt.dir)
			}
			if got := r.Values(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Slide(%s): got\n%v\nwant\n%v", tt.dir, got, tt.expected)
			}
			if r.Score() != tt.score {
				t.Errorf("Slide(%s) score = %d, want %d", tt.dir, r.Score(), tt.score)
			}
		})
	}
}

func TestSlideNonSquare(t *testing.T) {
	r, _ := loaded(t, [][]int{
		{2, 0, 2, 0, 4, 4},
		{0, 0, 0, 0, 0, 0},
		{0, 8, 0, 0, 8, 0},
	})

	r.Slide(DirRight)
	want := [][]int{
		{0, 0, 0, 0, 4, 8},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 16},
	}
	if got := r.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Slide(right) on 3x6: got\n%v\nwant\n%v", got, want)
	}
}

func TestRepeatSlideIsNoop(t *testing.T) {
	r, _ := loaded(t, [][]int{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 0, 0, 2},
	})

	if !r.Slide(DirLeft) {
		t.Fatal("first slide should move")
	}
	before := r.Values()
	score := r.Score()

	if r.Slide(DirLeft) {
		t.Error("second slide in the same direction should not move")
	}
	if !reflect.DeepEqual(r.Values(), before) || r.Score() != score {
		t.Error("second slide should leave grid and score unchanged")
	}
}

func TestMergeRespectsCap(t *testing.T) {
	opts := testOptions(2, 4)
	opts.MaxValue = 8

	r := NewTurnResolver(opts)
	if err := r.Load([][]int{{4, 4, 8, 8}, {0, 0, 0, 0}}); err != nil {
		t.Fatal(err)
	}

	r.Slide(DirLeft)
	want := []int{8, 8, 8, 0}
	if got := r.Values()[0]; !reflect.DeepEqual(got, want) {
		t.Errorf("capped slide = %v, want %v", got, want)
	}
	if r.Score() != 8 {
		t.Errorf("score = %d, want 8", r.Score())
	}
}

func TestHasMovesLeft(t *testing.T) {
	tests := []struct {
		name     string
		board    [][]int
		maxValue int
		want     bool
	}{
		{
			name:  "empty cell",
			board: [][]int{{2, 4}, {0, 8}},
			want:  true,
		},
		{
			name:  "full with horizontal pair",
			board: [][]int{{2, 2}, {4, 8}},
			want:  true,
		},
		{
			name:  "full with vertical pair",
			board: [][]int{{2, 4}, {2, 8}},
			want:  true,
		},
		{
			name:  "full no pairs",
			board: [][]int{{2, 4}, {8, 16}},
			want:  false,
		},
		{
			name: "full 4x4 no pairs",
			board: [][]int{
				{2, 4, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 65536},
			},
			want: false,
		},
		{
			name:     "only capped pairs",
			board:    [][]int{{8, 8}, {4, 16}},
			maxValue: 8,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(len(tt.board), len(tt.board[0]))
			opts.MaxValue = tt.maxValue
			r := NewTurnResolver(opts)
			if err := r.Load(tt.board); err != nil {
				t.Fatal(err)
			}

			if got := r.HasMovesLeft(); got != tt.want {
				t.Errorf("HasMovesLeft() = %v, want %v", got, tt.want)
			}
			wantPhase := PhaseAwaitingInput
			if !tt.want {
				wantPhase = PhaseGameOver
			}
			if r.Phase() != wantPhase {
				t.Errorf("Phase() = %s, want %s", r.Phase(), wantPhase)
			}
		})
	}
}

func TestSpawnFillsOnlyEmptyCell(t *testing.T) {
	board := [][]int{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 0, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}

	for seed := range int64(20) {
		opts := testOptions(4, 4)
		opts.Seed = seed
		r := NewTurnResolver(opts)
		if err := r.Load(board); err != nil {
			t.Fatal(err)
		}

		c, err := r.SpawnRandomTile()
		if err != nil {
			t.Fatalf("seed %d: SpawnRandomTile() failed: %v", seed, err)
		}
		if c != (Cell{1, 2}) {
			t.Errorf("seed %d: spawned at %s, want (1,2)", seed, c)
		}
	}
}

func TestSpawnLowValueBelowThreshold(t *testing.T) {
	r := NewTurnResolver(testOptions(4, 4))
	for range 16 {
		c, err := r.SpawnRandomTile()
		if err != nil {
			t.Fatal(err)
		}
		tile, ok, _ := r.At(c)
		if !ok || tile.Value != 2 {
			t.Fatalf("spawned %+v at %s, want value 2", tile, c)
		}
	}
}

func TestSpawnHighValueShare(t *testing.T) {
	const spawns = 4000

	tests := []struct {
		name      string
		threshold float64
		min, max  float64
	}{
		{"low threshold", 0.01, 0.97, 1.0},
		{"default threshold", 0.9, 0.06, 0.12}, // 1 - 0.9/0.99 ~ 9%
		{"threshold at range", spawnRange, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(MaxBoardSize, MaxBoardSize)
			opts.HighTileThreshold = tt.threshold
			opts.Seed = 2048
			r := NewTurnResolver(opts)

			high := 0
			for range spawns {
				if r.TileCount() == r.Rows()*r.Cols() {
					r.Reset()
				}
				c, err := r.SpawnRandomTile()
				if err != nil {
					t.Fatal(err)
				}
				tile, _, _ := r.At(c)
				switch tile.Value {
				case opts.HighValue:
					high++
				case opts.LowValue:
				default:
					t.Fatalf("spawned value %d", tile.Value)
				}
			}

			share := float64(high) / spawns
			if share < tt.min || share > tt.max {
				t.Errorf("high value share = %.3f, want within [%.2f, %.2f]", share, tt.min, tt.max)
			}
		})
	}
}

func TestSpawnOnFullGrid(t *testing.T) {
	r, rec := loaded(t, [][]int{{2, 4}, {8, 16}})

	_, err := r.SpawnRandomTile()
	var full *GridFullError
	if !errors.As(err, &full) {
		t.Fatalf("SpawnRandomTile() error = %v, want *GridFullError", err)
	}
	if full.Rows != 2 || full.Cols != 2 {
		t.Errorf("GridFullError = %+v, want 2x2", full)
	}
	if len(rec.Kind(EventSpawned)) != 0 {
		t.Error("failed spawn should not emit events")
	}
}

func TestAtOutOfBounds(t *testing.T) {
	r := NewTurnResolver(DefaultOptions())

	for _, c := range []Cell{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		_, _, err := r.At(c)
		var invalid *InvalidCellError
		if !errors.As(err, &invalid) {
			t.Errorf("At(%s) error = %v, want *InvalidCellError", c, err)
			continue
		}
		if invalid.Cell != c {
			t.Errorf("InvalidCellError.Cell = %s, want %s", invalid.Cell, c)
		}
	}

	if _, ok, err := r.At(Cell{0, 0}); ok || err != nil {
		t.Errorf("At(empty cell) = ok %v err %v, want false nil", ok, err)
	}
}

func TestPhaseTransitions(t *testing.T) {
	rec := NewRecorder()
	r := NewTurnResolver(testOptions(4, 4), rec)

	if r.Phase() != PhaseLoaded {
		t.Fatalf("new resolver phase = %s, want loaded", r.Phase())
	}
	if _, err := r.Turn(DirLeft); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Turn before Start error = %v, want ErrNotStarted", err)
	}

	if err := r.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if r.Phase() != PhaseAwaitingInput {
		t.Errorf("phase after Start = %s, want awaiting_input", r.Phase())
	}
	if r.TileCount() != 2 || len(rec.Kind(EventSpawned)) != 2 {
		t.Errorf("Start should spawn two tiles, got %d", r.TileCount())
	}
	if err := r.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start error = %v, want ErrAlreadyStarted", err)
	}
}

func TestTurnWithoutChangeDoesNotSpawn(t *testing.T) {
	r, rec := loaded(t, [][]int{{2, 4, 0, 0}, {0, 0, 0, 0}})

	moved, err := r.Turn(DirLeft)
	if err != nil || moved {
		t.Fatalf("Turn() = %v, %v; want false, nil", moved, err)
	}
	if r.TileCount() != 2 || len(rec.Events) != 0 {
		t.Error("unchanged turn should not spawn or emit events")
	}
	if r.Moves() != 0 {
		t.Errorf("Moves() = %d, want 0", r.Moves())
	}
	if r.Phase() != PhaseAwaitingInput {
		t.Errorf("phase = %s, want awaiting_input", r.Phase())
	}
}

func TestTurnSpawnsAndClearsUpgradeLock(t *testing.T) {
	r, rec := loaded(t, [][]int{{2, 2, 0, 0}, {0, 0, 0, 0}})

	moved, err := r.Turn(DirLeft)
	if err != nil || !moved {
		t.Fatalf("Turn() = %v, %v; want true, nil", moved, err)
	}
	if r.TileCount() != 2 {
		t.Errorf("TileCount() = %d, want merged tile plus spawn", r.TileCount())
	}
	if len(rec.Kind(EventSpawned)) != 1 {
		t.Error("changed turn should spawn exactly one tile")
	}

	tile, _, _ := r.At(Cell{0, 0})
	if tile.Value != 4 || tile.Upgraded {
		t.Errorf("merged tile = %+v, want value 4 with lock cleared", tile)
	}
}

func TestTurnReachesGameOver(t *testing.T) {
	r, rec := loaded(t, [][]int{{16, 32}, {0, 64}})

	moved, err := r.Turn(DirLeft)
	if err != nil || !moved {
		t.Fatalf("Turn() = %v, %v; want true, nil", moved, err)
	}
	if r.Phase() != PhaseGameOver {
		t.Fatalf("phase = %s, want game_over", r.Phase())
	}
	if over := rec.Kind(EventGameOver); len(over) != 1 || over[0].Score != 0 {
		t.Errorf("game over events = %+v, want one with score 0", over)
	}

	if _, err := r.Turn(DirUp); !errors.Is(err, ErrGameOver) {
		t.Errorf("Turn after game over error = %v, want ErrGameOver", err)
	}
}

func TestReset(t *testing.T) {
	r, rec := loaded(t, [][]int{{2, 2, 0, 0}, {0, 0, 0, 0}})
	r.Turn(DirLeft) //nolint:errcheck
	rec.Drain()

	r.Reset()

	if r.TileCount() != 0 || r.Score() != 0 || r.Phase() != PhaseLoaded || r.Moves() != 0 {
		t.Errorf("after Reset: %+v moves=%d", r.State(), r.Moves())
	}
	want := []Event{{Kind: EventReset}, {Kind: EventScoreChanged, Score: 0}}
	if !reflect.DeepEqual(rec.Events, want) {
		t.Errorf("Reset events = %+v, want %+v", rec.Events, want)
	}
}

func TestReseedReproducesOpening(t *testing.T) {
	r := NewTurnResolver(DefaultOptions())
	r.Reseed(99)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	first := r.Values()

	r.Reset()
	r.Reseed(99)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r.Values(), first) {
		t.Errorf("reseeded opening differs:\n%v\nvs\n%v", r.Values(), first)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		values [][]int
	}{
		{"wrong row count", [][]int{{0, 0, 0, 0}}},
		{"wrong column count", [][]int{{0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}},
		{"not a power of two", [][]int{{3, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}},
		{"one is not a tile", [][]int{{1, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTurnResolver(DefaultOptions())
			if err := r.Load(tt.values); err == nil {
				t.Error("Load() should fail")
			}
			if r.Phase() != PhaseLoaded {
				t.Error("failed Load should leave phase unchanged")
			}
		})
	}
}

func TestInvalidOptionsFallBack(t *testing.T) {
	bad := Options{Rows: 1, Cols: 9, Seed: 5}
	if bad.Validate() == nil {
		t.Fatal("Validate() should reject a 1-row grid")
	}

	r := NewTurnResolver(bad)
	if r.Rows() != BoardSize || r.Cols() != BoardSize {
		t.Errorf("fallback grid = %dx%d, want %dx%d", r.Rows(), r.Cols(), BoardSize, BoardSize)
	}
	if r.Options().Seed != 5 {
		t.Errorf("fallback should keep seed, got %d", r.Options().Seed)
	}
}

func TestValidateBoardBounds(t *testing.T) {
	tests := []struct {
		rows, cols int
		ok         bool
	}{
		{2, 2, true},
		{MaxBoardSize, MaxBoardSize, true},
		{3, MaxBoardSize, true},
		{1, 4, false},
		{MaxBoardSize + 1, 4, false},
		{4, MaxBoardSize + 1, false},
		{100000, 100000, false},
		{1 << 20, 2, false},
		{-4, 4, false},
	}

	for _, tt := range tests {
		err := testOptions(tt.rows, tt.cols).Validate()
		if (err == nil) != tt.ok {
			t.Errorf("Validate(%dx%d) = %v, want ok=%v", tt.rows, tt.cols, err, tt.ok)
		}
	}

	r := NewTurnResolver(testOptions(100000, 100000))
	if r.Rows() != BoardSize || r.Cols() != BoardSize {
		t.Errorf("oversized grid should fall back to %dx%d, got %dx%d", BoardSize, BoardSize, r.Rows(), r.Cols())
	}
}

func TestScoreIsSumOfMerges(t *testing.T) {
	rec := NewRecorder()
	opts := DefaultOptions()
	opts.Seed = 2048
	r := NewTurnResolver(opts, rec)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	dirs := []Direction{DirLeft, DirDown, DirRight, DirDown}
	sum := 0
	for i := 0; i < 2000 && r.Phase() != PhaseGameOver; i++ {
		rec.Drain()
		prev := r.Score()

		if _, err := r.Turn(dirs[i%len(dirs)]); err != nil {
			t.Fatalf("Turn() failed: %v", err)
		}

		consumed := map[Cell]bool{}
		pending := 0
		for _, e := range rec.Events {
			switch e.Kind {
			case EventMerged:
				if consumed[e.From] || consumed[e.With] {
					t.Errorf("tile at %s merged twice in one slide", e.To)
				}
				if got := r.Values()[e.To.Y][e.To.X]; got != e.Value {
					t.Errorf("merge at %s reported %d, grid holds %d", e.To, e.Value, got)
				}
				consumed[e.To] = true
				pending = e.Value
				sum += e.Value
			case EventScoreChanged:
				if e.Score-prev != pending {
					t.Errorf("score rose by %d, want %d", e.Score-prev, pending)
				}
				prev = e.Score
			}
		}
	}

	if r.Score() != sum {
		t.Errorf("Score() = %d, want sum of merges %d", r.Score(), sum)
	}
	if sum == 0 {
		t.Error("expected at least one merge")
	}
}

func TestDeterministicTurns(t *testing.T) {
	play := func() [][]int {
		opts := DefaultOptions()
		opts.Seed = 12345
		r := NewTurnResolver(opts)
		r.Start() //nolint:errcheck
		for _, d := range []Direction{DirUp, DirLeft, DirDown, DirRight, DirUp, DirUp} {
			r.Turn(d) //nolint:errcheck
		}
		return r.Values()
	}

	if a, b := play(), play(); !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different boards:\n%v\nvs\n%v", a, b)
	}
}
