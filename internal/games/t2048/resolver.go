package t2048

import (
	"fmt"
	"math/rand"
)

// Phase is the resolver's position in the turn cycle.
type Phase int

const (
	PhaseLoaded Phase = iota
	PhaseAwaitingInput
	PhaseResolving
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseLoaded:
		return "loaded"
	case PhaseAwaitingInput:
		return "awaiting_input"
	case PhaseResolving:
		return "resolving"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// spawnRange is the upper bound of the uniform draw that picks a spawn value.
const spawnRange = 0.99

// Options configures a TurnResolver.
type Options struct {
	Rows int
	Cols int

	LowValue  int // value of the common spawn
	HighValue int // value of the rare spawn

	// HighTileThreshold is compared against a draw in [0, 0.99);
	// draws at or above it spawn HighValue.
	HighTileThreshold float64

	// MaxValue caps merges; tiles at the cap never merge. 0 disables the cap.
	MaxValue int

	Seed int64
}

// DefaultOptions returns the classic 4x4 setup.
func DefaultOptions() Options {
	return Options{
		Rows:              BoardSize,
		Cols:              BoardSize,
		LowValue:          2,
		HighValue:         4,
		HighTileThreshold: 0.9,
	}
}

const (
	// BoardSize is the default board dimension.
	BoardSize = 4
	// MaxBoardSize bounds each board dimension.
	MaxBoardSize = 8
)

// Validate checks the options for internal consistency.
func (o Options) Validate() error {
	if o.Rows < 2 || o.Cols < 2 {
		return fmt.Errorf("t2048: grid must be at least 2x2, got %dx%d", o.Rows, o.Cols)
	}
	if o.Rows > MaxBoardSize || o.Cols > MaxBoardSize {
		return fmt.Errorf("t2048: grid must be at most %dx%d, got %dx%d", MaxBoardSize, MaxBoardSize, o.Rows, o.Cols)
	}
	if !isPowerOfTwo(o.LowValue) || !isPowerOfTwo(o.HighValue) {
		return fmt.Errorf("t2048: spawn values must be powers of two, got %d and %d", o.LowValue, o.HighValue)
	}
	if o.HighTileThreshold <= 0 || o.HighTileThreshold > spawnRange {
		return fmt.Errorf("t2048: high tile threshold %.2f outside (0, %.2f]", o.HighTileThreshold, spawnRange)
	}
	if o.MaxValue != 0 && (!isPowerOfTwo(o.MaxValue) || o.MaxValue < o.HighValue) {
		return fmt.Errorf("t2048: max value %d must be a power of two >= %d", o.MaxValue, o.HighValue)
	}
	return nil
}

// TurnState is the externally visible turn bookkeeping.
type TurnState struct {
	Score     int   `json:"score"`
	TileCount int   `json:"tile_count"`
	Phase     Phase `json:"phase"`
}

// TurnResolver owns the grid and runs slide, merge, spawn and terminal checks.
// It is not safe for concurrent use.
type TurnResolver struct {
	opts      Options
	grid      *Grid
	rng       *rand.Rand
	score     int
	moves     int
	phase     Phase
	observers observers
}

// NewTurnResolver creates a resolver with an empty grid in PhaseLoaded.
// Invalid options fall back to DefaultOptions with the same seed;
// call Options.Validate first to surface the problem.
func NewTurnResolver(opts Options, obs ...Observer) *TurnResolver {
	if opts.Validate() != nil {
		seed := opts.Seed
		opts = DefaultOptions()
		opts.Seed = seed
	}
	return &TurnResolver{
		opts:      opts,
		grid:      NewGrid(opts.Rows, opts.Cols),
		rng:       rand.New(rand.NewSource(opts.Seed)),
		phase:     PhaseLoaded,
		observers: obs,
	}
}

// Subscribe adds an observer.
func (r *TurnResolver) Subscribe(o Observer) {
	r.observers = append(r.observers, o)
}

// Options returns the active options.
func (r *TurnResolver) Options() Options { return r.opts }

// Score returns the current score.
func (r *TurnResolver) Score() int { return r.score }

// TileCount returns the number of occupied cells.
func (r *TurnResolver) TileCount() int { return r.grid.Count() }

// Phase returns the current phase.
func (r *TurnResolver) Phase() Phase { return r.phase }

// Moves returns the number of turns that changed the grid.
func (r *TurnResolver) Moves() int { return r.moves }

// Rows returns the grid height.
func (r *TurnResolver) Rows() int { return r.grid.Rows() }

// Cols returns the grid width.
func (r *TurnResolver) Cols() int { return r.grid.Cols() }

// MaxTile returns the highest tile on the grid.
func (r *TurnResolver) MaxTile() int { return r.grid.MaxTile() }

// Values returns a [y][x] snapshot of tile values.
func (r *TurnResolver) Values() [][]int { return r.grid.Values() }

// State returns the score, tile count and phase.
func (r *TurnResolver) State() TurnState {
	return TurnState{Score: r.score, TileCount: r.grid.Count(), Phase: r.phase}
}

// At returns a copy of the tile at c and whether the cell is occupied.
func (r *TurnResolver) At(c Cell) (Tile, bool, error) {
	t, err := r.grid.At(c)
	if err != nil || t == nil {
		return Tile{}, false, err
	}
	return *t, true, nil
}

// SetHighTileThreshold changes the spawn threshold for future spawns.
// Values outside (0, 0.99] are ignored.
func (r *TurnResolver) SetHighTileThreshold(th float64) {
	if th > 0 && th <= spawnRange {
		r.opts.HighTileThreshold = th
	}
}

// Start leaves PhaseLoaded by spawning the two opening tiles.
func (r *TurnResolver) Start() error {
	if r.phase != PhaseLoaded {
		return ErrAlreadyStarted
	}
	for range 2 {
		if _, err := r.SpawnRandomTile(); err != nil {
			return err
		}
	}
	r.enterAwaitingInput()
	return nil
}

// Turn runs one full input cycle: slide, spawn on change, terminal check.
// It returns whether the grid changed.
func (r *TurnResolver) Turn(dir Direction) (bool, error) {
	switch r.phase {
	case PhaseLoaded:
		return false, ErrNotStarted
	case PhaseGameOver:
		return false, ErrGameOver
	}

	r.phase = PhaseResolving
	if !r.Slide(dir) {
		r.phase = PhaseAwaitingInput
		return false, nil
	}
	r.moves++

	if _, err := r.SpawnRandomTile(); err != nil {
		// A changed grid always frees a cell, so this is an invariant breach.
		return true, fmt.Errorf("t2048: spawn after %s: %w", dir, err)
	}

	if !r.HasMovesLeft() {
		r.phase = PhaseGameOver
		r.observers.gameOver(r.score)
		return true, nil
	}
	r.enterAwaitingInput()
	return true, nil
}

func (r *TurnResolver) enterAwaitingInput() {
	r.ReadyTilesForUpgrading()
	r.phase = PhaseAwaitingInput
}

// ReadyTilesForUpgrading clears the per-turn merge lock on every tile.
func (r *TurnResolver) ReadyTilesForUpgrading() {
	for _, t := range r.grid.cells {
		if t != nil {
			t.Upgraded = false
		}
	}
}

// Slide moves every tile toward the edge named by dir, merging equal
// neighbours at most once per tile. Tiles nearest the edge are processed
// first so a single pass settles the whole grid.
func (r *TurnResolver) Slide(dir Direction) bool {
	moved := false
	for _, c := range r.sweepOrder(dir) {
		if r.grid.tile(c) == nil {
			continue
		}
		if r.slideTile(c, dir) {
			moved = true
		}
	}
	return moved
}

// sweepOrder lists cells so that those closest to the target edge come first.
// The row or column lying on the edge itself is skipped since it cannot move.
func (r *TurnResolver) sweepOrder(dir Direction) []Cell {
	rows, cols := r.grid.Rows(), r.grid.Cols()
	order := make([]Cell, 0, r.grid.Size())

	switch dir {
	case DirLeft:
		for x := 1; x < cols; x++ {
			for y := range rows {
				order = append(order, Cell{x, y})
			}
		}
	case DirRight:
		for x := cols - 2; x >= 0; x-- {
			for y := range rows {
				order = append(order, Cell{x, y})
			}
		}
	case DirUp:
		for y := 1; y < rows; y++ {
			for x := range cols {
				order = append(order, Cell{x, y})
			}
		}
	case DirDown:
		for y := rows - 2; y >= 0; y-- {
			for x := range cols {
				order = append(order, Cell{x, y})
			}
		}
	}
	return order
}

// slideTile walks the tile at origin toward the edge until it hits the wall,
// merges, or stops against a blocker. Reports whether anything changed.
func (r *TurnResolver) slideTile(origin Cell, dir Direction) bool {
	t := r.grid.tile(origin)
	dest := origin

	for {
		next := dest.Step(dir)
		if !r.grid.InBounds(next) {
			break
		}
		other := r.grid.tile(next)
		if other == nil {
			dest = next
			continue
		}
		if r.canMerge(t, other) {
			r.merge(origin, next)
			return true
		}
		break
	}

	if dest == origin {
		return false
	}
	r.grid.move(origin, dest)
	r.observers.tileMoved(origin, dest, t.Value)
	return true
}

// canMerge applies the merge rule: equal power, neither already upgraded
// this turn, and the result stays within the cap.
func (r *TurnResolver) canMerge(a, b *Tile) bool {
	if a.Power != b.Power || a.Upgraded || b.Upgraded {
		return false
	}
	return r.opts.MaxValue == 0 || a.Value*2 <= r.opts.MaxValue
}

// merge destroys the tiles at from and into and creates their upgrade at into.
func (r *TurnResolver) merge(from, into Cell) {
	mover := r.grid.take(from)
	r.grid.take(into)

	up := mover.upgraded()
	r.grid.put(into, up)
	r.score += up.Value

	r.observers.tileMerged(from, into, into, up.Value)
	r.observers.scoreChanged(r.score)
}

// SpawnRandomTile places a LowValue or HighValue tile on the first empty cell
// found by a row-major scan from a random start. Cells just after the start
// are favoured; that bias is part of the game's feel and is kept.
func (r *TurnResolver) SpawnRandomTile() (Cell, error) {
	if r.grid.Full() {
		return Cell{}, &GridFullError{Rows: r.grid.Rows(), Cols: r.grid.Cols()}
	}

	value := r.opts.LowValue
	if r.rng.Float64()*spawnRange >= r.opts.HighTileThreshold {
		value = r.opts.HighValue
	}

	rows, cols := r.grid.Rows(), r.grid.Cols()
	x := r.rng.Intn(cols)
	y := r.rng.Intn(rows)

	for {
		c := Cell{x, y}
		if r.grid.tile(c) == nil {
			r.grid.put(c, newTile(value))
			r.observers.tileSpawned(c, value)
			return c, nil
		}
		x++
		if x >= cols {
			x = 0
			y++
		}
		if y >= rows {
			y = 0
		}
	}
}

// HasMovesLeft reports whether any slide could still change the grid.
func (r *TurnResolver) HasMovesLeft() bool {
	if !r.grid.Full() {
		return true
	}

	rows, cols := r.grid.Rows(), r.grid.Cols()
	for y := range rows {
		for x := range cols {
			t := r.grid.tile(Cell{x, y})
			if x < cols-1 && r.mergeablePair(t, r.grid.tile(Cell{x + 1, y})) {
				return true
			}
			if y < rows-1 && r.mergeablePair(t, r.grid.tile(Cell{x, y + 1})) {
				return true
			}
		}
	}
	return false
}

// mergeablePair ignores the per-turn lock, which is always clear between turns.
func (r *TurnResolver) mergeablePair(a, b *Tile) bool {
	if a.Value != b.Value {
		return false
	}
	return r.opts.MaxValue == 0 || a.Value*2 <= r.opts.MaxValue
}

// Reset clears the grid and score and returns to PhaseLoaded.
func (r *TurnResolver) Reset() {
	r.grid.Clear()
	r.score = 0
	r.moves = 0
	r.phase = PhaseLoaded
	r.observers.reset()
	r.observers.scoreChanged(0)
}

// Reseed restarts the spawn random stream. Together with Reset it makes
// a run reproducible from its seed.
func (r *TurnResolver) Reseed(seed int64) {
	r.opts.Seed = seed
	r.rng = rand.New(rand.NewSource(seed))
}

// Load replaces the grid with values given as [y][x] (0 for empty) and enters
// PhaseAwaitingInput, or PhaseGameOver if the position has no moves.
// Score and move count are kept.
func (r *TurnResolver) Load(values [][]int) error {
	rows, cols := r.grid.Rows(), r.grid.Cols()
	if len(values) != rows {
		return fmt.Errorf("t2048: load expects %d rows, got %d", rows, len(values))
	}
	for y, row := range values {
		if len(row) != cols {
			return fmt.Errorf("t2048: load row %d expects %d cells, got %d", y, cols, len(row))
		}
		for x, v := range row {
			if v != 0 && !isPowerOfTwo(v) {
				return fmt.Errorf("t2048: load cell %s value %d is not a power of two", Cell{x, y}, v)
			}
		}
	}

	r.grid.Clear()
	for y, row := range values {
		for x, v := range row {
			if v != 0 {
				r.grid.put(Cell{x, y}, newTile(v))
			}
		}
	}

	if !r.HasMovesLeft() {
		r.phase = PhaseGameOver
		return nil
	}
	r.enterAwaitingInput()
	return nil
}
