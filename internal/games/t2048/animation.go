package t2048

// Animation constants
const (
	slideAnimationDuration = 8 // ~133ms at 60fps
	popAnimationDuration   = 6 // ~100ms at 60fps
)

// AnimationPhase represents the current phase of animation.
type AnimationPhase int

const (
	AnimNone AnimationPhase = iota
	AnimSlide
	AnimPop
)

// TileAnimation represents an animated tile.
type TileAnimation struct {
	Value    int     // Value shown while animating
	From     Cell    // Start cell
	To       Cell    // End cell
	Progress float64 // 0.0 → 1.0
	Merged   bool    // Result of a merge (for visual effect)
	IsNew    bool    // New tile (for pop effect)
}

// Position returns the eased cell position at the current progress.
func (a TileAnimation) Position() (x, y float64) {
	t := easeOutQuad(a.Progress)
	x = float64(a.From.X) + float64(a.To.X-a.From.X)*t
	y = float64(a.From.Y) + float64(a.To.Y-a.From.Y)*t
	return x, y
}

// Animator turns resolver events into slide and pop animations.
// Events are buffered between Begin and Commit; the resolver never
// waits on playback.
type Animator struct {
	phase AnimationPhase
	ticks int

	slides []TileAnimation
	pops   []TileAnimation

	nextSlides []TileAnimation
	nextPops   []TileAnimation
}

// NewAnimator creates an idle animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// Begin drops any animation still playing so a new turn starts clean.
func (a *Animator) Begin() {
	a.stop()
	a.nextSlides = nil
	a.nextPops = nil
}

// Commit starts playback of the events buffered since Begin.
func (a *Animator) Commit() {
	a.slides, a.pops = a.nextSlides, a.nextPops
	a.nextSlides, a.nextPops = nil, nil
	a.ticks = 0

	switch {
	case len(a.slides) > 0:
		a.phase = AnimSlide
	case len(a.pops) > 0:
		a.phase = AnimPop
	default:
		a.phase = AnimNone
	}
}

// Update advances the animation by one tick.
// Returns true if animation is still in progress.
func (a *Animator) Update() bool {
	var duration int
	switch a.phase {
	case AnimSlide:
		duration = slideAnimationDuration
	case AnimPop:
		duration = popAnimationDuration
	default:
		return false
	}

	a.ticks++
	progress := min(float64(a.ticks)/float64(duration), 1.0)
	current := a.current()
	for i := range current {
		current[i].Progress = progress
	}

	if a.ticks < duration {
		return true
	}

	// Slide done, pop whatever appeared this turn
	if a.phase == AnimSlide && len(a.pops) > 0 {
		a.phase = AnimPop
		a.ticks = 0
		return true
	}
	a.stop()
	return false
}

func (a *Animator) current() []TileAnimation {
	if a.phase == AnimSlide {
		return a.slides
	}
	return a.pops
}

func (a *Animator) stop() {
	a.phase = AnimNone
	a.ticks = 0
	a.slides = nil
	a.pops = nil
}

// Active reports whether an animation is playing.
func (a *Animator) Active() bool { return a.phase != AnimNone }

// Phase returns the current animation phase.
func (a *Animator) Phase() AnimationPhase { return a.phase }

// Sliding returns the tiles in flight during the slide phase.
func (a *Animator) Sliding() []TileAnimation {
	if a.phase != AnimSlide {
		return nil
	}
	return a.slides
}

// Hidden reports whether the static tile at c must not be drawn yet:
// it is the landing cell of a slide or a tile that has not popped in.
func (a *Animator) Hidden(c Cell) bool {
	if a.phase != AnimSlide {
		return false
	}
	for _, s := range a.slides {
		if s.To == c {
			return true
		}
	}
	for _, p := range a.pops {
		if p.To == c {
			return true
		}
	}
	return false
}

// Popping reports whether c holds a tile in its pop phase.
func (a *Animator) Popping(c Cell) bool {
	if a.phase != AnimPop {
		return false
	}
	for _, p := range a.pops {
		if p.To == c {
			return true
		}
	}
	return false
}

func (a *Animator) OnTileSpawned(c Cell, value int) {
	a.nextPops = append(a.nextPops, TileAnimation{Value: value, From: c, To: c, IsNew: true})
}

func (a *Animator) OnTileMoved(from, to Cell, value int) {
	a.nextSlides = append(a.nextSlides, TileAnimation{Value: value, From: from, To: to})
}

// OnTileMerged slides both halves into the destination and pops the result.
func (a *Animator) OnTileMerged(from, with, to Cell, value int) {
	half := value / 2
	a.nextSlides = append(a.nextSlides,
		TileAnimation{Value: half, From: from, To: to},
		TileAnimation{Value: half, From: with, To: to},
	)
	a.nextPops = append(a.nextPops, TileAnimation{Value: value, From: to, To: to, Merged: true})
}

func (a *Animator) OnScoreChanged(int) {}

func (a *Animator) OnGameOver(int) {}

func (a *Animator) OnReset() {
	a.Begin()
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}
