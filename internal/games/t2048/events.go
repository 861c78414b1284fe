package t2048

// Observer receives notifications from a TurnResolver.
// Calls are synchronous and made while the resolver is mid-operation,
// so implementations must return promptly and must not call back into it.
type Observer interface {
	OnTileSpawned(cell Cell, value int)
	OnTileMoved(from, to Cell, value int)
	OnTileMerged(from, with, to Cell, value int)
	OnScoreChanged(score int)
	OnGameOver(score int)
	OnReset()
}

// NopObserver implements Observer with no-op methods.
// Embed it to implement only the callbacks you care about.
type NopObserver struct{}

func (NopObserver) OnTileSpawned(Cell, int)            {}
func (NopObserver) OnTileMoved(Cell, Cell, int)        {}
func (NopObserver) OnTileMerged(Cell, Cell, Cell, int) {}
func (NopObserver) OnScoreChanged(int)                 {}
func (NopObserver) OnGameOver(int)                     {}
func (NopObserver) OnReset()                           {}

// observers fans a notification out to every subscriber in order.
type observers []Observer

func (o observers) tileSpawned(c Cell, v int) {
	for _, ob := range o {
		ob.OnTileSpawned(c, v)
	}
}

func (o observers) tileMoved(from, to Cell, v int) {
	for _, ob := range o {
		ob.OnTileMoved(from, to, v)
	}
}

func (o observers) tileMerged(from, with, to Cell, v int) {
	for _, ob := range o {
		ob.OnTileMerged(from, with, to, v)
	}
}

func (o observers) scoreChanged(score int) {
	for _, ob := range o {
		ob.OnScoreChanged(score)
	}
}

func (o observers) gameOver(score int) {
	for _, ob := range o {
		ob.OnGameOver(score)
	}
}

func (o observers) reset() {
	for _, ob := range o {
		ob.OnReset()
	}
}

// EventKind identifies a recorded resolver event.
type EventKind string

const (
	EventSpawned      EventKind = "tile_spawned"
	EventMoved        EventKind = "tile_moved"
	EventMerged       EventKind = "tile_merged"
	EventScoreChanged EventKind = "score_changed"
	EventGameOver     EventKind = "game_over"
	EventReset        EventKind = "reset"
)

// Event is a flattened resolver notification.
// Fields that do not apply to the kind are left zero.
type Event struct {
	Kind  EventKind `json:"kind"`
	From  Cell      `json:"from"`
	With  Cell      `json:"with"`
	To    Cell      `json:"to"`
	Value int       `json:"value,omitempty"`
	Score int       `json:"score,omitempty"`
}

// Recorder is an Observer that keeps every event it sees.
type Recorder struct {
	Events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnTileSpawned(c Cell, v int) {
	r.Events = append(r.Events, Event{Kind: EventSpawned, To: c, Value: v})
}

func (r *Recorder) OnTileMoved(from, to Cell, v int) {
	r.Events = append(r.Events, Event{Kind: EventMoved, From: from, To: to, Value: v})
}

func (r *Recorder) OnTileMerged(from, with, to Cell, v int) {
	r.Events = append(r.Events, Event{Kind: EventMerged, From: from, With: with, To: to, Value: v})
}

func (r *Recorder) OnScoreChanged(score int) {
	r.Events = append(r.Events, Event{Kind: EventScoreChanged, Score: score})
}

func (r *Recorder) OnGameOver(score int) {
	r.Events = append(r.Events, Event{Kind: EventGameOver, Score: score})
}

func (r *Recorder) OnReset() {
	r.Events = append(r.Events, Event{Kind: EventReset})
}

// Kind returns the recorded events of the given kind.
func (r *Recorder) Kind(k EventKind) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Drain returns the recorded events and empties the recorder.
func (r *Recorder) Drain() []Event {
	out := r.Events
	r.Events = nil
	return out
}

// ObserverFunc adapts a single function to Observer by forwarding every
// callback as an Event.
type ObserverFunc func(Event)

func (f ObserverFunc) OnTileSpawned(c Cell, v int) {
	f(Event{Kind: EventSpawned, To: c, Value: v})
}

func (f ObserverFunc) OnTileMoved(from, to Cell, v int) {
	f(Event{Kind: EventMoved, From: from, To: to, Value: v})
}

func (f ObserverFunc) OnTileMerged(from, with, to Cell, v int) {
	f(Event{Kind: EventMerged, From: from, With: with, To: to, Value: v})
}

func (f ObserverFunc) OnScoreChanged(score int) {
	f(Event{Kind: EventScoreChanged, Score: score})
}

func (f ObserverFunc) OnGameOver(score int) {
	f(Event{Kind: EventGameOver, Score: score})
}

func (f ObserverFunc) OnReset() {
	f(Event{Kind: EventReset})
}
