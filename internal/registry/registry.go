// Package registry maps mode IDs to game factories. Modes register
// themselves from init, optionally under short aliases such as "endless",
// so front ends can look them up by either name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// Game is a playable mode driven by the TUI at a fixed tick rate. It owns
// its simulation and drawing; the platform owns input, timing and output.
type Game interface {
	// ID is the stable key used for scores and stored games.
	ID() string
	Title() string

	// Reset starts a fresh run with the given screen size and seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances one tick with the actions pressed during it.
	Step(in core.InputFrame) core.StepResult

	Render(dst *core.Screen)
	State() core.GameState
}

// Resizable is implemented by games that can follow a terminal resize
// without restarting.
type Resizable interface {
	Resize(w, h int)
}

// Recordable is implemented by games whose runs can be stored and replayed.
type Recordable interface {
	Seed() int64
	StartLevel() int
	Preset() string
	Rows() int
	Cols() int
	MoveLog() string
	MaxTile() int
	Moves() int
}

// GameInfo describes a registered mode.
type GameInfo struct {
	ID      string
	Title   string
	Aliases []string
}

// Factory creates a new instance of a mode.
type Factory func() Game

type entry struct {
	info    GameInfo
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = make(map[string]entry)
	aliases = make(map[string]string) // alias -> ID
)

// Register adds a mode under id and any aliases. It panics when a name is
// already taken, since that is a wiring bug.
func Register(id string, f Factory, alias ...string) {
	mu.Lock()
	defer mu.Unlock()

	for _, name := range append([]string{id}, alias...) {
		if taken(name) {
			panic(fmt.Sprintf("registry: name %q already registered", name))
		}
	}

	entries[id] = entry{
		info:    GameInfo{ID: id, Title: f().Title(), Aliases: alias},
		factory: f,
	}
	for _, a := range alias {
		aliases[a] = id
	}
}

func taken(name string) bool {
	_, isID := entries[name]
	_, isAlias := aliases[name]
	return isID || isAlias
}

// Resolve returns the mode ID for an ID or alias.
func Resolve(name string) (string, error) {
	mu.RLock()
	defer mu.RUnlock()
	return resolve(name)
}

func resolve(name string) (string, error) {
	if _, ok := entries[name]; ok {
		return name, nil
	}
	if id, ok := aliases[name]; ok {
		return id, nil
	}
	return "", fmt.Errorf("registry: unknown mode %q", name)
}

// List returns all registered modes sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create builds a new game for an ID or alias.
func Create(name string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	id, err := resolve(name)
	if err != nil {
		return nil, err
	}
	return entries[id].factory(), nil
}
