// Package content is the built-in game: "The Magical Mishap", a
// Sierra-style quest to recover the Royal Pudding from a dragon's
// lair. The world data lives in mishap.lua, embedded at build time;
// the puzzle behavior is attached here as Go hooks.
package content

import (
	"embed"
	"fmt"

	"github.com/nathoo/mishap/engine/world"
	"github.com/nathoo/mishap/loader"
)

//go:embed mishap.lua
var gameFS embed.FS

// New loads a fresh copy of the built-in game world with all behavior
// hooks attached. Each call returns an independent World, so sessions
// and restarts never share mutable state.
func New() (*world.World, error) {
	w, err := loader.LoadFS(gameFS, ".")
	if err != nil {
		return nil, fmt.Errorf("loading built-in game: %w", err)
	}
	if err := attachHooks(w); err != nil {
		return nil, fmt.Errorf("attaching hooks: %w", err)
	}
	// Hooks add exit guards and examine handlers; validate again so a
	// content/hook mismatch fails at startup, not mid-game.
	if err := loader.Validate(w); err != nil {
		return nil, err
	}
	return w, nil
}

// MustNew is New for contexts where the embedded content is known
// good (the engine's world factory).
func MustNew() *world.World {
	w, err := New()
	if err != nil {
		panic(err)
	}
	return w
}
