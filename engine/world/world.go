// Package world holds the loaded game world and the Context through
// which all state mutation happens. Hooks never touch rooms, objects,
// or flags directly; they go through Context methods so that inventory
// bookkeeping and score idempotence stay in one place.
package world

import (
	"fmt"
	"strings"

	"github.com/nathoo/mishap/types"
)

// World is a loaded content pack: metadata plus room and object
// definitions. A World instance is owned by exactly one session and
// mutated at runtime (exits open, objects move).
type World struct {
	Meta    types.Meta
	Rooms   map[string]*types.Room
	Objects map[string]*types.Object

	// ObjectOrder preserves content declaration order so object
	// listings are stable.
	ObjectOrder []string

	// Smells maps sniffable keywords to responses; SmellDefault covers
	// everything else.
	Smells       map[string]string
	SmellDefault string

	// Win condition: the player is in WinRoom carrying WinObject.
	// OnWin emits the victory sequence. Empty WinRoom disables the check.
	WinRoom   string
	WinObject string
	OnWin     func(g types.Game)

	// Death flavor: a quip drawn at random, then the fixed epilogue.
	DeathQuips    []string
	DeathEpilogue []string

	// EasterEggs maps whole lowercase input lines to canned responses,
	// checked before parsing.
	EasterEggs map[string]string
}

// compassOrder fixes the direction listing order in room descriptions.
var compassOrder = []string{"north", "south", "east", "west", "up", "down"}

// Context is the mutable session state over a World. It implements
// types.Game, the surface hooks act through.
type Context struct {
	World *World
	State *types.GameState

	current   string
	inventory []string

	lines  []types.Line
	died   bool
	redraw bool
}

// NewContext creates a fresh session context positioned at the world's
// starting room with an empty inventory.
func NewContext(w *World) *Context {
	return &Context{
		World: w,
		State: &types.GameState{
			Flags:    map[string]bool{},
			Awards:   map[string]bool{},
			MaxScore: w.Meta.MaxScore,
		},
		current:   w.Meta.Start,
		inventory: []string{},
	}
}

// Say appends narrative output. Embedded newlines split into separate
// display lines.
func (c *Context) Say(text string) {
	c.SayKind(text, types.LineNarrative)
}

// Sayf is Say with fmt.Sprintf formatting.
func (c *Context) Sayf(format string, args ...any) {
	c.Say(fmt.Sprintf(format, args...))
}

// SayKind appends output with an explicit line kind.
func (c *Context) SayKind(text string, kind types.LineKind) {
	for _, part := range strings.Split(text, "\n") {
		c.lines = append(c.lines, types.Line{Text: part, Kind: kind})
	}
}

// Flush returns the buffered output lines and clears the buffer.
func (c *Context) Flush() []types.Line {
	out := c.lines
	c.lines = nil
	return out
}

// Flag reports a puzzle flag. Unset flags are false.
func (c *Context) Flag(name string) bool {
	return c.State.Flags[name]
}

// SetFlag sets a puzzle flag.
func (c *Context) SetFlag(name string) {
	c.State.Flags[name] = true
}

// AwardOnce grants points for a named milestone exactly once. Repeat
// calls with the same milestone are silent no-ops.
func (c *Context) AwardOnce(milestone string, points int) {
	if c.State.Awards[milestone] {
		return
	}
	c.State.Awards[milestone] = true
	c.State.Score += points
	c.SayKind(fmt.Sprintf("♪ [Score: %d/%d]", c.State.Score, c.State.MaxScore), types.LineScore)
}

// Score returns the current score.
func (c *Context) Score() int {
	return c.State.Score
}

// MaxScore returns the content pack's maximum score.
func (c *Context) MaxScore() int {
	return c.State.MaxScore
}

// CurrentRoom returns the ID of the room the player is in.
func (c *Context) CurrentRoom() string {
	return c.current
}

// Room returns the definition of the current room, or nil if the
// player is somehow nowhere.
func (c *Context) Room() *types.Room {
	return c.World.Rooms[c.current]
}

// SetCurrentRoom repositions the player without room-entry output.
// Used when restoring a save.
func (c *Context) SetCurrentRoom(roomID string) {
	c.current = roomID
}

// Carrying reports whether an object is in the player's inventory.
func (c *Context) Carrying(objectID string) bool {
	obj, ok := c.World.Objects[objectID]
	return ok && obj.Location == types.LocInventory
}

// Inventory returns the carried object IDs in pickup order.
func (c *Context) Inventory() []string {
	return c.inventory
}

// MoveObject relocates an object, keeping the inventory list in sync.
// Unknown object IDs are ignored.
func (c *Context) MoveObject(objectID, location string) {
	obj, ok := c.World.Objects[objectID]
	if !ok {
		return
	}
	if obj.Location == types.LocInventory && location != types.LocInventory {
		for i, id := range c.inventory {
			if id == objectID {
				c.inventory = append(c.inventory[:i], c.inventory[i+1:]...)
				break
			}
		}
	}
	if obj.Location != types.LocInventory && location == types.LocInventory {
		c.inventory = append(c.inventory, objectID)
	}
	obj.Location = location
}

// SetInventory replaces the inventory list wholesale. Used when
// restoring a save; object locations must already agree.
func (c *Context) SetInventory(ids []string) {
	c.inventory = append([]string{}, ids...)
}

// OpenExit adds or retargets an exit at runtime (the beanstalk).
func (c *Context) OpenExit(roomID, direction, target string) {
	if room, ok := c.World.Rooms[roomID]; ok {
		if room.Exits == nil {
			room.Exits = map[string]string{}
		}
		room.Exits[direction] = target
	}
}

// EnterRoom moves the player into a room and emits the standard entry
// output: description, visible objects, exits.
func (c *Context) EnterRoom(roomID string) {
	c.current = roomID
	room, ok := c.World.Rooms[roomID]
	if !ok {
		c.SayKind("ERROR: You've wandered into undefined space!", types.LineError)
		return
	}

	c.redraw = true
	c.Say(room.Description)

	if names := c.VisibleObjectNames(roomID); len(names) > 0 {
		c.SayKind("You can see: "+strings.Join(names, ", "), types.LineYouSee)
	}

	if dirs := c.ExitDirections(roomID); len(dirs) > 0 {
		c.SayKind("Obvious exits: "+strings.ToUpper(strings.Join(dirs, ", ")), types.LineExits)
	}
}

// VisibleObjectNames returns display names of objects lying in a room,
// in content declaration order.
func (c *Context) VisibleObjectNames(roomID string) []string {
	var names []string
	for _, id := range c.World.ObjectOrder {
		if obj := c.World.Objects[id]; obj != nil && obj.Location == roomID {
			names = append(names, obj.Name)
		}
	}
	return names
}

// ExitDirections returns a room's exit directions in compass order.
func (c *Context) ExitDirections(roomID string) []string {
	room, ok := c.World.Rooms[roomID]
	if !ok {
		return nil
	}
	var dirs []string
	for _, dir := range compassOrder {
		if _, ok := room.Exits[dir]; ok {
			dirs = append(dirs, dir)
		}
	}
	// Any non-compass directions go last, however the content named them.
	for dir := range room.Exits {
		found := false
		for _, d := range compassOrder {
			if d == dir {
				found = true
				break
			}
		}
		if !found {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Die marks the turn fatal and emits the death message. The session
// controller decides what happens next; death never ends the game.
func (c *Context) Die(message string) {
	c.died = true
	c.SayKind("☠  "+message, types.LineDeath)
}

// Died reports whether Die was called since the last ClearDied.
func (c *Context) Died() bool {
	return c.died
}

// ClearDied resets the death marker for the next turn.
func (c *Context) ClearDied() {
	c.died = false
}

// Redraw reports whether the depicted scene changed since ClearRedraw.
func (c *Context) Redraw() bool {
	return c.redraw
}

// ClearRedraw resets the redraw marker for the next turn.
func (c *Context) ClearRedraw() {
	c.redraw = false
}

// RoomExitsSnapshot returns a deep copy of every room's current exits,
// for the save record.
func (c *Context) RoomExitsSnapshot() map[string]map[string]string {
	snap := make(map[string]map[string]string, len(c.World.Rooms))
	for id, room := range c.World.Rooms {
		exits := make(map[string]string, len(room.Exits))
		for dir, target := range room.Exits {
			exits[dir] = target
		}
		snap[id] = exits
	}
	return snap
}

// ObjectLocationsSnapshot returns every object's current location, for
// the save record.
func (c *Context) ObjectLocationsSnapshot() map[string]string {
	snap := make(map[string]string, len(c.World.Objects))
	for id, obj := range c.World.Objects {
		snap[id] = obj.Location
	}
	return snap
}
