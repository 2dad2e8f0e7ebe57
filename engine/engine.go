// Package engine is the session controller: it runs one player turn at
// a time through raw-input hooks, parsing, and resolution, and owns
// the session-level concerns the resolver doesn't see — saving and
// loading, restarts, the win check, and the death/respawn cycle.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nathoo/mishap/engine/parser"
	"github.com/nathoo/mishap/engine/resolve"
	"github.com/nathoo/mishap/engine/save"
	"github.com/nathoo/mishap/engine/world"
	"github.com/nathoo/mishap/store"
	"github.com/nathoo/mishap/types"
)

// RespawnDelayMS is how long front ends wait after a death before
// calling Respawn.
const RespawnDelayMS = 1400

// Engine drives one game session.
type Engine struct {
	Ctx      *world.Context
	Resolver *resolve.Resolver
	RNG      *RNG

	// SessionID identifies this session in save records.
	SessionID string

	build   func() *world.World
	saves   store.Store
	saveKey string
	logger  *slog.Logger

	seed int64
	gen  uint64
	turn int
	won  bool
}

// New creates an engine over a fresh world from the content factory.
// The factory is kept for restarts.
func New(build func() *world.World, saves store.Store, saveKey string, logger *slog.Logger) *Engine {
	w := build()
	return &Engine{
		Ctx:       world.NewContext(w),
		Resolver:  resolve.New(),
		RNG:       NewRNG(0),
		SessionID: uuid.NewString(),
		build:     build,
		saves:     saves,
		saveKey:   saveKey,
		logger:    logger,
	}
}

// Reseed replaces the RNG. Call before Start for varied death quips;
// tests leave the default seed for determinism.
func (e *Engine) Reseed(seed int64) {
	e.seed = seed
	e.RNG = NewRNG(seed)
}

// Start emits the opening banner, the intro text, and the first room.
func (e *Engine) Start() types.Result {
	meta := e.Ctx.World.Meta
	for _, line := range banner(meta) {
		e.Ctx.SayKind(line, types.LineTitle)
	}
	if len(meta.Intro) > 0 {
		e.Ctx.Say("")
		for _, line := range meta.Intro {
			e.Ctx.Say(line)
		}
		e.Ctx.Say("")
	}
	e.Ctx.EnterRoom(meta.Start)
	return e.finish()
}

// Step processes one player command.
func (e *Engine) Step(ctx context.Context, input string) types.Result {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Result{}
	}

	// Any new command invalidates a pending respawn.
	e.gen++
	e.turn++

	lower := strings.ToLower(input)

	// Whole-line easter eggs short-circuit everything.
	if response, ok := e.Ctx.World.EasterEggs[lower]; ok {
		e.Ctx.SayKind(response, types.LineSystem)
		return e.finish()
	}

	// The current room may consume raw input before parsing (the
	// gnome's riddle).
	if !e.won {
		if room := e.Ctx.Room(); room != nil && room.OnRawInput != nil {
			if room.OnRawInput(e.Ctx, lower) {
				return e.finish()
			}
		}
	}

	cmd := parser.Parse(input)

	// After winning, only session commands are accepted.
	if e.won && !isSessionVerb(cmd.Verb) {
		e.Ctx.Say("The pudding has been returned and the kingdom feasts. Your quest is complete.")
		e.Ctx.SayKind("(SAVE, LOAD, or RESTART if you must.)", types.LineSystem)
		return e.finish()
	}

	switch cmd.Verb {
	case "help":
		e.showHelp()
	case "save":
		e.doSave(ctx)
	case "load":
		e.doLoad(ctx)
	case "restart":
		return e.doRestart()
	default:
		e.Resolver.Dispatch(e.Ctx, cmd)
	}

	return e.finish()
}

// Respawn re-enters the room where the player died. Stale generations
// (a newer command arrived during the delay) are dropped silently.
func (e *Engine) Respawn(gen uint64) types.Result {
	if gen != e.gen {
		return types.Result{}
	}
	e.Ctx.EnterRoom(e.Ctx.CurrentRoom())
	return e.finish()
}

// Won reports whether the session has reached the win state.
func (e *Engine) Won() bool {
	return e.won
}

// finish runs the end-of-turn checks and drains the output buffer.
func (e *Engine) finish() types.Result {
	var result types.Result

	if e.Ctx.Died() {
		w := e.Ctx.World
		if len(w.DeathQuips) > 0 {
			e.Ctx.SayKind(w.DeathQuips[e.RNG.Pick(len(w.DeathQuips))], types.LineDeath)
		}
		if len(w.DeathEpilogue) > 0 {
			e.Ctx.Say("")
			for _, line := range w.DeathEpilogue {
				e.Ctx.Say(line)
			}
		}
		e.Ctx.ClearDied()
		result.Died = true
		result.Respawn = &types.Respawn{Gen: e.gen, Delay: RespawnDelayMS}
	} else if !e.won && e.isWinState() {
		e.won = true
		if e.Ctx.World.OnWin != nil {
			e.Ctx.World.OnWin(e.Ctx)
		}
		result.Won = true
	}

	result.Redraw = e.Ctx.Redraw()
	e.Ctx.ClearRedraw()
	result.Lines = e.Ctx.Flush()
	return result
}

func (e *Engine) isWinState() bool {
	w := e.Ctx.World
	return w.WinRoom != "" &&
		e.Ctx.CurrentRoom() == w.WinRoom &&
		e.Ctx.Carrying(w.WinObject)
}

func isSessionVerb(verb string) bool {
	switch verb {
	case "save", "load", "restart", "help":
		return true
	}
	return false
}

func (e *Engine) doSave(ctx context.Context) {
	rec := save.Build(e.Ctx, e.SessionID, e.RNG.Seed(), e.RNG.Position())
	data, err := save.Marshal(rec)
	if err == nil {
		err = e.saves.Put(ctx, e.saveKey, data)
	}
	if err != nil {
		e.logger.Error("save failed", "key", e.saveKey, "error", err)
		e.Ctx.SayKind("Save failed! A dragon sneezed on the memory.", types.LineError)
		return
	}
	e.logger.Debug("game saved", "key", e.saveKey, "room", rec.CurrentRoom, "score", rec.GameState.Score)
	e.Ctx.SayKind("Game saved! The royal archivist nods approvingly.", types.LineSystem)
}

func (e *Engine) doLoad(ctx context.Context) {
	data, err := e.saves.Get(ctx, e.saveKey)
	if errors.Is(err, store.ErrNotFound) {
		e.Ctx.SayKind("No saved game found. Type SAVE to save first.", types.LineError)
		return
	}
	if err != nil {
		e.logger.Error("load failed", "key", e.saveKey, "error", err)
		e.Ctx.SayKind("The royal archive is unreachable. Try again later.", types.LineError)
		return
	}

	rec, err := save.Unmarshal(data)
	if err != nil {
		e.logger.Error("save record rejected", "key", e.saveKey, "error", err)
		e.Ctx.SayKind("Save data corrupted. The wizard sneezed on it.", types.LineError)
		return
	}

	save.Apply(e.Ctx, rec)
	e.seed = rec.RNGSeed
	e.RNG = RestoreRNG(rec.RNGSeed, rec.RNGPos)
	// A save made after winning restores into the won state without
	// replaying the victory sequence.
	e.won = e.isWinState()

	e.Ctx.SayKind("Game loaded! The pudding awaits.", types.LineSystem)
	e.Ctx.EnterRoom(e.Ctx.CurrentRoom())
}

func (e *Engine) doRestart() types.Result {
	e.Ctx.Say("The wizard hiccups. The world resets...")
	e.Ctx.Say("")
	pre := e.Ctx.Flush()

	e.Ctx = world.NewContext(e.build())
	e.Resolver = resolve.New()
	e.RNG = NewRNG(e.seed)
	e.won = false
	e.turn = 0
	e.gen++

	result := e.Start()
	result.Lines = append(pre, result.Lines...)
	return result
}

func (e *Engine) showHelp() {
	say := func(line string) { e.Ctx.SayKind(line, types.LineTitle) }
	say("╔═════════════════════════════════════════╗")
	say("║          COMMANDS                       ║")
	say("╠═════════════════════════════════════════╣")
	say("║ Move: N S E W U D  (or full word)       ║")
	say("║ LOOK [thing]   EXAMINE/X [thing]        ║")
	say("║ TAKE [item]    DROP [item]              ║")
	say("║ USE [item]     USE [item] ON [target]   ║")
	say("║ OPEN [thing]   TALK [person]            ║")
	say("║ GIVE [item]    INVENTORY / I            ║")
	say("║ SMELL [thing]  LISTEN  WAIT/Z           ║")
	say("║ SAVE           LOAD     RESTART         ║")
	say("╚═════════════════════════════════════════╝")
	e.Ctx.SayKind("TIP: Type EXAMINE things — clues are everywhere!", types.LineScore)
	e.Ctx.SayKind("TIP: SAVE often! (Sierra games can be fatal.)", types.LineScore)
}

// banner renders the title box from the game metadata.
func banner(meta types.Meta) []string {
	inner := []string{meta.Title}
	if meta.Author != "" {
		inner = append(inner, "by "+meta.Author)
	}
	width := 0
	for _, line := range inner {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	var out []string
	out = append(out, "╔"+strings.Repeat("═", width+2)+"╗")
	for _, line := range inner {
		pad := width - len([]rune(line))
		out = append(out, fmt.Sprintf("║ %s%s ║", line, strings.Repeat(" ", pad)))
	}
	out = append(out, "╚"+strings.Repeat("═", width+2)+"╝")
	return out
}
