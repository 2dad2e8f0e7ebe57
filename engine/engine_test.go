package engine

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nathoo/mishap/engine/world"
	"github.com/nathoo/mishap/store"
	"github.com/nathoo/mishap/types"
)

// buildTestWorld is a content factory for a tiny game: grab the crown
// from the shrine and bring it back to the throne. The altar is
// trapped.
func buildTestWorld() *world.World {
	return &world.World{
		Meta: types.Meta{
			Title:    "Test Quest",
			Author:   "Nobody",
			Start:    "throne",
			Intro:    []string{"Fetch the crown."},
			MaxScore: 60,
		},
		Rooms: map[string]*types.Room{
			"throne": {
				ID:          "throne",
				Description: "The throne room.",
				Exits:       map[string]string{"north": "shrine"},
			},
			"shrine": {
				ID:          "shrine",
				Description: "A dusty shrine.",
				Exits:       map[string]string{"south": "throne"},
				OnRawInput: func(g types.Game, raw string) bool {
					if raw == "open sesame" {
						g.Say("A secret panel slides open.")
						g.SetFlag("panelOpen")
						return true
					}
					return false
				},
			},
		},
		Objects: map[string]*types.Object{
			"crown": {
				ID: "crown", Name: "jeweled crown", Aliases: []string{"crown"},
				Location: "shrine", Takeable: true,
				Description: "Heavy and gaudy.",
				OnTake:      func(g types.Game) { g.AwardOnce("crown_taken", 10) },
			},
			"altar": {
				ID: "altar", Name: "cursed altar",
				Location: "shrine", Takeable: true,
				Description: "Don't.",
				OnTake:      func(g types.Game) { g.Die("The altar objects. Lethally.") },
			},
		},
		ObjectOrder: []string{"crown", "altar"},
		WinRoom:     "throne",
		WinObject:   "crown",
		OnWin: func(g types.Game) {
			g.Say("The king weeps with joy.")
			g.AwardOnce("game_won", 50)
		},
		DeathQuips:    []string{"Quip one.", "Quip two."},
		DeathEpilogue: []string{"You wake up, slightly singed but alive."},
		EasterEggs: map[string]string{
			"xyzzy": "A hollow voice says 'Wrong game, adventurer!'",
		},
	}
}

func newTestEngine() *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(buildTestWorld, store.NewMemoryStore(), "test_save", logger)
}

func textOf(r types.Result) string {
	var parts []string
	for _, line := range r.Lines {
		parts = append(parts, line.Text)
	}
	return strings.Join(parts, "\n")
}

func TestStart(t *testing.T) {
	e := newTestEngine()
	r := e.Start()
	out := textOf(r)

	for _, want := range []string{"Test Quest", "by Nobody", "Fetch the crown.", "The throne room.", "Obvious exits: NORTH"} {
		if !strings.Contains(out, want) {
			t.Errorf("start output missing %q:\n%s", want, out)
		}
	}
	if !r.Redraw {
		t.Error("start should request a redraw")
	}
}

func TestStepEmptyInput(t *testing.T) {
	e := newTestEngine()
	e.Start()
	r := e.Step(context.Background(), "   ")
	if len(r.Lines) != 0 {
		t.Errorf("empty input produced output: %v", r.Lines)
	}
}

func TestEasterEgg(t *testing.T) {
	e := newTestEngine()
	e.Start()
	r := e.Step(context.Background(), "XYZZY")
	if out := textOf(r); !strings.Contains(out, "Wrong game, adventurer") {
		t.Errorf("easter egg output = %q", out)
	}
}

func TestRawInputHook(t *testing.T) {
	e := newTestEngine()
	e.Start()
	ctx := context.Background()
	e.Step(ctx, "north")

	r := e.Step(ctx, "open sesame")
	if out := textOf(r); !strings.Contains(out, "secret panel") {
		t.Errorf("raw input hook output = %q", out)
	}
	if !e.Ctx.Flag("panelOpen") {
		t.Error("raw input hook did not run")
	}

	// Unconsumed raw input falls through to normal parsing.
	r = e.Step(ctx, "inventory")
	if out := textOf(r); !strings.Contains(out, "empty-handed") {
		t.Errorf("fallthrough output = %q", out)
	}
}

func TestDeathAndRespawn(t *testing.T) {
	e := newTestEngine()
	e.Start()
	ctx := context.Background()
	e.Step(ctx, "north")

	r := e.Step(ctx, "take altar")
	if !r.Died {
		t.Fatal("taking the altar should be fatal")
	}
	if r.Respawn == nil || r.Respawn.Delay != RespawnDelayMS {
		t.Fatalf("respawn ticket = %+v", r.Respawn)
	}
	out := textOf(r)
	if !strings.Contains(out, "The altar objects.") {
		t.Errorf("death output missing message:\n%s", out)
	}
	if !strings.Contains(out, "Quip") {
		t.Errorf("death output missing quip:\n%s", out)
	}
	if !strings.Contains(out, "slightly singed") {
		t.Errorf("death output missing epilogue:\n%s", out)
	}
	if e.Ctx.Carrying("altar") {
		t.Error("fatal take left the altar in inventory")
	}

	// Respawn with the current generation re-enters the room.
	rr := e.Respawn(r.Respawn.Gen)
	if !strings.Contains(textOf(rr), "A dusty shrine.") {
		t.Errorf("respawn output = %q", textOf(rr))
	}
	if !rr.Redraw {
		t.Error("respawn should request a redraw")
	}
}

func TestStaleRespawnDropped(t *testing.T) {
	e := newTestEngine()
	e.Start()
	ctx := context.Background()
	e.Step(ctx, "north")

	r := e.Step(ctx, "take altar")
	if r.Respawn == nil {
		t.Fatal("expected respawn ticket")
	}

	// The player types something before the delay elapses.
	e.Step(ctx, "look")

	rr := e.Respawn(r.Respawn.Gen)
	if len(rr.Lines) != 0 {
		t.Errorf("stale respawn produced output: %v", rr.Lines)
	}
}

func TestWinAndLockout(t *testing.T) {
	e := newTestEngine()
	e.Start()
	ctx := context.Background()
	e.Step(ctx, "north")
	e.Step(ctx, "take crown")

	r := e.Step(ctx, "south")
	if !r.Won {
		t.Fatalf("returning with the crown should win; output:\n%s", textOf(r))
	}
	if !strings.Contains(textOf(r), "king weeps with joy") {
		t.Errorf("win output = %q", textOf(r))
	}
	if e.Ctx.State.Score != 60 {
		t.Errorf("final score = %d, want 60", e.Ctx.State.Score)
	}

	// Gameplay commands are refused after winning.
	r = e.Step(ctx, "north")
	if !strings.Contains(textOf(r), "quest is complete") {
		t.Errorf("post-win output = %q", textOf(r))
	}
	if e.Ctx.CurrentRoom() != "throne" {
		t.Error("player moved after winning")
	}

	// The win sequence fires only once.
	r = e.Step(ctx, "save")
	if r.Won {
		t.Error("Won flagged again on a later turn")
	}
}

func TestSaveAndLoad(t *testing.T) {
	e := newTestEngine()
	e.Start()
	ctx := context.Background()
	e.Step(ctx, "north")
	e.Step(ctx, "take crown")

	r := e.Step(ctx, "save")
	if !strings.Contains(textOf(r), "Game saved!") {
		t.Fatalf("save output = %q", textOf(r))
	}

	// Mutate past the save point.
	e.Step(ctx, "drop crown")
	e.Step(ctx, "south")

	r = e.Step(ctx, "load")
	out := textOf(r)
	if !strings.Contains(out, "Game loaded!") {
		t.Fatalf("load output = %q", out)
	}
	if e.Ctx.CurrentRoom() != "shrine" {
		t.Errorf("room after load = %q, want shrine", e.Ctx.CurrentRoom())
	}
	if !e.Ctx.Carrying("crown") {
		t.Error("crown not restored to inventory")
	}
	if e.Ctx.State.Score != 10 {
		t.Errorf("score after load = %d, want 10", e.Ctx.State.Score)
	}
	// Re-entry output follows the load message.
	if !strings.Contains(out, "A dusty shrine.") {
		t.Errorf("load should re-enter the room:\n%s", out)
	}
}

func TestLoadMissingSave(t *testing.T) {
	e := newTestEngine()
	e.Start()
	r := e.Step(context.Background(), "load")
	if !strings.Contains(textOf(r), "No saved game found") {
		t.Errorf("missing save output = %q", textOf(r))
	}
}

func TestLoadCorruptSaveLeavesStateUntouched(t *testing.T) {
	e := newTestEngine()
	e.Start()
	ctx := context.Background()
	e.Step(ctx, "north")

	if err := e.saves.Put(ctx, "test_save", []byte("{broken")); err != nil {
		t.Fatal(err)
	}
	r := e.Step(ctx, "load")
	if !strings.Contains(textOf(r), "Save data corrupted") {
		t.Errorf("corrupt save output = %q", textOf(r))
	}
	if e.Ctx.CurrentRoom() != "shrine" {
		t.Errorf("corrupt load moved the player to %q", e.Ctx.CurrentRoom())
	}
}

func TestLoadWrongVersionRejected(t *testing.T) {
	e := newTestEngine()
	e.Start()
	ctx := context.Background()

	if err := e.saves.Put(ctx, "test_save", []byte(`{"version":99}`)); err != nil {
		t.Fatal(err)
	}
	r := e.Step(ctx, "load")
	if !strings.Contains(textOf(r), "Save data corrupted") {
		t.Errorf("wrong-version output = %q", textOf(r))
	}
}

func TestRestart(t *testing.T) {
	e := newTestEngine()
	e.Start()
	ctx := context.Background()
	e.Step(ctx, "north")
	e.Step(ctx, "take crown")

	r := e.Step(ctx, "restart")
	out := textOf(r)
	if !strings.Contains(out, "The world resets") {
		t.Errorf("restart output = %q", out)
	}
	if !strings.Contains(out, "The throne room.") {
		t.Errorf("restart should replay the intro and first room:\n%s", out)
	}
	if e.Ctx.CurrentRoom() != "throne" {
		t.Errorf("room after restart = %q", e.Ctx.CurrentRoom())
	}
	if e.Ctx.State.Score != 0 {
		t.Errorf("score after restart = %d", e.Ctx.State.Score)
	}
	if e.Ctx.Carrying("crown") {
		t.Error("inventory survived restart")
	}
}

func TestHelp(t *testing.T) {
	e := newTestEngine()
	e.Start()
	r := e.Step(context.Background(), "help")
	out := textOf(r)
	if !strings.Contains(out, "COMMANDS") || !strings.Contains(out, "SAVE often") {
		t.Errorf("help output = %q", out)
	}
}

func TestSavePreservesRNGStream(t *testing.T) {
	e := newTestEngine()
	e.Reseed(7)
	e.Start()
	ctx := context.Background()

	// Burn a few RNG draws through deaths.
	e.Step(ctx, "north")
	e.Step(ctx, "take altar")
	e.Step(ctx, "save")

	next := e.RNG.Pick(1000)

	e.Step(ctx, "load")
	if got := e.RNG.Pick(1000); got != next {
		t.Errorf("RNG after load = %d, want %d", got, next)
	}
}
