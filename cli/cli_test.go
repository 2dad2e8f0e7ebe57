package cli

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/nathoo/mishap/engine"
	"github.com/nathoo/mishap/engine/world"
	"github.com/nathoo/mishap/store"
	"github.com/nathoo/mishap/types"
)

// buildTestWorld is a two-room fixture: a hall with a key and a
// garden with a lethal rosebush.
func buildTestWorld() *world.World {
	return &world.World{
		Meta: types.Meta{
			Title:    "Test Game",
			Author:   "Test",
			Start:    "hall",
			Intro:    []string{"Welcome to the test."},
			MaxScore: 10,
		},
		Rooms: map[string]*types.Room{
			"hall": {
				ID:          "hall",
				Description: "A grand hall.",
				Exits:       map[string]string{"north": "garden"},
			},
			"garden": {
				ID:          "garden",
				Description: "A peaceful garden.",
				Exits:       map[string]string{"south": "hall"},
			},
		},
		Objects: map[string]*types.Object{
			"key": {
				ID: "key", Name: "rusty key", Location: "hall",
				Takeable: true, Description: "An old key.",
			},
			"rosebush": {
				ID: "rosebush", Name: "rosebush", Location: "garden",
				Takeable: true, Description: "Thorny.",
				OnTake: func(g types.Game) { g.Die("The thorns are poisoned. Oops.") },
			},
		},
		ObjectOrder:   []string{"key", "rosebush"},
		DeathQuips:    []string{"You have died."},
		DeathEpilogue: []string{"You wake up."},
	}
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(buildTestWorld, store.NewMemoryStore(), "cli_test", logger)
	var out bytes.Buffer
	return &CLI{
		Engine: eng,
		In:     strings.NewReader(input),
		Out:    &out,
		Sleep:  func(time.Duration) {},
	}, &out
}

func TestCLI_IntroAndStartingRoom(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Welcome to the test.") {
		t.Error("expected intro text in output")
	}
	if !strings.Contains(output, "A grand hall.") {
		t.Error("expected starting room description in output")
	}
}

func TestCLI_Navigation(t *testing.T) {
	c, out := newTestCLI(t, "go north\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "A peaceful garden.") {
		t.Error("expected garden description after going north")
	}
}

func TestCLI_DeathRespawnsInPlace(t *testing.T) {
	c, out := newTestCLI(t, "north\ntake rosebush\n/quit\n")

	var slept time.Duration
	c.Sleep = func(d time.Duration) { slept = d }
	c.Run()

	output := out.String()
	if !strings.Contains(output, "poisoned") {
		t.Error("expected death message")
	}
	if slept != engine.RespawnDelayMS*time.Millisecond {
		t.Errorf("slept %v, want %v", slept, engine.RespawnDelayMS*time.Millisecond)
	}
	// The respawn re-describes the garden: once on entry, once after death.
	if n := strings.Count(output, "A peaceful garden."); n != 2 {
		t.Errorf("garden described %d times, want 2", n)
	}
}

func TestCLI_SaveLoadAreGameVerbs(t *testing.T) {
	c, out := newTestCLI(t, "go north\nsave\nsouth\nload\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Game saved!") {
		t.Error("expected save confirmation")
	}
	if !strings.Contains(output, "Game loaded!") {
		t.Error("expected load confirmation")
	}
	if c.Engine.Ctx.CurrentRoom() != "garden" {
		t.Errorf("room after load = %q, want garden", c.Engine.Ctx.CurrentRoom())
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "take key\n/state\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Location: hall") {
		t.Error("expected location in state output")
	}
	if !strings.Contains(output, "Score: 0/10") {
		t.Error("expected score in state output")
	}
	if !strings.Contains(output, "key") {
		t.Error("expected inventory contents in state output")
	}
}

func TestCLI_EmptyInputSkipped(t *testing.T) {
	c, out := newTestCLI(t, "\n\n/quit\n")
	c.Run()

	if strings.Contains(out.String(), "I don't understand") {
		t.Error("empty lines should be silently skipped by CLI")
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, out := newTestCLI(t, "look\nagain\n/quit\n")
	c.Run()

	// Start + look + again each describe the hall.
	if n := strings.Count(out.String(), "A grand hall."); n < 3 {
		t.Errorf("expected 'A grand hall.' at least 3 times, got %d", n)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}

func TestCLI_CommentLinesSkipped(t *testing.T) {
	c, out := newTestCLI(t, "# walkthrough step 1\n/quit\n")
	c.Run()

	if strings.Contains(out.String(), "I don't understand") {
		t.Error("comment lines should be silently skipped")
	}
}
