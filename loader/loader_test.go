package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/mishap/types"
)

const fullGame = `
Game {
	title = "Loader Test Quest",
	author = "Tester",
	version = "1.0",
	start = "courtyard",
	intro = { "Line one.", "Line two." },
	max_score = 75,
	win_room = "courtyard",
	win_object = "gem",
}

Room "courtyard" {
	description = "A mossy courtyard.",
	exits = { north = "keep", east = "garden" },
	examine = {
		{ keywords = { "moss", "stones" }, text = "Green and damp." },
		{ keywords = { "well" } },
	},
}

Room "keep" {
	description = "The old keep.",
	exits = { south = "courtyard" },
}

Room "garden" {
	description = "An overgrown garden.",
	exits = { west = "courtyard" },
}

Object "gem" {
	name = "glowing gem",
	aliases = { "jewel", "stone" },
	location = "garden",
	takeable = true,
	description = "It pulses faintly.",
}

Object "bench" {
	name = "stone bench",
	location = "courtyard",
	description = "Too heavy to move.",
}

Smells {
	default = "You smell nothing unusual.",
	moss = "Earthy. Ancient. A bit like a wet dog.",
}

EasterEggs {
	xyzzy = "A hollow voice says nothing.",
}

Deaths {
	quips = { "Oops.", "That went poorly." },
	epilogue = { "You wake up." },
}
`

func TestLoadString_FullGame(t *testing.T) {
	w, err := LoadString("full.lua", fullGame)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	// Metadata.
	if w.Meta.Title != "Loader Test Quest" {
		t.Errorf("Title = %q", w.Meta.Title)
	}
	if w.Meta.Author != "Tester" {
		t.Errorf("Author = %q", w.Meta.Author)
	}
	if w.Meta.Start != "courtyard" {
		t.Errorf("Start = %q", w.Meta.Start)
	}
	if len(w.Meta.Intro) != 2 || w.Meta.Intro[0] != "Line one." {
		t.Errorf("Intro = %v", w.Meta.Intro)
	}
	if w.Meta.MaxScore != 75 {
		t.Errorf("MaxScore = %d", w.Meta.MaxScore)
	}
	if w.WinRoom != "courtyard" || w.WinObject != "gem" {
		t.Errorf("win condition = %q / %q", w.WinRoom, w.WinObject)
	}

	// Rooms.
	if len(w.Rooms) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(w.Rooms))
	}
	courtyard := w.Rooms["courtyard"]
	if courtyard.Exits["north"] != "keep" {
		t.Errorf("courtyard north exit = %q", courtyard.Exits["north"])
	}
	if len(courtyard.Examine) != 2 {
		t.Fatalf("expected 2 examine targets, got %d", len(courtyard.Examine))
	}
	if courtyard.Examine[0].Text != "Green and damp." {
		t.Errorf("examine text = %q", courtyard.Examine[0].Text)
	}
	if len(courtyard.Examine[0].Keywords) != 2 {
		t.Errorf("examine keywords = %v", courtyard.Examine[0].Keywords)
	}
	// Text-less entry waits for a Go hook.
	if courtyard.Examine[1].Text != "" || courtyard.Examine[1].Keywords[0] != "well" {
		t.Errorf("hook examine entry = %+v", courtyard.Examine[1])
	}

	// Objects, in declaration order.
	gem := w.Objects["gem"]
	if gem == nil {
		t.Fatal("object 'gem' not found")
	}
	if gem.Name != "glowing gem" || !gem.Takeable || gem.Location != "garden" {
		t.Errorf("gem = %+v", gem)
	}
	if len(gem.Aliases) != 2 || gem.Aliases[0] != "jewel" {
		t.Errorf("gem aliases = %v", gem.Aliases)
	}
	bench := w.Objects["bench"]
	if bench == nil || bench.Takeable {
		t.Errorf("bench should default to untakeable: %+v", bench)
	}
	if len(w.ObjectOrder) != 2 || w.ObjectOrder[0] != "gem" || w.ObjectOrder[1] != "bench" {
		t.Errorf("ObjectOrder = %v", w.ObjectOrder)
	}

	// Smells.
	if w.SmellDefault != "You smell nothing unusual." {
		t.Errorf("SmellDefault = %q", w.SmellDefault)
	}
	if w.Smells["moss"] == "" {
		t.Error("moss smell missing")
	}
	if _, ok := w.Smells["default"]; ok {
		t.Error("default leaked into the smell keyword table")
	}

	// Flavor.
	if w.EasterEggs["xyzzy"] == "" {
		t.Error("easter egg missing")
	}
	if len(w.DeathQuips) != 2 || len(w.DeathEpilogue) != 1 {
		t.Errorf("deaths = %v / %v", w.DeathQuips, w.DeathEpilogue)
	}
}

func TestLoadString_NoGameBlock(t *testing.T) {
	_, err := LoadString("bad.lua", `Room "a" { description = "x" }`)
	if err == nil || !strings.Contains(err.Error(), "no Game{} definition") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadString_DanglingExit(t *testing.T) {
	src := `
Game { title = "T", start = "a" }
Room "a" { description = "x", exits = { north = "nowhere" } }
`
	_, err := LoadString("bad.lua", src)
	if err == nil || !strings.Contains(err.Error(), `undefined room "nowhere"`) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadString_MissingStartRoom(t *testing.T) {
	src := `
Game { title = "T", start = "void" }
Room "a" { description = "x" }
`
	_, err := LoadString("bad.lua", src)
	if err == nil || !strings.Contains(err.Error(), `start room "void"`) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadString_DuplicateRoom(t *testing.T) {
	src := `
Game { title = "T", start = "a" }
Room "a" { description = "x" }
Room "a" { description = "y" }
`
	_, err := LoadString("bad.lua", src)
	if err == nil || !strings.Contains(err.Error(), `duplicate room ID "a"`) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadString_BadObjectLocation(t *testing.T) {
	src := `
Game { title = "T", start = "a" }
Room "a" { description = "x" }
Object "o" { name = "thing", location = "limbo" }
`
	_, err := LoadString("bad.lua", src)
	if err == nil || !strings.Contains(err.Error(), `location "limbo"`) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadString_SyntaxError(t *testing.T) {
	_, err := LoadString("broken.lua", `Game { title = `)
	if err == nil || !strings.Contains(err.Error(), "broken.lua") {
		t.Errorf("err = %v", err)
	}
}

func TestSandbox(t *testing.T) {
	blocked := []string{
		`local f = io.open("/etc/passwd")`,
		`os.execute("ls")`,
		`dofile("evil.lua")`,
		`loadstring("print(1)")()`,
	}
	for _, src := range blocked {
		full := `Game { title = "T", start = "a" }` + "\n" +
			`Room "a" { description = "x" }` + "\n" + src
		if _, err := LoadString("sandbox.lua", full); err == nil {
			t.Errorf("sandbox allowed %q", src)
		}
	}
}

func TestValidate_GuardWithoutExit(t *testing.T) {
	w, err := LoadString("guard.lua", `
Game { title = "T", start = "a" }
Room "a" { description = "x", exits = { north = "b" } }
Room "b" { description = "y" }
`)
	if err != nil {
		t.Fatalf("LoadString failed: %v", err)
	}

	// A hook attaches a guard on a direction the room doesn't have.
	w.Rooms["a"].ExitGuards = map[string]types.ExitGuard{
		"west": {Open: func(*types.GameState) bool { return true }, Hint: "no"},
	}
	err = Validate(w)
	if err == nil || !strings.Contains(err.Error(), `guards direction "west"`) {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_Directory(t *testing.T) {
	if _, err := Load("testdata/missing"); err == nil {
		t.Error("expected error for missing directory")
	}
}
