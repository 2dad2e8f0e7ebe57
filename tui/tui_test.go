package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nathoo/mishap/engine"
	"github.com/nathoo/mishap/engine/world"
	"github.com/nathoo/mishap/store"
	"github.com/nathoo/mishap/types"
)

func TestRoomDisplayName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"courtyard", "Courtyard"},
		{"castle_gate", "Castle Gate"},
		{"dragon_lair", "Dragon Lair"},
		{"cloud_realm", "Cloud Realm"},
	}
	for _, tt := range tests {
		if got := roomDisplayName(tt.id); got != tt.want {
			t.Errorf("roomDisplayName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")
	h.Push("take key")

	prev, ok := h.Prev()
	if !ok || prev != "take key" {
		t.Errorf("expected 'take key', got %q (ok=%v)", prev, ok)
	}
	prev, _ = h.Prev()
	if prev != "go north" {
		t.Errorf("expected 'go north', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "look" {
		t.Errorf("expected 'look', got %q", prev)
	}
	// At the oldest entry, Prev stays put.
	prev, _ = h.Prev()
	if prev != "look" {
		t.Errorf("expected 'look' at boundary, got %q", prev)
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("go north")

	h.Prev() // "go north"
	h.Prev() // "look"

	next, ok := h.Next()
	if !ok || next != "go north" {
		t.Errorf("expected 'go north', got %q (ok=%v)", next, ok)
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	prev, _ := h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b' at boundary, got %q", prev)
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("look")
	h.Push("look")

	if len(h.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.entries))
	}
}

// buildTestWorld is a one-room fixture for meta-command tests.
func buildTestWorld() *world.World {
	return &world.World{
		Meta: types.Meta{Title: "Test Game", Start: "hall", MaxScore: 10},
		Rooms: map[string]*types.Room{
			"hall": {ID: "hall", Description: "A grand hall."},
		},
		Objects: map[string]*types.Object{},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(buildTestWorld, store.NewMemoryStore(), "tui_test", logger)
	eng.Start()
	return New(eng)
}

func TestHandleMeta_Quit(t *testing.T) {
	m := newTestModel(t)

	if _, quit := m.handleMeta("/quit"); !quit {
		t.Error("expected quit=true for /quit")
	}
	if _, quit := m.handleMeta("/exit"); !quit {
		t.Error("expected quit=true for /exit")
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/help")
	if quit {
		t.Error("help should not quit")
	}
	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/quit", "/state", "PgUp"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_State(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/state")
	if quit {
		t.Error("state should not quit")
	}
	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "Location: hall") {
		t.Error("expected location in state output")
	}
	if !strings.Contains(joined, "Score: 0/10") {
		t.Error("expected score in state output")
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestAppendOutputEchoesInput(t *testing.T) {
	m := newTestModel(t)

	m = m.appendOutput(gameOutputMsg{
		input: "look",
		lines: []types.Line{{Text: "A grand hall."}},
	})

	if len(m.rawLines) != 3 { // echo + line + separator
		t.Fatalf("rawLines = %d, want 3", len(m.rawLines))
	}
	if !m.rawLines[0].isInput || m.rawLines[0].text != "> look" {
		t.Errorf("echo line = %+v", m.rawLines[0])
	}
	if m.rawLines[1].text != "A grand hall." {
		t.Errorf("output line = %+v", m.rawLines[1])
	}
	if m.rawLines[2].text != "" {
		t.Errorf("separator = %+v", m.rawLines[2])
	}
}
