// Package types defines the shared data structures for the Mishap engine.
// This package contains only type definitions — no logic, no methods.
package types

// Command is the parsed representation of a player input line.
type Command struct {
	Verb      string
	Noun      string
	Secondary string // "use X on Y" → Y, "open X with Y" → Y
}

// LineKind classifies an output line so front ends can style it.
type LineKind int

const (
	LineNarrative LineKind = iota
	LineYouSee
	LineExits
	LineDialogue
	LineSystem
	LineScore
	LineError
	LineDeath
	LineTitle
)

// Line is one display-text event emitted toward the renderer/log collaborator.
type Line struct {
	Text string
	Kind LineKind
}

// Respawn is a deferred re-entry ticket handed out when the player dies.
// Front ends wait Delay milliseconds, then call Engine.Respawn with Gen;
// a command submitted in the meantime invalidates the generation and the
// stale respawn is dropped.
type Respawn struct {
	Gen   uint64
	Delay int
}

// Result is the outcome of one submitted command.
type Result struct {
	Lines   []Line
	Redraw  bool // the depicted room scene changed
	Died    bool
	Won     bool
	Respawn *Respawn // set when Died
}

// Game is the capability surface hooks act through. It is implemented by
// world.Context; defining it here keeps Room/Object hook signatures free
// of an import cycle.
type Game interface {
	Say(text string)
	Sayf(format string, args ...any)
	SayKind(text string, kind LineKind)

	Flag(name string) bool
	SetFlag(name string)
	AwardOnce(milestone string, points int)
	Score() int
	MaxScore() int

	CurrentRoom() string
	Carrying(objectID string) bool
	MoveObject(objectID, location string)
	OpenExit(roomID, direction, target string)
	EnterRoom(roomID string)

	// Die triggers the fatal-in-fiction path. Never terminates the session.
	Die(message string)
}

// ExitGuard gates one direction of a room. Open is evaluated against the
// puzzle flags; when it returns false the move is blocked and Hint is shown.
type ExitGuard struct {
	Open func(gs *GameState) bool
	Hint string
}

// ExamineTarget is a passive inspection target: scenery that can be
// examined but is not an Object. Exactly one of Text or Run is set.
type ExamineTarget struct {
	Keywords []string
	Text     string
	Run      func(g Game)
}

// Room is a node in the navigable world graph.
type Room struct {
	ID          string
	Description string
	Exits       map[string]string // direction → room ID, mutable at runtime
	ExitGuards  map[string]ExitGuard
	Examine     []ExamineTarget

	OnTalk  func(g Game, noun string)
	OnGive  func(g Game, noun string)
	OnClimb func(g Game, noun string)

	// OnAction intercepts otherwise-ungeneralized verbs
	// (take/examine/use/open/knock/listen). Returns true if handled.
	OnAction func(g Game, verb, noun, secondary string) bool

	// OnRawInput sees the whole line before parsing (riddle answers).
	// Returns true if the line was consumed.
	OnRawInput func(g Game, raw string) bool
}

// LocInventory is the Location sentinel for carried objects.
const LocInventory = "inventory"

// Object is an item with a location, optionally carryable, with hooks.
// An empty Location means not yet placed in the world.
type Object struct {
	ID       string
	Name     string
	Aliases  []string
	Location string
	Takeable bool

	Description string // generic examine text, shown before OnExamine

	OnTake    func(g Game)
	OnUse     func(g Game, secondary string)
	OnExamine func(g Game)
}

// GameState is the flat record of puzzle flags and score. Awards tracks
// one-time score milestones so re-triggering never re-awards.
type GameState struct {
	Flags    map[string]bool `json:"flags"`
	Score    int             `json:"score"`
	MaxScore int             `json:"max_score"`
	Awards   map[string]bool `json:"awards"`
}

// Meta holds game metadata from the content pack.
type Meta struct {
	Title    string
	Author   string
	Version  string
	Start    string // starting room ID
	Intro    []string
	MaxScore int
}
