// Package parser converts raw input lines into Command structs.
// Intentionally dumb: no NLP, just synonym tables and pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/mishap/types"
)

var directionExpansions = map[string]string{
	"n":    "north",
	"s":    "south",
	"e":    "east",
	"w":    "west",
	"u":    "up",
	"d":    "down",
	"up":   "up",
	"down": "down",
}

// Full direction names that are standalone shortcuts for "go <dir>".
var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"up": true, "down": true,
}

var verbAliases = map[string]string{
	// Look / Examine
	"l":        "look",
	"x":        "examine",
	"inspect":  "examine",
	"check":    "examine",
	"read":     "examine",
	"peruse":   "examine",
	"study":    "examine",
	"decipher": "examine",

	// Movement
	"walk": "go",
	"head": "go",

	// Take / Get
	"get":  "take",
	"pick": "take",
	"grab": "take",

	// Drop
	"leave": "drop",
	"put":   "drop",

	// Use
	"apply":    "use",
	"activate": "use",

	// Open
	"unlock": "open",

	// Talk
	"speak": "talk",
	"ask":   "talk",
	"tell":  "talk",
	"chat":  "talk",

	// Eat
	"drink": "eat",
	"taste": "eat",
	"lick":  "eat",

	// Climb
	"scale":  "climb",
	"ascend": "climb",

	// Smell
	"sniff": "smell",

	// Knock
	"tap":  "knock",
	"bang": "knock",

	// Push / Pull
	"press": "push",
	"shove": "push",
	"yank":  "pull",
	"drag":  "pull",

	// Listen
	"hear": "listen",
	"hark": "listen",

	// Throw
	"toss": "throw",
	"hurl": "throw",

	// Wait
	"z":     "wait",
	"rest":  "wait",
	"pause": "wait",

	// Sit
	"nap":   "sit",
	"sleep": "sit",
	"lie":   "sit",

	// Wave
	"greet": "wave",
	"bow":   "wave",

	// Inventory
	"i":     "inventory",
	"inv":   "inventory",
	"bag":   "inventory",
	"items": "inventory",

	// Help
	"?":        "help",
	"commands": "help",

	// Save / Load / Restart
	"savegame": "save",
	"loadgame": "load",
	"restore":  "load",
	"reset":    "restart",
	"newgame":  "restart",
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// verbPrepositions lists the infix words that split a noun phrase into
// noun and secondary, per verb: "use key on box", "open box with key".
var verbPrepositions = map[string][]string{
	"use":  {"on", "with"},
	"open": {"with", "using"},
	"give": {"to"},
}

// Parse converts a raw input line into a Command. Verbs are lowered and
// canonicalized through the synonym table; unknown verbs pass through
// unchanged so the resolver can report them.
func Parse(input string) types.Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Command{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Direction shortcut: bare "n", "south", etc. → go <direction>
	if len(words) == 1 {
		if dir, ok := directionExpansions[words[0]]; ok {
			return types.Command{Verb: "go", Noun: dir}
		}
		if directionNames[words[0]] {
			return types.Command{Verb: "go", Noun: words[0]}
		}
	}

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])

	// "go north" → direction noun normalized too.
	if verb == "go" && len(rest) == 1 {
		if dir, ok := directionExpansions[rest[0]]; ok {
			return types.Command{Verb: "go", Noun: dir}
		}
	}

	noun, secondary := splitOnPreposition(verb, rest)

	return types.Command{
		Verb:      verb,
		Noun:      noun,
		Secondary: secondary,
	}
}

// expandMultiWordVerbs handles "look at", "pick up", "talk to" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "look":
		if words[1] == "at" || words[1] == "in" || words[1] == "under" {
			return append([]string{"examine"}, words[2:]...)
		}
	case "pick":
		if words[1] == "up" {
			return append([]string{"take"}, words[2:]...)
		}
	case "put":
		if words[1] == "down" {
			return append([]string{"drop"}, words[2:]...)
		}
	case "talk", "speak", "chat":
		if words[1] == "to" || words[1] == "with" {
			return append([]string{"talk"}, words[2:]...)
		}
	case "knock":
		if words[1] == "on" {
			return append([]string{"knock"}, words[2:]...)
		}
	case "climb":
		if words[1] == "up" || words[1] == "down" {
			// "climb up" / "climb down" with no further noun is movement.
			if len(words) == 2 {
				return []string{"go", words[1]}
			}
			return append([]string{"climb"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits the noun phrase on the verb's infix words.
// "use key on box" → ("key", "box"). Verbs without registered infixes
// keep the whole phrase as the noun.
func splitOnPreposition(verb string, words []string) (noun, secondary string) {
	preps := verbPrepositions[verb]
	for i, w := range words {
		for _, p := range preps {
			// An infix needs a noun on both sides.
			if w == p && i > 0 && i < len(words)-1 {
				return strings.Join(words[:i], " "), strings.Join(words[i+1:], " ")
			}
		}
	}
	return strings.Join(words, " "), ""
}
