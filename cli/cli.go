// Package cli provides plain terminal I/O for the Mishap engine:
// prompt, input loop, meta-command dispatch, and the death/respawn
// pause.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/nathoo/mishap/engine"
	"github.com/nathoo/mishap/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)

	// Sleep is the respawn pause. Tests replace it to avoid waiting.
	Sleep func(d time.Duration)

	lastCmd string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
		Sleep:  time.Sleep,
	}
}

// Run starts the game loop: banner and intro, then prompt → input →
// step → output until EOF or /quit.
func (c *CLI) Run() {
	ctx := context.Background()

	c.printResult(c.Engine.Start())

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.printResult(c.Engine.Step(ctx, input))
	}
}

// handleMeta dispatches meta-commands. Returns true if the game
// should exit. SAVE, LOAD, and RESTART are game verbs, not metas.
func (c *CLI) handleMeta(input string) bool {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.printSystem("Meta: /quit to exit, /state to dump session state.")
		c.printSystem("Everything else is a game command — type HELP in-game.")

	case "/state":
		c.cmdState()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", input))
	}
	return false
}

func (c *CLI) cmdState() {
	g := c.Engine.Ctx
	c.printSystem(fmt.Sprintf("Location: %s", g.CurrentRoom()))
	c.printSystem(fmt.Sprintf("Score: %d/%d", g.Score(), g.MaxScore()))
	c.printSystem(fmt.Sprintf("Inventory: %v", g.Inventory()))
	if flags := setFlags(g.State.Flags); len(flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %s", strings.Join(flags, ", ")))
	}
	if c.Engine.Won() {
		c.printSystem("Session: won")
	}
}

func setFlags(flags map[string]bool) []string {
	var names []string
	for name, set := range flags {
		if set {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// printResult prints a step's output, then serves any respawn ticket
// after the Sierra pause.
func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Lines {
		c.printLine(line.Text)
	}
	if result.Died && result.Respawn != nil {
		c.Sleep(time.Duration(result.Respawn.Delay) * time.Millisecond)
		c.printLine("")
		c.printResult(c.Engine.Respawn(result.Respawn.Gen))
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
