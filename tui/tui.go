package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/mishap/engine"
	"github.com/nathoo/mishap/types"
)

// rawLine stores an unstyled output line with its classification, so
// the log can be re-wrapped and re-styled when the terminal resizes.
type rawLine struct {
	text     string
	kind     types.LineKind
	isInput  bool // echoed player input
	isSystem bool // meta-command response
}

// Model is the Bubble Tea model for the Mishap TUI.
type Model struct {
	engine *engine.Engine

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries one turn's output into the Update loop.
type gameOutputMsg struct {
	input    string // echoed player input (empty for the intro)
	lines    []types.Line
	isSystem bool
}

// respawnMsg fires after the death pause; Gen guards against a newer
// command having arrived in the meantime.
type respawnMsg struct {
	gen uint64
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine) error {
	p := tea.NewProgram(New(eng), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init produces the banner, intro, and starting room.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg {
		result := m.engine.Start()
		return gameOutputMsg{lines: result.Lines}
	})
}

// Update handles key presses, window resizes, game output, and
// respawn ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)

	case respawnMsg:
		// Stale generations come back empty and are dropped.
		if result := m.engine.Respawn(msg.gen); len(result.Lines) > 0 {
			m = m.appendOutput(gameOutputMsg{lines: result.Lines})
		}
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// "again" / "g" repeats the last game command.
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: textLines("Nothing to repeat."), isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: textLines(output...), isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Game command.
	result := m.engine.Step(context.Background(), input)
	m = m.appendOutput(gameOutputMsg{input: input, lines: result.Lines})

	if result.Died && result.Respawn != nil {
		gen := result.Respawn.Gen
		delay := time.Duration(result.Respawn.Delay) * time.Millisecond
		return m, tea.Tick(delay, func(time.Time) tea.Msg {
			return respawnMsg{gen: gen}
		})
	}
	return m, nil
}

func textLines(texts ...string) []types.Line {
	lines := make([]types.Line, len(texts))
	for i, t := range texts {
		lines[i] = types.Line{Text: t}
	}
	return lines
}

// appendOutput adds a turn's lines to the log and refreshes the
// viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.lines {
		m.rawLines = append(m.rawLines, rawLine{
			text:     line.Text,
			kind:     line.Kind,
			isSystem: msg.isSystem,
		})
	}
	// Blank separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles the whole log at the current
// width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordwrap.String(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLine(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// View renders the full layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and a
// quit flag. SAVE, LOAD, and RESTART are game verbs, not metas.
func (m *Model) handleMeta(input string) ([]string, bool) {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return []string{
			"Meta: /quit to exit, /state to dump session state.",
			"Everything else is a game command — type HELP in-game.",
			"Navigation: PgUp/PgDn to scroll, Up/Down for command history.",
		}, false

	case "/state":
		return m.cmdState(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", input)}, false
	}
}

func (m *Model) cmdState() []string {
	g := m.engine.Ctx
	output := []string{
		fmt.Sprintf("Location: %s", g.CurrentRoom()),
		fmt.Sprintf("Score: %d/%d", g.Score(), g.MaxScore()),
		fmt.Sprintf("Inventory: %v", g.Inventory()),
	}
	var flags []string
	for name, set := range g.State.Flags {
		if set {
			flags = append(flags, name)
		}
	}
	if len(flags) > 0 {
		sort.Strings(flags)
		output = append(output, fmt.Sprintf("Flags: %s", strings.Join(flags, ", ")))
	}
	if m.engine.Won() {
		output = append(output, "Session: won")
	}
	return output
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (those drive input history instead).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
