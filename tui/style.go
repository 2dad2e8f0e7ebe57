package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/mishap/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleYouSee = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleScore = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleDeath = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// renderLine applies the style for an engine output line kind.
func renderLine(text string, kind types.LineKind) string {
	switch kind {
	case types.LineYouSee:
		return styledYouSee(text)
	case types.LineExits:
		return styleExits.Render(text)
	case types.LineDialogue:
		return styleDialogue.Render(text)
	case types.LineSystem:
		return styleSystem.Render(text)
	case types.LineScore:
		return styleScore.Render(text)
	case types.LineError:
		return styleError.Render(text)
	case types.LineDeath:
		return styleDeath.Render(text)
	case types.LineTitle:
		return styleTitle.Render(text)
	default:
		return styleNarrative.Render(text)
	}
}

// styledYouSee renders "You can see: item1, item2" with the item
// names bold.
func styledYouSee(line string) string {
	const prefix = "You can see: "
	if !strings.HasPrefix(line, prefix) {
		return styleNarrative.Render(line)
	}
	return styleNarrative.Render(prefix) + styleYouSee.Render(line[len(prefix):])
}

// styledSystemMsg renders a meta-command response in gray with
// brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
