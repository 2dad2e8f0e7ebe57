package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// roomDisplayName derives a human-readable name from a room ID.
// "castle_gate" -> "Castle Gate".
func roomDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// renderStatusBar produces a full-width inverted status line showing
// current room, exits, score, and inventory.
func (m Model) renderStatusBar() string {
	g := m.engine.Ctx

	roomName := roomDisplayName(g.CurrentRoom())
	if m.engine.Won() {
		roomName += " ★"
	}
	exitStr := strings.Join(g.ExitDirections(g.CurrentRoom()), ",")

	left := fmt.Sprintf(" %s | Exits: %s", roomName, exitStr)
	right := fmt.Sprintf("Score: %d/%d ", g.Score(), g.MaxScore())

	// Show carried item names if they fit, otherwise just the count.
	if inv := g.Inventory(); len(inv) > 0 {
		var names []string
		for _, id := range inv {
			if obj := g.World.Objects[id]; obj != nil {
				names = append(names, obj.Name)
			}
		}
		candidate := fmt.Sprintf("Inv: %s | %s", strings.Join(names, ", "), right)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | %s", len(inv), right)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
