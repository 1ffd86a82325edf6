package cli

import (
	"fmt"
	"strings"

	"github.com/bastiangx/wordboost/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
)

var (
	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	selectedStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	preeditStyle = lipgloss.NewStyle().Underline(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// show prints the preedit, what was committed and the shown page.
func (h *InputHandler) show() {
	t := h.host
	for _, c := range t.commits {
		h.log.Printf("commit %q", c)
	}
	for _, a := range t.launch {
		h.log.Print("launch", "action", a)
	}
	if t.preedit != "" {
		h.log.Printf("preedit %s", renderPreedit(t.preedit, t.preeditCursor))
	}
	if !t.tableVisible {
		return
	}
	page := t.table.Page()
	if len(page) == 0 {
		h.log.Warnf("No suggestions for '%s'", t.preedit)
		return
	}
	start := 0
	if t.table.PageSize > 0 {
		start = t.table.Cursor / t.table.PageSize * t.table.PageSize
	}
	label := "Found %d suggestions, showing %d-%d:"
	if t.table.Related {
		label = "Found %d related, showing %d-%d:"
	}
	h.log.Printf(label, len(t.table.Candidates), start+1, start+len(page))
	for i, c := range page {
		h.log.Print(renderCandidate(i, c, t.table.CursorVisible && start+i == t.table.Cursor))
	}
}

func renderPreedit(text string, cursor int) string {
	runes := []rune(text)
	cursor = min(max(cursor, 0), len(runes))
	return preeditStyle.Render(string(runes[:cursor])) + "|" + preeditStyle.Render(string(runes[cursor:]))
}

func renderCandidate(i int, c suggest.Candidate, selected bool) string {
	word := wordStyle.Render(c.Text)
	if selected {
		word = selectedStyle.Render(c.Text)
	}
	var notes []string
	if c.Annotation != "" {
		notes = append(notes, c.Annotation)
	}
	if c.UserPhrase {
		notes = append(notes, "freq: "+formatWithCommas(c.Freq))
	}
	if c.SpellcheckOnly {
		notes = append(notes, "spelling")
	}
	line := fmt.Sprintf("%2d. %s", i+1, word)
	if len(notes) > 0 {
		line += " " + dimStyle.Render("("+strings.Join(notes, ", ")+")")
	}
	return line
}

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int) string {
	if n < 0 {
		return "-" + formatWithCommas(-n)
	}
	str := fmt.Sprintf("%d", n)
	if n < 1000 {
		return str
	}
	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}
