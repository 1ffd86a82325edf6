package server

import (
	"strings"
	"time"

	"github.com/bastiangx/wordboost/pkg/engine"
	"github.com/bastiangx/wordboost/pkg/keybind"
	"github.com/bastiangx/wordboost/pkg/keys"
)

// host collects what the engine asks for while one request runs. It also
// mirrors the client's current line so a committed word can be reopened.
type host struct {
	line  []rune
	caret int

	preedit        string
	preeditCursor  int
	preeditVisible bool
	table          engine.Table
	tableVisible   bool

	commit  strings.Builder
	forward []keys.Event
	del     *Deletion
	launch  []keybind.Action
}

func (h *host) UpdatePreedit(text string, cursor int, visible bool) {
	h.preedit, h.preeditCursor, h.preeditVisible = text, cursor, visible
}

func (h *host) CommitText(text string) {
	h.commit.WriteString(text)
	h.insert(text)
}

func (h *host) UpdateLookupTable(t engine.Table, visible bool) {
	h.table, h.tableVisible = t, visible
}

func (h *host) ForwardKey(ev keys.Event) {
	h.forward = append(h.forward, ev)
	h.apply(ev)
}

func (h *host) SurroundingText() (string, int) { return string(h.line), h.caret }

func (h *host) DeleteSurroundingText(offset, n int) {
	start := h.caret + offset
	if start < 0 || n < 0 || start+n > len(h.line) {
		return
	}
	h.line = append(h.line[:start], h.line[start+n:]...)
	if h.caret > start {
		h.caret = max(start, h.caret-n)
	}
	h.del = &Deletion{Offset: offset, Count: n}
}

func (h *host) Launch(a keybind.Action) error {
	h.launch = append(h.launch, a)
	return nil
}

// begin clears what the previous request collected.
func (h *host) begin() {
	h.commit.Reset()
	h.forward = h.forward[:0]
	h.del = nil
	h.launch = h.launch[:0]
}

// clearLine forgets the mirrored line, as after focus moves.
func (h *host) clearLine() {
	h.line = h.line[:0]
	h.caret = 0
}

func (h *host) insert(s string) {
	for _, r := range s {
		if r == '\n' {
			h.clearLine()
			continue
		}
		h.line = append(h.line[:h.caret], append([]rune{r}, h.line[h.caret:]...)...)
		h.caret++
	}
}

// apply mirrors what the client does with a key the engine passed on.
func (h *host) apply(ev keys.Event) {
	if ev.IsRelease() || ev.Sym.IsModifier() {
		return
	}
	if ev.Mods&(keys.ControlMask|keys.Mod1Mask|keys.Mod4Mask) != 0 {
		// The effect of a shortcut on the line is unknown.
		h.clearLine()
		return
	}
	switch ev.Sym {
	case keys.Left, keys.KPLeft:
		h.caret = max(h.caret-1, 0)
	case keys.Right, keys.KPRight:
		h.caret = min(h.caret+1, len(h.line))
	case keys.Home, keys.KPHome:
		h.caret = 0
	case keys.End, keys.KPEnd:
		h.caret = len(h.line)
	case keys.Return, keys.KPEnter, keys.Up, keys.Down, keys.PageUp, keys.PageDown:
		h.clearLine()
	case keys.BackSpace:
		if h.caret > 0 {
			h.line = append(h.line[:h.caret-1], h.line[h.caret:]...)
			h.caret--
		}
	case keys.Delete:
		if h.caret < len(h.line) {
			h.line = append(h.line[:h.caret], h.line[h.caret+1:]...)
		}
	default:
		if r := ev.Rune(); r != 0 {
			h.insert(string(r))
		}
	}
}

func (h *host) response(id string, handled bool, took time.Duration) KeyResponse {
	resp := KeyResponse{
		ID:             id,
		Handled:        handled,
		Preedit:        h.preedit,
		PreeditCursor:  h.preeditCursor,
		PreeditVisible: h.preeditVisible,
		Delete:         h.del,
		Commit:         h.commit.String(),
		LookupVisible:  h.tableVisible,
		Related:        h.table.Related,
		TimeTaken:      took.Microseconds(),
	}
	resp.Suggestions, resp.LookupCursor = suggestions(h.table)
	for _, ev := range h.forward {
		resp.Forward = append(resp.Forward, ForwardedKey{Sym: uint32(ev.Sym), Mods: uint32(ev.Mods)})
	}
	for _, a := range h.launch {
		resp.Launch = append(resp.Launch, a.String())
	}
	return resp
}
