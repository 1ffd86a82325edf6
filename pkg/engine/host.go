package engine

import (
	"github.com/bastiangx/wordboost/pkg/keybind"
	"github.com/bastiangx/wordboost/pkg/keys"
)

// Host receives everything the engine wants shown or typed.
type Host interface {
	// UpdatePreedit shows the text being composed; cursor counts runes.
	UpdatePreedit(text string, cursor int, visible bool)
	// CommitText inserts text at the host caret.
	CommitText(text string)
	UpdateLookupTable(t Table, visible bool)
	// ForwardKey sends a key to the application as if the engine were not
	// there.
	ForwardKey(ev keys.Event)
}

// SurroundingHost is a host that exposes the text around its caret, which
// lets the engine reopen a word that was already committed.
type SurroundingHost interface {
	Host
	// SurroundingText returns the text of the current line and the caret
	// position in runes.
	SurroundingText() (text string, caret int)
	// DeleteSurroundingText removes n runes starting offset runes from the
	// caret.
	DeleteSurroundingText(offset, n int)
}

// Launcher is a host that can start the setup tool and speech input.
type Launcher interface {
	Launch(a keybind.Action) error
}
