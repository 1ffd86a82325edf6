/*
Package server drives one wordboost engine over msgpack IPC.

The server reads a stream of msgpack maps from stdin and writes one msgpack
map per request to stdout. It is meant for debugging and for hosts that
prefer a separate process to linking the engine.

# IPC

Every request carries an "id" that is echoed in its response. Which
operation runs is decided by the fields present: an "action" makes it a
config request, a "ci" makes it a candidate click, anything else is a key.

Key requests send an X11 keysym and modifier mask:

	{"id": "k1", "k": 99, "m": 0}

The response holds everything the host has to show or type after the key:

	{"id": "k1", "ok": true, "p": "c", "pc": 1, "pv": true, "c": "",
	 "s": [{"w": "camel", "f": 0}, {"w": "camellia", "f": 0}], "lc": -1, "lv": true, "t": 85}

"ok" false means the host must handle the key itself. A "d" asks the host
to delete text around its caret first. Text in "c" is committed next, then
the keys listed in "fw" are sent to the application in order, and only then
is an unhandled key applied.

Clicks on the candidate list use the index on the shown page and the
mouse button:

	{"id": "c1", "ci": 0, "b": 1}

Config requests adjust the session without a restart:

	{"id": "cfg1", "action": "set_page_size", "page_size": 4}
	{"id": "cfg2", "action": "set_imes", "names": ["hi-itrans", "NoIME"]}
	{"id": "cfg3", "action": "set_dictionaries", "names": ["en_US"]}
	{"id": "cfg4", "action": "reload"}
	{"id": "cfg5", "action": "get_config"}
	{"id": "cfg6", "action": "reset"}

Failures are reported as

	{"id": "cfg1", "e": "page size must be between 1 and 9, got 12", "c": 400}

Edits to the config file on disk are picked up by a watcher and applied
between requests.
*/
package server

import (
	"github.com/bastiangx/wordboost/pkg/engine"
	"github.com/bastiangx/wordboost/pkg/keys"
	"github.com/bastiangx/wordboost/pkg/suggest"
)

// Config actions.
const (
	ActionSetPageSize     = "set_page_size"
	ActionSetIMEs         = "set_imes"
	ActionSetDictionaries = "set_dictionaries"
	ActionReload          = "reload"
	ActionGetConfig       = "get_config"
	ActionReset           = "reset"
)

// KeyRequest - one key event from the host
type KeyRequest struct {
	ID   string `msgpack:"id"`
	Sym  uint32 `msgpack:"k"`
	Mods uint32 `msgpack:"m,omitempty"`
}

// Event returns the key event the request carries.
func (r KeyRequest) Event() keys.Event {
	return keys.Event{Sym: keys.Keysym(r.Sym), Mods: keys.Modifier(r.Mods)}
}

// ClickRequest - mouse click on a shown candidate
type ClickRequest struct {
	ID     string `msgpack:"id"`
	Index  int    `msgpack:"ci"`
	Button int    `msgpack:"b,omitempty"`
}

// ConfigRequest - session settings update
type ConfigRequest struct {
	ID       string   `msgpack:"id"`
	Action   string   `msgpack:"action"`
	PageSize *int     `msgpack:"page_size,omitempty"` // for "set_page_size"
	Names    []string `msgpack:"names,omitempty"`     // for "set_imes" and "set_dictionaries"
}

// request is the union of every request shape, decoded first to dispatch.
type request struct {
	ID       string   `msgpack:"id"`
	Sym      uint32   `msgpack:"k"`
	Mods     uint32   `msgpack:"m"`
	Index    *int     `msgpack:"ci"`
	Button   int      `msgpack:"b"`
	Action   string   `msgpack:"action"`
	PageSize *int     `msgpack:"page_size"`
	Names    []string `msgpack:"names"`
}

// Suggestion - one shown candidate
type Suggestion struct {
	Word       string `msgpack:"w"`
	Freq       int    `msgpack:"f"`
	Annotation string `msgpack:"a,omitempty"`
	UserPhrase bool   `msgpack:"u,omitempty"`
}

// ForwardedKey - key the host must send on to the application
type ForwardedKey struct {
	Sym  uint32 `msgpack:"k"`
	Mods uint32 `msgpack:"m,omitempty"`
}

// Deletion - text the host must remove around its caret, in runes
type Deletion struct {
	Offset int `msgpack:"o"`
	Count  int `msgpack:"n"`
}

// KeyResponse - host state after a key or click
type KeyResponse struct {
	ID             string         `msgpack:"id"`
	Handled        bool           `msgpack:"ok"`
	Preedit        string         `msgpack:"p"`
	PreeditCursor  int            `msgpack:"pc"`
	PreeditVisible bool           `msgpack:"pv"`
	Delete         *Deletion      `msgpack:"d,omitempty"`
	Commit         string         `msgpack:"c"`
	Forward        []ForwardedKey `msgpack:"fw,omitempty"`
	Suggestions    []Suggestion   `msgpack:"s"`
	LookupCursor   int            `msgpack:"lc"`
	LookupVisible  bool           `msgpack:"lv"`
	Related        bool           `msgpack:"r,omitempty"`
	Launch         []string       `msgpack:"x,omitempty"`
	TimeTaken      int64          `msgpack:"t"`
}

// ConfigResponse - config operation response
type ConfigResponse struct {
	ID           string   `msgpack:"id"`
	Status       string   `msgpack:"status"`
	Error        string   `msgpack:"error,omitempty"`
	PageSize     int      `msgpack:"page_size,omitempty"`
	IMEs         []string `msgpack:"imes,omitempty"`
	Dictionaries []string `msgpack:"dictionaries,omitempty"`
}

// StatusResponse is sent once when the server is ready.
type StatusResponse struct {
	Status  string `msgpack:"status"`
	Version string `msgpack:"version,omitempty"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// suggestions converts the shown page. The cursor is returned as an index
// into the page, or -1 while hidden.
func suggestions(t engine.Table) ([]Suggestion, int) {
	page := t.Page()
	out := make([]Suggestion, len(page))
	for i, c := range page {
		out[i] = toSuggestion(c)
	}
	cursor := -1
	if t.CursorVisible && t.PageSize > 0 {
		cursor = t.Cursor % t.PageSize
	}
	return out, cursor
}

func toSuggestion(c suggest.Candidate) Suggestion {
	return Suggestion{
		Word:       c.Text,
		Freq:       c.Freq,
		Annotation: c.Annotation,
		UserPhrase: c.UserPhrase,
	}
}
