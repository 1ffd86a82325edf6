// Package keybind maps key chords to the closed set of engine actions.
package keybind

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bastiangx/wordboost/pkg/keys"
)

var (
	ErrUnknownAction = errors.New("unknown keybinding action")
	ErrBadChord      = errors.New("invalid key chord")
)

// Action is a user command the engine can perform.
type Action int

// Actions in resolution order. When one chord is bound to several actions,
// the earliest applicable one wins.
const (
	Cancel Action = iota
	CommitCandidate1
	CommitCandidate2
	CommitCandidate3
	CommitCandidate4
	CommitCandidate5
	CommitCandidate6
	CommitCandidate7
	CommitCandidate8
	CommitCandidate9
	CommitCandidate1PlusSpace
	CommitCandidate2PlusSpace
	CommitCandidate3PlusSpace
	CommitCandidate4PlusSpace
	CommitCandidate5PlusSpace
	CommitCandidate6PlusSpace
	CommitCandidate7PlusSpace
	CommitCandidate8PlusSpace
	CommitCandidate9PlusSpace
	EnableLookup
	LookupTablePageUp
	LookupTablePageDown
	LookupRelated
	NextDictionary
	PreviousDictionary
	NextInputMethod
	PreviousInputMethod
	SelectNextCandidate
	SelectPreviousCandidate
	ToggleEmojiPrediction
	ToggleInputModeOnOff
	ToggleOffTheRecord
	SpeechRecognition
	Setup

	numActions
)

var actionNames = [numActions]string{
	Cancel:                  "cancel",
	EnableLookup:            "enable_lookup",
	LookupTablePageUp:       "lookup_table_page_up",
	LookupTablePageDown:     "lookup_table_page_down",
	LookupRelated:           "lookup_related",
	NextDictionary:          "next_dictionary",
	PreviousDictionary:      "previous_dictionary",
	NextInputMethod:         "next_input_method",
	PreviousInputMethod:     "previous_input_method",
	SelectNextCandidate:     "select_next_candidate",
	SelectPreviousCandidate: "select_previous_candidate",
	ToggleEmojiPrediction:   "toggle_emoji_prediction",
	ToggleInputModeOnOff:    "toggle_input_mode_on_off",
	ToggleOffTheRecord:      "toggle_off_the_record",
	SpeechRecognition:       "speech_recognition",
	Setup:                   "setup",
}

func init() {
	for i := 1; i <= 9; i++ {
		actionNames[CommitCandidate1+Action(i-1)] = fmt.Sprintf("commit_candidate_%d", i)
		actionNames[CommitCandidate1PlusSpace+Action(i-1)] = fmt.Sprintf("commit_candidate_%d_plus_space", i)
	}
}

func (a Action) String() string {
	if a < 0 || a >= numActions {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction resolves a configuration name such as "commit_candidate_3".
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Actions lists every action in resolution order.
func Actions() []Action {
	out := make([]Action, numActions)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

// CommitIndex returns the zero-based candidate a commit action selects and
// whether it appends a space. ok is false for other actions.
func (a Action) CommitIndex() (index int, plusSpace, ok bool) {
	switch {
	case a >= CommitCandidate1 && a <= CommitCandidate9:
		return int(a - CommitCandidate1), false, true
	case a >= CommitCandidate1PlusSpace && a <= CommitCandidate9PlusSpace:
		return int(a - CommitCandidate1PlusSpace), true, true
	}
	return 0, false, false
}

// Map binds each action to a set of chords.
type Map struct {
	bindings [numActions][]keys.Chord
	byChord  map[keys.Chord][]Action
}

// NewMap returns a map with no bindings.
func NewMap() *Map {
	return &Map{byChord: make(map[keys.Chord][]Action)}
}

// Bind replaces the chords of an action. An empty list makes it inert.
func (m *Map) Bind(a Action, chords ...keys.Chord) {
	m.bindings[a] = append([]keys.Chord(nil), chords...)
	m.reindex()
}

// BindNames parses chord names and binds them to the named action.
func (m *Map) BindNames(action string, chords []string) error {
	a, err := ParseAction(action)
	if err != nil {
		return err
	}
	parsed := make([]keys.Chord, 0, len(chords))
	for _, s := range chords {
		c, err := keys.ParseChord(s)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrBadChord, action, err)
		}
		parsed = append(parsed, c)
	}
	m.Bind(a, parsed...)
	return nil
}

// Chords returns the chords bound to an action.
func (m *Map) Chords(a Action) []keys.Chord {
	return m.bindings[a]
}

// Resolve returns every action bound to the chord, in resolution order.
func (m *Map) Resolve(c keys.Chord) []Action {
	return m.byChord[c]
}

// Clone returns an independent copy.
func (m *Map) Clone() *Map {
	out := NewMap()
	for a, chords := range m.bindings {
		out.bindings[a] = append([]keys.Chord(nil), chords...)
	}
	out.reindex()
	return out
}

// Names returns the bindings keyed by action name, as stored in config.
func (m *Map) Names() map[string][]string {
	out := make(map[string][]string, numActions)
	for a, chords := range m.bindings {
		names := make([]string, 0, len(chords))
		for _, c := range chords {
			names = append(names, c.String())
		}
		out[Action(a).String()] = names
	}
	return out
}

func (m *Map) reindex() {
	m.byChord = make(map[keys.Chord][]Action)
	for a, chords := range m.bindings {
		for _, c := range chords {
			if !containsAction(m.byChord[c], Action(a)) {
				m.byChord[c] = append(m.byChord[c], Action(a))
			}
		}
	}
	for _, actions := range m.byChord {
		sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	}
}

func containsAction(list []Action, a Action) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}

// Apply overlays configured bindings on m. Actions missing from cfg keep
// their current chords.
func (m *Map) Apply(cfg map[string][]string) error {
	var errs []error
	for name, chords := range cfg {
		if err := m.BindNames(name, chords); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
