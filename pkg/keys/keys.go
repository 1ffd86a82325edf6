// Package keys models host key events: X11-style keysyms, modifier masks
// and the chord notation used by keybinding configuration.
package keys

import (
	"fmt"
	"strings"
	"unicode"
)

// Keysym identifies a key the way IBus and X11 do.
type Keysym uint32

// Modifier is a bit mask of held modifiers plus the release flag.
type Modifier uint32

const (
	ShiftMask   Modifier = 1 << 0
	LockMask    Modifier = 1 << 1
	ControlMask Modifier = 1 << 2
	Mod1Mask    Modifier = 1 << 3
	Mod2Mask    Modifier = 1 << 4
	Mod3Mask    Modifier = 1 << 5
	Mod4Mask    Modifier = 1 << 6
	Mod5Mask    Modifier = 1 << 7
	SuperMask   Modifier = 1 << 26
	HyperMask   Modifier = 1 << 27
	MetaMask    Modifier = 1 << 28
	ReleaseMask Modifier = 1 << 30

	// ChordMask holds the modifiers that take part in matching a chord.
	// Lock and NumLock (Mod2) never do.
	ChordMask = ShiftMask | ControlMask | Mod1Mask | Mod3Mask | Mod4Mask |
		Mod5Mask | SuperMask | HyperMask | MetaMask
)

const (
	VoidSymbol Keysym = 0xffffff

	BackSpace   Keysym = 0xff08
	Tab         Keysym = 0xff09
	Return      Keysym = 0xff0d
	Escape      Keysym = 0xff1b
	Delete      Keysym = 0xffff
	Home        Keysym = 0xff50
	Left        Keysym = 0xff51
	Up          Keysym = 0xff52
	Right       Keysym = 0xff53
	Down        Keysym = 0xff54
	PageUp      Keysym = 0xff55
	PageDown    Keysym = 0xff56
	End         Keysym = 0xff57
	Insert      Keysym = 0xff63
	ISOLeftTab  Keysym = 0xfe20
	Space       Keysym = 0x0020
	KPSpace     Keysym = 0xff80
	KPTab       Keysym = 0xff89
	KPEnter     Keysym = 0xff8d
	KPHome      Keysym = 0xff95
	KPLeft      Keysym = 0xff96
	KPUp        Keysym = 0xff97
	KPRight     Keysym = 0xff98
	KPDown      Keysym = 0xff99
	KPPageUp    Keysym = 0xff9a
	KPPageDown  Keysym = 0xff9b
	KPEnd       Keysym = 0xff9c
	KPDelete    Keysym = 0xff9f
	KPMultiply  Keysym = 0xffaa
	KPAdd       Keysym = 0xffab
	KPSeparator Keysym = 0xffac
	KPSubtract  Keysym = 0xffad
	KPDecimal   Keysym = 0xffae
	KPDivide    Keysym = 0xffaf
	KP0         Keysym = 0xffb0
	F1          Keysym = 0xffbe
	ShiftL      Keysym = 0xffe1
	ShiftR      Keysym = 0xffe2
	ControlL    Keysym = 0xffe3
	ControlR    Keysym = 0xffe4
	CapsLock    Keysym = 0xffe5
	AltL        Keysym = 0xffe9
	AltR        Keysym = 0xffea
	SuperL      Keysym = 0xffeb
	SuperR      Keysym = 0xffec
	ISOLevel3   Keysym = 0xfe03

	unicodeOffset Keysym = 0x01000000
)

// KP returns the keypad digit keysym for 0..9.
func KP(n int) Keysym { return KP0 + Keysym(n) }

// F returns the function key keysym for F1..F35.
func F(n int) Keysym { return F1 + Keysym(n-1) }

// FromRune returns the keysym a printable character produces.
func FromRune(r rune) Keysym {
	if (r >= 0x20 && r <= 0x7e) || (r >= 0xa0 && r <= 0xff) {
		return Keysym(r)
	}
	return unicodeOffset + Keysym(r)
}

// Rune returns the character a keysym types, or 0 for non-printing keys.
// Keypad digits and operators type their ASCII counterparts.
func (k Keysym) Rune() rune {
	switch {
	case (k >= 0x20 && k <= 0x7e) || (k >= 0xa0 && k <= 0xff):
		return rune(k)
	case k > unicodeOffset && k <= unicodeOffset+unicode.MaxRune:
		return rune(k - unicodeOffset)
	case k >= KP0 && k <= KP0+9:
		return '0' + rune(k-KP0)
	}
	switch k {
	case KPSpace:
		return ' '
	case KPMultiply:
		return '*'
	case KPAdd:
		return '+'
	case KPSeparator:
		return ','
	case KPSubtract:
		return '-'
	case KPDecimal:
		return '.'
	case KPDivide:
		return '/'
	}
	return 0
}

// IsModifier reports whether the keysym is a bare modifier key.
func (k Keysym) IsModifier() bool {
	return (k >= ShiftL && k <= 0xffee) || k == ISOLevel3
}

// String returns the configuration name of the keysym.
func (k Keysym) String() string {
	if name, ok := symToName[k]; ok {
		return name
	}
	if k >= F1 && k < F1+35 {
		return fmt.Sprintf("F%d", k-F1+1)
	}
	if r := k.Rune(); r != 0 {
		return string(r)
	}
	return fmt.Sprintf("0x%x", uint32(k))
}

// Event is one key press or release delivered by the host.
type Event struct {
	Sym  Keysym
	Mods Modifier
}

// Press builds a key press event.
func Press(sym Keysym, mods Modifier) Event {
	return Event{Sym: sym, Mods: mods &^ ReleaseMask}
}

// Release builds a key release event.
func Release(sym Keysym, mods Modifier) Event {
	return Event{Sym: sym, Mods: mods | ReleaseMask}
}

// IsRelease reports whether the event is a key release.
func (e Event) IsRelease() bool { return e.Mods&ReleaseMask != 0 }

// Has reports whether every bit of m is held.
func (e Event) Has(m Modifier) bool { return e.Mods&m == m }

// Chord returns the chord this event matches.
func (e Event) Chord() Chord {
	return Chord{Sym: e.Sym, Mods: e.Mods & ChordMask}
}

// Rune returns the character the event types when no command modifier is
// held, or 0.
func (e Event) Rune() rune {
	if e.Mods&(ControlMask|Mod1Mask|SuperMask|Mod4Mask|HyperMask|MetaMask) != 0 {
		return 0
	}
	return e.Sym.Rune()
}

func (e Event) String() string {
	s := e.Chord().String()
	if e.IsRelease() {
		s = "Release+" + s
	}
	return s
}

// Chord is a keysym plus the modifiers that must be held for it.
type Chord struct {
	Sym  Keysym
	Mods Modifier
}

var modNames = []struct {
	name string
	mask Modifier
}{
	{"Shift", ShiftMask},
	{"Control", ControlMask},
	{"Mod1", Mod1Mask},
	{"Mod3", Mod3Mask},
	{"Mod4", Mod4Mask},
	{"Mod5", Mod5Mask},
	{"Super", SuperMask},
	{"Hyper", HyperMask},
	{"Meta", MetaMask},
}

var modAliases = map[string]Modifier{
	"ctrl": ControlMask,
	"alt":  Mod1Mask,
}

func (c Chord) String() string {
	var b strings.Builder
	for _, m := range modNames {
		if c.Mods&m.mask != 0 {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(c.Sym.String())
	return b.String()
}

// ParseChord parses "Control+Down", "Mod5+F12", "KP_1" or a single
// character such as "1".
func ParseChord(s string) (Chord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Chord{}, fmt.Errorf("empty chord")
	}
	var c Chord
	key := s
	// Searching all but the last byte keeps "Control++" meaning the plus key.
	if i := strings.LastIndex(s[:len(s)-1], "+"); i >= 0 {
		key = s[i+1:]
		for _, p := range strings.Split(s[:i], "+") {
			mask, ok := modifierByName(p)
			if !ok {
				return Chord{}, fmt.Errorf("unknown modifier %q in %q", p, s)
			}
			c.Mods |= mask
		}
	}
	sym, ok := LookupName(key)
	if !ok {
		return Chord{}, fmt.Errorf("unknown key %q in %q", key, s)
	}
	c.Sym = sym
	return c, nil
}

func modifierByName(name string) (Modifier, bool) {
	for _, m := range modNames {
		if strings.EqualFold(m.name, name) {
			return m.mask, true
		}
	}
	mask, ok := modAliases[strings.ToLower(name)]
	return mask, ok
}

// LookupName resolves a key name to its keysym.
func LookupName(name string) (Keysym, bool) {
	if sym, ok := nameToSym[name]; ok {
		return sym, true
	}
	if len(name) > 1 && (name[0] == 'F' || name[0] == 'f') {
		var n int
		if _, err := fmt.Sscanf(name[1:], "%d", &n); err == nil && n >= 1 && n <= 35 &&
			fmt.Sprint(n) == name[1:] {
			return F(n), true
		}
	}
	if runes := []rune(name); len(runes) == 1 {
		return FromRune(runes[0]), true
	}
	return 0, false
}
