package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChord(t *testing.T) {
	tests := []struct {
		in   string
		want Chord
	}{
		{"Escape", Chord{Sym: Escape}},
		{"Control+Down", Chord{Sym: Down, Mods: ControlMask}},
		{"Mod1+KP_Up", Chord{Sym: KPUp, Mods: Mod1Mask}},
		{"Mod5+F12", Chord{Sym: F(12), Mods: Mod5Mask}},
		{"Shift+ISO_Left_Tab", Chord{Sym: ISOLeftTab, Mods: ShiftMask}},
		{"1", Chord{Sym: '1'}},
		{"KP_7", Chord{Sym: KP(7)}},
		{"F3", Chord{Sym: F(3)}},
		{"Control++", Chord{Sym: '+', Mods: ControlMask}},
		{"+", Chord{Sym: '+'}},
		{"ctrl+alt+Right", Chord{Sym: Right, Mods: ControlMask | Mod1Mask}},
		{"KP_Next", Chord{Sym: KPPageDown}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChord(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChordErrors(t *testing.T) {
	for _, in := range []string{"", "Hyperdrive+a", "NoSuchKey", "Control+"} {
		_, err := ParseChord(in)
		assert.Error(t, err, in)
	}
}

func TestChordStringRoundTrip(t *testing.T) {
	for _, in := range []string{"Control+Down", "Mod5+F10", "KP_Page_Down", "Shift+Tab", "a", "Mod1+KP_Down"} {
		c, err := ParseChord(in)
		require.NoError(t, err)
		assert.Equal(t, in, c.String())
	}
}

func TestKeysymRune(t *testing.T) {
	assert.Equal(t, 'a', Keysym('a').Rune())
	assert.Equal(t, 'ü', FromRune('ü').Rune())
	assert.Equal(t, '🐫', FromRune('🐫').Rune())
	assert.Equal(t, '4', KP(4).Rune())
	assert.Equal(t, rune(0), Left.Rune())
	assert.Equal(t, rune(0), F(1).Rune())
}

func TestEventChordIgnoresLockAndRelease(t *testing.T) {
	ev := Release(Tab, ShiftMask|LockMask|Mod2Mask)
	assert.True(t, ev.IsRelease())
	assert.Equal(t, Chord{Sym: Tab, Mods: ShiftMask}, ev.Chord())
	assert.Equal(t, rune(0), Press('a', ControlMask).Rune())
	assert.Equal(t, 'A', Press('A', ShiftMask).Rune())
}
