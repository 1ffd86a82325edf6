package engine

import (
	"unicode/utf8"

	"github.com/bastiangx/wordboost/internal/utils"
	"github.com/bastiangx/wordboost/pkg/translit"
)

// Unit is one raw key and the input method that took it.
type Unit struct {
	Key    rune
	Method string
}

// Buffer holds the raw keys of the word being typed and a cursor between
// them. The visible text is always derived from the keys, so removing a
// key undoes exactly what it composed.
type Buffer struct {
	units  []Unit
	cursor int
}

// Len returns the number of units.
func (b *Buffer) Len() int { return len(b.units) }

// Empty reports whether nothing is typed.
func (b *Buffer) Empty() bool { return len(b.units) == 0 }

// Cursor returns the unit index the next key is inserted at.
func (b *Buffer) Cursor() int { return b.cursor }

// Units returns a copy of the units.
func (b *Buffer) Units() []Unit { return append([]Unit(nil), b.units...) }

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.units = b.units[:0]
	b.cursor = 0
}

// Insert adds u at the cursor and moves the cursor past it.
func (b *Buffer) Insert(u Unit) {
	b.units = append(b.units, Unit{})
	copy(b.units[b.cursor+1:], b.units[b.cursor:])
	b.units[b.cursor] = u
	b.cursor++
}

// Backspace removes the unit before the cursor.
func (b *Buffer) Backspace() bool {
	if b.cursor == 0 {
		return false
	}
	b.units = append(b.units[:b.cursor-1], b.units[b.cursor:]...)
	b.cursor--
	return true
}

// Delete removes the unit after the cursor.
func (b *Buffer) Delete() bool {
	if b.cursor >= len(b.units) {
		return false
	}
	b.units = append(b.units[:b.cursor], b.units[b.cursor+1:]...)
	return true
}

// MoveTo places the cursor, clamped to the buffer.
func (b *Buffer) MoveTo(i int) {
	b.cursor = max(0, min(i, len(b.units)))
}

// WordLeft moves the cursor to the start of the word before it.
func (b *Buffer) WordLeft() {
	i := b.cursor
	for i > 0 && !utils.IsWordRune(b.units[i-1].Key) {
		i--
	}
	for i > 0 && utils.IsWordRune(b.units[i-1].Key) {
		i--
	}
	b.cursor = i
}

// WordRight moves the cursor to the end of the word after it.
func (b *Buffer) WordRight() {
	i := b.cursor
	for i < len(b.units) && !utils.IsWordRune(b.units[i].Key) {
		i++
	}
	for i < len(b.units) && utils.IsWordRune(b.units[i].Key) {
		i++
	}
	b.cursor = i
}

// RunBefore returns the keys immediately before the cursor that were taken
// by method, oldest first.
func (b *Buffer) RunBefore(method string) []rune {
	start := b.cursor
	for start > 0 && b.units[start-1].Method == method {
		start--
	}
	keys := make([]rune, 0, b.cursor-start)
	for _, u := range b.units[start:b.cursor] {
		keys = append(keys, u.Key)
	}
	return keys
}

// Reassign hands every unit to the first method of chain that accepts its
// key, so the existing keys are composed again by the new order.
func (b *Buffer) Reassign(chain *translit.Chain) {
	for i, u := range b.units {
		if m := chain.Select(u.Key); m != nil {
			b.units[i].Method = m.Name()
		}
	}
}

// Compose returns the visible text and the cursor position in runes. Runs
// of units with the same method are composed together; a cursor that
// falls inside a composed segment sits at the end of that segment.
func (b *Buffer) Compose(chain *translit.Chain) (string, int) {
	var out []byte
	cursor := -1
	for start := 0; start < len(b.units); {
		end := start + 1
		for end < len(b.units) && b.units[end].Method == b.units[start].Method {
			end++
		}
		keys := make([]rune, 0, end-start)
		for _, u := range b.units[start:end] {
			keys = append(keys, u.Key)
		}
		m := chain.Method(b.units[start].Method)
		if m == nil {
			m = chain.Method(translit.DirectName)
		}
		pos := start
		for _, seg := range m.Segment(keys) {
			if cursor < 0 && b.cursor == pos {
				cursor = utf8.RuneCount(out)
			}
			out = append(out, seg.Text...)
			pos += seg.Keys
			if cursor < 0 && b.cursor < pos {
				cursor = utf8.RuneCount(out)
			}
		}
		start = end
	}
	if cursor < 0 {
		cursor = utf8.RuneCount(out)
	}
	return string(out), cursor
}

// Text returns the visible text.
func (b *Buffer) Text(chain *translit.Chain) string {
	text, _ := b.Compose(chain)
	return text
}

// SetText replaces the buffer with already composed text typed directly,
// cursor at the given rune index.
func (b *Buffer) SetText(text string, cursor int) {
	b.units = b.units[:0]
	for _, r := range text {
		b.units = append(b.units, Unit{Key: r, Method: translit.DirectName})
	}
	b.MoveTo(cursor)
}
