package engine

import (
	"testing"

	"github.com/bastiangx/wordboost/pkg/suggest"
	"github.com/bastiangx/wordboost/pkg/translit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferOf(method string, text string) *Buffer {
	b := &Buffer{}
	for _, r := range text {
		b.Insert(Unit{Key: r, Method: method})
	}
	return b
}

func TestBufferCompose(t *testing.T) {
	chain, err := translit.NewChain([]string{"t-latn-post", "NoIME"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		keys       string
		cursor     int
		wantText   string
		wantCursor int
	}{
		{"end", `Glu"h`, 5, "Glüh", 4},
		{"start", `Glu"h`, 0, "Glüh", 0},
		{"before pair", `Glu"h`, 2, "Glüh", 2},
		{"inside pair", `Glu"h`, 3, "Glüh", 3},
		{"after pair", `Glu"h`, 4, "Glüh", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bufferOf("t-latn-post", tt.keys)
			b.MoveTo(tt.cursor)
			text, cursor := b.Compose(chain)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantCursor, cursor)
		})
	}
}

func TestBufferMixedRuns(t *testing.T) {
	chain, err := translit.NewChain([]string{"hi-itrans", "NoIME"})
	require.NoError(t, err)
	b := bufferOf("hi-itrans", "ka")
	b.Insert(Unit{Key: ' ', Method: translit.DirectName})
	b.Insert(Unit{Key: 'k', Method: "hi-itrans"})
	assert.Equal(t, "क क्", b.Text(chain))

	b.Reassign(chain)
	assert.Equal(t, translit.DirectName, b.Units()[2].Method)
}

func TestBufferEditing(t *testing.T) {
	chain, err := translit.NewChain(nil)
	require.NoError(t, err)

	b := bufferOf(translit.DirectName, "hello world")
	b.WordLeft()
	assert.Equal(t, 6, b.Cursor())
	b.WordLeft()
	assert.Equal(t, 0, b.Cursor())
	b.WordRight()
	assert.Equal(t, 5, b.Cursor())

	assert.True(t, b.Backspace())
	assert.Equal(t, "hell world", b.Text(chain))
	assert.True(t, b.Delete())
	assert.Equal(t, "hellworld", b.Text(chain))

	b.MoveTo(-3)
	assert.False(t, b.Backspace())
	b.MoveTo(99)
	assert.False(t, b.Delete())
	assert.Equal(t, []rune("world"), b.RunBefore(translit.DirectName)[4:])

	b.SetText("foo", 2)
	text, cursor := b.Compose(chain)
	assert.Equal(t, "foo", text)
	assert.Equal(t, 2, cursor)

	b.Reset()
	assert.True(t, b.Empty())
}

func TestLookupTable(t *testing.T) {
	list := []suggest.Candidate{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	lt := newLookupTable(2, "vertical")
	lt.set(list)

	_, ok := lt.selected()
	assert.False(t, ok)
	lt.next()
	c, ok := lt.selected()
	require.True(t, ok)
	assert.Equal(t, "a", c.Text)
	lt.previous()
	assert.Equal(t, 2, lt.cursor)

	idx, ok := lt.onPage(0)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	_, ok = lt.onPage(1)
	assert.False(t, ok)

	lt.pageUp()
	assert.Equal(t, 0, lt.cursor)
	lt.pageDown()
	assert.Equal(t, 2, lt.cursor)
	lt.pageDown()
	assert.Equal(t, 2, lt.cursor)

	lt.hideCursor()
	assert.False(t, lt.cursorVisible)
	assert.Equal(t, []suggest.Candidate{{Text: "a"}, {Text: "b"}}, lt.snapshot(false).Page())
}
