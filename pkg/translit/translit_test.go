package translit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, name string) Method {
	t.Helper()
	m, err := New(name)
	require.NoError(t, err)
	return m
}

func TestLatinPostfix(t *testing.T) {
	m := mustNew(t, "t-latn-post")
	tests := []struct {
		keys, want string
	}{
		{`a"`, "ä"},
		{`Glu"hwu"rmchen`, "Glühwürmchen"},
		{`e'te'`, "été"},
		{"e`", "è"},
		{"a^", "â"},
		{"n~", "ñ"},
		{"c,a", "ça"},
		{"o/", "ø"},
		{"z<", "ž"},
		{`a""`, `a"`},
		{`a"""`, `a""`},
		{"plain", "plain"},
		{`1"`, `1"`},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			assert.Equal(t, tt.want, Transliterate(m, []rune(tt.keys)))
		})
	}
}

func TestITRANS(t *testing.T) {
	for _, name := range []string{"hi-itrans", "mr-itrans"} {
		m := mustNew(t, name)
		tests := []struct {
			keys, want string
		}{
			{"guru", "गुरु"},
			{"namaste", "नमस्ते"},
			{"bhaarat", "भारत्"},
			{"kai", "कै"},
			{"a", "अ"},
			{"0123456789", "०१२३४५६७८९"},
			{"shrii", "श्री"},
			{"aMsh", "अंश्"},
		}
		for _, tt := range tests {
			t.Run(name+"/"+tt.keys, func(t *testing.T) {
				assert.Equal(t, tt.want, Transliterate(m, []rune(tt.keys)))
			})
		}
	}
}

func TestRomaja(t *testing.T) {
	m := mustNew(t, "ko-romaja")
	tests := []struct {
		keys, want string
		pending    bool
	}{
		{"annyeonghasey", "안녕하세이", true},
		{"annyeonghaseyo", "안녕하세요", false},
		{"hangeul", "한글", true},
		{"anj", "앉", true},
		{"anjda", "앉다", true},
		{"ssi", "씨", false},
		{"tt", "ㄸ", true},
		{"c", "c", true},
		{"i.", "이.", false},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			assert.Equal(t, tt.want, Transliterate(m, []rune(tt.keys)))
			assert.Equal(t, tt.pending, m.Pending([]rune(tt.keys)))
		})
	}

	res := Feed(m, []rune("annyeonghasey"), 'o')
	assert.Equal(t, Produced, res.Kind)
	assert.Equal(t, "요", res.Output)
	assert.Equal(t, 1, res.Consumed)
	assert.Equal(t, Rejected, Feed(m, nil, 'x').Kind)
}

func TestSegmentsCoverEveryKey(t *testing.T) {
	for _, name := range Names() {
		m := mustNew(t, name)
		for _, in := range []string{"guru", `Glu"hwu"rmchen`, "a;. b", "x~n.Dh||", `a"""`} {
			total := 0
			for _, s := range m.Segment([]rune(in)) {
				total += s.Keys
			}
			assert.Equal(t, len([]rune(in)), total, "%s %q", name, in)
		}
	}
}

func TestFeed(t *testing.T) {
	lp := mustNew(t, "t-latn-post")
	res := Feed(lp, []rune("a"), '"')
	assert.Equal(t, Pending, res.Kind)
	assert.Equal(t, "ä", res.Output)
	assert.Equal(t, 1, res.Consumed)

	res = Feed(lp, []rune("x"), '5')
	assert.Equal(t, Produced, res.Kind)
	assert.Equal(t, 0, res.Consumed)

	it := mustNew(t, "hi-itrans")
	res = Feed(it, []rune("g"), 'u')
	assert.Equal(t, "गु", res.Output)
	assert.Equal(t, 1, res.Consumed)

	assert.Equal(t, Rejected, Feed(it, nil, 'ü').Kind)
	assert.Equal(t, Rejected, Feed(it, nil, ' ').Kind)
}

func TestMerges(t *testing.T) {
	lp := mustNew(t, "t-latn-post")
	assert.True(t, Merges(lp, []rune("a"), '"'))
	assert.False(t, Merges(lp, []rune("a"), 'b'))
	assert.False(t, Merges(lp, nil, '.'))

	d := mustNew(t, DirectName)
	assert.False(t, Merges(d, []rune("a;"), '.'))
}

func TestChain(t *testing.T) {
	c, err := NewChain([]string{"mr-itrans", "NoIME"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mr-itrans", "NoIME"}, c.Names())
	assert.Equal(t, "mr-itrans", c.Select('g').Name())
	assert.Equal(t, "NoIME", c.Select('ü').Name())

	res := c.Feed(nil, 'ü')
	assert.Equal(t, "NoIME", res.Method)

	// Each method only sees the keys it composed itself.
	runs := map[string][]rune{"mr-itrans": []rune("k"), "NoIME": []rune("ü")}
	res = c.FeedRuns(func(name string) []rune { return runs[name] }, 'a')
	assert.Equal(t, "mr-itrans", res.Method)
	assert.Equal(t, "क", res.Output)
	assert.Equal(t, 1, res.Consumed)

	c.Rotate(1)
	assert.Equal(t, []string{"NoIME", "mr-itrans"}, c.Names())
	c.Rotate(-1)
	assert.Equal(t, "mr-itrans", c.Current().Name())
}

func TestChainAddsDirectAndReportsUnknown(t *testing.T) {
	c, err := NewChain([]string{"t-latn-post", "xx-nonsense"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownMethod))
	assert.Equal(t, []string{"t-latn-post", "NoIME"}, c.Names())
}
